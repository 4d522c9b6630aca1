// Command timebombs checks timebomb manifests and fails CI builds once
// timebombs cross their thresholds.
package main

import "github.com/oshokin/timebombs/cli"

func main() {
	cli.Execute()
}
