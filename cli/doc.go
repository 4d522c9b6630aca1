// Package cli is the timebombs command tree.
//
// The stand-alone binary resolves manifest files only. A host program that
// wants the CLI to see its in-process registries publishes them and embeds
// the commands:
//
//	func main() {
//		timebombs.Publish("app", app.Timebombs)
//		cli.Execute()
//	}
package cli
