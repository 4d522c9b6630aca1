// Package timeparsing turns user-supplied text into instants.
//
// Deadlines accept ISO-8601 only and fail fast on anything else. Evaluation
// moments (the CLI --at flag) additionally accept natural language such as
// "next monday" or "in 2 weeks", resolved against a base instant.
package timeparsing
