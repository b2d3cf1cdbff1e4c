// Package handlers implements the business logic for hpcgate commands.
//
// Handlers load the cluster document, build the resource tree, run the
// validation engine and render the report. Cloud access goes through
// package-level factories so tests can substitute fakes.
package handlers
