// Package model builds the typed resource tree of a cluster document.
//
// [Build] turns a decoded config.Document into a [Cluster]: required fields
// and uniqueness invariants are checked, and every absent field is resolved
// to its default. Each declared field is a [Param] recording the resolved
// value and whether it was implied by a default, so the tree can be exported
// with or without defaults.
//
// Nodes are immutable after Build. The only mutable parts are the
// write-once computed attributes (architecture, vCPU count), which take the
// metadata cache as an explicit argument, and the per-node validation state
// driven by the validation engine.
package model
