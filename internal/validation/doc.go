// Package validation runs the validator catalog against a resource tree.
//
// A [Registry] maps each node kind to an ordered list of rules and holds an
// ordered list of cross-entity rules. A rule gathers its inputs from the
// node and the metadata cache, then calls a pure validator. The [Engine]
// walks the tree pre-order, runs every rule of every node without
// short-circuiting, then runs the cross-entity rules. Result order is tree
// pre-order, then registration order within a node, then cross-entity rules
// in registration order.
package validation
