// Package async provides utilities for parallel task execution with
// error collection.
//
// The [RunParallel] function executes independent operations concurrently,
// optionally bounded by a concurrency limit, and returns all errors joined.
// The metadata cache uses it to fan out distinct cloud lookups.
package async
