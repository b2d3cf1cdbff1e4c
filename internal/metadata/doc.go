// Package metadata provides the memoizing cache in front of read-only cloud
// queries used while validating a cluster document.
//
// The [Cache] is partitioned by [QueryKind]. Each distinct (kind, key) pair
// reaches the [Collaborator] at most once per cache lifetime: concurrent
// callers for the same key coalesce onto one in-flight call, and results,
// including not-found answers and exhausted retries, are kept for the rest
// of the run. Collaborators classify their errors with [NotFound] and
// [Transient]; anything unclassified is treated as fatal.
package metadata
