// Package retry provides exponential backoff retry logic for transient failures.
//
// The [WithExponentialBackoff] function retries an operation up to a bounded
// number of attempts with an exponentially growing delay. It is used by the
// metadata cache for cloud lookups that may be throttled. Errors wrapped with
// [Fatal] stop the loop immediately.
package retry
