// Package retry provides exponential backoff retry logic for transient failures.
//
// [WithExponentialBackoff] retries an operation with configurable max retries,
// initial delay, and maximum delay. It is used for control-plane API calls and
// other operations that may fail transiently. Errors marked with [Fatal] stop
// the loop immediately.
package retry
