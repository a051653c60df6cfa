// Package retry drives convergence loops that repeat an operation until it
// succeeds, hits a fatal error, or the context is cancelled.
//
// [Until] is used by the storage domain state machine: every failed attempt is
// reported through an OnRetry hook and the loop restarts from scratch. Errors
// wrapped with [Fatal] stop the loop immediately.
package retry
