/*
Package observability turns interpreter lifecycle events into logs and Prometheus metrics.

Hooks from this package plug into pagewizard.WithLifecycleHooks; Combine lets
several hook sets observe the same run.
*/
package observability
