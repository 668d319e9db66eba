// Package task provides a named task registry with pre-task resolution.
// Pre-tasks run depth-first before the task that declared them, receive
// the same arguments, and run at most once per invocation.
package task
