// Package sqlexec adapts a database/sql session to preload.Executor.
package sqlexec
