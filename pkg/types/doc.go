// Package types defines the Tracker interface, the habit and entry entity
// types, and the standard errors shared by the storage backend, the HTTP
// server, and the CLI.
package types
