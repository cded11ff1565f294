// Package cli provides the interactive jobassist command-line client.
//
// It wires configuration, the gRPC client and a REPL for tracking job
// applications: register or log in, record an application, move it through
// its statuses, and list applications with their per-status counts.
// A background watcher pings the server and shows online or offline in the
// prompt.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
