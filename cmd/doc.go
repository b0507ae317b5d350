// Package cmd implements the command-line interface of ephemeral.
// It provides a hierarchical command structure for running the server and
// for talking to it as a client.
//
// The package is organized into several subpackages:
//
//   - serve: Starts and configures the ephemeral server
//   - path: Client commands for path operations (get, post, delete, head, raw, perf)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// Flags can also be set through environment variables with the prefix
// EPHEMERAL_ (e.g. EPHEMERAL_LOG_LEVEL=debug), which are also read from .env
// and .env.local.
//
// See ephemeral -help for a list of all commands.
package cmd
