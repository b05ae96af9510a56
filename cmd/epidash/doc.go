// Package main hosts the epidash CLI entrypoint and command graph.
//
// The Cobra-based command tree starts the full-screen live dashboard, takes
// one-shot snapshots of the statistics backend, tails the dashboard log, and
// scaffolds or checks configuration.
// It centralizes configuration resolution and logger setup so subcommands
// only wire the internal packages together.
//
// Keep this package lean: behaviour belongs in internal/dashboard and its
// collaborators, and commands here only surface it.
package main
