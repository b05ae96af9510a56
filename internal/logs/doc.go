// Package logs reads the dashboard's log file for `epidash logs`.
//
// The live dashboard never writes log lines to the terminal, so this is the
// way to inspect fetch failures and refresh cycles while it runs. Tail returns
// the last N lines and an offset; Follow polls from that offset until the
// context ends. Both can keep only the lines for one refresh cycle.
package logs
