// Package preflight provides readiness checks for the statistics backend
// and the filesystem paths epidash writes to.
//
// The CLI "epidash config validate" command runs RunAll and renders each
// Result as a status line. Checks never fail the command; they only report.
// Chart export directories are checked only when export is enabled.
package preflight
