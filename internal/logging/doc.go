// Package logging builds the slog loggers used across epidash.
//
// Console output puts the component, the refresh cycle ("#<cycle_id>") and
// the endpoint, chart or element a line is about in front of the message;
// everything else follows as key=value pairs. JSON output keeps every key as a
// plain field. Both shapes are what the logs command filters on.
package logging
