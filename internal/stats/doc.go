// Package stats defines the epidemic datasets the dashboard consumes.
//
// Each type mirrors one backend endpoint payload and carries a Validate method
// enforcing the parallel-sequence invariants (labels and values of equal
// length, no negative counts). Values are transient: a refresh cycle replaces
// a dataset wholesale and never merges it with the previous one.
package stats
