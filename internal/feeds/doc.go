// Package feeds fetches the five statistics datasets from the backend.
//
// Every fetch is fault-isolated: it yields a Result tagged with either a
// decoded, validated value or the error that prevented one (transport
// failure, non-success status, application error object, malformed or
// inconsistent payload). LoadAll runs the five fetches concurrently and waits
// for all of them to settle; one failure never cancels or hides the others.
package feeds
