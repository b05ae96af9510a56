// Package dashboard wires the data loader, screen, charts, and counters into
// the running dashboard.
//
// A Dashboard initialises exactly once: it paints the clock, creates the
// charts with their baseline options, and performs the first full refresh.
// After that the Scheduler keeps two wall-clock loops alive, one repainting
// the clock and one reloading every dataset, until Teardown stops both.
//
// Failures never escape the controller. Per-dataset fetch errors leave the
// previous visual on screen; initialisation and orchestration failures are
// logged and shown as transient banners.
package dashboard
