// Package charts owns the four dashboard charts.
//
// Each chart is created once with a baseline Option carrying its title,
// legend, colours, and animation duration. Data refreshes arrive as a Patch
// holding only categories and values; styling always comes from the
// baseline. Applying a patch starts an eased transition from the values on
// screen to the new ones, which the frame loop advances by redrawing.
//
// Registry binds charts to screen regions and routes dataset updates to the
// right chart through a fixed updater table.
package charts
