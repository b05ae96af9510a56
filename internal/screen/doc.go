// Package screen models the dashboard surface: named text elements, chart
// regions, and transient error banners, composed into a terminal frame.
//
// Callers look elements and regions up by identifier. A missing identifier
// is reported through the ok result and is never fatal, so a screen with a
// trimmed layout still renders whatever it does have.
package screen
