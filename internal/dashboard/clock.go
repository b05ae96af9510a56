package dashboard

import (
	"epidash/internal/logging"
	"epidash/internal/screen"
)

// UpdateClock writes the current local date and time into the update time
// element.
func (d *Dashboard) UpdateClock() {
	defer func() {
		if r := recover(); r != nil {
			logging.ErrorWithContext(d.logger, "clock update failed", "clock_failed", logging.Any("panic", r))
		}
	}()
	el, ok := d.screen.Element(screen.IDUpdateTime)
	if !ok {
		logging.WarnWithContext(d.logger, "clock element missing", "element_missing",
			logging.String(logging.FieldElement, screen.IDUpdateTime),
			logging.String(logging.FieldImpact, "update time is not shown"),
		)
		return
	}
	el.SetText(d.formatter.DateTime(d.clock()))
}
