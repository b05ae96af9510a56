package dashboard

import "epidash/internal/logging"

// ShowError logs msg and shows it as a banner that dismisses itself after
// the configured banner lifetime. Repeated messages stack.
func (d *Dashboard) ShowError(msg string) {
	d.logger.Error(msg, logging.String(logging.FieldEventType, "banner_shown"))
	d.screen.PushBanner(msg, d.bannerTTL)
}
