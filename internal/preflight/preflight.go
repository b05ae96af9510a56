package preflight

import (
	"context"

	"epidash/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	if cfg.Logging.Dir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Logging.Dir))
	}

	if cfg.Export.Enabled {
		results = append(results, CheckDirectoryAccess("Export directory", cfg.Export.Dir))
	}

	results = append(results, CheckBackend(ctx, cfg.API.BaseURL, cfg.RequestTimeout()))
	return results
}
