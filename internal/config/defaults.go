package config

const (
	defaultBaseURL         = "http://127.0.0.1:8080"
	defaultRequestTimeout  = 10
	defaultClockInterval   = 30
	defaultDataInterval    = 300
	defaultLocale          = "zh-CN"
	defaultFrameRate       = 30
	defaultAnimationMillis = 2000
	defaultBannerSeconds   = 5
	defaultColorMode       = ColorAuto
	defaultExportDir       = "~/.local/share/epidash/charts"
	defaultLogDir          = "~/.local/share/epidash/logs"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		API: API{
			BaseURL:        defaultBaseURL,
			RequestTimeout: defaultRequestTimeout,
		},
		Refresh: Refresh{
			ClockInterval: defaultClockInterval,
			DataInterval:  defaultDataInterval,
		},
		Display: Display{
			Locale:          defaultLocale,
			FrameRate:       defaultFrameRate,
			AnimationMillis: defaultAnimationMillis,
			BannerSeconds:   defaultBannerSeconds,
			Color:           defaultColorMode,
		},
		Export: Export{
			Dir: defaultExportDir,
		},
		Logging: Logging{
			Dir:    defaultLogDir,
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
