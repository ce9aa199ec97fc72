package config

const (
	defaultConfigPath            = "~/.config/roulette/config.toml"
	defaultDataDir               = "~/.local/share/roulette"
	defaultLogDir                = "~/.local/share/roulette/logs"
	defaultAPIBind               = "127.0.0.1:8080"
	defaultTMDBBaseURL           = "https://api.themoviedb.org/3"
	defaultTMDBImageBaseURL      = "https://image.tmdb.org/t/p/original"
	defaultTMDBLanguage          = "en-US"
	defaultTMDBRequestTimeout    = 10
	defaultStoreDriver           = StoreDriverSQLite
	defaultImporterMaxPages      = 10
	defaultImporterMaxNewRecords = 200
	defaultImporterMinSeedCount  = 50
	defaultRefreshIntervalHours  = 24
	defaultRefreshMaxAgeDays     = 30
	defaultRefreshMaxRecords     = 20
	defaultSessionCookieName     = "roulette_session"
	defaultSessionIdleTTLMinutes = 24 * 60
	defaultSessionMaxSessions    = 10000
	defaultNtfyRequestTimeout    = 10
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultLogRetentionDays      = 30
)

// Store drivers.
const (
	StoreDriverSQLite   = "sqlite"
	StoreDriverPostgres = "postgres"
)

// Selector no-match policies.
const (
	NoMatchNotFound   = "not_found"
	NoMatchUnfiltered = "unfiltered"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		TMDB: TMDB{
			BaseURL:               defaultTMDBBaseURL,
			ImageBaseURL:          defaultTMDBImageBaseURL,
			Language:              defaultTMDBLanguage,
			RequestTimeoutSeconds: defaultTMDBRequestTimeout,
		},
		Store: Store{
			Driver: defaultStoreDriver,
		},
		Importer: Importer{
			MaxPages:      defaultImporterMaxPages,
			MaxNewRecords: defaultImporterMaxNewRecords,
			MinSeedCount:  defaultImporterMinSeedCount,
			SeedOnStart:   true,
		},
		Refresh: Refresh{
			Enabled:       true,
			IntervalHours: defaultRefreshIntervalHours,
			MaxAgeDays:    defaultRefreshMaxAgeDays,
			MaxRecords:    defaultRefreshMaxRecords,
		},
		Selector: Selector{
			NoMatch: NoMatchNotFound,
		},
		Session: Session{
			CookieName:     defaultSessionCookieName,
			IdleTTLMinutes: defaultSessionIdleTTLMinutes,
			MaxSessions:    defaultSessionMaxSessions,
		},
		Notifications: Notifications{
			RequestTimeoutSeconds: defaultNtfyRequestTimeout,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
