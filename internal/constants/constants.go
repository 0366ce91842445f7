package constants

import "time"

const (
	ExternalAPITimeout = 10 * time.Second
	RequestTimeout     = 60 * time.Second
	ModelInvokeTimeout = 45 * time.Second
	DatabaseTimeout    = 5 * time.Second
)

const (
	// RiotMaxAttempts is the total attempt budget for non-429 failures.
	RiotMaxAttempts = 3
	RiotRetryDelay  = 1 * time.Second

	// RiotMaxRateLimitWaits caps how many Retry-After suspensions a single
	// call will honor before giving up with a timeout.
	RiotMaxRateLimitWaits    = 8
	RiotDefaultRetryAfterSec = 1
)

const (
	MatchHistoryCount = 15
	DeepAnalysisCount = 5
	TopMasteryCount   = 5

	// EarlyGameWindow bounds "early purchase" events.
	EarlyGameWindow = 15 * time.Minute

	// AtTenMinuteFrame is the timeline frame index read for the
	// state-at-10-minutes snapshot.
	AtTenMinuteFrame = 10
)

const (
	// MaxAgentTurns caps the coach tool-calling loop.
	MaxAgentTurns = 5

	AnalystMaxTokens   = 4096
	AnalystTemperature = 0.5
	CoachMaxTokens     = 1024
	CoachTemperature   = 0.7
)

const (
	SessionTTL         = 1 * time.Hour
	SessionSweepPeriod = 1 * time.Minute
)

const (
	DBMaxOpenConns    = 10
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)
