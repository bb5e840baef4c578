package helpers

import (
	"time"

	"github.com/campusleave/leavedesk/internal/pkg/logger"
)

// ParseDuration parses a config duration, falling back to defaultDuration
// on empty or malformed input.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	if durationStr == "" {
		return defaultDuration
	}
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		logger.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}
