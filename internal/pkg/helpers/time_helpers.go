package helpers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/yigit/courseregistry/internal/pkg/apperrors"
)

// ToMinutes converts an "HH:MM" wall-clock time to minutes since midnight.
// The hour has one or two digits, the minute exactly two; signs are rejected.
func ToMinutes(timeOfDay string) (int, error) {
	parts := strings.Split(strings.TrimSpace(timeOfDay), ":")
	if len(parts) != 2 || !isDigits(parts[0], 1, 2) || !isDigits(parts[1], 2, 2) {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrInvalidTimeFormat, timeOfDay)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour > 23 {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrInvalidTimeFormat, timeOfDay)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute > 59 {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrInvalidTimeFormat, timeOfDay)
	}

	return hour*60 + minute, nil
}

func isDigits(s string, minLen, maxLen int) bool {
	if len(s) < minLen || len(s) > maxLen {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FromMinutes formats minutes since midnight as zero-padded "HH:MM".
func FromMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseDuration parses a duration string, returns default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		// Use the global logger here, the configured logger may not exist yet.
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}
