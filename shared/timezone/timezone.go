package timezone

import (
	"fmt"
	"sync"
	"time"

	"hostel/config"

	"github.com/rs/zerolog/log"
)

// location resolves APP_TIMEZONE once. Unknown names fall back to UTC.
var location = sync.OnceValue(func() *time.Location {
	name := config.Get().App.Timezone
	if name == "" {
		log.Warn().Msg("No timezone configured, using UTC")

		return time.UTC
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("Unknown timezone, falling back to UTC")

		return time.UTC
	}

	log.Info().Str("timezone", loc.String()).Msg("Application timezone initialized")

	return loc
})

func GetLocation() *time.Location {
	return location()
}

// Now is the wall clock in the application timezone.
func Now() time.Time {
	return time.Now().In(location())
}

func ToAppTime(t time.Time) time.Time {
	return t.In(location())
}

func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}

// Parse reads value as a wall time in the application timezone.
func Parse(layout, value string) (time.Time, error) {
	t, err := time.ParseInLocation(layout, value, location())
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q: %w", value, err)
	}

	return t, nil
}

// ParseDate accepts a calendar date (2006-01-02), taken as midnight in the application
// timezone, or a full RFC 3339 timestamp.
func ParseDate(value string) (time.Time, error) {
	if t, err := Parse(time.DateOnly, value); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}

	return ToAppTime(t), nil
}
