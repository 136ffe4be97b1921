// Package identifier derives the short public identifiers of rooms and room change
// requests, for example RM-482913 or RCR-004211.
package identifier

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"time"

	"hostel/shared/constant"
	"hostel/shared/timezone"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	RoomPrefix              = "RM-"
	RoomChangeRequestPrefix = "RCR-"

	DefaultMaxAttempts = 5

	suffixSpace = 1_000_000
)

var (
	// ErrCollision signals that a candidate identifier is already in use.
	ErrCollision = errors.New("identifier already taken")
	ErrExhausted = errors.New("no free identifier found")

	suffixPattern = regexp.MustCompile(`^\d{6}$`)
)

type Factory struct {
	prefix string
	now    func() time.Time
	jitter func(n int) int
}

func NewFactory(prefix string) *Factory {
	return &Factory{
		prefix: prefix,
		now:    timezone.Now,
		jitter: rand.IntN, //nolint:gosec
	}
}

// Next returns the candidate for the given attempt. The first attempt is derived from
// the clock, later ones move away from it by a random offset.
func (f *Factory) Next(attempt int) string {
	suffix := int(f.now().UnixMilli() % suffixSpace)
	if attempt > 0 {
		suffix = (suffix + attempt + f.jitter(suffixSpace-1)) % suffixSpace
	}

	return fmt.Sprintf("%s%06d", f.prefix, suffix)
}

// Assign calls try with fresh candidates until one is accepted. try reports a taken
// identifier with ErrCollision or by surfacing a unique violation from the database.
func (f *Factory) Assign(maxAttempts int, try func(id string) error) (string, error) {
	for attempt := range maxAttempts {
		id := f.Next(attempt)

		err := try(id)
		if err == nil {
			return id, nil
		}

		if !errors.Is(err, ErrCollision) && !IsUniqueViolation(err) {
			return "", err
		}

		log.Warn().Str("id", id).Int("attempt", attempt+1).Msg("identifier collision, deriving a new one")
	}

	return "", fmt.Errorf("%s after %d attempts: %w", f.prefix, maxAttempts, ErrExhausted)
}

// Valid reports whether id carries the factory prefix followed by six digits.
func (f *Factory) Valid(id string) bool {
	if len(id) != len(f.prefix)+6 || id[:len(f.prefix)] != f.prefix {
		return false
	}

	return suffixPattern.MatchString(id[len(f.prefix):])
}

func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == constant.PqErrorCodeUniqueViolation
	}

	return false
}
