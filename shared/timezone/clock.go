package timezone

import (
	"salonbook/config"
	"time"

	"github.com/rs/zerolog/log"
)

// Clock supplies the current instant. Services take one instead of calling Now directly.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return Now()
}

// NewClock configures the application timezone from cfg and returns a Clock
// reading the system time in it.
func NewClock(cfg *config.Config) Clock {
	if err := Configure(cfg.App.Timezone); err != nil {
		log.Error().Err(err).Msg("Falling back to UTC. Use IANA names such as 'Asia/Jakarta' or 'America/New_York'")
	}

	return systemClock{}
}

// FixedClock always reports the same instant.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time {
	return c.At
}

// StartOfDay returns midnight of t's calendar day in the application timezone.
func StartOfDay(t time.Time) time.Time {
	local := ToAppTime(t)

	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
}

// DayBounds returns the half-open [start, end) interval covering t's calendar day.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := StartOfDay(t)

	return start, start.AddDate(0, 0, 1)
}
