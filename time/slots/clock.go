package slots

import (
	"time"

	"github.com/prysmaticlabs/enginebridge/config/params"
	"github.com/prysmaticlabs/enginebridge/consensus-types/primitives"
)

// Clock maps slots to wall clock time relative to a fixed genesis time.
type Clock struct {
	genesis time.Time
	now     func() time.Time
}

// ClockOpt adjusts a Clock on construction.
type ClockOpt func(*Clock)

// WithNower overrides the time source, mostly used by tests.
func WithNower(n func() time.Time) ClockOpt {
	return func(c *Clock) {
		c.now = n
	}
}

// NewClock creates a clock anchored at the given genesis time.
func NewClock(genesis time.Time, opts ...ClockOpt) *Clock {
	c := &Clock{genesis: genesis, now: time.Now}
	for _, o := range opts {
		o(c)
	}
	return c
}

// GenesisTime returns the genesis timestamp.
func (c *Clock) GenesisTime() time.Time {
	return c.genesis
}

// StartOf returns the start of the slot as a duration since the UNIX epoch. The boolean is false
// when the result cannot be represented.
func (c *Clock) StartOf(slot primitives.Slot) (time.Duration, bool) {
	if c.genesis.Unix() < 0 {
		return 0, false
	}
	t, err := ToTime(uint64(c.genesis.Unix()), slot)
	if err != nil {
		return 0, false
	}
	secs := t.Unix()
	if secs > int64(1<<63-1)/int64(time.Second) {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}

// CurrentSlot returns the slot at the clock's current time.
func (c *Clock) CurrentSlot() primitives.Slot {
	now := c.now()
	if now.Before(c.genesis) {
		return 0
	}
	return primitives.Slot(uint64(now.Sub(c.genesis).Seconds()) / params.BeaconConfig().SecondsPerSlot)
}
