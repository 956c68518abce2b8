package domain

import (
	"math"
	"time"
)

// MessageDestructionTimeout is the set of ephemeral lifetimes, in seconds.
type MessageDestructionTimeout int64

const (
	NoTimeout         MessageDestructionTimeout = 0
	FiveSeconds       MessageDestructionTimeout = 5
	FifteenSeconds    MessageDestructionTimeout = 15
	OneMinute         MessageDestructionTimeout = 60
	FiveMinutes       MessageDestructionTimeout = 300
	TwentyFiveMinutes MessageDestructionTimeout = 1500
)

// AllTimeouts is ordered ascending.
var AllTimeouts = []MessageDestructionTimeout{
	NoTimeout, FiveSeconds, FifteenSeconds, OneMinute, FiveMinutes, TwentyFiveMinutes,
}

func (t MessageDestructionTimeout) Duration() time.Duration {
	return time.Duration(t) * time.Second
}

func (t MessageDestructionTimeout) String() string {
	switch t {
	case NoTimeout:
		return "off"
	case FiveSeconds:
		return "5s"
	case FifteenSeconds:
		return "15s"
	case OneMinute:
		return "1m"
	case FiveMinutes:
		return "5m"
	case TwentyFiveMinutes:
		return "25m"
	default:
		return t.Duration().String()
	}
}

// ClosestTimeout maps an arbitrary duration onto the nearest allowed timeout.
// A non positive duration means no timeout, anything between zero and the
// smallest timeout is rounded up to it. Ties resolve toward the lower value.
func ClosestTimeout(d time.Duration) MessageDestructionTimeout {
	if d <= 0 {
		return NoTimeout
	}
	seconds := d.Seconds()
	closest := FiveSeconds
	best := math.Abs(seconds - float64(closest))
	for _, t := range AllTimeouts[2:] {
		distance := math.Abs(seconds - float64(t))
		if distance < best {
			closest, best = t, distance
		}
	}
	return closest
}
