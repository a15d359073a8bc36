package simulation

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// SetpointChange sets the target temperature from At onwards
type SetpointChange struct {
	At     time.Duration
	Target float64
}

// Schedule is a list of setpoint changes, ordered by time
type Schedule []SetpointChange

// Target returns the setpoint in effect at the given elapsed time
func (s Schedule) Target(elapsed time.Duration) float64 {
	target := 0.0
	for _, change := range s {
		if change.At > elapsed {
			break
		}
		target = change.Target
	}
	return target
}

// ParseSchedule parses a list of "<duration>=<target>" entries, e.g. "0s=21", "5m=23.5".
func ParseSchedule(entries []string) (Schedule, error) {
	var result Schedule
	for _, entry := range entries {
		at, target, found := strings.Cut(entry, "=")
		if !found {
			return nil, fmt.Errorf("invalid setpoint %q, expected <duration>=<target>", entry)
		}
		duration, err := time.ParseDuration(strings.TrimSpace(at))
		if err != nil {
			return nil, fmt.Errorf("invalid setpoint time %q: %w", at, err)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(target), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid setpoint target %q: %w", target, err)
		}
		result = append(result, SetpointChange{At: duration, Target: value})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].At < result[j].At
	})
	return result, nil
}
