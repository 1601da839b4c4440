package targeting

import (
	"fmt"
	"strings"
)

// Requirement bounds how many targets a selection may hold.
type Requirement struct {
	MinTargets int
	MaxTargets int
}

// CanAdd reports whether one more target fits under the maximum.
func (r Requirement) CanAdd(selected int) bool {
	return selected < r.MaxTargets
}

// Complete reports whether a selection of the given size can be committed.
func (r Requirement) Complete(selected int) bool {
	return selected >= r.MinTargets && selected <= r.MaxTargets
}

// Validate checks a selection of target IDs against the requirement.
func (r Requirement) Validate(targets []string) error {
	count := len(targets)
	if !r.Complete(count) {
		return fmt.Errorf("need between %d and %d targets, got %d", r.MinTargets, r.MaxTargets, count)
	}
	seen := make(map[string]bool, count)
	for _, id := range targets {
		if seen[id] {
			return fmt.Errorf("duplicate target: %s", id)
		}
		seen[id] = true
	}
	return nil
}

// FormatTargets formats target IDs into a human-readable string.
func FormatTargets(targets []string) string {
	if len(targets) == 0 {
		return ""
	}
	return strings.Join(targets, ",")
}
