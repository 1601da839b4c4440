package rules

import (
	"fmt"
	"strings"
)

// Phase represents the broad phases of a Magic: The Gathering turn.
type Phase int

const (
	PhaseBeginning Phase = iota
	PhasePrecombatMain
	PhaseCombat
	PhasePostcombatMain
	PhaseEnding
)

var phaseNames = map[Phase]string{
	PhaseBeginning:      "BEGINNING",
	PhasePrecombatMain:  "PRECOMBAT_MAIN",
	PhaseCombat:         "COMBAT",
	PhasePostcombatMain: "POSTCOMBAT_MAIN",
	PhaseEnding:         "ENDING",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// Step is a turn step as named on the wire.
type Step string

const (
	StepUntap             Step = "UNTAP"
	StepUpkeep            Step = "UPKEEP"
	StepDraw              Step = "DRAW"
	StepPrecombatMain     Step = "PRECOMBAT_MAIN"
	StepBeginningOfCombat Step = "BEGINNING_OF_COMBAT"
	StepDeclareAttackers  Step = "DECLARE_ATTACKERS"
	StepDeclareBlockers   Step = "DECLARE_BLOCKERS"
	StepCombatDamage      Step = "COMBAT_DAMAGE"
	StepEndOfCombat       Step = "END_OF_COMBAT"
	StepPostcombatMain    Step = "POSTCOMBAT_MAIN"
	StepEnd               Step = "END_STEP"
	StepCleanup           Step = "CLEANUP"
)

type turnEntry struct {
	phase Phase
	step  Step
}

// baseTurnSequence is the turn structure in order.
var baseTurnSequence = []turnEntry{
	{PhaseBeginning, StepUntap},
	{PhaseBeginning, StepUpkeep},
	{PhaseBeginning, StepDraw},
	{PhasePrecombatMain, StepPrecombatMain},
	{PhaseCombat, StepBeginningOfCombat},
	{PhaseCombat, StepDeclareAttackers},
	{PhaseCombat, StepDeclareBlockers},
	{PhaseCombat, StepCombatDamage},
	{PhaseCombat, StepEndOfCombat},
	{PhasePostcombatMain, StepPostcombatMain},
	{PhaseEnding, StepEnd},
	{PhaseEnding, StepCleanup},
}

// ParseStep normalizes a wire step name.
func ParseStep(s string) (Step, error) {
	step := Step(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := stepIndex(step); !ok {
		return "", fmt.Errorf("unknown step: %q", s)
	}
	return step, nil
}

// Index returns the position of the step within a turn, or -1.
func (s Step) Index() int {
	idx, _ := stepIndex(s)
	return idx
}

// Phase returns the phase the step belongs to.
func (s Step) Phase() (Phase, bool) {
	idx, ok := stepIndex(s)
	if !ok {
		return 0, false
	}
	return baseTurnSequence[idx].phase, true
}

// IsMain reports whether the step is one of the two main phases.
func (s Step) IsMain() bool {
	return s == StepPrecombatMain || s == StepPostcombatMain
}

// IsForcedStop reports whether the client always stops at the step.
// Main phases are forced stops and cannot be toggled off.
func (s Step) IsForcedStop() bool {
	return s.IsMain()
}

func stepIndex(s Step) (int, bool) {
	for i, entry := range baseTurnSequence {
		if entry.step == s {
			return i, true
		}
	}
	return -1, false
}

// PhaseGroup is a phase with its steps, in turn order.
type PhaseGroup struct {
	Phase Phase
	Steps []Step
}

// PhaseGroups returns the turn structure grouped by phase.
func PhaseGroups() []PhaseGroup {
	groups := make([]PhaseGroup, 0, len(phaseNames))
	for _, entry := range baseTurnSequence {
		if n := len(groups); n > 0 && groups[n-1].Phase == entry.phase {
			groups[n-1].Steps = append(groups[n-1].Steps, entry.step)
			continue
		}
		groups = append(groups, PhaseGroup{Phase: entry.phase, Steps: []Step{entry.step}})
	}
	return groups
}

// SortSteps orders steps by their position within a turn; unknown steps
// sort last by name.
func SortSteps(steps []Step) []Step {
	out := make([]Step, len(steps))
	copy(out, steps)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && stepLess(out[j], out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func stepLess(a, b Step) bool {
	ai, aok := stepIndex(a)
	bi, bok := stepIndex(b)
	switch {
	case aok && bok:
		return ai < bi
	case aok != bok:
		return aok
	default:
		return a < b
	}
}
