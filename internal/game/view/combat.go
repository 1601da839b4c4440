package view

import "github.com/magefree/mage-client-go/internal/game/model"

// DeclarationStatus tracks one combat role (attacker or blocker) through a
// declaration.
type DeclarationStatus int

const (
	// DeclarationIdle means no local declaration exists; the server flags on
	// the battlefield are authoritative.
	DeclarationIdle DeclarationStatus = iota
	// DeclarationProposed means the server offered the declaration and the
	// player is building a local selection.
	DeclarationProposed
	// DeclarationConfirmed means the player committed the local selection and
	// it is shown until the next snapshot replaces it.
	DeclarationConfirmed
)

func (s DeclarationStatus) String() string {
	switch s {
	case DeclarationProposed:
		return "proposed"
	case DeclarationConfirmed:
		return "confirmed"
	default:
		return "idle"
	}
}

// Local reports whether a local selection should be rendered.
func (s DeclarationStatus) Local() bool {
	return s == DeclarationProposed || s == DeclarationConfirmed
}

// BlockAssignment pairs one of my blockers with an opposing attacker.
type BlockAssignment struct {
	BlockerIndex  int `json:"blockerIndex"`
	AttackerIndex int `json:"attackerIndex"`
}

// CombatInput is everything CombatPairings needs.
type CombatInput struct {
	Mine   []model.Permanent
	Theirs []model.Permanent

	AttackerStatus    DeclarationStatus
	SelectedAttackers []int

	BlockerStatus    DeclarationStatus
	BlockAssignments []BlockAssignment
}

// CombatBlocker is one blocker shown under an attacker.
type CombatBlocker struct {
	Index  int
	Perm   model.Permanent
	IsMine bool
}

// CombatGroup is an attacker and the creatures blocking it.
type CombatGroup struct {
	AttackerIndex  int
	Attacker       model.Permanent
	AttackerIsMine bool
	Blockers       []CombatBlocker
}

// CombatPairings derives the combat zone. While my attacker selection is
// local, every selected index is its own group. Otherwise the side with
// attacking permanents is the attacker and each attacker collects its
// confirmed blockers plus any local block assignments.
func CombatPairings(in CombatInput) []CombatGroup {
	var groups []CombatGroup

	if in.AttackerStatus.Local() {
		for _, idx := range in.SelectedAttackers {
			if idx < 0 || idx >= len(in.Mine) {
				continue
			}
			groups = append(groups, CombatGroup{
				AttackerIndex:  idx,
				Attacker:       in.Mine[idx],
				AttackerIsMine: true,
			})
		}
		return groups
	}

	attackers, defenders, attackerIsMine := in.Mine, in.Theirs, true
	if !anyAttacking(in.Mine) {
		if !anyAttacking(in.Theirs) {
			return nil
		}
		attackers, defenders, attackerIsMine = in.Theirs, in.Mine, false
	}

	for idx, perm := range attackers {
		if !perm.Attacking {
			continue
		}
		group := CombatGroup{AttackerIndex: idx, Attacker: perm, AttackerIsMine: attackerIsMine}
		for defIdx, def := range defenders {
			if def.Blocking && def.Blocks(idx) {
				group.Blockers = append(group.Blockers, CombatBlocker{Index: defIdx, Perm: def, IsMine: !attackerIsMine})
			}
		}
		// Local assignments are always my blockers against their attackers.
		if !attackerIsMine && in.BlockerStatus.Local() {
			for _, a := range in.BlockAssignments {
				if a.AttackerIndex != idx || a.BlockerIndex < 0 || a.BlockerIndex >= len(in.Mine) {
					continue
				}
				if hasBlocker(group.Blockers, a.BlockerIndex) {
					continue
				}
				group.Blockers = append(group.Blockers, CombatBlocker{Index: a.BlockerIndex, Perm: in.Mine[a.BlockerIndex], IsMine: true})
			}
		}
		groups = append(groups, group)
	}

	return groups
}

// IndicesInCombat returns the battlefield indices on one side that appear in
// the combat zone, so they can be left out of the regular rows.
func IndicesInCombat(groups []CombatGroup, mine bool) map[int]bool {
	in := make(map[int]bool)
	for _, g := range groups {
		if g.AttackerIsMine == mine {
			in[g.AttackerIndex] = true
		}
		for _, b := range g.Blockers {
			if b.IsMine == mine {
				in[b.Index] = true
			}
		}
	}
	return in
}

// NotInCombat filters creatures down to the ones outside the combat zone.
func NotInCombat(creatures []Indexed, inCombat map[int]bool) []Indexed {
	var out []Indexed
	for _, c := range creatures {
		if !inCombat[c.OriginalIndex] {
			out = append(out, c)
		}
	}
	return out
}

func anyAttacking(bf []model.Permanent) bool {
	for _, p := range bf {
		if p.Attacking {
			return true
		}
	}
	return false
}

func hasBlocker(blockers []CombatBlocker, index int) bool {
	for _, b := range blockers {
		if b.IsMine && b.Index == index {
			return true
		}
	}
	return false
}
