package session

import (
	"go.uber.org/zap"

	"github.com/magefree/mage-client-go/internal/game/view"
	"github.com/magefree/mage-client-go/internal/protocol"
)

const noBlocker = -1

type attackDeclaration struct {
	status     view.DeclarationStatus
	available  []int
	mustAttack []int
	selected   []int
}

type blockDeclaration struct {
	status      view.DeclarationStatus
	available   []int
	attackers   []int
	selected    int
	assignments []view.BlockAssignment
}

// BeginAttackerDeclaration opens the attacker declaration offered by the
// server. Creatures that must attack start selected.
func (s *State) BeginAttackerDeclaration(available, mustAttack []int) {
	s.attack = attackDeclaration{
		status:     view.DeclarationProposed,
		available:  cloneSlice(available),
		mustAttack: cloneSlice(mustAttack),
	}
	for _, idx := range mustAttack {
		if !containsInt(s.attack.selected, idx) {
			s.attack.selected = append(s.attack.selected, idx)
		}
	}
	s.logger.Debug("declaring attackers",
		zap.Ints("available", available),
		zap.Ints("must_attack", mustAttack),
	)
}

// AttackerStatus returns the state of the attacker declaration.
func (s *State) AttackerStatus() view.DeclarationStatus {
	return s.attack.status
}

// CanAttack reports whether the creature at index may be toggled.
func (s *State) CanAttack(index int) bool {
	return s.attack.status == view.DeclarationProposed && containsInt(s.attack.available, index)
}

// MustAttack reports whether the creature at index is forced to attack.
func (s *State) MustAttack(index int) bool {
	return s.attack.status == view.DeclarationProposed && containsInt(s.attack.mustAttack, index)
}

// IsSelectedAttacker reports whether the creature at index is selected.
func (s *State) IsSelectedAttacker(index int) bool {
	return containsInt(s.attack.selected, index)
}

// SelectedAttackers returns the selected attacker indices in selection
// order.
func (s *State) SelectedAttackers() []int {
	return cloneSlice(s.attack.selected)
}

// ToggleAttacker adds or removes an attacker. Deselecting a creature that
// must attack is a no-op.
func (s *State) ToggleAttacker(index int) error {
	if s.attack.status != view.DeclarationProposed {
		return ErrNoDeclaration
	}
	if !containsInt(s.attack.available, index) {
		return ErrNotAvailable
	}
	if containsInt(s.attack.selected, index) {
		if containsInt(s.attack.mustAttack, index) {
			return nil
		}
		s.attack.selected = removeInt(s.attack.selected, index)
		return nil
	}
	s.attack.selected = append(s.attack.selected, index)
	return nil
}

// ConfirmAttackers sends the selected attackers. The selection stays
// visible until the confirming battlefield arrives.
func (s *State) ConfirmAttackers() error {
	if s.attack.status != view.DeclarationProposed {
		return ErrNoDeclaration
	}
	indices := make([]int, len(s.attack.selected))
	copy(indices, s.attack.selected)
	if err := s.send(protocol.DeclareAttackers{AttackerIndices: indices}); err != nil {
		return err
	}
	s.attack.status = view.DeclarationConfirmed
	s.attack.available = nil
	s.attack.mustAttack = nil
	return nil
}

// BeginBlockerDeclaration opens the blocker declaration offered by the
// server.
func (s *State) BeginBlockerDeclaration(available, attackers []int) {
	s.block = blockDeclaration{
		status:    view.DeclarationProposed,
		available: cloneSlice(available),
		attackers: cloneSlice(attackers),
		selected:  noBlocker,
	}
	s.logger.Debug("declaring blockers",
		zap.Ints("available", available),
		zap.Ints("attackers", attackers),
	)
}

// BlockerStatus returns the state of the blocker declaration.
func (s *State) BlockerStatus() view.DeclarationStatus {
	return s.block.status
}

// CanBlock reports whether my creature at index may block.
func (s *State) CanBlock(index int) bool {
	return s.block.status == view.DeclarationProposed && containsInt(s.block.available, index)
}

// SelectedBlocker returns the blocker waiting for an attacker, if any.
func (s *State) SelectedBlocker() (int, bool) {
	return s.block.selected, s.block.selected != noBlocker
}

// IsAssignedBlocker reports whether my creature at index has a local
// assignment.
func (s *State) IsAssignedBlocker(index int) bool {
	for _, a := range s.block.assignments {
		if a.BlockerIndex == index {
			return true
		}
	}
	return false
}

// IsBlockTarget reports whether the opposing creature at index can receive
// the selected blocker.
func (s *State) IsBlockTarget(index int) bool {
	if s.block.status != view.DeclarationProposed || s.block.selected == noBlocker {
		return false
	}
	return s.isAttacker(index)
}

// BlockAssignments returns the local block assignments.
func (s *State) BlockAssignments() []view.BlockAssignment {
	return cloneSlice(s.block.assignments)
}

// SelectBlocker picks my creature at index as the next blocker. Selecting a
// creature that already blocks removes its assignments instead.
func (s *State) SelectBlocker(index int) error {
	if s.block.status != view.DeclarationProposed {
		return ErrNoDeclaration
	}
	if !containsInt(s.block.available, index) {
		return ErrNotAvailable
	}
	if s.IsAssignedBlocker(index) {
		kept := s.block.assignments[:0:0]
		for _, a := range s.block.assignments {
			if a.BlockerIndex != index {
				kept = append(kept, a)
			}
		}
		s.block.assignments = kept
		return nil
	}
	s.block.selected = index
	return nil
}

// AssignBlock assigns the selected blocker to the opposing attacker at
// attackerIndex.
func (s *State) AssignBlock(attackerIndex int) error {
	if s.block.status != view.DeclarationProposed {
		return ErrNoDeclaration
	}
	if s.block.selected == noBlocker {
		return ErrNoBlockerSelected
	}
	if err := s.AddBlock(s.block.selected, attackerIndex); err != nil {
		return err
	}
	s.block.selected = noBlocker
	return nil
}

// AddBlock records that my blocker blocks an attacker without going through
// the selection. A blocker may block several attackers.
func (s *State) AddBlock(blockerIndex, attackerIndex int) error {
	if s.block.status != view.DeclarationProposed {
		return ErrNoDeclaration
	}
	if !containsInt(s.block.available, blockerIndex) || !s.isAttacker(attackerIndex) {
		return ErrNotAvailable
	}
	pair := view.BlockAssignment{BlockerIndex: blockerIndex, AttackerIndex: attackerIndex}
	for _, a := range s.block.assignments {
		if a == pair {
			return nil
		}
	}
	s.block.assignments = append(s.block.assignments, pair)
	return nil
}

// CancelBlockerSelection drops the selected blocker.
func (s *State) CancelBlockerSelection() {
	s.block.selected = noBlocker
}

// ConfirmBlockers sends the local block assignments.
func (s *State) ConfirmBlockers() error {
	if s.block.status != view.DeclarationProposed {
		return ErrNoDeclaration
	}
	pairs := make([]protocol.BlockerAssignment, len(s.block.assignments))
	for i, a := range s.block.assignments {
		pairs[i] = protocol.BlockerAssignment{BlockerIndex: a.BlockerIndex, AttackerIndex: a.AttackerIndex}
	}
	if err := s.send(protocol.DeclareBlockers{BlockerAssignments: pairs}); err != nil {
		return err
	}
	s.block.status = view.DeclarationConfirmed
	s.block.available = nil
	s.block.attackers = nil
	s.block.selected = noBlocker
	return nil
}

// CombatInput collects what the combat view needs.
func (s *State) CombatInput() view.CombatInput {
	return view.CombatInput{
		Mine:              s.MyBattlefield(),
		Theirs:            s.OpponentBattlefield(),
		AttackerStatus:    s.attack.status,
		SelectedAttackers: cloneSlice(s.attack.selected),
		BlockerStatus:     s.block.status,
		BlockAssignments:  cloneSlice(s.block.assignments),
	}
}

// CombatPairings derives the combat zone from the snapshot and the local
// declarations.
func (s *State) CombatPairings() []view.CombatGroup {
	return view.CombatPairings(s.CombatInput())
}

func (s *State) isAttacker(index int) bool {
	if len(s.block.attackers) > 0 {
		return containsInt(s.block.attackers, index)
	}
	opp := s.OpponentBattlefield()
	return index >= 0 && index < len(opp) && opp[index].Attacking
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func removeInt(values []int, v int) []int {
	out := make([]int, 0, len(values))
	for _, x := range values {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}
