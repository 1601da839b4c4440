package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magefree/mage-client-go/internal/game/model"
	"github.com/magefree/mage-client-go/internal/game/view"
	"github.com/magefree/mage-client-go/internal/protocol"
)

func creatures(ids ...string) []model.Permanent {
	out := make([]model.Permanent, len(ids))
	for i, id := range ids {
		out[i] = model.Permanent{ID: id, Card: model.Card{Name: id, Type: model.CardTypeCreature}}
	}
	return out
}

func TestAttackers_MustAttackCannotBeDeselected(t *testing.T) {
	s, sender := newTestState(t)
	bf := [][]model.Permanent{creatures("a", "b", "c"), {}}
	s.Apply(Delta{Battlefields: &bf})

	s.BeginAttackerDeclaration([]int{0, 2}, []int{2})
	assert.Equal(t, view.DeclarationProposed, s.AttackerStatus())
	assert.Equal(t, []int{2}, s.SelectedAttackers())
	assert.True(t, s.MustAttack(2))

	require.NoError(t, s.ToggleAttacker(2))
	assert.Equal(t, []int{2}, s.SelectedAttackers())

	assert.ErrorIs(t, s.ToggleAttacker(1), ErrNotAvailable)

	require.NoError(t, s.ConfirmAttackers())
	assert.Equal(t, protocol.DeclareAttackers{AttackerIndices: []int{2}}, sender.last())
	assert.Equal(t, view.DeclarationConfirmed, s.AttackerStatus())
	assert.ErrorIs(t, s.ToggleAttacker(0), ErrNoDeclaration)
}

func TestAttackers_SelectionShownUntilBattlefieldArrives(t *testing.T) {
	s, _ := newTestState(t)
	bf := [][]model.Permanent{creatures("a", "b"), {}}
	s.Apply(Delta{Battlefields: &bf})

	s.BeginAttackerDeclaration([]int{0, 1}, nil)
	require.NoError(t, s.ToggleAttacker(1))
	require.NoError(t, s.ToggleAttacker(0))
	require.NoError(t, s.ToggleAttacker(1))
	require.NoError(t, s.ToggleAttacker(1))
	require.NoError(t, s.ConfirmAttackers())

	groups := s.CombatPairings()
	require.Len(t, groups, 2)
	assert.Equal(t, 0, groups[0].AttackerIndex)
	assert.Equal(t, 1, groups[1].AttackerIndex)

	// The unrelated update keeps the local selection.
	life := []int{20, 20}
	s.Apply(Delta{LifeTotals: &life})
	assert.Equal(t, view.DeclarationConfirmed, s.AttackerStatus())

	confirmed := [][]model.Permanent{creatures("a", "b"), {}}
	confirmed[0][1].Attacking = true
	s.Apply(Delta{Battlefields: &confirmed})

	assert.Equal(t, view.DeclarationIdle, s.AttackerStatus())
	assert.Empty(t, s.SelectedAttackers())
	groups = s.CombatPairings()
	require.Len(t, groups, 1)
	assert.Equal(t, 1, groups[0].AttackerIndex)
	assert.True(t, groups[0].AttackerIsMine)
}

func TestBlockers_AssignAndConfirm(t *testing.T) {
	s, sender := newTestState(t)
	theirs := creatures("x", "y", "z")
	theirs[0].Attacking = true
	theirs[2].Attacking = true
	bf := [][]model.Permanent{creatures("a", "b"), theirs}
	s.Apply(Delta{Battlefields: &bf})

	s.BeginBlockerDeclaration([]int{0, 1}, []int{0, 2})

	assert.ErrorIs(t, s.AssignBlock(0), ErrNoBlockerSelected)
	require.NoError(t, s.SelectBlocker(1))
	assert.True(t, s.IsBlockTarget(2))
	assert.False(t, s.IsBlockTarget(1))
	assert.ErrorIs(t, s.AssignBlock(1), ErrNotAvailable)
	require.NoError(t, s.AssignBlock(2))

	_, selected := s.SelectedBlocker()
	assert.False(t, selected)
	assert.True(t, s.IsAssignedBlocker(1))

	// Multi-block through the direct path; duplicates are ignored.
	require.NoError(t, s.AddBlock(1, 0))
	require.NoError(t, s.AddBlock(1, 0))
	assert.Len(t, s.BlockAssignments(), 2)

	groups := s.CombatPairings()
	require.Len(t, groups, 2)
	for _, g := range groups {
		require.Len(t, g.Blockers, 1)
		assert.Equal(t, 1, g.Blockers[0].Index)
		assert.True(t, g.Blockers[0].IsMine)
	}

	require.NoError(t, s.ConfirmBlockers())
	assert.Equal(t, protocol.DeclareBlockers{BlockerAssignments: []protocol.BlockerAssignment{
		{BlockerIndex: 1, AttackerIndex: 2},
		{BlockerIndex: 1, AttackerIndex: 0},
	}}, sender.last())
	assert.Equal(t, view.DeclarationConfirmed, s.BlockerStatus())
}

func TestBlockers_SelectingAssignedBlockerUnassigns(t *testing.T) {
	s, _ := newTestState(t)
	theirs := creatures("x")
	theirs[0].Attacking = true
	bf := [][]model.Permanent{creatures("a"), theirs}
	s.Apply(Delta{Battlefields: &bf})

	s.BeginBlockerDeclaration([]int{0}, nil)
	require.NoError(t, s.SelectBlocker(0))
	require.True(t, s.IsBlockTarget(0), "falls back to the attacking flag")
	require.NoError(t, s.AssignBlock(0))

	require.NoError(t, s.SelectBlocker(0))
	assert.Empty(t, s.BlockAssignments())
	_, selected := s.SelectedBlocker()
	assert.False(t, selected)

	require.NoError(t, s.SelectBlocker(0))
	s.CancelBlockerSelection()
	_, selected = s.SelectedBlocker()
	assert.False(t, selected)
}

func TestBlockers_ConfirmWithoutBlocks(t *testing.T) {
	s, sender := newTestState(t)
	s.BeginBlockerDeclaration([]int{0}, []int{0})

	require.NoError(t, s.ConfirmBlockers())
	assert.Equal(t, protocol.DeclareBlockers{BlockerAssignments: []protocol.BlockerAssignment{}}, sender.last())
	assert.ErrorIs(t, s.ConfirmBlockers(), ErrNoDeclaration)
}
