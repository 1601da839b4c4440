package view

import (
	"testing"

	"github.com/magefree/mage-client-go/internal/game/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func attacking(id string) model.Permanent {
	p := creature(id)
	p.Attacking = true
	return p
}

func blocking(id string, targets ...int) model.Permanent {
	p := creature(id)
	p.Blocking = true
	p.BlockingTargets = targets
	return p
}

func TestCombatPairings_LocalAttackerSelection(t *testing.T) {
	in := CombatInput{
		Mine:              []model.Permanent{creature("a"), creature("b"), creature("c")},
		Theirs:            []model.Permanent{attacking("stale")},
		AttackerStatus:    DeclarationProposed,
		SelectedAttackers: []int{2, 0},
	}

	groups := CombatPairings(in)

	require.Len(t, groups, 2)
	assert.Equal(t, 2, groups[0].AttackerIndex)
	assert.Equal(t, 0, groups[1].AttackerIndex)
	for _, g := range groups {
		assert.True(t, g.AttackerIsMine)
		assert.Empty(t, g.Blockers)
	}

	in.AttackerStatus = DeclarationConfirmed
	assert.Len(t, CombatPairings(in), 2, "a committed selection stays visible until the next snapshot")
}

func TestCombatPairings_MyAttack(t *testing.T) {
	in := CombatInput{
		Mine:   []model.Permanent{attacking("a"), creature("idle"), attacking("b")},
		Theirs: []model.Permanent{blocking("x", 2), creature("y"), blocking("z", 0, 2)},
	}

	groups := CombatPairings(in)

	require.Len(t, groups, 2)
	assert.Equal(t, 0, groups[0].AttackerIndex)
	require.Len(t, groups[0].Blockers, 1)
	assert.Equal(t, 2, groups[0].Blockers[0].Index)
	assert.False(t, groups[0].Blockers[0].IsMine)

	assert.Equal(t, 2, groups[1].AttackerIndex)
	require.Len(t, groups[1].Blockers, 2, "one creature may block several attackers")
	assert.Equal(t, 0, groups[1].Blockers[0].Index)
	assert.Equal(t, 2, groups[1].Blockers[1].Index)
}

func TestCombatPairings_LocalBlockAssignments(t *testing.T) {
	in := CombatInput{
		Mine:          []model.Permanent{blocking("confirmed", 1), creature("wall"), creature("elf")},
		Theirs:        []model.Permanent{creature("x"), attacking("y")},
		BlockerStatus: DeclarationProposed,
		BlockAssignments: []BlockAssignment{
			{BlockerIndex: 0, AttackerIndex: 1},
			{BlockerIndex: 1, AttackerIndex: 1},
			{BlockerIndex: 2, AttackerIndex: 0},
		},
	}

	groups := CombatPairings(in)

	require.Len(t, groups, 1)
	g := groups[0]
	assert.False(t, g.AttackerIsMine)
	require.Len(t, g.Blockers, 2, "confirmed blocker is not duplicated by its local assignment")
	assert.Equal(t, 0, g.Blockers[0].Index)
	assert.Equal(t, 1, g.Blockers[1].Index)

	in.BlockerStatus = DeclarationIdle
	groups = CombatPairings(in)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Blockers, 1, "local assignments are dropped once the declaration is over")
}

func TestCombatPairings_BlockersReferenceTheirAttacker(t *testing.T) {
	in := CombatInput{
		Mine:             []model.Permanent{blocking("a", 0), blocking("b", 2), creature("c"), blocking("d", 0, 2)},
		Theirs:           []model.Permanent{attacking("x"), creature("y"), attacking("z")},
		BlockerStatus:    DeclarationProposed,
		BlockAssignments: []BlockAssignment{{BlockerIndex: 2, AttackerIndex: 2}},
	}

	for _, g := range CombatPairings(in) {
		for _, b := range g.Blockers {
			local := false
			for _, a := range in.BlockAssignments {
				if a.BlockerIndex == b.Index && a.AttackerIndex == g.AttackerIndex {
					local = true
				}
			}
			assert.True(t, b.Perm.Blocks(g.AttackerIndex) || (local && in.BlockerStatus.Local()),
				"blocker %d under attacker %d", b.Index, g.AttackerIndex)
		}
	}
}

func TestCombatPairings_NoCombat(t *testing.T) {
	assert.Empty(t, CombatPairings(CombatInput{
		Mine:   []model.Permanent{creature("a")},
		Theirs: []model.Permanent{creature("b")},
	}))
}

func TestIndicesInCombat(t *testing.T) {
	groups := CombatPairings(CombatInput{
		Mine:   []model.Permanent{creature("a"), blocking("b", 0)},
		Theirs: []model.Permanent{attacking("x"), creature("y")},
	})

	mine := IndicesInCombat(groups, true)
	theirs := IndicesInCombat(groups, false)
	assert.Equal(t, map[int]bool{1: true}, mine)
	assert.Equal(t, map[int]bool{0: true}, theirs)

	_, creatures := Split([]model.Permanent{creature("a"), blocking("b", 0)})
	rest := NotInCombat(creatures, mine)
	require.Len(t, rest, 1)
	assert.Equal(t, 0, rest[0].OriginalIndex)
}
