package interaction

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/magefree/mage-client-go/internal/game/model"
	"github.com/magefree/mage-client-go/internal/protocol"
)

type recordingSender struct {
	sent []protocol.Command
	err  error
}

func (r *recordingSender) Send(cmd protocol.Command) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, cmd)
	return nil
}

func (r *recordingSender) last() protocol.Command {
	if len(r.sent) == 0 {
		return nil
	}
	return r.sent[len(r.sent)-1]
}

// fakeGame is a hand-built session view.
type fakeGame struct {
	hand          []model.Card
	mine          []model.Permanent
	theirs        []model.Permanent
	graveyards    [][]model.Card
	stack         []model.StackEntry
	playerIDs     []string
	playerNames   map[string]string
	totalMana     int
	playable      map[int]bool
	graveyardLand map[int]bool
	cantTap       map[int]bool
	unusable      map[string]bool
}

func (g *fakeGame) Hand() []model.Card                 { return g.hand }
func (g *fakeGame) MyBattlefield() []model.Permanent   { return g.mine }
func (g *fakeGame) Graveyards() [][]model.Card         { return g.graveyards }
func (g *fakeGame) Stack() []model.StackEntry          { return g.stack }
func (g *fakeGame) PlayerIDs() []string                { return g.playerIDs }
func (g *fakeGame) PlayerName(id string) string        { return g.playerNames[id] }
func (g *fakeGame) TotalMana() int                     { return g.totalMana }
func (g *fakeGame) IsCardPlayable(i int) bool          { return g.playable == nil || g.playable[i] }
func (g *fakeGame) IsGraveyardLandPlayable(i int) bool { return g.graveyardLand[i] }
func (g *fakeGame) CanTapPermanent(i int) bool         { return !g.cantTap[i] }

func (g *fakeGame) CanUseAbility(_ model.Permanent, a model.ActivatedAbility) bool {
	return !g.unusable[a.Description]
}

func (g *fakeGame) FindPermanent(id string) (model.Permanent, bool) {
	for _, bf := range [][]model.Permanent{g.mine, g.theirs} {
		for _, p := range bf {
			if p.ID == id {
				return p, true
			}
		}
	}
	return model.Permanent{}, false
}

func creature(id string) model.Permanent {
	return model.Permanent{ID: id, Card: model.Card{Name: id, Type: model.CardTypeCreature}}
}

func newTestCoordinator(t *testing.T, game *fakeGame) (*Coordinator, *recordingSender) {
	t.Helper()
	if game.playerIDs == nil {
		game.playerIDs = []string{"p1", "p2"}
		game.playerNames = map[string]string{"p1": "Alice", "p2": "Bob"}
	}
	sender := &recordingSender{}
	return New(game, sender, zaptest.NewLogger(t)), sender
}

func TestOffer_RejectedWhileActive(t *testing.T) {
	c, sender := newTestCoordinator(t, &fakeGame{})

	require.NoError(t, c.OfferColorChoice([]string{"RED", "GREEN"}, "Choose a color"))
	err := c.OfferMayAbility("Draw a card?")

	assert.ErrorIs(t, err, ErrInteractionActive)
	assert.Equal(t, KindColorChoice, c.Active().Kind())
	assert.False(t, c.PreemptLocal(), "server-owned choices are never preempted")
	assert.ErrorIs(t, c.Cancel(), ErrNotCancellable)
	assert.Empty(t, sender.sent)

	require.NoError(t, c.ChooseColor("GREEN"))
	assert.True(t, c.Idle())
	assert.Equal(t, protocol.ColorChosen{Color: "GREEN"}, sender.last())
}

func TestOffer_PreemptsLocalInteraction(t *testing.T) {
	game := &fakeGame{hand: []model.Card{{Name: "Shock", NeedsTarget: true}}, mine: []model.Permanent{creature("a")}}
	c, sender := newTestCoordinator(t, game)

	require.NoError(t, c.PlayCard(0))
	require.Equal(t, KindTargeting, c.Active().Kind())

	assert.ErrorIs(t, c.OfferHandChoice([]int{0}, "Discard"), ErrInteractionActive)
	assert.True(t, c.PreemptLocal())
	require.NoError(t, c.OfferHandChoice([]int{0}, "Discard"))
	assert.Equal(t, KindHandChoice, c.Active().Kind())
	assert.Empty(t, sender.sent)
}

func TestSelectionsOutsideOfferAreRejected(t *testing.T) {
	c, sender := newTestCoordinator(t, &fakeGame{})

	require.NoError(t, c.OfferHandChoice([]int{1, 3}, "Choose"))
	assert.ErrorIs(t, c.ChooseHandCard(2), ErrInvalidSelection)
	assert.ErrorIs(t, c.ChooseColor("RED"), ErrNoInteraction)
	require.NoError(t, c.ChooseHandCard(3))
	assert.Equal(t, protocol.CardChosen{CardIndex: 3}, sender.last())

	require.NoError(t, c.OfferPermanentChoice([]string{"a"}, "Choose"))
	assert.ErrorIs(t, c.ChoosePermanent("b"), ErrInvalidSelection)
	require.NoError(t, c.ChoosePermanent("a"))

	require.NoError(t, c.OfferRevealedHandChoice([]model.Card{{}, {}, {}}, []int{2}, "Pick"))
	assert.ErrorIs(t, c.ChooseFromRevealedHand(0), ErrInvalidSelection)
	require.NoError(t, c.ChooseFromRevealedHand(2))
	assert.Equal(t, protocol.CardChosen{CardIndex: 2}, sender.last())

	require.NoError(t, c.OfferGraveyardCardChoice([]int{0, 4}, "Return"))
	assert.ErrorIs(t, c.ChooseGraveyardCard(1), ErrInvalidSelection)
	require.NoError(t, c.ChooseGraveyardCard(4))

	assert.Len(t, sender.sent, 4)
	assert.True(t, c.Idle())
}

func TestHandChoice_CancelDeclines(t *testing.T) {
	c, sender := newTestCoordinator(t, &fakeGame{})

	require.NoError(t, c.OfferHandChoice([]int{0}, "Choose"))
	require.NoError(t, c.Cancel())

	assert.Equal(t, protocol.CardChosen{CardIndex: protocol.DeclineIndex}, sender.last())
	assert.True(t, c.Idle())
}

func TestLibrarySearch_DeclineOnlyWhenAllowed(t *testing.T) {
	c, sender := newTestCoordinator(t, &fakeGame{})
	cards := []model.Card{{Name: "Forest"}, {Name: "Island"}}

	require.NoError(t, c.OfferLibrarySearch(cards, "Search", false))
	assert.ErrorIs(t, c.DeclineLibrarySearch(), ErrInvalidSelection)
	assert.ErrorIs(t, c.Cancel(), ErrInvalidSelection)
	assert.ErrorIs(t, c.ChooseLibraryCard(2), ErrInvalidSelection)
	require.NoError(t, c.ChooseLibraryCard(1))
	assert.Equal(t, protocol.LibraryCardChosen{CardIndex: 1}, sender.last())

	require.NoError(t, c.OfferLibrarySearch(cards, "Search", true))
	require.NoError(t, c.Cancel())
	assert.Equal(t, protocol.LibraryCardChosen{CardIndex: protocol.DeclineIndex}, sender.last())
}

func TestMayAbility(t *testing.T) {
	c, sender := newTestCoordinator(t, &fakeGame{})

	require.NoError(t, c.OfferMayAbility("Gain 1 life?"))
	require.NoError(t, c.AnswerMayAbility(false))
	assert.Equal(t, protocol.MayAbilityChosen{Accepted: false}, sender.last())
}

func TestMultiPermanentChoice_RespectsMaximum(t *testing.T) {
	c, sender := newTestCoordinator(t, &fakeGame{})

	require.NoError(t, c.OfferMultiPermanentChoice([]string{"a", "b", "c"}, 2, "Choose up to two"))
	require.NoError(t, c.TogglePermanent("c"))
	require.NoError(t, c.TogglePermanent("a"))
	assert.ErrorIs(t, c.TogglePermanent("b"), ErrInvalidSelection)
	assert.ErrorIs(t, c.TogglePermanent("z"), ErrInvalidSelection)
	require.NoError(t, c.TogglePermanent("c"))
	require.NoError(t, c.TogglePermanent("b"))

	require.NoError(t, c.ConfirmPermanents())
	assert.Equal(t, protocol.MultiplePermanentsChosen{PermanentIDs: []string{"a", "b"}}, sender.last())
}

func TestMultiGraveyardChoice_TogglesByIndex(t *testing.T) {
	c, sender := newTestCoordinator(t, &fakeGame{})

	require.NoError(t, c.OfferMultiGraveyardChoice([]string{"g1", "g2"}, []model.Card{{}, {}}, 1, "Exile"))
	assert.ErrorIs(t, c.ToggleGraveyardCard(5), ErrInvalidSelection)
	require.NoError(t, c.ToggleGraveyardCard(1))

	require.NoError(t, c.ConfirmGraveyardCards())
	assert.Equal(t, protocol.MultipleGraveyardCardsChosen{CardIDs: []string{"g2"}}, sender.last())
}

func TestMultiChoices_ConfirmEmptySelection(t *testing.T) {
	c, sender := newTestCoordinator(t, &fakeGame{})

	require.NoError(t, c.OfferMultiPermanentChoice([]string{"a"}, 1, "Choose"))
	require.NoError(t, c.ConfirmPermanents())

	data, err := protocol.Encode(sender.last())
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"MULTIPLE_PERMANENTS_CHOSEN","permanentIds":[]}`, string(data))
}

func TestLibraryReorder_SelectUndoRoundTrip(t *testing.T) {
	c, sender := newTestCoordinator(t, &fakeGame{})
	cards := []model.Card{{Name: "A"}, {Name: "B"}, {Name: "C"}}
	require.NoError(t, c.OfferLibraryReorder(cards, "Reorder"))
	p := c.Active().(*LibraryReorder)

	require.NoError(t, c.PlaceReorderCard(1))
	beforeAvailable := append([]int(nil), p.Available...)
	beforePlaced := append([]int(nil), p.Placed...)

	require.NoError(t, c.PlaceReorderCard(2))
	require.NoError(t, c.UndoReorderCard())
	assert.Equal(t, beforeAvailable, p.Available)
	assert.Equal(t, beforePlaced, p.Placed)

	assert.ErrorIs(t, c.PlaceReorderCard(1), ErrInvalidSelection)
	assert.ErrorIs(t, c.ConfirmReorder(), ErrInvalidSelection, "every card must be placed")

	require.NoError(t, c.PlaceReorderCard(2))
	require.NoError(t, c.PlaceReorderCard(0))
	require.NoError(t, c.ConfirmReorder())
	assert.Equal(t, protocol.LibraryCardsReordered{CardOrder: []int{1, 2, 0}}, sender.last())
}

func TestHandTopBottom(t *testing.T) {
	t.Run("two cards auto-select the top card", func(t *testing.T) {
		c, sender := newTestCoordinator(t, &fakeGame{})
		require.NoError(t, c.OfferHandTopBottom([]model.Card{{Name: "A"}, {Name: "B"}}, ""))

		require.NoError(t, c.SelectHandTopBottom(1))
		p := c.Active().(*HandTopBottom)
		assert.Equal(t, 2, p.Step())
		assert.Equal(t, 0, p.TopIndex)

		require.NoError(t, c.ConfirmHandTopBottom())
		assert.Equal(t, protocol.HandTopBottomChosen{HandCardIndex: 1, TopCardIndex: 0}, sender.last())
	})

	t.Run("undo clears top first", func(t *testing.T) {
		c, sender := newTestCoordinator(t, &fakeGame{})
		require.NoError(t, c.OfferHandTopBottom([]model.Card{{}, {}, {}}, ""))
		p := c.Active().(*HandTopBottom)

		assert.ErrorIs(t, c.ConfirmHandTopBottom(), ErrInvalidSelection)
		require.NoError(t, c.SelectHandTopBottom(2))
		assert.ErrorIs(t, c.SelectHandTopBottom(2), ErrInvalidSelection)
		require.NoError(t, c.SelectHandTopBottom(0))
		assert.Equal(t, []int{1}, p.Remaining())

		require.NoError(t, c.UndoHandTopBottom())
		assert.Equal(t, 1, p.Step())
		require.NoError(t, c.UndoHandTopBottom())
		assert.Equal(t, 0, p.Step())
		assert.ErrorIs(t, c.UndoHandTopBottom(), ErrInvalidSelection)
		assert.Empty(t, sender.sent)
	})
}

func TestRevealedHand_ClosesWithoutCommand(t *testing.T) {
	c, sender := newTestCoordinator(t, &fakeGame{})

	require.NoError(t, c.OfferRevealedHand([]model.Card{{Name: "A"}}, "Bob"))
	assert.False(t, c.Active().ServerOwned())
	require.NoError(t, c.CloseRevealedHand())
	assert.True(t, c.Idle())
	assert.Empty(t, sender.sent)
}

func TestGraveyardCandidates_CountOnlyCreaturesAndArtifacts(t *testing.T) {
	game := &fakeGame{graveyards: [][]model.Card{
		{{Name: "Bear", Type: model.CardTypeCreature}, {Name: "Bolt", Type: model.CardTypeInstant}, {Name: "Ring", Type: model.CardTypeArtifact}},
		{{Name: "Elf", Type: model.CardTypeCreature}},
	}}
	c, _ := newTestCoordinator(t, game)

	require.NoError(t, c.OfferGraveyardCardChoice([]int{1, 2}, "Return"))
	got := c.GraveyardCandidates()

	require.Len(t, got, 2)
	assert.Equal(t, GraveyardCandidate{Card: game.graveyards[0][2], Index: 1, Owner: "Alice"}, got[0])
	assert.Equal(t, GraveyardCandidate{Card: game.graveyards[1][0], Index: 2, Owner: "Bob"}, got[1])
}

func TestBottomCards(t *testing.T) {
	game := &fakeGame{hand: make([]model.Card, 7)}
	c, sender := newTestCoordinator(t, game)

	require.NoError(t, c.OfferBottomCards(2))
	require.NoError(t, c.ToggleBottomCard(4))
	assert.ErrorIs(t, c.ConfirmBottomCards(), ErrInvalidSelection)
	require.NoError(t, c.ToggleBottomCard(1))
	assert.ErrorIs(t, c.ToggleBottomCard(6), ErrInvalidSelection)
	assert.ErrorIs(t, c.ToggleBottomCard(9), ErrInvalidSelection)
	assert.ErrorIs(t, c.Cancel(), ErrNotCancellable)

	require.NoError(t, c.ConfirmBottomCards())
	assert.Equal(t, protocol.BottomCards{CardIndices: []int{4, 1}}, sender.last())

	require.NoError(t, c.OfferBottomCards(1))
	assert.True(t, c.DiscardBottomCards())
	assert.True(t, c.Idle())
}

func TestSendFailureKeepsInteraction(t *testing.T) {
	c, sender := newTestCoordinator(t, &fakeGame{})
	sender.err = errors.New("closed")

	require.NoError(t, c.OfferColorChoice([]string{"RED"}, ""))
	err := c.ChooseColor("RED")

	assert.ErrorIs(t, err, sender.err)
	assert.Equal(t, KindColorChoice, c.Active().Kind())
}
