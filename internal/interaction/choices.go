package interaction

import (
	"github.com/magefree/mage-client-go/internal/game/model"
	"github.com/magefree/mage-client-go/internal/protocol"
)

// OfferHandChoice opens a choice of one hand card.
func (c *Coordinator) OfferHandChoice(indices []int, prompt string) error {
	return c.open(&HandChoice{Indices: append([]int(nil), indices...), Prompt: prompt})
}

// ChooseHandCard answers a hand choice.
func (c *Coordinator) ChooseHandCard(index int) error {
	p, ok := c.active.(*HandChoice)
	if !ok {
		return ErrNoInteraction
	}
	if !containsInt(p.Indices, index) {
		return ErrInvalidSelection
	}
	return c.commit(protocol.CardChosen{CardIndex: index})
}

// DeclineHandChoice answers a hand choice with the decline sentinel.
func (c *Coordinator) DeclineHandChoice() error {
	if _, ok := c.active.(*HandChoice); !ok {
		return ErrNoInteraction
	}
	return c.commit(protocol.CardChosen{CardIndex: protocol.DeclineIndex})
}

// OfferColorChoice opens a color choice.
func (c *Coordinator) OfferColorChoice(colors []string, prompt string) error {
	return c.open(&ColorChoice{Colors: append([]string(nil), colors...), Prompt: prompt})
}

// ChooseColor answers a color choice.
func (c *Coordinator) ChooseColor(color string) error {
	p, ok := c.active.(*ColorChoice)
	if !ok {
		return ErrNoInteraction
	}
	if !containsString(p.Colors, color) {
		return ErrInvalidSelection
	}
	return c.commit(protocol.ColorChosen{Color: color})
}

// OfferMayAbility asks whether to use an optional ability.
func (c *Coordinator) OfferMayAbility(prompt string) error {
	return c.open(&MayAbility{Prompt: prompt})
}

// AnswerMayAbility accepts or declines the optional ability.
func (c *Coordinator) AnswerMayAbility(accepted bool) error {
	if _, ok := c.active.(*MayAbility); !ok {
		return ErrNoInteraction
	}
	return c.commit(protocol.MayAbilityChosen{Accepted: accepted})
}

// OfferPermanentChoice opens a choice of one permanent.
func (c *Coordinator) OfferPermanentChoice(ids []string, prompt string) error {
	return c.open(&PermanentChoice{PermanentIDs: append([]string(nil), ids...), Prompt: prompt})
}

// ChoosePermanent answers a permanent choice.
func (c *Coordinator) ChoosePermanent(id string) error {
	p, ok := c.active.(*PermanentChoice)
	if !ok {
		return ErrNoInteraction
	}
	if !containsString(p.PermanentIDs, id) {
		return ErrInvalidSelection
	}
	return c.commit(protocol.PermanentChosen{PermanentID: id})
}

// OfferMultiPermanentChoice opens a choice of up to maxCount permanents.
func (c *Coordinator) OfferMultiPermanentChoice(ids []string, maxCount int, prompt string) error {
	return c.open(&MultiPermanentChoice{
		PermanentIDs: append([]string(nil), ids...),
		MaxCount:     maxCount,
		Prompt:       prompt,
	})
}

// TogglePermanent selects or deselects an offered permanent. A new selection
// beyond the maximum is rejected.
func (c *Coordinator) TogglePermanent(id string) error {
	p, ok := c.active.(*MultiPermanentChoice)
	if !ok {
		return ErrNoInteraction
	}
	if !containsString(p.PermanentIDs, id) {
		return ErrInvalidSelection
	}
	selected, err := toggleBounded(p.Selected, id, p.MaxCount)
	if err != nil {
		return err
	}
	p.Selected = selected
	return nil
}

// ConfirmPermanents sends the selected permanents.
func (c *Coordinator) ConfirmPermanents() error {
	p, ok := c.active.(*MultiPermanentChoice)
	if !ok {
		return ErrNoInteraction
	}
	return c.commit(protocol.MultiplePermanentsChosen{PermanentIDs: append([]string{}, p.Selected...)})
}

// OfferMultiGraveyardChoice opens a choice of up to maxCount graveyard
// cards. cardIDs and cards are parallel.
func (c *Coordinator) OfferMultiGraveyardChoice(cardIDs []string, cards []model.Card, maxCount int, prompt string) error {
	return c.open(&MultiGraveyardChoice{
		CardIDs:  append([]string(nil), cardIDs...),
		Cards:    append([]model.Card(nil), cards...),
		MaxCount: maxCount,
		Prompt:   prompt,
	})
}

// ToggleGraveyardCard selects or deselects the offered card at index.
func (c *Coordinator) ToggleGraveyardCard(index int) error {
	p, ok := c.active.(*MultiGraveyardChoice)
	if !ok {
		return ErrNoInteraction
	}
	if index < 0 || index >= len(p.CardIDs) {
		return ErrInvalidSelection
	}
	selected, err := toggleBounded(p.Selected, p.CardIDs[index], p.MaxCount)
	if err != nil {
		return err
	}
	p.Selected = selected
	return nil
}

// ConfirmGraveyardCards sends the selected card IDs.
func (c *Coordinator) ConfirmGraveyardCards() error {
	p, ok := c.active.(*MultiGraveyardChoice)
	if !ok {
		return ErrNoInteraction
	}
	return c.commit(protocol.MultipleGraveyardCardsChosen{CardIDs: append([]string{}, p.Selected...)})
}

// OfferLibrarySearch opens a library search.
func (c *Coordinator) OfferLibrarySearch(cards []model.Card, prompt string, canFailToFind bool) error {
	return c.open(&LibrarySearch{
		Cards:         append([]model.Card(nil), cards...),
		Prompt:        prompt,
		CanFailToFind: canFailToFind,
	})
}

// ChooseLibraryCard answers a library search.
func (c *Coordinator) ChooseLibraryCard(index int) error {
	p, ok := c.active.(*LibrarySearch)
	if !ok {
		return ErrNoInteraction
	}
	if index < 0 || index >= len(p.Cards) {
		return ErrInvalidSelection
	}
	return c.commit(protocol.LibraryCardChosen{CardIndex: index})
}

// DeclineLibrarySearch fails to find, when the search allows it.
func (c *Coordinator) DeclineLibrarySearch() error {
	p, ok := c.active.(*LibrarySearch)
	if !ok {
		return ErrNoInteraction
	}
	if !p.CanFailToFind {
		return ErrInvalidSelection
	}
	return c.commit(protocol.LibraryCardChosen{CardIndex: protocol.DeclineIndex})
}

// OfferLibraryReorder opens a reorder of the offered cards.
func (c *Coordinator) OfferLibraryReorder(cards []model.Card, prompt string) error {
	available := make([]int, len(cards))
	for i := range cards {
		available[i] = i
	}
	return c.open(&LibraryReorder{
		Cards:     append([]model.Card(nil), cards...),
		Prompt:    prompt,
		Available: available,
	})
}

// PlaceReorderCard moves the card at originalIndex to the next position.
func (c *Coordinator) PlaceReorderCard(originalIndex int) error {
	p, ok := c.active.(*LibraryReorder)
	if !ok {
		return ErrNoInteraction
	}
	if !containsInt(p.Available, originalIndex) {
		return ErrInvalidSelection
	}
	p.Placed = append(p.Placed, originalIndex)
	available := make([]int, 0, len(p.Available)-1)
	for _, i := range p.Available {
		if i != originalIndex {
			available = append(available, i)
		}
	}
	p.Available = available
	return nil
}

// UndoReorderCard moves the last placed card back to the end of the
// available cards.
func (c *Coordinator) UndoReorderCard() error {
	p, ok := c.active.(*LibraryReorder)
	if !ok {
		return ErrNoInteraction
	}
	n := len(p.Placed)
	if n == 0 {
		return ErrInvalidSelection
	}
	last := p.Placed[n-1]
	p.Placed = p.Placed[:n-1]
	p.Available = append(p.Available, last)
	return nil
}

// ConfirmReorder sends the new order once every card is placed.
func (c *Coordinator) ConfirmReorder() error {
	p, ok := c.active.(*LibraryReorder)
	if !ok {
		return ErrNoInteraction
	}
	if len(p.Available) > 0 {
		return ErrInvalidSelection
	}
	return c.commit(protocol.LibraryCardsReordered{CardOrder: append([]int{}, p.Placed...)})
}

// OfferHandTopBottom opens a hand/top/bottom split of the revealed cards.
func (c *Coordinator) OfferHandTopBottom(cards []model.Card, prompt string) error {
	return c.open(&HandTopBottom{
		Cards:     append([]model.Card(nil), cards...),
		Prompt:    prompt,
		HandIndex: -1,
		TopIndex:  -1,
	})
}

// SelectHandTopBottom picks the hand card, then the top card. With exactly
// two cards the top card follows from the hand card.
func (c *Coordinator) SelectHandTopBottom(index int) error {
	p, ok := c.active.(*HandTopBottom)
	if !ok {
		return ErrNoInteraction
	}
	if index < 0 || index >= len(p.Cards) || index == p.HandIndex || index == p.TopIndex {
		return ErrInvalidSelection
	}
	switch {
	case p.HandIndex < 0:
		p.HandIndex = index
		if rest := p.Remaining(); len(rest) == 1 {
			p.TopIndex = rest[0]
		}
	case p.TopIndex < 0:
		p.TopIndex = index
	default:
		return ErrInvalidSelection
	}
	return nil
}

// UndoHandTopBottom clears the top card, or the hand card if no top card is
// chosen.
func (c *Coordinator) UndoHandTopBottom() error {
	p, ok := c.active.(*HandTopBottom)
	if !ok {
		return ErrNoInteraction
	}
	switch {
	case p.TopIndex >= 0:
		p.TopIndex = -1
	case p.HandIndex >= 0:
		p.HandIndex = -1
	default:
		return ErrInvalidSelection
	}
	return nil
}

// ConfirmHandTopBottom sends the hand and top choices.
func (c *Coordinator) ConfirmHandTopBottom() error {
	p, ok := c.active.(*HandTopBottom)
	if !ok {
		return ErrNoInteraction
	}
	if p.Step() != 2 {
		return ErrInvalidSelection
	}
	return c.commit(protocol.HandTopBottomChosen{HandCardIndex: p.HandIndex, TopCardIndex: p.TopIndex})
}

// OfferRevealedHand shows a revealed hand.
func (c *Coordinator) OfferRevealedHand(cards []model.Card, playerName string) error {
	return c.open(&RevealedHand{Cards: append([]model.Card(nil), cards...), PlayerName: playerName})
}

// CloseRevealedHand dismisses a revealed hand.
func (c *Coordinator) CloseRevealedHand() error {
	if _, ok := c.active.(*RevealedHand); !ok {
		return ErrNoInteraction
	}
	c.active = nil
	return nil
}

// OfferRevealedHandChoice opens a choice from a revealed hand.
func (c *Coordinator) OfferRevealedHandChoice(cards []model.Card, validIndices []int, prompt string) error {
	return c.open(&RevealedHandChoice{
		Cards:        append([]model.Card(nil), cards...),
		ValidIndices: append([]int(nil), validIndices...),
		Prompt:       prompt,
	})
}

// ChooseFromRevealedHand answers a revealed hand choice.
func (c *Coordinator) ChooseFromRevealedHand(index int) error {
	p, ok := c.active.(*RevealedHandChoice)
	if !ok {
		return ErrNoInteraction
	}
	if !containsInt(p.ValidIndices, index) {
		return ErrInvalidSelection
	}
	return c.commit(protocol.CardChosen{CardIndex: index})
}

// OfferGraveyardCardChoice opens a choice of one card across graveyards.
func (c *Coordinator) OfferGraveyardCardChoice(indices []int, prompt string) error {
	return c.open(&GraveyardCardChoice{CardIndices: append([]int(nil), indices...), Prompt: prompt})
}

// GraveyardCandidate is one choosable graveyard card.
type GraveyardCandidate struct {
	Card  model.Card
	Index int
	Owner string
}

// GraveyardCandidates lists the cards of the active graveyard choice with
// their owners.
func (c *Coordinator) GraveyardCandidates() []GraveyardCandidate {
	p, ok := c.active.(*GraveyardCardChoice)
	if !ok {
		return nil
	}
	ids := c.game.PlayerIDs()
	var out []GraveyardCandidate
	pool := 0
	for seat, gy := range c.game.Graveyards() {
		owner := "Unknown"
		if seat < len(ids) {
			if name := c.game.PlayerName(ids[seat]); name != "" {
				owner = name
			}
		}
		for _, card := range gy {
			if card.Type != model.CardTypeCreature && card.Type != model.CardTypeArtifact {
				continue
			}
			if containsInt(p.CardIndices, pool) {
				out = append(out, GraveyardCandidate{Card: card, Index: pool, Owner: owner})
			}
			pool++
		}
	}
	return out
}

// ChooseGraveyardCard answers a graveyard choice.
func (c *Coordinator) ChooseGraveyardCard(index int) error {
	p, ok := c.active.(*GraveyardCardChoice)
	if !ok {
		return ErrNoInteraction
	}
	if !containsInt(p.CardIndices, index) {
		return ErrInvalidSelection
	}
	return c.commit(protocol.GraveyardCardChosen{CardIndex: index})
}

// OfferBottomCards asks which count hand cards go to the bottom after a
// mulligan.
func (c *Coordinator) OfferBottomCards(count int) error {
	return c.open(&BottomCards{Count: count})
}

// ToggleBottomCard selects or deselects a hand card for the bottom.
func (c *Coordinator) ToggleBottomCard(handIndex int) error {
	p, ok := c.active.(*BottomCards)
	if !ok {
		return ErrNoInteraction
	}
	if handIndex < 0 || handIndex >= len(c.game.Hand()) {
		return ErrInvalidSelection
	}
	for i, idx := range p.Selected {
		if idx == handIndex {
			p.Selected = append(p.Selected[:i:i], p.Selected[i+1:]...)
			return nil
		}
	}
	if len(p.Selected) >= p.Count {
		return ErrInvalidSelection
	}
	p.Selected = append(p.Selected, handIndex)
	return nil
}

// ConfirmBottomCards sends the bottomed cards.
func (c *Coordinator) ConfirmBottomCards() error {
	p, ok := c.active.(*BottomCards)
	if !ok {
		return ErrNoInteraction
	}
	if !p.CanConfirm() {
		return ErrInvalidSelection
	}
	return c.commit(protocol.BottomCards{CardIndices: append([]int{}, p.Selected...)})
}

// DiscardBottomCards drops a bottom-card selection the server no longer
// waits for, as when the game has already started.
func (c *Coordinator) DiscardBottomCards() bool {
	if _, ok := c.active.(*BottomCards); !ok {
		return false
	}
	c.active = nil
	return true
}

func toggleBounded(selected []string, id string, max int) ([]string, error) {
	if containsString(selected, id) {
		return removeString(selected, id), nil
	}
	if len(selected) >= max {
		return selected, ErrInvalidSelection
	}
	return append(selected, id), nil
}
