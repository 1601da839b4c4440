package session

import (
	"github.com/magefree/mage-client-go/internal/game/mana"
	"github.com/magefree/mage-client-go/internal/game/model"
	"github.com/magefree/mage-client-go/internal/game/rules"
)

// MyIndex returns the local player's seat, or -1 when not seated.
func (s *State) MyIndex() int {
	return s.PlayerIndex(s.me.ID)
}

// OpponentIndex returns the seat opposite the local player.
func (s *State) OpponentIndex() int {
	if s.MyIndex() == 0 {
		return 1
	}
	return 0
}

// PlayerIndex returns the seat of playerID, or -1.
func (s *State) PlayerIndex(playerID string) int {
	if playerID == "" {
		return -1
	}
	for i, id := range s.snap.PlayerIDs {
		if id == playerID {
			return i
		}
	}
	return -1
}

// PlayerIDs returns the seated players.
func (s *State) PlayerIDs() []string {
	return cloneSlice(s.snap.PlayerIDs)
}

// PlayerName returns the name of playerID, or "" if unknown.
func (s *State) PlayerName(playerID string) string {
	idx := s.PlayerIndex(playerID)
	if idx < 0 || idx >= len(s.snap.PlayerNames) {
		return ""
	}
	return s.snap.PlayerNames[idx]
}

// WaitingForOpponent reports whether the second seat is still empty.
func (s *State) WaitingForOpponent() bool {
	return s.joined && len(s.snap.PlayerNames) < 2
}

// HasPriority reports whether the local player may act.
func (s *State) HasPriority() bool {
	return s.joined && s.me.ID != "" && s.snap.PriorityPlayerID == s.me.ID
}

// IsMyTurn reports whether the local player is the active player.
func (s *State) IsMyTurn() bool {
	return s.joined && s.me.ID != "" && s.snap.ActivePlayerID == s.me.ID
}

// Status returns the game status.
func (s *State) Status() Status {
	return s.snap.Status
}

// CurrentStep returns the current turn step.
func (s *State) CurrentStep() rules.Step {
	return s.snap.CurrentStep
}

// MyBattlefield returns the local player's permanents.
func (s *State) MyBattlefield() []model.Permanent {
	return seat(s.snap.Battlefields, s.MyIndex())
}

// OpponentBattlefield returns the opponent's permanents.
func (s *State) OpponentBattlefield() []model.Permanent {
	return seat(s.snap.Battlefields, s.OpponentIndex())
}

// MyGraveyard returns the local player's graveyard.
func (s *State) MyGraveyard() []model.Card {
	return seat(s.snap.Graveyards, s.MyIndex())
}

// OpponentGraveyard returns the opponent's graveyard.
func (s *State) OpponentGraveyard() []model.Card {
	return seat(s.snap.Graveyards, s.OpponentIndex())
}

// Graveyards returns every graveyard, indexed by seat.
func (s *State) Graveyards() [][]model.Card {
	return cloneNested(s.snap.Graveyards)
}

// Hand returns the local player's hand.
func (s *State) Hand() []model.Card {
	return cloneSlice(s.snap.Hand)
}

// Stack returns the stack, bottom first.
func (s *State) Stack() []model.StackEntry {
	return cloneSlice(s.snap.Stack)
}

// StackTopFirst returns the stack in resolution order.
func (s *State) StackTopFirst() []model.StackEntry {
	out := make([]model.StackEntry, len(s.snap.Stack))
	for i, e := range s.snap.Stack {
		out[len(out)-1-i] = e
	}
	return out
}

// LifeTotal returns the life of the player in seat, or DefaultLife.
func (s *State) LifeTotal(seatIndex int) int {
	if seatIndex < 0 || seatIndex >= len(s.snap.LifeTotals) {
		return DefaultLife
	}
	return s.snap.LifeTotals[seatIndex]
}

// ManaPool returns a copy of the mana pool.
func (s *State) ManaPool() mana.Pool {
	return s.snap.ManaPool.Clone()
}

// TotalMana returns the amount of mana available in the pool.
func (s *State) TotalMana() int {
	return s.snap.ManaPool.Total()
}

// IsCardPlayable reports whether the hand card at index is playable now.
func (s *State) IsCardPlayable(index int) bool {
	return containsInt(s.snap.PlayableCardIndices, index)
}

// IsGraveyardLandPlayable reports whether the land at index of my
// graveyard may be played.
func (s *State) IsGraveyardLandPlayable(index int) bool {
	return containsInt(s.snap.PlayableGraveyardLandIndices, index)
}

// CanTapPermanent reports whether clicking my permanent at index does
// anything: an activated ability without a tap cost is always usable,
// otherwise the permanent needs an untapped tap ability.
func (s *State) CanTapPermanent(index int) bool {
	bf := s.MyBattlefield()
	if index < 0 || index >= len(bf) || !s.HasPriority() {
		return false
	}
	perm := bf[index]
	for _, a := range perm.Card.ActivatedAbilities {
		if !a.RequiresTap {
			return true
		}
	}
	if perm.Tapped || !perm.Card.HasTapAbility {
		return false
	}
	return !(perm.SummoningSick && perm.IsCreature())
}

// CanUseAbility reports whether ability of perm can be activated now.
// Loyalty abilities are sorcery speed; tap abilities need an untapped
// permanent that is not a summoning-sick creature.
func (s *State) CanUseAbility(perm model.Permanent, ability model.ActivatedAbility) bool {
	if ability.LoyaltyCost != nil {
		if !s.IsMyTurn() || !s.snap.CurrentStep.IsMain() || len(s.snap.Stack) > 0 {
			return false
		}
		cost := *ability.LoyaltyCost
		return cost >= 0 || perm.LoyaltyCounters >= -cost
	}
	if ability.RequiresTap {
		if perm.Tapped {
			return false
		}
		if perm.SummoningSick && perm.IsCreature() {
			return false
		}
	}
	return true
}

// StackEntryTargetName resolves the target of entry to a display name by
// looking its ID up on the battlefields, the stack and the player list.
func (s *State) StackEntryTargetName(entry model.StackEntry) string {
	id := entry.TargetPermanentID
	if id == "" {
		return ""
	}
	for _, bf := range s.snap.Battlefields {
		for _, p := range bf {
			if p.ID == id {
				return p.Card.Name
			}
		}
	}
	for _, e := range s.snap.Stack {
		if e.CardID == id {
			return e.Card.Name
		}
	}
	return s.PlayerName(id)
}

// FindPermanent looks a permanent up by ID on both battlefields.
func (s *State) FindPermanent(id string) (model.Permanent, bool) {
	for _, bf := range s.snap.Battlefields {
		for _, p := range bf {
			if p.ID == id {
				return p, true
			}
		}
	}
	return model.Permanent{}, false
}

func seat[T any](perSeat [][]T, idx int) []T {
	if idx < 0 || idx >= len(perSeat) {
		return nil
	}
	return cloneSlice(perSeat[idx])
}
