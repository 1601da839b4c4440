package interaction

import (
	"go.uber.org/zap"

	"github.com/magefree/mage-client-go/internal/game/mana"
	"github.com/magefree/mage-client-go/internal/game/model"
	"github.com/magefree/mage-client-go/internal/game/targeting"
	"github.com/magefree/mage-client-go/internal/protocol"
)

// damageTargets are the permanents a distributed-damage spell may hit.
var damageTargets = targeting.Constraint{RequiresAttacking: true}

// PlayCard starts playing the hand card at index. Depending on the card this
// sends PLAY_CARD right away or opens the first step of its flow: X value,
// spell target, several targets, one target or convoke, in that order.
func (c *Coordinator) PlayCard(index int) error {
	if c.active != nil {
		return ErrInteractionActive
	}
	hand := c.game.Hand()
	if index < 0 || index >= len(hand) || !c.game.IsCardPlayable(index) {
		return ErrNotPlayable
	}
	next, cmd := c.cardFlow(index, hand[index])
	return c.advance(next, cmd)
}

func (c *Coordinator) cardFlow(index int, card model.Card) (Pending, protocol.Command) {
	src := Source{Index: index, Name: card.Name}

	switch {
	case card.HasXCost():
		return &XValuePrompt{Source: src, Max: c.xMaximum(card.ManaCost), card: card}, nil
	case card.NeedsSpellTarget:
		return &SpellTargeting{Source: src}, nil
	case card.IsMultiTarget():
		return &MultiTargeting{
			Source:      src,
			Requirement: targeting.Requirement{MinTargets: card.MinTargets, MaxTargets: card.MaxTargets},
			Constraint:  targeting.CardConstraint(card),
			convoke:     card.HasConvoke,
		}, nil
	case card.NeedsTarget:
		return &Targeting{Source: src, Constraint: targeting.CardConstraint(card), convoke: card.HasConvoke}, nil
	case card.HasConvoke:
		return &Convoke{Source: src}, nil
	default:
		return nil, protocol.PlayCard{CardIndex: index}
	}
}

// PlayGraveyardLand plays the land at index of my graveyard.
func (c *Coordinator) PlayGraveyardLand(index int) error {
	if c.active != nil {
		return ErrInteractionActive
	}
	if !c.game.IsGraveyardLandPlayable(index) {
		return ErrNotPlayable
	}
	return c.commit(protocol.PlayCard{CardIndex: index, FromGraveyard: true})
}

// TapPermanent handles a click on my permanent at index. Without abilities
// it taps for mana; with exactly one usable ability that ability starts;
// with several the ability picker opens.
func (c *Coordinator) TapPermanent(index int) error {
	if c.active != nil {
		return ErrInteractionActive
	}
	perm, ok := c.myPermanent(index)
	if !ok || !c.game.CanTapPermanent(index) {
		return ErrNotPlayable
	}

	abilities := perm.Card.ActivatedAbilities
	if len(abilities) == 0 {
		return c.commit(protocol.TapPermanent{PermanentIndex: index})
	}

	choices := make([]AbilityChoice, len(abilities))
	var usable []int
	for i, a := range abilities {
		choices[i] = AbilityChoice{Ability: a, Index: i, Usable: c.game.CanUseAbility(perm, a)}
		if choices[i].Usable {
			usable = append(usable, i)
		}
	}

	switch len(usable) {
	case 0:
		if perm.Card.HasTapAbility && !perm.Tapped {
			return c.commit(protocol.TapPermanent{PermanentIndex: index})
		}
		return ErrNotPlayable
	case 1:
		return c.advance(c.abilityFlow(index, usable[0], perm))
	default:
		return c.open(&AbilityPicker{PermanentIndex: index, Name: perm.Card.Name, Choices: choices})
	}
}

// ActivateAbility starts the ability at abilityIndex of my permanent at
// permanentIndex.
func (c *Coordinator) ActivateAbility(permanentIndex, abilityIndex int) error {
	if c.active != nil {
		return ErrInteractionActive
	}
	perm, ok := c.myPermanent(permanentIndex)
	if !ok || abilityIndex < 0 || abilityIndex >= len(perm.Card.ActivatedAbilities) {
		return ErrNotPlayable
	}
	if !c.game.CanUseAbility(perm, perm.Card.ActivatedAbilities[abilityIndex]) {
		return ErrNotPlayable
	}
	return c.advance(c.abilityFlow(permanentIndex, abilityIndex, perm))
}

// ChooseAbility picks an ability from the ability picker and continues with
// that ability's flow.
func (c *Coordinator) ChooseAbility(abilityIndex int) error {
	p, ok := c.active.(*AbilityPicker)
	if !ok {
		return ErrNoInteraction
	}
	if abilityIndex < 0 || abilityIndex >= len(p.Choices) || !p.Choices[abilityIndex].Usable {
		return ErrInvalidSelection
	}
	perm, ok := c.myPermanent(p.PermanentIndex)
	if !ok || abilityIndex >= len(perm.Card.ActivatedAbilities) {
		return ErrInvalidSelection
	}
	return c.advance(c.abilityFlow(p.PermanentIndex, abilityIndex, perm))
}

func (c *Coordinator) abilityFlow(permIndex, abilityIndex int, perm model.Permanent) (Pending, protocol.Command) {
	ability := perm.Card.ActivatedAbilities[abilityIndex]
	src := Source{Index: permIndex, Name: perm.Card.Name, ForAbility: true, AbilityIndex: abilityIndex}

	switch {
	case ability.HasXCost():
		return &XValuePrompt{Source: src, Max: c.xMaximum(ability.ManaCost), ability: ability}, nil
	case ability.NeedsSpellTarget:
		return &SpellTargeting{Source: src}, nil
	case ability.NeedsTarget:
		return &Targeting{Source: src, Constraint: targeting.AbilityConstraint(ability)}, nil
	default:
		return nil, protocol.ActivateAbility{PermanentIndex: permIndex, AbilityIndex: abilityIndex}
	}
}

func (c *Coordinator) xMaximum(cost string) int {
	total := c.game.TotalMana()
	limit, err := mana.XMaximum(total, cost)
	if err != nil {
		c.logger.Warn("unparsable mana cost", zap.String("cost", cost), zap.Error(err))
		return total
	}
	return limit
}

// ConfirmXValue commits the chosen X. The flow continues into damage
// distribution, targeting or convoke when the card or ability needs them,
// and the chosen X rides along to the final command.
func (c *Coordinator) ConfirmXValue(x int) error {
	p, ok := c.active.(*XValuePrompt)
	if !ok {
		return ErrNoInteraction
	}
	if x < 0 || x > p.Max {
		return ErrInvalidSelection
	}
	xv := x
	src := p.Source

	if src.ForAbility {
		if p.ability.NeedsSpellTarget {
			return c.advance(&SpellTargeting{Source: src, XValue: &xv}, nil)
		}
		if p.ability.NeedsTarget {
			return c.advance(&Targeting{Source: src, Constraint: targeting.AbilityConstraint(p.ability), XValue: &xv}, nil)
		}
		return c.commit(protocol.ActivateAbility{
			PermanentIndex: src.Index,
			AbilityIndex:   src.AbilityIndex,
			XValue:         &xv,
		})
	}

	card := p.card
	switch {
	case card.NeedsDamageDistribution:
		return c.advance(&DamageDistribution{Source: src, XValue: x, Assignments: make(map[string]int)}, nil)
	case card.NeedsSpellTarget:
		return c.advance(&SpellTargeting{Source: src, XValue: &xv}, nil)
	case card.IsMultiTarget():
		return c.advance(&MultiTargeting{
			Source:      src,
			Requirement: targeting.Requirement{MinTargets: card.MinTargets, MaxTargets: card.MaxTargets},
			Constraint:  targeting.CardConstraint(card),
			XValue:      &xv,
			convoke:     card.HasConvoke,
		}, nil)
	case card.NeedsTarget:
		return c.advance(&Targeting{Source: src, Constraint: targeting.CardConstraint(card), XValue: &xv, convoke: card.HasConvoke}, nil)
	case card.HasConvoke:
		return c.advance(&Convoke{Source: src, XValue: &xv}, nil)
	default:
		return c.commit(protocol.PlayCard{CardIndex: src.Index, XValue: &xv})
	}
}

// ValidTarget reports whether perm can be picked by the active targeting,
// multi-targeting or damage distribution.
func (c *Coordinator) ValidTarget(perm model.Permanent) bool {
	switch p := c.active.(type) {
	case *Targeting:
		return p.Constraint.ValidPermanent(perm)
	case *MultiTargeting:
		return p.Constraint.ValidPermanent(perm)
	case *DamageDistribution:
		return damageTargets.ValidPermanent(perm)
	default:
		return false
	}
}

// ChooseTarget picks the permanent with the given ID as the single target.
func (c *Coordinator) ChooseTarget(permanentID string) error {
	p, ok := c.active.(*Targeting)
	if !ok {
		return ErrNoInteraction
	}
	perm, found := c.game.FindPermanent(permanentID)
	if !found || !p.Constraint.ValidPermanent(perm) {
		return ErrInvalidSelection
	}
	return c.advance(p.resolve(permanentID))
}

// ChoosePlayerTarget picks the player in seat playerIndex as the target.
func (c *Coordinator) ChoosePlayerTarget(playerIndex int) error {
	p, ok := c.active.(*Targeting)
	if !ok {
		return ErrNoInteraction
	}
	ids := c.game.PlayerIDs()
	if !p.Constraint.ValidPlayer() || playerIndex < 0 || playerIndex >= len(ids) {
		return ErrInvalidSelection
	}
	return c.advance(p.resolve(ids[playerIndex]))
}

func (t *Targeting) resolve(targetID string) (Pending, protocol.Command) {
	id := targetID
	if t.Source.ForAbility {
		return nil, protocol.ActivateAbility{
			PermanentIndex:    t.Source.Index,
			AbilityIndex:      t.Source.AbilityIndex,
			XValue:            t.XValue,
			TargetPermanentID: &id,
		}
	}
	if t.convoke {
		return &Convoke{Source: t.Source, XValue: t.XValue, targets: []string{id}}, nil
	}
	return nil, protocol.PlayCard{CardIndex: t.Source.Index, XValue: t.XValue, TargetPermanentID: &id}
}

// ChooseSpellTarget picks the spell on the stack with the given card ID.
func (c *Coordinator) ChooseSpellTarget(cardID string) error {
	p, ok := c.active.(*SpellTargeting)
	if !ok {
		return ErrNoInteraction
	}
	var entry *model.StackEntry
	for _, e := range c.game.Stack() {
		if e.CardID == cardID {
			entry = &e
			break
		}
	}
	if entry == nil || !targeting.ValidSpellTarget(*entry) {
		return ErrInvalidSelection
	}
	id := entry.CardID
	if p.Source.ForAbility {
		return c.commit(protocol.ActivateAbility{
			PermanentIndex:    p.Source.Index,
			AbilityIndex:      p.Source.AbilityIndex,
			XValue:            p.XValue,
			TargetPermanentID: &id,
		})
	}
	return c.commit(protocol.PlayCard{CardIndex: p.Source.Index, XValue: p.XValue, TargetPermanentID: &id})
}

// AddTarget adds a permanent to the multi-target selection.
func (c *Coordinator) AddTarget(permanentID string) error {
	p, ok := c.active.(*MultiTargeting)
	if !ok {
		return ErrNoInteraction
	}
	if containsString(p.Selected, permanentID) || !p.Requirement.CanAdd(len(p.Selected)) {
		return ErrInvalidSelection
	}
	perm, found := c.game.FindPermanent(permanentID)
	if !found || !p.Constraint.ValidPermanent(perm) {
		return ErrInvalidSelection
	}
	p.Selected = append(p.Selected, permanentID)
	return nil
}

// RemoveTarget removes a permanent from the multi-target selection.
func (c *Coordinator) RemoveTarget(permanentID string) error {
	p, ok := c.active.(*MultiTargeting)
	if !ok {
		return ErrNoInteraction
	}
	p.Selected = removeString(p.Selected, permanentID)
	return nil
}

// ConfirmTargets commits the multi-target selection, continuing into
// convoke for convoke spells.
func (c *Coordinator) ConfirmTargets() error {
	p, ok := c.active.(*MultiTargeting)
	if !ok {
		return ErrNoInteraction
	}
	if !p.CanConfirm() {
		return ErrInvalidSelection
	}
	if err := p.Requirement.Validate(p.Selected); err != nil {
		c.logger.Debug("target selection rejected",
			zap.String("targets", targeting.FormatTargets(p.Selected)),
			zap.Error(err),
		)
		return ErrInvalidSelection
	}
	targets := append([]string{}, p.Selected...)
	if p.convoke {
		return c.advance(&Convoke{Source: p.Source, XValue: p.XValue, targets: targets, multiTarget: true}, nil)
	}
	return c.commit(protocol.PlayCard{CardIndex: p.Source.Index, XValue: p.XValue, TargetPermanentIDs: targets})
}

// ToggleConvokeCreature selects or deselects one of my untapped creatures to
// tap for convoke.
func (c *Coordinator) ToggleConvokeCreature(permanentID string) error {
	p, ok := c.active.(*Convoke)
	if !ok {
		return ErrNoInteraction
	}
	if containsString(p.Selected, permanentID) {
		p.Selected = removeString(p.Selected, permanentID)
		return nil
	}
	if !c.isMyUntappedCreature(permanentID) {
		return ErrInvalidSelection
	}
	p.Selected = append(p.Selected, permanentID)
	return nil
}

// ConfirmConvoke plays the spell tapping the selected creatures.
func (c *Coordinator) ConfirmConvoke() error {
	p, ok := c.active.(*Convoke)
	if !ok {
		return ErrNoInteraction
	}
	cmd := p.command()
	cmd.ConvokeCreatureIDs = append([]string(nil), p.Selected...)
	return c.commit(cmd)
}

// SkipConvoke plays the spell without tapping creatures.
func (c *Coordinator) SkipConvoke() error {
	p, ok := c.active.(*Convoke)
	if !ok {
		return ErrNoInteraction
	}
	return c.commit(p.command())
}

func (p *Convoke) command() protocol.PlayCard {
	cmd := protocol.PlayCard{CardIndex: p.Source.Index, XValue: p.XValue}
	if len(p.targets) == 0 {
		return cmd
	}
	if p.multiTarget {
		cmd.TargetPermanentIDs = append([]string(nil), p.targets...)
	} else {
		id := p.targets[0]
		cmd.TargetPermanentID = &id
	}
	return cmd
}

// AssignDamage assigns one more point of damage to an attacking creature.
func (c *Coordinator) AssignDamage(permanentID string) error {
	p, ok := c.active.(*DamageDistribution)
	if !ok {
		return ErrNoInteraction
	}
	if p.Remaining() <= 0 {
		return ErrInvalidSelection
	}
	perm, found := c.game.FindPermanent(permanentID)
	if !found || !damageTargets.ValidPermanent(perm) {
		return ErrInvalidSelection
	}
	p.Assignments[permanentID]++
	return nil
}

// UnassignDamage takes back one point of damage from a creature.
func (c *Coordinator) UnassignDamage(permanentID string) error {
	p, ok := c.active.(*DamageDistribution)
	if !ok {
		return ErrNoInteraction
	}
	switch n := p.Assignments[permanentID]; {
	case n <= 0:
		return ErrInvalidSelection
	case n == 1:
		delete(p.Assignments, permanentID)
	default:
		p.Assignments[permanentID] = n - 1
	}
	return nil
}

// ConfirmDamage plays the spell once all damage is assigned.
func (c *Coordinator) ConfirmDamage() error {
	p, ok := c.active.(*DamageDistribution)
	if !ok {
		return ErrNoInteraction
	}
	if p.Remaining() != 0 {
		return ErrInvalidSelection
	}
	assignments := make(map[string]int, len(p.Assignments))
	for id, n := range p.Assignments {
		assignments[id] = n
	}
	x := p.XValue
	return c.commit(protocol.PlayCard{CardIndex: p.Source.Index, XValue: &x, DamageAssignments: assignments})
}

func (c *Coordinator) myPermanent(index int) (model.Permanent, bool) {
	bf := c.game.MyBattlefield()
	if index < 0 || index >= len(bf) {
		return model.Permanent{}, false
	}
	return bf[index], true
}

func (c *Coordinator) isMyUntappedCreature(id string) bool {
	for _, p := range c.game.MyBattlefield() {
		if p.ID == id {
			return p.IsCreature() && !p.Tapped
		}
	}
	return false
}
