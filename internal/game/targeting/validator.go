package targeting

import (
	"strings"

	"github.com/magefree/mage-client-go/internal/game/model"
)

// Constraint is the target restriction bundle of the active targeting
// interaction, as declared by the card or ability.
type Constraint struct {
	RequiresAttacking bool
	AllowedTypes      []string
	AllowedColors     []string
	TargetsPlayer     bool
}

// CardConstraint builds the constraint declared by a card.
func CardConstraint(card model.Card) Constraint {
	return Constraint{
		RequiresAttacking: card.RequiresAttackingTarget,
		AllowedTypes:      card.AllowedTargetTypes,
		AllowedColors:     card.AllowedTargetColors,
		TargetsPlayer:     card.TargetsPlayer,
	}
}

// AbilityConstraint builds the constraint declared by an activated ability.
func AbilityConstraint(ability model.ActivatedAbility) Constraint {
	return Constraint{
		AllowedTypes:  ability.AllowedTargetTypes,
		AllowedColors: ability.AllowedTargetColors,
		TargetsPlayer: ability.TargetsPlayer,
	}
}

// ValidPermanent reports whether the permanent satisfies the constraint.
//
// Rules apply in order: attacking requirement, then allowed types, then
// allowed colors, then the default of any creature.
func (c Constraint) ValidPermanent(perm model.Permanent) bool {
	if c.RequiresAttacking {
		return perm.IsCreature() && perm.Attacking
	}

	if len(c.AllowedTypes) > 0 {
		if !containsFold(c.AllowedTypes, string(perm.Card.Type)) {
			return false
		}
		// Enchantment-only targeting reaches auras through their host, so an
		// unattached aura is not a legal target.
		if len(c.AllowedTypes) == 1 && perm.Card.Type == model.CardTypeEnchantment && !perm.IsAttached() {
			return false
		}
		return true
	}

	if len(c.AllowedColors) > 0 {
		return perm.IsCreature() && perm.Card.Color != "" && containsFold(c.AllowedColors, perm.Card.Color)
	}

	return perm.IsCreature()
}

// ValidPlayer reports whether a player may be targeted.
func (c Constraint) ValidPlayer() bool {
	return c.TargetsPlayer
}

// ValidSpellTarget reports whether a stack entry can be targeted by a
// spell-targeting effect such as a counterspell.
func ValidSpellTarget(entry model.StackEntry) bool {
	return entry.IsSpell
}

func containsFold(values []string, candidate string) bool {
	for _, v := range values {
		if strings.EqualFold(v, candidate) {
			return true
		}
	}
	return false
}
