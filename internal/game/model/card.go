// Package model holds the client-side views of cards, permanents and stack
// entries as pushed by the game server.
package model

import "strings"

// CardType is the printed primary type of a card.
type CardType string

const (
	CardTypeCreature     CardType = "CREATURE"
	CardTypeLand         CardType = "LAND"
	CardTypeEnchantment  CardType = "ENCHANTMENT"
	CardTypeArtifact     CardType = "ARTIFACT"
	CardTypeInstant      CardType = "INSTANT"
	CardTypeSorcery      CardType = "SORCERY"
	CardTypePlaneswalker CardType = "PLANESWALKER"
)

// SupertypeBasic marks basic lands.
const SupertypeBasic = "BASIC"

// XSymbol is the variable mana symbol in a cost string.
const XSymbol = "{X}"

// Card is the server's view of a printed card.
type Card struct {
	ID                      string             `json:"id,omitempty"`
	Name                    string             `json:"name"`
	Type                    CardType           `json:"type"`
	AdditionalTypes         []CardType         `json:"additionalTypes,omitempty"`
	Supertypes              []string           `json:"supertypes,omitempty"`
	Subtypes                []string           `json:"subtypes,omitempty"`
	CardText                string             `json:"cardText,omitempty"`
	ManaCost                string             `json:"manaCost,omitempty"`
	Power                   *int               `json:"power,omitempty"`
	Toughness               *int               `json:"toughness,omitempty"`
	Keywords                []string           `json:"keywords,omitempty"`
	HasTapAbility           bool               `json:"hasTapAbility"`
	SetCode                 string             `json:"setCode,omitempty"`
	CollectorNumber         string             `json:"collectorNumber,omitempty"`
	Color                   string             `json:"color,omitempty"`
	NeedsTarget             bool               `json:"needsTarget"`
	NeedsSpellTarget        bool               `json:"needsSpellTarget"`
	TargetsPlayer           bool               `json:"targetsPlayer"`
	RequiresAttackingTarget bool               `json:"requiresAttackingTarget"`
	AllowedTargetTypes      []string           `json:"allowedTargetTypes,omitempty"`
	AllowedTargetColors     []string           `json:"allowedTargetColors,omitempty"`
	NeedsDamageDistribution bool               `json:"needsDamageDistribution"`
	ActivatedAbilities      []ActivatedAbility `json:"activatedAbilities,omitempty"`
	Loyalty                 *int               `json:"loyalty,omitempty"`
	MinTargets              int                `json:"minTargets"`
	MaxTargets              int                `json:"maxTargets"`
	HasConvoke              bool               `json:"hasConvoke"`
}

// HasXCost reports whether the mana cost contains {X}.
func (c Card) HasXCost() bool {
	return strings.Contains(c.ManaCost, XSymbol)
}

// IsBasicLand reports whether the card is a basic land.
func (c Card) IsBasicLand() bool {
	if c.Type != CardTypeLand {
		return false
	}
	for _, st := range c.Supertypes {
		if strings.EqualFold(st, SupertypeBasic) {
			return true
		}
	}
	return false
}

// IsMultiTarget reports whether the card picks more than one target.
func (c Card) IsMultiTarget() bool {
	return c.NeedsTarget && c.MaxTargets > 1
}

// ArtKey is the key used to look up the card's art.
func (c Card) ArtKey() string {
	if c.SetCode == "" || c.CollectorNumber == "" {
		return ""
	}
	return c.SetCode + ":" + c.CollectorNumber
}

// ActivatedAbility is the view of one activated ability of a card.
type ActivatedAbility struct {
	Description         string   `json:"description"`
	RequiresTap         bool     `json:"requiresTap"`
	NeedsTarget         bool     `json:"needsTarget"`
	NeedsSpellTarget    bool     `json:"needsSpellTarget"`
	TargetsPlayer       bool     `json:"targetsPlayer"`
	AllowedTargetTypes  []string `json:"allowedTargetTypes,omitempty"`
	AllowedTargetColors []string `json:"allowedTargetColors,omitempty"`
	ManaCost            string   `json:"manaCost,omitempty"`
	LoyaltyCost         *int     `json:"loyaltyCost,omitempty"`
}

// HasXCost reports whether the activation cost contains {X}.
func (a ActivatedAbility) HasXCost() bool {
	return strings.Contains(a.ManaCost, XSymbol)
}
