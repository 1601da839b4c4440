package model

// Permanent is a card instance on a battlefield.
//
// AttachedTo is a non-owning reference to the host permanent's ID. The host
// is resolved by lookup across both battlefields of the same snapshot.
type Permanent struct {
	ID                 string   `json:"id"`
	Card               Card     `json:"card"`
	Tapped             bool     `json:"tapped"`
	Attacking          bool     `json:"attacking"`
	Blocking           bool     `json:"blocking"`
	BlockingTargets    []int    `json:"blockingTargets,omitempty"`
	SummoningSick      bool     `json:"summoningSick"`
	PowerModifier      int      `json:"powerModifier"`
	ToughnessModifier  int      `json:"toughnessModifier"`
	GrantedKeywords    []string `json:"grantedKeywords,omitempty"`
	EffectivePower     int      `json:"effectivePower"`
	EffectiveToughness int      `json:"effectiveToughness"`
	AttachedTo         string   `json:"attachedTo,omitempty"`
	ChosenColor        string   `json:"chosenColor,omitempty"`
	RegenerationShield int      `json:"regenerationShield"`
	CantBeBlocked      bool     `json:"cantBeBlocked"`
	AnimatedCreature   bool     `json:"animatedCreature"`
	LoyaltyCounters    int      `json:"loyaltyCounters"`
}

// IsCreature reports whether the permanent is creature-like: printed as a
// creature or currently animated into one.
func (p Permanent) IsCreature() bool {
	return p.Card.Type == CardTypeCreature || p.AnimatedCreature
}

// IsAttached reports whether the permanent is attached to a host.
func (p Permanent) IsAttached() bool {
	return p.AttachedTo != ""
}

// Blocks reports whether the permanent is a confirmed blocker of the
// attacker at attackerIndex.
func (p Permanent) Blocks(attackerIndex int) bool {
	if !p.Blocking {
		return false
	}
	for _, idx := range p.BlockingTargets {
		if idx == attackerIndex {
			return true
		}
	}
	return false
}

// EffectiveKeywords returns printed keywords followed by granted ones that
// are not already printed.
func (p Permanent) EffectiveKeywords() []string {
	all := make([]string, 0, len(p.Card.Keywords)+len(p.GrantedKeywords))
	seen := make(map[string]bool, cap(all))
	for _, kw := range p.Card.Keywords {
		if !seen[kw] {
			seen[kw] = true
			all = append(all, kw)
		}
	}
	for _, kw := range p.GrantedKeywords {
		if !seen[kw] {
			seen[kw] = true
			all = append(all, kw)
		}
	}
	return all
}

// StackEntryType classifies stack entries.
type StackEntryType string

const (
	StackEntryCreatureSpell    StackEntryType = "CREATURE_SPELL"
	StackEntrySorcerySpell     StackEntryType = "SORCERY_SPELL"
	StackEntryInstantSpell     StackEntryType = "INSTANT_SPELL"
	StackEntryEnchantmentSpell StackEntryType = "ENCHANTMENT_SPELL"
	StackEntryArtifactSpell    StackEntryType = "ARTIFACT_SPELL"
	StackEntryTriggeredAbility StackEntryType = "TRIGGERED_ABILITY"
	StackEntryActivatedAbility StackEntryType = "ACTIVATED_ABILITY"
)

// StackEntry is a pending spell or ability.
//
// TargetPermanentID may name a permanent, a player or another stack entry;
// the kind is resolved by looking the ID up, not by a tag.
type StackEntry struct {
	EntryType         StackEntryType `json:"entryType"`
	Card              Card           `json:"card"`
	CardID            string         `json:"cardId"`
	ControllerID      string         `json:"controllerId"`
	Description       string         `json:"description"`
	IsSpell           bool           `json:"isSpell"`
	TargetPermanentID string         `json:"targetPermanentId,omitempty"`
}
