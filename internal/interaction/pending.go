package interaction

import (
	"github.com/magefree/mage-client-go/internal/game/model"
	"github.com/magefree/mage-client-go/internal/game/targeting"
)

// Kind names a pending interaction variant.
type Kind string

const (
	KindHandChoice           Kind = "HAND_CHOICE"
	KindColorChoice          Kind = "COLOR_CHOICE"
	KindMayAbility           Kind = "MAY_ABILITY"
	KindPermanentChoice      Kind = "PERMANENT_CHOICE"
	KindMultiPermanentChoice Kind = "MULTI_PERMANENT_CHOICE"
	KindMultiGraveyardChoice Kind = "MULTI_GRAVEYARD_CHOICE"
	KindLibrarySearch        Kind = "LIBRARY_SEARCH"
	KindLibraryReorder       Kind = "LIBRARY_REORDER"
	KindHandTopBottom        Kind = "HAND_TOP_BOTTOM"
	KindRevealedHand         Kind = "REVEALED_HAND"
	KindRevealedHandChoice   Kind = "REVEALED_HAND_CHOICE"
	KindGraveyardCardChoice  Kind = "GRAVEYARD_CARD_CHOICE"
	KindBottomCards          Kind = "BOTTOM_CARDS"
	KindTargeting            Kind = "TARGETING"
	KindSpellTargeting       Kind = "SPELL_TARGETING"
	KindMultiTargeting       Kind = "MULTI_TARGETING"
	KindConvoke              Kind = "CONVOKE"
	KindXValuePrompt         Kind = "X_VALUE_PROMPT"
	KindDamageDistribution   Kind = "DAMAGE_DISTRIBUTION"
	KindAbilityPicker        Kind = "ABILITY_PICKER"
)

// Pending is the one interaction the player is in the middle of. The set of
// implementations is closed; a nil Pending is the neutral state.
//
// Values handed out by the coordinator are owned by it and must be treated
// as read-only.
type Pending interface {
	Kind() Kind
	// ServerOwned reports whether the server is waiting on an answer.
	// Local interactions can be abandoned without telling anyone.
	ServerOwned() bool
	isPending()
}

type serverOwned struct{}

func (serverOwned) ServerOwned() bool { return true }
func (serverOwned) isPending()        {}

type localOnly struct{}

func (localOnly) ServerOwned() bool { return false }
func (localOnly) isPending()        {}

// HandChoice asks for one card of the hand, or a decline.
type HandChoice struct {
	serverOwned
	Indices []int
	Prompt  string
}

// ColorChoice asks for one of the offered colors.
type ColorChoice struct {
	serverOwned
	Colors []string
	Prompt string
}

// MayAbility asks whether an optional ability should be used.
type MayAbility struct {
	serverOwned
	Prompt string
}

// PermanentChoice asks for one of the offered permanents.
type PermanentChoice struct {
	serverOwned
	PermanentIDs []string
	Prompt       string
}

// MultiPermanentChoice asks for up to MaxCount of the offered permanents.
type MultiPermanentChoice struct {
	serverOwned
	PermanentIDs []string
	MaxCount     int
	Prompt       string
	Selected     []string
}

// MultiGraveyardChoice asks for up to MaxCount graveyard cards. Cards and
// CardIDs are parallel.
type MultiGraveyardChoice struct {
	serverOwned
	CardIDs  []string
	Cards    []model.Card
	MaxCount int
	Prompt   string
	Selected []string
}

// LibrarySearch asks for one card of a library search.
type LibrarySearch struct {
	serverOwned
	Cards         []model.Card
	Prompt        string
	CanFailToFind bool
}

// LibraryReorder builds a new order for the offered cards by moving them one
// at a time from Available to Placed. Placed[0] ends up on top.
type LibraryReorder struct {
	serverOwned
	Cards     []model.Card
	Prompt    string
	Available []int
	Placed    []int
}

// HandTopBottom picks one card for the hand, then one for the top of the
// library; the rest go to the bottom. -1 means not chosen yet.
type HandTopBottom struct {
	serverOwned
	Cards     []model.Card
	Prompt    string
	HandIndex int
	TopIndex  int
}

// Step returns 0 while choosing the hand card, 1 while choosing the top card
// and 2 when both are chosen.
func (h *HandTopBottom) Step() int {
	switch {
	case h.HandIndex < 0:
		return 0
	case h.TopIndex < 0:
		return 1
	default:
		return 2
	}
}

// StepPrompt describes what to pick next.
func (h *HandTopBottom) StepPrompt() string {
	switch h.Step() {
	case 0:
		return "Choose a card to put into your hand:"
	case 1:
		return "Choose a card to put on top of your library:"
	default:
		return "Confirm your choices:"
	}
}

// Remaining returns the indices of cards not chosen yet.
func (h *HandTopBottom) Remaining() []int {
	var out []int
	for i := range h.Cards {
		if i != h.HandIndex && i != h.TopIndex {
			out = append(out, i)
		}
	}
	return out
}

// RevealedHand shows another player's hand. Nothing is sent when it closes.
type RevealedHand struct {
	localOnly
	Cards      []model.Card
	PlayerName string
}

// RevealedHandChoice asks for one card of a revealed hand.
type RevealedHandChoice struct {
	serverOwned
	Cards        []model.Card
	ValidIndices []int
	Prompt       string
}

// GraveyardCardChoice asks for one card out of all graveyards. Indices count
// only creature and artifact cards, walking graveyards in seat order.
type GraveyardCardChoice struct {
	serverOwned
	CardIndices []int
	Prompt      string
}

// BottomCards asks which Count cards of the kept hand go to the bottom.
type BottomCards struct {
	serverOwned
	Count    int
	Selected []int
}

// CanConfirm reports whether exactly Count cards are selected.
func (b *BottomCards) CanConfirm() bool {
	return len(b.Selected) == b.Count
}

// Source is what a local play interaction will put on the stack: a hand
// card, or an activated ability of one of my permanents.
type Source struct {
	// Index is the hand index, or the battlefield index for abilities.
	Index        int
	Name         string
	ForAbility   bool
	AbilityIndex int
}

// Targeting picks a single permanent or player target.
type Targeting struct {
	localOnly
	Source     Source
	Constraint targeting.Constraint
	// XValue was chosen before targeting started, if the cost had an X.
	XValue *int

	convoke bool
}

// SpellTargeting picks a spell on the stack.
type SpellTargeting struct {
	localOnly
	Source Source
	XValue *int
}

// MultiTargeting picks between Requirement.MinTargets and MaxTargets
// targets.
type MultiTargeting struct {
	localOnly
	Source      Source
	Requirement targeting.Requirement
	Constraint  targeting.Constraint
	Selected    []string
	XValue      *int

	convoke bool
}

// CanConfirm reports whether the selection holds an allowed number of
// targets.
func (m *MultiTargeting) CanConfirm() bool {
	return m.Requirement.Complete(len(m.Selected))
}

// Convoke picks creatures to tap toward a spell's cost. Targets chosen
// earlier in the chain ride along.
type Convoke struct {
	localOnly
	Source   Source
	Selected []string
	XValue   *int

	targets     []string
	multiTarget bool
}

// Targets returns the targets chosen before convoke started.
func (c *Convoke) Targets() []string {
	return append([]string(nil), c.targets...)
}

// XValuePrompt asks for the value of X, between 0 and Max.
type XValuePrompt struct {
	localOnly
	Source Source
	Max    int

	card    model.Card
	ability model.ActivatedAbility
}

// DamageDistribution splits XValue damage among attacking creatures.
type DamageDistribution struct {
	localOnly
	Source      Source
	XValue      int
	Assignments map[string]int
}

// Remaining returns the damage still to assign.
func (d *DamageDistribution) Remaining() int {
	left := d.XValue
	for _, v := range d.Assignments {
		left -= v
	}
	return left
}

// AbilityChoice is one entry of the ability picker.
type AbilityChoice struct {
	Ability model.ActivatedAbility
	Index   int
	Usable  bool
}

// AbilityPicker asks which activated ability of a permanent to use.
type AbilityPicker struct {
	localOnly
	PermanentIndex int
	Name           string
	Choices        []AbilityChoice
}

func (*HandChoice) Kind() Kind           { return KindHandChoice }
func (*ColorChoice) Kind() Kind          { return KindColorChoice }
func (*MayAbility) Kind() Kind           { return KindMayAbility }
func (*PermanentChoice) Kind() Kind      { return KindPermanentChoice }
func (*MultiPermanentChoice) Kind() Kind { return KindMultiPermanentChoice }
func (*MultiGraveyardChoice) Kind() Kind { return KindMultiGraveyardChoice }
func (*LibrarySearch) Kind() Kind        { return KindLibrarySearch }
func (*LibraryReorder) Kind() Kind       { return KindLibraryReorder }
func (*HandTopBottom) Kind() Kind        { return KindHandTopBottom }
func (*RevealedHand) Kind() Kind         { return KindRevealedHand }
func (*RevealedHandChoice) Kind() Kind   { return KindRevealedHandChoice }
func (*GraveyardCardChoice) Kind() Kind  { return KindGraveyardCardChoice }
func (*BottomCards) Kind() Kind          { return KindBottomCards }
func (*Targeting) Kind() Kind            { return KindTargeting }
func (*SpellTargeting) Kind() Kind       { return KindSpellTargeting }
func (*MultiTargeting) Kind() Kind       { return KindMultiTargeting }
func (*Convoke) Kind() Kind              { return KindConvoke }
func (*XValuePrompt) Kind() Kind         { return KindXValuePrompt }
func (*DamageDistribution) Kind() Kind   { return KindDamageDistribution }
func (*AbilityPicker) Kind() Kind        { return KindAbilityPicker }
