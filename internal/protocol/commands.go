package protocol

// Command is a message sent to the server.
type Command interface {
	CommandType() MessageType
}

// Sender delivers commands to the server.
type Sender interface {
	Send(cmd Command) error
}

// PassPriority passes priority to the opponent.
type PassPriority struct{}

// KeepHand keeps the current opening hand.
type KeepHand struct{}

// TakeMulligan shuffles the hand away and draws a new one.
type TakeMulligan struct{}

// BottomCards puts the chosen hand cards on the bottom of the library after a mulligan.
type BottomCards struct {
	CardIndices []int `json:"cardIndices"`
}

// PlayCard casts a card from hand, or plays a land from the graveyard when
// FromGraveyard is set.
type PlayCard struct {
	CardIndex          int            `json:"cardIndex"`
	XValue             *int           `json:"xValue,omitempty"`
	TargetPermanentID  *string        `json:"targetPermanentId,omitempty"`
	TargetPermanentIDs []string       `json:"targetPermanentIds,omitempty"`
	DamageAssignments  map[string]int `json:"damageAssignments,omitempty"`
	ConvokeCreatureIDs []string       `json:"convokeCreatureIds,omitempty"`
	FromGraveyard      bool           `json:"fromGraveyard,omitempty"`
}

// TapPermanent taps a permanent for mana.
type TapPermanent struct {
	PermanentIndex int `json:"permanentIndex"`
}

// ActivateAbility activates an ability of one of my permanents.
type ActivateAbility struct {
	PermanentIndex    int     `json:"permanentIndex"`
	AbilityIndex      int     `json:"abilityIndex"`
	XValue            *int    `json:"xValue,omitempty"`
	TargetPermanentID *string `json:"targetPermanentId,omitempty"`
}

// DeclareAttackers declares the attacking creatures by battlefield index.
type DeclareAttackers struct {
	AttackerIndices []int `json:"attackerIndices"`
}

// BlockerAssignment pairs a blocker with the attacker it blocks. A blocker
// may appear in several assignments.
type BlockerAssignment struct {
	BlockerIndex  int `json:"blockerIndex"`
	AttackerIndex int `json:"attackerIndex"`
}

// DeclareBlockers declares every blocker assignment at once.
type DeclareBlockers struct {
	BlockerAssignments []BlockerAssignment `json:"blockerAssignments"`
}

// SetAutoStops replaces the set of steps where priority is not passed automatically.
type SetAutoStops struct {
	Stops []string `json:"stops"`
}

// CardChosen answers both hand choices and revealed-hand choices.
type CardChosen struct {
	CardIndex int `json:"cardIndex"`
}

// ColorChosen answers CHOOSE_COLOR.
type ColorChosen struct {
	Color string `json:"color"`
}

// MayAbilityChosen answers MAY_ABILITY_CHOICE.
type MayAbilityChosen struct {
	Accepted bool `json:"accepted"`
}

// PermanentChosen answers CHOOSE_PERMANENT.
type PermanentChosen struct {
	PermanentID string `json:"permanentId"`
}

// MultiplePermanentsChosen answers CHOOSE_MULTIPLE_PERMANENTS.
type MultiplePermanentsChosen struct {
	PermanentIDs []string `json:"permanentIds"`
}

// MultipleGraveyardCardsChosen answers CHOOSE_MULTIPLE_CARDS_FROM_GRAVEYARDS.
type MultipleGraveyardCardsChosen struct {
	CardIDs []string `json:"cardIds"`
}

// LibraryCardChosen answers CHOOSE_CARD_FROM_LIBRARY; index -1 fails to find.
type LibraryCardChosen struct {
	CardIndex int `json:"cardIndex"`
}

// LibraryCardsReordered answers REORDER_LIBRARY_CARDS with the new top-to-bottom order.
type LibraryCardsReordered struct {
	CardOrder []int `json:"cardOrder"`
}

// HandTopBottomChosen answers CHOOSE_HAND_TOP_BOTTOM.
type HandTopBottomChosen struct {
	HandCardIndex int `json:"handCardIndex"`
	TopCardIndex  int `json:"topCardIndex"`
}

// GraveyardCardChosen answers CHOOSE_CARD_FROM_GRAVEYARD.
type GraveyardCardChosen struct {
	CardIndex int `json:"cardIndex"`
}

func (PassPriority) CommandType() MessageType                 { return TypePassPriority }
func (KeepHand) CommandType() MessageType                     { return TypeKeepHand }
func (TakeMulligan) CommandType() MessageType                 { return TypeTakeMulligan }
func (BottomCards) CommandType() MessageType                  { return TypeBottomCards }
func (PlayCard) CommandType() MessageType                     { return TypePlayCard }
func (TapPermanent) CommandType() MessageType                 { return TypeTapPermanent }
func (ActivateAbility) CommandType() MessageType              { return TypeActivateAbility }
func (DeclareAttackers) CommandType() MessageType             { return TypeDeclareAttackers }
func (DeclareBlockers) CommandType() MessageType              { return TypeDeclareBlockers }
func (SetAutoStops) CommandType() MessageType                 { return TypeSetAutoStops }
func (CardChosen) CommandType() MessageType                   { return TypeCardChosen }
func (ColorChosen) CommandType() MessageType                  { return TypeColorChosen }
func (MayAbilityChosen) CommandType() MessageType             { return TypeMayAbilityChosen }
func (PermanentChosen) CommandType() MessageType              { return TypePermanentChosen }
func (MultiplePermanentsChosen) CommandType() MessageType     { return TypeMultiplePermanentsChosen }
func (MultipleGraveyardCardsChosen) CommandType() MessageType { return TypeMultipleGraveyardCardsChosen }
func (LibraryCardChosen) CommandType() MessageType            { return TypeLibraryCardChosen }
func (LibraryCardsReordered) CommandType() MessageType        { return TypeLibraryCardsReordered }
func (HandTopBottomChosen) CommandType() MessageType          { return TypeHandTopBottomChosen }
func (GraveyardCardChosen) CommandType() MessageType          { return TypeGraveyardCardChosen }

// IntPtr returns a pointer to v, for optional command fields.
func IntPtr(v int) *int {
	return &v
}

// StringPtr returns a pointer to v, for optional command fields.
func StringPtr(v string) *string {
	return &v
}
