package protocol

import (
	"github.com/magefree/mage-client-go/internal/game/mana"
	"github.com/magefree/mage-client-go/internal/game/model"
	"github.com/magefree/mage-client-go/internal/game/rules"
)

// Notification is a message received from the server.
type Notification interface {
	NotificationType() MessageType
}

// GameView is the full game as sent when a session is joined.
type GameView struct {
	ID                           string              `json:"id"`
	GameName                     string              `json:"gameName"`
	Status                       string              `json:"status"`
	PlayerIDs                    []string            `json:"playerIds"`
	PlayerNames                  []string            `json:"playerNames"`
	ActivePlayerID               string              `json:"activePlayerId"`
	PriorityPlayerID             string              `json:"priorityPlayerId"`
	TurnNumber                   int                 `json:"turnNumber"`
	CurrentStep                  rules.Step          `json:"currentStep"`
	Battlefields                 [][]model.Permanent `json:"battlefields"`
	Stack                        []model.StackEntry  `json:"stack"`
	Graveyards                   [][]model.Card      `json:"graveyards"`
	DeckSizes                    []int               `json:"deckSizes"`
	HandSizes                    []int               `json:"handSizes"`
	LifeTotals                   []int               `json:"lifeTotals"`
	Hand                         []model.Card        `json:"hand"`
	OpponentHand                 []model.Card        `json:"opponentHand"`
	MulliganCount                int                 `json:"mulliganCount"`
	ManaPool                     mana.Pool           `json:"manaPool"`
	AutoStopSteps                []rules.Step        `json:"autoStopSteps"`
	PlayableCardIndices          []int               `json:"playableCardIndices"`
	PlayableGraveyardLandIndices []int               `json:"playableGraveyardLandIndices"`
	GameLog                      []string            `json:"gameLog"`
}

// GameJoined carries the full game when the local player joins.
type GameJoined struct {
	Game GameView `json:"game"`
}

// OpponentJoined carries the full game once the opponent has joined.
type OpponentJoined struct {
	Game GameView `json:"game"`
}

// GameState is the authoritative state push. Absent fields decode to nil
// and leave the local value untouched.
type GameState struct {
	Status                       *string             `json:"status,omitempty"`
	ActivePlayerID               *string             `json:"activePlayerId,omitempty"`
	TurnNumber                   *int                `json:"turnNumber,omitempty"`
	CurrentStep                  *rules.Step         `json:"currentStep,omitempty"`
	PriorityPlayerID             *string             `json:"priorityPlayerId,omitempty"`
	Battlefields                 [][]model.Permanent `json:"battlefields,omitempty"`
	Stack                        []model.StackEntry  `json:"stack,omitempty"`
	Graveyards                   [][]model.Card      `json:"graveyards,omitempty"`
	DeckSizes                    []int               `json:"deckSizes,omitempty"`
	HandSizes                    []int               `json:"handSizes,omitempty"`
	LifeTotals                   []int               `json:"lifeTotals,omitempty"`
	Hand                         []model.Card        `json:"hand,omitempty"`
	OpponentHand                 []model.Card        `json:"opponentHand,omitempty"`
	MulliganCount                *int                `json:"mulliganCount,omitempty"`
	ManaPool                     mana.Pool           `json:"manaPool,omitempty"`
	AutoStopSteps                []rules.Step        `json:"autoStopSteps,omitempty"`
	PlayableCardIndices          []int               `json:"playableCardIndices,omitempty"`
	PlayableGraveyardLandIndices []int               `json:"playableGraveyardLandIndices,omitempty"`
	NewLogEntries                []string            `json:"newLogEntries,omitempty"`
}

// GameLogEntry is a single line for the game log.
type GameLogEntry struct {
	Message string `json:"message"`
}

// HandDrawn carries a new opening hand.
type HandDrawn struct {
	Hand          []model.Card `json:"hand"`
	MulliganCount int          `json:"mulliganCount"`
}

// MulliganResolved reports that a player kept or took a mulligan.
type MulliganResolved struct {
	PlayerName    string `json:"playerName"`
	Kept          bool   `json:"kept"`
	MulliganCount int    `json:"mulliganCount"`
}

// GameStarted ends the mulligan phase and starts the first turn.
type GameStarted struct {
	ActivePlayerID   string     `json:"activePlayerId"`
	TurnNumber       int        `json:"turnNumber"`
	CurrentStep      rules.Step `json:"currentStep"`
	PriorityPlayerID string     `json:"priorityPlayerId"`
}

// SelectCardsToBottom asks which cards to put on the bottom after a mulligan.
type SelectCardsToBottom struct {
	Count int `json:"count"`
}

// AvailableAttackers opens the attacker declaration.
type AvailableAttackers struct {
	AttackerIndices   []int `json:"attackerIndices"`
	MustAttackIndices []int `json:"mustAttackIndices,omitempty"`
}

// AvailableBlockers opens the blocker declaration.
type AvailableBlockers struct {
	BlockerIndices  []int `json:"blockerIndices"`
	AttackerIndices []int `json:"attackerIndices"`
}

// GameOver ends the game.
type GameOver struct {
	WinnerID   string `json:"winnerId"`
	WinnerName string `json:"winnerName"`
}

// ChooseCardFromHand asks for one of the listed hand cards.
type ChooseCardFromHand struct {
	CardIndices []int  `json:"cardIndices"`
	Prompt      string `json:"prompt"`
}

// ChooseColor asks for one of the listed colors.
type ChooseColor struct {
	Colors []string `json:"colors"`
	Prompt string   `json:"prompt"`
}

// MayAbilityChoice asks whether an optional ability should be used.
type MayAbilityChoice struct {
	Prompt string `json:"prompt"`
}

// ChoosePermanent asks for one of the listed permanents.
type ChoosePermanent struct {
	PermanentIDs []string `json:"permanentIds"`
	Prompt       string   `json:"prompt"`
}

// ChooseMultiplePermanents asks for up to MaxCount of the listed permanents.
type ChooseMultiplePermanents struct {
	PermanentIDs []string `json:"permanentIds"`
	MaxCount     int      `json:"maxCount"`
	Prompt       string   `json:"prompt"`
}

// ChooseMultipleCardsFromGraveyards asks for up to MaxCount graveyard cards.
type ChooseMultipleCardsFromGraveyards struct {
	CardIDs  []string     `json:"cardIds"`
	Cards    []model.Card `json:"cards"`
	MaxCount int          `json:"maxCount"`
	Prompt   string       `json:"prompt"`
}

// ReorderLibraryCards asks for a new order of the top library cards.
type ReorderLibraryCards struct {
	Cards  []model.Card `json:"cards"`
	Prompt string       `json:"prompt"`
}

// ChooseCardFromLibrary asks for a card found by a library search.
type ChooseCardFromLibrary struct {
	Cards         []model.Card `json:"cards"`
	Prompt        string       `json:"prompt"`
	CanFailToFind bool         `json:"canFailToFind"`
}

// ChooseHandTopBottom asks which looked-at card goes to hand, the rest going to the bottom.
type ChooseHandTopBottom struct {
	Cards  []model.Card `json:"cards"`
	Prompt string       `json:"prompt"`
}

// RevealHand shows an opponent's hand.
type RevealHand struct {
	Cards      []model.Card `json:"cards"`
	PlayerName string       `json:"playerName"`
}

// ChooseFromRevealedHand asks for a card out of a revealed hand.
type ChooseFromRevealedHand struct {
	Cards        []model.Card `json:"cards"`
	ValidIndices []int        `json:"validIndices"`
	Prompt       string       `json:"prompt"`
}

// ChooseCardFromGraveyard offers indices into the pool of eligible cards
// across every player's graveyard.
type ChooseCardFromGraveyard struct {
	CardIndices []int  `json:"cardIndices"`
	Prompt      string `json:"prompt"`
}

// Error reports an action the server rejected.
type Error struct {
	Message string `json:"message"`
}

// BattlefieldUpdated replaces both battlefields.
type BattlefieldUpdated struct {
	Battlefields [][]model.Permanent `json:"battlefields"`
}

// StackUpdated replaces the stack.
type StackUpdated struct {
	Stack []model.StackEntry `json:"stack"`
}

// GraveyardUpdated replaces every graveyard.
type GraveyardUpdated struct {
	Graveyards [][]model.Card `json:"graveyards"`
}

// ManaUpdated replaces my mana pool.
type ManaUpdated struct {
	ManaPool mana.Pool `json:"manaPool"`
}

// LifeUpdated replaces the life totals.
type LifeUpdated struct {
	LifeTotals []int `json:"lifeTotals"`
}

// DeckSizesUpdated replaces the library sizes.
type DeckSizesUpdated struct {
	DeckSizes []int `json:"deckSizes"`
}

// PlayableCardsUpdated replaces the playable hand and graveyard-land indices.
type PlayableCardsUpdated struct {
	PlayableCardIndices          []int `json:"playableCardIndices"`
	PlayableGraveyardLandIndices []int `json:"playableGraveyardLandIndices,omitempty"`
}

// AutoStopsUpdated replaces my auto-stop steps.
type AutoStopsUpdated struct {
	AutoStopSteps []rules.Step `json:"autoStopSteps"`
}

// GameUpdate carries PRIORITY_UPDATED, STEP_ADVANCED and TURN_CHANGED. Only
// the fields present in the payload are set.
type GameUpdate struct {
	Kind             MessageType `json:"-"`
	PriorityPlayerID *string     `json:"priorityPlayerId,omitempty"`
	CurrentStep      *rules.Step `json:"currentStep,omitempty"`
	ActivePlayerID   *string     `json:"activePlayerId,omitempty"`
	TurnNumber       *int        `json:"turnNumber,omitempty"`
}

func (GameJoined) NotificationType() MessageType          { return TypeGameJoined }
func (OpponentJoined) NotificationType() MessageType      { return TypeOpponentJoined }
func (GameState) NotificationType() MessageType           { return TypeGameState }
func (GameLogEntry) NotificationType() MessageType        { return TypeGameLogEntry }
func (HandDrawn) NotificationType() MessageType           { return TypeHandDrawn }
func (MulliganResolved) NotificationType() MessageType    { return TypeMulliganResolved }
func (GameStarted) NotificationType() MessageType         { return TypeGameStarted }
func (SelectCardsToBottom) NotificationType() MessageType { return TypeSelectCardsToBottom }
func (AvailableAttackers) NotificationType() MessageType  { return TypeAvailableAttackers }
func (AvailableBlockers) NotificationType() MessageType   { return TypeAvailableBlockers }
func (GameOver) NotificationType() MessageType            { return TypeGameOver }
func (ChooseCardFromHand) NotificationType() MessageType  { return TypeChooseCardFromHand }
func (ChooseColor) NotificationType() MessageType         { return TypeChooseColor }
func (MayAbilityChoice) NotificationType() MessageType    { return TypeMayAbilityChoice }
func (ChoosePermanent) NotificationType() MessageType     { return TypeChoosePermanent }
func (ChooseMultiplePermanents) NotificationType() MessageType {
	return TypeChooseMultiplePermanents
}
func (ChooseMultipleCardsFromGraveyards) NotificationType() MessageType {
	return TypeChooseMultipleCardsFromGraveyards
}
func (ReorderLibraryCards) NotificationType() MessageType     { return TypeReorderLibraryCards }
func (ChooseCardFromLibrary) NotificationType() MessageType   { return TypeChooseCardFromLibrary }
func (ChooseHandTopBottom) NotificationType() MessageType     { return TypeChooseHandTopBottom }
func (RevealHand) NotificationType() MessageType              { return TypeRevealHand }
func (ChooseFromRevealedHand) NotificationType() MessageType  { return TypeChooseFromRevealedHand }
func (ChooseCardFromGraveyard) NotificationType() MessageType { return TypeChooseCardFromGraveyard }
func (Error) NotificationType() MessageType                   { return TypeError }
func (BattlefieldUpdated) NotificationType() MessageType      { return TypeBattlefieldUpdated }
func (StackUpdated) NotificationType() MessageType            { return TypeStackUpdated }
func (GraveyardUpdated) NotificationType() MessageType        { return TypeGraveyardUpdated }
func (ManaUpdated) NotificationType() MessageType             { return TypeManaUpdated }
func (LifeUpdated) NotificationType() MessageType             { return TypeLifeUpdated }
func (DeckSizesUpdated) NotificationType() MessageType        { return TypeDeckSizesUpdated }
func (PlayableCardsUpdated) NotificationType() MessageType    { return TypePlayableCardsUpdated }
func (AutoStopsUpdated) NotificationType() MessageType        { return TypeAutoStopsUpdated }
func (u GameUpdate) NotificationType() MessageType            { return u.Kind }
