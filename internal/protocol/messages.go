// Package protocol defines the JSON messages exchanged with the game server.
// Every message is an object tagged by its "type" field.
package protocol

// MessageType is the value of the "type" tag.
type MessageType string

// Client to server.
const (
	TypePassPriority                 MessageType = "PASS_PRIORITY"
	TypeKeepHand                     MessageType = "KEEP_HAND"
	TypeTakeMulligan                 MessageType = "TAKE_MULLIGAN"
	TypeBottomCards                  MessageType = "BOTTOM_CARDS"
	TypePlayCard                     MessageType = "PLAY_CARD"
	TypeTapPermanent                 MessageType = "TAP_PERMANENT"
	TypeActivateAbility              MessageType = "ACTIVATE_ABILITY"
	TypeDeclareAttackers             MessageType = "DECLARE_ATTACKERS"
	TypeDeclareBlockers              MessageType = "DECLARE_BLOCKERS"
	TypeSetAutoStops                 MessageType = "SET_AUTO_STOPS"
	TypeCardChosen                   MessageType = "CARD_CHOSEN"
	TypeColorChosen                  MessageType = "COLOR_CHOSEN"
	TypeMayAbilityChosen             MessageType = "MAY_ABILITY_CHOSEN"
	TypePermanentChosen              MessageType = "PERMANENT_CHOSEN"
	TypeMultiplePermanentsChosen     MessageType = "MULTIPLE_PERMANENTS_CHOSEN"
	TypeMultipleGraveyardCardsChosen MessageType = "MULTIPLE_GRAVEYARD_CARDS_CHOSEN"
	TypeLibraryCardChosen            MessageType = "LIBRARY_CARD_CHOSEN"
	TypeLibraryCardsReordered        MessageType = "LIBRARY_CARDS_REORDERED"
	TypeHandTopBottomChosen          MessageType = "HAND_TOP_BOTTOM_CHOSEN"
	TypeGraveyardCardChosen          MessageType = "GRAVEYARD_CARD_CHOSEN"
)

// Server to client.
const (
	TypeGameJoined                        MessageType = "GAME_JOINED"
	TypeOpponentJoined                    MessageType = "OPPONENT_JOINED"
	TypeGameState                         MessageType = "GAME_STATE"
	TypeGameLogEntry                      MessageType = "GAME_LOG_ENTRY"
	TypeHandDrawn                         MessageType = "HAND_DRAWN"
	TypeMulliganResolved                  MessageType = "MULLIGAN_RESOLVED"
	TypeGameStarted                       MessageType = "GAME_STARTED"
	TypeSelectCardsToBottom               MessageType = "SELECT_CARDS_TO_BOTTOM"
	TypeAvailableAttackers                MessageType = "AVAILABLE_ATTACKERS"
	TypeAvailableBlockers                 MessageType = "AVAILABLE_BLOCKERS"
	TypeGameOver                          MessageType = "GAME_OVER"
	TypeChooseCardFromHand                MessageType = "CHOOSE_CARD_FROM_HAND"
	TypeChooseColor                       MessageType = "CHOOSE_COLOR"
	TypeMayAbilityChoice                  MessageType = "MAY_ABILITY_CHOICE"
	TypeChoosePermanent                   MessageType = "CHOOSE_PERMANENT"
	TypeChooseMultiplePermanents          MessageType = "CHOOSE_MULTIPLE_PERMANENTS"
	TypeChooseMultipleCardsFromGraveyards MessageType = "CHOOSE_MULTIPLE_CARDS_FROM_GRAVEYARDS"
	TypeReorderLibraryCards               MessageType = "REORDER_LIBRARY_CARDS"
	TypeChooseCardFromLibrary             MessageType = "CHOOSE_CARD_FROM_LIBRARY"
	TypeChooseHandTopBottom               MessageType = "CHOOSE_HAND_TOP_BOTTOM"
	TypeRevealHand                        MessageType = "REVEAL_HAND"
	TypeChooseFromRevealedHand            MessageType = "CHOOSE_FROM_REVEALED_HAND"
	TypeChooseCardFromGraveyard           MessageType = "CHOOSE_CARD_FROM_GRAVEYARD"
	TypeError                             MessageType = "ERROR"

	TypeBattlefieldUpdated   MessageType = "BATTLEFIELD_UPDATED"
	TypeStackUpdated         MessageType = "STACK_UPDATED"
	TypeGraveyardUpdated     MessageType = "GRAVEYARD_UPDATED"
	TypeManaUpdated          MessageType = "MANA_UPDATED"
	TypeLifeUpdated          MessageType = "LIFE_UPDATED"
	TypeDeckSizesUpdated     MessageType = "DECK_SIZES_UPDATED"
	TypePlayableCardsUpdated MessageType = "PLAYABLE_CARDS_UPDATED"
	TypeAutoStopsUpdated     MessageType = "AUTO_STOPS_UPDATED"
	TypePriorityUpdated      MessageType = "PRIORITY_UPDATED"
	TypeStepAdvanced         MessageType = "STEP_ADVANCED"
	TypeTurnChanged          MessageType = "TURN_CHANGED"
)

// DeclineIndex is sent as the chosen index to decline an optional choice.
const DeclineIndex = -1
