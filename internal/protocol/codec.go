package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrMalformed is returned for frames that cannot be parsed. It is fatal
	// to the connection.
	ErrMalformed = errors.New("malformed message")
	// ErrUnknownType is returned for well-formed frames with a type this
	// client does not handle.
	ErrUnknownType = errors.New("unknown message type")
)

var notificationFactories = map[MessageType]func() Notification{
	TypeGameJoined:                        func() Notification { return &GameJoined{} },
	TypeOpponentJoined:                    func() Notification { return &OpponentJoined{} },
	TypeGameState:                         func() Notification { return &GameState{} },
	TypeGameLogEntry:                      func() Notification { return &GameLogEntry{} },
	TypeHandDrawn:                         func() Notification { return &HandDrawn{} },
	TypeMulliganResolved:                  func() Notification { return &MulliganResolved{} },
	TypeGameStarted:                       func() Notification { return &GameStarted{} },
	TypeSelectCardsToBottom:               func() Notification { return &SelectCardsToBottom{} },
	TypeAvailableAttackers:                func() Notification { return &AvailableAttackers{} },
	TypeAvailableBlockers:                 func() Notification { return &AvailableBlockers{} },
	TypeGameOver:                          func() Notification { return &GameOver{} },
	TypeChooseCardFromHand:                func() Notification { return &ChooseCardFromHand{} },
	TypeChooseColor:                       func() Notification { return &ChooseColor{} },
	TypeMayAbilityChoice:                  func() Notification { return &MayAbilityChoice{} },
	TypeChoosePermanent:                   func() Notification { return &ChoosePermanent{} },
	TypeChooseMultiplePermanents:          func() Notification { return &ChooseMultiplePermanents{} },
	TypeChooseMultipleCardsFromGraveyards: func() Notification { return &ChooseMultipleCardsFromGraveyards{} },
	TypeReorderLibraryCards:               func() Notification { return &ReorderLibraryCards{} },
	TypeChooseCardFromLibrary:             func() Notification { return &ChooseCardFromLibrary{} },
	TypeChooseHandTopBottom:               func() Notification { return &ChooseHandTopBottom{} },
	TypeRevealHand:                        func() Notification { return &RevealHand{} },
	TypeChooseFromRevealedHand:            func() Notification { return &ChooseFromRevealedHand{} },
	TypeChooseCardFromGraveyard:           func() Notification { return &ChooseCardFromGraveyard{} },
	TypeError:                             func() Notification { return &Error{} },
	TypeBattlefieldUpdated:                func() Notification { return &BattlefieldUpdated{} },
	TypeStackUpdated:                      func() Notification { return &StackUpdated{} },
	TypeGraveyardUpdated:                  func() Notification { return &GraveyardUpdated{} },
	TypeManaUpdated:                       func() Notification { return &ManaUpdated{} },
	TypeLifeUpdated:                       func() Notification { return &LifeUpdated{} },
	TypeDeckSizesUpdated:                  func() Notification { return &DeckSizesUpdated{} },
	TypePlayableCardsUpdated:              func() Notification { return &PlayableCardsUpdated{} },
	TypeAutoStopsUpdated:                  func() Notification { return &AutoStopsUpdated{} },
	TypePriorityUpdated:                   func() Notification { return &GameUpdate{} },
	TypeStepAdvanced:                      func() Notification { return &GameUpdate{} },
	TypeTurnChanged:                       func() Notification { return &GameUpdate{} },
}

type envelope struct {
	Type MessageType `json:"type"`
}

// Decode parses one inbound frame. The returned notification is a pointer to
// one of the notification structs in this package.
func Decode(data []byte) (Notification, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrMalformed)
	}

	factory, ok := notificationFactories[env.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, env.Type)
	}

	n := factory()
	if err := json.Unmarshal(data, n); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, env.Type, err)
	}
	if update, ok := n.(*GameUpdate); ok {
		update.Kind = env.Type
	}
	return n, nil
}

// Encode serializes a command with its type tag.
func Encode(cmd Command) ([]byte, error) {
	if cmd == nil {
		return nil, errors.New("nil command")
	}
	return encodeTagged(cmd.CommandType(), cmd)
}

// EncodeNotification serializes a notification with its type tag. The
// client never sends notifications; this serves servers and test doubles.
func EncodeNotification(n Notification) ([]byte, error) {
	if n == nil {
		return nil, errors.New("nil notification")
	}
	return encodeTagged(n.NotificationType(), n)
}

func encodeTagged(t MessageType, v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", t, err)
	}
	tag, err := json.Marshal(envelope{Type: t})
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", t, err)
	}

	body = bytes.TrimSpace(body)
	if len(body) < 2 || body[0] != '{' {
		return nil, fmt.Errorf("message %s does not encode to an object", t)
	}
	if bytes.Equal(body, []byte("{}")) {
		return tag, nil
	}

	// Splice the type tag in front of the command's own fields.
	out := make([]byte, 0, len(tag)+len(body))
	out = append(out, tag[:len(tag)-1]...)
	out = append(out, ',')
	out = append(out, body[1:]...)
	return out, nil
}
