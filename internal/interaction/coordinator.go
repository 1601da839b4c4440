// Package interaction tracks the single decision the player is in the middle
// of, from the offer that opens it to the one command that closes it.
package interaction

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/magefree/mage-client-go/internal/game/model"
	"github.com/magefree/mage-client-go/internal/protocol"
)

var (
	// ErrInteractionActive is returned when an interaction is opened while
	// another one is still pending.
	ErrInteractionActive = errors.New("another interaction is active")
	// ErrNoInteraction is returned by actions that do not apply to the
	// active interaction.
	ErrNoInteraction = errors.New("no matching interaction")
	// ErrInvalidSelection is returned for selections outside the offered
	// candidates or commits that do not meet the constraints yet.
	ErrInvalidSelection = errors.New("invalid selection")
	// ErrNotPlayable is returned when a card or permanent cannot be used now.
	ErrNotPlayable = errors.New("not playable")
	// ErrNotCancellable is returned when cancelling an interaction the server
	// needs an answer to.
	ErrNotCancellable = errors.New("interaction requires an answer")
)

// Game is the read side of the session the coordinator consults.
type Game interface {
	Hand() []model.Card
	MyBattlefield() []model.Permanent
	Graveyards() [][]model.Card
	Stack() []model.StackEntry
	PlayerIDs() []string
	PlayerName(playerID string) string
	FindPermanent(id string) (model.Permanent, bool)
	TotalMana() int
	IsCardPlayable(index int) bool
	IsGraveyardLandPlayable(index int) bool
	CanTapPermanent(index int) bool
	CanUseAbility(perm model.Permanent, ability model.ActivatedAbility) bool
}

// Coordinator owns the pending interaction. It is not safe for concurrent
// use.
type Coordinator struct {
	logger *zap.Logger
	sender protocol.Sender
	game   Game
	active Pending
}

// New creates a coordinator in the neutral state.
func New(game Game, sender protocol.Sender, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		logger: logger,
		sender: sender,
		game:   game,
	}
}

// Active returns the pending interaction, or nil.
func (c *Coordinator) Active() Pending {
	return c.active
}

// Idle reports whether no interaction is pending.
func (c *Coordinator) Idle() bool {
	return c.active == nil
}

// PreemptLocal abandons a local interaction so a server offer can take its
// place. Server-owned interactions are left alone.
func (c *Coordinator) PreemptLocal() bool {
	if c.active == nil || c.active.ServerOwned() {
		return false
	}
	c.logger.Debug("interaction preempted", zap.String("kind", string(c.active.Kind())))
	c.active = nil
	return true
}

// Reset drops any pending interaction without sending anything.
func (c *Coordinator) Reset() {
	c.active = nil
}

// Cancel abandons the pending interaction. Hand choices and library searches
// answer with the decline sentinel; other server-owned interactions cannot be
// cancelled.
func (c *Coordinator) Cancel() error {
	switch p := c.active.(type) {
	case nil:
		return ErrNoInteraction
	case *HandChoice:
		return c.DeclineHandChoice()
	case *LibrarySearch:
		return c.DeclineLibrarySearch()
	default:
		if p.ServerOwned() {
			return ErrNotCancellable
		}
		c.logger.Debug("interaction cancelled", zap.String("kind", string(p.Kind())))
		c.active = nil
		return nil
	}
}

// open enters p from the neutral state.
func (c *Coordinator) open(p Pending) error {
	if c.active != nil {
		c.logger.Warn("offer rejected",
			zap.String("kind", string(p.Kind())),
			zap.String("active", string(c.active.Kind())),
		)
		return ErrInteractionActive
	}
	c.active = p
	c.logger.Debug("interaction opened", zap.String("kind", string(p.Kind())))
	return nil
}

// advance sends cmd, if any, then moves to next. On a send failure the
// current interaction stays active.
func (c *Coordinator) advance(next Pending, cmd protocol.Command) error {
	if cmd != nil {
		if err := c.sender.Send(cmd); err != nil {
			c.logger.Warn("failed to send command",
				zap.String("type", string(cmd.CommandType())),
				zap.Error(err),
			)
			return fmt.Errorf("send %s: %w", cmd.CommandType(), err)
		}
		c.logger.Debug("command sent", zap.String("type", string(cmd.CommandType())))
	}
	c.active = next
	if next != nil {
		c.logger.Debug("interaction chained", zap.String("kind", string(next.Kind())))
	}
	return nil
}

// commit sends cmd and returns to neutral.
func (c *Coordinator) commit(cmd protocol.Command) error {
	return c.advance(nil, cmd)
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func containsString(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func removeString(values []string, v string) []string {
	out := make([]string, 0, len(values))
	for _, x := range values {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}
