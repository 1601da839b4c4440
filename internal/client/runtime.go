// Package client runs a game session: it owns the connection, feeds every
// server notification to the session and the interaction coordinator, and
// serialises user actions onto the same event loop.
package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/magefree/mage-client-go/internal/assets"
	"github.com/magefree/mage-client-go/internal/game/model"
	"github.com/magefree/mage-client-go/internal/interaction"
	"github.com/magefree/mage-client-go/internal/journal"
	"github.com/magefree/mage-client-go/internal/protocol"
	"github.com/magefree/mage-client-go/internal/session"
)

var (
	// ErrStopped is returned by Do once the runtime has torn down.
	ErrStopped = errors.New("runtime stopped")
	// ErrDisconnected is the teardown cause when the server goes away.
	ErrDisconnected = errors.New("disconnected from server")
)

// Conn is the connection the runtime reads from and writes to.
type Conn interface {
	protocol.Sender
	Inbound() <-chan []byte
	Err() error
	Close() error
}

// Observer receives runtime events. All methods are called on the event
// loop and must not call Runtime.Do.
type Observer interface {
	OnChange(g *Game)
	OnServerError(message string)
	OnTeardown(err error)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) OnChange(*Game)       {}
func (NopObserver) OnServerError(string) {}
func (NopObserver) OnTeardown(error)     {}

// Game is what user actions operate on.
type Game struct {
	State       *session.State
	Interaction *interaction.Coordinator
	Assets      assets.Lookup
}

// ArtURL resolves the art of card without blocking.
func (g *Game) ArtURL(card model.Card) (string, bool) {
	return g.Assets.URL(card.ArtKey())
}

// Options configures a Runtime.
type Options struct {
	Observer Observer
	Assets   assets.Lookup
	// JournalDirectory enables session recording when set.
	JournalDirectory string
}

// Runtime is the single event loop of a session.
type Runtime struct {
	logger    *zap.Logger
	conn      Conn
	game      *Game
	observer  Observer
	recorder  *journal.Recorder
	sessionID string

	actions chan func(*Game)
	stopped chan struct{}
	err     error
}

// New builds a runtime for the local player on conn.
func New(conn Conn, me session.Player, opts Options, logger *zap.Logger) *Runtime {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Observer == nil {
		opts.Observer = NopObserver{}
	}
	if opts.Assets == nil {
		opts.Assets = assets.None{}
	}

	sessionID := uuid.NewString()
	logger = logger.With(zap.String("session_id", sessionID))

	state := session.New(me, conn, logger.Named("session"))
	r := &Runtime{
		logger: logger,
		conn:   conn,
		game: &Game{
			State:       state,
			Interaction: interaction.New(state, conn, logger.Named("interaction")),
			Assets:      opts.Assets,
		},
		observer:  opts.Observer,
		sessionID: sessionID,
		actions:   make(chan func(*Game)),
		stopped:   make(chan struct{}),
	}
	if opts.JournalDirectory != "" {
		r.recorder = journal.NewRecorder(sessionID, opts.JournalDirectory, logger.Named("journal"))
	}
	return r
}

// SessionID identifies this run in logs and journal files.
func (r *Runtime) SessionID() string {
	return r.sessionID
}

// Run processes notifications and actions until the connection ends, a
// malformed frame arrives or ctx is cancelled. It returns the teardown
// cause, which is nil after a cancellation.
func (r *Runtime) Run(ctx context.Context) error {
	r.logger.Info("session started")
	for {
		select {
		case <-ctx.Done():
			r.teardown(nil)
			return nil

		case frame, ok := <-r.conn.Inbound():
			if !ok {
				cause := ErrDisconnected
				if err := r.conn.Err(); err != nil {
					cause = fmt.Errorf("%w: %v", ErrDisconnected, err)
				}
				r.teardown(cause)
				return cause
			}
			if err := r.handleFrame(frame); err != nil {
				r.teardown(err)
				return err
			}

		case action := <-r.actions:
			action(r.game)
			r.observer.OnChange(r.game)
		}
	}
}

// Do runs fn on the event loop and waits for it to finish.
func (r *Runtime) Do(fn func(*Game)) error {
	finished := make(chan struct{})
	wrapped := func(g *Game) {
		defer close(finished)
		fn(g)
	}
	select {
	case r.actions <- wrapped:
	case <-r.stopped:
		return ErrStopped
	}
	select {
	case <-finished:
		return nil
	case <-r.stopped:
		return ErrStopped
	}
}

// Stopped is closed once the runtime has torn down.
func (r *Runtime) Stopped() <-chan struct{} {
	return r.stopped
}

// Err returns the teardown cause.
func (r *Runtime) Err() error {
	select {
	case <-r.stopped:
		return r.err
	default:
		return nil
	}
}

func (r *Runtime) handleFrame(frame []byte) error {
	n, err := protocol.Decode(frame)
	switch {
	case errors.Is(err, protocol.ErrUnknownType):
		r.logger.Warn("ignoring notification", zap.Error(err))
		return nil
	case err != nil:
		r.logger.Error("connection failed", zap.Error(err))
		return fmt.Errorf("connection failed: %w", err)
	}

	r.logger.Debug("notification received", zap.String("type", string(n.NotificationType())))
	if e, ok := n.(*protocol.Error); ok {
		r.logger.Warn("server error", zap.String("message", e.Message))
		r.observer.OnServerError(e.Message)
		return nil
	}

	r.dispatch(n)
	if r.recorder != nil && r.game.State.Joined() {
		r.recorder.Record(string(n.NotificationType()), r.game.State.Snapshot())
	}
	r.observer.OnChange(r.game)
	return nil
}

func (r *Runtime) dispatch(n protocol.Notification) {
	state, coord := r.game.State, r.game.Interaction

	if d, ok := deltaFromPush(n); ok {
		r.afterTransition(state.Apply(d))
		return
	}

	switch n := n.(type) {
	case *protocol.GameJoined:
		coord.Reset()
		r.afterTransition(state.Replace(snapshotFromView(n.Game)))
	case *protocol.OpponentJoined:
		r.afterTransition(state.Replace(snapshotFromView(n.Game)))
	case *protocol.GameState:
		r.afterTransition(state.Apply(deltaFromState(n)))
	case *protocol.GameLogEntry:
		state.AppendLog(n.Message)
	case *protocol.HandDrawn:
		r.afterTransition(state.HandDrawn(n.Hand, n.MulliganCount))
	case *protocol.MulliganResolved:
		state.MulliganResolved(n.PlayerName, n.Kept)
	case *protocol.GameStarted:
		r.afterTransition(state.GameStarted(n.ActivePlayerID, n.TurnNumber, n.CurrentStep, n.PriorityPlayerID))
	case *protocol.AvailableAttackers:
		state.BeginAttackerDeclaration(n.AttackerIndices, n.MustAttackIndices)
	case *protocol.AvailableBlockers:
		state.BeginBlockerDeclaration(n.BlockerIndices, n.AttackerIndices)
	case *protocol.GameOver:
		coord.Reset()
		state.FinishGame(n.WinnerID, n.WinnerName)
		r.logger.Info("game over", zap.String("winner", n.WinnerName))
	default:
		r.offer(n)
	}
}

// offer opens the interaction the server asks for, taking the place of a
// local one.
func (r *Runtime) offer(n protocol.Notification) {
	coord := r.game.Interaction
	coord.PreemptLocal()

	var err error
	switch n := n.(type) {
	case *protocol.SelectCardsToBottom:
		err = coord.OfferBottomCards(n.Count)
	case *protocol.ChooseCardFromHand:
		err = coord.OfferHandChoice(n.CardIndices, n.Prompt)
	case *protocol.ChooseColor:
		err = coord.OfferColorChoice(n.Colors, n.Prompt)
	case *protocol.MayAbilityChoice:
		err = coord.OfferMayAbility(n.Prompt)
	case *protocol.ChoosePermanent:
		err = coord.OfferPermanentChoice(n.PermanentIDs, n.Prompt)
	case *protocol.ChooseMultiplePermanents:
		err = coord.OfferMultiPermanentChoice(n.PermanentIDs, n.MaxCount, n.Prompt)
	case *protocol.ChooseMultipleCardsFromGraveyards:
		err = coord.OfferMultiGraveyardChoice(n.CardIDs, n.Cards, n.MaxCount, n.Prompt)
	case *protocol.ReorderLibraryCards:
		err = coord.OfferLibraryReorder(n.Cards, n.Prompt)
	case *protocol.ChooseCardFromLibrary:
		err = coord.OfferLibrarySearch(n.Cards, n.Prompt, n.CanFailToFind)
	case *protocol.ChooseHandTopBottom:
		err = coord.OfferHandTopBottom(n.Cards, n.Prompt)
	case *protocol.RevealHand:
		err = coord.OfferRevealedHand(n.Cards, n.PlayerName)
	case *protocol.ChooseFromRevealedHand:
		err = coord.OfferRevealedHandChoice(n.Cards, n.ValidIndices, n.Prompt)
	case *protocol.ChooseCardFromGraveyard:
		err = coord.OfferGraveyardCardChoice(n.CardIndices, n.Prompt)
	default:
		r.logger.Warn("unhandled notification", zap.String("type", string(n.NotificationType())))
		return
	}
	if err != nil {
		r.logger.Warn("offer dropped",
			zap.String("type", string(n.NotificationType())),
			zap.Error(err),
		)
	}
}

func (r *Runtime) afterTransition(tr session.Transition) {
	if tr.EnteredRunning && r.game.Interaction.DiscardBottomCards() {
		r.logger.Debug("bottom card selection discarded")
	}
}

func (r *Runtime) teardown(cause error) {
	r.err = cause
	r.game.Interaction.Reset()
	r.game.State.Reset()
	if err := r.conn.Close(); err != nil {
		r.logger.Warn("failed to close connection", zap.Error(err))
	}
	if r.recorder != nil {
		if err := r.recorder.Finish(); err != nil {
			r.logger.Error("failed to save journal", zap.Error(err))
		}
	}
	close(r.stopped)

	if cause != nil {
		r.logger.Warn("session torn down", zap.Error(cause))
	} else {
		r.logger.Info("session closed")
	}
	r.observer.OnTeardown(cause)
}
