// Package session mirrors the authoritative game on the client. State owns
// the snapshot and the turn, priority and combat-declaration flags that gate
// which player actions make sense.
package session

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/magefree/mage-client-go/internal/game/model"
	"github.com/magefree/mage-client-go/internal/game/rules"
	"github.com/magefree/mage-client-go/internal/game/view"
	"github.com/magefree/mage-client-go/internal/protocol"
)

var (
	ErrNotJoined         = errors.New("no game joined")
	ErrNoDeclaration     = errors.New("no declaration in progress")
	ErrNotAvailable      = errors.New("index not offered")
	ErrNoBlockerSelected = errors.New("no blocker selected")
	ErrAlreadyKept       = errors.New("hand already kept")
	ErrMulliganLimit     = errors.New("no mulligans left")
	ErrForcedStop        = errors.New("step is always a stop")
)

// MaxMulligans is the number of mulligans after which the hand must be kept.
const MaxMulligans = 7

// DefaultLife is shown for players whose life total is unknown.
const DefaultLife = 20

// Tab is the side panel shown next to the battlefield.
type Tab string

const (
	TabLog   Tab = "log"
	TabStack Tab = "stack"
)

// Player identifies the local user.
type Player struct {
	ID   string
	Name string
}

// GameOver records the end of the game.
type GameOver struct {
	WinnerID   string
	WinnerName string
}

// Transition reports side effects of an update that other components react
// to.
type Transition struct {
	EnteredRunning bool
}

// State is not safe for concurrent use; the client runtime confines it to its
// event loop.
type State struct {
	logger *zap.Logger
	sender protocol.Sender
	me     Player

	snap    Snapshot
	joined  bool
	tab     Tab
	prevTab Tab

	attack attackDeclaration
	block  blockDeclaration

	selfKept     bool
	opponentKept bool
	gameOver     *GameOver
}

// New creates an empty session for the given player.
func New(me Player, sender protocol.Sender, logger *zap.Logger) *State {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &State{
		logger:  logger,
		sender:  sender,
		me:      me,
		tab:     TabLog,
		prevTab: TabLog,
		block:   blockDeclaration{selected: noBlocker},
	}
}

// Me returns the local player.
func (s *State) Me() Player {
	return s.me
}

// Joined reports whether a game is loaded.
func (s *State) Joined() bool {
	return s.joined
}

// Snapshot returns a copy of the current snapshot.
func (s *State) Snapshot() Snapshot {
	return s.snap.Clone()
}

// Replace loads a full game, as sent on join.
func (s *State) Replace(full Snapshot) Transition {
	prev := s.snap.Status
	s.snap = full.Clone()
	s.joined = true
	s.attack = attackDeclaration{}
	s.block = blockDeclaration{selected: noBlocker}
	s.gameOver = nil
	if len(s.snap.Stack) > 0 {
		s.prevTab, s.tab = TabLog, TabStack
	} else {
		s.prevTab, s.tab = TabLog, TabLog
	}

	s.logger.Info("game loaded",
		zap.String("game_id", s.snap.ID),
		zap.String("status", string(s.snap.Status)),
		zap.Int("players", len(s.snap.PlayerIDs)),
	)
	return s.enterStatus(prev)
}

// Apply merges one update into the snapshot.
func (s *State) Apply(d Delta) Transition {
	prevStatus := s.snap.Status
	stackWasEmpty := len(s.snap.Stack) == 0

	if d.Status != nil {
		s.snap.Status = *d.Status
	}
	if d.ActivePlayerID != nil {
		s.snap.ActivePlayerID = *d.ActivePlayerID
	}
	if d.PriorityPlayerID != nil {
		s.snap.PriorityPlayerID = *d.PriorityPlayerID
	}
	if d.TurnNumber != nil {
		s.snap.TurnNumber = *d.TurnNumber
	}
	if d.CurrentStep != nil {
		s.snap.CurrentStep = *d.CurrentStep
	}
	if d.Battlefields != nil {
		s.snap.Battlefields = cloneNested(*d.Battlefields)
	}
	if d.Stack != nil {
		s.snap.Stack = cloneSlice(*d.Stack)
	}
	if d.Graveyards != nil {
		s.snap.Graveyards = cloneNested(*d.Graveyards)
	}
	if d.DeckSizes != nil {
		s.snap.DeckSizes = cloneSlice(*d.DeckSizes)
	}
	if d.HandSizes != nil {
		s.snap.HandSizes = cloneSlice(*d.HandSizes)
	}
	if d.LifeTotals != nil {
		s.snap.LifeTotals = cloneSlice(*d.LifeTotals)
	}
	if d.Hand != nil {
		s.snap.Hand = cloneSlice(*d.Hand)
	}
	if d.OpponentHand != nil {
		s.snap.OpponentHand = cloneSlice(*d.OpponentHand)
	}
	if d.MulliganCount != nil {
		s.snap.MulliganCount = *d.MulliganCount
	}
	if d.ManaPool != nil {
		s.snap.ManaPool = d.ManaPool.Clone()
	}
	if d.AutoStopSteps != nil {
		s.snap.AutoStopSteps = cloneSlice(*d.AutoStopSteps)
	}

	// Playable sets are only valid for the moment they were computed; the
	// server re-sends them after every turn or priority change.
	switch {
	case d.PlayableCardIndices != nil:
		s.snap.PlayableCardIndices = cloneSlice(*d.PlayableCardIndices)
	case d.turnMoved():
		s.snap.PlayableCardIndices = nil
	}
	switch {
	case d.PlayableGraveyardLandIndices != nil:
		s.snap.PlayableGraveyardLandIndices = cloneSlice(*d.PlayableGraveyardLandIndices)
	case d.turnMoved():
		s.snap.PlayableGraveyardLandIndices = nil
	}

	s.snap.GameLog = append(s.snap.GameLog, d.NewLogEntries...)

	if d.Stack != nil {
		s.syncTab(stackWasEmpty)
	}

	// A committed declaration is shown until the battlefield that confirms
	// it arrives.
	if d.Battlefields != nil {
		if s.attack.status == view.DeclarationConfirmed {
			s.attack = attackDeclaration{}
		}
		if s.block.status == view.DeclarationConfirmed {
			s.block = blockDeclaration{selected: noBlocker}
		}
	}

	return s.enterStatus(prevStatus)
}

func (s *State) enterStatus(prev Status) Transition {
	var tr Transition
	if s.snap.Status == StatusRunning && prev != StatusRunning {
		s.selfKept = false
		s.opponentKept = false
		tr.EnteredRunning = true
		s.logger.Debug("game running", zap.String("game_id", s.snap.ID))
	}
	return tr
}

func (s *State) syncTab(stackWasEmpty bool) {
	empty := len(s.snap.Stack) == 0
	switch {
	case stackWasEmpty && !empty:
		if s.tab != TabStack {
			s.prevTab = s.tab
			s.tab = TabStack
		}
	case !stackWasEmpty && empty:
		if s.tab == TabStack {
			s.tab = s.prevTab
		}
	}
}

// Tab returns the side panel to show.
func (s *State) Tab() Tab {
	return s.tab
}

// SelectTab switches the side panel.
func (s *State) SelectTab(t Tab) {
	s.tab = t
}

// AppendLog appends one log line.
func (s *State) AppendLog(entry string) {
	s.snap.GameLog = append(s.snap.GameLog, entry)
}

// Reset returns to the pre-session state.
func (s *State) Reset() {
	*s = State{
		logger:  s.logger,
		sender:  s.sender,
		me:      s.me,
		tab:     TabLog,
		prevTab: TabLog,
		block:   blockDeclaration{selected: noBlocker},
	}
}

// PassPriority passes priority to the opponent.
func (s *State) PassPriority() error {
	if !s.joined {
		return ErrNotJoined
	}
	return s.send(protocol.PassPriority{})
}

// ToggleAutoStop adds or removes a step the client pauses at. Main steps
// are always stops and cannot be toggled.
func (s *State) ToggleAutoStop(step rules.Step) error {
	if !s.joined {
		return ErrNotJoined
	}
	if step.IsForcedStop() {
		return ErrForcedStop
	}

	next := make([]rules.Step, 0, len(s.snap.AutoStopSteps)+1)
	found := false
	for _, st := range s.snap.AutoStopSteps {
		if st == step {
			found = true
			continue
		}
		next = append(next, st)
	}
	if !found {
		next = append(next, step)
	}
	next = rules.SortSteps(next)

	stops := make([]string, len(next))
	for i, st := range next {
		stops[i] = string(st)
	}
	if err := s.send(protocol.SetAutoStops{Stops: stops}); err != nil {
		return err
	}
	s.snap.AutoStopSteps = next
	return nil
}

// IsAutoStop reports whether the client pauses at step.
func (s *State) IsAutoStop(step rules.Step) bool {
	if step.IsForcedStop() {
		return true
	}
	for _, st := range s.snap.AutoStopSteps {
		if st == step {
			return true
		}
	}
	return false
}

// KeepHand keeps the current opening hand.
func (s *State) KeepHand() error {
	if !s.joined {
		return ErrNotJoined
	}
	if s.selfKept {
		return ErrAlreadyKept
	}
	return s.send(protocol.KeepHand{})
}

// TakeMulligan shuffles the hand away for a new one.
func (s *State) TakeMulligan() error {
	if !s.joined {
		return ErrNotJoined
	}
	if s.selfKept {
		return ErrAlreadyKept
	}
	if !s.CanMulligan() {
		return ErrMulliganLimit
	}
	return s.send(protocol.TakeMulligan{})
}

// CanMulligan reports whether another mulligan is allowed.
func (s *State) CanMulligan() bool {
	return s.joined && s.snap.MulliganCount < MaxMulligans
}

// MulliganResolved records a player's mulligan decision.
func (s *State) MulliganResolved(playerName string, kept bool) {
	if playerName == s.me.Name {
		if kept {
			s.selfKept = true
		}
		return
	}
	s.opponentKept = kept
}

// HandDrawn replaces the hand after a draw or mulligan.
func (s *State) HandDrawn(hand []model.Card, mulliganCount int) Transition {
	return s.Apply(Delta{Hand: &hand, MulliganCount: &mulliganCount})
}

// GameStarted moves the game out of the mulligan phase.
func (s *State) GameStarted(activePlayerID string, turn int, step rules.Step, priorityPlayerID string) Transition {
	running := StatusRunning
	return s.Apply(Delta{
		Status:           &running,
		ActivePlayerID:   &activePlayerID,
		TurnNumber:       &turn,
		CurrentStep:      &step,
		PriorityPlayerID: &priorityPlayerID,
	})
}

// SelfKept reports whether the local player kept their hand.
func (s *State) SelfKept() bool {
	return s.selfKept
}

// OpponentKept reports whether the opponent kept their hand.
func (s *State) OpponentKept() bool {
	return s.opponentKept
}

// GameOver returns the result, or nil while the game is still on.
func (s *State) GameOver() *GameOver {
	if s.gameOver == nil {
		return nil
	}
	result := *s.gameOver
	return &result
}

// FinishGame records the winner and marks the game finished.
func (s *State) FinishGame(winnerID, winnerName string) Transition {
	s.gameOver = &GameOver{WinnerID: winnerID, WinnerName: winnerName}
	finished := StatusFinished
	return s.Apply(Delta{Status: &finished})
}

func (s *State) send(cmd protocol.Command) error {
	if s.sender == nil {
		return fmt.Errorf("send %s: no connection", cmd.CommandType())
	}
	if err := s.sender.Send(cmd); err != nil {
		s.logger.Warn("failed to send command",
			zap.String("type", string(cmd.CommandType())),
			zap.Error(err),
		)
		return fmt.Errorf("send %s: %w", cmd.CommandType(), err)
	}
	return nil
}
