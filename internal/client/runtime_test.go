package client

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/magefree/mage-client-go/internal/game/model"
	"github.com/magefree/mage-client-go/internal/game/rules"
	"github.com/magefree/mage-client-go/internal/interaction"
	"github.com/magefree/mage-client-go/internal/journal"
	"github.com/magefree/mage-client-go/internal/protocol"
	"github.com/magefree/mage-client-go/internal/session"
)

type fakeConn struct {
	inbound chan []byte

	mu     sync.Mutex
	sent   []protocol.Command
	closed bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{inbound: make(chan []byte, 16)}
}

func (c *fakeConn) Send(cmd protocol.Command) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, cmd)
	return nil
}

func (c *fakeConn) Inbound() <-chan []byte { return c.inbound }
func (c *fakeConn) Err() error             { return nil }

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) sentCommands() []protocol.Command {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]protocol.Command(nil), c.sent...)
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

type recordingObserver struct {
	mu       sync.Mutex
	changes  int
	errors   []string
	teardown chan error
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{teardown: make(chan error, 1)}
}

func (o *recordingObserver) OnChange(*Game) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.changes++
}

func (o *recordingObserver) OnServerError(message string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.errors = append(o.errors, message)
}

func (o *recordingObserver) OnTeardown(err error) {
	o.teardown <- err
}

func (o *recordingObserver) serverErrors() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.errors...)
}

type harness struct {
	t        *testing.T
	conn     *fakeConn
	observer *recordingObserver
	runtime  *Runtime
	result   chan error
	cancel   context.CancelFunc
}

func startRuntime(t *testing.T, opts Options) *harness {
	t.Helper()
	h := &harness{
		t:        t,
		conn:     newFakeConn(),
		observer: newRecordingObserver(),
		result:   make(chan error, 1),
	}
	opts.Observer = h.observer
	h.runtime = New(h.conn, session.Player{ID: "p1", Name: "Alice"}, opts, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go func() { h.result <- h.runtime.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-h.runtime.Stopped()
	})
	return h
}

func (h *harness) push(n protocol.Notification) {
	h.t.Helper()
	data, err := protocol.EncodeNotification(n)
	require.NoError(h.t, err)
	h.conn.inbound <- data
}

// eventually polls cond on the event loop.
func (h *harness) eventually(cond func(g *Game) bool) {
	h.t.Helper()
	require.Eventually(h.t, func() bool {
		var ok bool
		if err := h.runtime.Do(func(g *Game) { ok = cond(g) }); err != nil {
			return false
		}
		return ok
	}, 2*time.Second, 5*time.Millisecond)
}

func (h *harness) wait() error {
	h.t.Helper()
	select {
	case err := <-h.result:
		return err
	case <-time.After(2 * time.Second):
		h.t.Fatal("runtime did not stop")
		return nil
	}
}

func gameView(status session.Status) protocol.GameView {
	return protocol.GameView{
		ID:               "g1",
		GameName:         "Test",
		Status:           string(status),
		PlayerIDs:        []string{"p1", "p2"},
		PlayerNames:      []string{"Alice", "Bob"},
		ActivePlayerID:   "p1",
		PriorityPlayerID: "p1",
		TurnNumber:       1,
		CurrentStep:      rules.StepPrecombatMain,
		Battlefields: [][]model.Permanent{
			{{ID: "bear", Card: model.Card{Name: "Grizzly Bears", Type: model.CardTypeCreature}}},
			{{ID: "elf", Card: model.Card{Name: "Llanowar Elves", Type: model.CardTypeCreature}}},
		},
		Graveyards:          [][]model.Card{{}, {}},
		LifeTotals:          []int{20, 20},
		Hand:                []model.Card{{Name: "Shock", NeedsTarget: true}},
		PlayableCardIndices: []int{0},
	}
}

func joined(g *Game) bool { return g.State.Joined() }

func TestRuntime_JoinAndPassPriority(t *testing.T) {
	h := startRuntime(t, Options{})
	h.push(&protocol.GameJoined{Game: gameView(session.StatusRunning)})
	h.eventually(joined)

	var err error
	require.NoError(t, h.runtime.Do(func(g *Game) { err = g.State.PassPriority() }))
	require.NoError(t, err)
	assert.Equal(t, []protocol.Command{protocol.PassPriority{}}, h.conn.sentCommands())
}

func TestRuntime_OfferPreemptsLocalInteraction(t *testing.T) {
	h := startRuntime(t, Options{})
	h.push(&protocol.GameJoined{Game: gameView(session.StatusRunning)})
	h.eventually(joined)

	var err error
	require.NoError(t, h.runtime.Do(func(g *Game) { err = g.Interaction.PlayCard(0) }))
	require.NoError(t, err)

	h.push(&protocol.ChooseColor{Colors: []string{"RED", "BLUE"}, Prompt: "Choose"})
	h.eventually(func(g *Game) bool {
		p := g.Interaction.Active()
		return p != nil && p.Kind() == interaction.KindColorChoice
	})
	assert.Empty(t, h.conn.sentCommands())
}

func TestRuntime_BottomCardsDiscardedWhenGameStarts(t *testing.T) {
	h := startRuntime(t, Options{})
	h.push(&protocol.GameJoined{Game: gameView(session.StatusMulligan)})
	h.push(&protocol.SelectCardsToBottom{Count: 1})
	h.eventually(func(g *Game) bool {
		p := g.Interaction.Active()
		return p != nil && p.Kind() == interaction.KindBottomCards
	})

	h.push(&protocol.GameStarted{ActivePlayerID: "p1", TurnNumber: 1, CurrentStep: rules.StepUpkeep, PriorityPlayerID: "p1"})
	h.eventually(func(g *Game) bool {
		return g.State.Status() == session.StatusRunning && g.Interaction.Idle()
	})
}

func TestRuntime_PartialPushes(t *testing.T) {
	h := startRuntime(t, Options{})
	h.push(&protocol.GameJoined{Game: gameView(session.StatusRunning)})
	h.push(&protocol.StackUpdated{Stack: []model.StackEntry{{CardID: "bolt", IsSpell: true}}})
	h.eventually(func(g *Game) bool { return g.State.Tab() == session.TabStack })

	p2 := "p2"
	h.push(&protocol.GameUpdate{Kind: protocol.TypePriorityUpdated, PriorityPlayerID: &p2})
	h.eventually(func(g *Game) bool { return !g.State.HasPriority() && !g.State.IsCardPlayable(0) })

	h.push(&protocol.StackUpdated{Stack: []model.StackEntry{}})
	h.push(&protocol.LifeUpdated{LifeTotals: []int{17, 20}})
	h.eventually(func(g *Game) bool {
		return g.State.Tab() == session.TabLog && g.State.LifeTotal(0) == 17
	})
}

func TestRuntime_GameStateDelta(t *testing.T) {
	h := startRuntime(t, Options{})
	h.push(&protocol.GameJoined{Game: gameView(session.StatusRunning)})

	turn := 2
	h.push(&protocol.GameState{TurnNumber: &turn, NewLogEntries: []string{"Bob's turn"}})
	h.eventually(func(g *Game) bool {
		snap := g.State.Snapshot()
		return snap.TurnNumber == 2 && len(snap.Hand) == 1 && len(snap.GameLog) == 1
	})
}

func TestRuntime_ServerErrorForwarded(t *testing.T) {
	h := startRuntime(t, Options{})
	h.push(&protocol.Error{Message: "not your turn"})
	require.Eventually(t, func() bool {
		return len(h.observer.serverErrors()) == 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"not your turn"}, h.observer.serverErrors())
}

func TestRuntime_UnknownTypeIgnored(t *testing.T) {
	h := startRuntime(t, Options{})
	h.conn.inbound <- []byte(`{"type":"CHAT_MESSAGE","text":"hi"}`)
	h.push(&protocol.GameJoined{Game: gameView(session.StatusRunning)})
	h.eventually(joined)
}

func TestRuntime_MalformedFrameTearsDown(t *testing.T) {
	h := startRuntime(t, Options{})
	h.push(&protocol.GameJoined{Game: gameView(session.StatusRunning)})
	h.eventually(joined)

	h.conn.inbound <- []byte(`{"type":`)
	err := h.wait()
	assert.ErrorIs(t, err, protocol.ErrMalformed)
	assert.ErrorIs(t, <-h.observer.teardown, protocol.ErrMalformed)
	assert.True(t, h.conn.isClosed())
	assert.ErrorIs(t, h.runtime.Do(func(*Game) {}), ErrStopped)
	assert.ErrorIs(t, h.runtime.Err(), protocol.ErrMalformed)
}

func TestRuntime_DisconnectResetsSession(t *testing.T) {
	h := startRuntime(t, Options{})
	h.push(&protocol.GameJoined{Game: gameView(session.StatusRunning)})
	h.eventually(joined)

	var state *session.State
	require.NoError(t, h.runtime.Do(func(g *Game) { state = g.State }))

	close(h.conn.inbound)
	assert.ErrorIs(t, h.wait(), ErrDisconnected)
	assert.ErrorIs(t, <-h.observer.teardown, ErrDisconnected)
	assert.False(t, state.Joined())
}

func TestRuntime_CancelIsClean(t *testing.T) {
	h := startRuntime(t, Options{})
	h.cancel()
	assert.NoError(t, h.wait())
	assert.NoError(t, <-h.observer.teardown)
}

func TestRuntime_JournalSavedOnTeardown(t *testing.T) {
	dir := t.TempDir()
	h := startRuntime(t, Options{JournalDirectory: dir})
	h.push(&protocol.GameJoined{Game: gameView(session.StatusRunning)})
	h.push(&protocol.LifeUpdated{LifeTotals: []int{18, 20}})
	h.eventually(func(g *Game) bool { return g.State.LifeTotal(0) == 18 })

	close(h.conn.inbound)
	h.wait()

	j, err := journal.Load(journal.Path(dir, h.runtime.SessionID()))
	require.NoError(t, err)
	require.Equal(t, 2, j.Size())
	last, _ := j.At(1)
	assert.Equal(t, "LIFE_UPDATED", last.Trigger)
	assert.Equal(t, []int{18, 20}, last.Snapshot.LifeTotals)
}

type staticLookup map[string]string

func (l staticLookup) URL(key string) (string, bool) {
	u, ok := l[key]
	return u, ok
}

func (staticLookup) Version() uint64 { return 1 }

func TestGame_ArtURL(t *testing.T) {
	h := startRuntime(t, Options{Assets: staticLookup{"lea:161": "file:///bolt.jpg"}})

	var u string
	var ok bool
	require.NoError(t, h.runtime.Do(func(g *Game) {
		u, ok = g.ArtURL(model.Card{SetCode: "lea", CollectorNumber: "161"})
	}))
	assert.True(t, ok)
	assert.Equal(t, "file:///bolt.jpg", u)
}
