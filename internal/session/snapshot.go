package session

import (
	"github.com/magefree/mage-client-go/internal/game/mana"
	"github.com/magefree/mage-client-go/internal/game/model"
	"github.com/magefree/mage-client-go/internal/game/rules"
)

// Status is the lifecycle state of a game.
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusMulligan Status = "MULLIGAN"
	StatusRunning  Status = "RUNNING"
	StatusFinished Status = "FINISHED"
)

// Snapshot is the local mirror of the authoritative game. Per-player slices
// are indexed like PlayerIDs.
type Snapshot struct {
	ID                           string
	Name                         string
	Status                       Status
	PlayerIDs                    []string
	PlayerNames                  []string
	ActivePlayerID               string
	PriorityPlayerID             string
	TurnNumber                   int
	CurrentStep                  rules.Step
	Battlefields                 [][]model.Permanent
	Stack                        []model.StackEntry
	Graveyards                   [][]model.Card
	DeckSizes                    []int
	HandSizes                    []int
	LifeTotals                   []int
	Hand                         []model.Card
	OpponentHand                 []model.Card
	MulliganCount                int
	ManaPool                     mana.Pool
	AutoStopSteps                []rules.Step
	PlayableCardIndices          []int
	PlayableGraveyardLandIndices []int
	GameLog                      []string
}

// Clone copies every slice and map of the snapshot. Cards and permanents are
// copied by value; their nested slices are shared since nothing mutates them.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.PlayerIDs = cloneSlice(s.PlayerIDs)
	out.PlayerNames = cloneSlice(s.PlayerNames)
	out.Battlefields = cloneNested(s.Battlefields)
	out.Stack = cloneSlice(s.Stack)
	out.Graveyards = cloneNested(s.Graveyards)
	out.DeckSizes = cloneSlice(s.DeckSizes)
	out.HandSizes = cloneSlice(s.HandSizes)
	out.LifeTotals = cloneSlice(s.LifeTotals)
	out.Hand = cloneSlice(s.Hand)
	out.OpponentHand = cloneSlice(s.OpponentHand)
	out.ManaPool = s.ManaPool.Clone()
	out.AutoStopSteps = cloneSlice(s.AutoStopSteps)
	out.PlayableCardIndices = cloneSlice(s.PlayableCardIndices)
	out.PlayableGraveyardLandIndices = cloneSlice(s.PlayableGraveyardLandIndices)
	out.GameLog = cloneSlice(s.GameLog)
	return out
}

// Delta is one incoming update. Nil fields are absent and leave the snapshot
// untouched; present fields replace the current value. NewLogEntries is the
// only merged field: it is appended to the log.
type Delta struct {
	Status                       *Status
	ActivePlayerID               *string
	PriorityPlayerID             *string
	TurnNumber                   *int
	CurrentStep                  *rules.Step
	Battlefields                 *[][]model.Permanent
	Stack                        *[]model.StackEntry
	Graveyards                   *[][]model.Card
	DeckSizes                    *[]int
	HandSizes                    *[]int
	LifeTotals                   *[]int
	Hand                         *[]model.Card
	OpponentHand                 *[]model.Card
	MulliganCount                *int
	ManaPool                     *mana.Pool
	AutoStopSteps                *[]rules.Step
	PlayableCardIndices          *[]int
	PlayableGraveyardLandIndices *[]int
	NewLogEntries                []string
}

// turnMoved reports whether the delta changes who may act or when.
func (d Delta) turnMoved() bool {
	return d.PriorityPlayerID != nil || d.CurrentStep != nil || d.TurnNumber != nil || d.ActivePlayerID != nil
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func cloneNested[T any](in [][]T) [][]T {
	if in == nil {
		return nil
	}
	out := make([][]T, len(in))
	for i, inner := range in {
		out[i] = cloneSlice(inner)
	}
	return out
}
