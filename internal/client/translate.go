package client

import (
	"github.com/magefree/mage-client-go/internal/protocol"
	"github.com/magefree/mage-client-go/internal/session"
)

func snapshotFromView(v protocol.GameView) session.Snapshot {
	return session.Snapshot{
		ID:                           v.ID,
		Name:                         v.GameName,
		Status:                       session.Status(v.Status),
		PlayerIDs:                    v.PlayerIDs,
		PlayerNames:                  v.PlayerNames,
		ActivePlayerID:               v.ActivePlayerID,
		PriorityPlayerID:             v.PriorityPlayerID,
		TurnNumber:                   v.TurnNumber,
		CurrentStep:                  v.CurrentStep,
		Battlefields:                 v.Battlefields,
		Stack:                        v.Stack,
		Graveyards:                   v.Graveyards,
		DeckSizes:                    v.DeckSizes,
		HandSizes:                    v.HandSizes,
		LifeTotals:                   v.LifeTotals,
		Hand:                         v.Hand,
		OpponentHand:                 v.OpponentHand,
		MulliganCount:                v.MulliganCount,
		ManaPool:                     v.ManaPool,
		AutoStopSteps:                v.AutoStopSteps,
		PlayableCardIndices:          v.PlayableCardIndices,
		PlayableGraveyardLandIndices: v.PlayableGraveyardLandIndices,
		GameLog:                      v.GameLog,
	}
}

// present maps a decoded slice to a delta field: nil means the key was
// absent from the payload.
func present[T any](v []T) *[]T {
	if v == nil {
		return nil
	}
	return &v
}

func deltaFromState(n *protocol.GameState) session.Delta {
	d := session.Delta{
		ActivePlayerID:               n.ActivePlayerID,
		PriorityPlayerID:             n.PriorityPlayerID,
		TurnNumber:                   n.TurnNumber,
		CurrentStep:                  n.CurrentStep,
		Battlefields:                 present(n.Battlefields),
		Stack:                        present(n.Stack),
		Graveyards:                   present(n.Graveyards),
		DeckSizes:                    present(n.DeckSizes),
		HandSizes:                    present(n.HandSizes),
		LifeTotals:                   present(n.LifeTotals),
		Hand:                         present(n.Hand),
		OpponentHand:                 present(n.OpponentHand),
		MulliganCount:                n.MulliganCount,
		AutoStopSteps:                present(n.AutoStopSteps),
		PlayableCardIndices:          present(n.PlayableCardIndices),
		PlayableGraveyardLandIndices: present(n.PlayableGraveyardLandIndices),
		NewLogEntries:                n.NewLogEntries,
	}
	if n.Status != nil {
		status := session.Status(*n.Status)
		d.Status = &status
	}
	if n.ManaPool != nil {
		pool := n.ManaPool
		d.ManaPool = &pool
	}
	return d
}

// deltaFromPush translates the single-field pushes. ok is false for other
// notifications.
func deltaFromPush(n protocol.Notification) (session.Delta, bool) {
	switch n := n.(type) {
	case *protocol.BattlefieldUpdated:
		return session.Delta{Battlefields: &n.Battlefields}, true
	case *protocol.StackUpdated:
		return session.Delta{Stack: &n.Stack}, true
	case *protocol.GraveyardUpdated:
		return session.Delta{Graveyards: &n.Graveyards}, true
	case *protocol.ManaUpdated:
		return session.Delta{ManaPool: &n.ManaPool}, true
	case *protocol.LifeUpdated:
		return session.Delta{LifeTotals: &n.LifeTotals}, true
	case *protocol.DeckSizesUpdated:
		return session.Delta{DeckSizes: &n.DeckSizes}, true
	case *protocol.PlayableCardsUpdated:
		d := session.Delta{PlayableCardIndices: &n.PlayableCardIndices}
		if n.PlayableGraveyardLandIndices != nil {
			d.PlayableGraveyardLandIndices = &n.PlayableGraveyardLandIndices
		}
		return d, true
	case *protocol.AutoStopsUpdated:
		return session.Delta{AutoStopSteps: &n.AutoStopSteps}, true
	case *protocol.GameUpdate:
		return session.Delta{
			PriorityPlayerID: n.PriorityPlayerID,
			CurrentStep:      n.CurrentStep,
			ActivePlayerID:   n.ActivePlayerID,
			TurnNumber:       n.TurnNumber,
		}, true
	default:
		return session.Delta{}, false
	}
}
