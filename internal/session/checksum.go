package session

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/magefree/mage-client-go/internal/game/model"
)

// Checksum returns a SHA-256 hash of a canonical rendering of the snapshot.
// The game log is left out, so replaying the same update twice yields the
// same checksum.
func (s Snapshot) Checksum() string {
	sum := sha256.Sum256([]byte(s.deterministicText()))
	return hex.EncodeToString(sum[:])
}

// Checksum returns the checksum of the current snapshot.
func (s *State) Checksum() string {
	return s.snap.Checksum()
}

func (s Snapshot) deterministicText() string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "GAME:%s|%s|%s|%s|%s|%d|%s|%d\n",
		s.ID, s.Name, s.Status, s.ActivePlayerID, s.PriorityPlayerID,
		s.TurnNumber, s.CurrentStep, s.MulliganCount)

	for i, id := range s.PlayerIDs {
		name := ""
		if i < len(s.PlayerNames) {
			name = s.PlayerNames[i]
		}
		fmt.Fprintf(&buf, "PLAYER:%d|%s|%s\n", i, id, name)
	}
	fmt.Fprintf(&buf, "SIZES:%v|%v|%v\n", s.DeckSizes, s.HandSizes, s.LifeTotals)

	for seatIdx, bf := range s.Battlefields {
		for i, p := range bf {
			fmt.Fprintf(&buf, "PERM:%d|%d|%s|%s|%t|%t|%t|%v|%t|%d|%d|%s|%d\n",
				seatIdx, i, p.ID, p.Card.Name, p.Tapped, p.Attacking, p.Blocking,
				p.BlockingTargets, p.SummoningSick, p.EffectivePower,
				p.EffectiveToughness, p.AttachedTo, p.LoyaltyCounters)
		}
	}
	for i, e := range s.Stack {
		fmt.Fprintf(&buf, "STACK:%d|%s|%s|%s|%s\n", i, e.EntryType, e.CardID, e.ControllerID, e.TargetPermanentID)
	}
	for seatIdx, gy := range s.Graveyards {
		writeCards(&buf, fmt.Sprintf("GRAVE:%d", seatIdx), gy)
	}
	writeCards(&buf, "HAND", s.Hand)
	writeCards(&buf, "REVEALED", s.OpponentHand)

	// Map iteration order is random; Entries is sorted by color.
	for _, e := range s.ManaPool.Entries() {
		fmt.Fprintf(&buf, "MANA:%s|%d\n", e.Color, e.Count)
	}

	stops := make([]string, len(s.AutoStopSteps))
	for i, st := range s.AutoStopSteps {
		stops[i] = string(st)
	}
	sort.Strings(stops)
	fmt.Fprintf(&buf, "STOPS:%s\n", strings.Join(stops, ","))

	fmt.Fprintf(&buf, "PLAYABLE:%v|%v\n", sortedInts(s.PlayableCardIndices), sortedInts(s.PlayableGraveyardLandIndices))
	return buf.String()
}

func writeCards(buf *bytes.Buffer, prefix string, cards []model.Card) {
	for i, c := range cards {
		fmt.Fprintf(buf, "%s|%d|%s|%s\n", prefix, i, c.ID, c.Name)
	}
}

func sortedInts(in []int) []int {
	out := cloneSlice(in)
	sort.Ints(out)
	return out
}
