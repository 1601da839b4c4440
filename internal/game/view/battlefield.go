// Package view derives render-ready groupings from a battlefield. Every
// function is pure: inputs are never mutated and results are freshly
// allocated.
package view

import "github.com/magefree/mage-client-go/internal/game/model"

// MaxLandPile is the largest number of basic lands shown in one pile.
const MaxLandPile = 4

// Indexed is a permanent together with its index in the battlefield array.
type Indexed struct {
	Perm          model.Permanent
	OriginalIndex int
}

// LandPile is either a single land (len(Lands) == 1) or a pile of identical
// basic lands sharing the same tapped state.
type LandPile struct {
	Name  string
	Lands []Indexed
}

// IsPile reports whether the entry groups more than one land.
func (p LandPile) IsPile() bool {
	return len(p.Lands) > 1
}

// Tapped reports the shared tapped state of the entry.
func (p LandPile) Tapped() bool {
	return len(p.Lands) > 0 && p.Lands[0].Perm.Tapped
}

// Split partitions a battlefield into the back row (lands and other
// non-creatures) and creatures. Attached permanents are left out: they are
// shown with their host.
func Split(battlefield []model.Permanent) (lands, creatures []Indexed) {
	for idx, perm := range battlefield {
		if perm.IsAttached() {
			continue
		}
		entry := Indexed{Perm: perm, OriginalIndex: idx}
		if perm.IsCreature() {
			creatures = append(creatures, entry)
		} else {
			lands = append(lands, entry)
		}
	}
	return lands, creatures
}

type pileKey struct {
	name   string
	tapped bool
}

// StackBasics groups basic lands by name and tapped state into piles of at
// most MaxLandPile. Groups keep first-appearance order and are followed by
// the non-basic lands, which are never grouped.
func StackBasics(lands []Indexed) []LandPile {
	var order []pileKey
	groups := make(map[pileKey][]Indexed)
	var nonBasic []Indexed

	for _, ip := range lands {
		if !ip.Perm.Card.IsBasicLand() {
			nonBasic = append(nonBasic, ip)
			continue
		}
		key := pileKey{name: ip.Perm.Card.Name, tapped: ip.Perm.Tapped}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], ip)
	}

	result := make([]LandPile, 0, len(order)+len(nonBasic))
	for _, key := range order {
		group := groups[key]
		for i := 0; i < len(group); i += MaxLandPile {
			end := i + MaxLandPile
			if end > len(group) {
				end = len(group)
			}
			chunk := make([]Indexed, end-i)
			copy(chunk, group[i:end])
			result = append(result, LandPile{Name: key.name, Lands: chunk})
		}
	}

	for _, ip := range nonBasic {
		result = append(result, LandPile{Name: ip.Perm.Card.Name, Lands: []Indexed{ip}})
	}

	return result
}

// AttachedAura is a permanent attached to another one.
type AttachedAura struct {
	Perm          model.Permanent
	OriginalIndex int
	IsMine        bool
}

// Auras returns every permanent on either battlefield attached to
// permanentID.
func Auras(permanentID string, mine, theirs []model.Permanent) []AttachedAura {
	if permanentID == "" {
		return nil
	}
	var auras []AttachedAura
	for idx, perm := range mine {
		if perm.AttachedTo == permanentID {
			auras = append(auras, AttachedAura{Perm: perm, OriginalIndex: idx, IsMine: true})
		}
	}
	for idx, perm := range theirs {
		if perm.AttachedTo == permanentID {
			auras = append(auras, AttachedAura{Perm: perm, OriginalIndex: idx, IsMine: false})
		}
	}
	return auras
}
