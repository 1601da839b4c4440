package mana

import "sort"

// Pool is the shared mana pool as pushed by the server, keyed by mana type.
type Pool map[string]int

// Total returns the total amount of mana in the pool.
func (p Pool) Total() int {
	total := 0
	for _, amount := range p {
		if amount > 0 {
			total += amount
		}
	}
	return total
}

// Entry is one non-empty mana type in the pool.
type Entry struct {
	Color string
	Count int
}

// Entries returns the non-empty mana types sorted by color name.
func (p Pool) Entries() []Entry {
	entries := make([]Entry, 0, len(p))
	for color, count := range p {
		if count > 0 {
			entries = append(entries, Entry{Color: color, Count: count})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Color < entries[j].Color })
	return entries
}

// Clone returns an independent copy of the pool.
func (p Pool) Clone() Pool {
	if p == nil {
		return nil
	}
	out := make(Pool, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
