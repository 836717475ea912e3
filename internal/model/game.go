// Package model defines the tracker's domain types and typed mirrors of
// the GameMaker Server status document.
package model

// GameID is the stable identifier the upstream assigns to a game.
type GameID int

// GameRecord is the tracked state for one game: its display title and the
// bounded window of most recent player counts, most-recent-last.
// The title is frozen on first sighting for the process lifetime.
type GameRecord struct {
	ID      GameID `json:"id"`
	Title   string `json:"title"`
	History []int  `json:"history"`
}

// Last returns the most recently observed player count, or 0 when the
// history is empty.
func (r GameRecord) Last() int {
	if len(r.History) == 0 {
		return 0
	}
	return r.History[len(r.History)-1]
}

// SecondLast returns the count preceding the current one.
func (r GameRecord) SecondLast() (int, bool) {
	if len(r.History) < 2 {
		return 0, false
	}
	return r.History[len(r.History)-2], true
}

// Previous returns up to n history values excluding the current one,
// oldest first.
func (r GameRecord) Previous(n int) []int {
	if len(r.History) < 2 || n <= 0 {
		return nil
	}
	prev := r.History[:len(r.History)-1]
	if len(prev) > n {
		prev = prev[len(prev)-n:]
	}
	out := make([]int, len(prev))
	copy(out, prev)
	return out
}

// Clone returns a deep copy safe to hand to concurrent readers.
func (r GameRecord) Clone() GameRecord {
	cp := r
	cp.History = make([]int, len(r.History))
	copy(cp.History, r.History)
	return cp
}
