package canvas

import "pixelia/internal/domain"

// DefaultHistoryLimit bounds the number of snapshots kept per page view.
const DefaultHistoryLimit = 100

// History is a linear undo/redo stack of element-list snapshots.
//
// index == -1 is the empty origin: undoing past the first entry restores
// an empty list. Entries after index are redo states and are dropped by
// the next Record. Snapshots are deep copies on the way in and on the way
// out, so callers may mutate what they pass or receive.
type History struct {
	entries [][]domain.Element
	index   int
	limit   int
	// evicted is set once the oldest entry has been dropped to honor
	// limit; the empty origin is no longer reachable after that.
	evicted bool
}

// NewHistory returns an empty history. A non-positive limit means
// DefaultHistoryLimit.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{index: -1, limit: limit}
}

// Record truncates any redo entries and appends a snapshot.
func (h *History) Record(elements []domain.Element) {
	h.entries = append(h.entries[:h.index+1], snapshot(elements))
	if len(h.entries) > h.limit {
		drop := len(h.entries) - h.limit
		for i := 0; i < drop; i++ {
			h.entries[i] = nil
		}
		h.entries = h.entries[drop:]
		h.evicted = true
	}
	h.index = len(h.entries) - 1
}

// Undo steps back one entry and returns the list to restore. ok is false
// when there is nothing to undo.
func (h *History) Undo() (elements []domain.Element, ok bool) {
	switch {
	case h.index > 0:
		h.index--
		return snapshot(h.entries[h.index]), true
	case h.index == 0 && !h.evicted:
		h.index = -1
		return []domain.Element{}, true
	}
	return nil, false
}

// Redo steps forward one entry. ok is false at the top of the stack.
func (h *History) Redo() (elements []domain.Element, ok bool) {
	if h.index >= len(h.entries)-1 {
		return nil, false
	}
	h.index++
	return snapshot(h.entries[h.index]), true
}

// Clear forgets every entry and returns to the empty origin.
func (h *History) Clear() {
	h.entries = nil
	h.index = -1
	h.evicted = false
}

func (h *History) Index() int    { return h.index }
func (h *History) Len() int      { return len(h.entries) }
func (h *History) CanUndo() bool { return h.index > 0 || (h.index == 0 && !h.evicted) }
func (h *History) CanRedo() bool { return h.index < len(h.entries)-1 }

func snapshot(elements []domain.Element) []domain.Element {
	out := domain.CloneElements(elements)
	if out == nil {
		out = []domain.Element{}
	}
	return out
}
