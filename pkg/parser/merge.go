package parser

import (
	"github.com/emirpasic/gods/trees/binaryheap"
)

// cursor tracks the next unread line of one stream during a merge.
type cursor struct {
	stream []*ParsedLine
	pos    int
	idx    int
}

func (c *cursor) head() *ParsedLine { return c.stream[c.pos] }

// compareCursors orders cursors by the timestamp of their next line. Ties go to
// the earlier stream so equal timestamps keep source order.
func compareCursors(a, b interface{}) int {
	ca, cb := a.(*cursor), b.(*cursor)
	if c := ca.head().Timestamp().Compare(cb.head().Timestamp()); c != 0 {
		return c
	}
	return ca.idx - cb.idx
}

// MergeChronological merges per-source line streams, each already in time
// order, into a single timeline (oldest first).
func MergeChronological(streams ...[]*ParsedLine) []*ParsedLine {
	h := binaryheap.NewWith(compareCursors)
	total := 0
	for i, s := range streams {
		if len(s) == 0 {
			continue
		}
		total += len(s)
		h.Push(&cursor{stream: s, idx: i})
	}

	merged := make([]*ParsedLine, 0, total)
	for {
		v, ok := h.Pop()
		if !ok {
			break
		}
		c := v.(*cursor)
		merged = append(merged, c.head())

		c.pos++
		if c.pos < len(c.stream) {
			h.Push(c)
		}
	}
	return merged
}
