package workspace

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// ID identifies a file or folder. IDs are never reused within a process.
type ID string

// IDGenerator allocates entity identifiers and tracks the numeric counter
// that is persisted as a snapshot's nextId.
type IDGenerator interface {
	// Next allocates a fresh identifier and advances the counter.
	Next() ID
	// Peek returns the counter value the next allocation will use.
	Peek() uint64
	// Advance moves the counter forward so that Peek() >= next. It never moves
	// the counter backwards.
	Advance(next uint64)
}

// counter is the shared monotonic part of every generator.
type counter struct {
	last atomic.Uint64 // last counter value handed out; 0 before the first allocation
}

func (c *counter) take() uint64 {
	return c.last.Add(1)
}

func (c *counter) Peek() uint64 {
	return c.last.Load() + 1
}

func (c *counter) Advance(next uint64) {
	if next == 0 {
		return
	}
	for {
		cur := c.last.Load()
		if cur >= next-1 {
			return
		}
		if c.last.CompareAndSwap(cur, next-1) {
			return
		}
	}
}

// SequenceGenerator produces ids of the form "item_<n>_<unix-ms>".
type SequenceGenerator struct {
	counter
	now func() time.Time
}

// NewSequenceGenerator returns a generator whose first id carries counter 1.
// Its counter is private, so its ids are only unique among stores sharing it.
func NewSequenceGenerator() *SequenceGenerator {
	return &SequenceGenerator{now: time.Now}
}

// processIDs backs every store built without [WithIDGenerator].
var processIDs = NewSequenceGenerator()

// SharedSequenceGenerator returns the process-wide generator, so ids stay
// unique across all stores that use it.
func SharedSequenceGenerator() *SequenceGenerator {
	return processIDs
}

func (g *SequenceGenerator) Next() ID {
	n := g.take()
	return ID(fmt.Sprintf("item_%d_%d", n, g.now().UnixMilli()))
}

// UUIDGenerator produces time-ordered UUIDv7 ids while still maintaining the
// numeric counter so snapshots stay interchangeable with sequence ids.
type UUIDGenerator struct {
	counter
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Next() ID {
	g.take()
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source does
		return ID(uuid.NewString())
	}
	return ID(id.String())
}

// sequenceOf extracts n from an "item_<n>_<unix-ms>" id.
func sequenceOf(id ID) (uint64, bool) {
	rest, ok := strings.CutPrefix(string(id), "item_")
	if !ok {
		return 0, false
	}
	num, _, ok := strings.Cut(rest, "_")
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseUint(num, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
