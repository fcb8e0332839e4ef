// Package suggest keeps the suggested-question clouds shown behind the chat.
package suggest

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/linanwx/cloudchat/logger"
)

// DefaultCount is the batch size requested on every refresh.
const DefaultCount = 50

// Source supplies suggested questions.
type Source interface {
	RandomQuestions(ctx context.Context, count int) ([]string, error)
}

// Config tunes a Board.
type Config struct {
	Count int        // defaults to DefaultCount
	Rand  *rand.Rand // layout randomness; nil seeds a fresh source
}

// Board holds the latest successfully fetched questions and their clouds.
// A failed fetch leaves the previous set in place. Layout is computed once
// per successful fetch, so re-rendering never moves the clouds.
type Board struct {
	src    Source
	count  int
	layout *Layout

	mu       sync.Mutex
	clouds   []Cloud
	seq      uint64 // last issued fetch
	applied  uint64 // fetch whose result is shown
	signaled bool
	lastSig  uint64
	onChange func()
	onClick  func(question string)
}

// NewBoard creates an empty board.
func NewBoard(src Source, cfg Config) *Board {
	count := cfg.Count
	if count <= 0 {
		count = DefaultCount
	}
	return &Board{src: src, count: count, layout: NewLayout(cfg.Rand)}
}

// OnChange registers fn to run after the question set is replaced. fn must
// not block.
func (b *Board) OnChange(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onChange = fn
}

// OnClick registers the handler invoked by Click.
func (b *Board) OnClick(fn func(question string)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onClick = fn
}

// Signal is the refresh trigger. The first call refreshes (first display);
// later calls refresh only when n differs from the previous value. It reports
// whether a refresh ran.
func (b *Board) Signal(ctx context.Context, n uint64) bool {
	b.mu.Lock()
	if b.signaled && n == b.lastSig {
		b.mu.Unlock()
		return false
	}
	b.signaled = true
	b.lastSig = n
	b.mu.Unlock()

	_ = b.Refresh(ctx)
	return true
}

// Refresh fetches a new batch and replaces the held set. On failure the
// error is logged and returned, and the held set is unchanged.
func (b *Board) Refresh(ctx context.Context) error {
	b.mu.Lock()
	b.seq++
	seq := b.seq
	b.mu.Unlock()

	questions, err := b.src.RandomQuestions(ctx, b.count)
	if err != nil {
		logger.Error("Error fetching random questions for clouds", "err", err)
		return err
	}
	clouds := b.layout.Place(questions)

	b.mu.Lock()
	if seq < b.applied {
		// A fetch issued later already landed.
		b.mu.Unlock()
		logger.Debug("discarding stale suggestion batch", "seq", seq, "applied", b.applied)
		return nil
	}
	b.applied = seq
	b.clouds = clouds
	notify := b.onChange
	b.mu.Unlock()

	logger.Debug("suggestions refreshed", "count", len(clouds))
	if notify != nil {
		notify()
	}
	return nil
}

// Questions returns the held questions in server order.
func (b *Board) Questions() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.clouds))
	for i, c := range b.clouds {
		out[i] = c.Question
	}
	return out
}

// Clouds returns a copy of the held clouds.
func (b *Board) Clouds() []Cloud {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Cloud(nil), b.clouds...)
}

// Click invokes the click handler with cloud i's question verbatim. It
// reports false for an index outside the held set.
func (b *Board) Click(i int) bool {
	b.mu.Lock()
	if i < 0 || i >= len(b.clouds) {
		b.mu.Unlock()
		return false
	}
	question := b.clouds[i].Question
	fn := b.onClick
	b.mu.Unlock()

	if fn != nil {
		fn(question)
	}
	return true
}
