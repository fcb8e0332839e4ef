package suggest

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"
)

// Placement ranges. Positions are percentages of the background area.
const (
	MaxTop       = 20.0
	MaxLeft      = 100.0
	cloudSize    = 70.0
	maxDelay     = 15 * time.Second
	minDuration  = 30 * time.Second
	spanDuration = 20 * time.Second
	maxLayer     = 5
)

// Cloud is a question plus purely cosmetic presentation attributes.
type Cloud struct {
	Question string
	Top      float64 // percent of height, [0,20)
	Left     float64 // percent of width, [0,100)
	Size     float64
	Delay    time.Duration // [0,15s)
	Duration time.Duration // [30s,50s)
	Layer    int           // [1,5]
}

// Drift returns the cloud's horizontal float offset in [-1,1] after elapsed
// time, following an ease-in-out loop that starts once Delay has passed.
func (c Cloud) Drift(elapsed time.Duration) float64 {
	if elapsed < c.Delay || c.Duration <= 0 {
		return 0
	}
	phase := float64((elapsed-c.Delay)%c.Duration) / float64(c.Duration)
	return math.Sin(2 * math.Pi * phase)
}

// Layout assigns random attributes to questions. It is safe for concurrent
// use.
type Layout struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewLayout returns a Layout drawing from rng, or from a randomly seeded
// source when rng is nil.
func NewLayout(rng *rand.Rand) *Layout {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Layout{rng: rng}
}

// Place builds one cloud per question, in order.
func (l *Layout) Place(questions []string) []Cloud {
	l.mu.Lock()
	defer l.mu.Unlock()

	clouds := make([]Cloud, len(questions))
	for i, q := range questions {
		clouds[i] = Cloud{
			Question: q,
			Top:      l.rng.Float64() * MaxTop,
			Left:     l.rng.Float64() * MaxLeft,
			Size:     cloudSize,
			Delay:    time.Duration(l.rng.Int64N(int64(maxDelay))),
			Duration: minDuration + time.Duration(l.rng.Int64N(int64(spanDuration))),
			Layer:    l.rng.IntN(maxLayer) + 1,
		}
	}
	return clouds
}
