package tui

import (
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/rivo/uniseg"

	"github.com/linanwx/cloudchat/suggest"
)

const (
	maxLabelCells = 32
	driftColumns  = 3
	cloudGlyph    = "☁ "
)

var (
	cloudStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("237"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6")).Bold(true)
)

// Clouds is the board as seen by the cloud panel.
type Clouds interface {
	Clouds() []suggest.Cloud
	Click(i int) bool
}

type hitBox struct {
	index   int
	x, y, w int
}

// CloudPanel draws the suggestion clouds drifting across the top of the
// screen and turns clicks into Board.Click calls.
type CloudPanel struct {
	src      Clouds
	clouds   []suggest.Cloud
	selected int // -1 when nothing is highlighted

	width, height int
	now           func() time.Time
	start         time.Time
	elapsed       time.Duration

	hits []hitBox // last frame, in draw order
}

// NewCloudPanel creates a cloud panel reading from src.
func NewCloudPanel(src Clouds) *CloudPanel {
	p := &CloudPanel{src: src, selected: -1, now: time.Now}
	p.start = p.now()
	p.reload()
	return p
}

func (p *CloudPanel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	switch msg := msg.(type) {
	case CloudsChangedMsg:
		p.reload()
		p.start = p.now()
		p.elapsed = 0
	case driftTickMsg:
		p.elapsed = time.Time(msg).Sub(p.start)
		return p, driftTick()
	}
	return p, nil
}

func (p *CloudPanel) View() string {
	rows := p.draw()
	return strings.Join(rows, "\n")
}

func (p *CloudPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// Next highlights the following cloud.
func (p *CloudPanel) Next() { p.step(1) }

// Prev highlights the preceding cloud.
func (p *CloudPanel) Prev() { p.step(-1) }

// ClearSelection removes the highlight.
func (p *CloudPanel) ClearSelection() { p.selected = -1 }

// Selected returns the highlighted cloud index, or -1.
func (p *CloudPanel) Selected() int { return p.selected }

// ActivateSelected clicks the highlighted cloud.
func (p *CloudPanel) ActivateSelected() bool {
	if p.selected < 0 {
		return false
	}
	return p.src.Click(p.selected)
}

// ClickAt clicks the topmost cloud covering panel cell (x, y).
func (p *CloudPanel) ClickAt(x, y int) bool {
	if len(p.hits) == 0 {
		p.draw()
	}
	for i := len(p.hits) - 1; i >= 0; i-- {
		h := p.hits[i]
		if y == h.y && x >= h.x && x < h.x+h.w {
			p.selected = h.index
			return p.src.Click(h.index)
		}
	}
	return false
}

func (p *CloudPanel) reload() {
	p.clouds = p.src.Clouds()
	p.selected = -1
	p.hits = nil
}

func (p *CloudPanel) step(delta int) {
	n := len(p.clouds)
	if n == 0 {
		p.selected = -1
		return
	}
	if p.selected < 0 {
		if delta > 0 {
			p.selected = 0
		} else {
			p.selected = n - 1
		}
		return
	}
	p.selected = ((p.selected+delta)%n + n) % n
}

type cell struct {
	g     string // grapheme cluster
	style int8   // 0 blank, 1 cloud, 2 selected
	tail  bool   // right half of a double-width cluster
}

// draw lays out one frame and records hit boxes. Higher layers are drawn
// last so they cover lower ones.
func (p *CloudPanel) draw() []string {
	if p.width <= 0 || p.height <= 0 {
		return nil
	}

	grid := make([][]cell, p.height)
	for y := range grid {
		grid[y] = make([]cell, p.width)
		for x := range grid[y] {
			grid[y][x] = cell{g: " "}
		}
	}

	order := make([]int, len(p.clouds))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return p.clouds[order[a]].Layer < p.clouds[order[b]].Layer
	})

	p.hits = p.hits[:0]
	for _, idx := range order {
		c := p.clouds[idx]
		label := ansi.Truncate(" "+cloudGlyph+truncate(c.Question, maxLabelCells)+" ", p.width, "")
		w := ansi.StringWidth(label)
		if w == 0 {
			continue
		}

		x := int(c.Left/suggest.MaxLeft*float64(p.width-w)) + int(c.Drift(p.elapsed)*driftColumns)
		x = clamp(x, 0, p.width-w)
		y := clamp(int(c.Top/suggest.MaxTop*float64(p.height)), 0, p.height-1)

		style := int8(1)
		if idx == p.selected {
			style = 2
		}
		put(grid[y], x, label, style)
		p.hits = append(p.hits, hitBox{index: idx, x: x, y: y, w: w})
	}

	rows := make([]string, p.height)
	for y, row := range grid {
		rows[y] = renderRow(row)
	}
	return rows
}

// put writes label into row starting at cell x. A double-width cluster
// takes its cell plus a tail cell; wide clusters cut in half by the label
// edges are blanked.
func put(row []cell, x int, label string, style int8) {
	if x > 0 && row[x].tail {
		row[x-1] = cell{g: " "}
	}
	end := x
	state := -1
	for label != "" {
		var g string
		var w int
		g, label, w, state = uniseg.FirstGraphemeClusterInString(label, state)
		if w <= 0 || end+w > len(row) {
			continue
		}
		row[end] = cell{g: g, style: style}
		for i := 1; i < w; i++ {
			row[end+i] = cell{style: style, tail: true}
		}
		end += w
	}
	if end < len(row) && row[end].tail {
		row[end] = cell{g: " "}
	}
}

func renderRow(row []cell) string {
	var b strings.Builder
	var run strings.Builder
	var current int8
	flush := func() {
		if run.Len() == 0 {
			return
		}
		switch current {
		case 1:
			b.WriteString(cloudStyle.Render(run.String()))
		case 2:
			b.WriteString(selectedStyle.Render(run.String()))
		default:
			b.WriteString(run.String())
		}
		run.Reset()
	}
	for _, c := range row {
		if c.tail {
			continue
		}
		if c.style != current {
			flush()
			current = c.style
		}
		run.WriteString(c.g)
	}
	flush()
	return b.String()
}

// truncate collapses whitespace and cuts s to at most n terminal cells.
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if ansi.StringWidth(s) <= n {
		return s
	}
	return ansi.Truncate(s, n, "…")
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
