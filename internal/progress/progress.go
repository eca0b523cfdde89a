package progress

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

// Bar renders a single-line progress bar along with the top-level folders
// seen so far.
type Bar struct {
	total      int64
	current    int64
	width      int
	writer     io.Writer
	mu         sync.Mutex
	folders    map[string]bool
	enabled    bool
	lastUpdate time.Time
}

func New(total int64, w io.Writer) *Bar {
	return &Bar{
		total:      total,
		current:    0,
		width:      50,
		writer:     w,
		folders:    make(map[string]bool),
		enabled:    w != nil && total > 0,
		lastUpdate: time.Now(),
	}
}

func (b *Bar) SetDirectory(dir string) {
	if !b.enabled {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.folders[dir] = true
}

func (b *Bar) Increment() {
	if !b.enabled {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.current++

	// Update at most every 100ms to reduce flickering
	now := time.Now()
	if now.Sub(b.lastUpdate) > 100*time.Millisecond || b.current == b.total {
		b.lastUpdate = now
		b.render()
	}
}

// render must be called with mu already locked
func (b *Bar) render() {
	current := b.current
	if current > b.total {
		current = b.total
	}

	percent := float64(current) / float64(b.total) * 100
	filledWidth := int(float64(b.width) * float64(current) / float64(b.total))

	bar := strings.Repeat("█", filledWidth) + strings.Repeat("░", b.width-filledWidth)

	folders := make([]string, 0, len(b.folders))
	for dir := range b.folders {
		folders = append(folders, dir)
	}
	sort.Strings(folders)

	var dirDisplay string
	if len(folders) > 0 {
		if len(folders) > 3 {
			dirDisplay = fmt.Sprintf(" | %s, %s, %s +%d more", folders[0], folders[1], folders[2], len(folders)-3)
		} else {
			dirDisplay = " | " + strings.Join(folders, ", ")
		}
	}

	// Clear the line and write progress
	fmt.Fprintf(b.writer, "\r\033[K[%s] %3d%% (%d/%d)%s",
		bar, int(percent), current, b.total, dirDisplay)
}

func (b *Bar) Finish() {
	if !b.enabled {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.current = b.total
	b.render()
	fmt.Fprintf(b.writer, "\n")
}
