package seed

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"pnodev/pkg/logger"
)

// NopObserver ignores progress.
type NopObserver struct{}

func (NopObserver) Start(int)       {}
func (NopObserver) Pair(PairResult) {}
func (NopObserver) Finish(Summary)  {}

// Observers fans out to several observers.
type Observers []Observer

func (o Observers) Start(total int) {
	for _, obs := range o {
		obs.Start(total)
	}
}

func (o Observers) Pair(res PairResult) {
	for _, obs := range o {
		obs.Pair(res)
	}
}

func (o Observers) Finish(s Summary) {
	for _, obs := range o {
		obs.Finish(s)
	}
}

// LogObserver writes pair outcomes and the summary to a logger.
type LogObserver struct {
	log *logger.Logger
}

func NewLogObserver(log *logger.Logger) *LogObserver {
	return &LogObserver{log: log.WithComponent("runner")}
}

func (o *LogObserver) Start(total int) {
	o.log.Infow("seeding field values", "pairs", total)
}

func (o *LogObserver) Pair(res PairResult) {
	kv := []any{
		"field", res.Field.MetaKey,
		"type", res.Field.Type,
		"entity", res.Entity.String(),
	}
	switch res.Status() {
	case StatusDispatched:
		o.log.Debugw("value written", append(kv, "value", res.Value.String())...)
	case StatusSkipped:
		o.log.Debugw("pair skipped", append(kv, "reason", res.Err.Error())...)
	default:
		o.log.Warnw("pair failed", append(kv, "error", res.Err)...)
	}
}

func (o *LogObserver) Finish(s Summary) {
	o.log.Infow("seeding finished",
		"total", s.Total,
		"dispatched", s.Dispatched,
		"skipped", s.SkippedTotal(),
		"failed", s.Failed,
		"canceled", s.Canceled,
	)
	for reason, n := range s.Skipped {
		o.log.Infow("skipped pairs", "reason", reason, "count", n)
	}
}

// ProgressObserver renders a progress bar. On a terminal it redraws one line;
// otherwise it prints a line every 25%.
type ProgressObserver struct {
	mu      sync.Mutex
	out     io.Writer
	label   string
	tty     bool
	total   int
	current int
	lastPct int
}

// NewProgressObserver writes to out. TTY mode is detected when out is a
// terminal file.
func NewProgressObserver(out io.Writer, label string) *ProgressObserver {
	tty := false
	if f, ok := out.(*os.File); ok {
		tty = term.IsTerminal(int(f.Fd()))
	}
	return &ProgressObserver{out: out, label: label, tty: tty, lastPct: -1}
}

func (p *ProgressObserver) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
	p.current = 0
	p.lastPct = -1
	p.render()
}

func (p *ProgressObserver) Pair(PairResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current < p.total {
		p.current++
	}
	p.render()
}

func (p *ProgressObserver) Finish(s Summary) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tty {
		fmt.Fprint(p.out, "\n")
	}
	fmt.Fprintf(p.out, "%s: %d written, %d skipped, %d failed\n",
		p.label, s.Dispatched, s.SkippedTotal(), s.Failed)
}

// render must be called with p.mu held.
func (p *ProgressObserver) render() {
	pct := 100
	if p.total > 0 {
		pct = p.current * 100 / p.total
	}
	if p.tty {
		const width = 30
		filled := pct * width / 100
		bar := strings.Repeat("=", filled) + strings.Repeat(" ", width-filled)
		fmt.Fprintf(p.out, "\r%s [%s] %3d%% (%d/%d)", p.label, bar, pct, p.current, p.total)
		return
	}
	step := pct / 25 * 25
	if step == p.lastPct {
		return
	}
	p.lastPct = step
	fmt.Fprintf(p.out, "%s: %d%% (%d/%d)\n", p.label, step, p.current, p.total)
}
