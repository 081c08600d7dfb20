package progressbar

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

const (
	barWidth        = 20
	spinnerInterval = 100 * time.Millisecond

	// EnvProgressIndicator set to false hides the spinner and the bar on a terminal
	EnvProgressIndicator = "DATAWORKS_PROGRESS_INDICATOR"
)

// ProgressBar renders a spinner for a single remote wait and a counting bar for batches
type ProgressBar struct {
	mu     sync.Mutex
	writer io.Writer

	spinner *spinner.Spinner
	bar     *progressbar.ProgressBar
	done    int
	total   int
}

// NewProgressBar writes to stderr when it is a terminal and discards otherwise
func NewProgressBar() *ProgressBar {
	return NewProgressBarWithWriter(indicatorWriter())
}

// NewProgressBarWithWriter initializes progress bar with writer
func NewProgressBarWithWriter(w io.Writer) *ProgressBar {
	return &ProgressBar{writer: w}
}

func indicatorWriter() io.Writer {
	if strings.EqualFold(os.Getenv(EnvProgressIndicator), "false") {
		return io.Discard
	}
	fd := os.Stderr.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return io.Discard
	}
	return os.Stderr
}

// Start shows the spinner with label, a running spinner only gets its label replaced
func (p *ProgressBar) Start(label string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.spinner == nil {
		p.spinner = spinner.New(spinner.CharSets[14], spinnerInterval,
			spinner.WithWriter(p.writer), spinner.WithColor("fgCyan"))
		p.spinner.Start()
	}
	p.spinner.Suffix = suffix(label)
}

// StartProgress begins a bar over total items, described by label until the first Advance
func (p *ProgressBar) StartProgress(total int, label string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done = 0
	p.total = total
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(barWidth),
		progressbar.OptionSetDescription(describe(label, 0, total)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]#[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: ".",
			BarStart:      "|",
			BarEnd:        "|",
		}),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
	)
}

// Advance marks one more item finished and names it in the description
func (p *ProgressBar) Advance(item string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil {
		return
	}
	p.done++
	p.bar.Describe(describe(item, p.done, p.total))
	_ = p.bar.Set(p.done)
}

// Stop clears the spinner and finishes the bar
func (p *ProgressBar) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.spinner != nil {
		p.spinner.Stop()
		p.spinner = nil
	}
	if p.bar != nil {
		_ = p.bar.Finish()
		p.bar = nil
	}
}

func suffix(label string) string {
	if label == "" {
		return ""
	}
	return " " + label
}

func describe(label string, done, total int) string {
	return fmt.Sprintf("[cyan](%d/%d)[reset] %s", done, total, label)
}
