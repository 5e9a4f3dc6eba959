// Package profiling adds CPU, heap and phase timing flags to a command.
package profiling

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
)

// Phase is a timed step of a command.
type Phase struct {
	Name     string
	Duration time.Duration
}

// Profiler records command phases and, when asked, pprof profiles.
type Profiler struct {
	cpuProfilePath string
	memProfilePath string
	timing         bool

	cpuProfile *os.File
	started    time.Time

	mu     sync.Mutex
	phases []Phase
}

// New creates a profiler. Nothing is recorded until its flags ask for it.
func New() *Profiler {
	return &Profiler{}
}

// AddFlags adds the profiling flags to the given command.
func (p *Profiler) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&p.cpuProfilePath, "cpu-profile", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&p.memProfilePath, "mem-profile", "", "Write memory profile to file")
	cmd.PersistentFlags().BoolVar(&p.timing, "timing", false, "Print a timing summary on exit")
}

// Start begins profiling. Use it as a PersistentPreRunE hook.
func (p *Profiler) Start(cmd *cobra.Command, args []string) error {
	p.started = time.Now()
	if p.cpuProfilePath == "" {
		return nil
	}
	f, err := os.Create(p.cpuProfilePath)
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return fmt.Errorf("could not start CPU profile: %w", err)
	}
	p.cpuProfile = f
	return nil
}

// Stop writes the profiles and the timing summary. Use it as a
// PersistentPostRunE hook.
func (p *Profiler) Stop(cmd *cobra.Command, args []string) error {
	out := cmd.ErrOrStderr()
	if p.cpuProfile != nil {
		pprof.StopCPUProfile()
		p.cpuProfile.Close()
		p.cpuProfile = nil
		fmt.Fprintf(out, "CPU profile written to %s\n", p.cpuProfilePath)
	}

	if p.memProfilePath != "" {
		f, err := os.Create(p.memProfilePath)
		if err != nil {
			return fmt.Errorf("could not create memory profile: %w", err)
		}
		defer f.Close()
		runtime.GC() // get up-to-date statistics
		if err := pprof.WriteHeapProfile(f); err != nil {
			return fmt.Errorf("could not write memory profile: %w", err)
		}
		fmt.Fprintf(out, "Memory profile written to %s\n", p.memProfilePath)
	}

	if p.timing {
		p.Summarize(out)
	}
	return nil
}

// Time runs fn as a named phase.
func (p *Profiler) Time(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	p.mu.Lock()
	p.phases = append(p.phases, Phase{Name: name, Duration: time.Since(start)})
	p.mu.Unlock()
	return err
}

// Phases returns the recorded phases in completion order.
func (p *Profiler) Phases() []Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Phase(nil), p.phases...)
}

// Summarize prints every phase with its share of the total run time.
func (p *Profiler) Summarize(w io.Writer) {
	phases := p.Phases()
	total := time.Since(p.started)
	if p.started.IsZero() {
		total = 0
		for _, ph := range phases {
			total += ph.Duration
		}
	}

	fmt.Fprintln(w, "\n--- Timing Profile ---")
	width := 0
	for _, ph := range phases {
		if len(ph.Name) > width {
			width = len(ph.Name)
		}
	}
	for _, ph := range phases {
		share := 0.0
		if total > 0 {
			share = float64(ph.Duration) / float64(total) * 100
		}
		fmt.Fprintf(w, "- %s%s  %v (%.1f%%)\n", ph.Name, strings.Repeat(" ", width-len(ph.Name)),
			ph.Duration.Round(100*time.Microsecond), share)
	}
	fmt.Fprintf(w, "total %v\n", total.Round(100*time.Microsecond))
}

// FromCommand returns the profiler attached to cmd or one of its parents
// with Attach, or a fresh one.
func FromCommand(cmd *cobra.Command) *Profiler {
	for c := cmd; c != nil; c = c.Parent() {
		if p, ok := attached.Load(c); ok {
			return p.(*Profiler)
		}
	}
	return New()
}

var attached sync.Map

// Attach adds the profiling flags and hooks to root.
func Attach(root *cobra.Command) *Profiler {
	p := New()
	p.AddFlags(root)
	root.PersistentPreRunE = p.Start
	root.PersistentPostRunE = p.Stop
	attached.Store(root, p)
	return p
}
