package profiling

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/grovetools/treestate/logging"
	"github.com/spf13/cobra"
)

// CobraProfiler adds --timing, --cpu-profile and --mem-profile to a
// command tree.
type CobraProfiler struct {
	cpuProfileFile *os.File
	cpuProfilePath string
	memProfilePath string
	timing         bool
}

// NewCobraProfiler creates a profiler for a Cobra command tree.
func NewCobraProfiler() *CobraProfiler {
	return &CobraProfiler{}
}

// AddFlags registers the profiling flags as persistent flags of cmd.
func (p *CobraProfiler) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&p.cpuProfilePath, "cpu-profile", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&p.memProfilePath, "mem-profile", "", "Write memory profile to file")
	cmd.PersistentFlags().BoolVar(&p.timing, "timing", false, "Print a timing table on exit")
}

// Attach registers the flags and installs the pre and post run hooks.
func (p *CobraProfiler) Attach(cmd *cobra.Command) {
	p.AddFlags(cmd)
	cmd.PersistentPreRunE = p.PreRun
	cmd.PersistentPostRun = p.PostRun
}

// PreRun starts profiling according to the flags.
func (p *CobraProfiler) PreRun(cmd *cobra.Command, args []string) error {
	if p.timing {
		Enable()
	}
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
	p.cpuProfileFile = f
	return nil
}

// PostRun writes the profiles and prints the timing table to stderr.
func (p *CobraProfiler) PostRun(cmd *cobra.Command, args []string) {
	logger := logging.NewLogger("treestate.profiling")

	if p.cpuProfileFile != nil {
		pprof.StopCPUProfile()
		p.cpuProfileFile.Close()
		p.cpuProfileFile = nil
		logger.WithField("path", p.cpuProfilePath).Info("CPU profile written")
	}

	if p.memProfilePath != "" {
		if err := writeHeapProfile(p.memProfilePath); err != nil {
			logger.WithError(err).Warn("could not write memory profile")
		} else {
			logger.WithField("path", p.memProfilePath).Info("memory profile written")
		}
	}

	if p.timing {
		Summarize(cmd.ErrOrStderr())
	}
}

func writeHeapProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	runtime.GC()
	return pprof.WriteHeapProfile(f)
}
