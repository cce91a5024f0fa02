package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Werfer02/profiler/pkg/output"
	"github.com/Werfer02/profiler/pkg/profiler"
	"github.com/Werfer02/profiler/pkg/units"
)

var (
	showSysinfo bool
	verbose     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the profiler walkthrough",
	Long: `Walks through every profiler feature: a manual timer, a scope timer,
average timers with manual and background logging, cumulative timers,
changing the loop interval and display unit mid-run, custom output
functions and redirecting output to a file. Finishes with a summary
table of everything still collected.`,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&showSysinfo, "sysinfo", false, "print host CPU and memory before running")
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable profiler diagnostics")
}

func runDemo(cmd *cobra.Command, args []string) error {
	if showSysinfo {
		printSysinfo()
	}

	var logger *zap.Logger
	if verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		logger = l
		defer logger.Sync()
	}

	p := profiler.New(profiler.Config{
		Unit:               units.Parse(unitName),
		AverageInterval:    avgInterval,
		CumulativeInterval: cumInterval,
		Logger:             logger,
	})
	defer p.Close()

	// Manual timer
	t := p.NewTimer()
	t.Start()
	time.Sleep(200 * time.Millisecond)
	d, err := t.Stop()
	if err != nil {
		return fmt.Errorf("manual timer: %w", err)
	}
	fmt.Printf("manual timer took: %v\n", d)

	// Scope timer
	fmt.Println("scope timer:")
	func() {
		defer p.Scope("scope timer").Stop()
		time.Sleep(100 * time.Millisecond)
	}()

	// Average timer, manual logging
	p.MarkStart()
	fmt.Println("\naverage timer, manual logging:")
	for i := 0; i < 10; i++ {
		p.TimeAverage("avg timer", func() {
			time.Sleep(20 * time.Millisecond)
		})
	}
	p.LogAverage()

	// Average timer, automatic logging
	p.StartAverageLoop()
	fmt.Println("\naverage timer, automatic logging:")
	runSamples(p, 15)

	// Change the loop sleep duration mid-run
	p.SetAverageInterval(500 * time.Millisecond)
	fmt.Println("\naverage timer, automatic logging, 500ms sleep:")
	runSamples(p, 15)

	// Cumulative timers aggregate under their own loop
	p.StartCumulativeLoop()
	fmt.Println("\ncumulative timer, automatic logging:")
	for i := 0; i < 10; i++ {
		p.TimeCumulative("cum timer", func() {
			time.Sleep(10 * time.Millisecond)
		})
	}
	time.Sleep(cumInterval + 100*time.Millisecond)

	// Change display unit and output functions
	p.SetUnit(units.Milliseconds)
	p.SetFormat(func(id string, d time.Duration, u units.Unit) string {
		return fmt.Sprintf("(custom output) %s took %.6g%s\n", id, units.Convert(d, u), u.Suffix())
	})
	p.SetElapsedFormat(func(elapsed time.Duration, u units.Unit) string {
		return fmt.Sprintf("(custom output) elapsed time: %.6g%s\n", units.Convert(elapsed, u), u.Suffix())
	})
	fmt.Println("\naverage timer, automatic logging, milliseconds, custom output functions:")
	runSamples(p, 15)

	// Redirect output to a file
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		p.SetWriter(f)
		fmt.Printf("\nchanged output stream to %s\n", outputPath)
		runSamples(p, 15)
	}

	// Summary of whatever is still collected
	p.TimeAverage("leftover", func() { time.Sleep(5 * time.Millisecond) })
	fmt.Println("\nsession summary:")
	if rows := p.Snapshot(); len(rows) > 0 {
		if err := output.SummaryTable(os.Stdout, rows, units.Milliseconds); err != nil {
			return fmt.Errorf("failed to render summary: %w", err)
		}
	} else {
		fmt.Println("nothing left to summarize")
	}
	fmt.Printf("session elapsed: %v\n", p.Elapsed())

	return nil
}

func runSamples(p *profiler.Profiler, n int) {
	for i := 0; i < n; i++ {
		p.TimeAverage("avg timer", func() {
			time.Sleep(50 * time.Millisecond)
		})
	}
}

func printSysinfo() {
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		fmt.Printf("CPU: %s\n", infos[0].ModelName)
	}
	if counts, err := cpu.Counts(true); err == nil {
		fmt.Printf("Threads: %d\n", counts)
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		fmt.Printf("RAM: %.1f GB total, %.1f%% used\n", float64(vm.Total)/(1<<30), vm.UsedPercent)
	}
	fmt.Println()
}
