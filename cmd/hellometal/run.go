package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"hellometal/board"
	"hellometal/demo"
	"hellometal/logger"
	"hellometal/sim"
	"hellometal/uart"
)

// errPanicked is returned when the program ended in its panic state.
var errPanicked = errors.New("program panicked")

func exitCode(err error) int {
	if errors.Is(err, errPanicked) {
		return 1
	}
	return 2
}

type runConfig struct {
	iterations uint64
	delay      int
	start      uint64
	busy       int
	faultAfter int
	init       bool
	image      string
	bin        string
	memMiB     uint64
}

// log entries shown when the program panics
const panicTail = 8

var (
	runCfg runConfig

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the demo and copy the serial line to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := loadBoard()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("delay") {
				runCfg.delay = profile.DelayIterations
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			state, err := runMachine(ctx, cmd.OutOrStdout(), profile, runCfg)
			if err != nil {
				return err
			}
			if state == demo.Panicked {
				if !echoLog {
					logger.Tail(cmd.ErrOrStderr(), panicTail)
				}
				return errPanicked
			}
			return nil
		},
	}
)

func init() {
	f := runCmd.Flags()
	f.Uint64Var(&runCfg.iterations, "iterations", 0, "stop after this many counter lines (0 runs until interrupted)")
	f.IntVar(&runCfg.delay, "delay", demo.DelayIterations, "nops between counter lines (default from board)")
	f.Uint64Var(&runCfg.start, "start", 0, "first counter value")
	f.IntVar(&runCfg.busy, "busy", 0, "polls the transmit FIFO reports full before each byte")
	f.IntVar(&runCfg.faultAfter, "fault-after", 0, "raise a bus fault on this transmit (0 never)")
	f.BoolVar(&runCfg.init, "init", false, "program the UART line settings before the banner")
	f.StringVar(&runCfg.image, "image", "", "firmware ELF to place in RAM before starting")
	f.StringVar(&runCfg.bin, "bin", "", "flat firmware binary to place at the start of RAM")
	runCmd.MarkFlagsMutuallyExclusive("image", "bin")
	f.Uint64Var(&runCfg.memMiB, "mem", 16, "RAM MiB")
}

// runMachine builds the simulated board, runs the demo on it and copies the
// serial line to out. It returns when ctx is done, the iteration limit is
// reached, a bounded run panics, or out fails.
func runMachine(ctx context.Context, out io.Writer, profile board.Profile, cfg runConfig) (demo.State, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Build the board
	ram := sim.NewRAM(sim.RAMBase, cfg.memMiB*1024*1024)
	if cfg.image != "" {
		img, err := sim.LoadImage(cfg.image, ram)
		if err != nil {
			return demo.Startup, fmt.Errorf("image: %w", err)
		}
		logger.Logf("run", "image entry %#x", img.Entry)
	}
	if cfg.bin != "" {
		if err := ram.LoadFlat(cfg.bin, sim.RAMBase); err != nil {
			return demo.Startup, fmt.Errorf("bin: %w", err)
		}
		logger.Logf("run", "%s at %#x", cfg.bin, sim.RAMBase)
	}

	pr, pw := io.Pipe()
	dev := sim.NewUART(pw)
	dev.BusyEach(cfg.busy)
	dev.FaultAfter(cfg.faultAfter)
	bus := sim.NewBus(ram, dev, profile.UARTBase)

	opts := []demo.Option{demo.WithDelay(cfg.delay), demo.WithCounter(cfg.start)}
	if cfg.init {
		opts = append(opts, demo.WithConfig(profile.UARTConfig()))
	}

	g, ctx := errgroup.WithContext(ctx)
	core := sim.NewCore(ctx)
	prog := demo.New(uart.New(bus, profile.UARTBase), core, opts...)
	logger.Logf("run", "%s: pl011 at %#x, delay %d", profile.Name, profile.UARTBase, cfg.delay)

	// serial line
	g.Go(func() error {
		_, err := io.Copy(out, pr)
		pr.CloseWithError(err)
		return err
	})

	// the machine
	g.Go(func() error {
		defer pw.Close()
		defer cancel()

		prog.RunContext(ctx, cfg.iterations)
		if cause := prog.Cause(); cause != nil {
			logger.Logf("run", "panicked: %v", cause)
		}
		return nil
	})

	err := g.Wait()
	if v := dev.Violations(); len(v) > 0 {
		logger.Logf("run", "%d transmit violations", len(v))
	}
	return prog.State(), err
}
