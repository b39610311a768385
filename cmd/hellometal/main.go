// Command hellometal runs the bare-metal demo against a simulated QEMU virt
// board and inspects firmware images built for it.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hellometal/board"
	"hellometal/logger"
)

var (
	boardPath string
	echoLog   bool

	rootCmd = &cobra.Command{
		Use:           "hellometal",
		Short:         "Bare-metal PL011 demo on a simulated board",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if echoLog {
				logger.SetEcho(os.Stderr)
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&boardPath, "board", "", "board profile (YAML); defaults to qemu-virt")
	rootCmd.PersistentFlags().BoolVar(&echoLog, "log", false, "echo the simulator log to stderr")
	rootCmd.AddCommand(runCmd, imageCmd, boardCmd)
}

// loadBoard returns the profile named by --board.
func loadBoard() (board.Profile, error) {
	if boardPath == "" {
		return board.QEMUVirt, nil
	}
	return board.Load(boardPath)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "hellometal:", err)
		os.Exit(exitCode(err))
	}
}
