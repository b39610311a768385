package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hellometal/sim"
)

var (
	imageMemMiB uint64

	imageCmd = &cobra.Command{
		Use:   "image <elf>",
		Short: "Load a firmware ELF into simulated RAM and describe it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ram := sim.NewRAM(sim.RAMBase, imageMemMiB*1024*1024)
			img, err := sim.LoadImage(args[0], ram)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "machine %s\nentry   %#x\n", img.Machine, img.Entry)
			for _, s := range img.Segments {
				fmt.Fprintf(w, "load    %#010x file %#x mem %#x %s\n", s.Addr, s.FileSize, s.MemSize, s.Flags)
			}
			fmt.Fprintf(w, "bss     %d bytes zeroed\n", img.ZeroFilled)
			return nil
		},
	}
)

func init() {
	imageCmd.Flags().Uint64Var(&imageMemMiB, "mem", 16, "RAM MiB")
}
