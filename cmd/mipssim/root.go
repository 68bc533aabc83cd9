package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mipssim",
		Short: "Cycle-accurate five-stage pipelined MIPS simulator",
	}
	cmd.AddCommand(newRunCmd())
	return cmd
}
