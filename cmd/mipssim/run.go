package main

import (
	"fmt"
	"os"

	"mipspipe/internal/config"
	"mipspipe/internal/loader"
	"mipspipe/internal/trace"
	"mipspipe/pkg/cpu"
	"mipspipe/pkg/mem"
	"mipspipe/pkg/predictor"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRunCmd() *cobra.Command {
	var (
		configPath string
		elf        bool
		base       uint32
		entry      uint32
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "run <program>",
		Short: "Load a program image and run it to completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("mipssim: %w", err)
			}

			var ld loader.Loader
			if elf {
				ld = loader.ELFLoader{SectionName: ".text"}
			} else {
				ld = loader.HexWordsLoader{Base: base, Entry: entry}
			}
			prog, err := ld.Load(data)
			if err != nil {
				return err
			}

			m := mem.New(cfg.MemorySize)
			m.LoadImage(prog.Base, prog.Image)

			var pred predictor.Predictor
			if cfg.Predictor == "btb2bit" {
				pred = predictor.NewBTB(cfg.BTBEntries)
			} else {
				pred = predictor.NewAlwaysNotTaken()
			}

			params := cpu.Params{
				PortLatency:        cfg.PortLatency,
				WritebackBandwidth: cfg.WritebackBandwidth,
			}
			c, err := cpu.New(prog.Entry, m, pred, params)
			if err != nil {
				return fmt.Errorf("mipssim: %w", err)
			}

			var logger *zap.Logger
			if verbose {
				logger, err = zap.NewDevelopment()
			} else {
				logger, err = zap.NewProduction()
			}
			if err != nil {
				return fmt.Errorf("mipssim: %w", err)
			}
			sink := trace.NewSink(logger)
			defer sink.Sync()
			c.SetTraceSink(sink.OnRetire)

			fault, runErr := c.Run(cfg.MaxCycles)
			sink.Summary(c.Stats())
			if runErr != nil {
				return fmt.Errorf("mipssim: %w", runErr)
			}
			fmt.Printf("halted after %d cycles: %s\n", c.Cycle(), fault.Error())
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "TOML configuration file")
	cmd.Flags().BoolVar(&elf, "elf", false, "treat the program argument as an ELF32 binary")
	cmd.Flags().Uint32Var(&base, "base", 0, "load address for hex-words programs")
	cmd.Flags().Uint32Var(&entry, "entry", 0, "entry point for hex-words programs (defaults to base)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable development-mode (human-readable) logging")

	return cmd
}
