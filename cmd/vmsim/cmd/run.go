package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/sarchlab/vmsim/config"
	"github.com/sarchlab/vmsim/mem/vm/replacement"
)

func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run [BACKING_STORE] [ADDRESSES]",
		Short: "Translate every address of a file.",
		Long: "`run BACKING_STORE ADDRESSES -p 0|1` translates the addresses " +
			"listed in ADDRESSES, one decimal number per line, and prints the " +
			"physical address and value of each followed by a summary. " +
			"Policy 0 is FIFO and policy 1 is LRU.",
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			envFile, _ := cmd.Flags().GetString("env-file")

			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}

			err = applyFlags(cmd, args, &cfg)
			if err != nil {
				return err
			}

			err = cfg.Validate()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			r := newRunner(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
			_, err = r.run(ctx)

			return err
		},
	}

	f := runCmd.Flags()
	f.String("env-file", ".env", "File to load VMSIM_* settings from")
	f.StringP("policy", "p", "", "Page replacement policy: 0 or fifo, 1 or lru")
	f.Int("frames", 0, "Number of physical frames")
	f.Int("tlb-entries", 0, "Number of TLB entries")
	f.Bool("tlb-retarget", false,
		"Rewrite the TLB entry of a reclaimed frame in place")
	f.Bool("check", false, "Check the translator state after every address")
	f.Bool("skip-invalid", false,
		"Report invalid addresses and continue instead of stopping")
	f.String("record", "",
		"Record every translation into an SQLite database with this name")
	f.Bool("monitor", false, "Serve the monitoring API during the run")
	f.Int("monitor-port", 0, "Port of the monitoring server, random if 0")
	f.Bool("open-browser", false, "Open the monitoring API in a browser")
	f.BoolP("verbose", "v", false, "Log every translation and reclaim")

	return runCmd
}

func init() {
	rootCmd.AddCommand(newRunCmd())
}

// applyFlags overrides cfg with the arguments and the flags that were set on
// the command line.
func applyFlags(cmd *cobra.Command, args []string, cfg *config.Config) error {
	if len(args) > 0 {
		cfg.BackingStorePath = args[0]
	}

	if len(args) > 1 {
		cfg.AddressPath = args[1]
	}

	f := cmd.Flags()

	if f.Changed("policy") {
		s, _ := f.GetString("policy")

		kind, err := replacement.ParseKind(s)
		if err != nil {
			return err
		}

		cfg.Policy = kind
	}

	if f.Changed("frames") {
		cfg.NumFrames, _ = f.GetInt("frames")
	}

	if f.Changed("tlb-entries") {
		cfg.NumTLBEntries, _ = f.GetInt("tlb-entries")
	}

	if f.Changed("record") {
		cfg.Record = true
		cfg.RecordPath, _ = f.GetString("record")
	}

	if f.Changed("monitor-port") {
		cfg.Monitor = true
		cfg.MonitorPort, _ = f.GetInt("monitor-port")
	}

	bools := []struct {
		name string
		dst  *bool
	}{
		{"tlb-retarget", &cfg.TLBRetarget},
		{"check", &cfg.ConsistencyCheck},
		{"skip-invalid", &cfg.SkipInvalid},
		{"monitor", &cfg.Monitor},
		{"open-browser", &cfg.OpenBrowser},
		{"verbose", &cfg.Verbose},
	}
	for _, b := range bools {
		if f.Changed(b.name) {
			*b.dst, _ = f.GetBool(b.name)
		}
	}

	return nil
}
