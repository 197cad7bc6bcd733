package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
	"github.com/mitchellh/go-wordwrap"
	"github.com/spf13/cobra"

	"github.com/The-Obstacle-Is-The-Way/bids-hub/pkg/config"
	"github.com/The-Obstacle-Is-The-Way/bids-hub/pkg/roundtrip"
	"github.com/The-Obstacle-Is-The-Way/bids-hub/pkg/roundtrip/hub"
)

var verifyFlags struct {
	sampleSize int
}

var verifyCmd = &cobra.Command{
	Use:   "verify <dataset> <root>",
	Short: "Verify a remote copy against the local dataset tree",
	Long: wordwrap.WrapString(
		"Rebuilds the flattened file table from the local tree and compares it "+
			"against the remote copy configured for the dataset: exact record "+
			"count, identifier set equality, and content hashes for an "+
			"evenly-spaced sample of remote rows. The local tree is the ground "+
			"truth; any divergence is reported as a failed check.",
		80),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := lookupDataset(args[0])
		if err != nil {
			return err
		}
		fsys, root, err := treeFS(args[1])
		if err != nil {
			return err
		}

		cfg, err := config.Load[config.Config]()
		if err != nil {
			return err
		}
		if cfg.Hub.Endpoint == "" {
			return fmt.Errorf("no hub endpoint configured (set hub.endpoint or --hub-endpoint)")
		}
		repo, err := cfg.Hub.Repo(ds.name)
		if err != nil {
			return err
		}

		table, err := ds.build(fsys, root)
		if err != nil {
			return err
		}
		table, err = table.Conform(ds.schema)
		if err != nil {
			return err
		}

		remote := hub.NewClient(cfg.Hub.Endpoint).Dataset(repo, cfg.Hub.Split)
		opts := []roundtrip.Option{}
		if verifyFlags.sampleSize > 0 {
			opts = append(opts, roundtrip.WithSampleSize(verifyFlags.sampleSize))
		}
		verifier := roundtrip.NewVerifier(fsys, root, table, ds.schema, remote, opts...)

		var s *spinner.Spinner
		if isatty.IsTerminal(os.Stdout.Fd()) {
			s = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			s.Suffix = fmt.Sprintf(" comparing %s against %s", ds.name, repo)
			s.Start()
		}
		report, err := verifier.Verify(cmd.Context())
		if s != nil {
			s.Stop()
		}
		if err != nil {
			return err
		}

		cmd.Println(report.Summary())
		if !report.AllPassed() {
			return fmt.Errorf("%d of %d checks failed", report.FailedCount(), len(report.Checks()))
		}
		return nil
	},
}

func init() {
	verifyCmd.Flags().IntVar(&verifyFlags.sampleSize, "sample-size", 0,
		"Number of remote rows hash-checked (0 uses the default)")
	rootCmd.AddCommand(verifyCmd)
}
