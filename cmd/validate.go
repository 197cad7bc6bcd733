package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-wordwrap"
	"github.com/spf13/cobra"

	"github.com/The-Obstacle-Is-The-Way/bids-hub/pkg/validation"
)

var validateFlags struct {
	bidsValidator bool
	sampleSize    int
	verifyMD5     string
}

var validateCmd = &cobra.Command{
	Use:   "validate <dataset> <root>",
	Short: "Run the validation battery against a dataset tree",
	Long: wordwrap.WrapString(
		"Checks a dataset tree against its published expectations: required "+
			"files, subject and series counts within tolerance, zero-byte "+
			"artifacts and a sampled NIfTI integrity probe. Optionally verifies "+
			"the source archive checksum and shells out to the upstream BIDS "+
			"validator. Exits non-zero when any check fails.",
		80),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := lookupDataset(args[0])
		if err != nil {
			return err
		}
		// The validator reads at the root of its fs.FS; the OS path is kept
		// for reporting and for the external linter.
		root, err := filepath.Abs(args[1])
		if err != nil {
			return fmt.Errorf("resolving %s: %w", args[1], err)
		}

		opts := []validation.Option{}
		if validateFlags.bidsValidator {
			opts = append(opts, validation.WithBIDSLinter())
		}
		if validateFlags.sampleSize > 0 {
			opts = append(opts, validation.WithSampleSize(validateFlags.sampleSize))
		}

		validator := validation.New(os.DirFS(root), root, ds.expectations)
		report := validator.Validate(cmd.Context(), opts...)

		if validateFlags.verifyMD5 != "" {
			if ds.expectations.ArchiveMD5 == "" {
				return fmt.Errorf("dataset %q has no published archive checksum", ds.name)
			}
			report.Add(validation.VerifyArchiveMD5(
				cmd.Context(), validateFlags.verifyMD5, ds.expectations.ArchiveMD5, cmd.OutOrStdout()))
		}

		cmd.Println(report.Summary())
		if !report.AllPassed() {
			return fmt.Errorf("%d of %d checks failed", report.FailedCount(), len(report.Checks()))
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().BoolVar(&validateFlags.bidsValidator, "bids-validator", false,
		"Also run the upstream bids-validator via npx, when available")
	validateCmd.Flags().IntVar(&validateFlags.sampleSize, "sample-size", 0,
		"Number of imaging files sampled for the integrity probe (0 uses the dataset default)")
	validateCmd.Flags().StringVar(&validateFlags.verifyMD5, "verify-md5", "",
		"Path to the source archive; verifies its MD5 against the published checksum")
	rootCmd.AddCommand(validateCmd)
}
