package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/The-Obstacle-Is-The-Way/bids-hub/internal/output"
)

var infoCmd = &cobra.Command{
	Use:   "info [dataset]",
	Short: "Show supported datasets and their published expectations",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			rows := [][]string{{"DATASET", "DESCRIPTION"}}
			for _, name := range datasetNames() {
				rows = append(rows, []string{name, supportedDatasets[name].description})
			}
			output.Table(rows)
			return nil
		}

		ds, err := lookupDataset(args[0])
		if err != nil {
			return err
		}
		exp := ds.expectations

		cmd.Printf("%s - %s\n\n", ds.name, ds.description)
		rows := [][]string{
			{"subjects", strconv.Itoa(exp.Subjects)},
			{"columns", strconv.Itoa(len(ds.schema))},
			{"tolerance", fmt.Sprintf("%.0f%%", exp.SeriesTolerance*100)},
		}
		for _, series := range exp.Series {
			rows = append(rows, []string{series.Name + " series", strconv.Itoa(series.Expected)})
		}
		if exp.ManifestPath != "" {
			rows = append(rows, []string{"manifest", exp.ManifestPath})
		}
		if exp.ArchiveMD5 != "" {
			rows = append(rows, []string{"archive md5", exp.ArchiveMD5})
		}
		output.Table(rows)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
