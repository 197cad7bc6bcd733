package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/The-Obstacle-Is-The-Way/bids-hub/pkg/datasets/arc"
	"github.com/The-Obstacle-Is-The-Way/bids-hub/pkg/datasets/isles24"
	"github.com/The-Obstacle-Is-The-Way/bids-hub/pkg/filetable"
	"github.com/The-Obstacle-Is-The-Way/bids-hub/pkg/validation"
)

// dataset bundles everything the commands need to drive one supported layout.
type dataset struct {
	name         string
	description  string
	build        func(fs.FS, string) (*filetable.Table, error)
	schema       filetable.Schema
	expectations validation.Expectations
}

var supportedDatasets = map[string]dataset{
	"arc": {
		name:         "arc",
		description:  "Aphasia Recovery Cohort (OpenNeuro ds004884), manifest-driven, one row per subject",
		build:        arc.BuildFileTable,
		schema:       arc.Schema(),
		expectations: arc.Expectations(),
	},
	"arc-sessions": {
		name:         "arc-sessions",
		description:  "Aphasia Recovery Cohort, one row per imaging session",
		build:        arc.BuildSessionTable,
		schema:       arc.SessionSchema(),
		expectations: arc.Expectations(),
	},
	"isles24": {
		name:         "isles24",
		description:  "ISLES'24 stroke perfusion challenge (Zenodo v7), directory-driven, one row per subject",
		build:        isles24.BuildFileTable,
		schema:       isles24.Schema(),
		expectations: isles24.Expectations(),
	},
}

func lookupDataset(name string) (dataset, error) {
	ds, ok := supportedDatasets[name]
	if !ok {
		return dataset{}, fmt.Errorf("unknown dataset %q (supported: %s)", name, strings.Join(datasetNames(), ", "))
	}
	return ds, nil
}

func datasetNames() []string {
	names := make([]string, 0, len(supportedDatasets))
	for name := range supportedDatasets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// treeFS splits a dataset path into an fs.FS rooted at its parent directory
// and the root's name within it, so every package downstream works on fs.FS
// paths.
func treeFS(path string) (fs.FS, string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("resolving %s: %w", path, err)
	}
	return os.DirFS(filepath.Dir(abs)), filepath.Base(abs), nil
}
