package validation

import (
	"context"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/The-Obstacle-Is-The-Way/bids-hub/pkg/filetable"
)

// Option configures a validation run.
type Option func(*config)

type config struct {
	runLinter  bool
	sampleSize int
}

// WithBIDSLinter enables the external bids-validator check. The linter runs
// with a bounded timeout; a timeout or invocation failure is reported as
// skipped, not failed.
func WithBIDSLinter() Option {
	return func(c *config) {
		c.runLinter = true
	}
}

// WithSampleSize overrides the number of binary artifacts probed by the
// sampled integrity check.
func WithSampleSize(n int) Option {
	return func(c *config) {
		c.sampleSize = n
	}
}

const defaultSampleSize = 10

// Validator runs the fixed check battery against a downloaded tree.
type Validator struct {
	fsys fs.FS
	// root is the user-facing path of the tree, for reporting and for the
	// external linter; all reads go through fsys.
	root string
	exp  Expectations
}

// New creates a Validator for the tree at root, read through fsys.
func New(fsys fs.FS, root string, exp Expectations) *Validator {
	return &Validator{fsys: fsys, root: root, exp: exp}
}

// Validate runs every check independently and accumulates a report. Check
// failures are never raised as errors; the caller inspects the aggregate.
func (v *Validator) Validate(ctx context.Context, opts ...Option) *Report {
	cfg := &config{sampleSize: v.exp.SampleSize}
	if cfg.sampleSize <= 0 {
		cfg.sampleSize = defaultSampleSize
	}
	for _, opt := range opts {
		opt(cfg)
	}

	report := NewReport(v.root)

	if err := filetable.CheckRoot(v.fsys, "."); err != nil {
		report.Add(Check{
			Name:     "dataset_root",
			Expected: "directory exists",
			Actual:   "MISSING",
			Passed:   false,
			Details:  err.Error(),
		})
		return report
	}

	report.Add(v.checkRequiredFiles())
	for _, c := range v.checkRequiredDirs() {
		report.Add(c)
	}
	report.Add(v.checkSubjectCount())
	if v.exp.ManifestPath != "" {
		report.Add(v.checkManifestRows())
	}
	for _, series := range v.exp.Series {
		report.Add(v.checkSeriesCount(series))
	}
	report.Add(v.checkZeroByte())
	report.Add(v.checkSampleIntegrity(cfg.sampleSize))

	if cfg.runLinter {
		if c, ok := runBIDSLinter(ctx, v.root); ok {
			report.Add(c)
		}
	}

	return report
}

func (v *Validator) checkRequiredFiles() Check {
	var missing []string
	for _, name := range v.exp.RequiredFiles {
		if _, err := fs.Stat(v.fsys, name); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return Check{
			Name:     "required_files",
			Expected: "all present",
			Actual:   "missing: " + strings.Join(missing, ", "),
			Passed:   false,
		}
	}
	return Check{Name: "required_files", Expected: "all present", Actual: "all present", Passed: true}
}

func (v *Validator) checkRequiredDirs() []Check {
	var checks []Check
	for _, name := range v.exp.RequiredDirs {
		info, err := fs.Stat(v.fsys, name)
		ok := err == nil && info.IsDir()
		actual := "exists"
		if !ok {
			actual = "MISSING"
		}
		checks = append(checks, Check{
			Name:     name + "_dir",
			Expected: "exists",
			Actual:   actual,
			Passed:   ok,
		})
	}
	return checks
}

// countSubjectDirs counts the unit directories matched by the subject glob.
func (v *Validator) countSubjectDirs() int {
	matches, err := doublestar.Glob(v.fsys, v.exp.SubjectGlob)
	if err != nil {
		log.Debugf("globbing subject dirs %s: %s", v.exp.SubjectGlob, err)
		return 0
	}
	n := 0
	for _, m := range matches {
		if info, err := fs.Stat(v.fsys, m); err == nil && info.IsDir() {
			n++
		}
	}
	return n
}

func (v *Validator) checkSubjectCount() Check {
	count := v.countSubjectDirs()
	expected := v.exp.Subjects

	// Same tolerance band as series counts: a shortfall within the band is an
	// in-progress download, a surplus is a superset snapshot. Neither fails.
	floor := expected - int(float64(expected)*v.exp.SeriesTolerance)
	passed := count >= floor

	details := ""
	if !passed {
		details = fmt.Sprintf("expected ~%d, got %d", expected, count)
	}
	return Check{
		Name:     "subjects",
		Expected: fmt.Sprintf(">= %d (reference: %d)", floor, expected),
		Actual:   fmt.Sprintf("%d", count),
		Passed:   passed,
		Details:  details,
	}
}

// checkManifestRows verifies the metadata index covers at least every unit
// directory on disk. The manifest may legitimately list more units than have
// imaging data.
func (v *Validator) checkManifestRows() Check {
	m, err := filetable.ReadManifest(v.fsys, v.exp.ManifestPath)
	if err != nil {
		return Check{
			Name:     "metadata_index",
			Expected: "file exists",
			Actual:   "MISSING",
			Passed:   false,
			Details:  err.Error(),
		}
	}
	subjectDirs := v.countSubjectDirs()
	return Check{
		Name:     "metadata_index",
		Expected: fmt.Sprintf(">= %d (unit dirs)", subjectDirs),
		Actual:   fmt.Sprintf("%d", m.Len()),
		Passed:   m.Len() >= subjectDirs,
	}
}

func (v *Validator) checkSeriesCount(series SeriesCount) Check {
	matches, err := doublestar.Glob(v.fsys, series.Pattern, doublestar.WithFilesOnly())
	if err != nil {
		log.Debugf("globbing series %s: %s", series.Pattern, err)
	}

	// Zero-length artifacts don't count toward the series total.
	count := 0
	for _, m := range matches {
		if info, err := fs.Stat(v.fsys, m); err == nil && info.Size() > 0 {
			count++
		}
	}

	tolerance := int(float64(series.Expected) * v.exp.SeriesTolerance)
	floor := series.Expected - tolerance
	return Check{
		Name:     series.Name + "_files",
		Expected: fmt.Sprintf(">= %d (reference: %d)", floor, series.Expected),
		Actual:   fmt.Sprintf("%d", count),
		Passed:   count >= floor,
	}
}

// checkZeroByte fails hard on any zero-length imaging artifact anywhere in the
// tree. Unlike a low count, a zero-byte file indicates corruption rather than
// an in-progress transfer.
func (v *Validator) checkZeroByte() Check {
	var zero []string
	fs.WalkDir(v.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(p, ".nii.gz") {
			return nil
		}
		if info, err := d.Info(); err == nil && info.Size() == 0 {
			zero = append(zero, p)
		}
		return nil
	})

	if len(zero) == 0 {
		return Check{Name: "zero_byte_files", Expected: "none", Actual: "none", Passed: true}
	}

	shown := zero
	if len(shown) > 10 {
		shown = shown[:10]
	}
	details := strings.Join(shown, ", ")
	if len(zero) > len(shown) {
		details += fmt.Sprintf(", … and %d more", len(zero)-len(shown))
	}
	return Check{
		Name:     "zero_byte_files",
		Expected: "none",
		Actual:   fmt.Sprintf("%d zero-byte artifacts", len(zero)),
		Passed:   false,
		Details:  details,
	}
}

// checkSampleIntegrity probes a random sample of binary artifacts for
// corruption. An empty candidate pool is itself a failure, distinct from a
// sample member failing to parse.
func (v *Validator) checkSampleIntegrity(sampleSize int) Check {
	candidates, err := doublestar.Glob(v.fsys, v.exp.SampleGlob, doublestar.WithFilesOnly())
	if err != nil {
		log.Debugf("globbing sample candidates %s: %s", v.exp.SampleGlob, err)
	}
	if len(candidates) == 0 {
		return Check{
			Name:     "sample_integrity",
			Expected: "parsable",
			Actual:   fmt.Sprintf("no files matching %s", v.exp.SampleGlob),
			Passed:   false,
		}
	}

	n := sampleSize
	if n > len(candidates) {
		n = len(candidates)
	}
	sample := make([]string, 0, n)
	for _, i := range rand.Perm(len(candidates))[:n] {
		sample = append(sample, candidates[i])
	}

	for _, name := range sample {
		if err := CheckNIfTI(v.fsys, name); err != nil {
			return Check{
				Name:     "sample_integrity",
				Expected: "parsable",
				Actual:   fmt.Sprintf("ERROR: %s: %s", name, err),
				Passed:   false,
			}
		}
	}
	return Check{
		Name:     "sample_integrity",
		Expected: "parsable",
		Actual:   fmt.Sprintf("%d/%d passed", n, n),
		Passed:   true,
	}
}
