// Package validation checks a downloaded dataset tree against an expected
// structural profile: required files, unit and series counts within tolerance,
// zero-byte artifact detection, sampled NIfTI integrity, an optional external
// BIDS linter, and streaming archive checksum verification.
package validation

import (
	"fmt"
	"strings"

	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("validation")

// Check is the immutable result of a single validation check.
type Check struct {
	Name     string
	Expected string
	Actual   string
	Passed   bool
	Details  string
}

// Report accumulates check results for one validation run. It is append-only
// while the run executes and never mutated afterward.
type Report struct {
	Root   string
	checks []Check
}

// NewReport creates an empty report for the given tree root.
func NewReport(root string) *Report {
	return &Report{Root: root}
}

// Add appends a check result.
func (r *Report) Add(c Check) {
	r.checks = append(r.checks, c)
}

// Checks returns the accumulated results in run order.
func (r *Report) Checks() []Check {
	return r.checks
}

// AllPassed reports whether every check passed.
func (r *Report) AllPassed() bool {
	for _, c := range r.checks {
		if !c.Passed {
			return false
		}
	}
	return true
}

// PassedCount returns the number of passed checks.
func (r *Report) PassedCount() int {
	n := 0
	for _, c := range r.checks {
		if c.Passed {
			n++
		}
	}
	return n
}

// FailedCount returns the number of failed checks.
func (r *Report) FailedCount() int {
	return len(r.checks) - r.PassedCount()
}

// Summary renders the report as a sequential human-readable block, one line
// per check with expected-vs-actual detail.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Validation results for: %s\n", r.Root)
	b.WriteString(strings.Repeat("=", 60) + "\n")
	for _, c := range r.checks {
		status := "✅ PASS"
		if !c.Passed {
			status = "❌ FAIL"
		}
		fmt.Fprintf(&b, "%s %s\n", status, c.Name)
		fmt.Fprintf(&b, "       Expected: %s\n", c.Expected)
		fmt.Fprintf(&b, "       Actual:   %s\n", c.Actual)
		if c.Details != "" {
			fmt.Fprintf(&b, "       Details:  %s\n", c.Details)
		}
	}
	b.WriteString(strings.Repeat("=", 60) + "\n")
	if r.AllPassed() {
		b.WriteString("✅ All validations passed.\n")
	} else {
		fmt.Fprintf(&b, "❌ %d/%d checks failed. Check the download or wait for it to complete.\n",
			r.FailedCount(), len(r.checks))
	}
	return b.String()
}
