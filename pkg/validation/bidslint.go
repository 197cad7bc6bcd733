package validation

import (
	"context"
	"errors"
	"os/exec"
	"time"
)

const linterTimeout = 5 * time.Minute

// runBIDSLinter invokes the external bids-validator tool on the tree, if it is
// invocable in the current environment. Only an actual rule violation fails
// the check; a missing tool skips it entirely (ok=false) and a timeout or
// invocation error records it as passed with a skipped note.
func runBIDSLinter(ctx context.Context, root string) (Check, bool) {
	if _, err := exec.LookPath("npx"); err != nil {
		return Check{}, false
	}

	ctx, cancel := context.WithTimeout(ctx, linterTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "npx", "--yes", "bids-validator", root, "--json")
	output, err := cmd.CombinedOutput()

	switch {
	case err == nil:
		return Check{
			Name:     "bids_validator",
			Expected: "valid BIDS",
			Actual:   "passed",
			Passed:   true,
		}, true
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return Check{
			Name:     "bids_validator",
			Expected: "valid BIDS",
			Actual:   "timeout",
			Passed:   true,
			Details:  "skipped: linter timed out on large dataset",
		}, true
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			details := string(output)
			if len(details) > 200 {
				details = details[:200]
			}
			return Check{
				Name:     "bids_validator",
				Expected: "valid BIDS",
				Actual:   "errors found",
				Passed:   false,
				Details:  details,
			}, true
		}
		return Check{
			Name:     "bids_validator",
			Expected: "valid BIDS",
			Actual:   "tool error",
			Passed:   true,
			Details:  "skipped: " + err.Error(),
		}, true
	}
}
