package roundtrip

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"slices"
	"sort"
	"strings"

	logging "github.com/ipfs/go-log/v2"
	"github.com/minio/sha256-simd"

	"github.com/The-Obstacle-Is-The-Way/bids-hub/pkg/filetable"
	"github.com/The-Obstacle-Is-The-Way/bids-hub/pkg/validation"
)

var log = logging.Logger("roundtrip")

// DefaultSampleSize is the number of remote rows hash-checked per run.
const DefaultSampleSize = 30

// Option configures a Verifier.
type Option func(*Verifier)

// WithSampleSize overrides the number of sampled rows.
func WithSampleSize(n int) Option {
	return func(v *Verifier) {
		v.sampleSize = n
	}
}

// Verifier compares a local file table (ground truth) against a remote copy.
type Verifier struct {
	fsys       fs.FS // local source tree; table file references resolve here
	root       string
	local      *filetable.Table
	schema     filetable.Schema
	remote     Dataset
	sampleSize int
}

// NewVerifier creates a Verifier for the local table built from the tree at
// root (read through fsys) against the given remote dataset.
func NewVerifier(fsys fs.FS, root string, local *filetable.Table, schema filetable.Schema, remote Dataset, opts ...Option) *Verifier {
	v := &Verifier{
		fsys:       fsys,
		root:       root,
		local:      local,
		schema:     schema,
		remote:     remote,
		sampleSize: DefaultSampleSize,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify runs the three round-trip checks and accumulates a report. A failure
// to load from the remote side is returned as an error, since no meaningful
// partial validation is possible without the remote handle, while every
// comparison failure is captured as a failed check instead.
func (v *Verifier) Verify(ctx context.Context) (*validation.Report, error) {
	report := validation.NewReport(v.root)

	numRows, err := v.remote.NumRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading remote dataset: %w", err)
	}
	report.Add(validation.Check{
		Name:     "record_count",
		Expected: fmt.Sprintf("%d", v.local.Len()),
		Actual:   fmt.Sprintf("%d", numRows),
		Passed:   numRows == v.local.Len(),
	})

	remoteKeys, err := v.collectRemoteKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing remote keys: %w", err)
	}
	report.Add(v.checkKeySets(remoteKeys))

	sampleCheck, err := v.checkSampleHashes(ctx, numRows)
	if err != nil {
		return nil, err
	}
	report.Add(sampleCheck)

	return report, nil
}

func (v *Verifier) collectRemoteKeys(ctx context.Context) (map[Key]struct{}, error) {
	keys := make(map[Key]struct{})
	for key, err := range v.remote.Keys(ctx) {
		if err != nil {
			return nil, err
		}
		keys[key] = struct{}{}
	}
	return keys, nil
}

// checkKeySets requires set equality between local and remote identifiers and
// names the missing/extra ones on mismatch.
func (v *Verifier) checkKeySets(remote map[Key]struct{}) validation.Check {
	local := make(map[Key]struct{}, v.local.Len())
	for _, row := range v.local.Rows() {
		local[v.rowKey(row)] = struct{}{}
	}

	var missing, extra []string
	for k := range local {
		if _, ok := remote[k]; !ok {
			missing = append(missing, k.String())
		}
	}
	for k := range remote {
		if _, ok := local[k]; !ok {
			extra = append(extra, k.String())
		}
	}
	sort.Strings(missing)
	sort.Strings(extra)

	if len(missing) == 0 && len(extra) == 0 {
		return validation.Check{
			Name:     "id_set",
			Expected: "set-equal",
			Actual:   fmt.Sprintf("all %d identifiers match", len(local)),
			Passed:   true,
		}
	}

	var details []string
	if len(missing) > 0 {
		details = append(details, fmt.Sprintf("missing from remote: %s", listSome(missing)))
	}
	if len(extra) > 0 {
		details = append(details, fmt.Sprintf("extra in remote: %s", listSome(extra)))
	}
	return validation.Check{
		Name:     "id_set",
		Expected: "set-equal",
		Actual:   fmt.Sprintf("%d missing, %d extra", len(missing), len(extra)),
		Passed:   false,
		Details:  strings.Join(details, "; "),
	}
}

// checkSampleHashes recomputes content hashes for an evenly-spaced sample of
// remote rows. A sampled row absent from the local table is a soft warning
// only: the remote copy may legitimately be a superset snapshot.
func (v *Verifier) checkSampleHashes(ctx context.Context, numRows int) (validation.Check, error) {
	localByKey := make(map[Key]filetable.Row, v.local.Len())
	for _, row := range v.local.Rows() {
		localByKey[v.rowKey(row)] = row
	}
	blobColumns := v.schema.BlobColumns()

	step := 1
	if v.sampleSize > 0 && numRows > v.sampleSize {
		step = numRows / v.sampleSize
	}

	checked, sampled := 0, 0
	var mismatches []string

	for idx := 0; idx < numRows && sampled < v.sampleSize; idx += step {
		remoteRow, err := v.remote.Row(ctx, idx)
		if err != nil {
			return validation.Check{}, fmt.Errorf("fetching remote row %d: %w", idx, err)
		}
		sampled++

		localRow, ok := localByKey[remoteRow.Key]
		if !ok {
			log.Warnf("remote row %s not found in local table; possibly a superset snapshot", remoteRow.Key)
			continue
		}

		for _, col := range blobColumns {
			remoteBytes, ok := remoteRow.Blobs[col]
			if !ok {
				continue
			}
			localPath, ok := localRow[col].(string)
			if !ok {
				continue
			}

			localHash, err := v.hashLocalFile(localPath)
			if err != nil {
				mismatches = append(mismatches, fmt.Sprintf("%s %s (local read: %s)", remoteRow.Key, col, err))
				checked++
				continue
			}
			remoteSum := sha256.Sum256(remoteBytes)
			if localHash != hex.EncodeToString(remoteSum[:]) {
				mismatches = append(mismatches, fmt.Sprintf("%s %s", remoteRow.Key, col))
			}
			checked++
		}
	}

	if len(mismatches) > 0 {
		return validation.Check{
			Name:     "sample_hashes",
			Expected: "all sampled hashes match",
			Actual:   fmt.Sprintf("%d/%d mismatches", len(mismatches), checked),
			Passed:   false,
			Details:  listSome(mismatches),
		}, nil
	}
	return validation.Check{
		Name:     "sample_hashes",
		Expected: "all sampled hashes match",
		Actual:   fmt.Sprintf("%d hashes verified across %d rows", checked, sampled),
		Passed:   true,
	}, nil
}

// hashLocalFile streams a file through sha256 without buffering it whole.
func (v *Verifier) hashLocalFile(name string) (string, error) {
	f, err := v.fsys.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (v *Verifier) rowKey(row filetable.Row) Key {
	key := Key{Subject: cellString(row, "subject_id")}
	if slices.Contains(v.schema.Names(), "session_id") {
		key.Session = cellString(row, "session_id")
	}
	return key
}

func cellString(row filetable.Row, col string) string {
	s, _ := row[col].(string)
	return s
}

func listSome(items []string) string {
	const limit = 5
	if len(items) <= limit {
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("%s, … and %d more", strings.Join(items[:limit], ", "), len(items)-limit)
}
