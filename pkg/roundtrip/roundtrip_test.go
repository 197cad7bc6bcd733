package roundtrip

import (
	"context"
	"fmt"
	"io/fs"
	"iter"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/The-Obstacle-Is-The-Way/bids-hub/pkg/filetable"
	"github.com/The-Obstacle-Is-The-Way/bids-hub/pkg/validation"
)

// fakeDataset serves rows from memory, optionally failing on demand.
type fakeDataset struct {
	rows       []Row
	numRowsErr error
	rowErr     error
}

func (d *fakeDataset) NumRows(ctx context.Context) (int, error) {
	if d.numRowsErr != nil {
		return 0, d.numRowsErr
	}
	return len(d.rows), nil
}

func (d *fakeDataset) Keys(ctx context.Context) iter.Seq2[Key, error] {
	return func(yield func(Key, error) bool) {
		for _, row := range d.rows {
			if !yield(row.Key, nil) {
				return
			}
		}
	}
}

func (d *fakeDataset) Row(ctx context.Context, index int) (Row, error) {
	if d.rowErr != nil {
		return Row{}, d.rowErr
	}
	if index < 0 || index >= len(d.rows) {
		return Row{}, fmt.Errorf("row %d out of range", index)
	}
	return d.rows[index], nil
}

var testSchema = filetable.Schema{
	{Name: "subject_id", Kind: filetable.KindText},
	{Name: "t1w", Kind: filetable.KindBlob},
}

// fixture writes one file per subject and returns a matching local table and
// remote dataset holding the same bytes.
func fixture(t *testing.T, subjects ...string) (fs.FS, *filetable.Table, *fakeDataset) {
	t.Helper()
	memFS := afero.NewMemMapFs()
	table := filetable.New(testSchema.Names()...)
	remote := &fakeDataset{}

	for _, sub := range subjects {
		path := fmt.Sprintf("data/%s/anat/%s_T1w.nii.gz", sub, sub)
		content := []byte("scan bytes for " + sub)
		require.NoError(t, afero.WriteFile(memFS, path, content, 0o644))
		table.Append(filetable.Row{"subject_id": sub, "t1w": path})
		remote.rows = append(remote.rows, Row{
			Key:   Key{Subject: sub},
			Blobs: map[string][]byte{"t1w": content},
		})
	}
	return afero.NewIOFS(memFS), table, remote
}

func findCheck(t *testing.T, report *validation.Report, name string) validation.Check {
	t.Helper()
	for _, c := range report.Checks() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("check %q not found", name)
	return validation.Check{}
}

func TestVerifyAllMatch(t *testing.T) {
	fsys, table, remote := fixture(t, "sub-001", "sub-002", "sub-003")

	v := NewVerifier(fsys, "data", table, testSchema, remote)
	report, err := v.Verify(context.Background())
	require.NoError(t, err)
	assert.True(t, report.AllPassed(), report.Summary())
	assert.Len(t, report.Checks(), 3)
}

func TestVerifyMissingRemoteKey(t *testing.T) {
	fsys, table, remote := fixture(t, "sub-001", "sub-002", "sub-003")
	// Drop sub-003 from the remote side.
	remote.rows = remote.rows[:2]

	v := NewVerifier(fsys, "data", table, testSchema, remote)
	report, err := v.Verify(context.Background())
	require.NoError(t, err)
	assert.False(t, report.AllPassed())

	idSet := findCheck(t, report, "id_set")
	assert.False(t, idSet.Passed)
	assert.Contains(t, idSet.Details, "missing from remote: sub-003")
	assert.False(t, findCheck(t, report, "record_count").Passed)
}

func TestVerifyExtraRemoteKey(t *testing.T) {
	fsys, table, remote := fixture(t, "sub-001", "sub-002")
	remote.rows = append(remote.rows, Row{Key: Key{Subject: "sub-099"}})

	v := NewVerifier(fsys, "data", table, testSchema, remote)
	report, err := v.Verify(context.Background())
	require.NoError(t, err)

	idSet := findCheck(t, report, "id_set")
	assert.False(t, idSet.Passed)
	assert.Contains(t, idSet.Details, "extra in remote: sub-099")
}

func TestVerifyHashMismatch(t *testing.T) {
	fsys, table, remote := fixture(t, "sub-001", "sub-002", "sub-003")
	// Flip one byte in one remote blob.
	remote.rows[1].Blobs["t1w"][0] ^= 0xff

	v := NewVerifier(fsys, "data", table, testSchema, remote)
	report, err := v.Verify(context.Background())
	require.NoError(t, err)
	assert.False(t, report.AllPassed())

	hashes := findCheck(t, report, "sample_hashes")
	assert.False(t, hashes.Passed)
	assert.Contains(t, hashes.Details, "sub-002 t1w")
}

func TestVerifyRemoteOnlyRowIsSoftWarning(t *testing.T) {
	fsys, table, remote := fixture(t, "sub-001", "sub-002")
	// Rows with no local counterpart are skipped, not failed.
	remote.rows = append(remote.rows, Row{
		Key:   Key{Subject: "sub-099"},
		Blobs: map[string][]byte{"t1w": []byte("unknown")},
	})

	v := NewVerifier(fsys, "data", table, testSchema, remote)
	report, err := v.Verify(context.Background())
	require.NoError(t, err)

	hashes := findCheck(t, report, "sample_hashes")
	assert.True(t, hashes.Passed, hashes.Details)
}

func TestVerifyRemoteLoadFailure(t *testing.T) {
	fsys, table, remote := fixture(t, "sub-001")
	remote.numRowsErr = fmt.Errorf("gateway timeout")

	v := NewVerifier(fsys, "data", table, testSchema, remote)
	_, err := v.Verify(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "loading remote dataset")
}

func TestVerifyRemoteRowFetchFailure(t *testing.T) {
	fsys, table, remote := fixture(t, "sub-001", "sub-002")
	remote.rowErr = fmt.Errorf("connection reset")

	v := NewVerifier(fsys, "data", table, testSchema, remote)
	_, err := v.Verify(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "fetching remote row")
}

func TestVerifySampleSizeOption(t *testing.T) {
	fsys, table, remote := fixture(t, "sub-001", "sub-002", "sub-003", "sub-004")

	v := NewVerifier(fsys, "data", table, testSchema, remote, WithSampleSize(2))
	report, err := v.Verify(context.Background())
	require.NoError(t, err)
	assert.True(t, report.AllPassed(), report.Summary())
}
