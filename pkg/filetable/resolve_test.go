package filetable_test

import (
	"io/fs"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/The-Obstacle-Is-The-Way/bids-hub/pkg/filetable"
)

func writeFiles(t *testing.T, paths ...string) fs.FS {
	t.Helper()
	memFS := afero.NewMemMapFs()
	for _, p := range paths {
		require.NoError(t, afero.WriteFile(memFS, p, []byte("nifti bytes"), 0644))
	}
	return afero.NewIOFS(memFS)
}

func TestResolverFirst(t *testing.T) {
	t.Run("finds a direct match", func(t *testing.T) {
		fsys := writeFiles(t, "sub-01/ses-01/sub-01_ses-01_ncct.nii.gz")
		r := filetable.NewResolver(fsys)

		got, ok := r.First("sub-01/ses-01", "*_ncct.nii.gz")
		require.True(t, ok)
		assert.Equal(t, "sub-01/ses-01/sub-01_ses-01_ncct.nii.gz", got)
	})

	t.Run("does not descend into subdirectories", func(t *testing.T) {
		fsys := writeFiles(t, "sub-01/ses-01/perfusion-maps/sub-01_tmax.nii.gz")
		r := filetable.NewResolver(fsys)

		_, ok := r.First("sub-01/ses-01", "*_tmax.nii.gz")
		assert.False(t, ok)
	})

	t.Run("treats a missing directory as no match", func(t *testing.T) {
		fsys := writeFiles(t, "sub-01/a.nii.gz")
		r := filetable.NewResolver(fsys)

		_, ok := r.First("sub-99", "*.nii.gz")
		assert.False(t, ok)
	})
}

func TestResolverFirstRecursive(t *testing.T) {
	t.Run("finds a nested match", func(t *testing.T) {
		fsys := writeFiles(t, "sub-01/ses-02/anat/sub-01_ses-02_T1w.nii.gz")
		r := filetable.NewResolver(fsys)

		got, ok := r.FirstRecursive("sub-01", "*_T1w.nii.gz")
		require.True(t, ok)
		assert.Equal(t, "sub-01/ses-02/anat/sub-01_ses-02_T1w.nii.gz", got)
	})

	t.Run("finds a match at the top of the subtree", func(t *testing.T) {
		fsys := writeFiles(t, "sub-01/sub-01_T1w.nii.gz")
		r := filetable.NewResolver(fsys)

		got, ok := r.FirstRecursive("sub-01", "*_T1w.nii.gz")
		require.True(t, ok)
		assert.Equal(t, "sub-01/sub-01_T1w.nii.gz", got)
	})

	t.Run("breaks ties lexicographically by filename", func(t *testing.T) {
		fsys := writeFiles(t,
			"sub-01/ses-02/sub-01_ses-02_T1w.nii.gz",
			"sub-01/ses-01/sub-01_ses-01_T1w.nii.gz",
		)
		r := filetable.NewResolver(fsys)

		// Stable across repeated runs on identical input.
		for range 3 {
			got, ok := r.FirstRecursive("sub-01", "*_T1w.nii.gz")
			require.True(t, ok)
			assert.Equal(t, "sub-01/ses-01/sub-01_ses-01_T1w.nii.gz", got)
		}
	})
}
