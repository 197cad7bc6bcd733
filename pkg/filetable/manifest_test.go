package filetable_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/The-Obstacle-Is-The-Way/bids-hub/pkg/filetable"
)

func TestReadManifest(t *testing.T) {
	t.Run("parses rows sorted by the key column", func(t *testing.T) {
		memFS := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(memFS, "participants.tsv",
			[]byte("participant_id\tage_at_stroke\tsex\nsub-M2003\t61\tM\nsub-M2001\t54.5\tF\n"), 0644))

		m, err := filetable.ReadManifest(afero.NewIOFS(memFS), "participants.tsv")
		require.NoError(t, err)

		assert.Equal(t, []string{"participant_id", "age_at_stroke", "sex"}, m.Columns())
		require.Equal(t, 2, m.Len())
		assert.Equal(t, "sub-M2001", m.Rows()[0]["participant_id"])
		assert.Equal(t, "sub-M2003", m.Rows()[1]["participant_id"])
	})

	t.Run("missing manifest is a typed error", func(t *testing.T) {
		_, err := filetable.ReadManifest(afero.NewIOFS(afero.NewMemMapFs()), "participants.tsv")
		require.Error(t, err)
		assert.ErrorAs(t, err, &filetable.ErrManifestNotFound{})
	})

	t.Run("tolerates ragged rows", func(t *testing.T) {
		memFS := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(memFS, "participants.tsv",
			[]byte("participant_id\tsex\nsub-M2001\n"), 0644))

		m, err := filetable.ReadManifest(afero.NewIOFS(memFS), "participants.tsv")
		require.NoError(t, err)
		require.Equal(t, 1, m.Len())
		assert.Nil(t, filetable.TextCell(m.Rows()[0], "sex"))
	})
}

func TestCells(t *testing.T) {
	row := map[string]string{"age": "54.5", "sex": "F", "wab_aq": "n/a", "wab_type": "Broca"}

	assert.Equal(t, 54.5, filetable.NumericCell(row, "age"))
	assert.Equal(t, "F", filetable.TextCell(row, "sex"))
	assert.Nil(t, filetable.NumericCell(row, "wab_aq"))
	assert.Equal(t, "Broca", filetable.TextCell(row, "wab_type"))
	assert.Nil(t, filetable.NumericCell(row, "wab_type"), "unparsable numerics become null, never errors")
	assert.Nil(t, filetable.TextCell(row, "missing"))
}
