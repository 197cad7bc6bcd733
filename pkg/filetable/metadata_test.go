package filetable_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/The-Obstacle-Is-The-Way/bids-hub/pkg/filetable"
)

var phenoSpecs = []filetable.FieldSpec{
	{Name: "age", Match: "age", Type: filetable.FieldNumeric},
	{Name: "sex", Match: "sex", Type: filetable.FieldText},
	{Name: "nihss_admission", Match: "nihss", Type: filetable.FieldNumeric},
}

func TestReadSidecarFields(t *testing.T) {
	t.Run("extracts fields by fuzzy header match", func(t *testing.T) {
		memFS := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(memFS, "pheno/sub-01/ses-01/clinical.csv",
			[]byte("Age at admission,Sex,NIHSS score\n67,F,12\n"), 0644))

		rec := filetable.ReadSidecarFields(afero.NewIOFS(memFS), "pheno/sub-01", phenoSpecs)
		assert.Equal(t, 67.0, rec["age"])
		assert.Equal(t, "F", rec["sex"])
		assert.Equal(t, 12.0, rec["nihss_admission"])
	})

	t.Run("first matching file wins", func(t *testing.T) {
		memFS := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(memFS, "pheno/ses-01/a.csv",
			[]byte("age\n55\n"), 0644))
		require.NoError(t, afero.WriteFile(memFS, "pheno/ses-02/b.csv",
			[]byte("age\n99\n"), 0644))

		rec := filetable.ReadSidecarFields(afero.NewIOFS(memFS), "pheno", phenoSpecs)
		assert.Equal(t, 55.0, rec["age"])
	})

	t.Run("coercion failure falls through to the next candidate", func(t *testing.T) {
		memFS := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(memFS, "pheno/clinical.csv",
			[]byte("age group,age\nelderly,72\n"), 0644))

		rec := filetable.ReadSidecarFields(afero.NewIOFS(memFS), "pheno", phenoSpecs)
		assert.Equal(t, 72.0, rec["age"])
	})

	t.Run("n/a cells stay null", func(t *testing.T) {
		memFS := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(memFS, "pheno/clinical.csv",
			[]byte("age,sex\nn/a,M\n"), 0644))

		rec := filetable.ReadSidecarFields(afero.NewIOFS(memFS), "pheno", phenoSpecs)
		assert.Nil(t, rec["age"])
		assert.Equal(t, "M", rec["sex"])
	})

	t.Run("a corrupt side-file never aborts extraction", func(t *testing.T) {
		memFS := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(memFS, "pheno/00-broken.csv",
			[]byte("\"unterminated\n"), 0644))
		require.NoError(t, afero.WriteFile(memFS, "pheno/01-good.csv",
			[]byte("sex\nF\n"), 0644))

		rec := filetable.ReadSidecarFields(afero.NewIOFS(memFS), "pheno", phenoSpecs)
		assert.Equal(t, "F", rec["sex"])
		assert.Nil(t, rec["age"])
	})

	t.Run("missing directory yields all-null record", func(t *testing.T) {
		rec := filetable.ReadSidecarFields(afero.NewIOFS(afero.NewMemMapFs()), "pheno/sub-42", phenoSpecs)
		require.Len(t, rec, len(phenoSpecs))
		for name, v := range rec {
			assert.Nil(t, v, "field %s", name)
		}
	})
}
