// Package isles24 builds the file table for the ISLES'24 stroke dataset
// (Zenodo record 17652035, v7): multimodal acute CT plus follow-up MRI for 149
// subjects, flattened to one row per subject with the acute admission (ses-01)
// and follow-up (ses-02) in the same row.
//
// ISLES'24 is directory-driven: the unit set is the sub-* directories found
// under raw_data/ (note the underscore). Subjects without a raw_data directory
// produce no row at all, the opposite of ARC's manifest-driven retention.
package isles24

import (
	"io/fs"
	"path"

	"github.com/The-Obstacle-Is-The-Way/bids-hub/pkg/filetable"
)

const (
	rawTree       = "raw_data"
	derivTree     = "derivatives"
	phenotypeTree = "phenotype"
)

// Phenotype side-files use free-form clinical headers; these specs pin the
// extraction to an explicit ordered (field, matcher, type) list.
var phenotypeFields = []filetable.FieldSpec{
	{Name: "age", Match: "age", Type: filetable.FieldNumeric},
	{Name: "sex", Match: "sex", Type: filetable.FieldText},
	{Name: "nihss_admission", Match: "nihss", Type: filetable.FieldNumeric},
	{Name: "mrs_3month", Match: "mrs", Type: filetable.FieldNumeric},
	{Name: "thrombolysis", Match: "thrombolysis", Type: filetable.FieldText},
	{Name: "thrombectomy", Match: "thrombectomy", Type: filetable.FieldText},
}

// Schema returns the target column set for the flattened ISLES'24 table.
func Schema() filetable.Schema {
	return filetable.Schema{
		{Name: "subject_id", Kind: filetable.KindText},
		// Acute raw (ses-01)
		{Name: "ncct", Kind: filetable.KindBlob},
		{Name: "cta", Kind: filetable.KindBlob},
		{Name: "ctp", Kind: filetable.KindBlob},
		// Perfusion maps (derivatives, NCCT space)
		{Name: "tmax", Kind: filetable.KindBlob},
		{Name: "mtt", Kind: filetable.KindBlob},
		{Name: "cbf", Kind: filetable.KindBlob},
		{Name: "cbv", Kind: filetable.KindBlob},
		// Follow-up (ses-02, derivatives)
		{Name: "dwi", Kind: filetable.KindBlob},
		{Name: "adc", Kind: filetable.KindBlob},
		// Masks
		{Name: "lesion_mask", Kind: filetable.KindBlob},
		{Name: "lvo_mask", Kind: filetable.KindBlob},
		{Name: "cow_segmentation", Kind: filetable.KindBlob},
		// Clinical metadata
		{Name: "age", Kind: filetable.KindNumeric},
		{Name: "sex", Kind: filetable.KindText},
		{Name: "nihss_admission", Kind: filetable.KindNumeric},
		{Name: "mrs_3month", Kind: filetable.KindNumeric},
		{Name: "thrombolysis", Kind: filetable.KindText},
		{Name: "thrombectomy", Kind: filetable.KindText},
	}
}

// BuildFileTable builds the flattened ISLES'24 file table, one row per
// raw_data subject directory, in sorted order. The cta and ctp columns prefer
// the raw ses-01 file and fall back to the NCCT-space derivative when the raw
// file is absent.
func BuildFileTable(fsys fs.FS, root string) (*filetable.Table, error) {
	if err := filetable.CheckRoot(fsys, root); err != nil {
		return nil, err
	}

	rawRoot := path.Join(root, rawTree)
	if info, err := fs.Stat(fsys, rawRoot); err != nil || !info.IsDir() {
		return nil, filetable.ErrTreeNotFound{Path: rawRoot}
	}

	r := filetable.NewResolver(fsys)
	table := filetable.New(Schema().Names()...)

	for _, subjectID := range subjectIDs(fsys, rawRoot) {
		ses01Raw := path.Join(rawRoot, subjectID, "ses-01")

		ncct := ref(r.First(ses01Raw, "*_ncct.nii.gz"))
		cta := ref(r.First(ses01Raw, "*_cta.nii.gz"))
		ctp := ref(r.First(ses01Raw, "*_ctp.nii.gz"))

		// NCCT-space registered derivatives. Raw perfusion maps also exist
		// under ses-01/perfusion-maps, but the registered versions win.
		ses01Deriv := path.Join(root, derivTree, subjectID, "ses-01")
		ses02Deriv := path.Join(root, derivTree, subjectID, "ses-02")
		perfDir := path.Join(ses01Deriv, "perfusion-maps")

		if cta == nil {
			cta = ref(r.First(ses01Deriv, "*_space-ncct_cta.nii.gz"))
		}
		if ctp == nil {
			ctp = ref(r.First(ses01Deriv, "*_space-ncct_ctp.nii.gz"))
		}

		row := filetable.Row{
			"subject_id":       subjectID,
			"ncct":             ncct,
			"cta":              cta,
			"ctp":              ctp,
			"tmax":             ref(r.First(perfDir, "*_space-ncct_tmax.nii.gz")),
			"mtt":              ref(r.First(perfDir, "*_space-ncct_mtt.nii.gz")),
			"cbf":              ref(r.First(perfDir, "*_space-ncct_cbf.nii.gz")),
			"cbv":              ref(r.First(perfDir, "*_space-ncct_cbv.nii.gz")),
			"dwi":              ref(r.First(ses02Deriv, "*_space-ncct_dwi.nii.gz")),
			"adc":              ref(r.First(ses02Deriv, "*_space-ncct_adc.nii.gz")),
			"lesion_mask":      ref(r.First(ses02Deriv, "*_space-ncct_lesion-msk.nii.gz")),
			"lvo_mask":         ref(r.First(ses01Deriv, "*_space-ncct_lvo-msk.nii.gz")),
			"cow_segmentation": ref(r.First(ses01Deriv, "*_space-ncct_cow-msk.nii.gz")),
		}

		pheno := filetable.ReadSidecarFields(fsys, path.Join(root, phenotypeTree, subjectID), phenotypeFields)
		for name, v := range pheno {
			row[name] = v
		}

		table.Append(row)
	}
	return table, nil
}

// subjectIDs lists the sub-* directories under rawRoot in sorted order.
func subjectIDs(fsys fs.FS, rawRoot string) []string {
	entries, err := fs.ReadDir(fsys, rawRoot)
	if err != nil {
		return nil
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() && len(e.Name()) > 4 && e.Name()[:4] == "sub-" {
			ids = append(ids, e.Name())
		}
	}
	return ids
}

func ref(p string, ok bool) any {
	if !ok {
		return nil
	}
	return p
}
