package isles24

import "github.com/The-Obstacle-Is-The-Way/bids-hub/pkg/validation"

// ArchiveMD5 is the published checksum for the Zenodo v7 train.7z archive.
const ArchiveMD5 = "4959a5dd2438d53e3c86d6858484e781"

// Expectations returns the structural profile a downloaded ISLES'24 extraction
// is validated against. Modality counts are approximate per the Zenodo v7
// record: some modalities are optional (CTP ~94%, LVO/CoW ~67% of subjects).
func Expectations() validation.Expectations {
	return validation.Expectations{
		RequiredDirs: []string{rawTree, derivTree, phenotypeTree},
		SubjectGlob:  rawTree + "/sub-*",
		Subjects:     149,
		Series: []validation.SeriesCount{
			{Name: "ncct", Pattern: rawTree + "/sub-*/ses-01/*_ncct.nii.gz", Expected: 149},
			{Name: "cta", Pattern: rawTree + "/sub-*/ses-01/*_cta.nii.gz", Expected: 149},
			{Name: "tmax", Pattern: derivTree + "/sub-*/ses-01/perfusion-maps/*_space-ncct_tmax.nii.gz", Expected: 140},
			{Name: "dwi", Pattern: derivTree + "/sub-*/ses-02/*_space-ncct_dwi.nii.gz", Expected: 149},
			{Name: "lesion", Pattern: derivTree + "/sub-*/ses-02/*_space-ncct_lesion-msk.nii.gz", Expected: 149},
			{Name: "lvo", Pattern: derivTree + "/sub-*/ses-01/*_space-ncct_lvo-msk.nii.gz", Expected: 100},
		},
		SeriesTolerance: 0.10,
		SampleGlob:      derivTree + "/sub-*/ses-01/*_space-ncct_cta.nii.gz",
		SampleSize:      10,
		ArchiveMD5:      ArchiveMD5,
	}
}
