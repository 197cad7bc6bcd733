package arc

import "github.com/The-Obstacle-Is-The-Way/bids-hub/pkg/validation"

// ExpectedSessions is the session count published for ds004884 (Gibson et
// al., 2024).
const ExpectedSessions = 902

// Expectations returns the structural profile a downloaded ARC tree is
// validated against. Series counts come from the Sci Data paper
// (doi:10.1038/s41597-024-03819-7).
func Expectations() validation.Expectations {
	return validation.Expectations{
		RequiredFiles: []string{
			"dataset_description.json",
			"participants.tsv",
			"participants.json",
		},
		SubjectGlob:  "sub-*",
		Subjects:     230,
		ManifestPath: manifestName,
		Series: []validation.SeriesCount{
			{Name: "t1w", Pattern: "sub-*/**/" + t1wPattern, Expected: 441},
			{Name: "t2w", Pattern: "sub-*/**/" + t2wPattern, Expected: 447},
			{Name: "flair", Pattern: "sub-*/**/*_FLAIR.nii.gz", Expected: 235},
			{Name: "lesion", Pattern: lesionTree + "/**/" + lesionPattern, Expected: 230},
		},
		SeriesTolerance: 0.10,
		SampleGlob:      "sub-*/**/" + t1wPattern,
		SampleSize:      10,
	}
}
