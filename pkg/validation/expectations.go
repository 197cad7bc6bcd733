package validation

// SeriesCount declares an expected file count for one imaging modality. The
// Pattern is a doublestar glob evaluated against the tree root.
type SeriesCount struct {
	Name     string
	Pattern  string
	Expected int
}

// Expectations is the immutable table of structural facts a downloaded tree is
// validated against. Each dataset variant supplies its own instance; nothing
// here is process-global, so two variants never interfere.
type Expectations struct {
	// RequiredFiles and RequiredDirs must exist at the tree root.
	RequiredFiles []string
	RequiredDirs  []string

	// SubjectGlob patterns the unit directories (e.g. "sub-*" or
	// "raw_data/sub-*"); their count must reach the tolerance-banded floor
	// of Subjects. A surplus never fails: the tree may be a superset.
	SubjectGlob string
	Subjects    int

	// ManifestPath, when set, names a metadata index whose row count must be
	// at least the number of unit directories.
	ManifestPath string

	// Series counts pass when observed >= expected * (1 - SeriesTolerance).
	// Downloads are frequently partial; an exact match is never required.
	Series          []SeriesCount
	SeriesTolerance float64

	// SampleGlob selects the binary artifacts eligible for the sampled
	// integrity check; SampleSize of them are probed.
	SampleGlob string
	SampleSize int

	// ArchiveMD5 is the known-good checksum for the source archive, used by
	// the large-archive verification mode.
	ArchiveMD5 string
}
