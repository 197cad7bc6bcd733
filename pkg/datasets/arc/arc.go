// Package arc builds file tables for the Aphasia Recovery Cohort dataset
// (OpenNeuro ds004884): structural MRI and expert-drawn lesion masks for 230
// chronic stroke patients across 902 longitudinal sessions, with demographics
// and Western Aphasia Battery scores in participants.tsv.
//
// ARC is manifest-driven: the unit set is exactly the participants.tsv entries.
// Subjects listed there with no imaging on disk are retained with all-null
// file columns.
package arc

import (
	"io/fs"
	"path"
	"strings"

	"github.com/The-Obstacle-Is-The-Way/bids-hub/pkg/filetable"
)

const (
	manifestName  = "participants.tsv"
	lesionTree    = "derivatives/lesion_masks"
	t1wPattern    = "*_T1w.nii.gz"
	t2wPattern    = "*_T2w.nii.gz"
	lesionPattern = "*_desc-lesion_mask.nii.gz"
)

// Schema returns the target column set for the per-subject ARC table.
func Schema() filetable.Schema {
	return filetable.Schema{
		{Name: "subject_id", Kind: filetable.KindText},
		{Name: "t1w", Kind: filetable.KindBlob},
		{Name: "t2w", Kind: filetable.KindBlob},
		{Name: "lesion", Kind: filetable.KindBlob},
		{Name: "age_at_stroke", Kind: filetable.KindNumeric},
		{Name: "sex", Kind: filetable.KindText},
		{Name: "wab_aq", Kind: filetable.KindNumeric},
		{Name: "wab_type", Kind: filetable.KindText},
	}
}

// SessionSchema returns the target column set for the per-session ARC table.
func SessionSchema() filetable.Schema {
	return filetable.Schema{
		{Name: "subject_id", Kind: filetable.KindText},
		{Name: "session_id", Kind: filetable.KindText},
		{Name: "t1w", Kind: filetable.KindBlob},
		{Name: "t2w", Kind: filetable.KindBlob},
		{Name: "lesion", Kind: filetable.KindBlob},
		{Name: "age_at_stroke", Kind: filetable.KindNumeric},
		{Name: "sex", Kind: filetable.KindText},
		{Name: "wab_aq", Kind: filetable.KindNumeric},
		{Name: "wab_type", Kind: filetable.KindText},
	}
}

// BuildFileTable builds the per-subject ARC file table: one row per
// participants.tsv entry, T1w/T2w resolved anywhere under the subject's
// directory, the lesion mask under the lesion_masks derivatives tree.
func BuildFileTable(fsys fs.FS, root string) (*filetable.Table, error) {
	if err := filetable.CheckRoot(fsys, root); err != nil {
		return nil, err
	}
	manifest, err := filetable.ReadManifest(fsys, path.Join(root, manifestName))
	if err != nil {
		return nil, err
	}

	r := filetable.NewResolver(fsys)
	table := filetable.New(Schema().Names()...)

	for _, row := range manifest.Rows() {
		subjectID := row["participant_id"]
		subjectDir := path.Join(root, subjectID)
		lesionDir := path.Join(root, lesionTree, subjectID)

		table.Append(filetable.Row{
			"subject_id":    subjectID,
			"t1w":           ref(r.FirstRecursive(subjectDir, t1wPattern)),
			"t2w":           ref(r.FirstRecursive(subjectDir, t2wPattern)),
			"lesion":        ref(r.FirstRecursive(lesionDir, lesionPattern)),
			"age_at_stroke": filetable.NumericCell(row, "age_at_stroke"),
			"sex":           filetable.TextCell(row, "sex"),
			"wab_aq":        filetable.NumericCell(row, "wab_aq"),
			"wab_type":      filetable.TextCell(row, "wab_type"),
		})
	}
	return table, nil
}

// BuildSessionTable builds the per-session ARC file table: one row per
// discovered sub-*/ses-* pair, in sorted order. Subjects without any session
// directory contribute no rows here, unlike the per-subject table; the two
// variants deliberately diverge on unit inclusion.
func BuildSessionTable(fsys fs.FS, root string) (*filetable.Table, error) {
	if err := filetable.CheckRoot(fsys, root); err != nil {
		return nil, err
	}
	manifest, err := filetable.ReadManifest(fsys, path.Join(root, manifestName))
	if err != nil {
		return nil, err
	}

	r := filetable.NewResolver(fsys)
	table := filetable.New(SessionSchema().Names()...)

	for _, row := range manifest.Rows() {
		subjectID := row["participant_id"]
		subjectDir := path.Join(root, subjectID)

		for _, sessionID := range sessionIDs(fsys, subjectDir) {
			sessionDir := path.Join(subjectDir, sessionID)
			lesionDir := path.Join(root, lesionTree, subjectID, sessionID)

			table.Append(filetable.Row{
				"subject_id":    subjectID,
				"session_id":    sessionID,
				"t1w":           ref(r.FirstRecursive(sessionDir, t1wPattern)),
				"t2w":           ref(r.FirstRecursive(sessionDir, t2wPattern)),
				"lesion":        ref(r.FirstRecursive(lesionDir, lesionPattern)),
				"age_at_stroke": filetable.NumericCell(row, "age_at_stroke"),
				"sex":           filetable.TextCell(row, "sex"),
				"wab_aq":        filetable.NumericCell(row, "wab_aq"),
				"wab_type":      filetable.TextCell(row, "wab_type"),
			})
		}
	}
	return table, nil
}

// sessionIDs lists the ses-* directories under subjectDir in sorted order. A
// missing subject directory is a per-row data gap, not an error.
func sessionIDs(fsys fs.FS, subjectDir string) []string {
	entries, err := fs.ReadDir(fsys, subjectDir)
	if err != nil {
		return nil
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), "ses-") {
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
