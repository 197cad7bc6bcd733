// Package filetable builds row-per-unit tables from BIDS directory trees: it
// resolves imaging file references by glob pattern, extracts scalar metadata
// from tabular side-files, and conforms the result to a declared schema.
package filetable

import (
	"io/fs"
	"path"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("filetable")

// Resolver finds imaging files under a dataset tree by glob pattern.
//
// Resolution is deterministic: when multiple files match, candidates are
// ordered by base name first (lexicographic), then by full path, and the first
// is returned. A missing base directory is treated identically to "no match":
// partial datasets produce partial rows rather than failing.
type Resolver struct {
	fsys fs.FS
}

// NewResolver returns a Resolver over the given filesystem.
func NewResolver(fsys fs.FS) Resolver {
	return Resolver{fsys: fsys}
}

// First returns the path of the first file directly inside dir whose name
// matches pattern, or ok=false if dir does not exist or nothing matches.
func (r Resolver) First(dir, pattern string) (string, bool) {
	return r.resolve(dir, pattern)
}

// FirstRecursive is like First but searches the whole subtree under dir.
func (r Resolver) FirstRecursive(dir, pattern string) (string, bool) {
	return r.resolve(dir, path.Join("**", pattern))
}

func (r Resolver) resolve(dir, pattern string) (string, bool) {
	dir = path.Clean(dir)
	if info, err := fs.Stat(r.fsys, dir); err != nil || !info.IsDir() {
		return "", false
	}

	matches, err := doublestar.Glob(r.fsys, path.Join(dir, pattern), doublestar.WithFilesOnly())
	if err != nil {
		log.Debugf("globbing %s under %s: %s", pattern, dir, err)
		return "", false
	}
	if len(matches) == 0 {
		return "", false
	}

	sort.Slice(matches, func(i, j int) bool {
		bi, bj := path.Base(matches[i]), path.Base(matches[j])
		if bi != bj {
			return bi < bj
		}
		return matches[i] < matches[j]
	})
	return matches[0], true
}
