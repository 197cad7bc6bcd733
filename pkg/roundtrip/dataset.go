// Package roundtrip verifies that a published remote copy of a dataset
// matches the local source tree: exact row count, set-equal identifiers, and
// matching content hashes for a deterministic sample of binary cells.
package roundtrip

import (
	"context"
	"iter"
)

// Key identifies a Logical Unit: a subject, optionally paired with a session.
type Key struct {
	Subject string
	Session string
}

func (k Key) String() string {
	if k.Session == "" {
		return k.Subject
	}
	return k.Subject + "/" + k.Session
}

// Row is one remote record: its key plus the raw bytes of its binary cells,
// undecoded, keyed by column name.
type Row struct {
	Key   Key
	Blobs map[string][]byte
}

// Dataset is a read handle on a remote copy. Implementations must stream:
// remote datasets run to hundreds of gigabytes and are never materialized in
// memory at once.
type Dataset interface {
	// NumRows returns the remote row count.
	NumRows(ctx context.Context) (int, error)
	// Keys yields every remote row key, in row order, without fetching
	// binary cells.
	Keys(ctx context.Context) iter.Seq2[Key, error]
	// Row fetches a single row by index, including raw binary cells.
	Row(ctx context.Context, index int) (Row, error)
}
