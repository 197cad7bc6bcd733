// Package hub implements roundtrip.Dataset over the dataset-server rows API:
// a paged HTTP interface exposing a split's row count, per-row scalar cells,
// and per-row binary cells as base64-encoded raw bytes.
//
// Transient failures propagate to the caller as hard errors; there is no
// retry or backoff layer here.
package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"net/http"
	"net/url"

	"github.com/The-Obstacle-Is-The-Way/bids-hub/pkg/roundtrip"
)

const defaultPageSize = 100

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// Client talks to one dataset-server endpoint.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient creates a Client for the given endpoint base URL.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{endpoint: endpoint, http: http.DefaultClient}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dataset returns a handle on one repository split.
func (c *Client) Dataset(repo, split string) *Dataset {
	return &Dataset{client: c, repo: repo, split: split, pageSize: defaultPageSize}
}

// Dataset is a streaming read handle on a remote repository split.
type Dataset struct {
	client   *Client
	repo     string
	split    string
	pageSize int
}

var _ roundtrip.Dataset = (*Dataset)(nil)

type infoResponse struct {
	NumRows int `json:"num_rows"`
}

type rowsResponse struct {
	NumRowsTotal int `json:"num_rows_total"`
	Rows         []struct {
		RowIdx int                        `json:"row_idx"`
		Row    map[string]json.RawMessage `json:"row"`
	} `json:"rows"`
}

// blobCell is the wire shape of a binary cell: raw bytes plus the source path
// they were embedded from.
type blobCell struct {
	Bytes []byte `json:"bytes"` // base64 on the wire
	Path  string `json:"path"`
}

// NumRows returns the split's row count.
func (d *Dataset) NumRows(ctx context.Context) (int, error) {
	var info infoResponse
	if err := d.client.get(ctx, "/info", d.query(nil), &info); err != nil {
		return 0, err
	}
	return info.NumRows, nil
}

// Keys yields every row key in row order. Only the identifier columns are
// requested, so paging through a multi-hundred-gigabyte split stays cheap.
func (d *Dataset) Keys(ctx context.Context) iter.Seq2[roundtrip.Key, error] {
	return func(yield func(roundtrip.Key, error) bool) {
		for offset := 0; ; offset += d.pageSize {
			var page rowsResponse
			q := d.query(url.Values{"columns": {"subject_id,session_id"}})
			q.Set("offset", fmt.Sprintf("%d", offset))
			q.Set("length", fmt.Sprintf("%d", d.pageSize))
			if err := d.client.get(ctx, "/rows", q, &page); err != nil {
				yield(roundtrip.Key{}, err)
				return
			}
			if len(page.Rows) == 0 {
				return
			}
			for _, row := range page.Rows {
				if !yield(decodeKey(row.Row), nil) {
					return
				}
			}
			if offset+len(page.Rows) >= page.NumRowsTotal {
				return
			}
		}
	}
}

// Row fetches one full row, decoding binary cells to raw bytes.
func (d *Dataset) Row(ctx context.Context, index int) (roundtrip.Row, error) {
	var page rowsResponse
	q := d.query(nil)
	q.Set("offset", fmt.Sprintf("%d", index))
	q.Set("length", "1")
	if err := d.client.get(ctx, "/rows", q, &page); err != nil {
		return roundtrip.Row{}, err
	}
	if len(page.Rows) == 0 {
		return roundtrip.Row{}, fmt.Errorf("row %d not found in %s", index, d.repo)
	}

	raw := page.Rows[0].Row
	row := roundtrip.Row{Key: decodeKey(raw), Blobs: map[string][]byte{}}
	for col, cell := range raw {
		var blob blobCell
		if err := json.Unmarshal(cell, &blob); err == nil && blob.Bytes != nil {
			row.Blobs[col] = blob.Bytes
		}
	}
	return row, nil
}

func (d *Dataset) query(extra url.Values) url.Values {
	q := url.Values{
		"dataset": {d.repo},
		"config":  {"default"},
		"split":   {d.split},
	}
	for k, vs := range extra {
		q[k] = vs
	}
	return q
}

func decodeKey(raw map[string]json.RawMessage) roundtrip.Key {
	var key roundtrip.Key
	json.Unmarshal(raw["subject_id"], &key.Subject)
	json.Unmarshal(raw["session_id"], &key.Session)
	return key
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.endpoint + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", path, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("requesting %s: unexpected status %s", path, res.Status)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}
