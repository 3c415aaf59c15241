// Package snapfile serves a saved analysis payload from disk, for offline
// report generation and demos.
package snapfile

import (
	"context"
	"os"

	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/model"
	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/source"
)

// Source reads one JSON snapshot file per fetch.
type Source struct {
	path string
}

// New creates a file-backed source.
func New(path string) *Source {
	return &Source{path: path}
}

// Ensure Source implements source.Source
var _ source.Source = (*Source)(nil)

// Fetch implements source.Source. The city argument is accepted for
// interface parity; the snapshot decides its own city name.
func (s *Source) Fetch(ctx context.Context, city string) (*model.Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &source.FetchError{Msg: "read snapshot file failed", Err: err}
	}
	analysis, err := source.Decode(data)
	if err != nil {
		return nil, &source.FetchError{Msg: "malformed snapshot file", Err: err}
	}
	if analysis.City == "" {
		analysis.City = city
	}
	return analysis, nil
}
