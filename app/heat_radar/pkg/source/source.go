package source

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/model"
)

// Source fetches one analysis snapshot for a city.
type Source interface {
	Fetch(ctx context.Context, city string) (*model.Analysis, error)
}

// FetchError is the single failure type the adapter surfaces: connectivity,
// HTTP status and parse problems all collapse into it. Status is zero when
// no HTTP response was received.
type FetchError struct {
	Status int
	Msg    string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("analysis fetch failed (status %d): %s", e.Status, e.Msg)
	}
	return fmt.Sprintf("analysis fetch failed: %s", e.Msg)
}

func (e *FetchError) Unwrap() error { return e.Err }

// wire structures of the upstream GeoJSON-shaped payload.
type analysisPayload struct {
	City     string         `json:"city"`
	Features []feature      `json:"features"`
	Rankings model.Rankings `json:"rankings"`
}

type feature struct {
	Properties model.LocalityRecord `json:"properties"`
}

// Decode parses an analysis payload and flattens features[].properties into
// a plain record sequence. Rankings pass through unchanged.
func Decode(data []byte) (*model.Analysis, error) {
	var payload analysisPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode analysis payload: %w", err)
	}
	records := make([]model.LocalityRecord, 0, len(payload.Features))
	for _, f := range payload.Features {
		records = append(records, f.Properties)
	}
	return &model.Analysis{
		City:     payload.City,
		Records:  records,
		Rankings: payload.Rankings,
	}, nil
}
