package results

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/joseph-ayodele/papers-tracker/internal/entity"
	"github.com/joseph-ayodele/papers-tracker/internal/schema"
)

// DecodeSearchPayload reads a search API response. Both a bare array of
// results and the {"status": "success", "data": [...]} envelope are accepted.
func DecodeSearchPayload(raw []byte) ([]entity.SearchResult, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := schema.Validate(schema.SearchResults(), trimmed); err != nil {
			return nil, err
		}
		var out []entity.SearchResult
		if err := json.Unmarshal(trimmed, &out); err != nil {
			return nil, fmt.Errorf("decode search results: %w", err)
		}
		return out, nil
	}

	if err := schema.Validate(schema.SearchEnvelope(), trimmed); err != nil {
		return nil, err
	}
	var env struct {
		Data []entity.SearchResult `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("decode search envelope: %w", err)
	}
	return env.Data, nil
}
