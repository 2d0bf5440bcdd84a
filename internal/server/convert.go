package server

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/papers-tracker/internal/common"
)

// toStruct converts a JSON-tagged Go value into a Struct.
func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal response: %v", common.ErrInternal, err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, fmt.Errorf("%w: build response: %v", common.ErrInternal, err)
	}
	return out, nil
}

// fromStruct decodes a Struct (or one of its fields) into a JSON-tagged Go value.
func fromStruct(m proto.Message, v any) error {
	b, err := protojson.Marshal(m)
	if err != nil {
		return common.NewAppError("BAD_REQUEST", "unreadable request", fmt.Errorf("%w: %v", common.ErrInvalidInput, err))
	}
	if err := json.Unmarshal(b, v); err != nil {
		return common.NewAppError("BAD_REQUEST", "malformed request", fmt.Errorf("%w: %v", common.ErrInvalidInput, err))
	}
	return nil
}

// fieldJSON returns the JSON encoding of one field of s, or nil when absent.
func fieldJSON(s *structpb.Struct, name string) ([]byte, error) {
	f, ok := s.GetFields()[name]
	if !ok {
		return nil, nil
	}
	b, err := protojson.Marshal(f)
	if err != nil {
		return nil, common.NewAppError("BAD_REQUEST", "unreadable field "+name, fmt.Errorf("%w: %v", common.ErrInvalidInput, err))
	}
	return b, nil
}
