package types

import "encoding/json"

// PatchOperation is one RFC 6902 operation. Value is kept raw so that a
// missing value can be told apart from an explicit null.
type PatchOperation struct {
	Op    string          `json:"op"`
	Path  string          `json:"path"`
	From  string          `json:"from,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
}

// PatchDocument is the body of a PATCH request.
type PatchDocument []PatchOperation
