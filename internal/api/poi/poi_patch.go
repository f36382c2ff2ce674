package poi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/FACorreiaa/go-city-info-api/internal/types"
)

// patchTarget is the mutable {name, description} view a patch document is
// applied to. A nil field is an absent or null member.
type patchTarget struct {
	name        *string
	description *string
}

func newPatchTarget(p types.PointOfInterest) *patchTarget {
	name := p.Name
	t := &patchTarget{name: &name}
	if p.Description != nil {
		d := *p.Description
		t.description = &d
	}
	return t
}

func (t *patchTarget) toUpdate() types.PointOfInterestForUpdate {
	u := types.PointOfInterestForUpdate{Description: t.description}
	if t.name != nil {
		u.Name = *t.name
	}
	return u
}

func (t *patchTarget) field(path string) (**string, bool) {
	switch strings.ToLower(strings.TrimSpace(path)) {
	case "/name":
		return &t.name, true
	case "/description":
		return &t.description, true
	default:
		return nil, false
	}
}

// applyPatch runs the operations in order and stops at the first one that
// cannot be applied. Nothing outside t is touched.
func applyPatch(t *patchTarget, doc types.PatchDocument) *types.ValidationError {
	for i, op := range doc {
		if err := t.apply(op); err != nil {
			verr := types.NewValidationError()
			verr.Add("patch", fmt.Sprintf("operation %d (%s %s): %s", i, op.Op, op.Path, err))
			return verr
		}
	}
	return nil
}

func (t *patchTarget) apply(op types.PatchOperation) error {
	if op.Path == "" {
		return fmt.Errorf("path is required")
	}
	dst, ok := t.field(op.Path)
	if !ok {
		return fmt.Errorf("the target location specified by path %q was not found", op.Path)
	}

	switch strings.ToLower(op.Op) {
	case "add", "replace":
		v, err := decodeValue(op.Value)
		if err != nil {
			return err
		}
		*dst = v
	case "remove":
		*dst = nil
	case "move", "copy":
		src, ok := t.field(op.From)
		if !ok {
			return fmt.Errorf("the source location specified by from %q was not found", op.From)
		}
		v := cloneString(*src)
		if strings.EqualFold(op.Op, "move") {
			*src = nil
		}
		*dst = v
	case "test":
		want, err := decodeValue(op.Value)
		if err != nil {
			return err
		}
		if !equalStrings(*dst, want) {
			return fmt.Errorf("the current value at path %q is not equal to the test value", op.Path)
		}
	case "":
		return fmt.Errorf("op is required")
	default:
		return fmt.Errorf("unsupported op %q", op.Op)
	}
	return nil
}

// decodeValue accepts a JSON string or null.
func decodeValue(raw json.RawMessage) (*string, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("value is required")
	}
	var v *string
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("value must be a string or null")
	}
	return v, nil
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func equalStrings(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
