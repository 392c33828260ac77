// Package patch applies RFC6902 operations to a typed document behind an
// allowed-path filter. The booking flow uses it to fold NLU-extracted
// entities into a fresh record without ever writing outside the known
// field set.
package patch

import (
	"fmt"

	"github.com/bytedance/sonic"
	jsonpatch "github.com/evanphx/json-patch/v5"
)

// Operation kinds used here.
const (
	OpAdd     = "add"
	OpReplace = "replace"
	OpRemove  = "remove"
)

// Operation is one RFC6902 patch operation. Value is always serialized, so
// legitimate zero values (a budget of 0, no children) survive the round trip.
type Operation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// Apply runs ops against current and returns the patched document. Every
// path must be present in allowed (when allowed is non-empty). Replace on a
// missing member is downgraded to add, and remove of a missing member is
// dropped, so generated operations never fail on sparse documents.
func Apply[T any](current T, ops []Operation, allowed map[string]bool) (T, error) {
	var zero T
	if len(ops) == 0 {
		return current, nil
	}

	for i, op := range ops {
		if len(allowed) > 0 && !allowed[op.Path] {
			return zero, fmt.Errorf("operation %d: path %q is not in the allowed set", i, op.Path)
		}
	}

	currentJSON, err := sonic.Marshal(current)
	if err != nil {
		return zero, fmt.Errorf("marshal current document: %w", err)
	}

	ops = fixOperations(currentJSON, ops)

	patchJSON, err := sonic.Marshal(ops)
	if err != nil {
		return zero, fmt.Errorf("marshal patch operations: %w", err)
	}
	decoded, err := jsonpatch.DecodePatch(patchJSON)
	if err != nil {
		return zero, fmt.Errorf("decode patch: %w", err)
	}
	patchedJSON, err := decoded.Apply(currentJSON)
	if err != nil {
		return zero, fmt.Errorf("apply patch: %w", err)
	}

	var result T
	if err := sonic.Unmarshal(patchedJSON, &result); err != nil {
		return zero, fmt.Errorf("patched document no longer matches target type: %w", err)
	}
	return result, nil
}

func fixOperations(currentJSON []byte, ops []Operation) []Operation {
	var doc map[string]any
	if err := sonic.Unmarshal(currentJSON, &doc); err != nil {
		return ops
	}

	fixed := make([]Operation, 0, len(ops))
	for _, op := range ops {
		exists := memberExists(doc, op.Path)
		switch op.Op {
		case OpReplace:
			if !exists {
				op.Op = OpAdd
			}
			fixed = append(fixed, op)
		case OpRemove:
			if exists {
				fixed = append(fixed, op)
			}
		default:
			fixed = append(fixed, op)
		}
	}
	return fixed
}

func memberExists(doc map[string]any, path string) bool {
	if len(path) < 2 || path[0] != '/' {
		return false
	}
	_, ok := doc[path[1:]]
	return ok
}
