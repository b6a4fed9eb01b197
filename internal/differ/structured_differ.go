package differ

import (
	"encoding/json"
	"math/big"
	"reflect"
	"sort"
	"strconv"

	"github.com/aleister1102/docdiff/internal/models"
)

// StructuredDiffer walks two JSON-like values and reports path-addressed changes.
// Input is assumed to be a tree (decoded JSON), so plain recursion is safe.
type StructuredDiffer struct{}

// NewStructuredDiffer creates a new structured differ
func NewStructuredDiffer() *StructuredDiffer {
	return &StructuredDiffer{}
}

// Diff returns the changes between left and right in pre-order over the union of
// keys and indices. A missing key is distinct from a JSON null value.
func (sd *StructuredDiffer) Diff(left, right any) []models.StructuredChange {
	changes := []models.StructuredChange{}
	sd.walk("", normalizeJSON(left), true, normalizeJSON(right), true, &changes)
	return changes
}

func (sd *StructuredDiffer) walk(path string, left any, hasLeft bool, right any, hasRight bool, out *[]models.StructuredChange) {
	switch {
	case !hasLeft && !hasRight:
		return
	case !hasLeft:
		*out = append(*out, models.StructuredChange{Path: path, Type: models.ChangeAdded, Left: nil, Right: right})
		return
	case !hasRight:
		*out = append(*out, models.StructuredChange{Path: path, Type: models.ChangeRemoved, Left: left, Right: nil})
		return
	}

	leftArr, leftIsArr := left.([]any)
	rightArr, rightIsArr := right.([]any)
	if leftIsArr != rightIsArr {
		*out = append(*out, changed(path, left, right))
		return
	}
	if leftIsArr {
		n := max(len(leftArr), len(rightArr))
		for i := 0; i < n; i++ {
			var l, r any
			if i < len(leftArr) {
				l = leftArr[i]
			}
			if i < len(rightArr) {
				r = rightArr[i]
			}
			sd.walk(indexPath(path, i), l, i < len(leftArr), r, i < len(rightArr), out)
		}
		return
	}

	leftObj, leftIsObj := left.(map[string]any)
	rightObj, rightIsObj := right.(map[string]any)
	if leftIsObj != rightIsObj {
		*out = append(*out, changed(path, left, right))
		return
	}
	if leftIsObj {
		for _, key := range unionKeys(leftObj, rightObj) {
			l, inLeft := leftObj[key]
			r, inRight := rightObj[key]
			sd.walk(keyPath(path, key), l, inLeft, r, inRight, out)
		}
		return
	}

	if !scalarEqual(left, right) {
		*out = append(*out, changed(path, left, right))
	}
}

func changed(path string, left, right any) models.StructuredChange {
	return models.StructuredChange{Path: path, Type: models.ChangeChanged, Left: left, Right: right}
}

func keyPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func indexPath(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}

// unionKeys returns left keys in sorted order followed by right-only keys in
// sorted order.
func unionKeys(left, right map[string]any) []string {
	keys := make([]string, 0, len(left)+len(right))
	for k := range left {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	extra := make([]string, 0)
	for k := range right {
		if _, ok := left[k]; !ok {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)

	return append(keys, extra...)
}

// scalarEqual compares two leaf values by value. Numbers compare numerically
// regardless of their Go representation: exactly when neither side is a binary
// float, so json.Number integers beyond float64 precision still differ.
func scalarEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if aNum, bNum := isNumber(a), isNumber(b); aNum || bNum {
		return aNum && bNum && numbersEqual(a, b)
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	}
	return reflect.DeepEqual(a, b)
}

func isNumber(v any) bool {
	_, ok := toRat(v)
	return ok || isFloat(v)
}

func isFloat(v any) bool {
	switch v.(type) {
	case float32, float64:
		return true
	}
	return false
}

// numbersEqual compares as float64 when either side already is one, since the
// other side cannot be more precise than the float it is compared with.
func numbersEqual(a, b any) bool {
	if isFloat(a) || isFloat(b) {
		af, aok := toFloat(a)
		bf, bok := toFloat(b)
		return aok && bok && af == bf
	}
	ar, _ := toRat(a)
	br, _ := toRat(b)
	if ar == nil || br == nil {
		return reflect.DeepEqual(a, b)
	}
	return ar.Cmp(br) == 0
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	if r, ok := toRat(v); ok && r != nil {
		f, _ := r.Float64()
		return f, true
	}
	return 0, false
}

// toRat reports whether v is an integer or json.Number and its exact value.
// The value is nil for a json.Number that does not parse.
func toRat(v any) (*big.Rat, bool) {
	switch n := v.(type) {
	case json.Number:
		if r, ok := new(big.Rat).SetString(string(n)); ok {
			return r, true
		}
		return nil, true
	case int:
		return new(big.Rat).SetInt64(int64(n)), true
	case int8:
		return new(big.Rat).SetInt64(int64(n)), true
	case int16:
		return new(big.Rat).SetInt64(int64(n)), true
	case int32:
		return new(big.Rat).SetInt64(int64(n)), true
	case int64:
		return new(big.Rat).SetInt64(n), true
	case uint:
		return new(big.Rat).SetUint64(uint64(n)), true
	case uint8:
		return new(big.Rat).SetUint64(uint64(n)), true
	case uint16:
		return new(big.Rat).SetUint64(uint64(n)), true
	case uint32:
		return new(big.Rat).SetUint64(uint64(n)), true
	case uint64:
		return new(big.Rat).SetUint64(n), true
	}
	return nil, false
}

// normalizeJSON converts composite values that did not come from encoding/json
// (typed slices, typed maps, structs) into the generic decoded shape.
func normalizeJSON(v any) any {
	switch t := v.(type) {
	case nil, string, bool, float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, json.Number:
		return v
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = normalizeJSON(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = normalizeJSON(item)
		}
		return out
	case json.RawMessage:
		return decodeRaw(t, v)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	return decodeRaw(data, v)
}

func decodeRaw(data []byte, fallback any) any {
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return fallback
	}
	return decoded
}
