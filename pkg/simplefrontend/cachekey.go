package simplefrontend

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// DefaultCacheKey is used when no parameter contributes a key element.
const DefaultCacheKey = "cache"

const cacheKeySeparator = "."

// CacheKeyPart is one parameter of a cache key request.
//
// The set of implementations is closed: Str, Int, Uint, Float, Bool, Null and Map.
// Use Param to convert arbitrary Go values at the call boundary.
type CacheKeyPart interface {
	appendElements(elements []string) ([]string, error)
}

// Str is a string parameter. Empty strings contribute no element.
type Str string

// Int is a signed integer parameter. Zero is always included.
type Int int64

// Uint is an unsigned integer parameter.
type Uint uint64

// Float is a floating-point parameter. Zero is always included.
type Float float64

// Bool is a boolean parameter rendered as "true" or "false".
type Bool bool

// Null is the absent-value parameter rendered as "NULL".
type Null struct{}

// Pair is one entry of a flat Map parameter. Value must be a scalar.
type Pair struct {
	Key   string
	Value any
}

// Map is a flat, ordered key/value parameter rendered as key=value elements.
type Map []Pair

// KV builds a Pair.
func KV(key string, value any) Pair {
	return Pair{Key: key, Value: value}
}

func (s Str) appendElements(elements []string) ([]string, error) {
	if s == "" {
		return elements, nil
	}
	return append(elements, FilterCacheKey(string(s))), nil
}

func (i Int) appendElements(elements []string) ([]string, error) {
	return append(elements, FilterCacheKey(strconv.FormatInt(int64(i), 10))), nil
}

func (u Uint) appendElements(elements []string) ([]string, error) {
	return append(elements, FilterCacheKey(strconv.FormatUint(uint64(u), 10))), nil
}

func (f Float) appendElements(elements []string) ([]string, error) {
	return append(elements, FilterCacheKey(formatFloat(float64(f)))), nil
}

func (b Bool) appendElements(elements []string) ([]string, error) {
	return append(elements, strconv.FormatBool(bool(b))), nil
}

func (Null) appendElements(elements []string) ([]string, error) {
	return append(elements, "NULL"), nil
}

func (m Map) appendElements(elements []string) ([]string, error) {
	for _, pair := range m {
		value, err := scalarString(pair.Value)
		if err != nil {
			return nil, err
		}
		elements = append(elements, FilterCacheKey(pair.Key)+"="+FilterCacheKey(value))
	}
	return elements, nil
}

// scalarString renders a map value. Nested composites are rejected so two different
// structures can never flatten to the same key.
func scalarString(v any) (string, error) {
	switch val := v.(type) {
	case map[string]any, map[string]string, []any, []string, Map, Pair, []Pair:
		return "", &CacheKeyError{Kind: fmt.Sprintf("%T", v), Err: fmt.Errorf("%w: cannot build cache key from a multidimensional structure", ErrInvalidCacheKeyInput)}
	case nil, Null:
		return "NULL", nil
	case Str:
		return string(val), nil
	case Int:
		return strconv.FormatInt(int64(val), 10), nil
	case Uint:
		return strconv.FormatUint(uint64(val), 10), nil
	case Float:
		return formatFloat(float64(val)), nil
	case Bool:
		return strconv.FormatBool(bool(val)), nil
	case string:
		return val, nil
	case bool:
		return strconv.FormatBool(val), nil
	case int:
		return strconv.FormatInt(int64(val), 10), nil
	case int8:
		return strconv.FormatInt(int64(val), 10), nil
	case int16:
		return strconv.FormatInt(int64(val), 10), nil
	case int32:
		return strconv.FormatInt(int64(val), 10), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case uint:
		return strconv.FormatUint(uint64(val), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(val), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(val), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(val), 10), nil
	case uint64:
		return strconv.FormatUint(val, 10), nil
	case float32:
		return formatFloat(float64(val)), nil
	case float64:
		return formatFloat(val), nil
	case fmt.Stringer:
		return val.String(), nil
	default:
		return "", &CacheKeyError{Kind: fmt.Sprintf("%T", v), Err: ErrInvalidCacheKeyInput}
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Param converts a Go value into a CacheKeyPart.
//
// Go maps have no stable order, so map keys are sorted. Slices become maps keyed by index.
func Param(v any) (CacheKeyPart, error) {
	switch val := v.(type) {
	case CacheKeyPart:
		return val, nil
	case nil:
		return Null{}, nil
	case string:
		return Str(val), nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(val), nil
	case int8:
		return Int(val), nil
	case int16:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case uint:
		return Uint(val), nil
	case uint8:
		return Uint(val), nil
	case uint16:
		return Uint(val), nil
	case uint32:
		return Uint(val), nil
	case uint64:
		return Uint(val), nil
	case float32:
		return Float(val), nil
	case float64:
		return Float(val), nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := val.Float64()
		if err != nil {
			return nil, &CacheKeyError{Kind: "json.Number", Err: ErrInvalidCacheKeyInput}
		}
		return Float(f), nil
	case Pair:
		return Map{val}, nil
	case []Pair:
		return Map(val), nil
	case map[string]string:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := make(Map, 0, len(keys))
		for _, k := range keys {
			m = append(m, KV(k, val[k]))
		}
		return m, nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := make(Map, 0, len(keys))
		for _, k := range keys {
			m = append(m, KV(k, val[k]))
		}
		return m, nil
	case []string:
		m := make(Map, 0, len(val))
		for i, s := range val {
			m = append(m, KV(strconv.Itoa(i), s))
		}
		return m, nil
	case []any:
		m := make(Map, 0, len(val))
		for i, item := range val {
			m = append(m, KV(strconv.Itoa(i), item))
		}
		return m, nil
	default:
		return nil, &CacheKeyError{Kind: fmt.Sprintf("%T", v), Err: ErrInvalidCacheKeyInput}
	}
}

// FilterCacheKey makes a string safe for cache backends: it strips {}()@: and
// replaces whitespace and slashes with dashes.
func FilterCacheKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '{', r == '}', r == '(', r == ')', r == '@', r == ':':
			continue
		case r == '/', unicode.IsSpace(r):
			b.WriteByte('-')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// BuildCacheKey joins the sanitized elements of parts with ".". When no part
// contributes an element the key is DefaultCacheKey.
func BuildCacheKey(parts ...CacheKeyPart) (string, error) {
	elements := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == nil {
			part = Null{}
		}
		var err error
		elements, err = part.appendElements(elements)
		if err != nil {
			return "", err
		}
	}
	if len(elements) == 0 {
		elements = append(elements, DefaultCacheKey)
	}
	return strings.Join(elements, cacheKeySeparator), nil
}

// BuildCacheKeyFrom converts each value with Param and builds the key.
func BuildCacheKeyFrom(params ...any) (string, error) {
	parts := make([]CacheKeyPart, 0, len(params))
	for _, p := range params {
		part, err := Param(p)
		if err != nil {
			return "", err
		}
		parts = append(parts, part)
	}
	return BuildCacheKey(parts...)
}
