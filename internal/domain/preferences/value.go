package preferences

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Kind identifies which of the supported encodings a Value carries.
type Kind int

const (
	KindString Kind = iota + 1
	KindInt
	KindBool
	KindFloat
	KindLong
	KindStringSet
)

var kindNames = map[Kind]string{
	KindString:    "string",
	KindInt:       "int",
	KindBool:      "bool",
	KindFloat:     "float",
	KindLong:      "long",
	KindStringSet: "string_set",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseKind resolves a kind name as returned by Kind.String.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if strings.EqualFold(n, name) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedType, name)
}

// Value is a preference value of exactly one kind. The zero Value has no
// kind and is rejected by the store.
type Value struct {
	kind Kind
	s    string
	i    int32
	b    bool
	f    float32
	l    int64
	set  []string
}

func String(v string) Value { return Value{kind: KindString, s: v} }
func Int(v int32) Value     { return Value{kind: KindInt, i: v} }
func Bool(v bool) Value     { return Value{kind: KindBool, b: v} }
func Float(v float32) Value { return Value{kind: KindFloat, f: v} }
func Long(v int64) Value    { return Value{kind: KindLong, l: v} }

// StringSet builds a set value. Duplicates are dropped and members sorted.
func StringSet(members ...string) Value {
	set := slices.Clone(members)
	slices.Sort(set)
	return Value{kind: KindStringSet, set: slices.Compact(set)}
}

func (v Value) Kind() Kind       { return v.kind }
func (v Value) AsString() string { return v.s }
func (v Value) AsInt() int32     { return v.i }
func (v Value) AsBool() bool     { return v.b }
func (v Value) AsFloat() float32 { return v.f }
func (v Value) AsLong() int64    { return v.l }

// AsStringSet returns a copy of the set members in sorted order.
func (v Value) AsStringSet() []string {
	if v.set == nil && v.kind == KindStringSet {
		return []string{}
	}
	return slices.Clone(v.set)
}

// Equal reports whether v and o have the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.s == o.s
	case KindInt:
		return v.i == o.i
	case KindBool:
		return v.b == o.b
	case KindFloat:
		return v.f == o.f
	case KindLong:
		return v.l == o.l
	case KindStringSet:
		return slices.Equal(v.set, o.set)
	}
	return true
}

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(int64(v.i), 10)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindFloat:
		return strconv.FormatFloat(float64(v.f), 'g', -1, 32)
	case KindLong:
		return strconv.FormatInt(v.l, 10)
	case KindStringSet:
		return "[" + strings.Join(v.set, ", ") + "]"
	}
	return "<invalid>"
}

// FromAny converts a dynamically typed value. Sets may be given as
// []string, []any or map[string]struct{}; a set with a non-string member
// yields ErrInvalidArgument, anything else unknown ErrUnsupportedType.
func FromAny(v any) (Value, error) {
	switch t := v.(type) {
	case Value:
		if !t.kind.Valid() {
			return Value{}, ErrUnsupportedType
		}
		return t, nil
	case string:
		return String(t), nil
	case int32:
		return Int(t), nil
	case bool:
		return Bool(t), nil
	case float32:
		return Float(t), nil
	case int64:
		return Long(t), nil
	case []string:
		return StringSet(t...), nil
	case map[string]struct{}:
		members := make([]string, 0, len(t))
		for m := range t {
			members = append(members, m)
		}
		return StringSet(members...), nil
	case []any:
		members := make([]string, 0, len(t))
		for _, m := range t {
			s, ok := m.(string)
			if !ok {
				return Value{}, fmt.Errorf("%w: member %v is %T", ErrInvalidArgument, m, m)
			}
			members = append(members, s)
		}
		return StringSet(members...), nil
	case map[any]struct{}:
		members := make([]string, 0, len(t))
		for m := range t {
			s, ok := m.(string)
			if !ok {
				return Value{}, fmt.Errorf("%w: member %v is %T", ErrInvalidArgument, m, m)
			}
			members = append(members, s)
		}
		return StringSet(members...), nil
	}
	return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
}

// Zero returns the zero value of kind, the default used when a caller names
// a kind but no default.
func Zero(kind Kind) (Value, error) {
	switch kind {
	case KindString:
		return String(""), nil
	case KindInt:
		return Int(0), nil
	case KindBool:
		return Bool(false), nil
	case KindFloat:
		return Float(0), nil
	case KindLong:
		return Long(0), nil
	case KindStringSet:
		return StringSet(), nil
	}
	return Value{}, fmt.Errorf("%w: %s", ErrUnsupportedType, kind)
}

// ParseValue parses text as a value of the given kind. Sets are
// comma-separated; surrounding whitespace of members is trimmed.
func ParseValue(kind Kind, text string) (Value, error) {
	switch kind {
	case KindString:
		return String(text), nil
	case KindInt:
		n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 32)
		if err != nil {
			return Value{}, fmt.Errorf("failed to parse int: %w", err)
		}
		return Int(int32(n)), nil
	case KindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(text))
		if err != nil {
			return Value{}, fmt.Errorf("failed to parse bool: %w", err)
		}
		return Bool(b), nil
	case KindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 32)
		if err != nil {
			return Value{}, fmt.Errorf("failed to parse float: %w", err)
		}
		return Float(float32(f)), nil
	case KindLong:
		n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("failed to parse long: %w", err)
		}
		return Long(n), nil
	case KindStringSet:
		if strings.TrimSpace(text) == "" {
			return StringSet(), nil
		}
		parts := strings.Split(text, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return StringSet(parts...), nil
	}
	return Value{}, fmt.Errorf("%w: %s", ErrUnsupportedType, kind)
}
