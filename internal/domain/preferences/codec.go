package preferences

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Entry is the stored form of a Value: its kind plus a text encoding.
type Entry struct {
	Kind Kind
	Data string
}

// Encode converts v to its stored form.
func Encode(v Value) (Entry, error) {
	switch v.kind {
	case KindString:
		return Entry{Kind: KindString, Data: v.s}, nil
	case KindInt:
		return Entry{Kind: KindInt, Data: strconv.FormatInt(int64(v.i), 10)}, nil
	case KindBool:
		return Entry{Kind: KindBool, Data: strconv.FormatBool(v.b)}, nil
	case KindFloat:
		return Entry{Kind: KindFloat, Data: strconv.FormatFloat(float64(v.f), 'g', -1, 32)}, nil
	case KindLong:
		return Entry{Kind: KindLong, Data: strconv.FormatInt(v.l, 10)}, nil
	case KindStringSet:
		data, err := json.Marshal(v.AsStringSet())
		if err != nil {
			return Entry{}, fmt.Errorf("failed to encode string set: %w", err)
		}
		return Entry{Kind: KindStringSet, Data: string(data)}, nil
	}
	return Entry{}, fmt.Errorf("%w: %s", ErrUnsupportedType, v.kind)
}

// Decode converts a stored entry back to a Value.
func Decode(e Entry) (Value, error) {
	if e.Kind == KindStringSet {
		var members []string
		if err := json.Unmarshal([]byte(e.Data), &members); err != nil {
			return Value{}, fmt.Errorf("failed to decode string set: %w", err)
		}
		return StringSet(members...), nil
	}
	if !e.Kind.Valid() {
		return Value{}, fmt.Errorf("%w: %s", ErrUnsupportedType, e.Kind)
	}
	return ParseValue(e.Kind, e.Data)
}
