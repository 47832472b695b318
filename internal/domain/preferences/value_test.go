package preferences

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringSet_DeduplicatesAndSorts(t *testing.T) {
	v := StringSet("b", "a", "b")

	assert.Equal(t, KindStringSet, v.Kind())
	assert.Equal(t, []string{"a", "b"}, v.AsStringSet())
	assert.Equal(t, []string{}, StringSet().AsStringSet())
}

func TestFromAny(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    Value
		wantErr error
	}{
		{name: "string", in: "x", want: String("x")},
		{name: "int32", in: int32(4), want: Int(4)},
		{name: "bool", in: true, want: Bool(true)},
		{name: "float32", in: float32(1.5), want: Float(1.5)},
		{name: "int64", in: int64(9), want: Long(9)},
		{name: "string slice", in: []string{"b", "a"}, want: StringSet("a", "b")},
		{name: "string map set", in: map[string]struct{}{"a": {}}, want: StringSet("a")},
		{name: "any slice of strings", in: []any{"a", "c"}, want: StringSet("a", "c")},
		{name: "any slice with int", in: []any{"a", 1}, wantErr: ErrInvalidArgument},
		{name: "any map with int", in: map[any]struct{}{2: {}}, wantErr: ErrInvalidArgument},
		{name: "plain int", in: 5, wantErr: ErrUnsupportedType},
		{name: "float64", in: 2.5, wantErr: ErrUnsupportedType},
		{name: "struct", in: struct{}{}, wantErr: ErrUnsupportedType},
		{name: "zero value", in: Value{}, wantErr: ErrUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromAny(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
		})
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		kind    Kind
		text    string
		want    Value
		wantErr bool
	}{
		{kind: KindString, text: " keep spaces ", want: String(" keep spaces ")},
		{kind: KindInt, text: "42", want: Int(42)},
		{kind: KindInt, text: "99999999999", wantErr: true},
		{kind: KindBool, text: "true", want: Bool(true)},
		{kind: KindBool, text: "maybe", wantErr: true},
		{kind: KindFloat, text: "3.14", want: Float(3.14)},
		{kind: KindLong, text: "99999999999", want: Long(99999999999)},
		{kind: KindStringSet, text: "b, a ,c", want: StringSet("a", "b", "c")},
		{kind: KindStringSet, text: "", want: StringSet()},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String()+"/"+tt.text, func(t *testing.T) {
			got, err := ParseValue(tt.kind, tt.text)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
		})
	}

	_, err := ParseValue(Kind(99), "x")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("STRING_SET")
	require.NoError(t, err)
	assert.Equal(t, KindStringSet, k)

	_, err = ParseKind("double")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestEncodeDecode(t *testing.T) {
	e, err := Encode(StringSet("x", "y"))
	require.NoError(t, err)
	assert.Equal(t, Entry{Kind: KindStringSet, Data: `["x","y"]`}, e)

	e, err = Encode(StringSet())
	require.NoError(t, err)
	assert.Equal(t, `[]`, e.Data)

	e, err = Encode(Float(0.1))
	require.NoError(t, err)
	assert.Equal(t, "0.1", e.Data)

	_, err = Decode(Entry{Kind: KindStringSet, Data: "not json"})
	assert.Error(t, err)

	_, err = Decode(Entry{Kind: Kind(0), Data: "x"})
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "7", Int(7).String())
	assert.Equal(t, "[a, b]", StringSet("b", "a").String())
	assert.Equal(t, "<invalid>", Value{}.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
}

func TestZero(t *testing.T) {
	for _, k := range []Kind{KindString, KindInt, KindBool, KindFloat, KindLong, KindStringSet} {
		v, err := Zero(k)
		require.NoError(t, err)
		assert.Equal(t, k, v.Kind())
	}

	v, _ := Zero(KindStringSet)
	assert.Empty(t, v.AsStringSet())

	_, err := Zero(Kind(0))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}
