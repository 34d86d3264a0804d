package jsondata

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodePreservesKeyOrder(t *testing.T) {
	value, err := DecodeString(`{"z": 1, "a": {"y": true, "b": null}, "m": [1, 2]}`)
	require.NoError(t, err)

	obj, ok := value.(*Object)
	require.True(t, ok, "top-level value should be an object")
	require.Equal(t, []string{"z", "a", "m"}, obj.Keys())

	inner, _ := obj.Get("a")
	innerObj, ok := inner.(*Object)
	require.True(t, ok)
	require.Equal(t, []string{"y", "b"}, innerObj.Keys())

	out, err := Marshal(value)
	require.NoError(t, err)
	require.Equal(t, `{"z":1,"a":{"y":true,"b":null},"m":[1,2]}`, string(out))
}

func TestDecodeNumbersStayTextual(t *testing.T) {
	value, err := DecodeString(`{"big": 9007199254740993, "pi": 3.14}`)
	require.NoError(t, err)

	obj := value.(*Object)
	big, _ := obj.Get("big")
	require.Equal(t, json.Number("9007199254740993"), big)
	pi, _ := obj.Get("pi")
	require.Equal(t, json.Number("3.14"), pi)
}

func TestDecodeRejectsTrailingContent(t *testing.T) {
	_, err := DecodeString(`{"a": 1} extra`)
	require.Error(t, err)
}

func TestObjectSetKeepsFirstPosition(t *testing.T) {
	obj := NewObject()
	obj.Set("a", 1)
	obj.Set("b", 2)
	obj.Set("a", 3)
	require.Equal(t, []string{"a", "b"}, obj.Keys())
	v, _ := obj.Get("a")
	require.Equal(t, 3, v)
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name  string
		a, b  string
		equal bool
	}{
		{"identical objects", `{"a": 1}`, `{"a": 1}`, true},
		{"key order ignored", `{"a": 1, "b": 2}`, `{"b": 2, "a": 1}`, true},
		{"numeric forms", `1`, `1.0`, true},
		{"exponent form", `100`, `1e2`, true},
		{"different numbers", `1`, `2`, false},
		{"array order matters", `[1, 2]`, `[2, 1]`, false},
		{"null vs false", `null`, `false`, false},
		{"nested", `{"a": [1, {"b": null}]}`, `{"a": [1, {"b": null}]}`, true},
		{"missing key", `{"a": 1}`, `{"a": 1, "b": 2}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := MustDecode(tt.a)
			b := MustDecode(tt.b)
			require.Equal(t, tt.equal, Equal(a, b))
		})
	}
}

func TestTypeName(t *testing.T) {
	tests := []struct {
		value any
		name  string
	}{
		{nil, "null"},
		{true, "boolean"},
		{json.Number("1"), "number"},
		{"s", "string"},
		{[]any{}, "array"},
		{NewObject(), "object"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.name, TypeName(tt.value))
	}
}
