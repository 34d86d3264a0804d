package jsondata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Decode parses JSON into the package's value model: objects become
// insertion-ordered *Object values and numbers become json.Number.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	value, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	// Trailing content after the first value is malformed input.
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected content after JSON value")
	}
	return value, nil
}

// DecodeString is Decode over a string.
func DecodeString(data string) (any, error) {
	return Decode([]byte(data))
}

// MustDecode is DecodeString for test fixtures and examples; it panics on
// malformed input.
func MustDecode(data string) any {
	value, err := DecodeString(data)
	if err != nil {
		panic(fmt.Sprintf("jsondata: MustDecode(%q): %v", data, err))
	}
	return value
}

// Marshal serializes a value from the package's model back to JSON,
// preserving object key order.
func Marshal(value any) ([]byte, error) {
	return json.Marshal(value)
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is not a string: %v", keyTok)
				}
				value, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, value)
			}
			// Consume the closing '}'.
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			arr := []any{}
			for dec.More() {
				value, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, value)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	default:
		// string, json.Number, bool, nil
		return tok, nil
	}
}
