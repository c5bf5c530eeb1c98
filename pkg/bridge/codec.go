// Package bridge provides typed platform-channel communication between the
// Go core and native host code. A Bridge owns a Transport (the narrow native
// boundary), a message codec, and the method/event channels created from it.
// Unlike a global registry, every Bridge is constructed explicitly and passed
// to the components that need it.
package bridge

import (
	"encoding/json"

	"github.com/fxamacker/cbor/v2"
)

// MessageCodec encodes and decodes messages crossing the native boundary.
type MessageCodec interface {
	// Encode converts a Go value to bytes for transmission to native code.
	Encode(value any) ([]byte, error)

	// Decode converts bytes received from native code to a Go value.
	Decode(data []byte) (any, error)
}

// JSONCodec implements MessageCodec using JSON encoding. JSON prioritizes
// interoperability and minimal native dependencies.
type JSONCodec struct{}

// Encode serializes the value to JSON bytes.
func (JSONCodec) Encode(value any) ([]byte, error) {
	return json.Marshal(value)
}

// Decode deserializes JSON bytes to a Go value.
func (JSONCodec) Decode(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var result any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// CBORCodec implements MessageCodec using CBOR encoding. CBOR keeps payloads
// compact for hosts that exchange binary frames with the mesh layer.
type CBORCodec struct{}

// Encode serializes the value to CBOR bytes.
func (CBORCodec) Encode(value any) ([]byte, error) {
	return cbor.Marshal(value)
}

// Decode deserializes CBOR bytes to a Go value. Maps are normalized to
// map[string]any so channel payload parsing is codec-agnostic.
func (CBORCodec) Decode(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var result any
	if err := cbor.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return normalize(result), nil
}

// normalize converts CBOR's map[any]any decoding into the map[string]any
// shape the JSON codec produces.
func normalize(value any) any {
	switch v := value.(type) {
	case map[any]any:
		converted := make(map[string]any, len(v))
		for key, val := range v {
			if keyString, ok := key.(string); ok {
				converted[keyString] = normalize(val)
			}
		}
		return converted
	case map[string]any:
		for key, val := range v {
			v[key] = normalize(val)
		}
		return v
	case []any:
		for i, item := range v {
			v[i] = normalize(item)
		}
		return v
	default:
		return value
	}
}
