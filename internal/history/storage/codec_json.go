package storage

import (
	"encoding/json"
	"fmt"
)

// Ensure JSONCodec implements Codec interface.
var _ Codec[any, any] = (*JSONCodec[any, any])(nil)

// JSONCodec encodes keys and values as JSON.
//
// String keys made of characters that need no escaping (KSUIDs, for example)
// keep their order once encoded, since each is wrapped in the same quotes.
type JSONCodec[K, V any] struct{}

// EncodeKey encodes a key into JSON.
func (c *JSONCodec[K, V]) EncodeKey(key K) ([]byte, error) {
	b, err := json.Marshal(key)
	if err != nil {
		return nil, fmt.Errorf("failed to encode key: %w", err)
	}
	return b, nil
}

// DecodeKey decodes a JSON key.
func (c *JSONCodec[K, V]) DecodeKey(data []byte) (K, error) {
	var key K
	if err := json.Unmarshal(data, &key); err != nil {
		return key, fmt.Errorf("failed to decode key: %w", err)
	}
	return key, nil
}

// EncodeValue encodes a value into JSON.
func (c *JSONCodec[K, V]) EncodeValue(value V) ([]byte, error) {
	b, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode value: %w", err)
	}
	return b, nil
}

// DecodeValue decodes a JSON value.
func (c *JSONCodec[K, V]) DecodeValue(data []byte) (V, error) {
	var value V
	if err := json.Unmarshal(data, &value); err != nil {
		return value, fmt.Errorf("failed to decode value: %w", err)
	}
	return value, nil
}
