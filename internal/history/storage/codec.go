package storage

// Codec encodes keys and values to the bytes a backend persists.
//
// Backends that order entries do so by the encoded key bytes, so a key
// encoding must preserve the order callers expect.
type Codec[K, V any] interface {
	EncodeKey(K) ([]byte, error)
	DecodeKey([]byte) (K, error)
	EncodeValue(V) ([]byte, error)
	DecodeValue([]byte) (V, error)
}
