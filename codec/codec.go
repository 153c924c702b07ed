// Package codec centralizes weight-artifact payload compression.
//
// Artifacts are self-describing: the codec name is stored in the
// artifact header, so changing the default never breaks decoding of
// previously published artifacts.
package codec

import "fmt"

// Codec compresses/decompresses artifact payloads.
// Implementations must be safe for concurrent use.
type Codec interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
	Name() string
}

// Default is the codec used when none is configured explicitly.
var Default Codec = Gzip{}

// ByName returns a built-in codec by its stable name.
//
// This is used when decoding artifacts whose header names the codec
// their payload was written with.
func ByName(name string) (Codec, bool) {
	switch name {
	case "none":
		return None{}, true
	case "gzip":
		return Gzip{}, true
	case "lz4":
		return LZ4{}, true
	default:
		return nil, false
	}
}

// None is a pass-through codec for pre-compressed or tiny payloads.
type None struct{}

// Compress implements Codec.
func (None) Compress(data []byte) ([]byte, error) { return data, nil }

// Decompress implements Codec.
func (None) Decompress(data []byte) ([]byte, error) { return data, nil }

// Name implements Codec.
func (None) Name() string { return "none" }

// MustCompress is a helper for internal tests.
func MustCompress(c Codec, data []byte) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Compress(data)
	if err != nil {
		panic(fmt.Errorf("codec %s compress failed: %w", c.Name(), err))
	}
	return b
}
