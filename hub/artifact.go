package hub

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/hupe1980/latentgo/codec"
)

// Artifact container layout:
//
//	magic "LGA1" | version u8 | codec name (u8 len + bytes) |
//	manifest JSON (u32 len + bytes) | payload (u32 len + bytes)
//
// The payload is codec-compressed and holds a tensor table
// (u32 count, then per tensor u8 name len + name + u32 element count)
// followed by the tensor data as little-endian float32, in table order.

var magic = [4]byte{'L', 'G', 'A', '1'}

const formatVersion = 1

var (
	// ErrBadMagic is returned when a blob is not an artifact.
	ErrBadMagic = errors.New("hub: bad artifact magic")

	// ErrCorrupt is returned when an artifact is structurally invalid.
	ErrCorrupt = errors.New("hub: corrupt artifact")
)

// ErrUnsupportedVersion indicates an artifact written by a newer format.
type ErrUnsupportedVersion struct {
	Version int
}

func (e *ErrUnsupportedVersion) Error() string {
	return fmt.Sprintf("hub: unsupported artifact version %d", e.Version)
}

// ErrUnknownCodec indicates an artifact compressed with a codec this
// build does not know.
type ErrUnknownCodec struct {
	Name string
}

func (e *ErrUnknownCodec) Error() string {
	return fmt.Sprintf("hub: unknown artifact codec %q", e.Name)
}

// Manifest describes a published model.
type Manifest struct {
	// Name is the hub identifier, e.g. "progan-128".
	Name string `json:"name"`
	// Arch selects the generator implementation, e.g. "mlp".
	Arch string `json:"arch"`
	// LatentDim is the model's latent-space dimensionality.
	LatentDim int `json:"latent_dim"`
	// Resolution is the square output resolution in pixels.
	Resolution int `json:"resolution"`
	// Hidden is the hidden layer width for MLP decoders.
	Hidden int `json:"hidden,omitempty"`
}

// Artifact is a decoded model weights artifact.
type Artifact struct {
	Manifest Manifest
	Tensors  map[string][]float32
}

// Encode serializes the artifact with the given codec.
// If c is nil, codec.Default is used.
func Encode(a *Artifact, c codec.Codec) ([]byte, error) {
	if c == nil {
		c = codec.Default
	}

	manifest, err := json.Marshal(a.Manifest)
	if err != nil {
		return nil, err
	}

	// Deterministic tensor order keeps published bytes reproducible.
	names := make([]string, 0, len(a.Tensors))
	for name := range a.Tensors {
		names = append(names, name)
	}
	sort.Strings(names)

	var payload bytes.Buffer
	writeUint32(&payload, uint32(len(names)))
	for _, name := range names {
		if len(name) > 255 {
			return nil, fmt.Errorf("%w: tensor name too long", ErrCorrupt)
		}
		payload.WriteByte(byte(len(name)))
		payload.WriteString(name)
		writeUint32(&payload, uint32(len(a.Tensors[name])))
	}
	for _, name := range names {
		for _, v := range a.Tensors[name] {
			writeUint32(&payload, math.Float32bits(v))
		}
	}

	compressed, err := c.Compress(payload.Bytes())
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	out.Write(magic[:])
	out.WriteByte(formatVersion)
	out.WriteByte(byte(len(c.Name())))
	out.WriteString(c.Name())
	writeUint32(&out, uint32(len(manifest)))
	out.Write(manifest)
	writeUint32(&out, uint32(len(compressed)))
	out.Write(compressed)

	return out.Bytes(), nil
}

// Decode parses an artifact, selecting the decompression codec named
// in the header.
func Decode(data []byte) (*Artifact, error) {
	r := bytes.NewReader(data)

	var m [4]byte
	if _, err := r.Read(m[:]); err != nil || m != magic {
		return nil, ErrBadMagic
	}

	version, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: truncated header", ErrCorrupt)
	}
	if version != formatVersion {
		return nil, &ErrUnsupportedVersion{Version: int(version)}
	}

	codecName, err := readString8(r)
	if err != nil {
		return nil, fmt.Errorf("%w: truncated codec name", ErrCorrupt)
	}
	c, ok := codec.ByName(codecName)
	if !ok {
		return nil, &ErrUnknownCodec{Name: codecName}
	}

	manifestBytes, err := readBytes32(r)
	if err != nil {
		return nil, fmt.Errorf("%w: truncated manifest", ErrCorrupt)
	}

	var manifest Manifest
	if err := json.Unmarshal(manifestBytes, &manifest); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	compressed, err := readBytes32(r)
	if err != nil {
		return nil, fmt.Errorf("%w: truncated payload", ErrCorrupt)
	}

	payload, err := c.Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	tensors, err := decodeTensors(payload)
	if err != nil {
		return nil, err
	}

	return &Artifact{Manifest: manifest, Tensors: tensors}, nil
}

func decodeTensors(payload []byte) (map[string][]float32, error) {
	r := bytes.NewReader(payload)

	count, err := readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("%w: truncated tensor table", ErrCorrupt)
	}

	names := make([]string, count)
	sizes := make([]uint32, count)
	for i := range names {
		if names[i], err = readString8(r); err != nil {
			return nil, fmt.Errorf("%w: truncated tensor table", ErrCorrupt)
		}
		if sizes[i], err = readUint32(r); err != nil {
			return nil, fmt.Errorf("%w: truncated tensor table", ErrCorrupt)
		}
	}

	tensors := make(map[string][]float32, count)
	for i, name := range names {
		data := make([]float32, sizes[i])
		for j := range data {
			bits, err := readUint32(r)
			if err != nil {
				return nil, fmt.Errorf("%w: truncated tensor %q", ErrCorrupt, name)
			}
			data[j] = math.Float32frombits(bits)
		}
		tensors[name] = data
	}

	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: trailing payload bytes", ErrCorrupt)
	}

	return tensors, nil
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func readUint32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func readBytes32(r *bytes.Reader) ([]byte, error) {
	n, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	if int(n) > r.Len() {
		return nil, io.ErrUnexpectedEOF
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

func readString8(r *bytes.Reader) (string, error) {
	n, err := r.ReadByte()
	if err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	return string(b), nil
}
