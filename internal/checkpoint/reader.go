package checkpoint

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/affine-ml/affine/internal/tensor"
)

// Reader reads state dictionaries from .affine files. The data checksum is
// verified when the reader is opened, so a Reader in hand means intact data.
type Reader struct {
	file       *os.File
	header     Header
	dataOffset int64
	dataSize   int64
	closed     bool
}

// NewReader opens the file at path, parses the header and verifies the
// checksum of the data section.
func NewReader(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	reader := &Reader{file: file}
	if err := reader.parse(); err != nil {
		_ = file.Close()
		return nil, err
	}
	return reader, nil
}

func (r *Reader) parse() error {
	fixed := make([]byte, fixedHeaderSize)
	if _, err := io.ReadFull(r.file, fixed); err != nil {
		return fmt.Errorf("failed to read fixed header: %w", err)
	}

	if string(fixed[0:4]) != MagicBytes {
		return ErrInvalidMagic
	}
	if version := binary.LittleEndian.Uint32(fixed[4:8]); version != FormatVersion {
		return fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, version, FormatVersion)
	}

	headerSize := binary.LittleEndian.Uint64(fixed[8:16])
	if headerSize > maxHeaderSize {
		return ErrHeaderTooLarge
	}
	dataSize := binary.LittleEndian.Uint64(fixed[16:24])
	var stored [checksumSize]byte
	copy(stored[:], fixed[checksumOffset:checksumOffset+checksumSize])

	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r.file, headerJSON); err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	if err := json.Unmarshal(headerJSON, &r.header); err != nil {
		return fmt.Errorf("failed to parse header JSON: %w", err)
	}

	r.dataOffset = int64(fixedHeaderSize) + int64(headerSize)
	r.dataOffset += padding(r.dataOffset)
	r.dataSize = int64(dataSize)

	// Verify the checksum up front. Affine models are a handful of small
	// tensors, so reading the whole data section is cheap.
	data := make([]byte, r.dataSize)
	if _, err := r.file.Seek(r.dataOffset, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek to tensor data: %w", err)
	}
	if _, err := io.ReadFull(r.file, data); err != nil {
		return fmt.Errorf("failed to read tensor data: %w", err)
	}
	if sha256.Sum256(data) != stored {
		return ErrChecksumMismatch
	}

	return nil
}

// Header returns the parsed file header.
func (r *Reader) Header() Header {
	return r.header
}

// TensorNames returns the names of all tensors in the file, in data-section
// order.
func (r *Reader) TensorNames() []string {
	names := make([]string, len(r.header.Tensors))
	for i, meta := range r.header.Tensors {
		names[i] = meta.Name
	}
	return names
}

func (r *Reader) tensorMeta(name string) (TensorMeta, error) {
	for _, meta := range r.header.Tensors {
		if meta.Name == name {
			return meta, nil
		}
	}
	return TensorMeta{}, fmt.Errorf("tensor %s not found", name)
}

// ReadTensorData reads the raw bytes of a single tensor.
func (r *Reader) ReadTensorData(name string) ([]byte, error) {
	if r.closed {
		return nil, ErrReaderClosed
	}

	meta, err := r.tensorMeta(name)
	if err != nil {
		return nil, err
	}
	if meta.Offset < 0 || meta.Size < 0 || meta.Offset+meta.Size > r.dataSize {
		return nil, fmt.Errorf("tensor %s extends beyond data section", name)
	}

	if _, err := r.file.Seek(r.dataOffset+meta.Offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek to tensor data: %w", err)
	}
	data := make([]byte, meta.Size)
	if _, err := io.ReadFull(r.file, data); err != nil {
		return nil, fmt.Errorf("failed to read tensor data: %w", err)
	}
	return data, nil
}

// LoadTensor loads a single tensor onto the backend's device.
func (r *Reader) LoadTensor(name string, backend tensor.Backend) (*tensor.RawTensor, error) {
	if r.closed {
		return nil, ErrReaderClosed
	}

	meta, err := r.tensorMeta(name)
	if err != nil {
		return nil, err
	}

	dtype, ok := parseDType(meta.DType)
	if !ok {
		return nil, fmt.Errorf("unsupported dtype: %s", meta.DType)
	}
	shape := tensor.Shape(meta.Shape)
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape for tensor %s: %w", name, err)
	}
	if want := int64(shape.NumElements() * dtype.Size()); want != meta.Size {
		return nil, fmt.Errorf("tensor %s size mismatch: shape %v needs %d bytes, header says %d", name, shape, want, meta.Size)
	}

	data, err := r.ReadTensorData(name)
	if err != nil {
		return nil, err
	}

	raw, err := tensor.NewRaw(shape, dtype, backend.Device())
	if err != nil {
		return nil, fmt.Errorf("failed to create tensor: %w", err)
	}
	copy(raw.Data(), data)
	return raw, nil
}

// ReadStateDict loads all tensors into a state dictionary.
func (r *Reader) ReadStateDict(backend tensor.Backend) (map[string]*tensor.RawTensor, error) {
	if r.closed {
		return nil, ErrReaderClosed
	}

	stateDict := make(map[string]*tensor.RawTensor, len(r.header.Tensors))
	for _, meta := range r.header.Tensors {
		raw, err := r.LoadTensor(meta.Name, backend)
		if err != nil {
			return nil, fmt.Errorf("failed to load tensor %s: %w", meta.Name, err)
		}
		stateDict[meta.Name] = raw
	}
	return stateDict, nil
}

// Close closes the reader and the underlying file. Safe to call twice.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.file.Close()
}
