package checkpoint

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/affine-ml/affine/internal/tensor"
)

const affineVersion = "0.2.0"

// Writer writes state dictionaries in .affine format.
type Writer struct {
	file   *os.File
	closed bool
}

// NewWriter creates the file at path, truncating any existing content.
func NewWriter(path string) (*Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return &Writer{file: file}, nil
}

// WriteStateDict writes a state dictionary with a fresh header.
func (w *Writer) WriteStateDict(stateDict map[string]*tensor.RawTensor, modelType string, metadata map[string]string) error {
	return w.WriteStateDictHeader(stateDict, Header{
		ModelType: modelType,
		Metadata:  metadata,
	})
}

// WriteStateDictHeader writes a state dictionary with caller-supplied header
// fields, letting checkpoints record training metadata. Format version,
// affine version, creation time and tensor metadata are always overwritten;
// ModelType, Metadata and Training pass through.
func (w *Writer) WriteStateDictHeader(stateDict map[string]*tensor.RawTensor, header Header) error {
	if w.closed {
		return ErrWriterClosed
	}

	header.FormatVersion = FormatVersion
	header.AffineVersion = affineVersion
	header.CreatedAt = time.Now().UTC()
	if header.Metadata == nil {
		header.Metadata = make(map[string]string)
	}

	// Tensors are laid out in name order so identical state dicts produce
	// identical data sections.
	names := make([]string, 0, len(stateDict))
	for name := range stateDict {
		names = append(names, name)
	}
	sort.Strings(names)

	header.Tensors = make([]TensorMeta, 0, len(names))
	var data []byte
	for _, name := range names {
		raw := stateDict[name]
		header.Tensors = append(header.Tensors, TensorMeta{
			Name:   name,
			DType:  raw.DType().String(),
			Shape:  []int(raw.Shape()),
			Offset: int64(len(data)),
			Size:   int64(raw.ByteSize()),
		})
		data = append(data, raw.Data()...)
	}

	checksum := sha256.Sum256(data)

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	fixed := make([]byte, fixedHeaderSize)
	copy(fixed[0:4], MagicBytes)
	binary.LittleEndian.PutUint32(fixed[4:8], FormatVersion)
	binary.LittleEndian.PutUint64(fixed[8:16], uint64(len(headerJSON)))
	binary.LittleEndian.PutUint64(fixed[16:24], uint64(len(data)))
	copy(fixed[checksumOffset:checksumOffset+checksumSize], checksum[:])

	if _, err := w.file.Write(fixed); err != nil {
		return fmt.Errorf("failed to write fixed header: %w", err)
	}
	if _, err := w.file.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	if pad := padding(int64(fixedHeaderSize + len(headerJSON))); pad > 0 {
		if _, err := w.file.Write(make([]byte, pad)); err != nil {
			return fmt.Errorf("failed to write padding: %w", err)
		}
	}

	if _, err := w.file.Write(data); err != nil {
		return fmt.Errorf("failed to write tensor data: %w", err)
	}

	return nil
}

// Close closes the writer and the underlying file. Safe to call twice.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.file.Close()
}
