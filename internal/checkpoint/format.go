package checkpoint

import (
	"time"

	"github.com/affine-ml/affine/internal/tensor"
)

// Format constants.
const (
	MagicBytes      = "AFFN"
	FormatVersion   = 1
	fixedHeaderSize = 64 // magic + version + sizes + checksum + reserved
	headerAlignment = 64 // tensor data starts on a 64-byte boundary
	checksumOffset  = 0x18
	checksumSize    = 32

	// JSON headers describe a handful of tensors; anything near this limit
	// is a corrupt or hostile file, not a real model.
	maxHeaderSize = 16 * 1024 * 1024
)

// Header is the JSON header of an .affine file.
type Header struct {
	FormatVersion int               `json:"format_version"`
	AffineVersion string            `json:"affine_version"`
	ModelType     string            `json:"model_type"`
	CreatedAt     time.Time         `json:"created_at"`
	Tensors       []TensorMeta      `json:"tensors"`
	Metadata      map[string]string `json:"metadata"`
	Training      *TrainingMeta     `json:"training,omitempty"`
}

// TrainingMeta records how a checkpoint was produced. Optional; files saved
// outside a training run omit it.
type TrainingMeta struct {
	Epochs    int     `json:"epochs"`
	FinalLoss float64 `json:"final_loss"`
	Optimizer string  `json:"optimizer"`
}

// TensorMeta describes one tensor in the data section.
type TensorMeta struct {
	Name   string `json:"name"`
	DType  string `json:"dtype"`
	Shape  []int  `json:"shape"`
	Offset int64  `json:"offset"` // bytes from the start of the data section
	Size   int64  `json:"size"`
}

// parseDType converts the serialized dtype name back to a tensor.DataType.
func parseDType(s string) (tensor.DataType, bool) {
	switch s {
	case "float32":
		return tensor.Float32, true
	case "float64":
		return tensor.Float64, true
	case "int32":
		return tensor.Int32, true
	case "int64":
		return tensor.Int64, true
	default:
		return 0, false
	}
}

// padding returns the number of zero bytes needed to advance pos to the next
// alignment boundary.
func padding(pos int64) int64 {
	return (headerAlignment - (pos % headerAlignment)) % headerAlignment
}
