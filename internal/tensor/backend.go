package tensor

// Backend is the compute contract every device implements. Backends own the
// arithmetic; tensors only carry data and dispatch to whichever backend they
// were created with.
//
// Implementations:
//   - CPU: pure Go, all dtypes
//   - WebGPU: WGSL compute shaders, float32
type Backend interface {
	// Element-wise binary operations with NumPy-style broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// MatMul multiplies two 2-D matrices: [M, K] @ [K, N] → [M, N].
	MatMul(a, b *RawTensor) *RawTensor

	// Shape operations.
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor) *RawTensor // 2-D only

	// Element-wise operations against a scalar.
	AddScalar(x *RawTensor, scalar any) *RawTensor
	SubScalar(x *RawTensor, scalar any) *RawTensor
	MulScalar(x *RawTensor, scalar any) *RawTensor
	DivScalar(x *RawTensor, scalar any) *RawTensor

	// Reductions.
	Sum(x *RawTensor) *RawTensor                            // total sum, scalar result
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor  // sum along dimension
	MeanDim(x *RawTensor, dim int, keepDim bool) *RawTensor // mean along dimension

	// Metadata.
	Name() string
	Device() Device
}
