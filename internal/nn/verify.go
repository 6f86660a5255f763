package nn

import (
	"fmt"

	"github.com/affine-ml/affine/internal/tensor"
)

// VerifyAffineFit checks that a trained 1→1 Linear model recovered the
// expected scalar weight and bias within tol. It returns nil on success and
// a descriptive error naming the first parameter that missed, so exercise
// harnesses can report exactly what went wrong.
func VerifyAffineFit[B tensor.Backend](model *Linear[B], wantWeight, wantBias, tol float32) error {
	if model.InFeatures() != 1 || model.OutFeatures() != 1 {
		return fmt.Errorf("expected a 1→1 model, got %d→%d", model.InFeatures(), model.OutFeatures())
	}

	gotWeight := model.Weight().Tensor().Raw().AsFloat32()[0]
	if diff := abs(gotWeight - wantWeight); diff > tol {
		return fmt.Errorf("weight %.4f is %.4f away from expected %.4f (tolerance %.4f)",
			gotWeight, diff, wantWeight, tol)
	}

	gotBias := model.Bias().Tensor().Raw().AsFloat32()[0]
	if diff := abs(gotBias - wantBias); diff > tol {
		return fmt.Errorf("bias %.4f is %.4f away from expected %.4f (tolerance %.4f)",
			gotBias, diff, wantBias, tol)
	}

	return nil
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
