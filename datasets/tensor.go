package datasets

import (
	"slices"

	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/pkg/errors"
)

// Tensor is a dense row-major float32 buffer with its shape.
// len(Data) always equals the product of Shape.
type Tensor struct {
	Shape []int
	Data  []float32
}

// NewTensor allocates a zero-filled tensor of the given shape.
func NewTensor(shape ...int) Tensor {
	return Tensor{
		Shape: append([]int(nil), shape...),
		Data:  make([]float32, numElements(shape)),
	}
}

// FromSlice wraps data as a tensor of the given shape.
func FromSlice(data []float32, shape ...int) (Tensor, error) {
	if len(data) != numElements(shape) {
		return Tensor{}, errors.Wrapf(ErrShapeMismatch, "%d values for shape %v", len(data), shape)
	}
	return Tensor{Shape: append([]int(nil), shape...), Data: data}, nil
}

// Rank returns the number of dimensions.
func (t Tensor) Rank() int { return len(t.Shape) }

// Len returns the size of the leading axis, or 0 for a scalar.
func (t Tensor) Len() int {
	if len(t.Shape) == 0 {
		return 0
	}
	return t.Shape[0]
}

// Index returns a view of the i-th sub-tensor along the leading axis.
// The view shares Data with t.
func (t Tensor) Index(i int) Tensor {
	inner := t.Shape[1:]
	stride := numElements(inner)
	return Tensor{Shape: inner, Data: t.Data[i*stride : (i+1)*stride]}
}

// Stack joins tensors of identical shape along a new leading axis. When parts
// is empty the result has shape [0, emptyShape...].
func Stack(parts []Tensor, emptyShape ...int) (Tensor, error) {
	if len(parts) == 0 {
		return NewTensor(append([]int{0}, emptyShape...)...), nil
	}

	inner := parts[0].Shape
	stride := numElements(inner)
	for i := 1; i < len(parts); i++ {
		if !slices.Equal(parts[i].Shape, inner) {
			return Tensor{}, errors.Wrapf(ErrShapeMismatch,
				"part 0 has shape %v, part %d has shape %v", inner, i, parts[i].Shape)
		}
	}

	out := NewTensor(append([]int{len(parts)}, inner...)...)
	for i, p := range parts {
		if len(p.Data) != stride {
			return Tensor{}, errors.Wrapf(ErrShapeMismatch,
				"part %d has %d values, expected %d", i, len(p.Data), stride)
		}
		copy(out.Data[i*stride:], p.Data)
	}
	return out, nil
}

// ToGomlx converts the tensor to a gomlx tensor with the same shape.
func (t Tensor) ToGomlx() *tensors.Tensor {
	return tensors.FromFlatDataAndDimensions(t.Data, t.Shape...)
}

func numElements(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}
