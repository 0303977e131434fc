package datasets

import (
	"slices"

	"github.com/pkg/errors"
)

// TextEncoder turns the raw text of one document into a numeric sequence of
// shape [n] or [n, features...]. length is the number of meaningful steps in
// the sequence.
type TextEncoder interface {
	EncodeText(text string) (seq Tensor, length int, err error)
}

// TextEncoderFunc adapts a function to the TextEncoder interface.
type TextEncoderFunc func(text string) (Tensor, int, error)

// EncodeText implements TextEncoder.
func (f TextEncoderFunc) EncodeText(text string) (Tensor, int, error) { return f(text) }

// NormalizeDocuments parses the profile at path, encodes every document with
// enc and stacks them into a tensor of shape [numDocuments, minLength, features...].
//
// Each encoded sequence is copied into the prefix of a zero-filled buffer of
// minLength steps. Sequences longer than minLength fail with
// ErrSequenceTooLong, they are never truncated. A profile without documents
// yields a tensor of shape [0, minLength].
func NormalizeDocuments(path string, minLength int, enc TextEncoder) (Tensor, error) {
	profile, err := readProfile(path)
	if err != nil {
		return Tensor{}, err
	}

	padded := make([]Tensor, 0, len(profile.Documents))
	var features []int
	for i, text := range profile.Documents {
		seq, length, err := enc.EncodeText(text)
		if err != nil {
			return Tensor{}, errors.Wrapf(err, "failed to encode document %d of %s", i, path)
		}
		if seq.Rank() == 0 {
			return Tensor{}, errors.Wrapf(ErrShapeMismatch, "document %d of %s encoded to a scalar", i, path)
		}
		if i == 0 {
			features = seq.Shape[1:]
		} else if !slices.Equal(seq.Shape[1:], features) {
			return Tensor{}, errors.Wrapf(ErrShapeMismatch,
				"document %d of %s has feature shape %v, expected %v", i, path, seq.Shape[1:], features)
		}

		buf, err := padSequence(seq, minLength)
		if err != nil {
			return Tensor{}, errors.Wrapf(err, "document %d of %s (reported length %d)", i, path, length)
		}
		padded = append(padded, buf)
	}
	return Stack(padded, minLength)
}

// padSequence copies seq into a zero buffer of shape [minLength, seq.Shape[1:]...].
func padSequence(seq Tensor, minLength int) (Tensor, error) {
	if len(seq.Data) != numElements(seq.Shape) {
		return Tensor{}, errors.Wrapf(ErrShapeMismatch, "encoder returned %d values for shape %v", len(seq.Data), seq.Shape)
	}
	if seq.Len() > minLength {
		return Tensor{}, errors.Wrapf(ErrSequenceTooLong, "%d steps > %d", seq.Len(), minLength)
	}
	buf := NewTensor(append([]int{minLength}, seq.Shape[1:]...)...)
	copy(buf.Data, seq.Data)
	return buf, nil
}
