// Package encoders provides ready-made text and image encoders for the
// author profiling dataset. They are plain implementations of
// datasets.TextEncoder and datasets.ImageEncoder; callers are free to supply
// their own.
package encoders

import (
	"github.com/pkg/errors"
	tokenizer "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"

	"github.com/Noofbiz/authorProfiling/datasets"
)

// Tokenizer encodes a document as the sequence of its token ids, using a
// HuggingFace tokenizer.json file.
type Tokenizer struct {
	tok *tokenizer.Tokenizer

	// AddSpecialTokens adds the model special tokens ([CLS], [SEP], ...).
	AddSpecialTokens bool
	// MaxTokens, when positive, truncates the id sequence. The dataset itself
	// never truncates.
	MaxTokens int
}

// NewTokenizer loads the tokenizer definition at path.
func NewTokenizer(path string) (*Tokenizer, error) {
	tok, err := pretrained.FromFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load tokenizer %s", path)
	}
	return &Tokenizer{tok: tok}, nil
}

// EncodeText implements datasets.TextEncoder. The output has shape [n].
func (t *Tokenizer) EncodeText(text string) (datasets.Tensor, int, error) {
	encoding, err := t.tok.EncodeSingle(text, t.AddSpecialTokens)
	if err != nil {
		return datasets.Tensor{}, 0, errors.Wrap(err, "failed to tokenize document")
	}
	ids := encoding.GetIds()
	if t.MaxTokens > 0 && len(ids) > t.MaxTokens {
		ids = ids[:t.MaxTokens]
	}

	seq := datasets.NewTensor(len(ids))
	for i, id := range ids {
		seq.Data[i] = float32(id)
	}
	return seq, len(ids), nil
}

// Runes encodes a document as the sequence of its Unicode code points.
type Runes struct{}

// EncodeText implements datasets.TextEncoder. The output has shape [n].
func (Runes) EncodeText(text string) (datasets.Tensor, int, error) {
	runes := []rune(text)
	seq := datasets.NewTensor(len(runes))
	for i, r := range runes {
		seq.Data[i] = float32(r)
	}
	return seq, len(runes), nil
}

// OneHot encodes a document as one one-hot row per character over Alphabet.
// Characters outside Alphabet map to an all-zero row.
type OneHot struct {
	index map[rune]int
	size  int
}

// NewOneHot builds a one-hot encoder over the distinct runes of alphabet.
func NewOneHot(alphabet string) *OneHot {
	o := &OneHot{index: make(map[rune]int)}
	for _, r := range alphabet {
		if _, ok := o.index[r]; ok {
			continue
		}
		o.index[r] = o.size
		o.size++
	}
	return o
}

// Size returns the number of distinct characters, the width of every row.
func (o *OneHot) Size() int { return o.size }

// EncodeText implements datasets.TextEncoder. The output has shape [n, Size()].
func (o *OneHot) EncodeText(text string) (datasets.Tensor, int, error) {
	runes := []rune(text)
	seq := datasets.NewTensor(len(runes), o.size)
	for i, r := range runes {
		if j, ok := o.index[r]; ok {
			seq.Data[i*o.size+j] = 1
		}
	}
	return seq, len(runes), nil
}
