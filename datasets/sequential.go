package datasets

import (
	"io"
	"sync"

	"github.com/gomlx/gomlx/pkg/core/tensors"
)

// Sequential adapts an AuthorProfilingDataset to gomlx's train.Dataset
// interface. Every Yield returns one record, in index order; io.EOF marks the
// end of the epoch until Reset is called.
type Sequential struct {
	ds *AuthorProfilingDataset

	mu   sync.Mutex
	next int
}

// Sequential returns a new one-record-per-Yield view of d.
func (d *AuthorProfilingDataset) Sequential() *Sequential {
	return &Sequential{ds: d}
}

// Name returns the name of the underlying dataset.
func (s *Sequential) Name() string {
	return s.ds.Name()
}

// Yield returns the inputs [Text, Images] and the label of the next record.
func (s *Sequential) Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error) {
	s.mu.Lock()
	i := s.next
	if i >= s.ds.Len() {
		s.mu.Unlock()
		return nil, nil, nil, io.EOF
	}
	s.next++
	s.mu.Unlock()

	rec, err := s.ds.Get(i)
	if err != nil {
		return nil, nil, nil, err
	}
	inputs, labels = rec.Tensors()
	return nil, inputs, labels, nil
}

// Reset starts a new epoch.
func (s *Sequential) Reset() {
	s.mu.Lock()
	s.next = 0
	s.mu.Unlock()
}
