// Package datasets exposes the PAN author profiling corpus as an
// index-addressable collection of fixed-shape records suitable for model
// training.
//
// The dataset uses lazy loading - it only keeps the label table and the list
// of profile ids in memory and reads the XML, images and labels of a profile
// when that profile is requested.
//
// Layout and intended usage:
//
// AuthorProfilingDataset
//   - Stores the ids of every <id>.xml profile in Root whose lang attribute
//     matches the configured language.
//   - Get(i) parses the profile documents, encodes each one with the
//     caller-supplied TextEncoder and zero-pads it to MinLength.
//   - Get(i) loads the 10 image slots <id>.<k>.jpeg|png (missing slots become
//     a placeholder), thumbnails them and encodes them with the caller-supplied
//     ImageEncoder.
//   - The label comes from the <lang>.txt side table (female=0, male=1).
//
// Notes on gomlx tensors:
//   - Records are returned as contiguous float32 buffers with shape metadata
//     (see Tensor). Tensor.ToGomlx and Record.Tensors convert them into gomlx
//     tensors for training code.
//   - Sequential wraps the dataset as a gomlx train.Dataset yielding one
//     record per call.
//   - Batching and shuffling are left to the caller.
package datasets

// Dataset is the collection contract served by AuthorProfilingDataset.
// Get must be safe to call repeatedly, in any order and from multiple
// goroutines once the dataset has been constructed.
type Dataset interface {
	Len() int
	Get(i int) (Record, error)
}

var _ Dataset = (*AuthorProfilingDataset)(nil)
