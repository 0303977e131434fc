package datasets

import (
	"context"

	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Record is one normalized profile: its documents, its image slots and its
// class code. Records are built on every Get and owned by the caller.
type Record struct {
	ID string
	// Text has shape [numDocuments, MinLength, features...].
	Text Tensor
	// Images has shape [SlotCount, encoder dims...].
	Images Tensor
	Label  int
}

// Tensors converts the record to gomlx tensors: inputs are [Text, Images] and
// labels holds the class code as a [1]int32 tensor.
func (r Record) Tensors() (inputs []*tensors.Tensor, labels []*tensors.Tensor) {
	inputs = []*tensors.Tensor{r.Text.ToGomlx(), r.Images.ToGomlx()}
	labels = []*tensors.Tensor{tensors.FromFlatDataAndDimensions([]int32{int32(r.Label)}, 1)}
	return inputs, labels
}

// Options configure an AuthorProfilingDataset. Start from DefaultOptions.
type Options struct {
	// Root holds the <id>.xml profiles, their images and the <lang>.txt labels.
	Root string
	// Download provisions Root when it contains no profile.
	Download bool
	// Lang selects the profiles and the label file to use.
	Lang string
	// ImageSize is the long edge images are shrunk to.
	ImageSize int
	// Classes maps label categories to class codes.
	Classes map[string]int

	TextEncoder  TextEncoder
	ImageEncoder ImageEncoder

	// Provisioner fills Root when Download is set. Defaults to an HTTPProvisioner.
	Provisioner Provisioner
	Logger      *zap.Logger

	// EagerLabelValidation checks at construction time that every indexed
	// profile has a label. By default an unlabeled profile only fails when
	// it is read.
	EagerLabelValidation bool
}

// DefaultOptions returns the options of the PAN 2018 English corpus.
func DefaultOptions() Options {
	return Options{
		Root:      "./data",
		Download:  true,
		Lang:      "en",
		ImageSize: 600,
		Classes:   DefaultClasses,
	}
}

// AuthorProfilingDataset serves author profiles as fixed-shape records.
// After construction it is read-only, so Get may be called concurrently.
type AuthorProfilingDataset struct {
	MinLength int

	root   string
	lang   string
	text   TextEncoder
	images *ImageAssembler
	labels LabelTable
	index  *ProfileIndex
	logger *zap.Logger
}

// NewAuthorProfilingDataset prepares the dataset: it creates Root when
// missing, provisions it when it has no profile and Download is set, then
// loads the label table and the profile index of opts.Lang.
func NewAuthorProfilingDataset(ctx context.Context, minLength int, opts Options) (*AuthorProfilingDataset, error) {
	if err := validateOptions(minLength, &opts); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := ensureDir(opts.Root); err != nil {
		return nil, err
	}

	found, err := hasProfileFiles(opts.Root)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to scan %s", opts.Root)
	}
	if !found && opts.Download {
		provisioner := opts.Provisioner
		if provisioner == nil {
			provisioner = NewHTTPProvisioner(logger)
		}
		if err := provisioner.Provision(ctx, opts.Root); err != nil {
			return nil, errors.Wrapf(err, "failed to provision %s", opts.Root)
		}
	}

	labels, err := LoadLabels(labelPath(opts.Root, opts.Lang), opts.Classes)
	if err != nil {
		return nil, err
	}
	index, err := BuildIndex(opts.Root, opts.Lang)
	if err != nil {
		return nil, err
	}

	ds := &AuthorProfilingDataset{
		MinLength: minLength,
		root:      opts.Root,
		lang:      opts.Lang,
		text:      opts.TextEncoder,
		images: &ImageAssembler{
			Root:     opts.Root,
			Slots:    SlotCount,
			LongEdge: opts.ImageSize,
			Encoder:  opts.ImageEncoder,
			Logger:   logger,
		},
		labels: labels,
		index:  index,
		logger: logger,
	}

	if opts.EagerLabelValidation {
		if err := ds.ValidateLabels(); err != nil {
			return nil, err
		}
	}

	logger.Info("author profiling dataset ready",
		zap.String("root", opts.Root),
		zap.String("lang", opts.Lang),
		zap.Int("profiles", index.Len()),
		zap.Int("labels", len(labels)))
	return ds, nil
}

func validateOptions(minLength int, opts *Options) error {
	if minLength <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "min length must be positive, got %d", minLength)
	}
	if opts.Root == "" {
		return errors.Wrap(ErrInvalidConfig, "empty root")
	}
	if opts.Lang == "" {
		return errors.Wrap(ErrInvalidConfig, "empty language")
	}
	if opts.ImageSize <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "image size must be positive, got %d", opts.ImageSize)
	}
	if opts.TextEncoder == nil || opts.ImageEncoder == nil {
		return errors.Wrap(ErrInvalidConfig, "text and image encoders are required")
	}
	if opts.Classes == nil {
		opts.Classes = DefaultClasses
	}
	return nil
}

// Name returns the name of the dataset.
func (d *AuthorProfilingDataset) Name() string {
	return "AuthorProfilingDataset/" + d.lang
}

// Root returns the directory the dataset reads from.
func (d *AuthorProfilingDataset) Root() string { return d.root }

// Lang returns the language of the indexed profiles.
func (d *AuthorProfilingDataset) Lang() string { return d.lang }

// Len returns the number of indexed profiles.
func (d *AuthorProfilingDataset) Len() int {
	return d.index.Len()
}

// IDs returns the indexed profile ids in index order.
func (d *AuthorProfilingDataset) IDs() []string {
	return d.index.IDs()
}

// Labels returns the label table.
func (d *AuthorProfilingDataset) Labels() LabelTable {
	return d.labels
}

// Get builds the record of the profile at position i.
func (d *AuthorProfilingDataset) Get(i int) (Record, error) {
	if i < 0 || i >= d.index.Len() {
		return Record{}, errors.Wrapf(ErrOutOfRange, "index %d out of range [0, %d)", i, d.index.Len())
	}
	id := d.index.ID(i)

	text, err := NormalizeDocuments(profilePath(d.root, id), d.MinLength, d.text)
	if err != nil {
		return Record{}, err
	}
	images, err := d.images.Assemble(id)
	if err != nil {
		return Record{}, err
	}
	label, err := d.labels.Lookup(id)
	if err != nil {
		return Record{}, err
	}

	return Record{ID: id, Text: text, Images: images, Label: label}, nil
}

// ValidateLabels checks that every indexed profile has a label.
func (d *AuthorProfilingDataset) ValidateLabels() error {
	for _, id := range d.index.ids {
		if _, err := d.labels.Lookup(id); err != nil {
			return err
		}
	}
	return nil
}

// ImageCount returns how many of the SlotCount image files of the profile at
// position i exist on disk.
func (d *AuthorProfilingDataset) ImageCount(i int) (int, error) {
	if i < 0 || i >= d.index.Len() {
		return 0, errors.Wrapf(ErrOutOfRange, "index %d out of range [0, %d)", i, d.index.Len())
	}
	return countImages(d.root, d.index.ID(i), SlotCount), nil
}

// DocumentCount returns the number of documents of the profile at position i.
func (d *AuthorProfilingDataset) DocumentCount(i int) (int, error) {
	if i < 0 || i >= d.index.Len() {
		return 0, errors.Wrapf(ErrOutOfRange, "index %d out of range [0, %d)", i, d.index.Len())
	}
	p, err := readProfile(profilePath(d.root, d.index.ID(i)))
	if err != nil {
		return 0, err
	}
	return len(p.Documents), nil
}
