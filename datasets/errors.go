package datasets

import "github.com/pkg/errors"

// Errors returned by the dataset. They are wrapped with context, use
// errors.Is to match them.
var (
	// ErrUnrecognizedLabel is returned when a label file names a category
	// that is not part of the configured classes.
	ErrUnrecognizedLabel = errors.New("unrecognized label")
	// ErrMalformedLabelLine is returned for a label line without the ":::" delimiter.
	ErrMalformedLabelLine = errors.New("malformed label line")
	// ErrCorruptProfile is returned when a profile XML file cannot be parsed.
	ErrCorruptProfile = errors.New("corrupt profile file")
	// ErrUnlabeledProfile is returned when an indexed profile has no entry in the label table.
	ErrUnlabeledProfile = errors.New("unlabeled profile")
	// ErrOutOfRange is returned by Get for positions outside [0, Len()).
	ErrOutOfRange = errors.New("index out of range")
	// ErrSequenceTooLong is returned when an encoded document is longer than MinLength.
	ErrSequenceTooLong = errors.New("sequence exceeds min length")
	// ErrShapeMismatch is returned when encoder outputs of one record cannot be stacked.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrInvalidConfig is returned by New for unusable options.
	ErrInvalidConfig = errors.New("invalid dataset configuration")
)
