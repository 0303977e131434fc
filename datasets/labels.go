package datasets

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// labelDelimiter separates the profile id from its category in a label file.
const labelDelimiter = ":::"

// DefaultClasses maps the PAN gender categories to their class codes.
var DefaultClasses = map[string]int{
	"female": 0,
	"male":   1,
}

// LabelTable maps a profile id to its class code. It is never modified after
// it has been loaded.
type LabelTable map[string]int

// LoadLabels reads a label file where each non-empty line is
// "<id>:::<category>" and maps every category through classes.
func LoadLabels(path string, classes map[string]int) (LabelTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open label file %s", path)
	}
	defer file.Close()

	labels, err := ParseLabels(file, classes)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load labels from %s", path)
	}
	return labels, nil
}

// ParseLabels parses label lines from r. See LoadLabels for the format.
func ParseLabels(r io.Reader, classes map[string]int) (LabelTable, error) {
	labels := make(LabelTable)
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if len(line) == 0 {
			continue
		}

		id, category, ok := strings.Cut(line, labelDelimiter)
		if !ok {
			return nil, errors.Wrapf(ErrMalformedLabelLine, "line %d: %q", lineNo, line)
		}
		class, ok := classes[category]
		if !ok {
			return nil, errors.Wrapf(ErrUnrecognizedLabel, "line %d: category %q for id %s", lineNo, category, id)
		}
		labels[id] = class
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read labels")
	}
	return labels, nil
}

// Lookup returns the class code of a profile id.
func (l LabelTable) Lookup(id string) (int, error) {
	class, ok := l[id]
	if !ok {
		return 0, errors.Wrapf(ErrUnlabeledProfile, "profile %s", id)
	}
	return class, nil
}
