package datasets

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// profileExt is the extension of the per-profile structured files.
const profileExt = ".xml"

// profileFile mirrors <author lang="..."><documents><document>...</document></documents></author>.
type profileFile struct {
	XMLName   xml.Name `xml:"author"`
	Lang      string   `xml:"lang,attr"`
	Documents []string `xml:"documents>document"`
}

// profileHeader is the part of a profile needed to index it.
type profileHeader struct {
	XMLName xml.Name `xml:"author"`
	Lang    string   `xml:"lang,attr"`
}

// readProfile parses the whole profile file at path.
func readProfile(path string) (*profileFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open profile %s", path)
	}
	defer file.Close()

	var p profileFile
	if err := xml.NewDecoder(file).Decode(&p); err != nil {
		return nil, errors.Wrapf(ErrCorruptProfile, "%s: %v", path, err)
	}
	return &p, nil
}

// readProfileLang returns the lang attribute of the <author> root element
// without decoding the documents.
func readProfileLang(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to open profile %s", path)
	}
	defer file.Close()

	dec := xml.NewDecoder(file)
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", errors.Wrapf(ErrCorruptProfile, "%s: %v", path, err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		var h profileHeader
		if err := dec.DecodeElement(&h, &start); err != nil {
			return "", errors.Wrapf(ErrCorruptProfile, "%s: %v", path, err)
		}
		return h.Lang, nil
	}
}

// ProfileIndex is the ordered list of profile ids served by a dataset.
type ProfileIndex struct {
	ids []string
}

// BuildIndex scans root for <id>.xml profiles and keeps the ids whose lang
// attribute equals lang. Ids are ordered lexicographically by file name.
//
// Any profile that fails to parse aborts the scan. Labels are not consulted
// here: a profile missing from the label table only fails when it is read.
func BuildIndex(root, lang string) (*ProfileIndex, error) {
	names, err := profileFileNames(root)
	if err != nil {
		return nil, err
	}

	idx := &ProfileIndex{ids: make([]string, 0, len(names))}
	for _, name := range names {
		profileLang, err := readProfileLang(filepath.Join(root, name))
		if err != nil {
			return nil, err
		}
		if profileLang == lang {
			idx.ids = append(idx.ids, strings.TrimSuffix(name, profileExt))
		}
	}
	return idx, nil
}

// Len returns the number of indexed profiles.
func (p *ProfileIndex) Len() int { return len(p.ids) }

// ID returns the profile id at position i.
func (p *ProfileIndex) ID(i int) string { return p.ids[i] }

// IDs returns a copy of the indexed ids in index order.
func (p *ProfileIndex) IDs() []string {
	return append([]string(nil), p.ids...)
}
