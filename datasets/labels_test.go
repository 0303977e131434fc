package datasets

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestLoadLabels_RoundTrip(t *testing.T) {
	tmp := t.TempDir()
	writeLabels(t, tmp, "en", []string{"A001:::female", "", "B002:::male"})

	labels, err := LoadLabels(filepath.Join(tmp, "en.txt"), DefaultClasses)
	if err != nil {
		t.Fatalf("LoadLabels failed: %v", err)
	}
	if len(labels) != 2 {
		t.Fatalf("expected 2 labels, got %d", len(labels))
	}
	if got, err := labels.Lookup("A001"); err != nil || got != 0 {
		t.Fatalf("Lookup(A001) = %d, %v; want 0", got, err)
	}
	if got, err := labels.Lookup("B002"); err != nil || got != 1 {
		t.Fatalf("Lookup(B002) = %d, %v; want 1", got, err)
	}
}

func TestParseLabels_SingleClass(t *testing.T) {
	labels, err := ParseLabels(strings.NewReader("A001:::female\n"), map[string]int{"female": 0})
	if err != nil {
		t.Fatalf("ParseLabels failed: %v", err)
	}
	if got := labels["A001"]; got != 0 {
		t.Fatalf("expected A001 -> 0, got %d", got)
	}
}

func TestParseLabels_WindowsLineEndings(t *testing.T) {
	labels, err := ParseLabels(strings.NewReader("A001:::male\r\nB002:::female\r\n"), DefaultClasses)
	if err != nil {
		t.Fatalf("ParseLabels failed: %v", err)
	}
	if labels["A001"] != 1 || labels["B002"] != 0 {
		t.Fatalf("unexpected labels: %v", labels)
	}
}

func TestParseLabels_Errors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  error
	}{
		{"missing delimiter", "A001 female\n", ErrMalformedLabelLine},
		{"single colon", "A001:female\n", ErrMalformedLabelLine},
		{"unknown category", "A001:::unknown\n", ErrUnrecognizedLabel},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseLabels(strings.NewReader(tc.input), DefaultClasses)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadLabels_MissingFile(t *testing.T) {
	_, err := LoadLabels(filepath.Join(t.TempDir(), "en.txt"), DefaultClasses)
	if err == nil {
		t.Fatalf("expected error for missing label file")
	}
}

func TestLabelTable_LookupUnlabeled(t *testing.T) {
	labels := LabelTable{"A001": 0}
	if _, err := labels.Lookup("Z999"); !errors.Is(err, ErrUnlabeledProfile) {
		t.Fatalf("expected ErrUnlabeledProfile, got %v", err)
	}
}
