package datasets

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func TestNormalizeDocuments_PadsWithZeros(t *testing.T) {
	tmp := t.TempDir()
	writeProfile(t, tmp, "a1", "en", []string{"ab", "", "xyz"})

	out, err := NormalizeDocuments(filepath.Join(tmp, "a1.xml"), 5, runeEncoder)
	if err != nil {
		t.Fatalf("NormalizeDocuments failed: %v", err)
	}
	if diff := cmp.Diff([]int{3, 5}, out.Shape); diff != "" {
		t.Fatalf("unexpected shape (-want +got):\n%s", diff)
	}
	want := []float32{
		'a', 'b', 0, 0, 0,
		0, 0, 0, 0, 0,
		'x', 'y', 'z', 0, 0,
	}
	if diff := cmp.Diff(want, out.Data); diff != "" {
		t.Fatalf("unexpected data (-want +got):\n%s", diff)
	}
}

func TestNormalizeDocuments_FeatureDims(t *testing.T) {
	tmp := t.TempDir()
	writeProfile(t, tmp, "a1", "en", []string{"ab", "c"})

	out, err := NormalizeDocuments(filepath.Join(tmp, "a1.xml"), 3, pairEncoder)
	if err != nil {
		t.Fatalf("NormalizeDocuments failed: %v", err)
	}
	if diff := cmp.Diff([]int{2, 3, 2}, out.Shape); diff != "" {
		t.Fatalf("unexpected shape (-want +got):\n%s", diff)
	}
	want := []float32{
		'a', 1, 'b', 1, 0, 0,
		'c', 1, 0, 0, 0, 0,
	}
	if diff := cmp.Diff(want, out.Data); diff != "" {
		t.Fatalf("unexpected data (-want +got):\n%s", diff)
	}
}

func TestNormalizeDocuments_ExactMinLength(t *testing.T) {
	tmp := t.TempDir()
	writeProfile(t, tmp, "a1", "en", []string{"abcde"})

	out, err := NormalizeDocuments(filepath.Join(tmp, "a1.xml"), 5, runeEncoder)
	if err != nil {
		t.Fatalf("NormalizeDocuments failed: %v", err)
	}
	if out.Shape[0] != 1 || out.Shape[1] != 5 || out.Data[4] != 'e' {
		t.Fatalf("unexpected output: shape=%v data=%v", out.Shape, out.Data)
	}
}

func TestNormalizeDocuments_SequenceTooLong(t *testing.T) {
	tmp := t.TempDir()
	writeProfile(t, tmp, "a1", "en", []string{"ok", "abcdef"})

	_, err := NormalizeDocuments(filepath.Join(tmp, "a1.xml"), 5, runeEncoder)
	if !errors.Is(err, ErrSequenceTooLong) {
		t.Fatalf("expected ErrSequenceTooLong, got %v", err)
	}
}

func TestNormalizeDocuments_DataLongerThanShape(t *testing.T) {
	tmp := t.TempDir()
	writeProfile(t, tmp, "a1", "en", []string{"abc"})

	enc := TextEncoderFunc(func(string) (Tensor, int, error) {
		return Tensor{Shape: []int{3}, Data: []float32{1, 2, 3, 4, 5, 6, 7, 8}}, 3, nil
	})
	_, err := NormalizeDocuments(filepath.Join(tmp, "a1.xml"), 5, enc)
	if !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch, got %v", err)
	}
}

func TestNormalizeDocuments_NoDocuments(t *testing.T) {
	tmp := t.TempDir()
	writeProfile(t, tmp, "a1", "en", nil)

	out, err := NormalizeDocuments(filepath.Join(tmp, "a1.xml"), 5, runeEncoder)
	if err != nil {
		t.Fatalf("NormalizeDocuments failed: %v", err)
	}
	if diff := cmp.Diff([]int{0, 5}, out.Shape); diff != "" {
		t.Fatalf("unexpected shape (-want +got):\n%s", diff)
	}
	if len(out.Data) != 0 {
		t.Fatalf("expected no data, got %d values", len(out.Data))
	}
}

func TestNormalizeDocuments_InconsistentFeatures(t *testing.T) {
	tmp := t.TempDir()
	writeProfile(t, tmp, "a1", "en", []string{"a", "bb"})

	calls := 0
	enc := TextEncoderFunc(func(text string) (Tensor, int, error) {
		calls++
		if calls == 1 {
			return NewTensor(1, 2), 1, nil
		}
		return NewTensor(2, 3), 2, nil
	})
	_, err := NormalizeDocuments(filepath.Join(tmp, "a1.xml"), 4, enc)
	if !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch, got %v", err)
	}
}

func TestNormalizeDocuments_EncoderError(t *testing.T) {
	tmp := t.TempDir()
	writeProfile(t, tmp, "a1", "en", []string{"a"})

	boom := errors.New("boom")
	enc := TextEncoderFunc(func(string) (Tensor, int, error) { return Tensor{}, 0, boom })
	if _, err := NormalizeDocuments(filepath.Join(tmp, "a1.xml"), 4, enc); !errors.Is(err, boom) {
		t.Fatalf("expected encoder error, got %v", err)
	}
}

func TestStack_ShapeMismatch(t *testing.T) {
	_, err := Stack([]Tensor{NewTensor(2), NewTensor(3)})
	if !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch, got %v", err)
	}
}

func TestTensor_Index(t *testing.T) {
	tt, err := FromSlice([]float32{1, 2, 3, 4, 5, 6}, 3, 2)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	row := tt.Index(1)
	if diff := cmp.Diff([]float32{3, 4}, row.Data); diff != "" {
		t.Fatalf("unexpected row (-want +got):\n%s", diff)
	}
	if _, err := FromSlice([]float32{1, 2, 3}, 2, 2); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch, got %v", err)
	}
}
