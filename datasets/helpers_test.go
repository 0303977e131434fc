package datasets

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
)

// writeProfile writes <id>.xml with the given lang and documents to root.
func writeProfile(t *testing.T, root, id, lang string, docs []string) {
	t.Helper()
	var b strings.Builder
	fmt.Fprintf(&b, "<author lang=%q>\n\t<documents>\n", lang)
	for _, d := range docs {
		fmt.Fprintf(&b, "\t\t<document><![CDATA[%s]]></document>\n", d)
	}
	b.WriteString("\t</documents>\n</author>\n")
	writeFile(t, filepath.Join(root, id+".xml"), b.String())
}

// writeLabels writes <lang>.txt with one "<id>:::<category>" line per entry.
func writeLabels(t *testing.T, root, lang string, lines []string) {
	t.Helper()
	writeFile(t, filepath.Join(root, lang+".txt"), strings.Join(lines, "\n")+"\n")
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// writeImage saves a solid w x h image; the format follows the extension.
func writeImage(t *testing.T, path string, w, h int) {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("failed to save image %s: %v", path, err)
	}
}

// runeEncoder encodes a document as the sequence of its rune codes.
var runeEncoder = TextEncoderFunc(func(text string) (Tensor, int, error) {
	runes := []rune(text)
	seq := NewTensor(len(runes))
	for i, r := range runes {
		seq.Data[i] = float32(r)
	}
	return seq, len(runes), nil
})

// pairEncoder encodes a document as one [rune, 1] row per rune.
var pairEncoder = TextEncoderFunc(func(text string) (Tensor, int, error) {
	runes := []rune(text)
	seq := NewTensor(len(runes), 2)
	for i, r := range runes {
		seq.Data[i*2] = float32(r)
		seq.Data[i*2+1] = 1
	}
	return seq, len(runes), nil
})

// sizeEncoder encodes an image as its [width, height].
var sizeEncoder = ImageEncoderFunc(func(img image.Image) (Tensor, error) {
	b := img.Bounds()
	return FromSlice([]float32{float32(b.Dx()), float32(b.Dy())}, 2)
})
