package datasets

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	// SlotCount is the number of image slots of every profile.
	SlotCount = 10
	// PlaceholderSize is the width and height of the image used for empty slots.
	PlaceholderSize = 10
)

// ImageExtensions are tried in order when opening a slot.
var ImageExtensions = []string{".jpeg", ".png"}

// ImageEncoder turns a decoded image into a tensor. All images of a record
// must encode to the same shape.
type ImageEncoder interface {
	EncodeImage(img image.Image) (Tensor, error)
}

// ImageEncoderFunc adapts a function to the ImageEncoder interface.
type ImageEncoderFunc func(img image.Image) (Tensor, error)

// EncodeImage implements ImageEncoder.
func (f ImageEncoderFunc) EncodeImage(img image.Image) (Tensor, error) { return f(img) }

// Placeholder returns the opaque black image substituted for empty slots.
func Placeholder() image.Image {
	return imaging.New(PlaceholderSize, PlaceholderSize, color.Black)
}

// Thumbnail shrinks img so that its longer edge is at most longEdge,
// preserving the aspect ratio. Images already within bounds are returned
// unchanged, it never upscales. The shorter edge is rounded and kept >= 1.
func Thumbnail(img image.Image, longEdge int) image.Image {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	long := max(w, h)
	if longEdge <= 0 || long <= longEdge {
		return img
	}

	scale := float64(longEdge) / float64(long)
	newW, newH := longEdge, longEdge
	if w > h {
		newH = max(1, int(math.Round(float64(h)*scale)))
	} else if h > w {
		newW = max(1, int(math.Round(float64(w)*scale)))
	}
	return imaging.Resize(img, newW, newH, imaging.Lanczos)
}

// ImageAssembler loads the image slots of a profile into a fixed-shape tensor.
type ImageAssembler struct {
	Root     string
	Slots    int
	LongEdge int
	Encoder  ImageEncoder
	Logger   *zap.Logger
}

// AssembleImages loads slots images of profile id from root. See ImageAssembler.Assemble.
func AssembleImages(root, id string, slots, longEdge int, enc ImageEncoder) (Tensor, error) {
	a := &ImageAssembler{Root: root, Slots: slots, LongEdge: longEdge, Encoder: enc}
	return a.Assemble(id)
}

// Assemble returns a tensor of shape [Slots, encoder dims...]. Slot k is read
// from <id>.<k>.jpeg or <id>.<k>.png; a missing or undecodable file is
// replaced by Placeholder, so the leading axis is always Slots long.
func (a *ImageAssembler) Assemble(id string) (Tensor, error) {
	encoded := make([]Tensor, a.Slots)
	for slot := range a.Slots {
		img := a.loadSlot(id, slot)
		t, err := a.Encoder.EncodeImage(Thumbnail(img, a.LongEdge))
		if err != nil {
			return Tensor{}, errors.Wrapf(err, "failed to encode image slot %d of %s", slot, id)
		}
		encoded[slot] = t
	}

	out, err := Stack(encoded)
	if err != nil {
		return Tensor{}, errors.Wrapf(err, "images of %s", id)
	}
	return out, nil
}

// loadSlot opens the first existing file for the slot, falling back to the
// placeholder.
func (a *ImageAssembler) loadSlot(id string, slot int) image.Image {
	for _, ext := range ImageExtensions {
		path := slotPath(a.Root, id, slot, ext)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		img, err := imaging.Open(path)
		if err != nil {
			a.logger().Debug("unreadable image, using placeholder",
				zap.String("path", path), zap.Error(err))
			return Placeholder()
		}
		return img
	}
	a.logger().Debug("missing image slot, using placeholder",
		zap.String("id", id), zap.Int("slot", slot))
	return Placeholder()
}

func (a *ImageAssembler) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

func slotPath(root, id string, slot int, ext string) string {
	return filepath.Join(root, fmt.Sprintf("%s.%d%s", id, slot, ext))
}

// countImages returns how many slots of id have an image file on disk.
func countImages(root, id string, slots int) int {
	n := 0
	for slot := range slots {
		for _, ext := range ImageExtensions {
			if _, err := os.Stat(slotPath(root, id, slot, ext)); err == nil {
				n++
				break
			}
		}
	}
	return n
}
