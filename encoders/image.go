package encoders

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"github.com/Noofbiz/authorProfiling/datasets"
)

// Pixels encodes an image as a [Channels, Size, Size] tensor with values in
// [0, 1]. Images are fitted into the Size x Size square without distortion
// and centered, the padding is 0 on every channel (transparent when alpha is
// kept).
type Pixels struct {
	Size int
	// WithAlpha keeps the alpha channel: 4 channels instead of 3.
	WithAlpha bool
}

// EncodeImage implements datasets.ImageEncoder.
func (p Pixels) EncodeImage(img image.Image) (datasets.Tensor, error) {
	if p.Size <= 0 {
		return datasets.Tensor{}, errors.Errorf("pixel encoder size must be positive, got %d", p.Size)
	}
	square := p.pad(img)

	channels := 3
	if p.WithAlpha {
		channels = 4
	}
	plane := p.Size * p.Size
	out := datasets.NewTensor(channels, p.Size, p.Size)
	for y := range p.Size {
		row := square.Pix[y*square.Stride:]
		for x := range p.Size {
			px := row[x*4 : x*4+4]
			for c := range channels {
				out.Data[c*plane+y*p.Size+x] = float32(px[c]) / 0xFF
			}
		}
	}
	return out, nil
}

// pad fits img into a Size x Size transparent canvas.
func (p Pixels) pad(img image.Image) *image.NRGBA {
	fitted := imaging.Fit(img, p.Size, p.Size, imaging.Lanczos)
	bg := imaging.New(p.Size, p.Size, color.NRGBA{})
	return imaging.PasteCenter(bg, fitted)
}
