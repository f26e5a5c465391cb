package features

import (
	"image"
)

// Snippet is a rendered window: Width*Height intensities in [0, 1], row-major
// with the top row first.
type Snippet struct {
	Width  int
	Height int
	Pix    []float32
}

func snippetFromAlpha(w, h int, alpha []uint8) *Snippet {
	s := &Snippet{Width: w, Height: h, Pix: make([]float32, w*h)}
	for i, a := range alpha[:w*h] {
		s.Pix[i] = float32(a) / 255
	}
	return s
}

// at returns the intensity at pixel (x, y).
func (s *Snippet) at(x, y int) float32 {
	return s.Pix[y*s.Width+x]
}

// Features returns the snippet flattened for the classifier.
func (s *Snippet) Features() []float64 {
	out := make([]float64, len(s.Pix))
	for i, p := range s.Pix {
		out[i] = float64(p)
	}
	return out
}

// Coverage returns the fraction of the snippet covered by via metal.
func (s *Snippet) Coverage() float64 {
	if len(s.Pix) == 0 {
		return 0
	}
	var sum float64
	for _, p := range s.Pix {
		sum += float64(p)
	}
	return sum / float64(len(s.Pix))
}

// Image returns the snippet as a grayscale image, metal drawn white.
func (s *Snippet) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, s.Width, s.Height))
	for i, p := range s.Pix {
		img.Pix[i] = uint8(p*255 + 0.5)
	}
	return img
}
