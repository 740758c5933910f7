package imageio

import (
	"image"
	"image/color"

	"github.com/anime-shed/spatialplot-go/pkg/normalize"
)

// Is16Bit reports whether the image stores more than 8 bits per sample.
func Is16Bit(img image.Image) bool {
	switch img.ColorModel() {
	case color.Gray16Model, color.RGBA64Model, color.NRGBA64Model:
		return true
	}
	return false
}

// IsGray reports whether the image has a single intensity channel.
func IsGray(img image.Image) bool {
	switch img.ColorModel() {
	case color.GrayModel, color.Gray16Model:
		return true
	}
	return false
}

// ToGrayStack converts img into a single-channel stack. 8-bit sources
// yield values in 0..255, 16-bit sources in 0..65535.
func ToGrayStack(img image.Image) (*normalize.Stack, error) {
	b := img.Bounds()
	s, err := normalize.NewStack(1, b.Dy(), b.Dx())
	if err != nil {
		return nil, err
	}
	plane := s.Channel(0).RawMatrix()

	switch src := img.(type) {
	case *image.Gray:
		for y := 0; y < b.Dy(); y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+b.Dx()]
			for x, v := range row {
				plane.Data[y*plane.Stride+x] = float64(v)
			}
		}
	case *image.Gray16:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				plane.Data[(y-b.Min.Y)*plane.Stride+(x-b.Min.X)] = float64(src.Gray16At(x, y).Y)
			}
		}
	default:
		shift := sampleShift(img)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				g := color.Gray16Model.Convert(img.At(x, y)).(color.Gray16)
				plane.Data[(y-b.Min.Y)*plane.Stride+(x-b.Min.X)] = float64(g.Y >> shift)
			}
		}
	}
	return s, nil
}

// ToRGBStack converts img into a three-channel (R, G, B) stack. Alpha is
// dropped; samples are alpha-premultiplied as returned by color.RGBA().
func ToRGBStack(img image.Image) (*normalize.Stack, error) {
	b := img.Bounds()
	s, err := normalize.NewStack(3, b.Dy(), b.Dx())
	if err != nil {
		return nil, err
	}
	r, g, bl := s.Channel(0).RawMatrix(), s.Channel(1).RawMatrix(), s.Channel(2).RawMatrix()
	shift := sampleShift(img)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			rv, gv, bv, _ := img.At(x, y).RGBA()
			i := (y-b.Min.Y)*r.Stride + (x - b.Min.X)
			r.Data[i] = float64(rv >> shift)
			g.Data[i] = float64(gv >> shift)
			bl.Data[i] = float64(bv >> shift)
		}
	}
	return s, nil
}

func sampleShift(img image.Image) uint {
	if Is16Bit(img) {
		return 0
	}
	return 8
}
