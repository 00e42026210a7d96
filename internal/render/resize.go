// Package render holds the mechanical image transforms of the export
// stage: aspect-preserving resize and the optional date/time overlay.
package render

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// Resize scales img to the target width, preserving aspect ratio, using
// Catmull-Rom resampling. A non-positive width or a width equal to the
// source width returns the input unchanged.
func Resize(img image.Image, width int) image.Image {
	bounds := img.Bounds()
	if width <= 0 || width == bounds.Dx() || bounds.Dx() == 0 {
		return img
	}

	height := bounds.Dy() * width / bounds.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)
	return dst
}
