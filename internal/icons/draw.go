package icons

import (
	"image"
	"image/color"
	"math"

	"github.com/nekotray/nekotray/internal/daemon/animator"
)

var catColor = color.NRGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}

// DrawCat renders one frame of the running cat on a transparent Size×Size
// canvas. Frames differ in leg, tail and body positions so the five frames
// loop as a gallop.
func DrawCat(frame int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, Size, Size))
	phase := 2 * math.Pi * float64(frame%animator.Frames) / animator.Frames
	bob := math.Sin(phase) * 1.5

	// Body and head.
	fillEllipse(img, 14, 17+bob, 9, 4.5)
	fillEllipse(img, 24, 12+bob, 4.5, 4)

	// Ears.
	fillTriangle(img, [3][2]float64{{21, 10 + bob}, {22, 5 + bob}, {24, 9 + bob}})
	fillTriangle(img, [3][2]float64{{25, 9 + bob}, {27, 5 + bob}, {28, 10 + bob}})

	// Tail swings against the gait.
	tailY := 11 + bob - 3*math.Cos(phase)
	drawLine(img, 6, 15+bob, 1, tailY, 1.2)

	// Front and hind legs move in opposite phase.
	front := 4 * math.Sin(phase)
	hind := -4 * math.Sin(phase)
	drawLine(img, 19, 19+bob, 19+front, 28, 1.3)
	drawLine(img, 17, 19+bob, 17+front*0.6, 28, 1.3)
	drawLine(img, 9, 19+bob, 9+hind, 28, 1.3)
	drawLine(img, 7, 19+bob, 7+hind*0.6, 28, 1.3)

	return img
}

func fillEllipse(img *image.NRGBA, cx, cy, rx, ry float64) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dx := (float64(x) + 0.5 - cx) / rx
			dy := (float64(y) + 0.5 - cy) / ry
			if dx*dx+dy*dy <= 1 {
				img.SetNRGBA(x, y, catColor)
			}
		}
	}
}

func fillTriangle(img *image.NRGBA, p [3][2]float64) {
	sign := func(ax, ay, bx, by, cx, cy float64) float64 {
		return (ax-cx)*(by-cy) - (bx-cx)*(ay-cy)
	}

	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			d1 := sign(px, py, p[0][0], p[0][1], p[1][0], p[1][1])
			d2 := sign(px, py, p[1][0], p[1][1], p[2][0], p[2][1])
			d3 := sign(px, py, p[2][0], p[2][1], p[0][0], p[0][1])
			neg := d1 < 0 || d2 < 0 || d3 < 0
			pos := d1 > 0 || d2 > 0 || d3 > 0
			if !(neg && pos) {
				img.SetNRGBA(x, y, catColor)
			}
		}
	}
}

// drawLine draws a segment of the given half-width.
func drawLine(img *image.NRGBA, x0, y0, x1, y1, width float64) {
	dx, dy := x1-x0, y1-y0
	length2 := dx*dx + dy*dy

	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			t := 0.0
			if length2 > 0 {
				t = ((px-x0)*dx + (py-y0)*dy) / length2
				t = max(0, min(1, t))
			}
			qx, qy := x0+t*dx-px, y0+t*dy-py
			if qx*qx+qy*qy <= width*width {
				img.SetNRGBA(x, y, catColor)
			}
		}
	}
}
