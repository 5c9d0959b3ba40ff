package detect

import (
	"image"
	"image/draw"

	"github.com/faceeval/faceeval"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// AlignedSize is the default side length of the aligned face crop.
const AlignedSize = 112

// arcfaceTemplate holds the reference landmark positions of a 112x112 aligned face.
var arcfaceTemplate = [faceeval.LandmarkCount][2]float64{
	{38.2946, 51.6963},
	{73.5318, 51.5014},
	{56.0252, 71.7366},
	{41.5493, 92.3655},
	{70.7299, 92.2041},
}

// Align warps the face so that its landmarks match the reference template
// scaled to a size x size crop. The transform is the least squares
// similarity (rotation, uniform scale and translation) between the two
// landmark sets.
func Align(img image.Image, lm faceeval.Landmarks, size int) *image.NRGBA {
	if size <= 0 {
		size = AlignedSize
	}
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.Draw(dst, dst.Bounds(), image.Black, image.Point{}, draw.Src)

	s2d := similarity(lm, templateFor(size))
	xdraw.BiLinear.Transform(dst, s2d, img, img.Bounds(), xdraw.Src, nil)
	return dst
}

func templateFor(size int) [faceeval.LandmarkCount][2]float64 {
	ratio := float64(size) / AlignedSize
	var t [faceeval.LandmarkCount][2]float64
	for i, p := range arcfaceTemplate {
		t[i] = [2]float64{p[0] * ratio, p[1] * ratio}
	}
	return t
}

// similarity estimates the transform mapping the landmarks onto dst.
// Writing the points as complex numbers the transform is q = c*p + t,
// with the closed form least squares solution
// c = sum((q-mq) * conj(p-mp)) / sum(|p-mp|^2) and t = mq - c*mp.
func similarity(lm faceeval.Landmarks, dst [faceeval.LandmarkCount][2]float64) f64.Aff3 {
	var mpx, mpy, mqx, mqy float64
	for i, p := range lm {
		mpx += float64(p.X)
		mpy += float64(p.Y)
		mqx += dst[i][0]
		mqy += dst[i][1]
	}
	n := float64(len(lm))
	mpx, mpy, mqx, mqy = mpx/n, mpy/n, mqx/n, mqy/n

	var re, im, norm float64
	for i, p := range lm {
		px, py := float64(p.X)-mpx, float64(p.Y)-mpy
		qx, qy := dst[i][0]-mqx, dst[i][1]-mqy

		re += qx*px + qy*py
		im += qy*px - qx*py
		norm += px*px + py*py
	}
	if norm == 0 {
		// All the landmarks collapse into a single point: only translate.
		return f64.Aff3{1, 0, mqx - mpx, 0, 1, mqy - mpy}
	}

	a, b := re/norm, im/norm
	tx := mqx - (a*mpx - b*mpy)
	ty := mqy - (b*mpx + a*mpy)

	return f64.Aff3{
		a, -b, tx,
		b, a, ty,
	}
}
