package faceeval

import (
	"image"

	"github.com/faceeval/faceeval/utils"
	"go.uber.org/zap"
)

// occlusionScanLimit is the upper intensity bound of the occlusion scan.
// Occluding objects, masks and shadows appear as dark uniform blobs.
const occlusionScanLimit = 100

// OcclusionDetector looks for large connected blobs of similar intensity
// covering the landmark regions.
type OcclusionDetector struct {
	Window    int
	Threshold float64
	Regions   RegionExtractor
	Sink      DebugSink
	Logger    *zap.Logger
}

// RegionResult is the occlusion outcome of a single landmark region.
// Level is the pyramid level of the first detection and is -1 when the
// region is not occluded. Skipped regions had no pixels to analyse.
type RegionResult struct {
	Label    Label
	Occluded bool
	Skipped  bool
	Level    int
}

// DetectInRegion scans the intensity range with a sliding window overlapping by half
// of its width. For every window the pixels falling inside it (bounds included) form
// a binary mask; the region is occluded when the largest 8-connected component of
// any mask covers at least the threshold fraction of the region.
func (od OcclusionDetector) DetectInRegion(img *image.Gray) bool {
	b := img.Bounds()
	total := b.Dx() * b.Dy()
	if total == 0 {
		return false
	}
	threshold := float64(total) * od.Threshold
	step := utils.Max(od.Window/2, 1)

	for start, end := 0, 0; end < occlusionScanLimit; start += step {
		end = utils.Min(start+od.Window, occlusionScanLimit)

		largest := largestComponent(img, uint8(start), uint8(end))
		if float64(largest) >= threshold {
			od.logger().Debug("occlusion blob found",
				zap.Int("window_start", start),
				zap.Int("window_end", end),
				zap.Int("largest_component", largest),
				zap.Float64("threshold", threshold),
			)
			if od.Sink != nil {
				od.Sink.Show("occlusion", img)
			}
			return true
		}
	}
	return false
}

// DetectAcrossLandmarks runs the occlusion scan over the pyramid of every
// non-empty landmark region, from the finest level to the coarsest, and
// stops at the first level where the region is found occluded.
func (od OcclusionDetector) DetectAcrossLandmarks(in *Intrinsic) []RegionResult {
	regions := od.Regions.Extract(in)
	results := make([]RegionResult, 0, len(regions))

	for _, region := range regions {
		res := RegionResult{Label: region.Label, Level: -1}
		if region.Empty() {
			res.Skipped = true
			results = append(results, res)
			continue
		}

		for i, level := range BuildPyramid(region.Image) {
			if od.DetectInRegion(level) {
				res.Occluded = true
				res.Level = i
				break
			}
		}
		results = append(results, res)
	}
	return results
}

func (od OcclusionDetector) logger() *zap.Logger {
	if od.Logger == nil {
		return zap.NewNop()
	}
	return od.Logger
}

// largestComponent returns the pixel count of the largest 8-connected
// component of the pixels with intensity within [lo, hi].
func largestComponent(img *image.Gray, lo, hi uint8) int {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	inRange := func(x, y int) bool {
		v := img.Pix[img.PixOffset(b.Min.X+x, b.Min.Y+y)]
		return v >= lo && v <= hi
	}

	visited := make([]bool, w*h)
	stack := make([]int, 0, 64)
	largest := 0

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if visited[idx] || !inRange(x, y) {
				continue
			}

			// Flood fill the component starting from the current pixel.
			visited[idx] = true
			stack = append(stack[:0], idx)
			size := 0

			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				size++

				px, py := p%w, p/w
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						nx, ny := px+dx, py+dy
						if nx < 0 || ny < 0 || nx >= w || ny >= h {
							continue
						}
						n := ny*w + nx
						if visited[n] || !inRange(nx, ny) {
							continue
						}
						visited[n] = true
						stack = append(stack, n)
					}
				}
			}
			if size > largest {
				largest = size
			}
		}
	}
	return largest
}
