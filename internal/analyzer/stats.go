package analyzer

import (
	"image"
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/stat"
)

// flatTolerance is the half-width (in 8-bit gray levels) of the band around
// the modal gray value that counts toward flatness.
const flatTolerance = 8

// statsExtractor computes PixelStatistics from a decoded frame. It is
// stateless and safe for concurrent use.
type statsExtractor struct{}

func newStatsExtractor() *statsExtractor {
	return &statsExtractor{}
}

// stripSums holds one horizontal strip's partial accumulation.
type stripSums struct {
	r, g, b, sat, val float64
	hist              [256]int
	pixels            int
}

// Extract computes all summary statistics in one conceptual pass. The pixel
// accumulation runs in parallel horizontal strips; partial sums are combined
// in strip-index order so repeated calls over the same frame produce
// bit-identical results.
func (se *statsExtractor) Extract(frame *image.NRGBA) PixelStatistics {
	width := frame.Rect.Dx()
	height := frame.Rect.Dy()
	if width == 0 || height == 0 {
		return PixelStatistics{}
	}

	gray := make([]uint8, width*height)

	numWorkers := runtime.NumCPU()
	if numWorkers > height {
		numWorkers = height
	}
	if numWorkers < 1 {
		numWorkers = 1
	}
	rowsPerWorker := (height + numWorkers - 1) / numWorkers

	strips := make([]stripSums, numWorkers)
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		startY := i * rowsPerWorker
		endY := startY + rowsPerWorker
		if endY > height {
			endY = height
		}
		if startY >= endY {
			continue
		}
		wg.Add(1)
		go func(idx, startY, endY int) {
			defer wg.Done()
			se.accumulateStrip(frame, gray, width, startY, endY, &strips[idx])
		}(i, startY, endY)
	}
	wg.Wait()

	var total stripSums
	for i := range strips {
		total.r += strips[i].r
		total.g += strips[i].g
		total.b += strips[i].b
		total.sat += strips[i].sat
		total.val += strips[i].val
		total.pixels += strips[i].pixels
		for bin, count := range strips[i].hist {
			total.hist[bin] += count
		}
	}
	if total.pixels == 0 {
		return PixelStatistics{}
	}

	n := float64(total.pixels)
	meanR := total.r / n
	meanG := total.g / n
	meanB := total.b / n

	return PixelStatistics{
		MeanBrightness: total.val / n,
		MeanSaturation: total.sat / n,
		Warmth:         warmthScore(meanR, meanG, meanB),
		EdgeVariance:   laplacianVariance(gray, width, height),
		Flatness:       modalFraction(&total.hist, total.pixels),
	}
}

// accumulateStrip sums channel, saturation, and value contributions for rows
// [startY, endY) and fills the shared gray plane for those rows. Strips touch
// disjoint rows, so the plane needs no locking.
func (se *statsExtractor) accumulateStrip(frame *image.NRGBA, gray []uint8, width, startY, endY int, out *stripSums) {
	for y := startY; y < endY; y++ {
		row := frame.Pix[y*frame.Stride : y*frame.Stride+width*4]
		for x := 0; x < width; x++ {
			r8 := row[x*4]
			g8 := row[x*4+1]
			b8 := row[x*4+2]

			rf := float64(r8) / 255.0
			gf := float64(g8) / 255.0
			bf := float64(b8) / 255.0

			s, v := saturationValue(rf, gf, bf)
			out.sat += s
			out.val += v
			out.r += rf
			out.g += gf
			out.b += bf

			// Rec.601 luma in integer arithmetic.
			luma := uint8((299*int(r8) + 587*int(g8) + 114*int(b8) + 500) / 1000)
			gray[y*width+x] = luma
			out.hist[luma]++
			out.pixels++
		}
	}
}

// saturationValue is the S and V of the HSV conversion. Hue is not needed by
// any downstream statistic.
func saturationValue(r, g, b float64) (s, v float64) {
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	v = max
	if max == 0 {
		return 0, 0
	}
	return (max - min) / max, v
}

// warmthScore is the red/yellow vs blue differential over normalized channel
// means, scaled to [-1,1]. Neutral input (r == g == b) scores exactly 0.
func warmthScore(meanR, meanG, meanB float64) float64 {
	return ((meanR - meanB) + 0.5*(meanG-meanB)) / 1.5
}

// laplacianVariance applies the 4-neighbour Laplacian kernel
// [0 1 0; 1 -4 1; 0 1 0] to the gray plane and returns the variance of the
// response. Frames too small for an interior yield 0.
func laplacianVariance(gray []uint8, width, height int) float64 {
	if width < 3 || height < 3 {
		return 0
	}
	data := make([]float64, 0, (width-2)*(height-2))
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			center := float64(gray[y*width+x])
			top := float64(gray[(y-1)*width+x])
			bottom := float64(gray[(y+1)*width+x])
			left := float64(gray[y*width+x-1])
			right := float64(gray[y*width+x+1])
			data = append(data, -4*center+top+bottom+left+right)
		}
	}
	// Variance needs at least two samples; gonum would return NaN otherwise.
	if len(data) < 2 {
		return 0
	}
	return stat.Variance(data, nil)
}

// modalFraction returns the fraction of pixels whose gray value lies within
// flatTolerance of the modal histogram bin. Ties choose the lowest bin, so
// the result is deterministic.
func modalFraction(hist *[256]int, pixels int) float64 {
	modal := 0
	for bin := 1; bin < 256; bin++ {
		if hist[bin] > hist[modal] {
			modal = bin
		}
	}
	lo := modal - flatTolerance
	if lo < 0 {
		lo = 0
	}
	hi := modal + flatTolerance
	if hi > 255 {
		hi = 255
	}
	near := 0
	for bin := lo; bin <= hi; bin++ {
		near += hist[bin]
	}
	return float64(near) / float64(pixels)
}
