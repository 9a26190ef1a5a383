package analyzer

import (
	"bytes"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// DefaultMaxDimension caps the long edge of the working frame. Statistics are
// computed at this scale, so the edge-variance thresholds in DefaultThresholds
// are defined relative to it.
const DefaultMaxDimension = 512

// decodeFrame turns raw encoded bytes into an NRGBA frame whose long edge is
// at most maxDim pixels. Decoding is a pure transform: no disk or network
// access, and the same bytes always yield the same frame.
func decodeFrame(data []byte, maxDim int) (*image.NRGBA, error) {
	if len(data) == 0 {
		return nil, &DecodeError{Reason: "empty input"}
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Reason: "unrecognized or corrupt image data", Err: err}
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil, &DecodeError{Reason: "image has zero area (" + format + ")"}
	}

	dstW, dstH := cappedSize(width, height, maxDim)
	dst := image.NewNRGBA(image.Rect(0, 0, dstW, dstH))
	if dstW == width && dstH == height {
		xdraw.Draw(dst, dst.Bounds(), img, bounds.Min, xdraw.Src)
		return dst, nil
	}

	// Catmull-Rom is a fixed-kernel resampler, so the downscale is
	// deterministic for a given input and cap.
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Src, nil)
	return dst, nil
}

// cappedSize scales (w, h) so the long edge is at most maxDim, preserving
// aspect ratio. Dimensions never round down to zero.
func cappedSize(w, h, maxDim int) (int, int) {
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return w, h
	}
	if w >= h {
		scaled := h * maxDim / w
		if scaled < 1 {
			scaled = 1
		}
		return maxDim, scaled
	}
	scaled := w * maxDim / h
	if scaled < 1 {
		scaled = 1
	}
	return scaled, maxDim
}
