package analyzer

// Keyword vocabulary. The classifier never emits a keyword outside this set.
const (
	KeywordWarm    = "warm"
	KeywordCool    = "cool"
	KeywordBright  = "bright"
	KeywordMinimal = "minimal"
	KeywordBusy    = "busy"
	KeywordVibrant = "vibrant"
)

// Vibe labels. Exactly one is produced per analysis.
const (
	VibeEnergetic = "energetic"
	VibeCalm      = "calm"
	VibeMoody     = "moody"
	VibeNeutral   = "neutral"
)

// Quality labels. Exactly one is produced per analysis.
const (
	QualitySharp  = "sharp"
	QualitySoft   = "soft"
	QualityBlurry = "blurry"
)

// MaxKeywords caps the keyword set size.
const MaxKeywords = 4

// PixelStatistics holds the summary statistics derived from a decoded frame.
// All fields are pure functions of the pixel data at the processing scale;
// none may be NaN for a successfully decoded image.
type PixelStatistics struct {
	// MeanBrightness is the mean HSV value channel, normalized to [0,1].
	MeanBrightness float64 `json:"mean_brightness"`
	// MeanSaturation is the mean HSV saturation channel, normalized to [0,1].
	MeanSaturation float64 `json:"mean_saturation"`
	// Warmth is the red/yellow vs blue channel differential in [-1,1].
	// Neutral grays score 0.
	Warmth float64 `json:"warmth"`
	// EdgeVariance is the variance of a 4-neighbour Laplacian response over
	// the 8-bit grayscale plane. Zero for uniform images.
	EdgeVariance float64 `json:"edge_variance"`
	// Flatness is the fraction of pixels within a small tolerance of the
	// modal gray value, in [0,1]. 1.0 for solid-color images.
	Flatness float64 `json:"flatness"`
}

// AnalysisResult is the engine's output record. It is created once per
// invocation and never partially filled: on any failure the caller receives
// an error instead.
type AnalysisResult struct {
	Keywords []string `json:"keywords"`
	Vibe     string   `json:"vibe"`
	Quality  string   `json:"quality"`
}
