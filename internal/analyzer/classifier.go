package analyzer

// Thresholds is the classification policy. The values are policy, not
// mechanism: changing them retunes the labels without touching the rules.
// Edge-variance thresholds are defined at the engine's processing scale
// (see DefaultMaxDimension).
type Thresholds struct {
	// Warm: |Warmth| above this adds "warm" (positive) or "cool" (negative).
	Warm float64
	// Bright: MeanBrightness above this adds "bright".
	Bright float64
	// Vibrant: MeanSaturation above this adds "vibrant".
	Vibrant float64
	// Flat: Flatness above this adds "minimal"; at or below, a busy edge
	// response adds "busy".
	Flat float64
	// Busy: EdgeVariance above this (on a non-flat image) adds "busy".
	Busy float64
	// Sharp: EdgeVariance above this grades quality "sharp".
	Sharp float64
	// Blur: EdgeVariance at or below this grades quality "blurry";
	// between Blur and Sharp grades "soft".
	Blur float64
}

// DefaultThresholds returns the reference classification policy.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Warm:    0.15,
		Bright:  0.59,
		Vibrant: 0.55,
		Flat:    0.90,
		Busy:    500.0,
		Sharp:   120.0,
		Blur:    25.0,
	}
}

// Vibe boundaries. MeanBrightness and MeanSaturation are normalized [0,1].
const (
	vibeBrightHigh = 0.70
	vibeBrightLow  = 0.35
	vibeSatHigh    = 0.35
	vibeSatLow     = 0.35
)

// classifier maps PixelStatistics to discrete labels using fixed thresholds.
type classifier struct {
	thresholds Thresholds
}

func newClassifier(th Thresholds) *classifier {
	return &classifier{thresholds: th}
}

// Keywords derives the keyword set, capped at MaxKeywords. Conditions are
// evaluated in a fixed priority order (warm/cool, bright, vibrant,
// minimal/busy) so that, were more than MaxKeywords conditions ever to fire,
// the survivors would be deterministic. Warm/cool and minimal/busy are
// mutually exclusive pairs.
func (c *classifier) Keywords(stats PixelStatistics) []string {
	th := c.thresholds
	keywords := make([]string, 0, MaxKeywords)

	add := func(kw string) {
		if len(keywords) < MaxKeywords {
			keywords = append(keywords, kw)
		}
	}

	switch {
	case stats.Warmth > th.Warm:
		add(KeywordWarm)
	case stats.Warmth < -th.Warm:
		add(KeywordCool)
	}
	if stats.MeanBrightness > th.Bright {
		add(KeywordBright)
	}
	if stats.MeanSaturation > th.Vibrant {
		add(KeywordVibrant)
	}
	switch {
	case stats.Flatness > th.Flat:
		add(KeywordMinimal)
	case stats.EdgeVariance > th.Busy:
		add(KeywordBusy)
	}

	return keywords
}

// Vibe derives exactly one vibe label.
func (c *classifier) Vibe(stats PixelStatistics) string {
	switch {
	case stats.MeanBrightness > vibeBrightHigh && stats.MeanSaturation > vibeSatHigh:
		return VibeEnergetic
	case stats.MeanBrightness < vibeBrightLow && stats.MeanSaturation < vibeSatLow:
		return VibeMoody
	case stats.Flatness > c.thresholds.Flat &&
		stats.MeanBrightness >= vibeBrightLow && stats.MeanBrightness <= vibeBrightHigh:
		return VibeCalm
	default:
		return VibeNeutral
	}
}

// Quality derives exactly one sharpness label from the edge-variance proxy.
func (c *classifier) Quality(stats PixelStatistics) string {
	switch {
	case stats.EdgeVariance > c.thresholds.Sharp:
		return QualitySharp
	case stats.EdgeVariance > c.thresholds.Blur:
		return QualitySoft
	default:
		return QualityBlurry
	}
}
