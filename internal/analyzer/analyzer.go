package analyzer

// AnalysisOptions configures one analysis invocation.
type AnalysisOptions struct {
	// Thresholds is the classification policy.
	Thresholds Thresholds
	// MaxDimension caps the long edge of the working frame, in pixels.
	// Larger inputs are downscaled preserving aspect ratio.
	MaxDimension int
}

// DefaultOptions returns the reference analysis configuration.
func DefaultOptions() AnalysisOptions {
	return AnalysisOptions{
		Thresholds:   DefaultThresholds(),
		MaxDimension: DefaultMaxDimension,
	}
}

// WithThresholds replaces the classification policy.
func (opts AnalysisOptions) WithThresholds(th Thresholds) AnalysisOptions {
	opts.Thresholds = th
	return opts
}

// WithMaxDimension replaces the processing-scale cap.
func (opts AnalysisOptions) WithMaxDimension(maxDim int) AnalysisOptions {
	opts.MaxDimension = maxDim
	return opts
}

// ImageAnalyzer derives descriptive tags from raw encoded image bytes.
//
// The engine is a pure function of its input: it keeps no state across calls,
// performs no I/O, and is safe for concurrent use. Each invocation runs the
// linear pipeline decode -> extract -> classify -> assemble and terminates in
// either a complete AnalysisResult or an error, never a partial result.
type ImageAnalyzer interface {
	// Analyze runs the pipeline with default options.
	Analyze(data []byte) (AnalysisResult, error)
	// AnalyzeWithOptions runs the pipeline with an explicit configuration.
	AnalyzeWithOptions(data []byte, options AnalysisOptions) (AnalysisResult, error)
}

type coreAnalyzer struct {
	extractor *statsExtractor
}

// NewImageAnalyzer creates the media-analysis engine.
func NewImageAnalyzer() ImageAnalyzer {
	return &coreAnalyzer{extractor: newStatsExtractor()}
}

func (ca *coreAnalyzer) Analyze(data []byte) (AnalysisResult, error) {
	return ca.AnalyzeWithOptions(data, DefaultOptions())
}

func (ca *coreAnalyzer) AnalyzeWithOptions(data []byte, options AnalysisOptions) (AnalysisResult, error) {
	maxDim := options.MaxDimension
	if maxDim <= 0 {
		maxDim = DefaultMaxDimension
	}

	frame, err := decodeFrame(data, maxDim)
	if err != nil {
		return AnalysisResult{}, err
	}

	stats := ca.extractor.Extract(frame)

	cls := newClassifier(options.Thresholds)
	return assemble(cls.Keywords(stats), cls.Vibe(stats), cls.Quality(stats))
}

var validVibes = map[string]struct{}{
	VibeEnergetic: {},
	VibeCalm:      {},
	VibeMoody:     {},
	VibeNeutral:   {},
}

var validQualities = map[string]struct{}{
	QualitySharp:  {},
	QualitySoft:   {},
	QualityBlurry: {},
}

var validKeywords = map[string]struct{}{
	KeywordWarm:    {},
	KeywordCool:    {},
	KeywordBright:  {},
	KeywordMinimal: {},
	KeywordBusy:    {},
	KeywordVibrant: {},
}

// assemble packages the labels into an AnalysisResult after checking the
// classifier's output contract. A violation is a defect, surfaced as an
// AssemblyError rather than silently defaulted.
func assemble(keywords []string, vibe, quality string) (AnalysisResult, error) {
	if len(keywords) > MaxKeywords {
		return AnalysisResult{}, &AssemblyError{Reason: "keyword set exceeds cap"}
	}
	for _, kw := range keywords {
		if _, ok := validKeywords[kw]; !ok {
			return AnalysisResult{}, &AssemblyError{Reason: "keyword outside vocabulary: " + kw}
		}
	}
	if _, ok := validVibes[vibe]; !ok {
		return AnalysisResult{}, &AssemblyError{Reason: "vibe outside enumeration: " + vibe}
	}
	if _, ok := validQualities[quality]; !ok {
		return AnalysisResult{}, &AssemblyError{Reason: "quality outside enumeration: " + quality}
	}

	if keywords == nil {
		keywords = []string{}
	}
	return AnalysisResult{Keywords: keywords, Vibe: vibe, Quality: quality}, nil
}
