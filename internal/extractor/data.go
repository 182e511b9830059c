package extractor

import (
	"net/url"

	"github.com/go-archivist/archivist/pkg/failure"
	"golang.org/x/net/html"
)

// ExtractionResult holds the extraction outcome.
// DocumentRoot is the original parsed HTML document.
// ContentNode is the extracted meaningful content node (semantic container).
type ExtractionResult struct {
	DocumentRoot *html.Node
	ContentNode  *html.Node
	// HeadingCount is the number of h1-h6 elements found under ContentNode.
	// The scheduler feeds this into humanpace.ResponseShape so the pacing
	// model can react to how structurally dense a page is, not just its
	// byte size.
	HeadingCount int
}

// Extractor turns a fetched page's HTML body into its main-content node.
// Implementations never fail fatally on malformed input in the pipeline
// sense; Extract returns a ClassifiedError the scheduler decides whether
// to treat as terminal for that page.
type Extractor interface {
	Extract(sourceUrl url.URL, htmlByte []byte) (ExtractionResult, failure.ClassifiedError)
	SetExtractParam(params ExtractParam)
}

// ContentScoreMultiplier weights calculateContentScore's signal counts.
type ContentScoreMultiplier struct {
	NonWhitespaceDivisor float64
	Paragraphs           float64
	Headings             float64
	CodeBlocks           float64
	ListItems            float64
}

// MeaningfulThreshold gates whether a candidate node counts as content
// rather than noise (isMeaningful).
type MeaningfulThreshold struct {
	MinNonWhitespace    int
	MinHeadings         int
	MinParagraphsOrCode int
	MaxLinkDensity      float64
}

// ExtractParam configures main-content selection: how heavily a
// container's text/structure is scored (Layer 3 fallback) and what
// counts as meaningful content (all layers).
type ExtractParam struct {
	BodySpecificityBias  float64
	LinkDensityThreshold float64
	ScoreMultiplier      ContentScoreMultiplier
	Threshold            MeaningfulThreshold
}

// DefaultExtractParam returns the extractor's built-in tuning, used until
// SetExtractParam replaces it.
func DefaultExtractParam() ExtractParam {
	return ExtractParam{
		BodySpecificityBias:  0.75,
		LinkDensityThreshold: 0.80,
		ScoreMultiplier: ContentScoreMultiplier{
			NonWhitespaceDivisor: 50.0,
			Paragraphs:           5.0,
			Headings:             10.0,
			CodeBlocks:           15.0,
			ListItems:            2.0,
		},
		Threshold: MeaningfulThreshold{
			MinNonWhitespace:    50,
			MinHeadings:         0,
			MinParagraphsOrCode: 1,
			MaxLinkDensity:      0.8,
		},
	}
}
