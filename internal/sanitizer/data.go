package sanitizer

import (
	"net/url"

	"golang.org/x/net/html"
)

type SanitizedHTMLDoc struct {
	contentNode    *html.Node
	discoveredUrls []url.URL
}

// GetContentNode returns the repaired document root. Callers that only need
// discovered links (link discovery, sitemap expansion) can ignore it; the
// assembler's PDF variant walks it to render sanitized content.
func (s *SanitizedHTMLDoc) GetContentNode() *html.Node {
	return s.contentNode
}

func (s *SanitizedHTMLDoc) GetDiscoveredURLs() []url.URL {
	return s.discoveredUrls
}
