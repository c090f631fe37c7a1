package fetch

import (
	"net/url"
	"strings"

	"github.com/tomnomnom/linkheader"
)

// parseNextLink extracts the rel="next" target from an RFC 8288 Link header.
//
// Parameters:
//   - header: The raw Link header value, possibly listing several links
//   - base: The request URL used to resolve relative targets
//
// Returns:
//   - string: The absolute next URL, or "" when there is none
func parseNextLink(header, base string) string {
	for _, link := range linkheader.Parse(header) {
		for _, rel := range strings.Fields(link.Rel) {
			if strings.EqualFold(rel, "next") {
				return resolve(base, link.URL)
			}
		}
	}
	return ""
}

func resolve(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
