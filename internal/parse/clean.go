package parse

import (
	"regexp"
	"strings"
)

// DefaultDisclaimers are the boilerplate tails the model appends to medical
// answers. Each pattern removes from its first match to the end of the text
// and they are applied in this order.
var DefaultDisclaimers = []*regexp.Regexp{
	regexp.MustCompile(`(?is)(?:important note:|disclaimer:|this information is for general knowledge purposes only).*$`),
	regexp.MustCompile(`(?is)please consult a healthcare professional.*$`),
	regexp.MustCompile(`(?is)the ai-generated content is not a substitute.*$`),
}

// StripEmphasis removes markdown emphasis markers.
func StripEmphasis(s string) string { return strings.ReplaceAll(s, "*", "") }

// Clean strips emphasis, then each disclaimer pattern in order, then trims.
func (p *Parser) Clean(s string) string {
	s = StripEmphasis(s)
	for _, re := range p.disclaimers {
		s = re.ReplaceAllString(s, "")
	}
	return strings.TrimSpace(s)
}
