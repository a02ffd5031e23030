// Package parse turns the model's loosely labelled prose into structured
// results. Every function is pure: text in, result or ErrUnparseable out.
package parse

import (
	"errors"
	"regexp"
	"strings"

	"github.com/samber/lo"
)

// ErrUnparseable means the text did not carry the expected labels or
// yielded nothing displayable. Callers show a generic retry message.
var ErrUnparseable = errors.New("could not parse the response")

// Labels requested by the analysis prompt. They are matched case-sensitively.
const (
	LabelDiseaseName   = "Disease Name:"
	LabelMedications   = "Medications:"
	LabelSeverity      = "Severity:"
	LabelQuickRemedies = "Quick Remedies:"

	LabelBestFoods    = "Best Foods:"
	LabelFoodsToAvoid = "Foods to Avoid:"
)

var analysisLabels = []string{LabelDiseaseName, LabelMedications, LabelSeverity, LabelQuickRemedies}

// Parser holds the disclaimer list. The zero value strips no disclaimers;
// use New.
type Parser struct {
	disclaimers []*regexp.Regexp
}

// New returns a Parser using DefaultDisclaimers followed by extra.
func New(extra ...*regexp.Regexp) *Parser {
	ds := make([]*regexp.Regexp, 0, len(DefaultDisclaimers)+len(extra))
	ds = append(ds, DefaultDisclaimers...)
	ds = append(ds, lo.Compact(extra)...)
	return &Parser{disclaimers: ds}
}

// Analysis is the four-field structured result.
type Analysis struct {
	DiseaseName   string `json:"disease_name" yaml:"disease_name"`
	Medications   string `json:"medications" yaml:"medications"`
	Severity      string `json:"severity" yaml:"severity"`
	QuickRemedies string `json:"quick_remedies" yaml:"quick_remedies"`
}

// Remedies splits QuickRemedies into display items, one per non-blank line.
func (a Analysis) Remedies() []string { return lines(a.QuickRemedies) }

// Analysis extracts the four labelled fields. Disease name, medications and
// severity run to the end of their line; quick remedies run to the end of
// the text. A field also stops where another known label starts, so
// single-line answers parse too.
func (p *Parser) Analysis(text string) (Analysis, error) {
	text = StripEmphasis(text)
	var out Analysis
	fields := []struct {
		label     string
		multiline bool
		dst       *string
	}{
		{LabelDiseaseName, false, &out.DiseaseName},
		{LabelMedications, false, &out.Medications},
		{LabelSeverity, false, &out.Severity},
		{LabelQuickRemedies, true, &out.QuickRemedies},
	}
	for _, f := range fields {
		v, ok := extract(text, f.label, f.multiline)
		if !ok {
			return Analysis{}, ErrUnparseable
		}
		v = p.Clean(v)
		v = strings.TrimRight(v, " \t,;")
		if v == "" {
			return Analysis{}, ErrUnparseable
		}
		*f.dst = v
	}
	return out, nil
}

// extract returns the value following label.
func extract(text, label string, multiline bool) (string, bool) {
	i := strings.Index(text, label)
	if i < 0 {
		return "", false
	}
	rest := text[i+len(label):]
	if !multiline {
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[:nl]
		}
	}
	for _, other := range analysisLabels {
		if other == label {
			continue
		}
		if j := strings.Index(rest, other); j >= 0 {
			rest = rest[:j]
		}
	}
	return rest, true
}

// Recommendation is the food advice for a disease.
type Recommendation struct {
	BestFoods    []string `json:"best_foods" yaml:"best_foods"`
	FoodsToAvoid []string `json:"foods_to_avoid" yaml:"foods_to_avoid"`
}

// Recommendations splits text on the "Foods to Avoid:" marker. Both halves
// are cleaned and listed; both empty is a parse failure.
func (p *Parser) Recommendations(text string) (Recommendation, error) {
	sections := strings.SplitN(StripEmphasis(text), LabelFoodsToAvoid, 2)
	best := strings.Replace(sections[0], LabelBestFoods, "", 1)
	out := Recommendation{BestFoods: p.listItems(best), FoodsToAvoid: []string{}}
	if len(sections) > 1 {
		out.FoodsToAvoid = p.listItems(sections[1])
	}
	if len(out.BestFoods) == 0 && len(out.FoodsToAvoid) == 0 {
		return Recommendation{}, ErrUnparseable
	}
	return out, nil
}

func (p *Parser) listItems(section string) []string {
	return lo.FilterMap(lines(p.Clean(section)), func(s string, _ int) (string, bool) {
		s = strings.TrimSpace(trimBullet(s))
		return s, s != ""
	})
}

var bulletRe = regexp.MustCompile(`^(?:[-•+]|\d+[.)])\s*`)

func trimBullet(s string) string { return bulletRe.ReplaceAllString(s, "") }

// Questions returns the clarifying questions, one per non-blank line.
func (p *Parser) Questions(text string) ([]string, error) {
	qs := lo.Map(lines(StripEmphasis(text)), func(s string, _ int) string {
		return strings.TrimSpace(trimBullet(s))
	})
	qs = lo.Compact(qs)
	if len(qs) == 0 {
		return nil, ErrUnparseable
	}
	return qs, nil
}

// Summary cleans a free-text answer such as the cause summary.
func (p *Parser) Summary(text string) (string, error) {
	s := p.Clean(text)
	if s == "" {
		return "", ErrUnparseable
	}
	return s, nil
}

func lines(s string) []string {
	return lo.FilterMap(strings.Split(s, "\n"), func(l string, _ int) (string, bool) {
		l = strings.TrimSpace(l)
		return l, l != ""
	})
}
