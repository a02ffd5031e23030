// Package render prints analysis and follow-up results for the CLI.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"smartderm/internal/derm"
)

// Format selects the output encoding.
type Format string

const (
	Human Format = "human"
	JSON  Format = "json"
	YAML  Format = "yaml"
)

// ParseFormat accepts human, json, yaml (and yml).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "human", "text":
		return Human, nil
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("unsupported output format %q (human|json|yaml)", s)
}

// Renderer writes results to w in one format.
type Renderer struct {
	w      io.Writer
	format Format
	label  *color.Color
	title  *color.Color
	faint  *color.Color
	warn   *color.Color
}

// New returns a Renderer. Colors follow fatih/color's terminal detection
// unless noColor is set.
func New(w io.Writer, format Format, noColor bool) *Renderer {
	r := &Renderer{
		w:      w,
		format: format,
		label:  color.New(color.FgCyan, color.Bold),
		title:  color.New(color.FgGreen, color.Bold),
		faint:  color.New(color.Faint),
		warn:   color.New(color.FgYellow),
	}
	if noColor {
		for _, c := range []*color.Color{r.label, r.title, r.faint, r.warn} {
			c.DisableColor()
		}
	}
	return r
}

// Analysis prints the four analysis fields with remedies as a list.
func (r *Renderer) Analysis(res derm.AnalysisResult) error {
	if r.format != Human {
		return r.encode(res)
	}
	r.title.Fprintln(r.w, res.DiseaseName)
	r.field("Medications", res.Medications)
	r.field("Severity", res.Severity)
	r.label.Fprintln(r.w, "Quick Remedies:")
	r.list(res.Remedies())
	r.meta(res.Meta)
	return nil
}

// Foods prints the two food lists.
func (r *Renderer) Foods(res derm.FoodsResult) error {
	if r.format != Human {
		return r.encode(res)
	}
	r.title.Fprintf(r.w, "Foods for %s\n", res.DiseaseName)
	r.label.Fprintln(r.w, "Best Foods:")
	r.list(res.BestFoods)
	r.label.Fprintln(r.w, "Foods to Avoid:")
	r.list(res.FoodsToAvoid)
	r.meta(res.Meta)
	return nil
}

// Questions prints the numbered clarifying questions.
func (r *Renderer) Questions(res derm.QuestionsResult) error {
	if r.format != Human {
		return r.encode(res)
	}
	r.title.Fprintf(r.w, "Questions about %s\n", res.DiseaseName)
	for i, q := range res.Questions {
		fmt.Fprintf(r.w, "  %d. %s\n", i+1, q)
	}
	r.meta(res.Meta)
	return nil
}

// Causes prints the cause summary.
func (r *Renderer) Causes(res derm.CausesResult) error {
	if r.format != Human {
		return r.encode(res)
	}
	r.title.Fprintf(r.w, "Likely causes of %s\n", res.DiseaseName)
	fmt.Fprintln(r.w, res.Summary)
	r.meta(res.Meta)
	return nil
}

// Map prints the embed URL for nearby dermatologists.
func (r *Renderer) Map(m derm.MapEmbed) error {
	if r.format != Human {
		return r.encode(m)
	}
	r.field("Dermatologists", m.Query)
	fmt.Fprintln(r.w, m.EmbedURL)
	return nil
}

// Error prints a failure the way the web client shows it.
func (r *Renderer) Error(msg string) {
	r.warn.Fprintln(r.w, msg)
}

func (r *Renderer) field(name, value string) {
	r.label.Fprintf(r.w, "%s: ", name)
	fmt.Fprintln(r.w, value)
}

func (r *Renderer) list(items []string) {
	if len(items) == 0 {
		r.faint.Fprintln(r.w, "  (none)")
		return
	}
	for _, it := range items {
		fmt.Fprintf(r.w, "  • %s\n", strings.TrimLeft(it, "-•+ "))
	}
}

func (r *Renderer) meta(m derm.Meta) {
	if m.Model == "" {
		return
	}
	r.faint.Fprintf(r.w, "model %s, %d attempt(s)\n", m.Model, m.Attempts)
}

// encode writes v as JSON or YAML. YAML goes through JSON first so keys
// match the API field names.
func (r *Renderer) encode(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if r.format == JSON {
		var buf bytes.Buffer
		if err := json.Indent(&buf, b, "", "  "); err != nil {
			return err
		}
		buf.WriteByte('\n')
		_, err = buf.WriteTo(r.w)
		return err
	}
	var generic any
	if err := json.Unmarshal(b, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(r.w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}
