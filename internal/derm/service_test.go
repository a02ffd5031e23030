package derm

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"smartderm/internal/genai"
	"smartderm/internal/parse"
	"smartderm/internal/pipeline"
)

// fakeGen scripts GenerateContent per model and records every call.
type fakeGen struct {
	mu        sync.Mutex
	uploadErr error
	uploads   int
	calls     []string
	reqs      []genai.GenerateRequest
	reply     func(model string, n int) (string, error)
}

func (f *fakeGen) UploadFile(_ context.Context, data []byte, mimeType, name string) (genai.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads++
	if f.uploadErr != nil {
		return genai.File{}, f.uploadErr
	}
	return genai.File{Name: "files/1", URI: "https://files/1", MIMEType: mimeType, DisplayName: name}, nil
}

func (f *fakeGen) GenerateContent(_ context.Context, model string, req genai.GenerateRequest) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, model)
	f.reqs = append(f.reqs, req)
	n := len(f.calls)
	f.mu.Unlock()
	return f.reply(model, n)
}

func noSleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

func newTestService(g *fakeGen, pub pipeline.EventPublisher) *Service {
	return New(g, Config{}, WithEventPublisher(pub), WithPipelineOptions(pipeline.WithSleep(noSleep)))
}

var overloaded = &genai.APIError{StatusCode: 503, Status: "UNAVAILABLE", Message: "The model is overloaded."}

const eczemaText = "Disease Name: Eczema\nMedications: Hydrocortisone\nSeverity: Mild\nQuick Remedies: Moisturize daily.\nDisclaimer: consult a doctor."

var pngImage = Image{Data: []byte("\x89PNG"), MIMEType: "image/png", Name: "a.png"}

func TestAnalyze_Success(t *testing.T) {
	g := &fakeGen{reply: func(string, int) (string, error) { return eczemaText, nil }}
	res, err := newTestService(g, nil).Analyze(context.Background(), pngImage)
	if err != nil { t.Fatalf("analyze: %v", err) }
	if res.DiseaseName != "Eczema" || res.QuickRemedies != "Moisturize daily." { t.Fatalf("unexpected: %+v", res) }
	if res.Model != DefaultAnalysisModels[0] || res.Attempts != 1 { t.Fatalf("meta: %+v", res.Meta) }
	if g.uploads != 1 { t.Fatalf("uploads=%d", g.uploads) }
	if g.reqs[0].File == nil || g.reqs[0].File.URI != "https://files/1" || g.reqs[0].Prompt != AnalysisPrompt {
		t.Fatalf("request not wired: %+v", g.reqs[0])
	}
}

func TestAnalyze_FallbackToLastModel(t *testing.T) {
	models := DefaultAnalysisModels
	g := &fakeGen{reply: func(m string, _ int) (string, error) {
		if m != models[len(models)-1] {
			return "", overloaded
		}
		return eczemaText, nil
	}}
	pub := pipeline.NewMemoryPublisher()
	res, err := newTestService(g, pub).Analyze(context.Background(), pngImage)
	if err != nil { t.Fatalf("analyze: %v", err) }
	if res.Model != models[2] || res.Attempts != 11 { t.Fatalf("meta: %+v", res.Meta) }
	if g.uploads != 1 { t.Fatalf("image must be uploaded once, got %d", g.uploads) }
	if len(pub.Events()) == 0 { t.Fatalf("expected pipeline events") }
}

func TestAnalyze_AllOverloaded(t *testing.T) {
	g := &fakeGen{reply: func(string, int) (string, error) { return "", overloaded }}
	_, err := newTestService(g, nil).Analyze(context.Background(), pngImage)
	if !pipeline.IsAllOverloaded(err) { t.Fatalf("expected all overloaded, got %v", err) }
	if len(g.calls) != 15 { t.Fatalf("calls=%d", len(g.calls)) }
}

func TestAnalyze_UpstreamErrorAborts(t *testing.T) {
	g := &fakeGen{reply: func(string, int) (string, error) {
		return "", &genai.APIError{StatusCode: 400, Status: "INVALID_ARGUMENT", Message: "bad image"}
	}}
	_, err := newTestService(g, nil).Analyze(context.Background(), pngImage)
	if !pipeline.IsUpstream(err) || !strings.Contains(err.Error(), "bad image") { t.Fatalf("unexpected: %v", err) }
	if len(g.calls) != 1 { t.Fatalf("calls=%v", g.calls) }
}

func TestAnalyze_UploadFailureIsUpstream(t *testing.T) {
	g := &fakeGen{uploadErr: errors.New("quota"), reply: func(string, int) (string, error) { return eczemaText, nil }}
	_, err := newTestService(g, nil).Analyze(context.Background(), pngImage)
	if m, ok := pipeline.UpstreamModel(err); !ok || m != "upload" { t.Fatalf("unexpected: %v", err) }
	if len(g.calls) != 0 { t.Fatalf("generate must not run after failed upload") }
}

func TestAnalyze_ParseFailure(t *testing.T) {
	g := &fakeGen{reply: func(string, int) (string, error) { return "I cannot identify this condition.", nil }}
	if _, err := newTestService(g, nil).Analyze(context.Background(), pngImage); !errors.Is(err, parse.ErrUnparseable) {
		t.Fatalf("expected ErrUnparseable, got %v", err)
	}
}

func TestAnalyze_EmptyAnswerIsNoResult(t *testing.T) {
	g := &fakeGen{reply: func(string, int) (string, error) { return "", genai.ErrEmptyResponse }}
	if _, err := newTestService(g, nil).Analyze(context.Background(), pngImage); !errors.Is(err, ErrNoResult) {
		t.Fatalf("expected ErrNoResult, got %v", err)
	}
}

func TestAnalyze_InvalidImage(t *testing.T) {
	g := &fakeGen{reply: func(string, int) (string, error) { return eczemaText, nil }}
	s := newTestService(g, nil)
	if _, err := s.Analyze(context.Background(), Image{MIMEType: "image/png"}); !IsInvalidInput(err) { t.Fatalf("empty: %v", err) }
	if _, err := s.Analyze(context.Background(), Image{Data: []byte("x"), MIMEType: "text/plain"}); !IsInvalidInput(err) { t.Fatalf("mime: %v", err) }
	if g.uploads != 0 { t.Fatalf("invalid input must not reach upstream") }
}

func TestRecommendFoods_UsesFollowUpConfig(t *testing.T) {
	g := &fakeGen{reply: func(string, int) (string, error) { return "Best Foods:\n- Salmon\nFoods to Avoid:\n- Sugar", nil }}
	res, err := newTestService(g, nil).RecommendFoods(context.Background(), "  Eczema ")
	if err != nil { t.Fatalf("foods: %v", err) }
	if res.DiseaseName != "Eczema" || res.BestFoods[0] != "Salmon" || res.FoodsToAvoid[0] != "Sugar" { t.Fatalf("unexpected: %+v", res) }
	r := g.reqs[0]
	if g.calls[0] != DefaultFollowUpModels[0] || r.MaxOutputTokens != 300 || r.Temperature == nil || *r.Temperature != 0.7 || r.File != nil {
		t.Fatalf("request config: model=%s %+v", g.calls[0], r)
	}
	if !strings.Contains(r.Prompt, `"Eczema"`) { t.Fatalf("prompt=%q", r.Prompt) }
}

func TestRecommendFoods_RequiresDisease(t *testing.T) {
	g := &fakeGen{reply: func(string, int) (string, error) { return "", nil }}
	if _, err := newTestService(g, nil).RecommendFoods(context.Background(), " "); !IsInvalidInput(err) { t.Fatalf("unexpected: %v", err) }
}

func TestGenerateQuestions(t *testing.T) {
	g := &fakeGen{reply: func(string, int) (string, error) { return "1. Any new soaps?\n\n2. Does it itch at night?\n", nil }}
	res, err := newTestService(g, nil).GenerateQuestions(context.Background(), "Eczema")
	if err != nil { t.Fatalf("questions: %v", err) }
	if len(res.Questions) != 2 || res.Questions[1] != "Does it itch at night?" { t.Fatalf("questions=%q", res.Questions) }
	if g.reqs[0].MaxOutputTokens != 200 { t.Fatalf("max tokens=%d", g.reqs[0].MaxOutputTokens) }
}

func TestPredictCauses(t *testing.T) {
	g := &fakeGen{reply: func(string, int) (string, error) {
		return "**Likely** triggered by harsh detergents.\nPlease consult a healthcare professional.", nil
	}}
	res, err := newTestService(g, nil).PredictCauses(context.Background(), "Eczema", []Answer{
		{Question: "Any new soaps?", Answer: "Yes, last week"},
		{Question: "Pets?", Answer: "  "},
	})
	if err != nil { t.Fatalf("causes: %v", err) }
	if res.Summary != "Likely triggered by harsh detergents." { t.Fatalf("summary=%q", res.Summary) }
	p := g.reqs[0].Prompt
	if !strings.Contains(p, "Question 1: Any new soaps?\nAnswer 1: Yes, last week") || strings.Contains(p, "Pets?") {
		t.Fatalf("prompt=%q", p)
	}
	if !strings.HasSuffix(p, "provide a concise summary of the potential causes for the disease.") { t.Fatalf("prompt=%q", p) }
}

func TestPredictCauses_RequiresAnswers(t *testing.T) {
	g := &fakeGen{reply: func(string, int) (string, error) { return "x", nil }}
	if _, err := newTestService(g, nil).PredictCauses(context.Background(), "Eczema", nil); !IsInvalidInput(err) {
		t.Fatalf("unexpected: %v", err)
	}
}

func TestNew_AppliesDefaults(t *testing.T) {
	zero := 0.0
	s := New(&fakeGen{}, Config{Temperature: &zero, FoodsMaxTokens: 50})
	c := s.Config()
	if len(c.AnalysisModels) != 3 || c.Retry.MaxAttempts != 5 || c.Retry.BaseDelay != time.Second { t.Fatalf("defaults: %+v", c) }
	if *c.Temperature != 0 || c.FoodsMaxTokens != 50 || c.CausesMaxTokens != 300 { t.Fatalf("overrides: %+v", c) }
	if !s.Ready() { t.Fatalf("expected ready by default") }
	if New(&fakeGen{}, Config{}, WithReadiness(func() bool { return false })).Ready() { t.Fatalf("readiness override ignored") }
}
