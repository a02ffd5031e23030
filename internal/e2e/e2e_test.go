package e2e

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"smartderm/internal/derm"
	"smartderm/internal/genai/genaitest"
	"smartderm/internal/pipeline"
	"smartderm/pkg/types"
)

const eczemaText = "**Disease Name:** Eczema\n**Medications:** Hydrocortisone cream\n**Severity:** Mild\n**Quick Remedies:**\n- Moisturize daily\n- Avoid hot showers\n\nDisclaimer: this is not medical advice."

// scripted answers by prompt shape so one fake can serve every screen.
func scripted(model, prompt string) genaitest.Reply {
	switch {
	case strings.Contains(prompt, "Answer 1:"):
		return genaitest.Text("Likely triggered by a new detergent. Please consult a healthcare professional.")
	case strings.Contains(prompt, "Foods to Avoid"):
		return genaitest.Text("Best Foods:\n- Salmon\n- Oats\nFoods to Avoid:\n- Dairy")
	case strings.Contains(prompt, "question"):
		return genaitest.Text("1. Have you changed soap recently?\n2. Does it itch at night?")
	}
	return genaitest.Text(eczemaText)
}

func TestE2E_FullSessionFlow(t *testing.T) {
	fake := genaitest.NewServer(scripted)
	defer fake.Close()
	srv, _ := newServer(t, fake, 5)
	c := &clientSession{t: t, url: srv.URL}

	var an types.AnalysisResponse
	if st := c.analyze(pngBytes, &an); st != http.StatusOK { t.Fatalf("analyze status=%d", st) }
	if an.DiseaseName != "Eczema" || an.Medications != "Hydrocortisone cream" || len(an.Remedies) != 2 { t.Fatalf("analysis=%+v", an) }
	if c.id == "" { t.Fatalf("no session issued") }
	if calls := fake.Calls(); calls[0].FileURI == "" || calls[0].Model != derm.DefaultAnalysisModels[0] { t.Fatalf("analysis call=%+v", calls[0]) }

	var foods types.FoodsResponse
	if st := c.postJSON("/api/foods", map[string]any{}, &foods); st != http.StatusOK { t.Fatalf("foods status=%d", st) }
	if foods.DiseaseName != "Eczema" || len(foods.BestFoods) != 2 || foods.FoodsToAvoid[0] != "Dairy" { t.Fatalf("foods=%+v", foods) }

	var qs types.QuestionsResponse
	if st := c.postJSON("/api/causes/questions", map[string]any{}, &qs); st != http.StatusOK { t.Fatalf("questions status=%d", st) }
	if len(qs.Questions) != 2 { t.Fatalf("questions=%+v", qs) }

	answers := []types.CauseAnswer{{Question: qs.Questions[0], Answer: "Yes"}, {Question: qs.Questions[1], Answer: "No"}}
	var causes types.CausesResponse
	if st := c.postJSON("/api/causes", types.CausesRequest{Answers: answers}, &causes); st != http.StatusOK { t.Fatalf("causes status=%d", st) }
	if causes.Summary != "Likely triggered by a new detergent." { t.Fatalf("summary=%q", causes.Summary) }

	var maps types.DermatologistsResponse
	lat, lng := 51.5074, -0.1278
	if st := c.postJSON("/api/dermatologists", types.DermatologistsRequest{Latitude: &lat, Longitude: &lng}, &maps); st != http.StatusOK { t.Fatalf("maps status=%d", st) }
	if !strings.HasSuffix(maps.EmbedURL, "dermatologists+near+51.5074,-0.1278&output=embed") { t.Fatalf("embed=%s", maps.EmbedURL) }

	var snap types.SessionResponse
	if st := c.get("/api/session", &snap); st != http.StatusOK { t.Fatalf("session status=%d", st) }
	for _, sc := range []string{"analysis", "foods", "questions", "causes"} {
		if snap.Screens[sc].Phase != "success" { t.Fatalf("%s phase=%s", sc, snap.Screens[sc].Phase) }
	}
	if snap.Latitude == nil || *snap.Latitude != lat { t.Fatalf("location not captured: %+v", snap) }

	// A new analysis resets the follow-up screens.
	if st := c.analyze(pngBytes, nil); st != http.StatusOK { t.Fatalf("second analyze status=%d", st) }
	c.get("/api/session", &snap)
	if snap.Screens["foods"].Phase != "idle" || snap.Screens["causes"].Phase != "idle" { t.Fatalf("follow-ups not reset: %+v", snap.Screens) }
}

func TestE2E_FallbackToNextModel(t *testing.T) {
	fake := genaitest.NewServer(func(model, prompt string) genaitest.Reply {
		if model == derm.DefaultAnalysisModels[0] {
			return genaitest.Overloaded
		}
		return scripted(model, prompt)
	})
	defer fake.Close()
	srv, pub := newServer(t, fake, 3)
	c := &clientSession{t: t, url: srv.URL}

	var an types.AnalysisResponse
	if st := c.analyze(pngBytes, &an); st != http.StatusOK { t.Fatalf("status=%d", st) }
	if an.Model != derm.DefaultAnalysisModels[1] || an.Attempts != 4 { t.Fatalf("model=%s attempts=%d", an.Model, an.Attempts) }
	if fake.Uploads() != 1 { t.Fatalf("uploads=%d", fake.Uploads()) }
	names := strings.Join(pub.Names(), ",")
	if !strings.Contains(names, pipeline.EventFallback) || !strings.Contains(names, pipeline.EventSuccess) { t.Fatalf("events=%s", names) }

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil { t.Fatalf("metrics: %v", err) }
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(b), `smartderm_pipeline_events_total{event="fallback"`) { t.Fatalf("fallback not counted") }
}

func TestE2E_AllOverloaded(t *testing.T) {
	fake := genaitest.NewServer(func(string, string) genaitest.Reply { return genaitest.Overloaded })
	defer fake.Close()
	srv, _ := newServer(t, fake, 2)
	c := &clientSession{t: t, url: srv.URL}

	var er types.ErrorResponse
	if st := c.postJSON("/api/foods", types.DiseaseRequest{DiseaseName: "Acne"}, &er); st != http.StatusServiceUnavailable { t.Fatalf("status=%d", st) }
	if er.Error != derm.MsgAllOverloaded { t.Fatalf("error=%q", er.Error) }
	if n := len(fake.Calls()); n != 6 { t.Fatalf("calls=%d", n) }

	var snap types.SessionResponse
	c.get("/api/session", &snap)
	if st := snap.Screens["foods"]; st.Phase != "failure" || st.Message != derm.MsgAllOverloaded { t.Fatalf("foods=%+v", st) }
}

func TestE2E_UnparseableAndUpstreamErrors(t *testing.T) {
	fake := genaitest.NewServer(func(_, prompt string) genaitest.Reply {
		if strings.Contains(prompt, "Foods to Avoid") {
			return genaitest.Reply{Status: http.StatusBadRequest, APIStatus: "INVALID_ARGUMENT", Message: "bad request"}
		}
		return genaitest.Text("I am unable to identify this condition.")
	})
	defer fake.Close()
	srv, _ := newServer(t, fake, 5)
	c := &clientSession{t: t, url: srv.URL}

	var er types.ErrorResponse
	if st := c.analyze(pngBytes, &er); st != http.StatusUnprocessableEntity || er.Error != derm.MsgUnparseable { t.Fatalf("status=%d err=%q", st, er.Error) }
	if st := c.postJSON("/api/foods", types.DiseaseRequest{DiseaseName: "Acne"}, &er); st != http.StatusBadGateway { t.Fatalf("status=%d", st) }
	if !strings.Contains(er.Error, "bad request") { t.Fatalf("error=%q", er.Error) }
	if n := len(fake.Calls()); n != 2 { t.Fatalf("non-overload failures must not retry, calls=%d", n) }
}

func TestE2E_FollowUpWithoutDisease(t *testing.T) {
	fake := genaitest.NewServer(scripted)
	defer fake.Close()
	srv, _ := newServer(t, fake, 1)
	c := &clientSession{t: t, url: srv.URL}
	var er types.ErrorResponse
	if st := c.postJSON("/api/foods", map[string]any{}, &er); st != http.StatusBadRequest { t.Fatalf("status=%d err=%q", st, er.Error) }
	if len(fake.Calls()) != 0 { t.Fatalf("upstream called without a disease") }
}
