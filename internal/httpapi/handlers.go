package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"smartderm/internal/common/imgutil"
	"smartderm/internal/derm"
	"smartderm/internal/feedback"
	"smartderm/internal/session"
	"smartderm/pkg/types"
)

const (
	sessionHeader = "X-Session-ID"
	sessionCookie = "smartderm_session"
)

// sessionID returns the caller's session, issuing a new one when the header
// and cookie are both absent or malformed.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	id := r.Header.Get(sessionHeader)
	if id == "" {
		if c, err := r.Cookie(sessionCookie); err == nil {
			id = c.Value
		}
	}
	if !session.ValidID(id) {
		id = session.NewID()
		http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: id, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	}
	w.Header().Set(sessionHeader, id)
	return id
}

// decodeJSON enforces the content type and body limit, then decodes into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// outcome is what a tracked call hands back on success.
type outcome struct {
	body    any
	model   string
	disease string
}

// track runs call as the latest request of screen. A request replaced by a
// newer one for the same screen answers 409 and leaves the state untouched.
func (h *handlers) track(w http.ResponseWriter, r *http.Request, sid string, screen session.Screen, call func(ctx context.Context) (outcome, error)) {
	op := string(screen)
	lvl := requestLogLevel(r)
	start := time.Now()
	logStart(r, lvl, op, sid)

	ctx, cancel := upstreamContext(r.Context())
	defer cancel()
	tctx, tk := h.tracker.Begin(ctx, sid, screen)

	out, err := call(tctx)
	if err != nil {
		status, msg := statusFor(err)
		if !h.tracker.Fail(tk, msg) {
			h.superseded(w, r, lvl, op, start, err)
			return
		}
		if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
			// Client went away or shutdown; nobody is left to answer.
			logEnd(r, lvl, op, 499, start, "", err)
			return
		}
		writeJSONError(w, status, msg)
		logEnd(r, lvl, op, status, start, "", err)
		return
	}
	var ok bool
	if screen == session.ScreenAnalysis {
		ok = h.tracker.SucceedAnalysis(tk, out.body, out.disease)
	} else {
		ok = h.tracker.Succeed(tk, out.body)
	}
	if !ok {
		h.superseded(w, r, lvl, op, start, nil)
		return
	}
	writeJSON(w, http.StatusOK, out.body)
	logEnd(r, lvl, op, http.StatusOK, start, out.model, nil)
}

func (h *handlers) superseded(w http.ResponseWriter, r *http.Request, lvl LogLevel, op string, start time.Time, err error) {
	incSuperseded(op)
	writeJSONError(w, http.StatusConflict, MsgSuperseded)
	logEnd(r, lvl, op, http.StatusConflict, start, "", err)
}

// analyze godoc
// @Summary      Analyze a skin image
// @Description  Uploads the image and asks the analysis models, in order, for disease name, medications, severity and quick remedies.
// @Tags         analysis
// @Accept       multipart/form-data
// @Produce      json
// @Param        image  formData  file  true  "Skin condition photo"
// @Success      200  {object}  types.AnalysisResponse
// @Failure      400  {object}  types.ErrorResponse
// @Failure      409  {object}  types.ErrorResponse
// @Failure      413  {object}  types.ErrorResponse
// @Failure      422  {object}  types.ErrorResponse
// @Failure      502  {object}  types.ErrorResponse
// @Failure      503  {object}  types.ErrorResponse
// @Router       /api/analyze [post]
func (h *handlers) analyze(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)
	// Multipart framing needs some room beyond the image itself.
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+(64<<10))
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, imgutil.ErrTooLarge.Error())
			return
		}
		writeJSONError(w, http.StatusBadRequest, "multipart form with an image field is required")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()
	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()
	data, err := imgutil.ReadLimited(file, maxUploadBytes)
	if err != nil {
		status, msg := statusFor(err)
		writeJSONError(w, status, msg)
		return
	}
	mimeType, err := imgutil.DetectImage(data)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	img := derm.Image{Data: data, MIMEType: mimeType, Name: header.Filename}

	h.track(w, r, sid, session.ScreenAnalysis, func(ctx context.Context) (outcome, error) {
		res, err := h.svc.Analyze(ctx, img)
		if err != nil {
			return outcome{}, err
		}
		body := types.AnalysisResponse{
			DiseaseName:   res.DiseaseName,
			Medications:   res.Medications,
			Severity:      res.Severity,
			QuickRemedies: res.QuickRemedies,
			Remedies:      res.Remedies(),
			Model:         res.Model,
			Attempts:      res.Attempts,
		}
		return outcome{body: body, model: res.Model, disease: res.DiseaseName}, nil
	})
}

// diseaseOrSession falls back to the session's last analysis.
func (h *handlers) diseaseOrSession(sid, disease string) string {
	if d := strings.TrimSpace(disease); d != "" {
		return d
	}
	return h.tracker.DiseaseName(sid)
}

// foods godoc
// @Summary      Food recommendations
// @Description  Best foods and foods to avoid for a disease. Without disease_name the session's last analysis is used.
// @Tags         follow-up
// @Accept       json
// @Produce      json
// @Param        body  body  types.DiseaseRequest  false  "Disease"
// @Success      200  {object}  types.FoodsResponse
// @Failure      400  {object}  types.ErrorResponse
// @Failure      422  {object}  types.ErrorResponse
// @Failure      503  {object}  types.ErrorResponse
// @Router       /api/foods [post]
func (h *handlers) foods(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)
	var req types.DiseaseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	disease := h.diseaseOrSession(sid, req.DiseaseName)
	h.track(w, r, sid, session.ScreenFoods, func(ctx context.Context) (outcome, error) {
		res, err := h.svc.RecommendFoods(ctx, disease)
		if err != nil {
			return outcome{}, err
		}
		return outcome{model: res.Model, body: types.FoodsResponse{
			DiseaseName:  res.DiseaseName,
			BestFoods:    res.BestFoods,
			FoodsToAvoid: res.FoodsToAvoid,
			Model:        res.Model,
			Attempts:     res.Attempts,
		}}, nil
	})
}

// questions godoc
// @Summary      Clarifying questions
// @Description  First step of cause prediction.
// @Tags         follow-up
// @Accept       json
// @Produce      json
// @Param        body  body  types.DiseaseRequest  false  "Disease"
// @Success      200  {object}  types.QuestionsResponse
// @Failure      400  {object}  types.ErrorResponse
// @Failure      422  {object}  types.ErrorResponse
// @Failure      503  {object}  types.ErrorResponse
// @Router       /api/causes/questions [post]
func (h *handlers) questions(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)
	var req types.DiseaseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	disease := h.diseaseOrSession(sid, req.DiseaseName)
	h.track(w, r, sid, session.ScreenQuestions, func(ctx context.Context) (outcome, error) {
		res, err := h.svc.GenerateQuestions(ctx, disease)
		if err != nil {
			return outcome{}, err
		}
		return outcome{model: res.Model, body: types.QuestionsResponse{
			DiseaseName: res.DiseaseName,
			Questions:   res.Questions,
			Model:       res.Model,
			Attempts:    res.Attempts,
		}}, nil
	})
}

// causes godoc
// @Summary      Cause summary
// @Description  Second step of cause prediction: summarises likely causes from the answers.
// @Tags         follow-up
// @Accept       json
// @Produce      json
// @Param        body  body  types.CausesRequest  true  "Answers"
// @Success      200  {object}  types.CausesResponse
// @Failure      400  {object}  types.ErrorResponse
// @Failure      422  {object}  types.ErrorResponse
// @Failure      503  {object}  types.ErrorResponse
// @Router       /api/causes [post]
func (h *handlers) causes(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)
	var req types.CausesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	disease := h.diseaseOrSession(sid, req.DiseaseName)
	answers := lo.Map(req.Answers, func(a types.CauseAnswer, _ int) derm.Answer {
		return derm.Answer{Question: a.Question, Answer: a.Answer}
	})
	h.track(w, r, sid, session.ScreenCauses, func(ctx context.Context) (outcome, error) {
		res, err := h.svc.PredictCauses(ctx, disease, answers)
		if err != nil {
			return outcome{}, err
		}
		return outcome{model: res.Model, body: types.CausesResponse{
			DiseaseName: res.DiseaseName,
			Summary:     res.Summary,
			Model:       res.Model,
			Attempts:    res.Attempts,
		}}, nil
	})
}

// dermatologists godoc
// @Summary      Nearby dermatologists
// @Description  Map embed URL for the captured location. The first location of a session is kept.
// @Tags         maps
// @Accept       json
// @Produce      json
// @Param        body  body  types.DermatologistsRequest  true  "Geolocation outcome"
// @Success      200  {object}  types.DermatologistsResponse
// @Failure      400  {object}  types.ErrorResponse
// @Failure      422  {object}  types.ErrorResponse
// @Router       /api/dermatologists [post]
func (h *handlers) dermatologists(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)
	var req types.DermatologistsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	switch derm.GeolocationFailure(req.Error) {
	case "":
	case derm.GeolocationUnsupported, derm.GeolocationDenied:
		err := derm.ErrGeolocation(derm.GeolocationFailure(req.Error))
		status, msg := statusFor(err)
		writeJSONError(w, status, msg)
		return
	default:
		writeJSONError(w, http.StatusBadRequest, "error must be unsupported or denied")
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		writeJSONError(w, http.StatusBadRequest, "latitude and longitude are required")
		return
	}
	loc := derm.Location{Latitude: *req.Latitude, Longitude: *req.Longitude}
	if err := loc.Validate(); err != nil {
		status, msg := statusFor(err)
		writeJSONError(w, status, msg)
		return
	}
	kept, fresh := h.tracker.CaptureLocation(sid, loc)
	embed, err := h.svc.NearbyDermatologists(kept)
	if err != nil {
		status, msg := statusFor(err)
		writeJSONError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, types.DermatologistsResponse{
		Latitude:  embed.Location.Latitude,
		Longitude: embed.Location.Longitude,
		EmbedURL:  embed.EmbedURL,
		Reused:    !fresh,
	})
}

// sessionState godoc
// @Summary      Screen states
// @Description  State of every screen of the caller's session.
// @Tags         session
// @Produce      json
// @Success      200  {object}  types.SessionResponse
// @Router       /api/session [get]
func (h *handlers) sessionState(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)
	resp := types.SessionResponse{ID: sid, Screens: make(map[string]types.ScreenStatus, len(session.Screens))}
	for _, sc := range session.Screens {
		resp.Screens[string(sc)] = types.ScreenStatus{Phase: string(session.PhaseIdle)}
	}
	if snap, ok := h.tracker.Snapshot(sid); ok {
		resp.DiseaseName = snap.DiseaseName
		if snap.Location != nil {
			resp.Latitude = &snap.Location.Latitude
			resp.Longitude = &snap.Location.Longitude
		}
		for sc, st := range snap.Screens {
			resp.Screens[string(sc)] = types.ScreenStatus{
				Phase:      string(st.Phase),
				Message:    st.Message,
				Data:       st.Data,
				Generation: st.Generation,
				UpdatedAt:  st.UpdatedAt,
			}
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// submitFeedback godoc
// @Summary      Submit feedback
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Param        body  body  types.FeedbackRequest  true  "Feedback form"
// @Success      201  {object}  types.FeedbackResponse
// @Failure      400  {object}  types.ErrorResponse
// @Router       /api/feedback [post]
func (h *handlers) submitFeedback(w http.ResponseWriter, r *http.Request) {
	var req types.FeedbackRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	saved, err := h.feedback.Save(r.Context(), feedback.Feedback{
		Name:        req.Name,
		Email:       req.Email,
		Experience:  req.Experience,
		Suggestions: req.Suggestions,
	})
	if err != nil {
		status, msg := statusFor(err)
		writeJSONError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusCreated, feedbackResponse(saved))
}

// listFeedback godoc
// @Summary      Recent feedback
// @Tags         feedback
// @Produce      json
// @Param        limit  query  int  false  "Max entries (default 20, max 100)"
// @Success      200  {object}  types.FeedbackListResponse
// @Router       /api/feedback [get]
func (h *handlers) listFeedback(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	items, err := h.feedback.Recent(r.Context(), limit)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to load feedback")
		return
	}
	writeJSON(w, http.StatusOK, types.FeedbackListResponse{Items: lo.Map(items, func(f feedback.Feedback, _ int) types.FeedbackResponse {
		return feedbackResponse(f)
	})})
}

func feedbackResponse(f feedback.Feedback) types.FeedbackResponse {
	return types.FeedbackResponse{
		ID:          f.ID.String(),
		Name:        f.Name,
		Email:       f.Email,
		Experience:  f.Experience,
		Suggestions: f.Suggestions,
		CreatedAt:   f.CreatedAt,
	}
}
