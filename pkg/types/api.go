package types

import "time"

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: All models are currently overloaded. Please try again in a few minutes.
	Error string `json:"error" example:"All models are currently overloaded. Please try again in a few minutes."`
	// HTTP status code.
	// example: 503
	Code int `json:"code" example:"503"`
}

// AnalysisResponse is returned by POST /api/analyze.
type AnalysisResponse struct {
	// example: Eczema
	DiseaseName string `json:"disease_name" example:"Eczema"`
	// example: Hydrocortisone cream
	Medications string `json:"medications" example:"Hydrocortisone cream"`
	// example: Mild
	Severity string `json:"severity" example:"Mild"`
	// Free text, disclaimers removed.
	// example: Moisturize daily.
	QuickRemedies string `json:"quick_remedies" example:"Moisturize daily."`
	// QuickRemedies split into display items.
	Remedies []string `json:"remedies"`
	// Model that produced the answer.
	// example: gemini-2.0-flash
	Model string `json:"model" example:"gemini-2.0-flash"`
	// Upstream calls made, retries and fallbacks included.
	// example: 1
	Attempts int `json:"attempts" example:"1"`
}

// DiseaseRequest is the body of the follow-up endpoints. When DiseaseName is
// empty the session's last analysis is used.
type DiseaseRequest struct {
	// example: Eczema
	DiseaseName string `json:"disease_name,omitempty" example:"Eczema"`
}

// FoodsResponse is returned by POST /api/foods.
type FoodsResponse struct {
	// example: Eczema
	DiseaseName  string   `json:"disease_name" example:"Eczema"`
	BestFoods    []string `json:"best_foods"`
	FoodsToAvoid []string `json:"foods_to_avoid"`
	// example: gemini-2.5-flash-preview-04-17
	Model    string `json:"model" example:"gemini-2.5-flash-preview-04-17"`
	Attempts int    `json:"attempts" example:"1"`
}

// QuestionsResponse is returned by POST /api/causes/questions.
type QuestionsResponse struct {
	DiseaseName string   `json:"disease_name" example:"Eczema"`
	Questions   []string `json:"questions"`
	Model       string   `json:"model" example:"gemini-2.5-flash-preview-04-17"`
	Attempts    int      `json:"attempts" example:"1"`
}

// CauseAnswer pairs a generated question with the user's reply.
type CauseAnswer struct {
	// example: Have you changed soap recently?
	Question string `json:"question" example:"Have you changed soap recently?"`
	// example: Yes, last week.
	Answer string `json:"answer" example:"Yes, last week."`
}

// CausesRequest is the body of POST /api/causes.
type CausesRequest struct {
	DiseaseName string        `json:"disease_name,omitempty" example:"Eczema"`
	Answers     []CauseAnswer `json:"answers"`
}

// CausesResponse is returned by POST /api/causes.
type CausesResponse struct {
	DiseaseName string `json:"disease_name" example:"Eczema"`
	// example: Likely triggered by a new detergent.
	Summary  string `json:"summary" example:"Likely triggered by a new detergent."`
	Model    string `json:"model" example:"gemini-2.5-flash-preview-04-17"`
	Attempts int    `json:"attempts" example:"1"`
}

// DermatologistsRequest carries the browser's geolocation outcome: either
// coordinates or a failure reason.
type DermatologistsRequest struct {
	// example: 40.7128
	Latitude *float64 `json:"latitude,omitempty" example:"40.7128"`
	// example: -74.006
	Longitude *float64 `json:"longitude,omitempty" example:"-74.006"`
	// Geolocation failure: unsupported or denied.
	// example: denied
	Error string `json:"error,omitempty" example:"denied"`
}

// DermatologistsResponse is returned by POST /api/dermatologists.
type DermatologistsResponse struct {
	Latitude  float64 `json:"latitude" example:"40.7128"`
	Longitude float64 `json:"longitude" example:"-74.006"`
	// example: https://www.google.com/maps?q=dermatologists+near+40.7128,-74.006&output=embed
	EmbedURL string `json:"embed_url" example:"https://www.google.com/maps?q=dermatologists+near+40.7128,-74.006&output=embed"`
	// True when an earlier location of the session was kept.
	Reused bool `json:"reused"`
}

// ScreenStatus is one screen of GET /api/session.
type ScreenStatus struct {
	// idle, loading, success or failure.
	// example: success
	Phase      string    `json:"phase" example:"success"`
	Message    string    `json:"message,omitempty"`
	Data       any       `json:"data,omitempty"`
	Generation uint64    `json:"generation" example:"1"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SessionResponse is returned by GET /api/session.
type SessionResponse struct {
	// example: 0b8f6e1c-3f43-4a0e-9d43-0c1f1b2a7d11
	ID          string                  `json:"id" example:"0b8f6e1c-3f43-4a0e-9d43-0c1f1b2a7d11"`
	DiseaseName string                  `json:"disease_name,omitempty" example:"Eczema"`
	Latitude    *float64                `json:"latitude,omitempty"`
	Longitude   *float64                `json:"longitude,omitempty"`
	Screens     map[string]ScreenStatus `json:"screens"`
}

// FeedbackRequest is the body of POST /api/feedback.
type FeedbackRequest struct {
	Name  string `json:"name" example:"Ann"`
	Email string `json:"email" example:"ann@example.com"`
	// Required.
	Experience  string `json:"experience" example:"The analysis was quick and clear."`
	Suggestions string `json:"suggestions" example:"Add more languages."`
}

// FeedbackResponse is one stored feedback entry.
type FeedbackResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Experience  string    `json:"experience"`
	Suggestions string    `json:"suggestions,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// FeedbackListResponse is returned by GET /api/feedback.
type FeedbackListResponse struct {
	Items []FeedbackResponse `json:"items"`
}
