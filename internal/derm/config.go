package derm

import (
	"time"

	"smartderm/internal/pipeline"
)

// Defaults applied when corresponding Config fields are unset.
var (
	DefaultAnalysisModels = []string{"gemini-2.0-flash", "gemini-1.5", "gemini-1.0"}
	DefaultFollowUpModels = []string{"gemini-2.5-flash-preview-04-17", "gemini-2.0-flash", "gemini-1.5"}
)

const (
	defaultQuestionsMaxTokens = 200
	defaultFoodsMaxTokens     = 300
	defaultCausesMaxTokens    = 300
	defaultTemperature        = 0.7
	defaultMapsBaseURL        = "https://www.google.com/maps"
	defaultMaxAttempts        = 5
	defaultBaseDelay          = time.Second
)

// Config encapsulates the tunables of a Service.
type Config struct {
	AnalysisModels []string
	FollowUpModels []string
	Retry          pipeline.RetryPolicy

	QuestionsMaxTokens int
	FoodsMaxTokens     int
	CausesMaxTokens    int
	// Temperature for follow-up generations; nil means the default, a pointer
	// to zero is honoured.
	Temperature *float64

	MapsBaseURL string
}

func (c Config) withDefaults() Config {
	if len(c.AnalysisModels) == 0 {
		c.AnalysisModels = DefaultAnalysisModels
	}
	if len(c.FollowUpModels) == 0 {
		c.FollowUpModels = DefaultFollowUpModels
	}
	if c.Retry.MaxAttempts <= 0 {
		c.Retry.MaxAttempts = defaultMaxAttempts
	}
	if c.Retry.BaseDelay <= 0 {
		c.Retry.BaseDelay = defaultBaseDelay
	}
	if c.QuestionsMaxTokens <= 0 {
		c.QuestionsMaxTokens = defaultQuestionsMaxTokens
	}
	if c.FoodsMaxTokens <= 0 {
		c.FoodsMaxTokens = defaultFoodsMaxTokens
	}
	if c.CausesMaxTokens <= 0 {
		c.CausesMaxTokens = defaultCausesMaxTokens
	}
	if c.Temperature == nil {
		t := defaultTemperature
		c.Temperature = &t
	}
	if c.MapsBaseURL == "" {
		c.MapsBaseURL = defaultMapsBaseURL
	}
	return c
}
