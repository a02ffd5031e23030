package main

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"smartderm/internal/config"
	"smartderm/internal/derm"
	"smartderm/internal/genai"
	"smartderm/internal/parse"
	"smartderm/internal/pipeline"
)

// dermConfig maps file/env settings onto the service tunables. Zero values
// are left for derm to default.
func dermConfig(c config.Config) derm.Config {
	g := c.GenAI
	return derm.Config{
		AnalysisModels: g.AnalysisModels,
		FollowUpModels: g.FollowUpModels,
		Retry: pipeline.RetryPolicy{
			MaxAttempts: g.MaxAttempts,
			BaseDelay:   time.Duration(g.BaseDelayMS) * time.Millisecond,
			MaxDelay:    time.Duration(g.MaxDelayMS) * time.Millisecond,
		},
		QuestionsMaxTokens: g.QuestionsMaxTokens,
		FoodsMaxTokens:     g.FoodsMaxTokens,
		CausesMaxTokens:    g.CausesMaxTokens,
		Temperature:        g.Temperature,
	}
}

// newService builds the GenAI client and the analysis service. It is ready
// only when an API key is configured.
func newService(c config.Config, log zerolog.Logger, extra ...pipeline.EventPublisher) *derm.Service {
	client := genai.New(genai.Options{
		BaseURL: c.GenAI.BaseURL,
		APIKey:  c.GenAI.APIKey,
		Timeout: time.Duration(c.GenAI.TimeoutSeconds) * time.Second,
	})
	pubs := append(pipeline.MultiPublisher{pipeline.LogPublisher{Logger: log}}, extra...)
	hasKey := c.GenAI.APIKey != ""
	return derm.New(client, dermConfig(c),
		derm.WithEventPublisher(pubs),
		derm.WithReadiness(func() bool { return hasKey }),
	)
}

// userMessage is the text a person sees for err, matching the web client.
func userMessage(err error) string {
	switch {
	case pipeline.IsAllOverloaded(err):
		return derm.MsgAllOverloaded
	case errors.Is(err, parse.ErrUnparseable):
		return derm.MsgUnparseable
	case errors.Is(err, derm.ErrNoResult):
		return derm.MsgNoResult
	}
	return err.Error()
}
