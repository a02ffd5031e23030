package derm

import (
	"context"
	"errors"
	"strings"

	"smartderm/internal/genai"
	"smartderm/internal/parse"
	"smartderm/internal/pipeline"
)

// Generator is the upstream GenAI surface the service needs.
// *genai.Client satisfies it.
type Generator interface {
	UploadFile(ctx context.Context, data []byte, mimeType, displayName string) (genai.File, error)
	GenerateContent(ctx context.Context, model string, req genai.GenerateRequest) (string, error)
}

// Service runs analyses and follow-ups against the upstream models.
type Service struct {
	gen    Generator
	cfg    Config
	parser *parse.Parser
	runner *pipeline.Runner
	ready  func() bool
}

// Option customises a Service.
type Option func(*serviceOptions)

type serviceOptions struct {
	parser   *parse.Parser
	pipeOpts []pipeline.Option
	ready    func() bool
}

// WithParser replaces the default parser, e.g. to add disclaimer patterns.
func WithParser(p *parse.Parser) Option { return func(o *serviceOptions) { o.parser = p } }

// WithEventPublisher receives pipeline lifecycle events.
func WithEventPublisher(p pipeline.EventPublisher) Option {
	return func(o *serviceOptions) { o.pipeOpts = append(o.pipeOpts, pipeline.WithPublisher(p)) }
}

// WithPipelineOptions passes options straight to the pipeline runner.
func WithPipelineOptions(opts ...pipeline.Option) Option {
	return func(o *serviceOptions) { o.pipeOpts = append(o.pipeOpts, opts...) }
}

// WithReadiness overrides Ready; the default reports ready.
func WithReadiness(fn func() bool) Option { return func(o *serviceOptions) { o.ready = fn } }

// New constructs a Service from cfg, applying defaults to unset fields.
func New(gen Generator, cfg Config, opts ...Option) *Service {
	o := serviceOptions{}
	for _, fn := range opts {
		fn(&o)
	}
	if o.parser == nil {
		o.parser = parse.New()
	}
	if o.ready == nil {
		o.ready = func() bool { return true }
	}
	cfg = cfg.withDefaults()
	return &Service{
		gen:    gen,
		cfg:    cfg,
		parser: o.parser,
		runner: pipeline.NewRunner(cfg.Retry, genai.IsOverloaded, o.pipeOpts...),
		ready:  o.ready,
	}
}

// Config returns the effective configuration.
func (s *Service) Config() Config { return s.cfg }

// Ready reports whether upstream calls can be attempted.
func (s *Service) Ready() bool { return s.ready() }

// Image is a transient analysis request payload.
type Image struct {
	Data     []byte
	MIMEType string
	Name     string
}

// Meta describes how an answer was produced.
type Meta struct {
	Model    string `json:"model"`
	Attempts int    `json:"attempts"`
}

// AnalysisResult is a successfully parsed analysis.
type AnalysisResult struct {
	parse.Analysis
	Meta
}

// Analyze uploads img once and asks the analysis models, in order, for the
// labelled description.
func (s *Service) Analyze(ctx context.Context, img Image) (AnalysisResult, error) {
	if len(img.Data) == 0 {
		return AnalysisResult{}, ErrInvalidInput("image is empty")
	}
	if !strings.HasPrefix(img.MIMEType, "image/") {
		return AnalysisResult{}, ErrInvalidInput("unsupported image type: " + img.MIMEType)
	}
	name := img.Name
	if name == "" {
		name = "skin-image"
	}
	file, err := s.gen.UploadFile(ctx, img.Data, img.MIMEType, name)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return AnalysisResult{}, ctxErr
		}
		return AnalysisResult{}, pipeline.ErrUpstream("upload", err)
	}
	res, err := s.runner.Run(ctx, s.cfg.AnalysisModels, func(ctx context.Context, model string) (string, error) {
		return s.gen.GenerateContent(ctx, model, genai.GenerateRequest{Prompt: AnalysisPrompt, File: &file})
	})
	if err != nil {
		return AnalysisResult{}, classify(err)
	}
	a, err := s.parser.Analysis(res.Text)
	if err != nil {
		return AnalysisResult{}, err
	}
	return AnalysisResult{Analysis: a, Meta: Meta{Model: res.Model, Attempts: res.Attempts}}, nil
}

// followUp runs a text-only prompt across the follow-up models.
func (s *Service) followUp(ctx context.Context, prompt string, maxTokens int) (pipeline.Result, error) {
	req := genai.GenerateRequest{Prompt: prompt, MaxOutputTokens: maxTokens, Temperature: s.cfg.Temperature}
	res, err := s.runner.Run(ctx, s.cfg.FollowUpModels, func(ctx context.Context, model string) (string, error) {
		return s.gen.GenerateContent(ctx, model, req)
	})
	if err != nil {
		return pipeline.Result{}, classify(err)
	}
	return res, nil
}

// classify maps an empty upstream answer to ErrNoResult; other errors pass.
func classify(err error) error {
	if errors.Is(err, genai.ErrEmptyResponse) {
		return ErrNoResult
	}
	return err
}
