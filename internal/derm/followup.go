package derm

import (
	"context"
	"strings"

	"github.com/samber/lo"

	"smartderm/internal/parse"
)

// FoodsResult is the food advice for a disease.
type FoodsResult struct {
	DiseaseName string `json:"disease_name"`
	parse.Recommendation
	Meta
}

// RecommendFoods asks which foods help and which to avoid for disease.
func (s *Service) RecommendFoods(ctx context.Context, disease string) (FoodsResult, error) {
	disease, err := requireDisease(disease)
	if err != nil {
		return FoodsResult{}, err
	}
	res, err := s.followUp(ctx, FoodsPrompt(disease), s.cfg.FoodsMaxTokens)
	if err != nil {
		return FoodsResult{}, err
	}
	rec, err := s.parser.Recommendations(res.Text)
	if err != nil {
		return FoodsResult{}, err
	}
	return FoodsResult{DiseaseName: disease, Recommendation: rec, Meta: Meta{Model: res.Model, Attempts: res.Attempts}}, nil
}

// QuestionsResult is the first step of cause prediction.
type QuestionsResult struct {
	DiseaseName string   `json:"disease_name"`
	Questions   []string `json:"questions"`
	Meta
}

// GenerateQuestions asks for clarifying questions about disease.
func (s *Service) GenerateQuestions(ctx context.Context, disease string) (QuestionsResult, error) {
	disease, err := requireDisease(disease)
	if err != nil {
		return QuestionsResult{}, err
	}
	res, err := s.followUp(ctx, QuestionsPrompt(disease), s.cfg.QuestionsMaxTokens)
	if err != nil {
		return QuestionsResult{}, err
	}
	qs, err := s.parser.Questions(res.Text)
	if err != nil {
		return QuestionsResult{}, err
	}
	return QuestionsResult{DiseaseName: disease, Questions: qs, Meta: Meta{Model: res.Model, Attempts: res.Attempts}}, nil
}

// CausesResult is the second step of cause prediction.
type CausesResult struct {
	DiseaseName string `json:"disease_name"`
	Summary     string `json:"summary"`
	Meta
}

// PredictCauses summarises likely causes from disease and the user's answers.
// Unanswered questions are dropped; at least one answer is required.
func (s *Service) PredictCauses(ctx context.Context, disease string, answers []Answer) (CausesResult, error) {
	disease, err := requireDisease(disease)
	if err != nil {
		return CausesResult{}, err
	}
	answers = lo.Filter(answers, func(a Answer, _ int) bool { return strings.TrimSpace(a.Answer) != "" })
	if len(answers) == 0 {
		return CausesResult{}, ErrInvalidInput("at least one answer is required")
	}
	res, err := s.followUp(ctx, CausesPrompt(disease, answers), s.cfg.CausesMaxTokens)
	if err != nil {
		return CausesResult{}, err
	}
	summary, err := s.parser.Summary(res.Text)
	if err != nil {
		return CausesResult{}, err
	}
	return CausesResult{DiseaseName: disease, Summary: summary, Meta: Meta{Model: res.Model, Attempts: res.Attempts}}, nil
}

func requireDisease(d string) (string, error) {
	d = strings.TrimSpace(d)
	if d == "" {
		return "", ErrInvalidInput("disease name is required")
	}
	return d, nil
}
