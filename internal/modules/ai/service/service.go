package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/SahilxSingh/EduConnect/pkg/apperror"
	"github.com/SahilxSingh/EduConnect/pkg/ratelimiter"
	"github.com/rs/zerolog"
)

// Provider is one model in the fallback chain.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// ModelLister reports which models exist. It is only used to enrich the
// error after every provider failed.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// ChainError is returned when no provider produced an answer.
type ChainError struct {
	Message         string
	Details         string
	AvailableModels []string
}

func (e *ChainError) Error() string {
	return e.Message
}

const (
	failedMessage       = "Failed to get AI answer. Please try again."
	notConfiguredReason = "AI is not configured. Missing GEMINI_API_KEY."
	emptyAnswerReason   = "AI did not return an answer"
)

var errEmptyAnswer = errors.New(emptyAnswerReason)

type AIService interface {
	AskDoubt(ctx context.Context, clientIP, question string) (string, error)
}

type Options struct {
	Providers []Provider
	Lister    ModelLister
	Limiter   *ratelimiter.Limiter
	Cooldown  time.Duration
	// Debug exposes the available model list in failures.
	Debug bool
}

type aiService struct {
	providers []Provider
	lister    ModelLister
	limiter   *ratelimiter.Limiter
	cooldown  time.Duration
	debug     bool
	log       zerolog.Logger
}

func NewAIService(opts Options, log zerolog.Logger) AIService {
	return &aiService{
		providers: opts.Providers,
		lister:    opts.Lister,
		limiter:   opts.Limiter,
		cooldown:  opts.Cooldown,
		debug:     opts.Debug,
		log:       log,
	}
}

func BuildPrompt(question string) string {
	return strings.Join([]string{
		"You are an educational assistant for college students.",
		"Explain concepts clearly and concisely, using simple language.",
		"If the question is unclear or missing information, say what is missing and suggest what the student should provide.",
		"Avoid hallucinating facts; if you don’t know, say that you don’t know.",
		"",
		"Student question: " + question,
	}, "\n")
}

// AskDoubt walks the providers in order and returns the first non-empty
// answer. There are no retries; every failure moves on to the next model.
func (s *aiService) AskDoubt(ctx context.Context, clientIP, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", apperror.BadRequest("Question is required")
	}
	if len(s.providers) == 0 {
		return "", apperror.New(http.StatusInternalServerError, notConfiguredReason, apperror.ErrUnavailable)
	}

	if err := s.limiter.Allow(ctx, clientIP, "ask_doubt", s.cooldown); err != nil {
		return "", err
	}

	prompt := BuildPrompt(question)
	var lastErr error
	for _, p := range s.providers {
		answer, err := p.Generate(ctx, prompt)
		if err == nil && strings.TrimSpace(answer) == "" {
			err = errEmptyAnswer
		}
		if err == nil {
			s.log.Debug().Str("model", p.Name()).Msg("ai answer generated")
			return answer, nil
		}

		lastErr = fmt.Errorf("%s: %w", p.Name(), err)
		s.log.Warn().Err(err).Str("model", p.Name()).Msg("ai model failed")
	}

	return "", s.chainFailure(ctx, lastErr)
}

func (s *aiService) chainFailure(ctx context.Context, lastErr error) error {
	s.log.Error().Err(lastErr).Msg("all ai models failed")

	chainErr := &ChainError{Message: failedMessage, Details: "Unknown error"}
	if lastErr != nil {
		chainErr.Details = lastErr.Error()
	}
	if s.lister == nil {
		return chainErr
	}

	models, err := s.lister.ListModels(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("could not list ai models")
		return chainErr
	}
	if len(models) > 0 {
		shown := models
		if len(shown) > 5 {
			shown = shown[:5]
		}
		chainErr.Message += " Available models: " + strings.Join(shown, ", ")
	}
	if s.debug {
		chainErr.AvailableModels = models
	}
	return chainErr
}
