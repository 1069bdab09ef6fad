package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/SahilxSingh/EduConnect/pkg/apperror"
	"github.com/rs/zerolog"
)

type fakeProvider struct {
	name   string
	answer string
	err    error
	calls  int
	prompt string
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Generate(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	return f.answer, f.err
}

type fakeLister struct {
	models []string
	err    error
}

func (f fakeLister) ListModels(context.Context) ([]string, error) { return f.models, f.err }

func TestAskDoubtFirstAnswerWins(t *testing.T) {
	broken := &fakeProvider{name: "a", err: errors.New("quota exceeded")}
	empty := &fakeProvider{name: "b", answer: "   "}
	good := &fakeProvider{name: "c", answer: "Photosynthesis turns light into sugar."}
	unused := &fakeProvider{name: "d", answer: "never"}

	svc := NewAIService(Options{Providers: []Provider{broken, empty, good, unused}}, zerolog.Nop())
	answer, err := svc.AskDoubt(context.Background(), "127.0.0.1", "  What is photosynthesis? ")
	if err != nil {
		t.Fatal(err)
	}
	if answer != good.answer {
		t.Errorf("answer = %q", answer)
	}
	if broken.calls != 1 || empty.calls != 1 || good.calls != 1 || unused.calls != 0 {
		t.Errorf("calls = %d %d %d %d, want 1 1 1 0", broken.calls, empty.calls, good.calls, unused.calls)
	}
	if !strings.HasSuffix(good.prompt, "\n\nStudent question: What is photosynthesis?") {
		t.Errorf("prompt = %q", good.prompt)
	}
	if !strings.HasPrefix(good.prompt, "You are an educational assistant for college students.") {
		t.Errorf("prompt = %q", good.prompt)
	}
}

func TestAskDoubtValidation(t *testing.T) {
	svc := NewAIService(Options{Providers: []Provider{&fakeProvider{name: "a", answer: "x"}}}, zerolog.Nop())
	_, err := svc.AskDoubt(context.Background(), "ip", " \n ")
	if !errors.Is(err, apperror.ErrBadRequest) || err.Error() != "Question is required" {
		t.Fatalf("err = %v", err)
	}

	unconfigured := NewAIService(Options{}, zerolog.Nop())
	_, err = unconfigured.AskDoubt(context.Background(), "ip", "why?")
	if apperror.MapErrorToStatus(err) != 500 || err.Error() != "AI is not configured. Missing GEMINI_API_KEY." {
		t.Fatalf("unconfigured err = %v (status %d)", err, apperror.MapErrorToStatus(err))
	}
}

func TestAskDoubtAllFail(t *testing.T) {
	providers := []Provider{
		&fakeProvider{name: "a", err: errors.New("404 model not found")},
		&fakeProvider{name: "b", err: errors.New("429 quota")},
	}
	lister := fakeLister{models: []string{"m1", "m2", "m3", "m4", "m5", "m6"}}

	svc := NewAIService(Options{Providers: providers, Lister: lister}, zerolog.Nop())
	_, err := svc.AskDoubt(context.Background(), "ip", "why?")

	var chainErr *ChainError
	if !errors.As(err, &chainErr) {
		t.Fatalf("err = %v, want *ChainError", err)
	}
	want := "Failed to get AI answer. Please try again. Available models: m1, m2, m3, m4, m5"
	if chainErr.Message != want {
		t.Errorf("message = %q, want %q", chainErr.Message, want)
	}
	if !strings.Contains(chainErr.Details, "429 quota") {
		t.Errorf("details = %q, want last failure", chainErr.Details)
	}
	if chainErr.AvailableModels != nil {
		t.Errorf("available models exposed without debug: %v", chainErr.AvailableModels)
	}

	quiet := NewAIService(Options{Providers: providers, Lister: fakeLister{err: errors.New("down")}}, zerolog.Nop())
	_, err = quiet.AskDoubt(context.Background(), "ip", "why?")
	if !errors.As(err, &chainErr) || chainErr.Message != "Failed to get AI answer. Please try again." {
		t.Errorf("lister failure err = %v", err)
	}
}
