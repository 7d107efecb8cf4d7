package generation

import (
	"context"
	"errors"
	"strings"

	"github.com/phrazzld/mindflow-api/internal/domain"
)

// Completer is the part of Gateway used by StudyGenerator.
type Completer interface {
	Generate(ctx context.Context, req Request) (*Result, error)
}

// StudyGenerator turns source text into flashcards or quiz questions.
type StudyGenerator struct {
	completer Completer
	prompts   *PromptBuilder
}

// NewStudyGenerator creates a StudyGenerator. A nil prompts uses the default
// source budget.
func NewStudyGenerator(completer Completer, prompts *PromptBuilder) (*StudyGenerator, error) {
	if completer == nil {
		return nil, errors.New("completer cannot be nil")
	}
	if prompts == nil {
		prompts = NewPromptBuilder(0)
	}
	return &StudyGenerator{completer: completer, prompts: prompts}, nil
}

// GenerateFlashcards generates flashcards for text and reports the provider
// that served them.
func (g *StudyGenerator) GenerateFlashcards(ctx context.Context, text string) ([]domain.Flashcard, string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, "", ErrInvalidRequest
	}

	result, err := g.completer.Generate(ctx, g.prompts.Flashcards(text))
	if err != nil {
		return nil, "", err
	}

	cards, err := ParseFlashcards(result.Text)
	if err != nil {
		return nil, result.ProviderName, err
	}
	return cards, result.ProviderName, nil
}

// GenerateQuiz generates multiple-choice questions for text and reports the
// provider that served them.
func (g *StudyGenerator) GenerateQuiz(ctx context.Context, text string) ([]domain.QuizQuestion, string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, "", ErrInvalidRequest
	}

	result, err := g.completer.Generate(ctx, g.prompts.Quiz(text))
	if err != nil {
		return nil, "", err
	}

	questions, err := ParseQuiz(result.Text)
	if err != nil {
		return nil, result.ProviderName, err
	}
	return questions, result.ProviderName, nil
}
