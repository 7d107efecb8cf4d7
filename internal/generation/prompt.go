package generation

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/invopop/jsonschema"
	"github.com/phrazzld/mindflow-api/internal/domain"
)

// Prompt defaults.
const (
	// DefaultMaxSourceChars bounds the source text embedded in a prompt.
	DefaultMaxSourceChars = 300000

	// StudyItemCount is how many flashcards or questions are requested.
	StudyItemCount = 15

	// JSONSystemInstruction is the system instruction of study prompts.
	JSONSystemInstruction = "You are a helpful study assistant that outputs strict JSON."
)

const flashcardTemplate = `Generate %d flashcards based on the following text.
Return the result as a strictly formatted JSON array of objects.
Each object must have "question" and "answer" keys.
Do not output any markdown formatting (like ` + "```json" + `), just the raw JSON.
The array must validate against this JSON Schema:
%s

Text Content:
%s`

const quizTemplate = `Generate %d multiple-choice questions based on the following text.
Return the result as a strictly formatted JSON array of objects.
Each object must have:
- "question": string
- "options": array of 4 strings
- "correctIndex": number (0-3)
- "explanation": string (brief explanation of why the answer is correct)
The array must validate against this JSON Schema:
%s

Do not output any markdown formatting, just the raw JSON.

Text Content:
%s`

var (
	schemaOnce      sync.Once
	flashcardSchema string
	quizSchema      string
)

func schemas() (string, string) {
	schemaOnce.Do(func() {
		r := &jsonschema.Reflector{
			AllowAdditionalProperties: false,
			DoNotReference:            true,
		}
		flashcardSchema = marshalSchema(r.Reflect([]domain.Flashcard{}))
		quizSchema = marshalSchema(r.Reflect([]domain.QuizQuestion{}))
	})
	return flashcardSchema, quizSchema
}

func marshalSchema(s *jsonschema.Schema) string {
	b, err := json.Marshal(s)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// PromptBuilder composes study prompts around source text.
type PromptBuilder struct {
	maxSourceChars int
}

// NewPromptBuilder creates a builder truncating source text to maxSourceChars
// runes. Non-positive values select DefaultMaxSourceChars.
func NewPromptBuilder(maxSourceChars int) *PromptBuilder {
	if maxSourceChars <= 0 {
		maxSourceChars = DefaultMaxSourceChars
	}
	return &PromptBuilder{maxSourceChars: maxSourceChars}
}

// Truncate returns at most the builder's budget of runes from text.
func (b *PromptBuilder) Truncate(text string) string {
	if utf8.RuneCountInString(text) <= b.maxSourceChars {
		return text
	}
	runes := 0
	for i := range text {
		if runes == b.maxSourceChars {
			return text[:i]
		}
		runes++
	}
	return text
}

// Flashcards returns the flashcard generation request for text.
func (b *PromptBuilder) Flashcards(text string) Request {
	cardSchema, _ := schemas()
	return Request{
		Prompt:            fmt.Sprintf(flashcardTemplate, StudyItemCount, cardSchema, b.Truncate(text)),
		SystemInstruction: JSONSystemInstruction,
	}
}

// Quiz returns the quiz generation request for text.
func (b *PromptBuilder) Quiz(text string) Request {
	_, questionSchema := schemas()
	return Request{
		Prompt:            fmt.Sprintf(quizTemplate, StudyItemCount, questionSchema, b.Truncate(text)),
		SystemInstruction: JSONSystemInstruction,
	}
}

// StripCodeFences removes markdown code fence markers from a completion.
func StripCodeFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// ParseFlashcards decodes a completion into flashcards, dropping invalid
// items. Returns ErrIncompleteResponse when nothing usable remains.
func ParseFlashcards(completion string) ([]domain.Flashcard, error) {
	var raw []domain.Flashcard
	if err := json.Unmarshal([]byte(StripCodeFences(completion)), &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIncompleteResponse, err)
	}

	cards := make([]domain.Flashcard, 0, len(raw))
	for _, c := range raw {
		c.Question = strings.TrimSpace(c.Question)
		c.Answer = strings.TrimSpace(c.Answer)
		if c.Validate() == nil {
			cards = append(cards, c)
		}
	}
	if len(cards) == 0 {
		return nil, ErrIncompleteResponse
	}
	return cards, nil
}

// ParseQuiz decodes a completion into quiz questions, dropping invalid
// items. Returns ErrIncompleteResponse when nothing usable remains.
func ParseQuiz(completion string) ([]domain.QuizQuestion, error) {
	var raw []domain.QuizQuestion
	if err := json.Unmarshal([]byte(StripCodeFences(completion)), &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIncompleteResponse, err)
	}

	questions := make([]domain.QuizQuestion, 0, len(raw))
	for _, q := range raw {
		q.Question = strings.TrimSpace(q.Question)
		if q.Validate() == nil {
			questions = append(questions, q)
		}
	}
	if len(questions) == 0 {
		return nil, ErrIncompleteResponse
	}
	return questions, nil
}
