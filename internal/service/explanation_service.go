package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/examprep/config"
	"github.com/lshigami/examprep/internal/model"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// ExplanationService drafts the explanation shown next to a question after grading.
type ExplanationService interface {
	Draft(ctx context.Context, question *model.Question) (string, error)
}

type geminiExplanationService struct {
	client *genai.GenerativeModel
}

func NewExplanationService(cfg *config.Config) (ExplanationService, error) {
	if cfg.Gemini.APIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Explanation drafts are disabled.")
		return &geminiExplanationService{}, nil
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.Gemini.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	m := client.GenerativeModel(cfg.Gemini.Model)
	m.SetTemperature(0.2)
	return &geminiExplanationService{client: m}, nil
}

func (s *geminiExplanationService) Draft(ctx context.Context, question *model.Question) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("%w: explanation drafting is not configured", ErrUnavailable)
	}
	prompt, err := buildExplanationPrompt(question)
	if err != nil {
		return "", err
	}
	resp, err := s.client.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Error().Err(err).Uint("questionID", question.ID).Msg("Gemini API error while drafting explanation")
		return "", fmt.Errorf("%w: gemini: %v", ErrUnavailable, err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		log.Warn().Uint("questionID", question.ID).Msg("Gemini returned no candidates")
		return "", fmt.Errorf("%w: empty response from gemini", ErrUnavailable)
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	explanation := cleanExplanation(sb.String())
	if explanation == "" {
		return "", fmt.Errorf("%w: gemini returned no text", ErrUnavailable)
	}
	return explanation, nil
}

func buildExplanationPrompt(q *model.Question) (string, error) {
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		return "", invalid("question %d has no valid correct answer", q.ID)
	}
	var sb strings.Builder
	sb.WriteString("You are an experienced exam tutor. Explain to a student why the correct option ")
	sb.WriteString("of this multiple-choice question is right and why the others are wrong.\n")
	sb.WriteString("Keep it under 120 words and do not repeat the question.\n\n")
	sb.WriteString("Question:\n")
	sb.WriteString(strings.TrimSpace(q.Text))
	sb.WriteString("\n\nOptions:\n")
	for i, opt := range q.Options {
		fmt.Fprintf(&sb, "%c) %s\n", 'A'+rune(i), strings.TrimSpace(opt))
	}
	fmt.Fprintf(&sb, "\nCorrect option: %c\n\n", 'A'+rune(q.CorrectAnswer))
	sb.WriteString("Format your response strictly as:\nExplanation: [your explanation]\n")
	return sb.String(), nil
}

func cleanExplanation(raw string) string {
	out := strings.TrimSpace(raw)
	if i := strings.Index(strings.ToLower(out), "explanation:"); i >= 0 {
		out = strings.TrimSpace(out[i+len("explanation:"):])
	}
	return out
}
