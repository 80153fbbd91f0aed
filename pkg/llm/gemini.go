// pkg/llm/gemini.go

package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

const (
	// VideoSystemPrompt frames every completion request.
	VideoSystemPrompt = "You are a video generation assistant. Generate a description for a video based on the user's prompt."

	// MaxOutputTokens caps the size of a completion.
	MaxOutputTokens = 500
)

// ErrEmptyCompletion is returned when the model answered with no text.
var ErrEmptyCompletion = errors.New("completion returned no text")

// Service holds the Gemini AI client.
type Service struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiService creates a Gemini client configured with the fixed video
// system prompt and token ceiling.
func NewGeminiService(ctx context.Context, apiKey, modelName string) (*Service, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(VideoSystemPrompt)}}
	model.SetMaxOutputTokens(MaxOutputTokens)

	log.Infof("Gemini client ready (model %s).", modelName)
	return &Service{client: client, model: model}, nil
}

// Complete sends the user's prompt and returns the generated description.
func (s *Service) Complete(ctx context.Context, prompt string) (string, error) {
	log.Debugf("Requesting completion for prompt: %s", prompt)

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Errorf("Error generating video description: %v", err)
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		log.Warnf("Gemini returned an unusable completion: %v", err)
		return "", err
	}

	log.Infof("Generated video description (%d chars).", len(text))
	return text, nil
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyCompletion
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", ErrEmptyCompletion
	}
	return out, nil
}

// Close releases the underlying Gemini client.
func (s *Service) Close() error {
	log.Info("Closing Gemini AI service client.")
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}
