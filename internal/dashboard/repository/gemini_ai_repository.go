package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/config"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/dto"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/entity"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/logger"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// AIRepository scores news with a language model.
type AIRepository interface {
	AnalyzeSentiment(ctx context.Context, stock entity.Stock, headlines []dto.NewsHeadline) (*dto.SentimentAnalysisResult, error)
}

type geminiAIRepository struct {
	cfg            config.Gemini
	logger         *logger.Logger
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

// NewGeminiAIRepository creates an AIRepository backed by the Google Gemini API.
func NewGeminiAIRepository(cfg *config.Config, log *logger.Logger, genAiClient *genai.Client) AIRepository {
	perMinute := cfg.Gemini.MaxRequestPerMinute
	if perMinute <= 0 {
		perMinute = 10
	}
	secondsPerRequest := time.Minute / time.Duration(perMinute)
	return &geminiAIRepository{
		cfg:            cfg.Gemini,
		logger:         log,
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		genAiClient:    genAiClient,
	}
}

func (r *geminiAIRepository) AnalyzeSentiment(ctx context.Context, stock entity.Stock, headlines []dto.NewsHeadline) (*dto.SentimentAnalysisResult, error) {
	if len(headlines) == 0 {
		return nil, errors.New("no headlines to analyze")
	}
	prompt := BuildSentimentPrompt(stock, headlines)

	text, err := r.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	rawJSON := strings.Trim(text, "`json\n ")
	var result dto.SentimentAnalysisResult
	if err := json.Unmarshal([]byte(rawJSON), &result); err != nil {
		r.logger.ErrorContext(ctx, "Failed to unmarshal sentiment from Gemini response", logger.ErrorField(err), logger.StringField("response", rawJSON))
		return nil, fmt.Errorf("failed to unmarshal sentiment from Gemini response: %w", err)
	}
	if result.Sentiment < 0 || result.Sentiment > 100 {
		return nil, fmt.Errorf("sentiment %.2f out of range", result.Sentiment)
	}
	return &result, nil
}

func (r *geminiAIRepository) generate(ctx context.Context, prompt string) (string, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to wait for request limit: %w", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	resp, err := r.genAiClient.Models.GenerateContent(ctx, r.cfg.Model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to send request to Gemini API", logger.ErrorField(err))
		return "", fmt.Errorf("failed to send request to Gemini API: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("invalid response from Gemini API: no content found")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
