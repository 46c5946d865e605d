package dto

import "time"

// NewsHeadline is one item of a news feed.
type NewsHeadline struct {
	Title       string
	Link        string
	Source      string
	PublishedAt *time.Time
}

// SentimentAnalysisResult is the structured answer expected from the LLM.
type SentimentAnalysisResult struct {
	Sentiment     float64  `json:"sentiment"`
	BullishPoints []string `json:"bullish_points"`
	BearishPoints []string `json:"bearish_points"`
}
