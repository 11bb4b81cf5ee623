package botapi

import (
	"context"
	"time"
)

// Config identifies the bot backend a widget instance talks to. Universe and
// subsidiary scope the automatic greeting to the embedding product.
type Config struct {
	URL        string
	Universe   string
	Subsidiary string
}

// TalkResponse is the bot's reply to one exchange. ContextID may be empty
// when the backend did not rotate the conversation handle.
type TalkResponse struct {
	Text          string    `json:"text"`
	ContextID     string    `json:"contextId"`
	ServerTime    time.Time `json:"serverTime"`
	AskFeedback   bool      `json:"askFeedback"`
	StartLivechat bool      `json:"startLivechat"`
}

// HistoryMessage is a transcript entry as the backend persists it.
type HistoryMessage struct {
	Text string    `json:"text"`
	Time time.Time `json:"time"`
	Type string    `json:"type"`
}

// Banner is the informational banner shown above the transcript.
type Banner struct {
	Text string `json:"text"`
}

// Suggestion is one ranked autocomplete candidate.
type Suggestion struct {
	RootConditionReword string  `json:"rootConditionReword"`
	Score               float64 `json:"score"`
}

// Feedback sentiments accepted by the backend.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
)

// Client is the remote bot backend as seen by the widget core. Implementations
// own transport concerns (retries, auth); the core performs none of those.
type Client interface {
	Talk(ctx context.Context, text string, contextID string, options map[string]any) (TalkResponse, error)
	History(ctx context.Context, contextID string) ([]HistoryMessage, error)
	AutomaticMessage(ctx context.Context, universe string, subsidiary string) (HistoryMessage, error)
	InformationBanner(ctx context.Context) (Banner, error)
	Suggestions(ctx context.Context, partial string) ([]Suggestion, error)
	Feedback(ctx context.Context, contextID string, sentiment string, details string) error
	TopKnowledge(ctx context.Context, maxKnowledge int) ([]string, error)
	SetConfig(cfg Config)
}
