package chatbot

import (
	"context"
	"time"

	"github.com/ovh-ux/chatbot-core/pkg/botapi"
	"github.com/ovh-ux/chatbot-core/pkg/contextstore"
)

// fakeClient implements botapi.Client with overridable behaviors.
type fakeClient struct {
	talk         func(ctx context.Context, text, contextID string, options map[string]any) (botapi.TalkResponse, error)
	history      func(ctx context.Context, contextID string) ([]botapi.HistoryMessage, error)
	automatic    func(ctx context.Context, universe, subsidiary string) (botapi.HistoryMessage, error)
	banner       func(ctx context.Context) (botapi.Banner, error)
	suggestions  func(ctx context.Context, partial string) ([]botapi.Suggestion, error)
	feedback     func(ctx context.Context, contextID, sentiment, details string) error
	topKnowledge func(ctx context.Context, maxKnowledge int) ([]string, error)
}

var _ botapi.Client = &fakeClient{}

func (f *fakeClient) Talk(ctx context.Context, text, contextID string, options map[string]any) (botapi.TalkResponse, error) {
	if f.talk == nil {
		return botapi.TalkResponse{Text: "ok"}, nil
	}
	return f.talk(ctx, text, contextID, options)
}

func (f *fakeClient) History(ctx context.Context, contextID string) ([]botapi.HistoryMessage, error) {
	if f.history == nil {
		return nil, nil
	}
	return f.history(ctx, contextID)
}

func (f *fakeClient) AutomaticMessage(ctx context.Context, universe, subsidiary string) (botapi.HistoryMessage, error) {
	if f.automatic == nil {
		return botapi.HistoryMessage{Text: "greetings", Type: "bot", Time: fixedNow()}, nil
	}
	return f.automatic(ctx, universe, subsidiary)
}

func (f *fakeClient) InformationBanner(ctx context.Context) (botapi.Banner, error) {
	if f.banner == nil {
		return botapi.Banner{}, nil
	}
	return f.banner(ctx)
}

func (f *fakeClient) Suggestions(ctx context.Context, partial string) ([]botapi.Suggestion, error) {
	if f.suggestions == nil {
		return nil, nil
	}
	return f.suggestions(ctx, partial)
}

func (f *fakeClient) Feedback(ctx context.Context, contextID, sentiment, details string) error {
	if f.feedback == nil {
		return nil
	}
	return f.feedback(ctx, contextID, sentiment, details)
}

func (f *fakeClient) TopKnowledge(ctx context.Context, maxKnowledge int) ([]string, error) {
	if f.topKnowledge == nil {
		return nil, nil
	}
	return f.topKnowledge(ctx, maxKnowledge)
}

func (f *fakeClient) SetConfig(cfg botapi.Config) {}

const (
	testWait = 2 * time.Second
	testTick = 5 * time.Millisecond
)

func fixedNow() time.Time {
	return time.Date(2024, 6, 1, 15, 4, 0, 0, time.UTC)
}

type controllerOption func(*Options)

func withClient(client botapi.Client) controllerOption {
	return func(o *Options) { o.Client = client }
}

func withStore(store contextstore.Store) controllerOption {
	return func(o *Options) { o.Store = store }
}

func withConfig(cfg Config) controllerOption {
	return func(o *Options) { o.Config = cfg }
}

func newTestController(t interface{ Fatalf(string, ...any) }, opts ...controllerOption) *Controller {
	options := Options{
		Config: DefaultConfig(),
		Client: &fakeClient{},
		Store:  contextstore.NewMemoryStore(),
		Clock:  fixedNow,
	}
	for _, opt := range opts {
		opt(&options)
	}
	c, err := New(options)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	return c
}
