package chatbot

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ovh-ux/chatbot-core/pkg/botapi"
	"github.com/ovh-ux/chatbot-core/pkg/contextstore"
	"github.com/ovh-ux/chatbot-core/pkg/signals"
)

// Translation keys resolved through the host's translation provider.
const (
	translationWelcome       = "chatbot_welcome_message"
	translationSurvey        = "chatbot_survey_message"
	translationSurveyDetails = "chatbot_survey_details_message"
	translationThanks        = "chatbot_thanks_message"
)

// welcomeRewordCount is how many top-knowledge rewords decorate the welcome
// message.
const welcomeRewordCount = 3

// DefaultSurveyDelay separates the bot's reply from the survey prompt it
// requested.
const DefaultSurveyDelay = 5 * time.Second

// TranslateFunc resolves a translation key to display text. Localization is
// owned by the host; the default resolver returns the key unchanged.
type TranslateFunc func(key string) string

// Config tunes one widget instance.
type Config struct {
	// Enabled gates the whole widget; Open is a no-op when false.
	Enabled bool
	// Universe and Subsidiary scope the automatic greeting.
	Universe   string
	Subsidiary string
	// SurveyDelay is the pause between a feedback-requesting reply and the
	// survey prompt appearing.
	SurveyDelay time.Duration
	// RecoverBannerFailure makes a failed banner fetch degrade to "no banner"
	// instead of aborting startup.
	RecoverBannerFailure bool
}

func DefaultConfig() Config {
	return Config{Enabled: true, SurveyDelay: DefaultSurveyDelay}
}

// Options wires a Controller to its collaborators.
type Options struct {
	BaseCtx   context.Context
	Config    Config
	Client    botapi.Client
	Store     contextstore.Store
	Bus       *signals.Bus
	Clock     func() time.Time
	Translate TranslateFunc
	// Peripherals are the host-side behaviors (drag, follow-scroll, live
	// suggestion wiring) enabled once at the top of the start sequence.
	Peripherals []func()
}

// Controller is the hub of the widget: it owns the lifecycle, the transcript
// and the loader flags, and orchestrates every remote exchange.
type Controller struct {
	cfg         Config
	client      botapi.Client
	store       contextstore.Store
	bus         *signals.Bus
	suggester   *Suggester
	translate   TranslateFunc
	now         func() time.Time
	peripherals []func()
	baseCtx     context.Context
	logger      zerolog.Logger

	machine *stateMachine

	mu          sync.Mutex
	started     bool
	messages    []Message
	input       string
	banner      string
	contextID   string
	loaders     Loaders
	surveyTimer *time.Timer
}

func New(opts Options) (*Controller, error) {
	if opts.Client == nil {
		return nil, errors.New("chatbot: client is nil")
	}
	if opts.Store == nil {
		return nil, errors.New("chatbot: context store is nil")
	}
	baseCtx := opts.BaseCtx
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	cfg := opts.Config
	if cfg.SurveyDelay <= 0 {
		cfg.SurveyDelay = DefaultSurveyDelay
	}
	translate := opts.Translate
	if translate == nil {
		translate = func(key string) string { return key }
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	c := &Controller{
		cfg:         cfg,
		client:      opts.Client,
		store:       opts.Store,
		bus:         opts.Bus,
		suggester:   NewSuggester(opts.Client),
		translate:   translate,
		now:         now,
		peripherals: opts.Peripherals,
		baseCtx:     baseCtx,
		logger:      log.With().Str("component", "chatbot").Logger(),
	}
	c.machine = newStateMachine(c.logger)

	contextID, err := opts.Store.Get(baseCtx)
	if err != nil {
		return nil, errors.Wrap(err, "chatbot: read stored context id")
	}
	c.contextID = contextID
	return c, nil
}

// Start runs the one-time startup pipeline: peripherals, banner, history
// replay (or welcome fallback), then transcript installation. It runs at most
// once per widget lifetime until FullClose resets the latch.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return nil
	}
	c.started = true
	c.loaders.IsStarting = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.loaders.IsStarting = false
		c.mu.Unlock()
	}()

	for _, enable := range c.peripherals {
		enable()
	}

	banner, err := c.client.InformationBanner(ctx)
	switch {
	case err == nil:
		c.mu.Lock()
		c.banner = banner.Text
		c.mu.Unlock()
	case c.cfg.RecoverBannerFailure:
		c.logger.Warn().Err(err).Msg("banner fetch failed, continuing without banner")
	default:
		return errors.Wrap(err, "fetch information banner")
	}

	messages := c.replayHistory(ctx)
	if len(messages) == 0 {
		messages, err = c.welcome(ctx)
		if err != nil {
			return errors.Wrap(err, "build welcome sequence")
		}
	}
	// Quality is never persisted, so every load reclassifies.
	for i := range messages {
		messages[i].Quality = Classify(messages[i].Text)
	}

	c.mu.Lock()
	c.messages = messages
	c.mu.Unlock()
	return nil
}

// replayHistory loads the prior transcript for a stored context id. A stale
// or foreign id must not break startup, so failures degrade to an empty
// history.
func (c *Controller) replayHistory(ctx context.Context) []Message {
	contextID := c.ContextID()
	if contextID == "" {
		return nil
	}
	history, err := c.client.History(ctx, contextID)
	if err != nil {
		c.logger.Warn().Err(err).Str("context_id", contextID).Msg("history fetch failed, starting fresh")
		return nil
	}
	out := make([]Message, 0, len(history))
	for _, h := range history {
		out = append(out, c.fromHistory(h))
	}
	return out
}

// welcome builds the fresh-conversation greeting: the backend's automatic
// message followed by the static welcome, decorated with top-knowledge
// rewords when available.
func (c *Controller) welcome(ctx context.Context) ([]Message, error) {
	greeting, err := c.client.AutomaticMessage(ctx, c.cfg.Universe, c.cfg.Subsidiary)
	if err != nil {
		return nil, errors.Wrap(err, "fetch automatic message")
	}
	welcome := c.botMessage(c.translate(translationWelcome))
	if rewords, err := c.client.TopKnowledge(ctx, welcomeRewordCount); err == nil {
		welcome.Rewords = rewords
	} else {
		c.logger.Debug().Err(err).Msg("top knowledge fetch failed, welcome without rewords")
	}
	return []Message{c.fromHistory(greeting), welcome}, nil
}

func (c *Controller) fromHistory(h botapi.HistoryMessage) Message {
	typ := MessageType(h.Type)
	switch typ {
	case MessageTypeUser, MessageTypeBot, MessageTypePostback:
	default:
		typ = MessageTypeBot
	}
	return Message{
		ID:      uuid.NewString(),
		Text:    h.Text,
		Time:    formatClock(h.Time),
		Type:    typ,
		Quality: Classify(h.Text),
	}
}

func (c *Controller) botMessage(text string) Message {
	return Message{
		ID:      uuid.NewString(),
		Text:    text,
		Time:    formatClock(c.now()),
		Type:    MessageTypeBot,
		Quality: Classify(text),
	}
}

func (c *Controller) push(m Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pushLocked(m)
}

func (c *Controller) pushLocked(m Message) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	c.messages = append(c.messages, m)
}

// Suggest feeds the suggestion engine with the text being typed.
func (c *Controller) Suggest(ctx context.Context, partial string) error {
	return c.suggester.Suggest(ctx, partial)
}

// SetInput replaces the pending input buffer.
func (c *Controller) SetInput(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = text
}

func (c *Controller) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// Messages returns a snapshot of the transcript in display order.
func (c *Controller) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.messages...)
}

func (c *Controller) Suggestions() []string {
	return c.suggester.Suggestions()
}

func (c *Controller) Banner() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.banner
}

func (c *Controller) ContextID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.contextID
}

func (c *Controller) Started() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.started
}

// Loaders reports the current spinner state.
func (c *Controller) Loaders() Loaders {
	c.mu.Lock()
	l := c.loaders
	c.mu.Unlock()
	l.IsGettingSuggestions = c.suggester.Busy()
	return l
}

func (c *Controller) setAsking(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaders.IsAsking = v
}

// formatClock renders a transcript timestamp the way the widget displays it.
func formatClock(t time.Time) string {
	return t.Format("15:04")
}
