package chatbot

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/ovh-ux/chatbot-core/pkg/signals"
)

// Ask sends free text to the bot. An empty argument falls back to the pending
// input buffer. Buffer and suggestions are cleared before the request leaves,
// so a retry cannot resubmit stale state. Blank text is a user no-op, not an
// error.
func (c *Controller) Ask(ctx context.Context, text string) error {
	c.mu.Lock()
	if text == "" {
		text = c.input
	}
	c.input = ""
	c.mu.Unlock()
	c.suggester.Clear()

	if strings.TrimSpace(text) == "" {
		return nil
	}

	c.setAsking(true)
	defer c.setAsking(false)
	return c.post(ctx, text, nil, MessageTypeUser)
}

// Postback sends a button-driven reply: same pipeline as Ask, but the message
// renders as a postback and the choice's options travel as exchange
// parameters.
func (c *Controller) Postback(ctx context.Context, choice PostbackChoice) error {
	c.setAsking(true)
	defer c.setAsking(false)
	return c.post(ctx, choice.Text, choice.Options, MessageTypePostback)
}

// post is the shared send pipeline. The outgoing message is appended before
// the exchange resolves; on failure it stays in the transcript with no bot
// reply and no visible error, per the widget's silent-failure contract.
func (c *Controller) post(ctx context.Context, text string, options map[string]any, typ MessageType) error {
	c.push(Message{
		Text:    text,
		Time:    formatClock(c.now()),
		Type:    typ,
		Quality: Classify(text),
	})

	reply, err := c.client.Talk(ctx, text, c.ContextID(), options)
	if err != nil {
		return errors.Wrap(err, "talk")
	}

	c.saveContextID(ctx, reply.ContextID)
	c.push(Message{
		Text: reply.Text,
		// The reply is stamped with the backend's clock, not ours.
		Time:    formatClock(reply.ServerTime),
		Type:    MessageTypeBot,
		Quality: Classify(reply.Text),
	})

	if reply.AskFeedback {
		c.scheduleSurvey()
	}
	if reply.StartLivechat {
		c.emit(signals.TopicLivechat)
	}
	return nil
}

// saveContextID caches and persists a freshly returned context id. An empty
// id never clears an existing one, and a failing store does not fail the
// exchange.
func (c *Controller) saveContextID(ctx context.Context, id string) {
	if id == "" {
		return
	}
	c.mu.Lock()
	c.contextID = id
	c.mu.Unlock()
	if err := c.store.Save(ctx, id); err != nil {
		c.logger.Warn().Err(err).Msg("context id save failed")
	}
}
