package chatbot

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/ovh-ux/chatbot-core/pkg/botapi"
)

// surveyPrompt builds the two-step survey message in its ask step.
func (c *Controller) surveyPrompt() Message {
	text := c.translate(translationSurvey)
	return Message{
		ID:      uuid.NewString(),
		Text:    text,
		Time:    formatClock(c.now()),
		Type:    MessageTypeSurvey,
		Quality: Classify(text),
		Survey:  &SurveyState{Step: SurveyStepAsk},
	}
}

// scheduleSurvey arms the delayed survey insertion after a reply that asked
// for feedback. A newer request supersedes a pending one, and the insertion
// itself drops any survey already in the transcript first so at most one
// exists at a time.
func (c *Controller) scheduleSurvey() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.surveyTimer != nil {
		c.surveyTimer.Stop()
	}
	c.surveyTimer = time.AfterFunc(c.cfg.SurveyDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.removeSurveyLocked()
		c.pushLocked(c.surveyPrompt())
	})
}

// AdvanceSurvey moves the pending survey from the ask step to the free-text
// details step, swapping its display text for the detail-request prompt.
// No-op when nothing is waiting or the survey already advanced.
func (c *Controller) AdvanceSurvey() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.messages {
		m := &c.messages[i]
		if m.Type != MessageTypeSurvey || m.Survey == nil || m.Survey.Step != SurveyStepAsk {
			continue
		}
		m.Survey.Step = SurveyStepDetails
		m.Text = c.translate(translationSurveyDetails)
		return
	}
}

// RemoveSurvey drops any survey message from the transcript. Idempotent.
func (c *Controller) RemoveSurvey() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeSurveyLocked()
}

func (c *Controller) removeSurveyLocked() {
	out := make([]Message, 0, len(c.messages))
	for _, m := range c.messages {
		if m.Type == MessageTypeSurvey {
			continue
		}
		out = append(out, m)
	}
	c.messages = out
}

// AnswerSurvey dismisses the survey and reports the verdict with optional
// free-text details. The survey stays dismissed even when the feedback call
// fails; there is no rollback.
func (c *Controller) AnswerSurvey(ctx context.Context, answer bool, details string) error {
	c.mu.Lock()
	c.removeSurveyLocked()
	contextID := c.contextID
	c.mu.Unlock()

	sentiment := botapi.SentimentNegative
	if answer {
		sentiment = botapi.SentimentPositive
	}
	if err := c.client.Feedback(ctx, contextID, sentiment, details); err != nil {
		return errors.Wrap(err, "send feedback")
	}
	c.push(c.botMessage(c.translate(translationThanks)))
	return nil
}
