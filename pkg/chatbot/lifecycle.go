package chatbot

import (
	"context"

	"github.com/looplab/fsm"
	"github.com/rs/zerolog"

	"github.com/ovh-ux/chatbot-core/pkg/signals"
)

// Widget lifecycle states. Opening means the start sequence is still running;
// the widget is already visible in both opening and open.
const (
	StateClosed  = "closed"
	StateOpening = "opening"
	StateOpen    = "open"
)

const (
	eventOpen    = "open"
	eventRestore = "restore"
	eventStarted = "started"
	eventClose   = "close"
)

type stateMachine struct {
	*fsm.FSM
}

func newStateMachine(logger zerolog.Logger) *stateMachine {
	return &stateMachine{FSM: fsm.NewFSM(
		StateClosed,
		fsm.Events{
			{Name: eventOpen, Src: []string{StateClosed}, Dst: StateOpening},
			{Name: eventRestore, Src: []string{StateClosed}, Dst: StateOpen},
			{Name: eventStarted, Src: []string{StateOpening}, Dst: StateOpen},
			{Name: eventClose, Src: []string{StateOpening, StateOpen}, Dst: StateClosed},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				logger.Debug().Str("from", e.Src).Str("to", e.Dst).Msg("widget state change")
			},
		},
	)}
}

// Open makes the widget visible. The first open of a lifetime kicks off the
// start sequence without waiting for it; later opens just restore visibility.
// A disabled widget ignores the request entirely.
func (c *Controller) Open(ctx context.Context) {
	if !c.cfg.Enabled {
		return
	}
	c.mu.Lock()
	needStart := !c.started
	c.mu.Unlock()

	if needStart {
		if err := c.machine.Event(ctx, eventOpen); err != nil {
			return
		}
		go func() {
			if err := c.Start(c.baseCtx); err != nil {
				c.logger.Error().Err(err).Msg("widget start failed")
			}
			_ = c.machine.Event(c.baseCtx, eventStarted)
		}()
	} else {
		if err := c.machine.Event(ctx, eventRestore); err != nil {
			return
		}
	}
	c.emit(signals.TopicOpened)
}

// Close hides the widget without touching the started latch, so reopening is
// instant.
func (c *Controller) Close() {
	_ = c.machine.Event(c.baseCtx, eventClose)
}

// FullClose hides the widget and resets the started latch; the next Open
// re-runs the whole start sequence. Used when the underlying context or
// configuration changed and a fresh session is required.
func (c *Controller) FullClose() {
	c.Close()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.started = false
	if c.surveyTimer != nil {
		c.surveyTimer.Stop()
		c.surveyTimer = nil
	}
}

// Hidden reports whether the widget is collapsed.
func (c *Controller) Hidden() bool {
	return c.machine.Current() == StateClosed
}

// State exposes the lifecycle state for the host's rendering.
func (c *Controller) State() string {
	return c.machine.Current()
}

// BindSignals subscribes the controller to host-emitted open requests on the
// signal bus. The subscription lives until ctx is cancelled.
func (c *Controller) BindSignals(ctx context.Context) error {
	if c.bus == nil {
		return nil
	}
	ch, err := c.bus.Subscribe(ctx, signals.TopicOpen)
	if err != nil {
		return err
	}
	go func() {
		for msg := range ch {
			c.Open(ctx)
			msg.Ack()
		}
	}()
	return nil
}

func (c *Controller) emit(topic string) {
	if c.bus == nil {
		return
	}
	if err := c.bus.Publish(topic, []byte(c.machine.Current())); err != nil {
		c.logger.Warn().Err(err).Str("topic", topic).Msg("signal publish failed")
	}
}
