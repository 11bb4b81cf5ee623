// Package chatbot is the conversation-state machine behind the embeddable
// chat widget.
//
// Ownership model:
//   - The Controller exclusively owns the widget lifecycle, the transcript
//     and the loader flags; hosts read them through snapshot accessors.
//   - Remote exchange, durable context storage and cross-component signaling
//     are injected (botapi.Client, contextstore.Store, signals.Bus), so tests
//     substitute in-memory fakes.
//   - DOM behaviors (drag, follow-scroll, live suggestion wiring) belong to
//     the host and are handed in as peripheral hooks run once at start.
//
// Pipelines are sequential within a call: start runs banner, history replay
// and the welcome fallback in order; the send pipeline appends the outgoing
// message optimistically before the exchange resolves. The Suggester drops
// triggers while a fetch is in flight instead of queueing them.
package chatbot
