package chatbot

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/ovh-ux/chatbot-core/pkg/botapi"
)

// minSuggestLen is the shortest input that triggers a remote fetch. Anything
// at or below clears the visible list instead.
const minSuggestLen = 3

// maxSuggestions caps the visible autocomplete list.
const maxSuggestions = 3

// Suggester fetches ranked autocomplete candidates for the text being typed.
// The busy flag, not response ordering, is the correctness mechanism: while a
// fetch is in flight every new trigger is dropped outright, so the visible
// list always reflects the last request that was allowed to start.
type Suggester struct {
	client botapi.Client

	mu   sync.Mutex
	busy bool
	list []string
}

func NewSuggester(client botapi.Client) *Suggester {
	return &Suggester{client: client}
}

// Suggest refreshes the visible suggestion list for the given partial input.
// Short input and overlapping calls clear the list without issuing a request.
// A remote failure propagates and leaves the previous list untouched.
func (s *Suggester) Suggest(ctx context.Context, partial string) error {
	s.mu.Lock()
	if len(partial) <= minSuggestLen || s.busy {
		s.list = nil
		s.mu.Unlock()
		return nil
	}
	s.busy = true
	s.mu.Unlock()

	candidates, err := s.client.Suggestions(ctx, partial)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if err != nil {
		log.Debug().Str("component", "suggester").Err(err).Msg("suggestion fetch failed")
		return errors.Wrap(err, "fetch suggestions")
	}
	s.list = rankSuggestions(candidates)
	return nil
}

// rankSuggestions sorts by descending score, dedupes keeping first-seen order
// and truncates to the display cap.
func rankSuggestions(candidates []botapi.Suggestion) []string {
	ranked := append([]botapi.Suggestion(nil), candidates...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	seen := map[string]struct{}{}
	out := make([]string, 0, maxSuggestions)
	for _, c := range ranked {
		if _, ok := seen[c.RootConditionReword]; ok {
			continue
		}
		seen[c.RootConditionReword] = struct{}{}
		out = append(out, c.RootConditionReword)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

// Suggestions returns a copy of the visible list.
func (s *Suggester) Suggestions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.list...)
}

// Clear empties the visible list, e.g. right before a message is sent.
func (s *Suggester) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list = nil
}

// Busy reports whether a fetch is in flight.
func (s *Suggester) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}
