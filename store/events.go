package store

import (
	"github.com/google/uuid"

	filetree "github.com/prati1/file-tree-render"
	"github.com/prati1/file-tree-render/internal/util"
)

// DefaultEventBuffer is the per-subscriber channel capacity.
const DefaultEventBuffer = 16

// Subscribe registers a change-notification channel and returns its
// subscription id. Events are delivered after the corresponding mutation has
// committed. A subscriber that falls behind its buffer loses events rather
// than blocking store mutations.
func (s *Store) Subscribe() (string, <-chan filetree.Event) {
	id := uuid.New().String()
	ch := make(chan filetree.Event, s.evBuf)
	s.subs.Store(id, ch)
	return id, ch
}

// Unsubscribe removes the subscription and closes its channel.
func (s *Store) Unsubscribe(id string) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if ch, ok := s.subs.LoadAndDelete(id); ok {
		close(ch)
	}
}

// emit fans the event out to all subscribers without blocking. Must be
// called after s.mu is released.
func (s *Store) emit(ev filetree.Event) {
	logger := util.GetLogger("Store.emit")

	s.subMu.RLock()
	defer s.subMu.RUnlock()
	s.subs.Range(func(id string, ch chan filetree.Event) bool {
		select {
		case ch <- ev:
		default:
			logger.Warn().Str("subscriber", id).Str("op", string(ev.Op)).Msg("Dropped event for slow subscriber")
		}
		return true
	})
}
