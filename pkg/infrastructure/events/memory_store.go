package events

import (
	"sync"
)

// InMemoryStore keeps events per stream in memory. Appends are synchronous;
// the lifecycle manager is the only writer in a planning cycle.
type InMemoryStore struct {
	streams   map[string][]Event
	allEvents []Event
	mutex     sync.RWMutex
}

// Verify interface compliance
var _ Store = (*InMemoryStore)(nil)

// NewInMemoryStore creates an empty event store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		streams:   make(map[string][]Event),
		allEvents: make([]Event, 0),
	}
}

// AppendEvent assigns the next version in the stream and stores the event.
func (s *InMemoryStore) AppendEvent(streamID string, event Event) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	versioned := BaseEvent{
		EventType:    event.Type(),
		Stream:       streamID,
		EventData:    event.Data(),
		EventTime:    event.Timestamp(),
		EventVersion: len(s.streams[streamID]) + 1,
	}

	s.streams[streamID] = append(s.streams[streamID], versioned)
	s.allEvents = append(s.allEvents, versioned)
	return nil
}

// ReadEvents returns a stream's events starting at fromVersion (1-based).
func (s *InMemoryStore) ReadEvents(streamID string, fromVersion int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	stream, exists := s.streams[streamID]
	if !exists {
		return []Event{}, nil
	}
	if fromVersion < 1 {
		fromVersion = 1
	}
	if fromVersion > len(stream) {
		return []Event{}, nil
	}

	out := make([]Event, len(stream[fromVersion-1:]))
	copy(out, stream[fromVersion-1:])
	return out, nil
}

// ReadAllEvents returns every stored event across streams in append order.
func (s *InMemoryStore) ReadAllEvents() ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := make([]Event, len(s.allEvents))
	copy(out, s.allEvents)
	return out, nil
}
