package bus

import (
	"context"
	"fmt"
	"sync"

	"github.com/linanwx/cloudchat/logger"
)

const defaultBufferSize = 64

// Handler is a function that handles events.
type Handler func(ctx context.Context, event *Event)

// Subscription represents a subscription to events.
type Subscription struct {
	ID        string
	EventType EventType
	Handler   Handler
}

// Bus delivers published events to subscribers asynchronously. Each handler
// call runs on its own goroutine, so handlers may block.
type Bus struct {
	mu            sync.RWMutex
	subscriptions map[string]*Subscription
	subCounter    int64

	eventChan chan *Event
	done      chan struct{}
	closeOnce sync.Once
	loop      sync.WaitGroup
	handlers  sync.WaitGroup
}

// NewBus creates a new event bus.
func NewBus(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}

	b := &Bus{
		subscriptions: make(map[string]*Subscription),
		eventChan:     make(chan *Event, bufferSize),
		done:          make(chan struct{}),
	}

	b.loop.Add(1)
	go b.processEvents()

	return b
}

// Subscribe registers a handler for a specific event type.
func (b *Bus) Subscribe(eventType EventType, handler Handler) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subCounter++
	id := fmt.Sprintf("sub-%d", b.subCounter)

	b.subscriptions[id] = &Subscription{
		ID:        id,
		EventType: eventType,
		Handler:   handler,
	}

	logger.Debug("subscription added", "id", id, "eventType", eventType)
	return id
}

// Unsubscribe removes a subscription by ID.
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subscriptions, id)
}

// Publish queues an event. It never blocks and reports whether the event was
// accepted.
func (b *Bus) Publish(event *Event) bool {
	select {
	case <-b.done:
		logger.Warn("bus closed, event dropped", "type", event.Type)
		return false
	default:
	}

	select {
	case b.eventChan <- event:
		logger.Debug("event published", "type", event.Type, "source", event.Source)
		return true
	default:
		logger.Warn("event buffer full, event dropped", "type", event.Type)
		return false
	}
}

// Emit builds and publishes an event in one step.
func (b *Bus) Emit(eventType EventType, source string, data any) error {
	event, err := NewEvent(eventType, source, data)
	if err != nil {
		return fmt.Errorf("bus: encode %s: %w", eventType, err)
	}
	if !b.Publish(event) {
		return fmt.Errorf("bus: %s dropped", eventType)
	}
	return nil
}

// Close stops the bus after delivering queued events and waits for running
// handlers to return.
func (b *Bus) Close() {
	b.closeOnce.Do(func() {
		close(b.done)
		b.loop.Wait()
		b.handlers.Wait()
	})
}

// processEvents is the main event processing loop.
func (b *Bus) processEvents() {
	defer b.loop.Done()

	for {
		select {
		case event := <-b.eventChan:
			b.dispatch(event)
		case <-b.done:
			for {
				select {
				case event := <-b.eventChan:
					b.dispatch(event)
				default:
					return
				}
			}
		}
	}
}

// dispatch sends an event to all matching subscribers.
func (b *Bus) dispatch(event *Event) {
	b.mu.RLock()
	subs := make([]*Subscription, 0, len(b.subscriptions))
	for _, sub := range b.subscriptions {
		if sub.EventType == event.Type {
			subs = append(subs, sub)
		}
	}
	b.mu.RUnlock()

	ctx := context.Background()
	for _, sub := range subs {
		b.handlers.Add(1)
		go func(s *Subscription) {
			defer b.handlers.Done()
			defer func() {
				if r := recover(); r != nil {
					logger.Error("handler panic", "subscription", s.ID, "panic", r)
				}
			}()
			s.Handler(ctx, event)
		}(sub)
	}
}
