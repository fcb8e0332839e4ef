package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/linanwx/cloudchat/logger"
)

// Backend answers a single user message.
type Backend interface {
	Chat(ctx context.Context, message string) (string, error)
}

// Config tunes a Session.
type Config struct {
	// Timeout bounds each chat request. Zero means no timeout.
	Timeout time.Duration
}

// Session is one in-memory conversation: the transcript, the input draft and
// the typing indicator. It is safe for concurrent use.
//
// Each submission moves Idle -> Sending -> Success|Failed -> Idle. Concurrent
// submissions are not serialized; typing stays set while any is in flight.
type Session struct {
	backend Backend
	cfg     Config

	mu         sync.Mutex
	transcript []Message
	draft      string
	inFlight   int
	onChange   func()
	onSent     func(reply Message)
}

// NewSession creates an empty session backed by backend.
func NewSession(backend Backend, cfg Config) *Session {
	return &Session{backend: backend, cfg: cfg}
}

// OnChange registers fn to run after every transcript or typing change.
// fn must not block; it may run on any goroutine.
func (s *Session) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// OnSent registers fn to run once per submission with the entry that ended
// it, which is the failure entry when the backend call failed.
func (s *Session) OnSent(fn func(reply Message)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSent = fn
}

// SetDraft replaces the input draft.
func (s *Session) SetDraft(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = text
}

// Draft returns the input draft.
func (s *Session) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Transcript returns a copy of the transcript.
func (s *Session) Transcript() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.transcript...)
}

// Typing reports whether a reply is pending.
func (s *Session) Typing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight > 0
}

// Submit sends the draft and clears it. It blocks until the reply (or the
// failure entry) is in the transcript and returns that entry. ok is false
// when the draft is blank; nothing happens in that case.
func (s *Session) Submit(ctx context.Context) (reply Message, ok bool) {
	done, ok := s.SubmitAsync(ctx)
	if !ok {
		return Message{}, false
	}
	return <-done, true
}

// SendSpecificMessage sends text without touching the draft. It blocks like
// Submit.
func (s *Session) SendSpecificMessage(ctx context.Context, text string) (reply Message, ok bool) {
	done, ok := s.SendSpecificMessageAsync(ctx, text)
	if !ok {
		return Message{}, false
	}
	return <-done, true
}

// SubmitAsync records the draft as a user message, clears the draft and
// starts the request. The returned channel yields the reply entry once.
func (s *Session) SubmitAsync(ctx context.Context) (<-chan Message, bool) {
	s.mu.Lock()
	text := s.draft
	if strings.TrimSpace(text) == "" {
		s.mu.Unlock()
		return nil, false
	}
	s.draft = ""
	s.beginLocked(text)
	notify := s.onChange
	s.mu.Unlock()

	call(notify)
	return s.start(ctx, text), true
}

// SendSpecificMessageAsync is SubmitAsync for text that did not come from the
// draft.
func (s *Session) SendSpecificMessageAsync(ctx context.Context, text string) (<-chan Message, bool) {
	if strings.TrimSpace(text) == "" {
		return nil, false
	}
	s.mu.Lock()
	s.beginLocked(text)
	notify := s.onChange
	s.mu.Unlock()

	call(notify)
	return s.start(ctx, text), true
}

// beginLocked appends the user entry before any request is issued, so it
// always precedes its reply.
func (s *Session) beginLocked(text string) {
	s.transcript = append(s.transcript, UserMessage(text))
	s.inFlight++
}

func (s *Session) start(ctx context.Context, text string) <-chan Message {
	done := make(chan Message, 1)
	go func() {
		reply := s.exchange(ctx, text)

		s.mu.Lock()
		s.transcript = append(s.transcript, reply)
		s.inFlight--
		changed, sent := s.onChange, s.onSent
		s.mu.Unlock()

		call(changed)
		if sent != nil {
			sent(reply)
		}
		done <- reply
	}()
	return done
}

func (s *Session) exchange(ctx context.Context, text string) Message {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := s.backend.Chat(ctx, text)
	if err != nil {
		logger.Error("Error sending message to backend", "err", err, "latencyMs", time.Since(start).Milliseconds())
		return FailureMessage()
	}
	logger.Debug("chat reply received", "inputChars", len(text), "outputChars", len(resp), "latencyMs", time.Since(start).Milliseconds())
	return BotMessage(resp)
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}
