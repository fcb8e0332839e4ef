// Package fakebackend serves a scriptable stand-in for the chatbot API in tests.
package fakebackend

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Reply is a canned HTTP response.
type Reply struct {
	Status int
	Body   string
}

// JSON builds a Reply with body v encoded as JSON.
func JSON(status int, v any) Reply {
	data, _ := json.Marshal(v)
	return Reply{Status: status, Body: string(data)}
}

// Server records calls to /chat and /random_questions and answers them with
// the currently configured replies.
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	chatReply  func(msg string) Reply
	questions  Reply
	chatCalls  []string
	countCalls []int
	hold       chan struct{}
}

// New starts a server that echoes chat messages and serves no questions.
func New() *Server {
	s := &Server{
		chatReply: func(msg string) Reply {
			return JSON(http.StatusOK, map[string]string{"response": "echo: " + msg})
		},
		questions: JSON(http.StatusOK, map[string][]string{"questions": {}}),
	}

	r := chi.NewRouter()
	r.Post("/chat", s.handleChat)
	r.Get("/random_questions", s.handleQuestions)
	s.Server = httptest.NewServer(r)
	return s
}

// SetChatReply answers every chat call with reply.
func (s *Server) SetChatReply(reply Reply) {
	s.SetChatFunc(func(string) Reply { return reply })
}

// SetChatFunc answers chat calls with fn(user_message).
func (s *Server) SetChatFunc(fn func(msg string) Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chatReply = fn
}

// SetQuestions answers question fetches with reply.
func (s *Server) SetQuestions(reply Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = reply
}

// SetQuestionList answers question fetches with 200 and the given list.
func (s *Server) SetQuestionList(questions ...string) {
	if questions == nil {
		questions = []string{}
	}
	s.SetQuestions(JSON(http.StatusOK, map[string][]string{"questions": questions}))
}

// HoldChat blocks chat replies until the returned release func is called.
// The request is recorded before it blocks.
func (s *Server) HoldChat() (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.hold = ch
	s.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

// ChatCalls returns the user messages received so far.
func (s *Server) ChatCalls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.chatCalls...)
}

// QuestionCalls returns the count parameter of every question fetch.
func (s *Server) QuestionCalls() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.countCalls...)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var req struct {
		UserMessage string `json:"user_message"`
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		write(w, JSON(http.StatusUnprocessableEntity, map[string]string{"detail": "invalid body"}))
		return
	}

	s.mu.Lock()
	s.chatCalls = append(s.chatCalls, req.UserMessage)
	fn := s.chatReply
	hold := s.hold
	s.mu.Unlock()

	if hold != nil {
		select {
		case <-hold:
		case <-r.Context().Done():
			return
		}
	}
	write(w, fn(req.UserMessage))
}

func (s *Server) handleQuestions(w http.ResponseWriter, r *http.Request) {
	count, _ := strconv.Atoi(r.URL.Query().Get("count"))

	s.mu.Lock()
	s.countCalls = append(s.countCalls, count)
	reply := s.questions
	s.mu.Unlock()

	write(w, reply)
}

func write(w http.ResponseWriter, reply Reply) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(reply.Status)
	_, _ = io.WriteString(w, reply.Body)
}
