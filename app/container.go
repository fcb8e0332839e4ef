// Package app composes the chat session and the suggestion board. The
// Container routes events between them over the bus and owns nothing else
// but the refresh counter.
package app

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/linanwx/cloudchat/bus"
	"github.com/linanwx/cloudchat/chat"
	"github.com/linanwx/cloudchat/logger"
	"github.com/linanwx/cloudchat/suggest"
)

const source = "container"

// Container wires cloud clicks to the session and finished submissions to
// suggestion refreshes. It performs no network I/O itself.
type Container struct {
	session *chat.Session
	board   *suggest.Board
	bus     *bus.Bus

	counter atomic.Uint64

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	subs   []string
}

// New creates a container. Call Start before use.
func New(session *chat.Session, board *suggest.Board, b *bus.Bus) *Container {
	return &Container{session: session, board: board, bus: b}
}

// Session returns the chat session.
func (c *Container) Session() *chat.Session { return c.session }

// Board returns the suggestion board.
func (c *Container) Board() *suggest.Board { return c.board }

// Counter returns the current refresh counter.
func (c *Container) Counter() uint64 { return c.counter.Load() }

// Start subscribes to the bus and signals the board for its first fetch.
// Requests started by the container are cancelled when ctx ends or Stop is
// called.
func (c *Container) Start(ctx context.Context) {
	c.mu.Lock()
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.subs = append(c.subs,
		c.bus.Subscribe(bus.EventCloudClicked, c.handleCloudClicked),
		c.bus.Subscribe(bus.EventMessageSent, c.handleMessageSent),
		c.bus.Subscribe(bus.EventRefresh, c.handleRefresh),
	)
	c.mu.Unlock()

	c.session.OnSent(func(reply chat.Message) {
		data := bus.MessageSentData{Failed: reply.IsError}
		if err := c.bus.Emit(bus.EventMessageSent, "session", data); err != nil {
			logger.Warn("message sent notification lost", "err", err)
		}
	})
	c.board.OnClick(c.CloudClicked)

	if err := c.bus.Emit(bus.EventRefresh, source, bus.RefreshData{Counter: c.counter.Load()}); err != nil {
		logger.Warn("initial suggestion fetch not scheduled", "err", err)
	}
}

// Stop unsubscribes and cancels in-flight requests.
func (c *Container) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range c.subs {
		c.bus.Unsubscribe(id)
	}
	c.subs = nil
	if c.cancel != nil {
		c.cancel()
	}
}

// CloudClicked routes a picked suggestion to the chat session.
func (c *Container) CloudClicked(question string) {
	if err := c.bus.Emit(bus.EventCloudClicked, "board", bus.CloudClickedData{Question: question}); err != nil {
		logger.Warn("cloud click dropped", "err", err)
	}
}

func (c *Container) runCtx() context.Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

func (c *Container) handleCloudClicked(_ context.Context, event *bus.Event) {
	var data bus.CloudClickedData
	if err := event.ParseData(&data); err != nil {
		logger.Error("bad cloud click payload", "err", err)
		return
	}
	c.session.SendSpecificMessage(c.runCtx(), data.Question)
}

func (c *Container) handleMessageSent(_ context.Context, event *bus.Event) {
	var data bus.MessageSentData
	if err := event.ParseData(&data); err != nil {
		logger.Warn("bad message sent payload", "err", err)
	}
	n := c.counter.Add(1)
	logger.Debug("message sent", "failed", data.Failed, "counter", n)
	if err := c.bus.Emit(bus.EventRefresh, source, bus.RefreshData{Counter: n}); err != nil {
		logger.Warn("suggestion refresh not scheduled", "counter", n, "err", err)
	}
}

func (c *Container) handleRefresh(_ context.Context, event *bus.Event) {
	var data bus.RefreshData
	if err := event.ParseData(&data); err != nil {
		logger.Error("bad refresh payload", "err", err)
		return
	}
	c.board.Signal(c.runCtx(), data.Counter)
}
