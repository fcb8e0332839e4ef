package tui

import (
	"bytes"
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/linanwx/cloudchat/app"
	"github.com/linanwx/cloudchat/logger"
)

const logQueueSize = 256

// Run starts container, shows the chat screen and blocks until the user
// quits or ctx is cancelled. The container is stopped before Run returns.
func Run(ctx context.Context, container *app.Container, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewApp(ctx, container, opts)
	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	model.Attach(program)

	lw := newLogWriter(program)
	logger.Intercept(lw)
	defer func() {
		logger.Restore()
		lw.Close()
	}()

	container.Start(ctx)
	defer container.Stop()

	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// logWriter implements io.Writer and forwards each line as a LogLineMsg.
// Lines are queued so that logging from inside Update never blocks the
// event loop; when the queue is full the line is dropped.
type logWriter struct {
	lines chan string
	stop  chan struct{}
	once  sync.Once
	done  chan struct{}
}

func newLogWriter(program *tea.Program) *logWriter {
	w := &logWriter{
		lines: make(chan string, logQueueSize),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go func() {
		defer close(w.done)
		for {
			select {
			case <-w.stop:
				return
			case line := <-w.lines:
				program.Send(LogLineMsg{Line: line})
			}
		}
	}()
	return w
}

func (w *logWriter) Write(p []byte) (int, error) {
	// Split on newlines in case a single write contains multiple lines.
	for _, line := range bytes.Split(p, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		select {
		case w.lines <- string(line):
		default:
		}
	}
	return len(p), nil
}

// Close stops forwarding. Later writes are queued and never delivered.
func (w *logWriter) Close() {
	w.once.Do(func() { close(w.stop) })
	<-w.done
}
