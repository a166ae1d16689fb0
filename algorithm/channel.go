package algorithm

import (
	"bufio"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/beka-birhanu/mouse-sim/command"
	"github.com/beka-birhanu/mouse-sim/logger"
)

// Channel-related errors.
var ErrMissingChannelDependency = errors.New("missing channel dependency")

// Executor runs one decoded command and returns its response. An empty
// response writes nothing back to the algorithm.
type Executor interface {
	Execute(command.Command) string
}

// ChannelOption configures optional Channel parameters.
type ChannelOption func(*Channel)

// WithLogger sets the channel's own logger.
func WithLogger(l *logger.Logger) ChannelOption {
	return func(c *Channel) { c.log = l }
}

// WithDiagnostics attaches the algorithm's diagnostic stream; each line is
// logged through the given logger.
func WithDiagnostics(r io.Reader, l *logger.Logger) ChannelOption {
	return func(c *Channel) {
		c.diagnostics = r
		c.algoLog = l
	}
}

// WithExitHandler registers a function called exactly once when the command
// stream ends, however it ends.
func WithExitHandler(fn func()) ChannelOption {
	return func(c *Channel) { c.onExit = fn }
}

// Channel connects the algorithm's streams to the simulation. One goroutine
// reads the command stream in arbitrary chunks and only frames and queues;
// a separate worker goroutine pops commands strictly in order, executes them
// one at a time, and writes each response back. A slow command never stalls
// the reading of further output.
type Channel struct {
	commands    io.Reader
	responses   io.Writer
	diagnostics io.Reader
	exec        Executor

	queue    *commandQueue
	log      *logger.Logger
	algoLog  *logger.Logger
	onExit   func()
	exitOnce sync.Once
	wg       sync.WaitGroup
}

// NewChannel creates a channel over the algorithm's command and response
// streams.
func NewChannel(commands io.Reader, responses io.Writer, exec Executor, opts ...ChannelOption) (*Channel, error) {
	if commands == nil || responses == nil || exec == nil {
		return nil, ErrMissingChannelDependency
	}

	c := &Channel{
		commands:  commands,
		responses: responses,
		exec:      exec,
		queue:     newCommandQueue(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Discard()
	}
	if c.algoLog == nil {
		c.algoLog = logger.Discard()
	}
	return c, nil
}

// Start spawns the reader and worker goroutines.
func (c *Channel) Start(ctx context.Context) {
	c.wg.Add(2)
	go c.readCommands(ctx)
	go c.work(ctx)
	if c.diagnostics != nil {
		c.wg.Add(1)
		go c.readDiagnostics()
	}
}

// Stop discards pending commands so the worker exits as soon as the one in
// flight, if any, completes. The process must be terminated separately to
// unblock the stream readers.
func (c *Channel) Stop() {
	c.queue.discard()
}

// Wait blocks until every channel goroutine has exited.
func (c *Channel) Wait() {
	c.wg.Wait()
}

// readCommands frames the command stream and forwards complete lines to the
// queue. It never executes anything itself.
func (c *Channel) readCommands(ctx context.Context) {
	defer c.wg.Done()
	defer c.signalExit()
	defer c.queue.close()

	var framer LineFramer
	buf := make([]byte, 4096)
	for {
		n, err := c.commands.Read(buf)
		if n > 0 {
			for _, line := range framer.Feed(buf[:n]) {
				c.queue.push(line)
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				c.log.Info("algorithm terminated: command stream closed")
			} else {
				c.log.Errorf("reading command stream: %v", err)
			}
			return
		}
	}
}

// work executes queued commands strictly sequentially and writes responses
// in completion order.
func (c *Channel) work(ctx context.Context) {
	defer c.wg.Done()
	for {
		line, ok := c.queue.pop()
		if !ok {
			return
		}
		if ctx.Err() != nil {
			return
		}

		var response string
		cmd, err := command.Parse(line)
		if err != nil {
			c.log.Warning("rejected command " + line)
			response = "error " + err.Error()
		} else {
			response = c.exec.Execute(cmd)
		}

		if response == "" {
			continue
		}
		if _, err := io.WriteString(c.responses, response+"\n"); err != nil {
			c.log.Errorf("writing response: %v", err)
			return
		}
	}
}

// readDiagnostics logs the algorithm's human-readable output.
func (c *Channel) readDiagnostics() {
	defer c.wg.Done()
	scanner := bufio.NewScanner(c.diagnostics)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			c.algoLog.Info(line)
		}
	}
}

func (c *Channel) signalExit() {
	c.exitOnce.Do(func() {
		if c.onExit != nil {
			c.onExit()
		}
	})
}
