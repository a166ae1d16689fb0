package algorithm

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beka-birhanu/mouse-sim/command"
)

// scriptedExecutor answers from a fixed table and records the order in which
// commands reach it.
type scriptedExecutor struct {
	mu        sync.Mutex
	responses map[string]string
	delays    map[string]time.Duration
	executed  []string
}

func (e *scriptedExecutor) Execute(c command.Command) string {
	if d := e.delays[c.Raw]; d > 0 {
		time.Sleep(d)
	}
	e.mu.Lock()
	e.executed = append(e.executed, c.Raw)
	e.mu.Unlock()
	if r, ok := e.responses[c.Raw]; ok {
		return r
	}
	return "ack"
}

func (e *scriptedExecutor) order() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.executed...)
}

// syncBuffer serializes writes against the worker goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestChannel(t *testing.T) {
	t.Run("requires its streams and executor", func(t *testing.T) {
		_, err := NewChannel(nil, &syncBuffer{}, &scriptedExecutor{})
		assert.ErrorIs(t, err, ErrMissingChannelDependency)
	})

	t.Run("responses come back in command order", func(t *testing.T) {
		exec := &scriptedExecutor{
			responses: map[string]string{
				"mazeWidth":  "16",
				"mazeHeight": "16",
				"wallFront":  "true",
			},
			// The first command is slow; ordering must still hold.
			delays: map[string]time.Duration{"mazeWidth": 50 * time.Millisecond},
		}
		responses := &syncBuffer{}
		ch, err := NewChannel(strings.NewReader("mazeWidth\nmazeHeight\nwallFront\n"), responses, exec)
		require.NoError(t, err)

		ch.Start(context.Background())
		ch.Wait()

		assert.Equal(t, []string{"mazeWidth", "mazeHeight", "wallFront"}, exec.order())
		assert.Equal(t, "16\n16\ntrue\n", responses.String())
	})

	t.Run("unparseable lines get an error response without reaching the executor", func(t *testing.T) {
		exec := &scriptedExecutor{responses: map[string]string{"mazeWidth": "16"}}
		responses := &syncBuffer{}
		ch, err := NewChannel(strings.NewReader("launchMissiles\nmazeWidth\n"), responses, exec)
		require.NoError(t, err)

		ch.Start(context.Background())
		ch.Wait()

		assert.Equal(t, []string{"mazeWidth"}, exec.order())
		lines := strings.Split(strings.TrimSuffix(responses.String(), "\n"), "\n")
		require.Len(t, lines, 2)
		assert.True(t, strings.HasPrefix(lines[0], "error "), "got %q", lines[0])
		assert.Equal(t, "16", lines[1])
	})

	t.Run("empty responses write nothing back", func(t *testing.T) {
		exec := &scriptedExecutor{responses: map[string]string{"setTileColor 0 0 red": ""}}
		responses := &syncBuffer{}
		ch, err := NewChannel(strings.NewReader("setTileColor 0 0 red\nmazeWidth\n"), responses, exec)
		require.NoError(t, err)

		ch.Start(context.Background())
		ch.Wait()

		assert.Equal(t, "ack\n", responses.String())
	})

	t.Run("stream end runs the exit handler once", func(t *testing.T) {
		var exits int
		ch, err := NewChannel(strings.NewReader("mazeWidth\n"), &syncBuffer{}, &scriptedExecutor{},
			WithExitHandler(func() { exits++ }))
		require.NoError(t, err)

		ch.Start(context.Background())
		ch.Wait()
		assert.Equal(t, 1, exits)
	})

	t.Run("queued commands drain after the stream closes", func(t *testing.T) {
		exec := &scriptedExecutor{}
		responses := &syncBuffer{}
		// The reader hits EOF immediately; all three commands must still run.
		ch, err := NewChannel(strings.NewReader("wallFront\nwallLeft\nwallRight\n"), responses, exec)
		require.NoError(t, err)

		ch.Start(context.Background())
		ch.Wait()
		assert.Equal(t, []string{"wallFront", "wallLeft", "wallRight"}, exec.order())
	})
}

func TestCommandQueue(t *testing.T) {
	t.Run("fifo order", func(t *testing.T) {
		q := newCommandQueue()
		q.push("a")
		q.push("b")
		q.push("c")

		for _, want := range []string{"a", "b", "c"} {
			got, ok := q.pop()
			require.True(t, ok)
			assert.Equal(t, want, got)
		}
	})

	t.Run("close drains pending items first", func(t *testing.T) {
		q := newCommandQueue()
		q.push("a")
		q.close()

		got, ok := q.pop()
		require.True(t, ok)
		assert.Equal(t, "a", got)

		_, ok = q.pop()
		assert.False(t, ok)
	})

	t.Run("push after close is dropped", func(t *testing.T) {
		q := newCommandQueue()
		q.close()
		q.push("late")
		_, ok := q.pop()
		assert.False(t, ok)
	})

	t.Run("discard drops pending items", func(t *testing.T) {
		q := newCommandQueue()
		q.push("a")
		q.discard()
		_, ok := q.pop()
		assert.False(t, ok)
	})

	t.Run("pop blocks until a push arrives", func(t *testing.T) {
		q := newCommandQueue()
		got := make(chan string, 1)
		go func() {
			line, ok := q.pop()
			assert.True(t, ok)
			got <- line
		}()

		time.Sleep(10 * time.Millisecond)
		q.push("a")

		select {
		case line := <-got:
			assert.Equal(t, "a", line)
		case <-time.After(time.Second):
			t.Fatal("pop never returned")
		}
	})
}
