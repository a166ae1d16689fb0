package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beka-birhanu/mouse-sim/config"
)

func TestLogger(t *testing.T) {
	t.Run("requires a tag", func(t *testing.T) {
		_, err := New("", config.ColorReset, &bytes.Buffer{})
		assert.ErrorIs(t, err, ErrEmptyTag)
	})

	t.Run("writes tagged leveled lines", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New("WORLD", config.ColorReset, &buf)
		require.NoError(t, err)

		l.Info("loop started")
		l.Warning("collision")
		l.Errorf("bad tick: %d", 7)

		out := buf.String()
		assert.Contains(t, out, "[WORLD] [INFO] loop started")
		assert.Contains(t, out, "[WORLD] [WARN] collision")
		assert.Contains(t, out, "[WORLD] [ERROR] bad tick: 7")
	})

	t.Run("discard logger never panics", func(t *testing.T) {
		l := Discard()
		l.Info("dropped")
		l.Error("dropped")
	})
}
