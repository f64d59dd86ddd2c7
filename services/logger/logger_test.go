package logsvc

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KLubina/Modul-335/core"
	"github.com/KLubina/Modul-335/core/module"
)

func TestStdLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStdLogger(log.New(&buf, "", 0), false)

	logger.Debug("hidden")
	assert.Empty(t, buf.String())

	logger.Error("module insert failed", errors.New("disk full"))
	assert.Equal(t, "ERROR module insert failed\ndisk full\n", buf.String())

	buf.Reset()
	NewStdLogger(log.New(&buf, "", 0), true).Debug("shown")
	assert.True(t, strings.HasPrefix(buf.String(), "DEBUG shown"))
}

func TestRollbarLogger_prepare(t *testing.T) {
	logger := NewRollbarLogger(log.New(&bytes.Buffer{}, "", 0), &core.Config{Env: "TEST"})
	logger.Enable(false)

	err := errors.New("disk full")
	args := logger.prepare("module insert failed", []interface{}{
		err,
		module.Module{Number: "M335", Title: "Mobile Apps"},
		map[string]interface{}{"request_id": "abc"},
	})

	assert.Equal(t, []interface{}{
		"module insert failed",
		err,
		map[string]interface{}{"module_number": "M335", "module_title": "Mobile Apps", "request_id": "abc"},
	}, args)
}
