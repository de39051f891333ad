package logsvc

import (
	"bytes"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/bassiony1/public-ANEES/core/child"
	"github.com/bassiony1/public-ANEES/tests"
)

func newLogger(debug bool) (*RollbarLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	conf := testutil.NewConfig()
	conf.Debug = debug
	logger := NewRollbarLogger(log.New(&buf, "TEST : ", 0), conf)
	logger.Enable(false)
	return logger, &buf
}

func TestRollbarLogger(t *testing.T) {
	logger, buf := newLogger(false)

	logger.Info("level 1 opened for 2 children")
	assert.Equal(t, "TEST : [INFO] level 1 opened for 2 children\n", buf.String())
	buf.Reset()

	logger.Error("submitting score", errors.New("boom"), child.Child{ID: "kid-1"})
	assert.Contains(t, buf.String(), "TEST : [ERROR] submitting score\n\tboom")
	assert.Contains(t, buf.String(), " child=kid-1")
	buf.Reset()

	logger.Warn("slow submit", child.Child{ID: "kid-2", FirstName: "Amr", LastName: "Diab"})
	assert.Equal(t, "TEST : [WARNING] slow submit child=kid-2 (Amr Diab)\n", buf.String())
	buf.Reset()

	logger.Warn("slow", map[string]interface{}{"ms": 1200})
	assert.Contains(t, buf.String(), "[WARNING] slow")
	assert.Contains(t, buf.String(), "ms:1200")
	buf.Reset()

	// debug messages are dropped outside of debug mode
	logger.Debug("noise")
	assert.Empty(t, buf.String())
}

func TestRollbarLogger_debug(t *testing.T) {
	logger, buf := newLogger(true)

	logger.Debug("noise")
	assert.Equal(t, "TEST : [DEBUG] noise\n", buf.String())
}
