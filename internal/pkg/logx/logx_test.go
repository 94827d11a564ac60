package logx

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withBuffer(t *testing.T, isDevelopment bool) *bytes.Buffer {
	t.Helper()

	saved := log.Logger
	t.Cleanup(func() { log.Logger = saved })

	var buf bytes.Buffer
	InitGlobalLogger(isDevelopment, &buf)
	return &buf
}

func TestProductionWritesJSONAtInfo(t *testing.T) {
	buf := withBuffer(t, false)

	Logger().Debug().Msg("hidden")
	Info("client up", "server_url", "ws://chat.test/chat")
	Warn("slow down")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"level":"info"`)
	assert.Contains(t, out, `"server_url":"ws://chat.test/chat"`)
	assert.Contains(t, out, `"level":"warn"`)
}

func TestDevelopmentWritesConsoleAtDebug(t *testing.T) {
	buf := withBuffer(t, true)

	Logger().Debug().Msg("visible")

	assert.Contains(t, buf.String(), "visible")
	assert.NotContains(t, buf.String(), `"level"`)
}

func TestErrorCarriesCause(t *testing.T) {
	buf := withBuffer(t, false)

	Error(errors.New("boom"), "send failed")

	assert.Contains(t, buf.String(), `"error":"boom"`)
	assert.Contains(t, buf.String(), `"message":"send failed"`)
}

func TestOddFieldsAreDropped(t *testing.T) {
	buf := withBuffer(t, false)

	Info("half a pair", "key")

	assert.Contains(t, buf.String(), "odd number of fields")
	assert.Contains(t, buf.String(), `"message":"half a pair"`)
	assert.NotContains(t, buf.String(), `"key"`)
}

func TestFatalLogsAndExits(t *testing.T) {
	if path := os.Getenv("LOGX_FATAL_LOG"); path != "" {
		out, err := OpenLogFile(path)
		require.NoError(t, err)
		InitGlobalLogger(false, out)
		Fatal(errors.New("dial refused"), "Client stopped with error")
		return
	}

	path := filepath.Join(t.TempDir(), "fatal.log")
	cmd := exec.Command(os.Args[0], "-test.run=^TestFatalLogsAndExits$")
	cmd.Env = append(os.Environ(), "LOGX_FATAL_LOG="+path)

	err := cmd.Run()
	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitCode())

	logged, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(logged), `"level":"fatal"`)
	assert.Contains(t, string(logged), `"error":"dial refused"`)
}

func TestOpenLogFile(t *testing.T) {
	out, err := OpenLogFile("")
	require.NoError(t, err)
	require.NoError(t, out.Close())

	path := filepath.Join(t.TempDir(), "client.log")
	out, err = OpenLogFile(path)
	require.NoError(t, err)
	_, err = out.Write([]byte("line\n"))
	require.NoError(t, err)
	require.NoError(t, out.Close())

	_, err = OpenLogFile(filepath.Join(t.TempDir(), "missing", "client.log"))
	assert.Error(t, err)
}
