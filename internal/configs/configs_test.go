package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp moves the test into an empty directory so no stray .env is picked up.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "ws://localhost:8080/chat", cfg.ServerURL)
	assert.Equal(t, "https://avatars.dicebear.com/api/adventurer-neutral/%s.svg", cfg.AvatarURLTemplate)
	assert.Equal(t, "roomchat.log", cfg.LogFile)
	assert.Equal(t, 256, cfg.SendQueueSize)
	assert.Equal(t, 5.0, cfg.SendRate)
	assert.Equal(t, 10, cfg.SendBurst)
	assert.Equal(t, 10*time.Second, cfg.DialTimeout)
}

func TestLoadConfigFromEnv(t *testing.T) {
	chdirTemp(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("SERVER_URL", "wss://chat.example.com/ws")
	t.Setenv("SEND_QUEUE_SIZE", "16")
	t.Setenv("DIAL_TIMEOUT", "2s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "wss://chat.example.com/ws", cfg.ServerURL)
	assert.Equal(t, 16, cfg.SendQueueSize)
	assert.Equal(t, 2*time.Second, cfg.DialTimeout)
}

func TestLoadConfigReadsDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SERVER_URL=ws://dotenv.test:9000/chat\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("SERVER_URL") })

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "ws://dotenv.test:9000/chat", cfg.ServerURL)
}

func TestLoadConfigZeroSendRate(t *testing.T) {
	chdirTemp(t)
	t.Setenv("SEND_RATE", "0")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Zero(t, cfg.SendRate)
}

func TestLoadConfigParseError(t *testing.T) {
	chdirTemp(t)
	t.Setenv("SEND_QUEUE_SIZE", "lots")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestValidate(t *testing.T) {
	valid := func() AppConfig {
		return AppConfig{
			ServerURL:         "ws://localhost:8080/chat",
			AvatarURLTemplate: "https://img.test/%s.svg",
			SendQueueSize:     1,
			SendRate:          1,
			SendBurst:         1,
			DialTimeout:       time.Second,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr string
	}{
		{name: "valid", mutate: func(*AppConfig) {}},
		{name: "http scheme", mutate: func(c *AppConfig) { c.ServerURL = "http://localhost/chat" }, wantErr: "ws or wss"},
		{name: "missing host", mutate: func(c *AppConfig) { c.ServerURL = "ws:///chat" }, wantErr: "no host"},
		{name: "template without placeholder", mutate: func(c *AppConfig) { c.AvatarURLTemplate = "https://img.test/a.svg" }, wantErr: "AVATAR_URL_TEMPLATE"},
		{name: "template with two placeholders", mutate: func(c *AppConfig) { c.AvatarURLTemplate = "https://img.test/%s/%s.svg" }, wantErr: "AVATAR_URL_TEMPLATE"},
		{name: "zero queue", mutate: func(c *AppConfig) { c.SendQueueSize = 0 }, wantErr: "SEND_QUEUE_SIZE"},
		{name: "template with escaped characters", mutate: func(c *AppConfig) { c.AvatarURLTemplate = "https://img.test/a%20b/%s.svg" }},
		{name: "zero rate disables throttle", mutate: func(c *AppConfig) { c.SendRate = 0 }},
		{name: "negative rate", mutate: func(c *AppConfig) { c.SendRate = -1 }, wantErr: "SEND_RATE"},
		{name: "zero burst", mutate: func(c *AppConfig) { c.SendBurst = 0 }, wantErr: "SEND_BURST"},
		{name: "zero dial timeout", mutate: func(c *AppConfig) { c.DialTimeout = 0 }, wantErr: "DIAL_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
