package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walkup-counter/internal/domain"
)

func TestParse_OverridesDefaults(t *testing.T) {
	a, err := Parse([]byte(`
counter:
  addr: ":9000"
  wait_timeout: 30s
kitchen:
  workers: 8
  cook_times:
    bigmac: 250ms
database:
  host: localhost
  user: counter
  password: secret
  database: counter
`))
	require.NoError(t, err)

	assert.Equal(t, ":9000", a.Counter.Addr)
	assert.Equal(t, 30*time.Second, a.Counter.WaitTimeout)
	assert.Equal(t, 50, a.Counter.MaxSessions, "untouched keys keep defaults")
	assert.Equal(t, 8, a.Kitchen.Workers)
	assert.Equal(t, 250*time.Millisecond, a.Kitchen.CookTimes["bigmac"])
	assert.True(t, a.Database.Enabled())
	assert.Equal(t, 5432, a.Database.Port)
	assert.False(t, a.Rabbit.Enabled())
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"no workers":        "kitchen:\n  workers: 0\n",
		"no sessions":       "counter:\n  max_sessions: 0\n",
		"negative cook":     "kitchen:\n  cook_times:\n    cheese: -1s\n",
		"partial database":  "database:\n  host: db\n",
		"partial rabbitmq":  "rabbitmq:\n  host: mq\n",
		"zero wait timeout": "counter:\n  wait_timeout: 0s\n",
		"unknown cook item": "kitchen:\n  cook_times:\n    whopper: 1s\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestKitchen_ItemCookTimes(t *testing.T) {
	k := Kitchen{CookTimes: map[string]time.Duration{"bigmac": time.Second, "bulgogi": 2 * time.Second}}
	got, err := k.ItemCookTimes()
	require.NoError(t, err)
	assert.Equal(t, map[domain.Item]time.Duration{
		domain.BigMac:  time.Second,
		domain.Bulgogi: 2 * time.Second,
	}, got)

	_, err = Kitchen{CookTimes: map[string]time.Duration{"BigMac": time.Second}}.ItemCookTimes()
	assert.ErrorIs(t, err, domain.ErrUnknownItem)
}

func TestParse_BadYAML(t *testing.T) {
	_, err := Parse([]byte("counter: [unterminated"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)
}

func TestLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte("log_level: debug\n"), 0o600))

	a, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "debug", a.LogLevel)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
