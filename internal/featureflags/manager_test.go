package featureflags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManagerEnabled(t *testing.T) {
	t.Parallel()
	m := NewManager("assistant=on, news=off, rollout=50%, bad==, weird")

	assert.True(t, m.Enabled(FlagAssistant, 1))
	assert.False(t, m.Enabled(FlagNews, 1))
	assert.False(t, m.Enabled("missing", 1))
	assert.False(t, m.Enabled("rollout", 0))
}

func TestManagerRolloutDeterministic(t *testing.T) {
	t.Parallel()
	m := NewManager("beta_feed=50%")

	first := m.Enabled("beta_feed", 42)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, m.Enabled("beta_feed", 42))
	}
}

func TestManagerRolloutBounds(t *testing.T) {
	t.Parallel()
	assert.True(t, NewManager("f=100%").Enabled("f", 7))
	assert.False(t, NewManager("f=0%").Enabled("f", 7))
	assert.False(t, NewManager("f=oops%").Enabled("f", 7))
}

func TestManagerSnapshot(t *testing.T) {
	t.Parallel()
	m := NewManager("assistant=on,news=off")
	snap := m.Snapshot(3)

	assert.Equal(t, map[string]bool{"assistant": true, "news": false}, snap)
}

func TestNilManager(t *testing.T) {
	t.Parallel()
	var m *Manager
	assert.False(t, m.Enabled(FlagAssistant, 1))
}
