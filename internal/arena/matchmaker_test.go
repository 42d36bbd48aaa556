package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchmakerFIFO(t *testing.T) {
	m := NewMatchmaker()

	for _, id := range []string{"a", "b", "c"} {
		s := NewPlayerSession(newFakeClient(id))
		require.NoError(t, m.Enqueue(s, id))
	}
	require.Equal(t, 3, m.Len())

	first := m.Pop()
	require.NotNil(t, first)
	assert.Equal(t, "a", first.userID)

	second := m.Pop()
	require.NotNil(t, second)
	assert.Equal(t, "b", second.userID)

	assert.Equal(t, 1, m.Len())
}

func TestMatchmakerPopEmpty(t *testing.T) {
	m := NewMatchmaker()
	assert.Nil(t, m.Pop())
}

func TestMatchmakerDuplicateEnqueue(t *testing.T) {
	m := NewMatchmaker()
	s := NewPlayerSession(newFakeClient("c1"))

	require.NoError(t, m.Enqueue(s, "player-1"))
	err := m.Enqueue(s, "player-1")

	assert.ErrorIs(t, err, ErrAlreadyQueued)
	assert.Equal(t, 1, m.Len(), "fila não deve mudar em enqueue duplicado")
}

func TestMatchmakerRemove(t *testing.T) {
	m := NewMatchmaker()
	s1 := NewPlayerSession(newFakeClient("c1"))
	s2 := NewPlayerSession(newFakeClient("c2"))
	require.NoError(t, m.Enqueue(s1, "p1"))
	require.NoError(t, m.Enqueue(s2, "p2"))

	assert.True(t, m.Remove("p1"))
	assert.False(t, m.Remove("p1"), "remoção repetida é no-op")
	assert.False(t, m.Queued("p1"))
	assert.True(t, m.Queued("p2"))
}

func TestMatchmakerQueuedSession(t *testing.T) {
	m := NewMatchmaker()
	s := NewPlayerSession(newFakeClient("c1"))
	require.NoError(t, m.Enqueue(s, "alice"))

	// A sessão é detectada mesmo consultando com outra identidade.
	assert.True(t, m.QueuedSession(s))
	assert.False(t, m.Queued("alice2"))

	other := NewPlayerSession(newFakeClient("c2"))
	assert.False(t, m.QueuedSession(other))
}

func TestMatchmakerRemoveSession(t *testing.T) {
	m := NewMatchmaker()
	s := NewPlayerSession(newFakeClient("c1"))
	require.NoError(t, m.Enqueue(s, "p1"))

	assert.True(t, m.RemoveSession(s))
	assert.False(t, m.RemoveSession(s))
	assert.Equal(t, 0, m.Len())
}
