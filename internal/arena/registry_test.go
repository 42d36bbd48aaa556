package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ether/internal/services/friends"
)

func TestRegistryPresenceFanOut(t *testing.T) {
	r := NewRegistry(friends.EveryoneOnline{})

	alice := NewPlayerSession(newFakeClient("c1"))
	bob := NewPlayerSession(newFakeClient("c2"))
	r.Register(alice)
	r.Register(bob)
	r.Bind(alice, "alice")

	// Bob ainda é anônimo: não recebe presença.
	assert.Empty(t, bob.Client.(*fakeClient).received())

	r.Bind(bob, "bob")

	// Alice é notificada que bob ficou online.
	msgs := alice.Client.(*fakeClient).received()
	online := lastOfType(msgs, "friend:status-changed")
	require.NotNil(t, online)
	assert.JSONEq(t, `{"userId":"bob","status":"online"}`, string(online.Payload))

	r.Unregister(bob)

	offline := lastOfType(alice.Client.(*fakeClient).received(), "friend:status-changed")
	require.NotNil(t, offline)
	assert.JSONEq(t, `{"userId":"bob","status":"offline"}`, string(offline.Payload))
}

func TestRegistryPresenceRespectsFriendList(t *testing.T) {
	lookup := friends.NewStatic(map[string][]string{
		"alice": {"bob"},
		"bob":   {"alice"},
		"carol": {},
	})
	r := NewRegistry(lookup)

	alice := NewPlayerSession(newFakeClient("c1"))
	carol := NewPlayerSession(newFakeClient("c2"))
	r.Register(alice)
	r.Register(carol)
	r.Bind(alice, "alice")
	r.Bind(carol, "carol")
	alice.Client.(*fakeClient).received()

	bob := NewPlayerSession(newFakeClient("c3"))
	r.Register(bob)
	r.Bind(bob, "bob")

	// Só alice é amiga de bob.
	assert.NotEmpty(t, alice.Client.(*fakeClient).received())
	assert.Empty(t, carol.Client.(*fakeClient).received())
}

func TestRegistryUnregisterIsIdempotent(t *testing.T) {
	r := NewRegistry(friends.EveryoneOnline{})
	s := NewPlayerSession(newFakeClient("c1"))
	r.Register(s)

	r.Unregister(s)
	r.Unregister(s)

	assert.Equal(t, 0, r.Count())
}

func TestRegistryReconnectTakesOverIdentity(t *testing.T) {
	r := NewRegistry(friends.EveryoneOnline{})

	old := NewPlayerSession(newFakeClient("c1"))
	r.Register(old)
	r.Bind(old, "alice")

	fresh := NewPlayerSession(newFakeClient("c2"))
	r.Register(fresh)
	r.Bind(fresh, "alice")

	assert.Same(t, fresh, r.FindByIdentity("alice"))

	// A conexão antiga sumir não pode apagar o índice da nova.
	r.Unregister(old)
	assert.Same(t, fresh, r.FindByIdentity("alice"))
}
