package arena

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerUpdateUsesSenderSlot(t *testing.T) {
	h := newTestHandler(t)
	c1 := connect(t, h, "c1", "alice")
	c2 := connect(t, h, "c2", "bob")
	startTestMatch(t, h, c1, c2)
	c1.received()
	c2.received()

	// c2 é o slot 2, mas mente no playerId. O estado vai para o slot 2 mesmo.
	send(h, c2, "playerUpdate", mustMarshal(t, map[string]any{
		"playerId": 1,
		"state":    map[string]any{"x": 10, "y": 20},
	}))

	for _, c := range []*fakeClient{c1, c2} {
		state := lastOfType(c.received(), "gameState")
		require.NotNil(t, state, "os dois lados recebem gameState")

		var snapshot struct {
			Players     map[string]json.RawMessage `json:"players"`
			Projectiles []json.RawMessage          `json:"projectiles"`
			Powerups    []json.RawMessage          `json:"powerups"`
		}
		require.NoError(t, json.Unmarshal(state.Payload, &snapshot))
		assert.NotContains(t, snapshot.Players, "1")
		require.Contains(t, snapshot.Players, "2")
		assert.JSONEq(t, `{"x":10,"y":20}`, string(snapshot.Players["2"]))
		assert.Empty(t, snapshot.Projectiles)
		assert.Empty(t, snapshot.Powerups)
	}
}

func TestShootBroadcastsProjectile(t *testing.T) {
	h := newTestHandler(t)
	c1 := connect(t, h, "c1", "alice")
	c2 := connect(t, h, "c2", "bob")
	startTestMatch(t, h, c1, c2)
	c1.received()
	c2.received()

	send(h, c1, "shoot", mustMarshal(t, map[string]any{
		"projectile": map[string]any{"id": "proj-1", "vx": 5},
	}))

	for _, c := range []*fakeClient{c1, c2} {
		created := lastOfType(c.received(), "projectileCreated")
		require.NotNil(t, created)
		assert.JSONEq(t, `{"id":"proj-1","vx":5}`, string(created.Payload))
	}
}

func TestDuplicateEntityIDIsRejected(t *testing.T) {
	h := newTestHandler(t)
	c1 := connect(t, h, "c1", "alice")
	c2 := connect(t, h, "c2", "bob")
	startTestMatch(t, h, c1, c2)
	c1.received()
	c2.received()

	payload := mustMarshal(t, map[string]any{"projectile": map[string]any{"id": "proj-1"}})
	send(h, c1, "shoot", payload)
	c1.received()
	c2.received()

	send(h, c2, "shoot", payload)

	assert.NotNil(t, lastOfType(c2.received(), "error"))
	assert.Nil(t, lastOfType(c1.received(), "projectileCreated"), "ID repetido não é retransmitido")
}

func TestMeleeIsRebroadcastAsPlayerMelee(t *testing.T) {
	h := newTestHandler(t)
	c1 := connect(t, h, "c1", "alice")
	c2 := connect(t, h, "c2", "bob")
	startTestMatch(t, h, c1, c2)
	c1.received()
	c2.received()

	send(h, c1, "melee", mustMarshal(t, map[string]any{"playerId": 1, "direction": "left"}))

	hit := lastOfType(c2.received(), "playerMelee")
	require.NotNil(t, hit)
	assert.JSONEq(t, `{"playerId":1,"direction":"left"}`, string(hit.Payload))
}

func TestPowerupCollectIsIdempotent(t *testing.T) {
	h := newTestHandler(t)
	c1 := connect(t, h, "c1", "alice")
	c2 := connect(t, h, "c2", "bob")
	startTestMatch(t, h, c1, c2)
	c1.received()
	c2.received()

	send(h, c1, "powerupSpawned", mustMarshal(t, map[string]any{
		"powerup": map[string]any{"id": "pw-1", "kind": "shield"},
	}))
	c1.received()
	c2.received()

	// Os dois clientes reportam a mesma coleta.
	collect := mustMarshal(t, map[string]string{"powerupId": "pw-1"})
	send(h, c1, "powerupCollected", collect)
	send(h, c2, "powerupCollected", collect)

	// O broadcast acontece para os dois reportes, mas sem erro e sem o
	// power-up reaparecer no snapshot.
	assert.Equal(t, 2, countOfType(c1.received(), "powerupCollected"))

	room := h.rooms.RoomFor(c1)
	require.NotNil(t, room)
	assert.Empty(t, room.powerups)
}

func TestPowerupWithoutIDIsRejected(t *testing.T) {
	h := newTestHandler(t)
	c1 := connect(t, h, "c1", "alice")
	c2 := connect(t, h, "c2", "bob")
	startTestMatch(t, h, c1, c2)
	c1.received()
	c2.received()

	send(h, c1, "powerupSpawned", mustMarshal(t, map[string]any{
		"powerup": map[string]any{"kind": "shield"},
	}))

	assert.NotNil(t, lastOfType(c1.received(), "error"))
	assert.Nil(t, lastOfType(c2.received(), "powerupSpawned"))
}

func TestChatCarriesSenderAndTimestamp(t *testing.T) {
	h := newTestHandler(t)
	c1 := connect(t, h, "c1", "alice")
	c2 := connect(t, h, "c2", "bob")
	startTestMatch(t, h, c1, c2)
	c1.received()
	c2.received()

	send(h, c1, "chat", mustMarshal(t, map[string]string{"message": "gg"}))

	chat := lastOfType(c2.received(), "chat")
	require.NotNil(t, chat)

	var p struct {
		SenderID  string `json:"senderId"`
		Message   string `json:"message"`
		Timestamp int64  `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(chat.Payload, &p))
	assert.Equal(t, "alice", p.SenderID)
	assert.Equal(t, "gg", p.Message)
	assert.Positive(t, p.Timestamp, "timestamp é atribuído pelo servidor")
}

func TestChatFromAnonymousSender(t *testing.T) {
	h := newTestHandler(t)
	c1 := connect(t, h, "c1", "")
	c2 := connect(t, h, "c2", "")
	startTestMatch(t, h, c1, c2)
	c1.received()
	c2.received()

	send(h, c1, "chat", mustMarshal(t, map[string]string{"message": "oi"}))

	chat := lastOfType(c2.received(), "chat")
	require.NotNil(t, chat)
	assert.Contains(t, string(chat.Payload), `"senderId":"Anonymous"`)
}

func TestRoundEndUpdatesScoreEvenIfRecorderFails(t *testing.T) {
	h := NewHandler(Config{Stats: failingRecorder{}})
	c1 := connect(t, h, "c1", "alice")
	c2 := connect(t, h, "c2", "bob")
	startTestMatch(t, h, c1, c2)
	c1.received()
	c2.received()

	// Marca os dois como autenticados para exercitar o caminho do recorder.
	h.registry.SessionFor(c1).Authed = true
	h.registry.SessionFor(c2).Authed = true

	send(h, c1, "roundEnd", mustMarshal(t, map[string]any{
		"winnerId": 1,
		"kills":    3,
	}))

	for _, c := range []*fakeClient{c1, c2} {
		end := lastOfType(c.received(), "roundEnd")
		require.NotNil(t, end, "a falha de persistência não pode segurar o broadcast")
		assert.JSONEq(t, `{"winnerId":1,"scores":{"player1":1,"player2":0}}`, string(end.Payload))
	}

	room := h.rooms.RoomFor(c1)
	require.NotNil(t, room)
	assert.Equal(t, 1, room.Participants()[0].Score)
	assert.Equal(t, 0, room.Participants()[1].Score)
}

func TestRoundEndSkipsRecorderWhenNotAuthenticated(t *testing.T) {
	recorder := &countingRecorder{}
	h := NewHandler(Config{Stats: recorder})
	c1 := connect(t, h, "c1", "alice")
	c2 := connect(t, h, "c2", "bob")
	startTestMatch(t, h, c1, c2)
	c1.received()
	c2.received()

	// Identidades auto-declaradas via 'join' não são verificadas: o placar e o
	// broadcast funcionam, mas nada vai para o registro de partidas.
	send(h, c1, "roundEnd", mustMarshal(t, map[string]any{"winnerId": 2}))

	for _, c := range []*fakeClient{c1, c2} {
		end := lastOfType(c.received(), "roundEnd")
		require.NotNil(t, end)
		assert.JSONEq(t, `{"winnerId":2,"scores":{"player1":0,"player2":1}}`, string(end.Payload))
	}

	room := h.rooms.RoomFor(c1)
	require.NotNil(t, room)
	assert.Equal(t, 0, room.Participants()[0].Score)
	assert.Equal(t, 1, room.Participants()[1].Score)
	assert.EqualValues(t, 0, recorder.calls.Load(), "par não autenticado não gera gravação")
}

func TestRoundEndInvalidWinner(t *testing.T) {
	h := newTestHandler(t)
	c1 := connect(t, h, "c1", "alice")
	c2 := connect(t, h, "c2", "bob")
	startTestMatch(t, h, c1, c2)
	c1.received()
	c2.received()

	send(h, c1, "roundEnd", mustMarshal(t, map[string]any{"winnerId": 3}))

	assert.NotNil(t, lastOfType(c1.received(), "error"))
	assert.Nil(t, lastOfType(c2.received(), "roundEnd"))
}
