package arena

import (
	"encoding/json"
	"strconv"
	"time"

	"ether/internal/broadcast"
	"ether/internal/network"
)

// Fases do ciclo de vida de uma sala.
const (
	phase_ACTIVE    = "active"
	phase_ENDING    = "ending"
	phase_DESTROYED = "destroyed"
)

// Limite de entidades transientes por tipo. O cliente deveria remover
// projéteis e power-ups consumidos; o teto protege o servidor de clientes que
// não removem nada.
const maxEntities = 256

// Participant liga uma sessão ao seu slot fixo (1 ou 2) dentro da sala.
type Participant struct {
	Session *PlayerSession
	Slot    int
	Score   int

	// UserID congela a identidade usada no pareamento. A sala não acompanha
	// rebinds de identidade depois do matchFound.
	UserID string
}

// entity é um descritor transiente (projétil ou power-up) guardado como o
// cliente reportou.
type entity struct {
	id  string
	raw json.RawMessage
}

// Room é uma sessão de jogo 1v1. Todo o estado é mutado exclusivamente pela
// goroutine do Hub; a sala em si não tem locks nem goroutines.
type Room struct {
	ID        string
	Phase     string
	CreatedAt time.Time

	participants [2]*Participant

	// Estado relatado pelos clientes. O servidor retransmite, não simula.
	playerStates map[int]json.RawMessage
	projectiles  []entity
	powerups     []entity

	// collected marca power-ups já coletados, para tornar a coleta idempotente.
	collected map[string]bool

	// seenIDs garante unicidade de identificador de entidade pela vida da sala.
	seenIDs map[string]bool

	caster broadcast.Broadcaster
}

func newRoom(id string, p1, p2 *PlayerSession, id1, id2 string, caster broadcast.Broadcaster) *Room {
	r := &Room{
		ID:           id,
		Phase:        phase_ACTIVE,
		CreatedAt:    time.Now(),
		playerStates: make(map[int]json.RawMessage),
		collected:    make(map[string]bool),
		seenIDs:      make(map[string]bool),
		caster:       caster,
	}
	r.participants[0] = &Participant{Session: p1, Slot: 1, UserID: id1}
	r.participants[1] = &Participant{Session: p2, Slot: 2, UserID: id2}
	return r
}

// participantFor localiza o participante dono da sessão, ou nil.
func (r *Room) participantFor(s *PlayerSession) *Participant {
	for _, p := range r.participants {
		if p != nil && p.Session == s {
			return p
		}
	}
	return nil
}

// opponentOf devolve o outro participante, ou nil.
func (r *Room) opponentOf(s *PlayerSession) *Participant {
	for _, p := range r.participants {
		if p != nil && p.Session != s {
			return p
		}
	}
	return nil
}

// Participants devolve os dois participantes na ordem de slot.
func (r *Room) Participants() [2]*Participant {
	return r.participants
}

// broadcast publica o evento para os dois lados via grupo da sala.
func (r *Room) broadcast(msg network.Message) {
	r.caster.Publish(r.ID, msg)
}

// stateSnapshot monta o snapshot completo enviado no evento gameState.
// As chaves de players são os slots como string, formato do protocolo.
func (r *Room) stateSnapshot() map[string]any {
	players := make(map[string]json.RawMessage, len(r.playerStates))
	for slot, state := range r.playerStates {
		players[strconv.Itoa(slot)] = state
	}
	projectiles := make([]json.RawMessage, 0, len(r.projectiles))
	for _, p := range r.projectiles {
		projectiles = append(projectiles, p.raw)
	}
	powerups := make([]json.RawMessage, 0, len(r.powerups))
	for _, p := range r.powerups {
		powerups = append(powerups, p.raw)
	}
	return map[string]any{
		"players":     players,
		"projectiles": projectiles,
		"powerups":    powerups,
	}
}

// trackEntityID registra o identificador e acusa reuso. IDs vazios não são
// rastreados.
func (r *Room) trackEntityID(id string) (dup bool) {
	if id == "" {
		return false
	}
	if r.seenIDs[id] {
		return true
	}
	r.seenIDs[id] = true
	return false
}
