package arena

import (
	"log"

	"github.com/google/uuid"

	"ether/internal/broadcast"
)

// RoomManager é o dono das salas ativas. Criação e destruição passam sempre
// por aqui, para que os índices de roteamento e os grupos de broadcast nunca
// fiquem fora de sincronia com as salas.
//
// Acessado somente pela goroutine do Hub.
type RoomManager struct {
	rooms    map[string]*Room
	byClient map[Client]*Room
	caster   broadcast.Broadcaster
}

func NewRoomManager(caster broadcast.Broadcaster) *RoomManager {
	return &RoomManager{
		rooms:    make(map[string]*Room),
		byClient: make(map[Client]*Room),
		caster:   caster,
	}
}

// CreateRoom monta uma sala para o par. O slot 1 é de quem esperava na fila
// há mais tempo; o slot 2 é de quem disparou o pareamento.
func (m *RoomManager) CreateRoom(p1, p2 *PlayerSession, id1, id2 string) *Room {
	room := newRoom(uuid.NewString(), p1, p2, id1, id2, m.caster)

	m.rooms[room.ID] = room
	m.byClient[p1.Client] = room
	m.byClient[p2.Client] = room
	m.caster.Join(room.ID, p1)
	m.caster.Join(room.ID, p2)

	p1.CurrentRoom = room
	p2.CurrentRoom = room

	log.Printf("[RoomManager] Sala '%s' criada: '%s' (slot 1) vs '%s' (slot 2).", room.ID, id1, id2)
	return room
}

// RoomFor resolve a sala da conexão, ou nil.
func (m *RoomManager) RoomFor(c Client) *Room {
	return m.byClient[c]
}

// Get resolve a sala pelo identificador, ou nil.
func (m *RoomManager) Get(id string) *Room {
	return m.rooms[id]
}

// DestroyRoom desmonta a sala: remove os índices, sai do grupo de broadcast e
// limpa as referências das sessões. Idempotente.
func (m *RoomManager) DestroyRoom(room *Room) {
	if room == nil || room.Phase == phase_DESTROYED {
		return
	}
	for _, p := range room.participants {
		if p == nil {
			continue
		}
		delete(m.byClient, p.Session.Client)
		m.caster.Leave(room.ID, p.Session)
		if p.Session.CurrentRoom == room {
			p.Session.CurrentRoom = nil
		}
	}
	delete(m.rooms, room.ID)
	room.Phase = phase_DESTROYED
	log.Printf("[RoomManager] Sala '%s' destruída. Salas ativas: %d", room.ID, len(m.rooms))
}

// Count devolve o número de salas ativas.
func (m *RoomManager) Count() int {
	return len(m.rooms)
}
