package arena

import (
	"log"

	"ether/internal/arena/message"
	"ether/internal/services/friends"
)

// Registry rastreia as conexões vivas e suas identidades. É a única fonte de
// verdade para "quem está online" dentro deste processo.
//
// Acessado somente pela goroutine do Hub, então sem locks.
type Registry struct {
	sessions   map[Client]*PlayerSession
	byIdentity map[string]*PlayerSession
	friends    friends.Lookup
}

func NewRegistry(lookup friends.Lookup) *Registry {
	return &Registry{
		sessions:   make(map[Client]*PlayerSession),
		byIdentity: make(map[string]*PlayerSession),
		friends:    lookup,
	}
}

// Register adiciona a conexão. Se ela já chegou com identidade verificada
// (handshake autenticado), a presença "online" é difundida imediatamente.
func (r *Registry) Register(s *PlayerSession) {
	r.sessions[s.Client] = s
	if s.UserID != "" {
		r.bind(s, s.UserID)
	}
}

// Bind associa uma identidade à sessão (evento 'join' ou handshake). Uma nova
// conexão com a mesma identidade assume o lugar da anterior no índice.
func (r *Registry) Bind(s *PlayerSession, userID string) {
	if userID == "" {
		return
	}
	r.bind(s, userID)
}

func (r *Registry) bind(s *PlayerSession, userID string) {
	s.UserID = userID
	r.byIdentity[userID] = s
	r.broadcastPresence(userID, "online")
}

// Unregister remove a conexão. Idempotente: desregistrar uma conexão já
// removida é um no-op.
func (r *Registry) Unregister(s *PlayerSession) {
	if _, ok := r.sessions[s.Client]; !ok {
		return
	}
	delete(r.sessions, s.Client)

	if s.UserID != "" && r.byIdentity[s.UserID] == s {
		delete(r.byIdentity, s.UserID)
		r.broadcastPresence(s.UserID, "offline")
	}
}

// SessionFor resolve a sessão de uma conexão.
func (r *Registry) SessionFor(c Client) *PlayerSession {
	return r.sessions[c]
}

// FindByIdentity resolve a sessão de uma identidade, ou nil.
func (r *Registry) FindByIdentity(userID string) *PlayerSession {
	return r.byIdentity[userID]
}

// Count devolve o número de conexões vivas.
func (r *Registry) Count() int {
	return len(r.sessions)
}

// broadcastPresence notifica os amigos do usuário sobre a mudança de status.
// Falha do colaborador de amizades é logada e suprimida: presença nunca pode
// atrapalhar o caminho de jogo.
func (r *Registry) broadcastPresence(userID, status string) {
	peers := r.friends.Peers(userID)
	if peers == nil {
		// nil = todos os usuários conectados, exceto o próprio.
		for id := range r.byIdentity {
			if id != userID {
				peers = append(peers, id)
			}
		}
	}

	notified := 0
	for _, peerID := range peers {
		if peer := r.byIdentity[peerID]; peer != nil && peer.UserID != userID {
			peer.Send() <- message.FriendStatusChanged(userID, status)
			notified++
		}
	}
	if notified > 0 {
		log.Printf("[Registry] Presença de '%s' (%s) difundida para %d conexões.", userID, status, notified)
	}
}
