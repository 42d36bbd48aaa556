package arena

import (
	"errors"
	"log"
)

// ErrAlreadyQueued é devolvido quando a mesma identidade tenta entrar duas
// vezes na fila. A fila não é alterada nesse caso.
var ErrAlreadyQueued = errors.New("jogador já está na fila de matchmaking")

type queueEntry struct {
	session *PlayerSession
	userID  string
}

// Matchmaker mantém a fila FIFO de busca de partida. O pareamento em si é
// síncrono: quem chama findMatch com a fila não-vazia sai pareado na mesma
// chamada, sem ticker nem goroutine própria.
//
// Acessado somente pela goroutine do Hub.
type Matchmaker struct {
	queue []queueEntry
}

func NewMatchmaker() *Matchmaker {
	return &Matchmaker{}
}

// Queued informa se a identidade já está aguardando na fila.
func (m *Matchmaker) Queued(userID string) bool {
	for _, e := range m.queue {
		if e.userID == userID {
			return true
		}
	}
	return false
}

// QueuedSession informa se a sessão já está na fila, qualquer que seja a
// identidade que ela usou para entrar. Sem esta checagem, uma conexão na fila
// poderia mandar findMatch de novo com outro userId e parear consigo mesma.
func (m *Matchmaker) QueuedSession(s *PlayerSession) bool {
	for _, e := range m.queue {
		if e.session == s {
			return true
		}
	}
	return false
}

// Enqueue coloca o jogador no fim da fila.
func (m *Matchmaker) Enqueue(s *PlayerSession, userID string) error {
	if m.Queued(userID) {
		return ErrAlreadyQueued
	}
	m.queue = append(m.queue, queueEntry{session: s, userID: userID})
	log.Printf("[Matchmaker] Jogador '%s' entrou na fila. Tamanho atual: %d", userID, len(m.queue))
	return nil
}

// Pop remove e devolve o jogador há mais tempo na fila, ou nil se vazia.
func (m *Matchmaker) Pop() *queueEntry {
	if len(m.queue) == 0 {
		return nil
	}
	entry := m.queue[0]
	m.queue = m.queue[1:]
	return &entry
}

// Remove tira a identidade da fila. Devolve true se ela estava lá.
func (m *Matchmaker) Remove(userID string) bool {
	for i, e := range m.queue {
		if e.userID == userID {
			m.queue = append(m.queue[:i], m.queue[i+1:]...)
			log.Printf("[Matchmaker] Jogador '%s' saiu da fila. Tamanho atual: %d", userID, len(m.queue))
			return true
		}
	}
	return false
}

// RemoveSession tira a sessão da fila, qualquer que seja a identidade usada.
// É o caminho da desconexão, quando o payload original não está mais à mão.
func (m *Matchmaker) RemoveSession(s *PlayerSession) bool {
	for i, e := range m.queue {
		if e.session == s {
			m.queue = append(m.queue[:i], m.queue[i+1:]...)
			return true
		}
	}
	return false
}

// Len devolve o tamanho atual da fila.
func (m *Matchmaker) Len() int {
	return len(m.queue)
}
