package arena

import (
	"encoding/json"
	"log"
)

// Comandos disponíveis durante uma partida. Cada um resolve a sala da
// conexão e delega para o handler correspondente da sala.

// resolveRoom devolve a sala da sessão. Um evento de jogo sem sala é um
// atraso de rede, descartado em silêncio.
func resolveRoom(h *Handler, session *PlayerSession, event string) *Room {
	room := h.rooms.RoomFor(session.Client)
	if room == nil {
		log.Printf("[Handler] Evento '%s' da conexão %s sem sala ativa, descartado.", event, session.Client.Key())
	}
	return room
}

func handlePlayerUpdate(h *Handler, session *PlayerSession, payload json.RawMessage) {
	if room := resolveRoom(h, session, "playerUpdate"); room != nil {
		room.HandlePlayerUpdate(session, payload)
	}
}

func handleShoot(h *Handler, session *PlayerSession, payload json.RawMessage) {
	if room := resolveRoom(h, session, "shoot"); room != nil {
		room.HandleShoot(session, payload)
	}
}

func handleMelee(h *Handler, session *PlayerSession, payload json.RawMessage) {
	if room := resolveRoom(h, session, "melee"); room != nil {
		room.HandleMelee(session, payload)
	}
}

func handlePlayerDamaged(h *Handler, session *PlayerSession, payload json.RawMessage) {
	if room := resolveRoom(h, session, "playerDamaged"); room != nil {
		room.HandlePlayerDamaged(session, payload)
	}
}

func handlePowerupSpawned(h *Handler, session *PlayerSession, payload json.RawMessage) {
	if room := resolveRoom(h, session, "powerupSpawned"); room != nil {
		room.HandlePowerupSpawned(session, payload)
	}
}

func handlePowerupCollected(h *Handler, session *PlayerSession, payload json.RawMessage) {
	if room := resolveRoom(h, session, "powerupCollected"); room != nil {
		room.HandlePowerupCollected(session, payload)
	}
}

func handleChat(h *Handler, session *PlayerSession, payload json.RawMessage) {
	if room := resolveRoom(h, session, "chat"); room != nil {
		room.HandleChat(session, payload)
	}
}

func handleRoundEnd(h *Handler, session *PlayerSession, payload json.RawMessage) {
	if room := resolveRoom(h, session, "roundEnd"); room != nil {
		room.HandleRoundEnd(session, payload, h.stats)
	}
}

// handleLeaveMatch encerra a partida voluntariamente. Para o oponente, sair e
// desconectar são a mesma coisa.
func handleLeaveMatch(h *Handler, session *PlayerSession, _ json.RawMessage) {
	h.teardownRoom(session)
}
