package arena

import (
	"encoding/json"

	"ether/internal/arena/message"
)

// handleLeaveGame tira o jogador do lobby privado e avisa quem ficou.
func handleLeaveGame(h *Handler, session *PlayerSession, _ json.RawMessage) {
	name := session.Name()
	code, remaining := h.lobbies.Leave(session)
	session.State = state_LOBBY
	if code == "" || remaining == nil {
		return
	}

	names := h.lobbies.MemberNames(code)
	for _, member := range remaining {
		member.Send() <- message.PlayerLeft(code, name, names)
	}
}
