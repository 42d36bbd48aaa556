package arena

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"ether/internal/arena/message"
)

// Comandos disponíveis fora de partida: identidade, matchmaking, lobbies
// privados e histórico.

// handleJoin registra a identidade auto-declarada da conexão. Clientes
// autenticados no handshake também podem mandar join; o rebind é inofensivo.
func handleJoin(h *Handler, session *PlayerSession, payload json.RawMessage) {
	var p joinPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.UserID == "" {
		message.SendError(session, "Payload de join inválido: userId é obrigatório.")
		return
	}
	h.registry.Bind(session, p.UserID)
	session.Send() <- message.Joined(p.UserID)
}

// handleFindMatch pareia imediatamente com quem espera há mais tempo, ou
// coloca o jogador na fila. O pareamento acontece dentro desta chamada, na
// goroutine do Hub, então não existe janela para pareamento duplo.
func handleFindMatch(h *Handler, session *PlayerSession, payload json.RawMessage) {
	var p findMatchPayload
	_ = json.Unmarshal(payload, &p)
	userID := p.UserID
	if userID == "" {
		userID = session.Identity()
	}

	// A checagem por sessão cobre o caso de uma conexão já na fila tentar de
	// novo com outro userId; parear uma conexão com ela mesma quebraria a
	// invariante de dois participantes distintos por sala.
	if h.matchmaker.Queued(userID) || h.matchmaker.QueuedSession(session) {
		message.SendError(session, "Already in matchmaking queue")
		return
	}

	if entry := h.matchmaker.Pop(); entry != nil {
		h.startMatch(entry.session, entry.userID, session, userID)
		return
	}

	if err := h.matchmaker.Enqueue(session, userID); err != nil {
		message.SendError(session, "Already in matchmaking queue")
		return
	}
	session.State = state_IN_QUEUE
	session.Send() <- message.Waiting("Waiting for opponent...")
}

// startMatch cria a sala para o par. O slot 1 é de quem esperava; o slot 2 é
// de quem acabou de chamar findMatch.
func (h *Handler) startMatch(waiting *PlayerSession, waitingID string, requester *PlayerSession, requesterID string) {
	room := h.rooms.CreateRoom(waiting, requester, waitingID, requesterID)

	waiting.State = state_IN_MATCH
	requester.State = state_IN_MATCH

	// Cada lado recebe o próprio slot e o ID do oponente.
	waiting.Send() <- message.MatchFound(room.ID, 1, requesterID)
	requester.Send() <- message.MatchFound(room.ID, 2, waitingID)
}

// handleCancelMatch tira o jogador da fila. Cancelar sem estar na fila é um
// no-op, não um erro.
func handleCancelMatch(h *Handler, session *PlayerSession, payload json.RawMessage) {
	var p cancelMatchPayload
	_ = json.Unmarshal(payload, &p)

	removed := false
	if p.UserID != "" {
		removed = h.matchmaker.Remove(p.UserID)
	}
	if !removed {
		h.matchmaker.RemoveSession(session)
	}
	session.State = state_LOBBY
}

// handleCreateGame abre um lobby privado e devolve o código de convite.
func handleCreateGame(h *Handler, session *PlayerSession, _ json.RawMessage) {
	code := h.lobbies.Create(session)
	session.State = state_IN_LOBBY
	session.Send() <- message.GameCreated(code, "/games/arena/"+code)
}

// handleJoinGame entra em um lobby pelo código. O payload aceita o código
// puro ou embrulhado em {"code": ...}.
func handleJoinGame(h *Handler, session *PlayerSession, payload json.RawMessage) {
	code := decodeCode(payload)
	if code == "" {
		message.SendError(session, "Lobby is full or does not exist.")
		return
	}
	if err := h.lobbies.Join(code, session); err != nil {
		message.SendError(session, "Lobby is full or does not exist.")
		return
	}
	session.State = state_IN_LOBBY

	members, _ := h.lobbies.Members(code)
	names := h.lobbies.MemberNames(code)
	for _, member := range members {
		member.Send() <- message.PlayerJoined(code, session.Name(), names)
	}
}

// handleJoinLobby é a variante usada pelo launcher: mesmo efeito do joinGame,
// mas a resposta é a lista de jogadores.
func handleJoinLobby(h *Handler, session *PlayerSession, payload json.RawMessage) {
	var p joinLobbyPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.LobbyID == "" {
		message.SendError(session, "Failed to join lobby. Lobby not found.")
		return
	}
	if err := h.lobbies.Join(p.LobbyID, session); err != nil {
		message.SendError(session, "Failed to join lobby. Lobby not found.")
		return
	}
	session.State = state_IN_LOBBY

	members, _ := h.lobbies.Members(p.LobbyID)
	names := h.lobbies.MemberNames(p.LobbyID)
	for _, member := range members {
		member.Send() <- message.PlayerList(names)
	}
}

// handleRequestPlayerList devolve a lista de um lobby. O payload pode trazer
// um código; sem código, responde pelo lobby atual do jogador.
func handleRequestPlayerList(h *Handler, session *PlayerSession, payload json.RawMessage) {
	code := decodeCode(payload)
	if code == "" {
		code = session.LobbyCode
	}
	if code == "" {
		session.Send() <- message.PlayerList([]string{})
		return
	}
	session.Send() <- message.PlayerList(h.lobbies.MemberNames(code))
}

// handleGetMatchHistory busca o histórico no coletor de estatísticas. A
// consulta roda fora da goroutine do Hub; se a conexão morrer enquanto a
// busca está no ar, o envio no canal fechado é contido pelo recover.
func handleGetMatchHistory(h *Handler, session *PlayerSession, payload json.RawMessage) {
	var p matchHistoryPayload
	_ = json.Unmarshal(payload, &p)
	userID := p.UserID
	if userID == "" {
		userID = session.UserID
	}
	if userID == "" {
		message.SendError(session, "Payload de getMatchHistory inválido: userId é obrigatório.")
		return
	}

	recorder := h.stats
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[Handler] Envio de histórico para conexão finalizada: %v", rec)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		history, err := recorder.MatchHistory(ctx, userID)
		if err != nil {
			log.Printf("[Handler] Falha ao buscar histórico de '%s': %v", userID, err)
			return
		}
		session.Send() <- message.MatchHistory(history)
	}()
}

// handleLobbyInvite repassa o convite para a conexão do amigo, se online.
func handleLobbyInvite(h *Handler, session *PlayerSession, payload json.RawMessage) {
	var p lobbyInvitePayload
	if err := json.Unmarshal(payload, &p); err != nil || p.FriendID == "" {
		message.SendError(session, "Payload de lobby:invite inválido: friendId é obrigatório.")
		return
	}

	friend := h.registry.FindByIdentity(p.FriendID)
	if friend == nil {
		message.SendError(session, "Friend is not online.")
		return
	}

	lobbyID := p.LobbyID
	if lobbyID == "" {
		lobbyID = session.LobbyCode
	}
	friend.Send() <- message.LobbyInvite(lobbyID, session.Identity(), session.Name())
}
