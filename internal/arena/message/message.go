package message

// Isso aqui são as mensagens que vão no sentido servidor -> cliente.
// Os nomes de evento e os formatos de payload são os do protocolo da arena e
// não devem mudar sem combinar com os clientes.

import (
	"encoding/json"

	"ether/internal/network"
)

// ErrorPayload define a estrutura de uma resposta de erro de protocolo.
type ErrorPayload struct {
	Message string `json:"message"`
}

// newMessage monta o envelope com o payload serializado.
func newMessage(eventType string, payload any) network.Message {
	if payload == nil {
		return network.Message{Type: eventType}
	}
	payloadBytes, _ := json.Marshal(payload)
	return network.Message{
		Type:    eventType,
		Payload: payloadBytes,
	}
}

// raw monta o envelope repassando o payload como chegou do cliente.
func raw(eventType string, payload json.RawMessage) network.Message {
	return network.Message{Type: eventType, Payload: payload}
}

// Error cria o evento de erro de protocolo. Nunca é fatal para a conexão.
func Error(errorMsg string) network.Message {
	return newMessage("error", ErrorPayload{Message: errorMsg})
}

// Joined confirma o registro de identidade feito pelo evento 'join'.
func Joined(userID string) network.Message {
	return newMessage("joined", map[string]string{"userId": userID})
}

// Waiting informa que o jogador entrou na fila e ainda não tem oponente.
func Waiting(text string) network.Message {
	return newMessage("waiting", map[string]string{"message": text})
}

// MatchFound é enviado individualmente para cada lado, com o seu próprio slot.
func MatchFound(roomID string, playerSlot int, opponentID string) network.Message {
	return newMessage("matchFound", map[string]any{
		"roomId":     roomID,
		"playerSlot": playerSlot,
		"opponentId": opponentID,
	})
}

// GameState carrega o snapshot completo do estado da sessão.
func GameState(snapshot any) network.Message {
	return newMessage("gameState", snapshot)
}

// ProjectileCreated repassa o descritor do projétil como reportado.
func ProjectileCreated(projectile json.RawMessage) network.Message {
	return raw("projectileCreated", projectile)
}

// PlayerMelee repassa um ataque corpo a corpo. O nome assimétrico
// (melee -> playerMelee) vem do protocolo original.
func PlayerMelee(payload json.RawMessage) network.Message {
	return raw("playerMelee", payload)
}

// PlayerDamaged repassa um reporte de dano sem validação de servidor.
func PlayerDamaged(payload json.RawMessage) network.Message {
	return raw("playerDamaged", payload)
}

// PowerupSpawned repassa o descritor do power-up criado.
func PowerupSpawned(powerup json.RawMessage) network.Message {
	return raw("powerupSpawned", powerup)
}

// PowerupCollected repassa o reporte de coleta (ambos os clientes podem reportar).
func PowerupCollected(payload json.RawMessage) network.Message {
	return raw("powerupCollected", payload)
}

// Chat carrega o texto com remetente e timestamp atribuídos pelo servidor.
func Chat(senderID, text string, timestamp int64) network.Message {
	return newMessage("chat", map[string]any{
		"senderId":  senderID,
		"message":   text,
		"timestamp": timestamp,
	})
}

// RoundEnd carrega o placar atualizado após o fim de uma rodada.
func RoundEnd(winnerSlot, player1Score, player2Score int) network.Message {
	return newMessage("roundEnd", map[string]any{
		"winnerId": winnerSlot,
		"scores": map[string]int{
			"player1": player1Score,
			"player2": player2Score,
		},
	})
}

// OpponentDisconnected é enviado somente para o participante que ficou.
func OpponentDisconnected(text string) network.Message {
	return newMessage("opponentDisconnected", map[string]string{"message": text})
}

// GameCreated devolve o código do lobby privado e a URL de entrada.
func GameCreated(code, url string) network.Message {
	return newMessage("gameCreated", map[string]string{"code": code, "url": url})
}

// PlayerJoined avisa todos os membros do lobby que alguém entrou.
func PlayerJoined(code, player string, players []string) network.Message {
	return newMessage("playerJoined", map[string]any{
		"code":    code,
		"player":  player,
		"players": players,
	})
}

// PlayerList devolve a lista de membros do lobby, em ordem de entrada.
func PlayerList(players []string) network.Message {
	return newMessage("playerList", players)
}

// PlayerLeft avisa os membros restantes que alguém saiu do lobby.
func PlayerLeft(code, player string, players []string) network.Message {
	return newMessage("playerLeft", map[string]any{
		"code":    code,
		"player":  player,
		"players": players,
	})
}

// FriendStatusChanged é o evento de presença (online/offline).
func FriendStatusChanged(userID, status string) network.Message {
	return newMessage("friend:status-changed", map[string]string{
		"userId": userID,
		"status": status,
	})
}

// LobbyInvite repassa um convite de lobby para a conexão do amigo.
func LobbyInvite(lobbyID, fromUserID, fromUsername string) network.Message {
	return newMessage("lobby:invite", map[string]string{
		"lobbyId":      lobbyID,
		"fromUserId":   fromUserID,
		"fromUsername": fromUsername,
	})
}

// MatchHistory devolve o histórico de partidas do jogador.
func MatchHistory(history any) network.Message {
	return newMessage("matchHistory", history)
}
