package arena

import (
	"encoding/json"
)

// Payloads tipados dos eventos cliente -> servidor. Os formatos vêm do
// protocolo da arena; a validação acontece aqui na borda, antes de qualquer
// mutação de estado. Falha de validação vira erro de protocolo para o
// cliente, nunca dado malformado dentro da sessão.

type joinPayload struct {
	UserID string `json:"userId"`
}

type findMatchPayload struct {
	UserID string `json:"userId"`
}

type cancelMatchPayload struct {
	UserID string `json:"userId"`
}

type playerUpdatePayload struct {
	PlayerID int             `json:"playerId"`
	State    json.RawMessage `json:"state"`
}

type shootPayload struct {
	Projectile json.RawMessage `json:"projectile"`
}

type powerupSpawnedPayload struct {
	Powerup json.RawMessage `json:"powerup"`
}

type powerupCollectedPayload struct {
	PowerupID string `json:"powerupId"`
}

type chatPayload struct {
	Message string `json:"message"`
}

type roundEndPayload struct {
	WinnerID          int    `json:"winnerId"`
	Kills             int    `json:"kills"`
	Deaths            int    `json:"deaths"`
	DamageDealt       int    `json:"damageDealt"`
	DamageTaken       int    `json:"damageTaken"`
	PowerupsCollected int    `json:"powerupsCollected"`
	WeaponUsed        string `json:"weaponUsed"`
}

type joinLobbyPayload struct {
	LobbyID string `json:"lobbyId"`
}

type lobbyInvitePayload struct {
	FriendID string `json:"friendId"`
	LobbyID  string `json:"lobbyId"`
}

type matchHistoryPayload struct {
	UserID string `json:"userId"`
}

// entityID sonda o identificador de uma entidade transiente (projétil ou
// power-up) sem conhecer o resto do descritor.
type entityID struct {
	ID string `json:"id"`
}

// decodeCode aceita tanto um código JSON puro ("ABC123") quanto o formato
// embrulhado ({"code":"ABC123"}), pois os dois convivem no protocolo original.
func decodeCode(payload json.RawMessage) string {
	var plain string
	if err := json.Unmarshal(payload, &plain); err == nil {
		return plain
	}
	var wrapped struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(payload, &wrapped); err == nil {
		return wrapped.Code
	}
	return ""
}
