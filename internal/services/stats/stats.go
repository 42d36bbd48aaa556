package stats

import (
	"context"
	"time"
)

// PlayerStats é o detalhamento por jogador enviado pelo cliente no fim da
// rodada. Os valores são reportados pelo cliente e aceitos como estão.
type PlayerStats struct {
	Kills             int    `json:"kills"`
	Deaths            int    `json:"deaths"`
	DamageDealt       int    `json:"damageDealt"`
	DamageTaken       int    `json:"damageTaken"`
	PowerupsCollected int    `json:"powerupsCollected"`
	WeaponUsed        string `json:"weaponUsed"`
}

// Match é o registro de uma partida concluída entre dois jogadores autenticados.
type Match struct {
	WinnerID    string      `json:"winnerId"`
	LoserID     string      `json:"loserId"`
	WinnerScore int         `json:"winnerScore"`
	LoserScore  int         `json:"loserScore"`
	WinnerStats PlayerStats `json:"winnerStats"`
	LoserStats  PlayerStats `json:"loserStats"`
	Duration    float64     `json:"duration"` // segundos
	PlayedAt    time.Time   `json:"playedAt"`
}

// Recorder é o coletor de estatísticas de partidas. As chamadas de escrita são
// fire-and-forget do ponto de vista da sala: uma falha aqui é apenas logada e
// nunca afeta o broadcast nem o estado da sessão.
type Recorder interface {
	RecordMatch(ctx context.Context, m Match) error
	MatchHistory(ctx context.Context, userID string) ([]Match, error)
}

// Noop descarta os registros. Usado quando o servidor roda sem banco.
type Noop struct{}

func (Noop) RecordMatch(context.Context, Match) error { return nil }

func (Noop) MatchHistory(context.Context, string) ([]Match, error) {
	return []Match{}, nil
}
