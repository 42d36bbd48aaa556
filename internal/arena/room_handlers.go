package arena

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"ether/internal/arena/message"
	"ether/internal/services/stats"
)

// Handlers dos eventos de jogo de uma sala. O servidor é um retransmissor com
// autoridade mínima: valida a forma do payload, aplica as poucas regras que
// são dele (slot do remetente, unicidade de ID, idempotência de coleta,
// placar) e repassa o resto como chegou.

// HandlePlayerUpdate guarda o estado do remetente e difunde o snapshot
// completo. O slot vem da própria sala, nunca do playerId reportado: um
// cliente não consegue sobrescrever o estado do oponente.
func (r *Room) HandlePlayerUpdate(s *PlayerSession, payload json.RawMessage) {
	var p playerUpdatePayload
	if err := json.Unmarshal(payload, &p); err != nil || len(p.State) == 0 {
		message.SendError(s, "Payload de playerUpdate inválido.")
		return
	}
	sender := r.participantFor(s)
	if sender == nil {
		return
	}
	r.playerStates[sender.Slot] = p.State
	r.broadcast(message.GameState(r.stateSnapshot()))
}

// HandleShoot registra o projétil e difunde sua criação.
func (r *Room) HandleShoot(s *PlayerSession, payload json.RawMessage) {
	var p shootPayload
	if err := json.Unmarshal(payload, &p); err != nil || len(p.Projectile) == 0 {
		message.SendError(s, "Payload de shoot inválido.")
		return
	}
	var probe entityID
	_ = json.Unmarshal(p.Projectile, &probe)
	if r.trackEntityID(probe.ID) {
		message.SendError(s, "Identificador de projétil já utilizado.")
		return
	}
	r.appendProjectile(entity{id: probe.ID, raw: p.Projectile})
	r.broadcast(message.ProjectileCreated(p.Projectile))
}

// HandleMelee repassa o ataque corpo a corpo para os dois lados.
func (r *Room) HandleMelee(s *PlayerSession, payload json.RawMessage) {
	if len(payload) == 0 {
		message.SendError(s, "Payload de melee inválido.")
		return
	}
	r.broadcast(message.PlayerMelee(payload))
}

// HandlePlayerDamaged repassa o reporte de dano. O servidor não simula
// combate, então não há validação de plausibilidade aqui.
func (r *Room) HandlePlayerDamaged(s *PlayerSession, payload json.RawMessage) {
	if len(payload) == 0 {
		message.SendError(s, "Payload de playerDamaged inválido.")
		return
	}
	r.broadcast(message.PlayerDamaged(payload))
}

// HandlePowerupSpawned registra o power-up e difunde seu surgimento. Power-ups
// exigem identificador, pois a coleta referencia por ID.
func (r *Room) HandlePowerupSpawned(s *PlayerSession, payload json.RawMessage) {
	var p powerupSpawnedPayload
	if err := json.Unmarshal(payload, &p); err != nil || len(p.Powerup) == 0 {
		message.SendError(s, "Payload de powerupSpawned inválido.")
		return
	}
	var probe entityID
	_ = json.Unmarshal(p.Powerup, &probe)
	if probe.ID == "" {
		message.SendError(s, "Power-up precisa de um identificador.")
		return
	}
	if r.trackEntityID(probe.ID) {
		message.SendError(s, "Identificador de power-up já utilizado.")
		return
	}
	r.appendPowerup(entity{id: probe.ID, raw: p.Powerup})
	r.broadcast(message.PowerupSpawned(p.Powerup))
}

// HandlePowerupCollected remove o power-up do estado e difunde a coleta. Os
// dois clientes podem reportar a mesma coleta; só a primeira remove, mas o
// broadcast acontece sempre, pois os clientes já filtram por ID.
func (r *Room) HandlePowerupCollected(s *PlayerSession, payload json.RawMessage) {
	var p powerupCollectedPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.PowerupID == "" {
		message.SendError(s, "Payload de powerupCollected inválido.")
		return
	}
	if !r.collected[p.PowerupID] {
		r.collected[p.PowerupID] = true
		for i, pu := range r.powerups {
			if pu.id == p.PowerupID {
				r.powerups = append(r.powerups[:i], r.powerups[i+1:]...)
				break
			}
		}
	}
	r.broadcast(message.PowerupCollected(payload))
}

// HandleChat difunde a mensagem com remetente e timestamp atribuídos pelo
// servidor. Remetente anônimo aparece como "Anonymous".
func (r *Room) HandleChat(s *PlayerSession, payload json.RawMessage) {
	var p chatPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.Message == "" {
		message.SendError(s, "Payload de chat inválido.")
		return
	}
	senderID := s.UserID
	if senderID == "" {
		senderID = "Anonymous"
	}
	r.broadcast(message.Chat(senderID, p.Message, time.Now().UnixMilli()))
}

// HandleRoundEnd aplica o placar e difunde o resultado. O registro de
// estatísticas acontece depois do broadcast, em goroutine própria, e somente
// quando os dois lados estão autenticados.
func (r *Room) HandleRoundEnd(s *PlayerSession, payload json.RawMessage, recorder stats.Recorder) {
	var p roundEndPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		message.SendError(s, "Payload de roundEnd inválido.")
		return
	}
	if p.WinnerID != 1 && p.WinnerID != 2 {
		message.SendError(s, "winnerId deve ser 1 ou 2.")
		return
	}

	winner := r.participants[p.WinnerID-1]
	loser := r.participants[2-p.WinnerID]
	winner.Score++

	r.Phase = phase_ENDING
	r.broadcast(message.RoundEnd(p.WinnerID, r.participants[0].Score, r.participants[1].Score))

	if !winner.Session.Authed || !loser.Session.Authed {
		return
	}

	match := stats.Match{
		WinnerID:    winner.UserID,
		LoserID:     loser.UserID,
		WinnerScore: winner.Score,
		LoserScore:  loser.Score,
		WinnerStats: stats.PlayerStats{
			Kills:             p.Kills,
			Deaths:            p.Deaths,
			DamageDealt:       p.DamageDealt,
			DamageTaken:       p.DamageTaken,
			PowerupsCollected: p.PowerupsCollected,
			WeaponUsed:        p.WeaponUsed,
		},
		Duration: time.Since(r.CreatedAt).Seconds(),
		PlayedAt: time.Now(),
	}
	// Fora da goroutine do Hub: o banco não pode segurar o loop de eventos.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := recorder.RecordMatch(ctx, match); err != nil {
			log.Printf("[Room %s] Falha ao registrar partida: %v", r.ID, err)
		}
	}()
}

func (r *Room) appendProjectile(e entity) {
	if len(r.projectiles) >= maxEntities {
		log.Printf("[Room %s] Limite de projéteis atingido, descartando o mais antigo.", r.ID)
		r.projectiles = r.projectiles[1:]
	}
	r.projectiles = append(r.projectiles, e)
}

func (r *Room) appendPowerup(e entity) {
	if len(r.powerups) >= maxEntities {
		log.Printf("[Room %s] Limite de power-ups atingido, descartando o mais antigo.", r.ID)
		r.powerups = r.powerups[1:]
	}
	r.powerups = append(r.powerups, e)
}
