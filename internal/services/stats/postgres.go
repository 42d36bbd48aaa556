package stats

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	_ "github.com/lib/pq"
)

// PostgresConfig agrupa os parâmetros de conexão com o banco de estatísticas.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// ConnectPostgres abre e valida a conexão com o PostgreSQL.
func ConnectPostgres(cfg PostgresConfig) (*sql.DB, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	log.Println("[Stats] Conectado ao PostgreSQL com sucesso.")
	return db, nil
}

// PostgresRecorder persiste partidas na tabela arena_matches.
type PostgresRecorder struct {
	db *sql.DB
}

func NewPostgresRecorder(db *sql.DB) *PostgresRecorder {
	return &PostgresRecorder{db: db}
}

func (r *PostgresRecorder) RecordMatch(ctx context.Context, m Match) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO arena_matches
			(winner_id, loser_id, winner_score, loser_score,
			 winner_kills, winner_deaths, winner_damage_dealt, winner_damage_taken,
			 winner_powerups_collected, winner_weapon,
			 duration_seconds, played_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		m.WinnerID, m.LoserID, m.WinnerScore, m.LoserScore,
		m.WinnerStats.Kills, m.WinnerStats.Deaths, m.WinnerStats.DamageDealt,
		m.WinnerStats.DamageTaken, m.WinnerStats.PowerupsCollected,
		m.WinnerStats.WeaponUsed, m.Duration, m.PlayedAt,
	)
	if err != nil {
		return fmt.Errorf("falha ao inserir partida: %w", err)
	}
	return nil
}

func (r *PostgresRecorder) MatchHistory(ctx context.Context, userID string) ([]Match, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT winner_id, loser_id, winner_score, loser_score, duration_seconds, played_at
		   FROM arena_matches
		  WHERE winner_id = $1 OR loser_id = $1
		  ORDER BY played_at DESC
		  LIMIT 20`, userID)
	if err != nil {
		return nil, fmt.Errorf("falha ao consultar histórico: %w", err)
	}
	defer rows.Close()

	history := make([]Match, 0, 20)
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.WinnerID, &m.LoserID, &m.WinnerScore, &m.LoserScore,
			&m.Duration, &m.PlayedAt); err != nil {
			return nil, fmt.Errorf("falha ao ler linha do histórico: %w", err)
		}
		history = append(history, m)
	}
	return history, rows.Err()
}
