// cmd/server/main.go
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"ether/internal/arena"
	"ether/internal/broadcast"
	"ether/internal/network"
	"ether/internal/services/auth"
	"ether/internal/services/cluster"
	"ether/internal/services/stats"
)

// getEnv lê uma variável de ambiente ou usa um valor padrão.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getEnvInt lê uma variável de ambiente numérica ou usa um valor padrão.
func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("AVISO: Valor inválido para %s ('%s'), usando padrão %d.", key, value, fallback)
	}
	return fallback
}

func main() {
	// Em desenvolvimento, o .env na raiz preenche o ambiente. Em produção, as
	// variáveis vêm do orquestrador e o arquivo simplesmente não existe.
	if err := godotenv.Load(); err == nil {
		log.Println("Arquivo .env carregado.")
	}

	serviceName := getEnv("ARENA_SERVICE_NAME", "ether-arena")
	servicePort := getEnvInt("ARENA_SERVICE_PORT", 8090)
	healthPort := getEnvInt("HEALTH_CHECK_PORT", servicePort)
	lobbyLimit := getEnvInt("LOBBY_MAX_MEMBERS", 2)

	cfg := arena.Config{LobbyLimit: lobbyLimit}

	// Autenticação de handshake: sem segredo, todo mundo entra como anônimo.
	if secret := getEnv("JWT_SECRET", ""); secret != "" {
		cfg.Auth = auth.NewJWTResolver(secret)
		log.Println("Autenticação JWT habilitada no handshake.")
	} else {
		log.Println("AVISO: JWT_SECRET ausente, todas as conexões serão anônimas.")
	}

	// Estatísticas: sem banco configurado, os registros são descartados.
	if host := getEnv("DB_HOST", ""); host != "" {
		db, err := stats.ConnectPostgres(stats.PostgresConfig{
			Host:     host,
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "ether"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "ether"),
		})
		if err != nil {
			log.Fatalf("Não foi possível conectar ao Postgres: %v", err)
		}
		defer db.Close()
		cfg.Stats = stats.NewPostgresRecorder(db)
		log.Println("Registro de partidas no Postgres habilitado.")
	} else {
		log.Println("AVISO: DB_HOST ausente, partidas não serão persistidas.")
	}

	// Broadcast: com NATS, as salas funcionam entre instâncias do serviço.
	if natsURL := getEnv("NATS_URL", ""); natsURL != "" {
		caster, err := broadcast.NewNats(natsURL)
		if err != nil {
			log.Fatalf("Não foi possível conectar ao NATS: %v", err)
		}
		defer caster.Close()
		cfg.Caster = caster
		log.Printf("Broadcast via NATS em %s.", natsURL)
	} else {
		log.Println("Broadcast local (instância única).")
	}

	handler := arena.NewHandler(cfg)
	server := network.NewServer(handler)

	router := mux.NewRouter()
	router.HandleFunc("/health", cluster.NewBasicHealthHandler()).Methods(http.MethodGet)

	// Registro no Consul é opcional: sem agente configurado, o serviço roda
	// sozinho; com agente, falha de registro é logada mas não derruba nada.
	if consulAddr := getEnv("CONSUL_HTTP_ADDR", ""); consulAddr != "" {
		consulClient, err := cluster.NewConsulClient(consulAddr)
		if err != nil {
			log.Printf("AVISO: Falha ao criar cliente Consul: %v", err)
		} else if err := cluster.RegisterService(consulClient, serviceName, servicePort, healthPort); err != nil {
			log.Printf("AVISO: %v", err)
		}
	}

	address := fmt.Sprintf(":%d", servicePort)
	log.Printf("Iniciando servidor da arena '%s' em %s", serviceName, address)
	if err := server.Listen(address, router); err != nil {
		log.Fatalf("Não foi possível iniciar o servidor: %v", err)
	}
}
