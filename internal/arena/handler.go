package arena

import (
	"encoding/json"
	"log"

	"ether/internal/arena/message"
	"ether/internal/broadcast"
	"ether/internal/network"
	"ether/internal/services/auth"
	"ether/internal/services/friends"
	"ether/internal/services/stats"
)

// CommandHandlerFunc define a assinatura de uma função que lida com um
// comando específico do jogador.
type CommandHandlerFunc func(h *Handler, session *PlayerSession, payload json.RawMessage)

// Config reúne os colaboradores injetáveis do Handler. Campos nil recebem
// implementações locais ou no-op, então o zero value funciona para testes.
type Config struct {
	Auth       auth.Resolver
	Stats      stats.Recorder
	Friends    friends.Lookup
	Caster     broadcast.Broadcaster
	LobbyLimit int
}

// Handler implementa network.EventHandler e orquestra toda a lógica da arena.
// Todos os métodos rodam na goroutine do Hub, um evento por vez; é isso que
// dá a atomicidade de cada handler sem nenhum lock nas estruturas de jogo.
type Handler struct {
	registry   *Registry
	matchmaker *Matchmaker
	rooms      *RoomManager
	lobbies    *LobbyService

	auth  auth.Resolver
	stats stats.Recorder

	// Roteadores de comando por estado da sessão.
	lobbyRouter map[string]CommandHandlerFunc
	queueRouter map[string]CommandHandlerFunc
	matchRouter map[string]CommandHandlerFunc
	groupRouter map[string]CommandHandlerFunc
}

// gameplayEvents são os eventos de jogo que podem chegar atrasados, depois da
// sala morrer. Eles são descartados em silêncio, não viram erro de protocolo.
var gameplayEvents = map[string]bool{
	"playerUpdate":     true,
	"shoot":            true,
	"melee":            true,
	"playerDamaged":    true,
	"powerupSpawned":   true,
	"powerupCollected": true,
	"chat":             true,
	"roundEnd":         true,
	"leaveMatch":       true,
}

// NewHandler cria o orquestrador e registra os comandos de cada estado.
func NewHandler(cfg Config) *Handler {
	if cfg.Stats == nil {
		cfg.Stats = stats.Noop{}
	}
	if cfg.Friends == nil {
		cfg.Friends = friends.EveryoneOnline{}
	}
	if cfg.Caster == nil {
		cfg.Caster = broadcast.NewLocal()
	}
	if cfg.LobbyLimit <= 0 {
		cfg.LobbyLimit = 2
	}

	h := &Handler{
		registry:   NewRegistry(cfg.Friends),
		matchmaker: NewMatchmaker(),
		rooms:      NewRoomManager(cfg.Caster),
		lobbies:    NewLobbyService(cfg.LobbyLimit),
		auth:       cfg.Auth,
		stats:      cfg.Stats,
	}

	h.lobbyRouter = map[string]CommandHandlerFunc{
		"join":              handleJoin,
		"findMatch":         handleFindMatch,
		"cancelMatch":       handleCancelMatch,
		"createGame":        handleCreateGame,
		"joinGame":          handleJoinGame,
		"joinLobby":         handleJoinLobby,
		"requestPlayerList": handleRequestPlayerList,
		"getMatchHistory":   handleGetMatchHistory,
		"lobby:invite":      handleLobbyInvite,
	}

	h.queueRouter = map[string]CommandHandlerFunc{
		"join":            handleJoin,
		"findMatch":       handleFindMatch,
		"cancelMatch":     handleCancelMatch,
		"getMatchHistory": handleGetMatchHistory,
		"lobby:invite":    handleLobbyInvite,
	}

	h.matchRouter = map[string]CommandHandlerFunc{
		"playerUpdate":     handlePlayerUpdate,
		"shoot":            handleShoot,
		"melee":            handleMelee,
		"playerDamaged":    handlePlayerDamaged,
		"powerupSpawned":   handlePowerupSpawned,
		"powerupCollected": handlePowerupCollected,
		"chat":             handleChat,
		"roundEnd":         handleRoundEnd,
		"leaveMatch":       handleLeaveMatch,
	}

	h.groupRouter = map[string]CommandHandlerFunc{
		"join":              handleJoin,
		"leaveGame":         handleLeaveGame,
		"requestPlayerList": handleRequestPlayerList,
		"getMatchHistory":   handleGetMatchHistory,
		"lobby:invite":      handleLobbyInvite,
	}

	return h
}

// --- Implementação de network.EventHandler ---

func (h *Handler) OnConnect(c *network.Client) {
	h.Connect(c)
}

func (h *Handler) OnDisconnect(c *network.Client) {
	h.Disconnect(c)
}

func (h *Handler) OnMessage(c *network.Client, msg network.Message) {
	h.HandleMessage(c, msg)
}

// Connect registra a nova conexão. Se o handshake trouxe um token válido, a
// identidade já nasce verificada; token inválido não derruba a conexão, o
// jogador apenas entra como anônimo.
func (h *Handler) Connect(c Client) {
	session := NewPlayerSession(c)

	if token := c.Token(); token != "" && h.auth != nil {
		identity, err := h.auth.Resolve(token)
		if err != nil {
			log.Printf("[Handler] Token inválido na conexão %s, seguindo como anônimo: %v", c.Key(), err)
		} else {
			session.UserID = identity.UserID
			session.DisplayName = identity.Username
			session.Authed = true
		}
	}

	h.registry.Register(session)
	log.Printf("[Handler] Nova conexão %s registrada. Conexões ativas: %d", c.Key(), h.registry.Count())
}

// Disconnect faz a limpeza completa da sessão. Cada passo é best-effort e
// idempotente: a desconexão pode chegar em qualquer estado.
func (h *Handler) Disconnect(c Client) {
	session := h.registry.SessionFor(c)
	if session == nil {
		return
	}

	// 1. Fila de matchmaking.
	h.matchmaker.RemoveSession(session)

	// 2. Partida ativa: o oponente recebe exatamente um aviso.
	h.teardownRoom(session)

	// 3. Lobby privado.
	if code, remaining := h.lobbies.Leave(session); code != "" && remaining != nil {
		names := h.lobbies.MemberNames(code)
		for _, member := range remaining {
			member.Send() <- message.PlayerLeft(code, session.Name(), names)
		}
	}

	// 4. Registro e presença offline.
	h.registry.Unregister(session)
	log.Printf("[Handler] Conexão %s removida. Conexões ativas: %d", c.Key(), h.registry.Count())
}

// HandleMessage roteia o evento pelo estado atual da sessão. Um pânico em
// qualquer handler é contido aqui: vira log e um evento de erro para o
// cliente, nunca a queda do servidor.
func (h *Handler) HandleMessage(c Client, msg network.Message) {
	session := h.registry.SessionFor(c)
	if session == nil {
		log.Printf("[Handler] Mensagem '%s' de conexão desconhecida %s, descartada.", msg.Type, c.Key())
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[Handler] Pânico ao processar '%s' da conexão %s: %v", msg.Type, c.Key(), rec)
			session.Send() <- message.Error("internal server error")
		}
	}()

	var router map[string]CommandHandlerFunc
	switch session.State {
	case state_LOBBY:
		router = h.lobbyRouter
	case state_IN_QUEUE:
		router = h.queueRouter
	case state_IN_MATCH:
		router = h.matchRouter
	case state_IN_LOBBY:
		router = h.groupRouter
	default:
		log.Printf("[Handler] Sessão %s em estado desconhecido '%s'.", c.Key(), session.State)
		return
	}

	handler, ok := router[msg.Type]
	if !ok {
		// Evento de jogo fora de partida é quase sempre um atraso de rede
		// logo após a sala morrer. Descarta sem punir o cliente.
		if gameplayEvents[msg.Type] {
			log.Printf("[Handler] Evento de jogo '%s' sem sala roteável (estado '%s'), descartado.", msg.Type, session.State)
			return
		}
		message.SendError(session, "Comando '%s' desconhecido ou não permitido no estado atual.", msg.Type)
		return
	}

	handler(h, session, msg.Payload)
}

// teardownRoom desfaz a partida de uma sessão que sumiu. O participante que
// ficou volta ao lobby e recebe um único opponentDisconnected.
func (h *Handler) teardownRoom(session *PlayerSession) {
	room := h.rooms.RoomFor(session.Client)
	if room == nil {
		return
	}

	opponent := room.opponentOf(session)
	h.rooms.DestroyRoom(room)

	session.State = state_LOBBY
	if opponent != nil {
		opponent.Session.State = state_LOBBY
		opponent.Session.Send() <- message.OpponentDisconnected("Your opponent has disconnected.")
	}
}
