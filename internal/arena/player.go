package arena

import (
	"ether/internal/network"
)

// Constantes de estado da sessão para evitar erros de digitação.
const (
	state_LOBBY    = "lobby"    // Jogador está online, no menu.
	state_IN_QUEUE = "in-queue" // Jogador está na fila de matchmaking.
	state_IN_LOBBY = "in-lobby" // Jogador está em um lobby privado (pareamento por código).
	state_IN_MATCH = "in-match" // Jogador está em uma partida ativa.
)

// Client é a visão que a camada de arena tem de uma conexão de transporte.
// *network.Client implementa esta interface; os testes usam um fake.
type Client interface {
	// Key é o identificador de transporte, único por conexão.
	Key() string

	// Token é o token opaco do handshake (pode ser vazio).
	Token() string

	// Send é o canal de saída da conexão.
	Send() chan<- network.Message
}

// PlayerSession representa um jogador único e conectado ao servidor.
// É efêmera: criada na conexão, destruída na desconexão, nunca persistida.
type PlayerSession struct {
	Client Client

	State string // Usará as constantes state_*.

	// UserID é a identidade do jogador: verificada pelo resolvedor de tokens
	// ou auto-declarada via evento 'join'. Vazio = anônimo.
	UserID      string
	DisplayName string

	// Authed indica que UserID veio do resolvedor de tokens. Só identidades
	// verificadas entram no registro de estatísticas.
	Authed bool

	// CurrentRoom é uma referência de roteamento, sem posse: a sala pertence
	// ao RoomManager.
	CurrentRoom *Room

	// LobbyCode é o código do lobby privado em que o jogador está, se houver.
	LobbyCode string
}

// NewPlayerSession cria e inicializa uma nova sessão de jogador.
func NewPlayerSession(client Client) *PlayerSession {
	return &PlayerSession{
		Client: client,
		State:  state_LOBBY, // Todo jogador começa no lobby.
	}
}

// Identity devolve a identidade do jogador, caindo no identificador de
// transporte quando ele é anônimo (comportamento do protocolo original).
func (s *PlayerSession) Identity() string {
	if s.UserID != "" {
		return s.UserID
	}
	return s.Client.Key()
}

// Name devolve o nome de exibição, com fallback legível para anônimos.
func (s *PlayerSession) Name() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	if s.UserID != "" {
		return s.UserID
	}
	return "Player_" + s.Client.Key()
}

// Send permite usar a sessão diretamente como message.MessageSender.
func (s *PlayerSession) Send() chan<- network.Message {
	return s.Client.Send()
}
