package arena

import (
	"errors"
	"log"
	"math/rand"
)

var (
	// ErrLobbyNotFound indica que o código não corresponde a nenhum lobby vivo.
	ErrLobbyNotFound = errors.New("lobby não encontrado")

	// ErrLobbyFull indica que o lobby já atingiu a capacidade máxima.
	ErrLobbyFull = errors.New("lobby está cheio")
)

// Alfabeto sem caracteres ambíguos (0/O, 1/I) para códigos digitáveis.
const codeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const codeLength = 6

// LobbyService gerencia os lobbies privados de pareamento por código. Um
// lobby é só uma lista ordenada de sessões atrás de um código curto; ele não
// cria salas de jogo, apenas reúne jogadores.
//
// Acessado somente pela goroutine do Hub.
type LobbyService struct {
	lobbies    map[string][]*PlayerSession
	byClient   map[Client]string
	maxMembers int
}

func NewLobbyService(maxMembers int) *LobbyService {
	if maxMembers < 2 {
		maxMembers = 2
	}
	return &LobbyService{
		lobbies:    make(map[string][]*PlayerSession),
		byClient:   make(map[Client]string),
		maxMembers: maxMembers,
	}
}

// Create abre um novo lobby com o criador como primeiro membro e devolve o
// código gerado.
func (l *LobbyService) Create(s *PlayerSession) string {
	code := l.newCode()
	l.lobbies[code] = []*PlayerSession{s}
	l.byClient[s.Client] = code
	s.LobbyCode = code
	log.Printf("[Lobby] Lobby '%s' criado por '%s'.", code, s.Name())
	return code
}

// Join adiciona o jogador ao lobby do código informado.
func (l *LobbyService) Join(code string, s *PlayerSession) error {
	members, ok := l.lobbies[code]
	if !ok {
		return ErrLobbyNotFound
	}
	if len(members) >= l.maxMembers {
		return ErrLobbyFull
	}
	l.lobbies[code] = append(members, s)
	l.byClient[s.Client] = code
	s.LobbyCode = code
	return nil
}

// Leave remove o jogador do lobby em que ele estiver. Devolve o código e a
// lista de membros restantes para o chamador notificar quem ficou. Lobbies
// vazios são destruídos. Idempotente.
func (l *LobbyService) Leave(s *PlayerSession) (code string, remaining []*PlayerSession) {
	code, ok := l.byClient[s.Client]
	if !ok {
		return "", nil
	}
	delete(l.byClient, s.Client)
	s.LobbyCode = ""

	members := l.lobbies[code]
	for i, m := range members {
		if m == s {
			members = append(members[:i], members[i+1:]...)
			break
		}
	}
	if len(members) == 0 {
		delete(l.lobbies, code)
		log.Printf("[Lobby] Lobby '%s' esvaziou e foi destruído.", code)
		return code, nil
	}
	l.lobbies[code] = members
	return code, members
}

// Members devolve os membros do lobby em ordem de entrada.
func (l *LobbyService) Members(code string) ([]*PlayerSession, bool) {
	members, ok := l.lobbies[code]
	return members, ok
}

// MemberNames devolve os nomes dos membros, na ordem de entrada.
func (l *LobbyService) MemberNames(code string) []string {
	members := l.lobbies[code]
	names := make([]string, 0, len(members))
	for _, m := range members {
		names = append(names, m.Name())
	}
	return names
}

// newCode gera um código ainda não usado. Com 32^6 combinações, colisão é
// rara, mas o laço garante unicidade entre lobbies vivos.
func (l *LobbyService) newCode() string {
	for {
		b := make([]byte, codeLength)
		for i := range b {
			b[i] = codeCharset[rand.Intn(len(codeCharset))]
		}
		code := string(b)
		if _, exists := l.lobbies[code]; !exists {
			return code
		}
	}
}
