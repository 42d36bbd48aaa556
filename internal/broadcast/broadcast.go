package broadcast

import (
	"ether/internal/network"
)

// Sender é o destino mínimo de uma mensagem de broadcast.
type Sender interface {
	Send() chan<- network.Message
}

// Broadcaster é o fan-out injetável na fronteira de broadcast do gerenciador
// de sessões. A mesma interface atende um único processo (Local) ou um bus
// externo (Nats); as salas não sabem qual implementação está por trás.
type Broadcaster interface {
	// Join inscreve uma conexão no grupo lógico de broadcast de uma sessão.
	Join(group string, s Sender)

	// Leave remove a conexão do grupo. Grupos vazios são descartados.
	Leave(group string, s Sender)

	// Publish entrega a mensagem a todos os membros do grupo, onde quer que
	// eles estejam conectados.
	Publish(group string, msg network.Message)
}

// Local entrega mensagens diretamente aos membros do grupo no mesmo processo.
// Todos os métodos são chamados a partir da goroutine do Hub, então não há
// necessidade de exclusão mútua.
type Local struct {
	groups map[string]map[Sender]bool
}

func NewLocal() *Local {
	return &Local{groups: make(map[string]map[Sender]bool)}
}

func (l *Local) Join(group string, s Sender) {
	members, ok := l.groups[group]
	if !ok {
		members = make(map[Sender]bool)
		l.groups[group] = members
	}
	members[s] = true
}

func (l *Local) Leave(group string, s Sender) {
	members, ok := l.groups[group]
	if !ok {
		return
	}
	delete(members, s)
	if len(members) == 0 {
		delete(l.groups, group)
	}
}

func (l *Local) Publish(group string, msg network.Message) {
	for member := range l.groups[group] {
		member.Send() <- msg
	}
}
