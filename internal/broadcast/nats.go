package broadcast

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/nats-io/nats.go"

	"ether/internal/network"
)

const subjectPrefix = "arena.room."

// Nats replica cada broadcast de grupo através de um servidor NATS, de modo
// que membros da mesma sessão conectados a outros processos também o recebam.
//
// Publish não entrega localmente: a mensagem vai para o NATS e volta pela
// assinatura do grupo, que então entrega aos membros locais. Assim cada
// membro recebe exatamente uma cópia, não importa em qual processo esteja.
type Nats struct {
	nc *nats.Conn

	// O handler de assinatura roda numa goroutine do NATS, fora da goroutine
	// do Hub, então aqui o acesso aos grupos precisa de lock.
	mu     sync.Mutex
	groups map[string]map[Sender]bool
	subs   map[string]*nats.Subscription
}

func NewNats(url string) (*Nats, error) {
	nc, err := nats.Connect(url, nats.Name("ether-arena"))
	if err != nil {
		return nil, err
	}
	log.Printf("[Broadcast] Conectado ao NATS em %s", url)
	return &Nats{
		nc:     nc,
		groups: make(map[string]map[Sender]bool),
		subs:   make(map[string]*nats.Subscription),
	}, nil
}

func (n *Nats) Join(group string, s Sender) {
	n.mu.Lock()
	defer n.mu.Unlock()

	members, ok := n.groups[group]
	if !ok {
		members = make(map[Sender]bool)
		n.groups[group] = members

		sub, err := n.nc.Subscribe(subjectPrefix+group, func(m *nats.Msg) {
			n.deliver(group, m.Data)
		})
		if err != nil {
			log.Printf("[Broadcast] ERRO ao assinar grupo %s: %v", group, err)
		} else {
			n.subs[group] = sub
		}
	}
	members[s] = true
}

func (n *Nats) Leave(group string, s Sender) {
	n.mu.Lock()
	defer n.mu.Unlock()

	members, ok := n.groups[group]
	if !ok {
		return
	}
	delete(members, s)
	if len(members) == 0 {
		delete(n.groups, group)
		if sub, ok := n.subs[group]; ok {
			sub.Unsubscribe()
			delete(n.subs, group)
		}
	}
}

func (n *Nats) Publish(group string, msg network.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[Broadcast] ERRO ao serializar mensagem para o grupo %s: %v", group, err)
		return
	}
	if err := n.nc.Publish(subjectPrefix+group, data); err != nil {
		log.Printf("[Broadcast] ERRO ao publicar no grupo %s: %v", group, err)
	}
}

// Close drena a conexão para não perder broadcasts já publicados.
func (n *Nats) Close() {
	n.nc.Drain()
}

func (n *Nats) deliver(group string, data []byte) {
	var msg network.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("[Broadcast] Mensagem inválida recebida do NATS no grupo %s: %v", group, err)
		return
	}

	n.mu.Lock()
	members := make([]Sender, 0, len(n.groups[group]))
	for member := range n.groups[group] {
		members = append(members, member)
	}
	n.mu.Unlock()

	for _, member := range members {
		// Envio não-bloqueante: um cliente lento não pode travar o callback do NATS.
		select {
		case member.Send() <- msg:
		default:
			log.Printf("[Broadcast] Canal de envio cheio no grupo %s, mensagem descartada.", group)
		}
	}
}
