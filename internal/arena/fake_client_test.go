package arena

import (
	"encoding/json"
	"testing"

	"ether/internal/network"
)

// fakeClient substitui *network.Client nos testes: mesmo contrato, sem socket.
type fakeClient struct {
	key   string
	token string
	send  chan network.Message
}

func newFakeClient(key string) *fakeClient {
	return &fakeClient{key: key, send: make(chan network.Message, 64)}
}

func (f *fakeClient) Key() string                  { return f.key }
func (f *fakeClient) Token() string                { return f.token }
func (f *fakeClient) Send() chan<- network.Message { return f.send }

// received esvazia o canal de saída e devolve tudo que o cliente recebeu.
func (f *fakeClient) received() []network.Message {
	var msgs []network.Message
	for {
		select {
		case m := <-f.send:
			msgs = append(msgs, m)
		default:
			return msgs
		}
	}
}

// lastOfType devolve a última mensagem do tipo dado, ou nil.
func lastOfType(msgs []network.Message, eventType string) *network.Message {
	var found *network.Message
	for i := range msgs {
		if msgs[i].Type == eventType {
			found = &msgs[i]
		}
	}
	return found
}

// countOfType conta as mensagens do tipo dado.
func countOfType(msgs []network.Message, eventType string) int {
	n := 0
	for _, m := range msgs {
		if m.Type == eventType {
			n++
		}
	}
	return n
}

// mustMarshal serializa o payload de um comando de teste.
func mustMarshal(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("falha ao serializar payload de teste: %v", err)
	}
	return data
}

// send injeta um comando no handler como se tivesse chegado pela rede.
func send(h *Handler, c Client, eventType string, payload json.RawMessage) {
	h.HandleMessage(c, network.Message{Type: eventType, Payload: payload})
}
