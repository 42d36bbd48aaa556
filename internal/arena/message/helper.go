package message

import (
	"fmt"

	"ether/internal/network"
)

// MessageSender define a interface para qualquer tipo que pode receber uma mensagem.
// Isso nos permite desacoplar o pacote `message` de implementações concretas
// como `PlayerSession` ou `network.Client`.
type MessageSender interface {
	Send() chan<- network.Message
}

// SendError envia uma mensagem de erro de protocolo para o cliente.
func SendError(sender MessageSender, format string, args ...interface{}) {
	sender.Send() <- Error(fmt.Sprintf(format, args...))
}
