package network

import (
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Tempo para aguardar por uma escrita na conexão.
	writeWait = 10 * time.Second

	// Tempo máximo para aguardar por uma resposta de pong do cliente.
	pongWait = 60 * time.Second

	// Frequência com que enviamos pings para o cliente. Deve ser menor que pongWait.
	pingPeriod = (pongWait * 9) / 10
)

// Client é a representação de um jogador conectado do ponto de vista do servidor.
// Ele agrupa a conexão, o identificador de transporte e os canais de comunicação.
type Client struct {
	// A conexão WebSocket real com o jogador.
	conn *websocket.Conn

	// Identificador de transporte, único por conexão (nunca persistido).
	key string

	// Token opaco de handshake (query param "token"), repassado para a camada
	// de autenticação. Pode ser vazio.
	token string

	// Uma referência ao Hub central. O cliente usa isso para se (des)registrar.
	hub *Hub

	// Um canal bufferizado para mensagens de saída.
	// O Hub e os handlers colocam as mensagens aqui, e a goroutine writeLoop
	// do cliente as envia. O buffer evita que o produtor bloqueie se o cliente
	// estiver lento para processar.
	send chan Message
}

// Key retorna o identificador de transporte desta conexão.
func (c *Client) Key() string {
	return c.key
}

// Token retorna o token de handshake informado pelo cliente (pode ser vazio).
func (c *Client) Token() string {
	return c.token
}

func (c *Client) Send() chan<- Message {
	return c.send
}

func (c *Client) readLoop() {
	// Garante que a limpeza ocorrerá quando o loop terminar.
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	// Configura um deadline para a próxima mensagem de pong.
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	// O handler de pong atualiza o read deadline, mantendo a conexão viva.
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			// websocket.IsUnexpectedCloseError é útil para logar erros de desconexão inesperados.
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				fmt.Printf("Erro inesperado no cliente %s: %v\n", c.key, err)
			}
			// Para qualquer erro (desconexão normal ou anormal), saímos do loop.
			break
		}

		// Empacota a mensagem e o cliente que a enviou.
		messageToProcess := clientMessage{
			client: c,
			msg:    msg,
		}

		// Envia o pacote para o canal de entrada do Hub.
		c.hub.incoming <- messageToProcess
	}
}

// writeLoop bombeia mensagens do canal 'send' do cliente para a conexão WebSocket.
func (c *Client) writeLoop() {
	// Ticker para enviar pings periódicos para o cliente.
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			// Configura um deadline para a escrita para evitar bloqueios indefinidos.
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			// O canal 'send' foi fechado pelo Hub, o que significa que o cliente foi desregistrado.
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// WriteJSON cuida de toda a serialização e framing.
			err := c.conn.WriteJSON(msg)
			if err != nil {
				fmt.Printf("Erro de escrita no cliente %s: %v\n", c.key, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return // Se o ping falhar, a conexão está morta.
			}
		}
	}
}
