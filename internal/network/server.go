package network

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// Server é a estrutura principal do nosso servidor de rede.
// Ele gerencia um Hub e expõe a rota de upgrade WebSocket.
type Server struct {
	hub *Hub
}

// upgrader armazena as configurações para promover uma conexão HTTP para WebSocket.
var upgrader = websocket.Upgrader{
	// CheckOrigin permite controlar quais domínios podem se conectar.
	// Para desenvolvimento, retornamos 'true' para permitir qualquer origem.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// NewServer aceita um EventHandler para passá-lo ao Hub.
// Este é o ponto de injeção da lógica da arena.
func NewServer(handler EventHandler) *Server {
	return &Server{
		hub: NewHub(handler),
	}
}

// wsHandler é o ponto de entrada para conexões de clientes.
// Ele lida com a requisição HTTP e a promove para uma conexão WebSocket.
func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	// 1. Promove a conexão HTTP para uma conexão WebSocket persistente.
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		fmt.Printf("Erro ao fazer upgrade da conexão: %v\n", err)
		return
	}

	// 2. Cria o nosso Client. O token de handshake (se houver) viaja opaco até
	// a camada de autenticação; a rede não o interpreta.
	client := &Client{
		conn:  conn,
		key:   uuid.NewString(),
		token: r.URL.Query().Get("token"),
		hub:   s.hub,
		send:  make(chan Message, 256),
	}

	// 3. Registra o novo cliente no Hub.
	client.hub.register <- client

	// 4. Inicia as goroutines de leitura e escrita.
	go client.writeLoop()
	go client.readLoop()
}

// Listen inicia a goroutine do Hub, registra a rota "/ws" no roteador dado e
// sobe o servidor HTTP. O roteador pode chegar com outras rotas já montadas
// (health check, etc). http.ListenAndServe é bloqueante.
func (s *Server) Listen(address string, router *mux.Router) error {
	go s.hub.Run()

	router.HandleFunc("/ws", s.wsHandler)

	fmt.Printf("Servidor WebSocket escutando em ws://%s/ws\n", address)

	return http.ListenAndServe(address, router)
}
