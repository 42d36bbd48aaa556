// cmd/client/main.go
//
// Cliente de terminal para testar a arena sem o launcher. Conecta via
// WebSocket, imprime todos os eventos do servidor e oferece um menu simples
// para disparar os comandos do protocolo.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"

	"github.com/gorilla/websocket"

	"ether/internal/network"
)

const (
	StateMainMenu = "MainMenu"
	StateInQueue  = "InQueue"
	StateInLobby  = "InLobby"
	StateInMatch  = "InMatch"
)

var clientState = StateMainMenu

func main() {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	// Lista de instâncias da arena, com failover na conexão inicial.
	// Ex: ARENA_ADDRESSES="192.168.1.10:8090,192.168.1.11:8090"
	addresses := []string{"localhost:8090"}
	if addrsEnv := os.Getenv("ARENA_ADDRESSES"); addrsEnv != "" {
		addresses = strings.Split(addrsEnv, ",")
	}

	var conn *websocket.Conn
	var err error

	for _, addr := range addresses {
		u := url.URL{Scheme: "ws", Host: strings.TrimSpace(addr), Path: "/ws"}
		if token := os.Getenv("ARENA_TOKEN"); token != "" {
			u.RawQuery = "token=" + url.QueryEscape(token)
		}
		log.Printf("Tentando conectar à arena em %s", u.Host)

		var resp *http.Response
		conn, resp, err = websocket.DefaultDialer.Dial(u.String(), nil)
		if err == nil {
			log.Println("Conexão WebSocket bem-sucedida!")
			break
		}

		log.Printf("AVISO: Falha ao conectar a %s: %v", addr, err)
		if resp != nil {
			log.Printf("AVISO: Status da resposta recebida: %s", resp.Status)
		}
	}

	if conn == nil {
		log.Fatalf("Não foi possível conectar a nenhuma instância da arena. Encerrando.")
	}
	defer conn.Close()

	done := make(chan struct{})
	go readLoop(conn, done)

	printPrompt()
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			handleUserInput(conn, scanner, scanner.Text())
		}
	}()

	select {
	case <-done:
		log.Println("Desconectado do servidor.")
	case <-interrupt:
		log.Println("Interrupção recebida, fechando conexão.")
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}
}

func readLoop(conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	for {
		var msg network.Message
		err := conn.ReadJSON(&msg)
		if err != nil {
			if !websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Println("\nConexão fechada normalmente.")
			} else {
				log.Printf("\nErro de leitura: %v", err)
			}
			break
		}

		// Alguns eventos mudam o estado do cliente de terminal.
		switch msg.Type {
		case "waiting":
			clientState = StateInQueue
		case "matchFound":
			clientState = StateInMatch
		case "gameCreated", "playerJoined", "playerList":
			clientState = StateInLobby
		case "opponentDisconnected", "roundEnd":
			clientState = StateMainMenu
		}

		printServerMessage(&msg)
		printPrompt()
	}
}

func handleUserInput(conn *websocket.Conn, scanner *bufio.Scanner, choice string) {
	var msg network.Message
	shouldSend := true

	switch clientState {
	case StateMainMenu:
		switch choice {
		case "1":
			userID := promptForString(scanner, "Digite seu userId: ")
			payload, _ := json.Marshal(map[string]string{"userId": userID})
			msg = network.Message{Type: "join", Payload: payload}
		case "2":
			msg.Type = "findMatch"
		case "3":
			msg.Type = "createGame"
		case "4":
			code := promptForString(scanner, "Digite o código do lobby: ")
			payload, _ := json.Marshal(map[string]string{"code": code})
			msg = network.Message{Type: "joinGame", Payload: payload}
		case "5":
			msg.Type = "getMatchHistory"
		default:
			fmt.Println("Opção inválida.")
			shouldSend = false
		}
	case StateInQueue:
		if choice == "0" {
			msg.Type = "cancelMatch"
			clientState = StateMainMenu
		} else {
			fmt.Println("Opção inválida.")
			shouldSend = false
		}
	case StateInLobby:
		switch choice {
		case "0":
			msg.Type = "leaveGame"
			clientState = StateMainMenu
		case "1":
			msg.Type = "requestPlayerList"
		default:
			fmt.Println("Opção inválida.")
			shouldSend = false
		}
	case StateInMatch:
		switch choice {
		case "0":
			msg.Type = "leaveMatch"
			clientState = StateMainMenu
		default:
			// Qualquer outro texto vira mensagem de chat.
			payload, _ := json.Marshal(map[string]string{"message": choice})
			msg = network.Message{Type: "chat", Payload: payload}
		}
	}

	if shouldSend {
		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("Erro ao enviar mensagem: %v", err)
		}
	} else {
		printPrompt()
	}
}

func printServerMessage(msg *network.Message) {
	if msg.Type == "error" {
		var payload struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(msg.Payload, &payload) == nil {
			fmt.Printf("\nErro: %s\n", payload.Message)
			return
		}
	}

	pretty := string(msg.Payload)
	var decoded any
	if json.Unmarshal(msg.Payload, &decoded) == nil {
		if out, err := json.MarshalIndent(decoded, "", "  "); err == nil {
			pretty = string(out)
		}
	}
	fmt.Printf("\nEvento (%s): %s\n", msg.Type, pretty)
}

func printPrompt() {
	var prompt string
	switch clientState {
	case StateMainMenu:
		prompt = `
--- Ether Arena (Lobby) ---
1. Identificar-se (join)
2. Buscar Partida
3. Criar Lobby Privado
4. Entrar em Lobby por Código
5. Ver Histórico de Partidas
---------------------------

(Lobby) Digite uma opção: `
	case StateInQueue:
		prompt = "\n(Na Fila) Digite 0 para cancelar: "
	case StateInLobby:
		prompt = "\n(No Lobby) 1 = lista de jogadores, 0 = sair: "
	case StateInMatch:
		prompt = "\n(Em Jogo) Digite uma mensagem de chat, ou 0 para sair: "
	}
	fmt.Print(prompt)
}

func promptForString(scanner *bufio.Scanner, prompt string) string {
	fmt.Print(prompt)
	scanner.Scan()
	return scanner.Text()
}
