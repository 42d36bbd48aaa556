package network

import "encoding/json"

// Message é o envelope padrão para toda a comunicação com os clientes.
// Ele contém um tipo para roteamento e um payload com os dados.
// As structs tags como json:"type" servem para manter a convenção do protocolo.
type Message struct {
	Type    string          `json:"type"`    // Ex: "findMatch", "gameState", "opponentDisconnected"
	Payload json.RawMessage `json:"payload,omitempty"` // Dados específicos, mantidos em JSON bruto para decodificação posterior.
}
