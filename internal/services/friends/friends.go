package friends

// Lookup é o colaborador externo que resolve o conjunto de amigos a notificar
// quando o status de presença de um usuário muda. A implementação real vive no
// serviço de contas; este pacote só define o contrato e o comportamento padrão.
type Lookup interface {
	// Peers devolve as identidades a notificar. Um retorno nil significa
	// "todos os usuários conectados" (o comportamento do sistema original,
	// que fazia broadcast global de presença).
	Peers(userID string) []string
}

// EveryoneOnline reproduz o broadcast global de presença do sistema original:
// todos os usuários conectados são tratados como amigos.
type EveryoneOnline struct{}

func (EveryoneOnline) Peers(string) []string { return nil }

// Static resolve amizades a partir de um mapa fixo. Útil em testes e em
// implantações pequenas sem serviço de contas.
type Static struct {
	peers map[string][]string
}

func NewStatic(peers map[string][]string) *Static {
	return &Static{peers: peers}
}

func (s *Static) Peers(userID string) []string {
	found, ok := s.peers[userID]
	if !ok {
		return []string{}
	}
	return found
}
