package domain

// OrderStatus represents the lifecycle state of a prosthesis order.
type OrderStatus string

const (
	StatusPedidoSolicitado       OrderStatus = "pedido_solicitado"
	StatusBaixadoVerificado      OrderStatus = "baixado_verificado"
	StatusProjetoRealizado       OrderStatus = "projeto_realizado"
	StatusProjetoModeloRealizado OrderStatus = "projeto_modelo_realizado"
	StatusAguardandoEntrega      OrderStatus = "aguardando_entrega"
	StatusEntregue               OrderStatus = "entregue"
	StatusCancelado              OrderStatus = "cancelado"
)

// InitialLabel is what every non-super-admin viewer sees, regardless of the
// order's real status.
const InitialLabel = "Pedido Solicitado"

// UnknownLabel is returned to super admins for status codes outside the
// canonical set.
const UnknownLabel = "Desconhecido"

// successor defines the forward chain. Exactly one next state per
// non-terminal status; entregue and cancelado have no successor.
var successor = map[OrderStatus]OrderStatus{
	StatusPedidoSolicitado:       StatusBaixadoVerificado,
	StatusBaixadoVerificado:      StatusProjetoRealizado,
	StatusProjetoRealizado:       StatusProjetoModeloRealizado,
	StatusProjetoModeloRealizado: StatusAguardandoEntrega,
	StatusAguardandoEntrega:      StatusEntregue,
}

var statusLabels = map[OrderStatus]string{
	StatusPedidoSolicitado:       InitialLabel,
	StatusBaixadoVerificado:      "Baixado e Verificado",
	StatusProjetoRealizado:       "Projeto Realizado",
	StatusProjetoModeloRealizado: "Projeto do Modelo Realizado",
	StatusAguardandoEntrega:      "Aguardando Entrega",
	StatusEntregue:               "Entregue",
	StatusCancelado:              "Cancelado",
}

var statusColors = map[OrderStatus]string{
	StatusPedidoSolicitado:       "blue",
	StatusBaixadoVerificado:      "cyan",
	StatusProjetoRealizado:       "purple",
	StatusProjetoModeloRealizado: "indigo",
	StatusAguardandoEntrega:      "amber",
	StatusEntregue:               "green",
	StatusCancelado:              "red",
}

// IsValid reports whether s is one of the canonical statuses.
func (s OrderStatus) IsValid() bool {
	_, ok := statusLabels[s]
	return ok
}

// IsTerminal reports whether no further transition is defined from s.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusEntregue || s == StatusCancelado
}

// Next returns the single forward successor of s. ok is false for terminal
// or unknown statuses.
func (s OrderStatus) Next() (OrderStatus, bool) {
	next, ok := successor[s]
	return next, ok
}

// CanCancel reports whether s may move to cancelado. Cancellation is an
// administrative override reachable from any non-terminal state.
func (s OrderStatus) CanCancel() bool {
	return s.IsValid() && !s.IsTerminal()
}

// Stage maps the canonical status onto the coarse customer-facing
// vocabulary. It is a pure derivation and never stored.
func (s OrderStatus) Stage() string {
	switch s {
	case StatusPedidoSolicitado:
		return "pending"
	case StatusBaixadoVerificado, StatusProjetoRealizado, StatusProjetoModeloRealizado:
		return "producao"
	case StatusAguardandoEntrega:
		return "pronto"
	case StatusEntregue:
		return "entregue"
	case StatusCancelado:
		return "cancelado"
	}
	return "pending"
}

// StatusColor returns the display color token for a status. Unrecognised
// codes fall back to a neutral token; the lookup never fails.
func StatusColor(s OrderStatus) string {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return "gray"
}

// StatusLabel returns the human label for a status, gated by viewer tier.
//
// Non-super-admin viewers always receive the initial-state label no matter
// what the stored status is: the lab's internal production sub-states are
// not disclosed outside the super-admin tier. Super admins receive the true
// label, or UnknownLabel for codes outside the canonical set.
func StatusLabel(s OrderStatus, superAdminViewer bool) string {
	if !superAdminViewer {
		return InitialLabel
	}
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return UnknownLabel
}

// AllStatuses returns the canonical forward chain in pipeline order,
// excluding cancelado.
func AllStatuses() []OrderStatus {
	return []OrderStatus{
		StatusPedidoSolicitado,
		StatusBaixadoVerificado,
		StatusProjetoRealizado,
		StatusProjetoModeloRealizado,
		StatusAguardandoEntrega,
		StatusEntregue,
	}
}
