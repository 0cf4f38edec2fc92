package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType identifica a direção de um movimento de estoque.
type MovementType string

// Tipos de movimento reconhecidos pelo livro-razão.
const (
	MovementEntrada       MovementType = "entrada"       // Entrada de estoque (origem pode ser externa)
	MovementSaida         MovementType = "saida"         // Saída de estoque (destino pode ser externo)
	MovementTransferencia MovementType = "transferencia" // Transferência entre duas localizações
)

// MovementTypes retorna o enum fixo exposto em GET /v1/stock-movements/types.
func MovementTypes() []MovementType {
	return []MovementType{MovementEntrada, MovementSaida, MovementTransferencia}
}

// Valid informa se o tipo de movimento é um dos três reconhecidos.
func (t MovementType) Valid() bool {
	switch t {
	case MovementEntrada, MovementSaida, MovementTransferencia:
		return true
	}
	return false
}

// StockMovement é a entrada do livro-razão: um evento de estoque registrado
// (recebimento, despacho ou transferência) com quantidade e participantes.
// O par de localização (ID + tipo) é opcional conforme a direção do movimento:
// entrada pura não tem origem, saída pura não tem destino.
type StockMovement struct {
	ID               string              `json:"id"`
	ProductID        string              `json:"product_id"`
	Type             MovementType        `json:"type"`
	Quantity         int                 `json:"quantity"`
	FromLocationID   *string             `json:"from_location_id"`
	FromLocationType *LocationKind       `json:"from_location_type"`
	ToLocationID     *string             `json:"to_location_id"`
	ToLocationType   *LocationKind       `json:"to_location_type"`
	UserID           string              `json:"user_id"`
	Reason           string              `json:"reason"`
	Notes            string              `json:"notes"`
	UnitPrice        decimal.NullDecimal `json:"unit_price"`
	TotalValue       decimal.NullDecimal `json:"total_value"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// FromRef monta a referência de ator da origem. Retorna uma referência vazia
// quando o movimento não tem origem (entrada pura).
func (m StockMovement) FromRef() ActorRef {
	return refFromColumns(m.FromLocationID, m.FromLocationType)
}

// ToRef monta a referência de ator do destino. Retorna uma referência vazia
// quando o movimento não tem destino (saída pura).
func (m StockMovement) ToRef() ActorRef {
	return refFromColumns(m.ToLocationID, m.ToLocationType)
}

func refFromColumns(id *string, kind *LocationKind) ActorRef {
	if id == nil || kind == nil {
		return ActorRef{}
	}
	return ActorRef{ID: *id, Kind: *kind}
}

// MovementInput é o payload de criação de um movimento: todos os atributos do
// StockMovement exceto id e timestamps. O usuário autor vem das claims de
// autenticação, nunca do corpo da requisição.
type MovementInput struct {
	ProductID        string              `json:"product_id"`
	Type             MovementType        `json:"type"`
	Quantity         int                 `json:"quantity"`
	FromLocationID   *string             `json:"from_location_id"`
	FromLocationType *LocationKind       `json:"from_location_type"`
	ToLocationID     *string             `json:"to_location_id"`
	ToLocationType   *LocationKind       `json:"to_location_type"`
	Reason           string              `json:"reason"`
	Notes            string              `json:"notes"`
	UnitPrice        decimal.NullDecimal `json:"unit_price"`
	TotalValue       decimal.NullDecimal `json:"total_value"`
}

// MovementAnnotation é o patch permitido em PUT /v1/stock-movements/{id}.
// O livro-razão é append-only nos campos contábeis: apenas os campos de
// anotação podem mudar depois que o movimento foi registrado.
type MovementAnnotation struct {
	Reason     *string              `json:"reason"`
	Notes      *string              `json:"notes"`
	UnitPrice  *decimal.NullDecimal `json:"unit_price"`
	TotalValue *decimal.NullDecimal `json:"total_value"`
}

// MovementFilter define os parâmetros de busca e paginação do livro-razão.
type MovementFilter struct {
	Page  int
	Limit int
	From  *time.Time
	To    *time.Time
}

// Context é uma interface que encapsula o Go context.Context.
// É usado para propagar o timeout e sinais de cancelamento pelas camadas.
// Isso evita a dependência direta do pacote "context" no domínio.
type Context interface{}
