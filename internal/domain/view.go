package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ResolvedLocation é um ator resolvido enriquecido com o primeiro lote do
// produto naquela localização. SKU e ExpiryDate ficam nulos quando não há
// entrada no índice de lotes — ausência de lote não é erro.
type ResolvedLocation struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	SKU        *string    `json:"sku"`
	ExpiryDate *time.Time `json:"expiry_date"`
}

// ProductSummary é a projeção mínima do produto usada nas views (id e nome).
type ProductSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MovementView é o modelo de leitura de um movimento: a linha do livro-razão
// com as referências resolvidas para exibição. Qualquer referência que não
// resolva (ator apagado, produto removido) degrada para null no campo
// correspondente — o histórico de movimentos nunca fica ilegível.
type MovementView struct {
	ID           string              `json:"id"`
	Type         MovementType        `json:"type"`
	Quantity     int                 `json:"quantity"`
	Reason       string              `json:"reason"`
	Notes        string              `json:"notes"`
	UnitPrice    decimal.NullDecimal `json:"unit_price"`
	TotalValue   decimal.NullDecimal `json:"total_value"`
	CreatedAt    time.Time           `json:"created_at"`
	Product      *ProductSummary     `json:"product"`
	FromLocation *ResolvedLocation   `json:"from_location"`
	ToLocation   *ResolvedLocation   `json:"to_location"`
	User         *ActorIdentity      `json:"user"`
}
