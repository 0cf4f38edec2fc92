package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa o item do catálogo da clínica (a Entidade).
// O índice de lotes (StockLocation) e o livro-razão (StockMovement)
// referenciam o produto apenas pelo ID.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Summary devolve a projeção mínima usada pelas views de movimento.
func (p Product) Summary() ProductSummary {
	return ProductSummary{ID: p.ID, Name: p.Name}
}

// ProductFilter define os parâmetros de busca e paginação do catálogo.
type ProductFilter struct {
	Page       int
	Limit      int
	Name       string
	ActiveOnly bool
}
