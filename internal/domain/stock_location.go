package domain

import "time"

// StockLocation é a entrada do índice de lotes: registra quanto do produto P,
// identificado por SKU e validade, está na localização de ator L.
// Podem existir várias entradas por (localização, produto), uma por lote;
// o resolvedor usa a primeira correspondência (validade mais próxima).
type StockLocation struct {
	ID           string       `json:"id"`
	LocationID   string       `json:"location_id"`
	LocationType LocationKind `json:"location_type"`
	ProductID    string       `json:"product_id"`
	SKU          string       `json:"sku"`
	ExpiryDate   *time.Time   `json:"expiry_date"`
	Quantity     int          `json:"quantity"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
