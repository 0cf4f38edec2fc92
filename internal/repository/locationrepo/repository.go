package locationrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"clinistock/internal/domain"
	"clinistock/internal/errors"
	"clinistock/internal/pkg/logger"
)

// LocationRepository implementa a persistência do índice de lotes
// (tabela stock_locations).
type LocationRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewLocationRepository cria e retorna uma nova instância do Repositório do Índice de Lotes.
func NewLocationRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *LocationRepository {
	return &LocationRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

const locationColumns = `id, location_id, location_type, product_id, sku, expiry_date, quantity, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLocation(s rowScanner) (domain.StockLocation, error) {
	var sl domain.StockLocation
	var expiry sql.NullTime

	err := s.Scan(
		&sl.ID, &sl.LocationID, &sl.LocationType, &sl.ProductID,
		&sl.SKU, &expiry, &sl.Quantity, &sl.CreatedAt, &sl.UpdatedAt,
	)
	if err != nil {
		return domain.StockLocation{}, err
	}
	if expiry.Valid {
		sl.ExpiryDate = &expiry.Time
	}
	return sl, nil
}

// FindFirstByPair busca a primeira entrada de lote para (localização, produto),
// ordenada pela validade mais próxima (lotes sem validade por último).
// Podem existir vários lotes por par; o resolvedor usa só o primeiro.
func (r *LocationRepository) FindFirstByPair(ctx context.Context, locationID, productID string) (domain.StockLocation, error) {
	r.logger.Debug("Iniciando FindFirstByPair no repositório do índice de lotes.", map[string]interface{}{
		"location_id": locationID,
		"product_id":  productID,
	})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT ` + locationColumns + `
        FROM stock_locations
        WHERE location_id = $1 AND product_id = $2
        ORDER BY expiry_date ASC NULLS LAST, created_at ASC
        LIMIT 1`

	sl, err := scanLocation(r.DB.QueryRowContext(ctxTimeout, query, locationID, productID))
	if err == sql.ErrNoRows {
		return domain.StockLocation{}, errors.NewNotFoundError(
			fmt.Sprintf("Nenhum lote para o produto %s na localização %s.", productID, locationID))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar lote no DB.", err)
		return domain.StockLocation{}, errors.NewDBError("Falha ao buscar lote", err)
	}

	return sl, nil
}

// FindByPairs busca em lote as entradas do índice para os pares
// (location_id, product_id) de uma página de movimentos. A query usa ANY sobre
// os dois conjuntos de ids; o chamador reduz em memória para a primeira
// correspondência por par. Uma ida ao banco por página, em vez de uma por linha.
func (r *LocationRepository) FindByPairs(ctx context.Context, locationIDs, productIDs []string) ([]domain.StockLocation, error) {
	if len(locationIDs) == 0 || len(productIDs) == 0 {
		return nil, nil
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT ` + locationColumns + `
        FROM stock_locations
        WHERE location_id = ANY($1) AND product_id = ANY($2)
        ORDER BY expiry_date ASC NULLS LAST, created_at ASC`

	rows, err := r.DB.QueryContext(ctxTimeout, query, pq.Array(locationIDs), pq.Array(productIDs))
	if err != nil {
		r.logger.Error("Falha ao executar busca em lote no índice de lotes.", err)
		return nil, errors.NewDBError("Falha ao buscar lotes em lote", err)
	}
	defer rows.Close()

	var locations []domain.StockLocation
	for rows.Next() {
		sl, err := scanLocation(rows)
		if err != nil {
			r.logger.Error("Falha ao mapear lote na busca em lote.", err)
			return nil, errors.NewDBError("Falha ao mapear lotes do DB", err)
		}
		locations = append(locations, sl)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Erro após iteração das linhas de lotes.", err)
		return nil, errors.NewDBError("Erro após iteração de lotes", err)
	}

	return locations, nil
}

// Create insere uma nova entrada no índice de lotes.
func (r *LocationRepository) Create(ctx context.Context, location domain.StockLocation) (domain.StockLocation, error) {
	r.logger.Debug("Iniciando Create no repositório do índice de lotes.", map[string]interface{}{
		"location_id": location.LocationID,
		"product_id":  location.ProductID,
		"sku":         location.SKU,
	})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if location.ID == "" {
		location.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	location.CreatedAt = now
	location.UpdatedAt = now

	query := `
        INSERT INTO stock_locations (` + locationColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	var expiry interface{}
	if location.ExpiryDate != nil {
		expiry = *location.ExpiryDate
	}

	_, err := r.DB.ExecContext(ctxTimeout, query,
		location.ID, location.LocationID, location.LocationType, location.ProductID,
		location.SKU, expiry, location.Quantity, location.CreatedAt, location.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir lote no DB.", err)
		return domain.StockLocation{}, errors.NewDBError("Falha ao criar lote", err)
	}

	r.logger.Info("Lote criado com sucesso.", map[string]interface{}{"id": location.ID})
	return location, nil
}

// FindByID busca uma entrada do índice pelo ID.
func (r *LocationRepository) FindByID(ctx context.Context, id string) (domain.StockLocation, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + locationColumns + ` FROM stock_locations WHERE id = $1`

	sl, err := scanLocation(r.DB.QueryRowContext(ctxTimeout, query, id))
	if err == sql.ErrNoRows {
		return domain.StockLocation{}, errors.NewNotFoundError(fmt.Sprintf("Lote com ID %s não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar lote por ID no DB.", err)
		return domain.StockLocation{}, errors.NewDBError("Falha ao buscar lote", err)
	}
	return sl, nil
}

// FindByLocation lista as entradas do índice de uma localização.
func (r *LocationRepository) FindByLocation(ctx context.Context, locationID string) ([]domain.StockLocation, error) {
	return r.listWhere(ctx, "location_id", locationID)
}

// FindByProduct lista as entradas do índice de um produto.
func (r *LocationRepository) FindByProduct(ctx context.Context, productID string) ([]domain.StockLocation, error) {
	return r.listWhere(ctx, "product_id", productID)
}

func (r *LocationRepository) listWhere(ctx context.Context, column, value string) ([]domain.StockLocation, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT ` + locationColumns + `
        FROM stock_locations
        WHERE ` + column + ` = $1
        ORDER BY expiry_date ASC NULLS LAST, created_at ASC`

	rows, err := r.DB.QueryContext(ctxTimeout, query, value)
	if err != nil {
		r.logger.Error("Falha ao executar listagem de lotes.", err)
		return nil, errors.NewDBError("Falha ao listar lotes", err)
	}
	defer rows.Close()

	var locations []domain.StockLocation
	for rows.Next() {
		sl, err := scanLocation(rows)
		if err != nil {
			r.logger.Error("Falha ao mapear lote na listagem.", err)
			return nil, errors.NewDBError("Falha ao mapear lotes do DB", err)
		}
		locations = append(locations, sl)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Erro após iteração de lotes", err)
	}
	return locations, nil
}

// Update atualiza uma entrada do índice de lotes.
func (r *LocationRepository) Update(ctx context.Context, location domain.StockLocation) (domain.StockLocation, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	location.UpdatedAt = time.Now().UTC()

	var expiry interface{}
	if location.ExpiryDate != nil {
		expiry = *location.ExpiryDate
	}

	query := `
        UPDATE stock_locations
        SET sku = $1, expiry_date = $2, quantity = $3, updated_at = $4
        WHERE id = $5`

	result, err := r.DB.ExecContext(ctxTimeout, query,
		location.SKU, expiry, location.Quantity, location.UpdatedAt, location.ID,
	)
	if err != nil {
		r.logger.Error("Falha ao atualizar lote no DB.", err)
		return domain.StockLocation{}, errors.NewDBError("Falha ao atualizar lote", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.StockLocation{}, errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return domain.StockLocation{}, errors.NewNotFoundError(fmt.Sprintf("Lote com ID %s não encontrado para atualização.", location.ID))
	}

	r.logger.Info("Lote atualizado com sucesso.", map[string]interface{}{"id": location.ID})
	return location, nil
}

// Delete remove uma entrada do índice de lotes.
func (r *LocationRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM stock_locations WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar lote do DB.", err)
		return errors.NewDBError("Falha ao deletar lote", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Lote com ID %s não encontrado para exclusão.", id))
	}

	r.logger.Info("Lote deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}
