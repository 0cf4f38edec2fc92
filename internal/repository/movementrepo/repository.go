package movementrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"clinistock/internal/domain"
	"clinistock/internal/errors"
	"clinistock/internal/pkg/logger"
)

// MovementRepository implementa a persistência do livro-razão de movimentos
// sobre a tabela stock_movements.
type MovementRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewMovementRepository cria e retorna uma nova instância do Repositório de Movimentos.
func NewMovementRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *MovementRepository {
	return &MovementRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

const movementColumns = `id, product_id, type, quantity,
        from_location_id, from_location_type, to_location_id, to_location_type,
        user_id, reason, notes, unit_price, total_value, created_at, updated_at`

// rowScanner cobre *sql.Row e *sql.Rows para reaproveitar o mapeamento.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanMovement mapeia uma linha de stock_movements para domain.StockMovement,
// convertendo as colunas anuláveis do par de localização.
func scanMovement(s rowScanner) (domain.StockMovement, error) {
	var m domain.StockMovement
	var fromID, fromType, toID, toType sql.NullString

	err := s.Scan(
		&m.ID, &m.ProductID, &m.Type, &m.Quantity,
		&fromID, &fromType, &toID, &toType,
		&m.UserID, &m.Reason, &m.Notes, &m.UnitPrice, &m.TotalValue,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return domain.StockMovement{}, err
	}

	if fromID.Valid {
		m.FromLocationID = &fromID.String
	}
	if fromType.Valid {
		kind := domain.LocationKind(fromType.String)
		m.FromLocationType = &kind
	}
	if toID.Valid {
		m.ToLocationID = &toID.String
	}
	if toType.Valid {
		kind := domain.LocationKind(toType.String)
		m.ToLocationType = &kind
	}
	return m, nil
}

// nullableKind converte *LocationKind para o valor anulável aceito pelo driver.
func nullableKind(k *domain.LocationKind) interface{} {
	if k == nil {
		return nil
	}
	return string(*k)
}

// nullableString converte *string para o valor anulável aceito pelo driver.
func nullableString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

// Create insere um novo movimento no livro-razão.
func (r *MovementRepository) Create(ctx context.Context, movement domain.StockMovement) (domain.StockMovement, error) {
	r.logger.Debug("Iniciando Create no repositório de movimentos.", map[string]interface{}{
		"product_id": movement.ProductID,
		"type":       movement.Type,
		"quantity":   movement.Quantity,
	})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	movement.CreatedAt = now
	movement.UpdatedAt = now

	query := `
        INSERT INTO stock_movements (` + movementColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.DB.ExecContext(ctxTimeout, query,
		movement.ID, movement.ProductID, movement.Type, movement.Quantity,
		nullableString(movement.FromLocationID), nullableKind(movement.FromLocationType),
		nullableString(movement.ToLocationID), nullableKind(movement.ToLocationType),
		movement.UserID, movement.Reason, movement.Notes,
		movement.UnitPrice, movement.TotalValue,
		movement.CreatedAt, movement.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir movimento no DB.", err)
		return domain.StockMovement{}, errors.NewDBError("Falha ao registrar movimento", err)
	}

	r.logger.Info("Movimento registrado com sucesso.", map[string]interface{}{"id": movement.ID, "type": movement.Type})
	return movement, nil
}

// FindByID busca um movimento pelo ID.
func (r *MovementRepository) FindByID(ctx context.Context, id string) (domain.StockMovement, error) {
	r.logger.Debug("Iniciando FindByID no repositório de movimentos.", map[string]interface{}{"id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`

	movement, err := scanMovement(r.DB.QueryRowContext(ctxTimeout, query, id))
	if err == sql.ErrNoRows {
		r.logger.Info("Movimento não encontrado.", map[string]interface{}{"id": id})
		return domain.StockMovement{}, errors.NewNotFoundError(fmt.Sprintf("Movimento com ID %s não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar movimento no DB.", err)
		return domain.StockMovement{}, errors.NewDBError("Falha ao buscar movimento", err)
	}

	return movement, nil
}

// FindAll lista movimentos com paginação e filtro opcional por período,
// do mais recente para o mais antigo.
func (r *MovementRepository) FindAll(ctx context.Context, filter domain.MovementFilter) ([]domain.StockMovement, error) {
	return r.list(ctx, "", filter)
}

// FindByProduct lista movimentos de um produto com paginação e filtro por período.
func (r *MovementRepository) FindByProduct(ctx context.Context, productID string, filter domain.MovementFilter) ([]domain.StockMovement, error) {
	return r.list(ctx, productID, filter)
}

// list monta a query de listagem. productID vazio significa sem filtro de produto.
func (r *MovementRepository) list(ctx context.Context, productID string, filter domain.MovementFilter) ([]domain.StockMovement, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE 1=1`
	args := []interface{}{}
	pos := 1

	if productID != "" {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, productID)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := (page - 1) * limit

	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao executar listagem de movimentos.", err)
		return nil, errors.NewDBError("Falha ao listar movimentos", err)
	}
	defer rows.Close()

	var movements []domain.StockMovement
	for rows.Next() {
		movement, err := scanMovement(rows)
		if err != nil {
			r.logger.Error("Falha ao mapear movimento na listagem.", err)
			return nil, errors.NewDBError("Falha ao mapear movimentos do DB", err)
		}
		movements = append(movements, movement)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Erro após iteração das linhas de movimentos.", err)
		return nil, errors.NewDBError("Erro após iteração de movimentos", err)
	}

	r.logger.Debug("Listagem de movimentos concluída.", map[string]interface{}{"total": len(movements)})
	return movements, nil
}

// UpdateAnnotations grava apenas os campos de anotação de um movimento
// existente. Os campos contábeis (tipo, quantidade, localizações) nunca são
// alterados por aqui: o livro-razão é append-only para eles.
func (r *MovementRepository) UpdateAnnotations(ctx context.Context, movement domain.StockMovement) (domain.StockMovement, error) {
	r.logger.Debug("Iniciando UpdateAnnotations no repositório de movimentos.", map[string]interface{}{"id": movement.ID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	movement.UpdatedAt = time.Now().UTC()

	query := `
        UPDATE stock_movements
        SET reason = $1, notes = $2, unit_price = $3, total_value = $4, updated_at = $5
        WHERE id = $6`

	result, err := r.DB.ExecContext(ctxTimeout, query,
		movement.Reason, movement.Notes, movement.UnitPrice, movement.TotalValue,
		movement.UpdatedAt, movement.ID,
	)
	if err != nil {
		r.logger.Error("Falha ao atualizar anotações do movimento no DB.", err)
		return domain.StockMovement{}, errors.NewDBError("Falha ao atualizar movimento", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("Falha ao verificar linhas afetadas após UpdateAnnotations.", err)
		return domain.StockMovement{}, errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return domain.StockMovement{}, errors.NewNotFoundError(fmt.Sprintf("Movimento com ID %s não encontrado para atualização.", movement.ID))
	}

	r.logger.Info("Anotações do movimento atualizadas.", map[string]interface{}{"id": movement.ID})
	return movement, nil
}

// Delete remove um movimento pelo ID.
func (r *MovementRepository) Delete(ctx context.Context, id string) error {
	r.logger.Debug("Iniciando Delete no repositório de movimentos.", map[string]interface{}{"id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM stock_movements WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar movimento do DB.", err)
		return errors.NewDBError("Falha ao deletar movimento", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("Falha ao verificar linhas afetadas após Delete.", err)
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		r.logger.Info("Movimento não encontrado para exclusão.", map[string]interface{}{"id": id})
		return errors.NewNotFoundError(fmt.Sprintf("Movimento com ID %s não encontrado para exclusão.", id))
	}

	r.logger.Info("Movimento deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}
