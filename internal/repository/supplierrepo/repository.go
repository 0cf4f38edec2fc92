package supplierrepo

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

// SupplierRepository implementa as operações CRUD de fornecedores.
type SupplierRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewSupplierRepository cria e retorna uma nova instância do Repositório de Fornecedores.
func NewSupplierRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *SupplierRepository {
	return &SupplierRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

const supplierColumns = `id, name, cnpj, phone, email, created_at, updated_at`

// Create insere um novo fornecedor no banco de dados.
func (r *SupplierRepository) Create(ctx context.Context, supplier domain.Supplier) (domain.Supplier, error) {
	r.logger.Debug("Iniciando Create no repositório de fornecedores.", map[string]interface{}{"name": supplier.Name})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if supplier.ID == "" {
		supplier.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	supplier.CreatedAt = now
	supplier.UpdatedAt = now

	query := `
        INSERT INTO suppliers (` + supplierColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING ` + supplierColumns

	err := r.DB.QueryRowContext(ctxTimeout, query,
		supplier.ID, supplier.Name, supplier.CNPJ, supplier.Phone, supplier.Email,
		supplier.CreatedAt, supplier.UpdatedAt,
	).Scan(
		&supplier.ID, &supplier.Name, &supplier.CNPJ, &supplier.Phone, &supplier.Email,
		&supplier.CreatedAt, &supplier.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir fornecedor no DB.", err)
		return domain.Supplier{}, errors.NewDBError("Falha ao criar fornecedor", err)
	}

	r.logger.Info("Fornecedor criado com sucesso.", map[string]interface{}{"id": supplier.ID, "name": supplier.Name})
	return supplier, nil
}

// FindByID busca um fornecedor pelo ID.
func (r *SupplierRepository) FindByID(ctx context.Context, id string) (domain.Supplier, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE id = $1`

	var supplier domain.Supplier
	err := r.DB.QueryRowContext(ctxTimeout, query, id).Scan(
		&supplier.ID, &supplier.Name, &supplier.CNPJ, &supplier.Phone, &supplier.Email,
		&supplier.CreatedAt, &supplier.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		r.logger.Info("Fornecedor não encontrado.", map[string]interface{}{"id": id})
		return domain.Supplier{}, errors.NewNotFoundError(fmt.Sprintf("Fornecedor com ID %s não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar fornecedor no DB.", err)
		return domain.Supplier{}, errors.NewDBError("Falha ao buscar fornecedor", err)
	}

	return supplier, nil
}

// FindAll busca todos os fornecedores.
func (r *SupplierRepository) FindAll(ctx context.Context) ([]domain.Supplier, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + supplierColumns + ` FROM suppliers ORDER BY name`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		r.logger.Error("Falha ao executar listagem de fornecedores.", err)
		return nil, errors.NewDBError("Falha ao listar fornecedores", err)
	}
	defer rows.Close()

	var suppliers []domain.Supplier
	for rows.Next() {
		var supplier domain.Supplier
		if err := rows.Scan(
			&supplier.ID, &supplier.Name, &supplier.CNPJ, &supplier.Phone, &supplier.Email,
			&supplier.CreatedAt, &supplier.UpdatedAt,
		); err != nil {
			r.logger.Error("Falha ao mapear fornecedor na listagem.", err)
			return nil, errors.NewDBError("Falha ao mapear fornecedores do DB", err)
		}
		suppliers = append(suppliers, supplier)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Erro após iteração de fornecedores", err)
	}

	return suppliers, nil
}

// Update atualiza um fornecedor existente.
func (r *SupplierRepository) Update(ctx context.Context, supplier domain.Supplier) (domain.Supplier, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	supplier.UpdatedAt = time.Now().UTC()

	query := `
        UPDATE suppliers
        SET name = $1, cnpj = $2, phone = $3, email = $4, updated_at = $5
        WHERE id = $6
        RETURNING ` + supplierColumns

	err := r.DB.QueryRowContext(ctxTimeout, query,
		supplier.Name, supplier.CNPJ, supplier.Phone, supplier.Email,
		supplier.UpdatedAt, supplier.ID,
	).Scan(
		&supplier.ID, &supplier.Name, &supplier.CNPJ, &supplier.Phone, &supplier.Email,
		&supplier.CreatedAt, &supplier.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return domain.Supplier{}, errors.NewNotFoundError(fmt.Sprintf("Fornecedor com ID %s não encontrado para atualização.", supplier.ID))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar fornecedor no DB.", err)
		return domain.Supplier{}, errors.NewDBError("Falha ao atualizar fornecedor", err)
	}

	r.logger.Info("Fornecedor atualizado com sucesso.", map[string]interface{}{"id": supplier.ID})
	return supplier, nil
}

// Delete remove um fornecedor pelo ID.
func (r *SupplierRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar fornecedor do DB.", err)
		return errors.NewDBError("Falha ao deletar fornecedor", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Fornecedor com ID %s não encontrado para exclusão.", id))
	}

	r.logger.Info("Fornecedor deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}
