package clientrepo

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

// ClientRepository implementa as operações CRUD de clientes.
type ClientRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewClientRepository cria e retorna uma nova instância do Repositório de Clientes.
func NewClientRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *ClientRepository {
	return &ClientRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

const clientColumns = `id, name, cpf, phone, email, created_at, updated_at`

// Create insere um novo cliente no banco de dados.
func (r *ClientRepository) Create(ctx context.Context, client domain.Client) (domain.Client, error) {
	r.logger.Debug("Iniciando Create no repositório de clientes.", map[string]interface{}{"name": client.Name})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if client.ID == "" {
		client.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	client.CreatedAt = now
	client.UpdatedAt = now

	query := `
        INSERT INTO clients (` + clientColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING ` + clientColumns

	err := r.DB.QueryRowContext(ctxTimeout, query,
		client.ID, client.Name, client.CPF, client.Phone, client.Email,
		client.CreatedAt, client.UpdatedAt,
	).Scan(
		&client.ID, &client.Name, &client.CPF, &client.Phone, &client.Email,
		&client.CreatedAt, &client.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir cliente no DB.", err)
		return domain.Client{}, errors.NewDBError("Falha ao criar cliente", err)
	}

	r.logger.Info("Cliente criado com sucesso.", map[string]interface{}{"id": client.ID, "name": client.Name})
	return client, nil
}

// FindByID busca um cliente pelo ID.
func (r *ClientRepository) FindByID(ctx context.Context, id string) (domain.Client, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`

	var client domain.Client
	err := r.DB.QueryRowContext(ctxTimeout, query, id).Scan(
		&client.ID, &client.Name, &client.CPF, &client.Phone, &client.Email,
		&client.CreatedAt, &client.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		r.logger.Info("Cliente não encontrado.", map[string]interface{}{"id": id})
		return domain.Client{}, errors.NewNotFoundError(fmt.Sprintf("Cliente com ID %s não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar cliente no DB.", err)
		return domain.Client{}, errors.NewDBError("Falha ao buscar cliente", err)
	}

	return client, nil
}

// FindAll busca todos os clientes.
func (r *ClientRepository) FindAll(ctx context.Context) ([]domain.Client, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY name`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		r.logger.Error("Falha ao executar listagem de clientes.", err)
		return nil, errors.NewDBError("Falha ao listar clientes", err)
	}
	defer rows.Close()

	var clients []domain.Client
	for rows.Next() {
		var client domain.Client
		if err := rows.Scan(
			&client.ID, &client.Name, &client.CPF, &client.Phone, &client.Email,
			&client.CreatedAt, &client.UpdatedAt,
		); err != nil {
			r.logger.Error("Falha ao mapear cliente na listagem.", err)
			return nil, errors.NewDBError("Falha ao mapear clientes do DB", err)
		}
		clients = append(clients, client)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Erro após iteração de clientes", err)
	}

	return clients, nil
}

// Update atualiza um cliente existente.
func (r *ClientRepository) Update(ctx context.Context, client domain.Client) (domain.Client, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	client.UpdatedAt = time.Now().UTC()

	query := `
        UPDATE clients
        SET name = $1, cpf = $2, phone = $3, email = $4, updated_at = $5
        WHERE id = $6
        RETURNING ` + clientColumns

	err := r.DB.QueryRowContext(ctxTimeout, query,
		client.Name, client.CPF, client.Phone, client.Email,
		client.UpdatedAt, client.ID,
	).Scan(
		&client.ID, &client.Name, &client.CPF, &client.Phone, &client.Email,
		&client.CreatedAt, &client.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return domain.Client{}, errors.NewNotFoundError(fmt.Sprintf("Cliente com ID %s não encontrado para atualização.", client.ID))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar cliente no DB.", err)
		return domain.Client{}, errors.NewDBError("Falha ao atualizar cliente", err)
	}

	r.logger.Info("Cliente atualizado com sucesso.", map[string]interface{}{"id": client.ID})
	return client, nil
}

// Delete remove um cliente pelo ID.
func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar cliente do DB.", err)
		return errors.NewDBError("Falha ao deletar cliente", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Cliente com ID %s não encontrado para exclusão.", id))
	}

	r.logger.Info("Cliente deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}
