package actorrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"clinistock/internal/domain"
	"clinistock/internal/errors"
	"clinistock/internal/pkg/logger"
)

// ActorRepository resolve a identidade de exibição de um participante de
// localização. A tag decide a tabela consultada: supplier → suppliers,
// client → clients, user → users. As três tabelas compartilham (id, name).
type ActorRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewActorRepository cria e retorna uma nova instância do Repositório de Atores.
func NewActorRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *ActorRepository {
	return &ActorRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// tableFor mapeia a tag da união fechada para a tabela de backing.
func tableFor(kind domain.LocationKind) (string, error) {
	switch kind {
	case domain.LocationSupplier:
		return "suppliers", nil
	case domain.LocationClient:
		return "clients", nil
	case domain.LocationUser:
		return "users", nil
	}
	return "", errors.NewValidationError(fmt.Sprintf("Tipo de localização desconhecido: %q.", kind))
}

// FindName busca a identidade (id, nome) de um ator na tabela implicada pela tag.
func (r *ActorRepository) FindName(ctx context.Context, kind domain.LocationKind, id string) (domain.ActorIdentity, error) {
	table, err := tableFor(kind)
	if err != nil {
		return domain.ActorIdentity{}, err
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := fmt.Sprintf(`SELECT id, name FROM %s WHERE id = $1`, table)

	var identity domain.ActorIdentity
	err = r.DB.QueryRowContext(ctxTimeout, query, id).Scan(&identity.ID, &identity.Name)
	if err == sql.ErrNoRows {
		return domain.ActorIdentity{}, errors.NewNotFoundError(
			fmt.Sprintf("Ator %s com ID %s não encontrado.", kind, id))
	}
	if err != nil {
		r.logger.Error("Falha ao resolver ator no DB.", err)
		return domain.ActorIdentity{}, errors.NewDBError("Falha ao resolver ator", err)
	}

	return identity, nil
}

// FindNames busca em lote os nomes de vários atores do mesmo tipo.
// Ids que não resolvem simplesmente não aparecem no mapa — ausência não é erro
// na leitura (o assembler degrada o campo para null).
func (r *ActorRepository) FindNames(ctx context.Context, kind domain.LocationKind, ids []string) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}

	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := fmt.Sprintf(`SELECT id, name FROM %s WHERE id = ANY($1)`, table)

	rows, err := r.DB.QueryContext(ctxTimeout, query, pq.Array(ids))
	if err != nil {
		r.logger.Error("Falha ao resolver atores em lote no DB.", err)
		return nil, errors.NewDBError("Falha ao resolver atores em lote", err)
	}
	defer rows.Close()

	names := make(map[string]string, len(ids))
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			r.logger.Error("Falha ao mapear ator na busca em lote.", err)
			return nil, errors.NewDBError("Falha ao mapear atores do DB", err)
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Erro após iteração de atores", err)
	}

	return names, nil
}
