package productrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"clinistock/internal/domain"
	"clinistock/internal/errors"
	"clinistock/internal/pkg/cache"
	"clinistock/internal/pkg/logger"
)

// ProductRepository implementa a persistência do catálogo de produtos,
// com estratégia Cache-Aside (Redis) nas leituras por ID.
type ProductRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	CacheTTL  time.Duration
	logger    logger.Logger
}

// NewProductRepository cria e retorna uma nova instância do Repositório de Produtos.
func NewProductRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, cacheTTL time.Duration, logger logger.Logger) *ProductRepository {
	return &ProductRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		CacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// Chave de cache para produtos.
const productCacheKey = "product:%s"

const productColumns = `id, name, description, unit_price, is_active, created_at, updated_at`

// Save persiste um novo Produto no banco de dados e invalida nada (chave nova).
func (r *ProductRepository) Save(ctx context.Context, product domain.Product) (domain.Product, error) {
	r.logger.Debug("Iniciando Save no repositório de produtos.", map[string]interface{}{"name": product.Name})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	query := `
        INSERT INTO products (` + productColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.DB.ExecContext(ctxTimeout, query,
		product.ID, product.Name, product.Description, product.UnitPrice,
		product.IsActive, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir produto no DB.", err)
		return domain.Product{}, errors.NewDBError("Falha ao criar produto", err)
	}

	r.logger.Info("Produto criado com sucesso.", map[string]interface{}{"id": product.ID, "name": product.Name})
	return product, nil
}

// FindByID busca um produto pelo ID, utilizando a estratégia Cache-Aside.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	key := fmt.Sprintf(productCacheKey, id)
	var product domain.Product

	// 1. Tentar obter do Cache (Redis)
	cachedData, err := r.Cache.Get(ctxTimeout, key)
	if err == nil {
		if json.Unmarshal([]byte(cachedData), &product) == nil {
			return product, nil
		}
		// Desserialização falhou: segue para o DB e regrava a chave.
	} else if err != cache.ErrCacheMiss {
		// Erro real de cache (conexão perdida): loga e segue para o DB.
		r.logger.Warn("Falha ao ler produto do cache.", map[string]interface{}{"key": key, "error": err.Error()})
	}

	// 2. Busca no Banco de Dados (PostgreSQL)
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	err = r.DB.QueryRowContext(ctxTimeout, query, id).Scan(
		&product.ID, &product.Name, &product.Description, &product.UnitPrice,
		&product.IsActive, &product.CreatedAt, &product.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return domain.Product{}, errors.NewNotFoundError(fmt.Sprintf("Produto com ID %s não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar produto no DB.", err)
		return domain.Product{}, errors.NewDBError("Falha ao buscar produto", err)
	}

	// 3. Popula o cache para futuras requisições.
	if productJSON, marshalErr := json.Marshal(product); marshalErr == nil {
		r.Cache.Set(ctxTimeout, key, productJSON, r.CacheTTL)
	}

	return product, nil
}

// FindAll lista produtos com paginação e filtros opcionais.
func (r *ProductRepository) FindAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []interface{}{}
	pos := 1

	if filter.Name != "" {
		query += fmt.Sprintf(" AND name ILIKE $%d", pos)
		args = append(args, "%"+filter.Name+"%")
		pos++
	}
	if filter.ActiveOnly {
		query += " AND is_active = TRUE"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	query += fmt.Sprintf(" ORDER BY name LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao executar listagem de produtos.", err)
		return nil, errors.NewDBError("Falha ao listar produtos", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(
			&product.ID, &product.Name, &product.Description, &product.UnitPrice,
			&product.IsActive, &product.CreatedAt, &product.UpdatedAt,
		); err != nil {
			r.logger.Error("Falha ao mapear produto na listagem.", err)
			return nil, errors.NewDBError("Falha ao mapear produtos do DB", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Erro após iteração de produtos", err)
	}
	return products, nil
}

// FindSummaries busca em lote a projeção (id, nome) de vários produtos.
// Ids que não resolvem não aparecem no mapa — o assembler degrada para null.
func (r *ProductRepository) FindSummaries(ctx context.Context, ids []string) (map[string]domain.ProductSummary, error) {
	if len(ids) == 0 {
		return map[string]domain.ProductSummary{}, nil
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT id, name FROM products WHERE id = ANY($1)`

	rows, err := r.DB.QueryContext(ctxTimeout, query, pq.Array(ids))
	if err != nil {
		r.logger.Error("Falha ao buscar resumos de produtos em lote.", err)
		return nil, errors.NewDBError("Falha ao buscar resumos de produtos", err)
	}
	defer rows.Close()

	summaries := make(map[string]domain.ProductSummary, len(ids))
	for rows.Next() {
		var s domain.ProductSummary
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, errors.NewDBError("Falha ao mapear resumos de produtos", err)
		}
		summaries[s.ID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Erro após iteração de resumos de produtos", err)
	}
	return summaries, nil
}

// Update atualiza um produto existente e invalida a chave de cache.
func (r *ProductRepository) Update(ctx context.Context, product domain.Product) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	product.UpdatedAt = time.Now().UTC()

	query := `
        UPDATE products
        SET name = $1, description = $2, unit_price = $3, is_active = $4, updated_at = $5
        WHERE id = $6`

	result, err := r.DB.ExecContext(ctxTimeout, query,
		product.Name, product.Description, product.UnitPrice, product.IsActive,
		product.UpdatedAt, product.ID,
	)
	if err != nil {
		r.logger.Error("Falha ao atualizar produto no DB.", err)
		return domain.Product{}, errors.NewDBError("Falha ao atualizar produto", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.Product{}, errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return domain.Product{}, errors.NewNotFoundError(fmt.Sprintf("Produto com ID %s não encontrado para atualização.", product.ID))
	}

	// Invalida o cache: a próxima leitura regrava a chave.
	r.Cache.Delete(ctxTimeout, fmt.Sprintf(productCacheKey, product.ID))

	r.logger.Info("Produto atualizado com sucesso.", map[string]interface{}{"id": product.ID})
	return product, nil
}

// Delete remove um produto pelo ID e invalida a chave de cache.
// A exclusão propaga em cascata para movimentos e lotes (FK ON DELETE CASCADE).
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar produto do DB.", err)
		return errors.NewDBError("Falha ao deletar produto", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Produto com ID %s não encontrado para exclusão.", id))
	}

	r.Cache.Delete(ctxTimeout, fmt.Sprintf(productCacheKey, id))

	r.logger.Info("Produto deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}
