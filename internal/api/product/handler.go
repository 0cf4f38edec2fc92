package product

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"clinistock/internal/domain"
	apperror "clinistock/internal/errors"
	"clinistock/internal/pkg/logger"
)

// ProductService define o contrato que o Handler espera da camada de Serviço.
type ProductService interface {
	CreateProduct(ctx domain.Context, product domain.Product) (domain.Product, error)
	GetProductByID(ctx domain.Context, id string) (domain.Product, error)
	ListProducts(ctx domain.Context, filter domain.ProductFilter) ([]domain.Product, error)
	UpdateProduct(ctx domain.Context, product domain.Product) (domain.Product, error)
	DeleteProduct(ctx domain.Context, id string) error
}

// Handler agrupa todos os métodos de Handler de produtos.
type Handler struct {
	Service ProductService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc ProductService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// handleServiceResponse processa erros de serviço e envia respostas padronizadas ao cliente.
func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	if err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(successStatus)
		if data != nil {
			if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
				h.Logger.Error("Falha ao codificar JSON de resposta", jsonErr)
				http.Error(w, "Erro ao codificar resposta", http.StatusInternalServerError)
			}
		}
		return
	}

	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		h.Logger.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		h.Logger.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{"path": r.URL.Path})
	}

	errorResponse := map[string]interface{}{
		"code":     status,
		"category": category,
		"message":  message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse)
}

// ProductsHandler lida com a coleção /v1/products (GET lista, POST cria).
func (h *Handler) ProductsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listProducts(w, r)
	case http.MethodPost:
		h.createProduct(w, r)
	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}

// createProduct lida com a requisição POST /v1/products.
// @Summary Cria um novo produto
// @Description Cria um novo produto no catálogo.
// @Tags products
// @Accept json
// @Produce json
// @Param product body domain.Product true "Dados do produto"
// @Success 201 {object} domain.Product "Produto criado com sucesso"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Security ApiKeyAuth
// @Router /products [post]
func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var product domain.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	created, err := h.Service.CreateProduct(ctx, product)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, created, nil, http.StatusCreated)
}

// listProducts lida com a requisição GET /v1/products.
// @Summary Lista produtos
// @Description Lista produtos com paginação e filtro opcional por nome.
// @Tags products
// @Produce json
// @Param page query int false "Página (padrão 1)"
// @Param limit query int false "Itens por página (padrão 10)"
// @Param name query string false "Filtro por nome (parcial)"
// @Param active query bool false "Somente produtos ativos"
// @Success 200 {array} domain.Product "Lista de produtos"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /products [get]
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	var filter domain.ProductFilter
	filter.Name = q.Get("name")
	if raw := q.Get("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil {
			filter.Page = page
		}
	}
	if raw := q.Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			filter.Limit = limit
		}
	}
	filter.ActiveOnly = q.Get("active") == "true"

	products, err := h.Service.ListProducts(ctx, filter)
	h.handleServiceResponse(w, r, products, err, http.StatusOK)
}

// ProductByIDHandler lida com /v1/products/{id} (GET, PUT, DELETE).
func (h *Handler) ProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := strings.TrimPrefix(r.URL.Path, "/v1/products/")

	switch r.Method {
	case http.MethodGet:
		product, err := h.Service.GetProductByID(ctx, id)
		h.handleServiceResponse(w, r, product, err, http.StatusOK)

	case http.MethodPut:
		var product domain.Product
		if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
			h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
			return
		}
		product.ID = id

		updated, err := h.Service.UpdateProduct(ctx, product)
		h.handleServiceResponse(w, r, updated, err, http.StatusOK)

	case http.MethodDelete:
		if err := h.Service.DeleteProduct(ctx, id); err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusOK)
			return
		}
		h.handleServiceResponse(w, r, nil, nil, http.StatusNoContent)

	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}
