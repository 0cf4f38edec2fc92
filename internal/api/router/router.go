package router

import (
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "clinistock/docs"
	"clinistock/internal/api/client"
	"clinistock/internal/api/location"
	"clinistock/internal/api/movement"
	"clinistock/internal/api/product"
	"clinistock/internal/api/supplier"
	"clinistock/internal/api/user"
	"clinistock/internal/domain"
	"clinistock/internal/pkg/cache"
	"clinistock/internal/pkg/middleware"
)

// Handlers agrupa os handlers injetados no roteador.
type Handlers struct {
	Movement *movement.Handler
	Location *location.Handler
	Supplier *supplier.Handler
	Client   *client.Handler
	Product  *product.Handler
	User     *user.Handler
}

// NewRouter configura e retorna o roteador HTTP principal.
// Leituras são públicas; escritas exigem token válido. A exclusão de
// movimentos exige adicionalmente a role admin.
func NewRouter(h Handlers, tokenSvc middleware.TokenService, cacheClient cache.Client, rateLimit int, ratePeriod time.Duration) http.Handler {

	// Usamos o ServeMux padrão do net/http para roteamento
	mux := http.NewServeMux()

	authMw := middleware.NewAuthMiddleware(tokenSvc)
	adminOnly := middleware.PermissionMiddleware(domain.RoleAdmin)

	// authForWrites protege apenas os métodos mutantes de um handler combinado.
	authForWrites := func(next http.HandlerFunc) http.HandlerFunc {
		protected := authMw(next)
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				next(w, r)
				return
			}
			protected(w, r)
		}
	}

	// --- 1. Rotas de Health Check e Documentação ---
	mux.HandleFunc("/ping", PingHandler)
	mux.Handle("/swagger/", httpSwagger.Handler())

	// --- 2. Autenticação ---
	mux.HandleFunc("/v1/register", h.User.RegisterHandler)
	mux.HandleFunc("/v1/login", h.User.LoginHandler)

	// --- 3. Livro-razão de Movimentos ---
	mux.HandleFunc("/v1/stock-movements", authForWrites(h.Movement.MovementsHandler))
	mux.HandleFunc("/v1/stock-movements/types", h.Movement.MovementTypesHandler)
	mux.HandleFunc("/v1/stock-movements/product/", h.Movement.MovementsByProductHandler)
	mux.HandleFunc("/v1/stock-movements/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.Movement.MovementByIDHandler(w, r)
		case http.MethodPut:
			authMw(h.Movement.MovementByIDHandler)(w, r)
		case http.MethodDelete:
			// Exclusão de movimento é restrita a administradores.
			authMw(adminOnly(h.Movement.MovementByIDHandler))(w, r)
		default:
			http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		}
	})

	// --- 4. Índice de Lotes ---
	mux.HandleFunc("/v1/stock-locations", authForWrites(h.Location.LocationsHandler))
	mux.HandleFunc("/v1/stock-locations/location/", h.Location.LocationsByLocationHandler)
	mux.HandleFunc("/v1/stock-locations/product/", h.Location.LocationsByProductHandler)
	mux.HandleFunc("/v1/stock-locations/resolve", h.Location.ResolveHandler)
	mux.HandleFunc("/v1/stock-locations/", authForWrites(h.Location.LocationByIDHandler))

	// --- 5. Cadastros (Fornecedores, Clientes, Produtos) ---
	mux.HandleFunc("/v1/suppliers", authForWrites(h.Supplier.SuppliersHandler))
	mux.HandleFunc("/v1/suppliers/", authForWrites(h.Supplier.SupplierByIDHandler))
	mux.HandleFunc("/v1/clients", authForWrites(h.Client.ClientsHandler))
	mux.HandleFunc("/v1/clients/", authForWrites(h.Client.ClientByIDHandler))
	mux.HandleFunc("/v1/products", authForWrites(h.Product.ProductsHandler))
	mux.HandleFunc("/v1/products/", authForWrites(h.Product.ProductByIDHandler))

	// --- 6. Middlewares Globais ---
	return middleware.RateLimiter(cacheClient, rateLimit, ratePeriod)(mux)
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
