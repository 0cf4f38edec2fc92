package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Pacotes de infraestrutura e utilitários
	"clinistock/config"
	"clinistock/internal/pkg/cache"
	"clinistock/internal/pkg/database"
	"clinistock/internal/pkg/logger"
	"clinistock/internal/pkg/token"

	// Camadas da aplicação para Injeção de Dependências
	"clinistock/internal/api/client"
	"clinistock/internal/api/location"
	"clinistock/internal/api/movement"
	"clinistock/internal/api/product"
	"clinistock/internal/api/router"
	"clinistock/internal/api/supplier"
	"clinistock/internal/api/user"
	"clinistock/internal/repository/actorrepo"
	"clinistock/internal/repository/clientrepo"
	"clinistock/internal/repository/locationrepo"
	"clinistock/internal/repository/movementrepo"
	"clinistock/internal/repository/productrepo"
	"clinistock/internal/repository/supplierrepo"
	"clinistock/internal/repository/userrepo"
	"clinistock/internal/service/clientservice"
	"clinistock/internal/service/locationservice"
	"clinistock/internal/service/movementservice"
	"clinistock/internal/service/productservice"
	"clinistock/internal/service/resolverservice"
	"clinistock/internal/service/supplierservice"
	"clinistock/internal/service/userservice"
	"clinistock/internal/service/viewservice"
)

// @title CliniStock API
// @version 1.0
// @description API de gestão de estoque clínico: movimentos, lotes, fornecedores, clientes e produtos.
// @BasePath /v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	// 1. Configuração e Inicialização
	log.Println("⚡ Inicializando serviço CliniStock...")

	// O godotenv.Load() procura por um arquivo chamado .env na raiz.
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Configurações carregadas.", nil)

	// 2. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	log.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Cache (Redis)
	cacheClient := cache.NewRedisClient(cfg.RedisAddr)
	log.Info("Conexão Redis estabelecida.", nil)

	// C. Serviço de Tokens (JWT)
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)
	log.Debug("Serviço de Tokens JWT inicializado.", nil)

	// 3. INJEÇÃO DE DEPENDÊNCIAS (Repository -> Service -> Handler)

	// A. Repositórios (Camada de Acesso a Dados)
	movementRepo := movementrepo.NewMovementRepository(db, cfg.DBTimeout, log)
	locationRepo := locationrepo.NewLocationRepository(db, cfg.DBTimeout, log)
	actorRepo := actorrepo.NewActorRepository(db, cfg.DBTimeout, log)
	productRepo := productrepo.NewProductRepository(db, cacheClient, cfg.DBTimeout, cfg.CacheTTL, log)
	supplierRepo := supplierrepo.NewSupplierRepository(db, cfg.DBTimeout, log)
	clientRepo := clientrepo.NewClientRepository(db, cfg.DBTimeout, log)
	userRepo := userrepo.NewUserRepository(db, cfg.DBTimeout, log)
	log.Debug("Repositórios inicializados.", nil)

	// B. Serviços (Camada de Lógica de Negócio)
	movementSvc := movementservice.NewService(movementRepo, productRepo, userRepo, actorRepo, log)
	viewSvc := viewservice.NewService(productRepo, actorRepo, userRepo, locationRepo, log)
	resolverSvc := resolverservice.NewService(actorRepo, locationRepo, log)
	locationSvc := locationservice.NewService(locationRepo, productRepo, actorRepo, log)
	productSvc := productservice.NewService(productRepo, log)
	supplierSvc := supplierservice.NewService(supplierRepo, log)
	clientSvc := clientservice.NewService(clientRepo, log)
	userSvc := userservice.NewService(userRepo, tokenSvc)
	log.Debug("Serviços inicializados.", nil)

	// C. Handlers (Camada de Apresentação)
	handlers := router.Handlers{
		Movement: movement.NewHandler(movementSvc, viewSvc, log),
		Location: location.NewHandler(locationSvc, resolverSvc, log),
		Supplier: supplier.NewHandler(supplierSvc, log),
		Client:   client.NewHandler(clientSvc, log),
		Product:  product.NewHandler(productSvc, log),
		User:     user.NewHandler(userSvc, log),
	}
	log.Debug("Handlers inicializados.", nil)

	// 4. Configuração e Início do Roteador/Servidor
	r := router.NewRouter(handlers, tokenSvc, cacheClient, cfg.RateLimitMaxRequests, cfg.RateLimitPeriod)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		log.Info("Servidor CliniStock ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Desligamento do servidor forçado.", err)
	}

	log.Info("Servidor encerrado com sucesso.", nil)
}
