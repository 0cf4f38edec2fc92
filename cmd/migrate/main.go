package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"clinistock/config"
	"clinistock/internal/pkg/database"
)

// Aplica as migrações do diretório sql/ com o goose.
// Uso: go run ./cmd/migrate [up|down|status]
func main() {
	flag.Parse()

	command := "up"
	if args := flag.Args(); len(args) > 0 {
		command = args[0]
	}

	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()

	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Falha ao conectar ao banco de dados: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("❌ Falha ao configurar dialeto do goose: %v", err)
	}

	switch command {
	case "up":
		err = goose.Up(db, "sql")
	case "down":
		err = goose.Down(db, "sql")
	case "status":
		err = goose.Status(db, "sql")
	default:
		log.Fatalf("❌ Comando desconhecido: %s (use up, down ou status)", command)
	}

	if err != nil {
		log.Fatalf("❌ Falha ao executar migração '%s': %v", command, err)
	}

	log.Printf("✅ Migração '%s' concluída com sucesso.", command)
}
