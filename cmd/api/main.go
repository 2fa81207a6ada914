package main

import (
	"database/sql"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"user-manager-backend/internal/config"
	"user-manager-backend/internal/mailer"
	"user-manager-backend/internal/user"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db := mustOpenDB(cfg.DatabaseURL)
	defer db.Close()
	ensureSchema(db)

	app := fiber.New(fiber.Config{ErrorHandler: errorHandler})
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	sender, err := mailer.NewSMTPSender(cfg.EmailHost, cfg.EmailPort, cfg.EmailUser, cfg.EmailPass, cfg.FromName, cfg.FromEmail)
	if err != nil {
		log.Fatalf("mail transport setup failed: %v", err)
	}

	repo := user.NewPostgresRepository(db)
	service := user.NewService(repo)
	analytics := user.NewAnalytics(repo)
	dispatcher := mailer.NewDispatcher(sender, mailer.DefaultRetries)
	handler := user.NewHandler(service, analytics, dispatcher)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("CRUD Backend running")
	})
	handler.RegisterRoutes(app)

	log.Printf("starting server on %s", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

// mustOpenDB opens the shared connection once at startup. The process must
// not begin accepting requests without a live store connection.
func mustOpenDB(databaseURL string) *sql.DB {
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	if err := db.Ping(); err != nil {
		log.Fatalf("failed to reach database: %v", err)
	}

	return db
}

func ensureSchema(db *sql.DB) {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		phone TEXT,
		city TEXT,
		state TEXT,
		country TEXT,
		gender TEXT NOT NULL DEFAULT 'Male',
		created_at TIMESTAMPTZ NOT NULL
	)`); err != nil {
		log.Fatalf("failed to ensure users table: %v", err)
	}
}

// errorHandler is the centralized fallback responder: full detail is logged
// server-side, clients get a generic message.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	log.Printf("unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(code).JSON(fiber.Map{"message": "internal server error"})
}
