package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/nerdymedev/lekzzy-tech-store/auth"
	"github.com/nerdymedev/lekzzy-tech-store/cart"
	"github.com/nerdymedev/lekzzy-tech-store/checkout"
	"github.com/nerdymedev/lekzzy-tech-store/models"
	"github.com/nerdymedev/lekzzy-tech-store/orders"
	"github.com/nerdymedev/lekzzy-tech-store/routes"
	"github.com/nerdymedev/lekzzy-tech-store/session"
	"github.com/nerdymedev/lekzzy-tech-store/store"
)

func main() {
	log.Println("Starting application...")

	// Load environment variables
	_ = godotenv.Load()

	// Remote store is optional: without database config the app runs in
	// local-only mode and every write lands in the fallback store.
	db := initDatabase()

	var (
		remoteOrders   store.RemoteOrders
		remoteProducts store.RemoteProducts
	)
	if db != nil {
		if err := db.AutoMigrate(
			&store.OrderRow{},
			&store.ProductRow{},
			&store.UserRow{},
		); err != nil {
			log.Fatalf("AutoMigrate failed: %v", err)
		}
		remoteOrders = store.NewGormOrders(db)
		remoteProducts = store.NewGormProducts(db)
	} else {
		log.Println("Remote store not configured, running in local-only mode")
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	local, err := store.OpenLocal(filepath.Join(dataDir, "store.db"))
	if err != nil {
		log.Fatalf("Failed to open local store: %v", err)
	}
	defer local.Close()

	orderStore := store.NewOrders(remoteOrders, local)
	catalog := store.NewCatalog(remoteProducts, local)
	users := store.NewUsers(db)

	lookup := cart.Lookup(func(productID string) (*models.Product, bool) {
		product, err := catalog.Get(context.Background(), productID)
		if err != nil {
			return nil, false
		}
		return product, true
	})

	payments := checkout.SimulatedAuthorizer{Delay: 2 * time.Second}
	sessions := session.NewManager(local, lookup, orderStore, payments)

	hub := orders.NewHub()
	lifecycle := orders.NewService(orderStore, hub)

	verifier, err := auth.NewFirebaseVerifier(context.Background())
	if err != nil {
		log.Fatalf("Failed to initialize identity provider: %v", err)
	}
	if verifier == nil {
		log.Println("Identity provider not configured, only guest sessions available")
	}

	// Gin setup
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, routes.Deps{
		Sessions:  sessions,
		Catalog:   catalog,
		Lifecycle: lifecycle,
		Hub:       hub,
		Users:     users,
		Verifier:  verifier,
		Policy:    auth.PolicyFromEnv(),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on port %s...", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// initDatabase sets up the GORM DB connection, or returns nil when no
// database is configured.
func initDatabase() *gorm.DB {
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
		if err != nil {
			log.Fatalf("DB connection failed: %v", err)
		}
		return db
	}

	host := os.Getenv("DB_HOST")
	if host == "" {
		return nil
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host,
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect DB: %v", err)
	}
	return db
}
