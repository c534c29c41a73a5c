package database

import (
	"fmt"
	"log"
	"os"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Inizializza la connessione al database
func InitDB() *gorm.DB {
	// Carica le variabili d'ambiente
	if err := godotenv.Load(); err != nil {
		log.Println("File .env non trovato, uso variabili d'ambiente del sistema")
	}

	dsn := os.Getenv("DATABASE_URL")

	var db *gorm.DB
	var err error

	if dsn != "" {
		// Connessione a PostgreSQL
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	} else {
		// Senza DATABASE_URL si usa un file SQLite locale (sviluppo)
		path := os.Getenv("SQLITE_PATH")
		if path == "" {
			path = "tonmetric.db"
		}
		log.Printf("DATABASE_URL non impostata, uso SQLite locale: %s", path)
		db, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	}
	if err != nil {
		log.Fatalf("Errore nella connessione al database: %v", err)
	}

	// Verifica la connessione
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Errore nell'ottenere il db: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Errore nel ping del database: %v", err)
	}

	// Log per confermare che la connessione è stata stabilita
	fmt.Println("Connessione al database avvenuta con successo!")

	return db
}
