package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/cardanobuybot/tonmetric-bot/controllers"
	"github.com/cardanobuybot/tonmetric-bot/database"
	"github.com/cardanobuybot/tonmetric-bot/models"
	"github.com/cardanobuybot/tonmetric-bot/repository"
	"github.com/cardanobuybot/tonmetric-bot/routes"
	"github.com/cardanobuybot/tonmetric-bot/services"
	"github.com/cardanobuybot/tonmetric-bot/services/telegram"
)

func main() {
	// Carica le variabili d'ambiente dal file .env
	if err := godotenv.Load(); err != nil {
		log.Println("File .env non trovato, uso variabili d'ambiente del sistema")
	}

	// Inizializza il database
	db := database.InitDB()

	// Migrazione automatica degli schemi
	if err := db.AutoMigrate(&models.Subscription{}); err != nil {
		log.Fatalf("Errore durante la migrazione: %v", err)
	}

	repo := repository.NewSubscriptionRepository(db)

	// Intervallo del monitor, configurabile (es. "2m", "30s")
	interval := 5 * time.Minute
	if raw := os.Getenv("MONITOR_INTERVAL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Printf("MONITOR_INTERVAL non valido (%q), uso il default %v", raw, interval)
		} else {
			interval = parsed
		}
	}

	priceMonitor := services.NewPriceMonitor(repo, controllers.BinancePriceSource{}, interval)
	priceMonitor.Start()
	defer priceMonitor.Stop()

	// Inizializza il bot Telegram
	telegramToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	if telegramToken == "" {
		log.Println("TELEGRAM_BOT_TOKEN non impostato, il bot Telegram non sarà avviato")
	} else {
		bot, err := telegram.NewTelegramBot(telegramToken, repo)
		if err != nil {
			log.Printf("⚠️ ERRORE nell'inizializzazione del bot Telegram: %v", err)
		} else {
			bot.Start()

			// Collega il bot al monitor come canale di notifica
			priceMonitor.SetNotifier(bot)
			log.Println("Notifiche Telegram configurate per il monitor")
		}
	}

	// Inizializza il router Gin
	router := gin.Default()

	// Configurazione CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:8080", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Imposta le routes
	routes.SetupPriceRoutes(router)
	routes.SetupSubscriptionRoutes(router, repo)

	// Avvia il server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	fmt.Printf("Server in ascolto su http://localhost:%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Errore nell'avvio del server: %v", err)
	}
}
