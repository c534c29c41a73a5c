package controllers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/cardanobuybot/tonmetric-bot/repository"
	"github.com/gin-gonic/gin"
)

// NormalizeLanguage riconduce un codice lingua a una delle lingue supportate
func NormalizeLanguage(lang string) string {
	switch lang {
	case "en", "ru", "uk":
		return lang
	default:
		return "en"
	}
}

// CreateSubscription attiva (o riattiva) l'iscrizione agli avvisi per una chat
func CreateSubscription(repo *repository.SubscriptionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			ChatID   int64  `json:"chat_id" binding:"required"`
			Language string `json:"language"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Il prezzo corrente diventa la base dell'iscrizione: senza un prezzo
		// valido l'iscrizione viene rifiutata, mai creata con base zero
		price, err := GetTonPriceUSD()
		if err != nil {
			log.Printf("[Subscriptions] Prezzo non disponibile, iscrizione rifiutata: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Prezzo TON non disponibile, riprova più tardi."})
			return
		}

		sub, err := repo.Upsert(input.ChatID, NormalizeLanguage(input.Language), price)
		if err != nil {
			log.Printf("[Subscriptions] Errore nella creazione dell'iscrizione: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Errore nella creazione dell'iscrizione"})
			return
		}

		c.JSON(http.StatusCreated, sub)
	}
}

// DeleteSubscription disattiva l'iscrizione di una chat (soft delete, idempotente)
func DeleteSubscription(repo *repository.SubscriptionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		chatID, err := strconv.ParseInt(c.Param("chat_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "chat_id non valido"})
			return
		}

		if err := repo.Deactivate(chatID); err != nil {
			log.Printf("[Subscriptions] Errore nella disattivazione: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Errore nella disattivazione dell'iscrizione"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Iscrizione disattivata"})
	}
}

// GetSubscriptions restituisce tutte le iscrizioni, comprese quelle disattivate
func GetSubscriptions(repo *repository.SubscriptionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		subs, err := repo.List()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Errore nel recupero delle iscrizioni"})
			return
		}

		if len(subs) == 0 {
			c.JSON(http.StatusOK, gin.H{"message": "Nessuna iscrizione trovata"})
			return
		}

		c.JSON(http.StatusOK, subs)
	}
}

// GetActiveSubscriptions restituisce solo le iscrizioni attive
func GetActiveSubscriptions(repo *repository.SubscriptionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		subs, err := repo.ListActive()
		if err != nil {
			log.Printf("[Subscriptions] Errore nel recupero delle iscrizioni attive: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Errore nel recupero delle iscrizioni attive"})
			return
		}

		if len(subs) == 0 {
			c.JSON(http.StatusOK, gin.H{"message": "Nessuna iscrizione attiva trovata"})
			return
		}

		c.JSON(http.StatusOK, subs)
	}
}
