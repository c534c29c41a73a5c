package repository

import (
	"errors"
	"log"
	"time"

	"github.com/cardanobuybot/tonmetric-bot/models"
	"gorm.io/gorm"
)

// SubscriptionRepository incapsula l'accesso alla tabella subscriptions.
// È l'unica fonte di verità sullo stato degli iscritti: nessuna mappa in memoria.
type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Upsert crea o riattiva l'iscrizione di una chat. Idempotente: una seconda
// chiamata con la stessa chat aggiorna la riga esistente invece di duplicarla.
func (r *SubscriptionRepository) Upsert(chatID int64, language string, basePrice float64) (*models.Subscription, error) {
	now := time.Now().UTC()

	var sub models.Subscription
	err := r.db.Where("chat_id = ?", chatID).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		sub = models.Subscription{
			ChatID:    chatID,
			Language:  language,
			BasePrice: basePrice,
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := r.db.Create(&sub).Error; err != nil {
			return nil, err
		}
		return &sub, nil
	}
	if err != nil {
		return nil, err
	}

	// Riattiva e ribasa la riga esistente
	sub.Language = language
	sub.BasePrice = basePrice
	sub.Active = true
	sub.UpdatedAt = now
	if err := r.db.Save(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// Deactivate disattiva l'iscrizione di una chat (soft delete). Chat sconosciuta
// o già disattivata: nessun errore, è un no-op.
func (r *SubscriptionRepository) Deactivate(chatID int64) error {
	res := r.db.Model(&models.Subscription{}).
		Where("chat_id = ? AND active = ?", chatID, true).
		Updates(map[string]interface{}{
			"active":     false,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		log.Printf("[Repository] Nessuna iscrizione attiva da disattivare per chat %d", chatID)
	}
	return nil
}

// ListActive restituisce tutte le iscrizioni attive, in ordine qualsiasi
func (r *SubscriptionRepository) ListActive() ([]models.Subscription, error) {
	var subs []models.Subscription
	if err := r.db.Where("active = ?", true).Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// List restituisce tutte le iscrizioni, comprese quelle disattivate
func (r *SubscriptionRepository) List() ([]models.Subscription, error) {
	var subs []models.Subscription
	if err := r.db.Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// Get restituisce l'iscrizione di una chat, se esiste
func (r *SubscriptionRepository) Get(chatID int64) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.Where("chat_id = ?", chatID).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// SetLanguage aggiorna la lingua delle notifiche di una chat già iscritta.
// Chat sconosciuta: no-op.
func (r *SubscriptionRepository) SetLanguage(chatID int64, language string) error {
	return r.db.Model(&models.Subscription{}).
		Where("chat_id = ?", chatID).
		Updates(map[string]interface{}{
			"language":   language,
			"updated_at": time.Now().UTC(),
		}).Error
}

// Rebase aggiorna il prezzo di riferimento di una iscrizione senza toccarne lo
// stato attivo/disattivo
func (r *SubscriptionRepository) Rebase(chatID int64, newBasePrice float64) error {
	return r.db.Model(&models.Subscription{}).
		Where("chat_id = ?", chatID).
		Updates(map[string]interface{}{
			"base_price": newBasePrice,
			"updated_at": time.Now().UTC(),
		}).Error
}
