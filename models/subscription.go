package models

import (
	"time"
)

// Subscription rappresenta l'iscrizione di un utente agli avvisi di variazione del prezzo TON
type Subscription struct {
	ID        uint      `gorm:"primaryKey"`
	ChatID    int64     `gorm:"column:chat_id;uniqueIndex;not null"`   // ID della chat Telegram dell'utente
	Language  string    `gorm:"type:varchar(5);not null;default:'en'"` // Lingua delle notifiche ("en", "ru", "uk")
	BasePrice float64   `gorm:"type:decimal(20,8);not null"`           // Prezzo di riferimento per il calcolo della deviazione
	Active    bool      `gorm:"default:true;not null"`                 // false = iscrizione disattivata (soft delete)
	CreatedAt time.Time `gorm:"type:timestamp;not null"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null"`
}

// PriceSample è una lettura di prezzo transitoria prodotta dal client di mercato.
// Non viene mai persistita: il monitor la consuma subito.
type PriceSample struct {
	Timestamp time.Time
	Price     float64
}
