package services

import (
	"log"
	"math"
	"time"

	"github.com/cardanobuybot/tonmetric-bot/models"
)

// DeviationThreshold è la variazione relativa (10%, soglia inclusiva) oltre la
// quale scatta la notifica
const DeviationThreshold = 0.10

// PriceSource fornisce il prezzo spot corrente. In caso di errore il ciclo di
// controllo viene saltato per intero: mai prezzo a zero o "invariato".
type PriceSource interface {
	CurrentPrice() (float64, error)
}

// SubscriptionStore è il contratto di persistenza consumato dal monitor
type SubscriptionStore interface {
	ListActive() ([]models.Subscription, error)
	Rebase(chatID int64, newBasePrice float64) error
}

// Notifier consegna un messaggio di testo a una chat
type Notifier interface {
	Send(chatID int64, text string) error
}

// PriceMonitor confronta a intervalli fissi il prezzo TON corrente con la base
// di ogni iscrizione attiva; oltre soglia notifica l'utente e ribasa la base
type PriceMonitor struct {
	store    SubscriptionStore
	source   PriceSource
	notifier Notifier
	interval time.Duration
	stopChan chan struct{}
	doneChan chan struct{}
}

// NewPriceMonitor crea una nuova istanza del monitor
func NewPriceMonitor(store SubscriptionStore, source PriceSource, interval time.Duration) *PriceMonitor {
	if interval < time.Second {
		interval = 5 * time.Minute // Valore di default
	}

	return &PriceMonitor{
		store:    store,
		source:   source,
		interval: interval,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

// SetNotifier imposta il canale di consegna delle notifiche (il bot Telegram).
// Senza notificatore il monitor gira comunque: logga e ribasa.
func (pm *PriceMonitor) SetNotifier(n Notifier) {
	pm.notifier = n
}

// Start avvia il monitoraggio in background
func (pm *PriceMonitor) Start() {
	log.Printf("[PriceMonitor] Avvio del monitoraggio (intervallo: %v)", pm.interval)

	go func() {
		defer close(pm.doneChan)

		// Esegui subito il primo controllo
		pm.checkSubscriptions()

		ticker := time.NewTicker(pm.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				pm.checkSubscriptions()
			case <-pm.stopChan:
				log.Println("[PriceMonitor] Monitoraggio terminato")
				return
			}
		}
	}()
}

// Stop interrompe il monitoraggio e attende la fine del ciclo in corso, così
// a una notifica inviata segue sempre il suo rebase persistito
func (pm *PriceMonitor) Stop() {
	log.Println("[PriceMonitor] Arresto del monitoraggio...")
	close(pm.stopChan)
	<-pm.doneChan
}

// checkSubscriptions esegue un ciclo di controllo su tutte le iscrizioni attive
func (pm *PriceMonitor) checkSubscriptions() {
	// Un solo prezzo per ciclo, condiviso da tutte le iscrizioni
	currentPrice, err := pm.source.CurrentPrice()
	if err != nil {
		log.Printf("[PriceMonitor] Prezzo non disponibile, ciclo saltato: %v", err)
		return
	}

	subs, err := pm.store.ListActive()
	if err != nil {
		log.Printf("[PriceMonitor] Errore nel recupero delle iscrizioni: %v", err)
		return
	}

	log.Printf("[PriceMonitor] Trovate %d iscrizioni attive, prezzo corrente: $%.3f", len(subs), currentPrice)
	if len(subs) == 0 {
		return
	}

	// Controlla ogni iscrizione in sequenza
	// Non c'è vero bisogno di parallelizzare questa operazione
	// a meno che non si abbiano migliaia di iscrizioni da controllare
	for i := range subs {
		pm.processSubscription(&subs[i], currentPrice)
	}
}

// processSubscription valuta la deviazione di una singola iscrizione e, oltre
// soglia, notifica e ribasa. Nessun errore qui deve propagarsi alle altre.
func (pm *PriceMonitor) processSubscription(sub *models.Subscription, currentPrice float64) {
	// Base non positiva = dato corrotto a monte, non una deviazione: si salta
	// senza toccare la riga e senza disattivarla
	if sub.BasePrice <= 0 {
		log.Printf("[PriceMonitor] Base non valida (%.8f) per chat %d, iscrizione saltata", sub.BasePrice, sub.ChatID)
		return
	}

	deviation := math.Abs(currentPrice-sub.BasePrice) / sub.BasePrice
	if deviation < DeviationThreshold {
		return
	}

	log.Printf("[PriceMonitor] SOGLIA SUPERATA! Chat: %d, Base: $%.3f, Prezzo: $%.3f, Deviazione: %.1f%%",
		sub.ChatID, sub.BasePrice, currentPrice, deviation*100)

	text := FormatDeviationAlert(sub.Language, sub.BasePrice, currentPrice, deviation)

	if pm.notifier == nil {
		log.Printf("[PriceMonitor] ⚠️ Nessun notificatore configurato, notifica per chat %d non inviata", sub.ChatID)
	} else if err := pm.notifier.Send(sub.ChatID, text); err != nil {
		// Consegna fallita: si logga e si passa oltre, nessun retry nel ciclo corrente
		log.Printf("[PriceMonitor] Errore nell'invio della notifica a chat %d: %v", sub.ChatID, err)
	}

	// Il rebase avviene comunque, anche a consegna fallita: al ritorno del
	// canale non deve ripartire una tempesta di notifiche sullo stesso livello
	if err := pm.store.Rebase(sub.ChatID, currentPrice); err != nil {
		log.Printf("[PriceMonitor] Errore nel rebase per chat %d: %v", sub.ChatID, err)
	}
}
