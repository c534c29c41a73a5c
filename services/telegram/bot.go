package telegram

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/cardanobuybot/tonmetric-bot/controllers"
	"github.com/cardanobuybot/tonmetric-bot/repository"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramBot gestisce l'interazione con il bot Telegram
type TelegramBot struct {
	bot  *tgbotapi.BotAPI
	repo *repository.SubscriptionRepository

	// Cache di sessione della lingua scelta con /start. Il dato autorevole per
	// le notifiche resta la riga di iscrizione nel database: questa mappa serve
	// solo agli utenti non ancora iscritti e viene riallineata a ogni mutazione.
	langLock sync.RWMutex
	langs    map[int64]string
}

// NewTelegramBot crea una nuova istanza del bot Telegram
func NewTelegramBot(token string, repo *repository.SubscriptionRepository) (*TelegramBot, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("errore nell'inizializzazione del bot: %w", err)
	}

	log.Printf("Bot autorizzato con account %s", bot.Self.UserName)

	return &TelegramBot{
		bot:   bot,
		repo:  repo,
		langs: make(map[int64]string),
	}, nil
}

// Start avvia il bot e inizia ad ascoltare messaggi e callback
func (t *TelegramBot) Start() {
	log.Println("[Telegram] Avvio del bot in corso...")
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := t.bot.GetUpdatesChan(u)

	go func() {
		log.Println("[Telegram] Goroutine di ascolto messaggi avviata")

		for update := range updates {
			if update.CallbackQuery != nil {
				go t.handleLanguageSelect(update.CallbackQuery)
				continue
			}

			if update.Message == nil {
				continue
			}

			go t.handleMessage(update.Message)
		}

		log.Println("[Telegram] Loop di aggiornamenti interrotto! Il bot non riceverà più messaggi!")
	}()

	log.Println("[Telegram] Bot avviato correttamente e in ascolto di messaggi")
}

// Send consegna un messaggio di testo a una chat. È il canale di notifica del
// monitor: l'errore torna al chiamante, che decide se loggare o ignorare.
func (t *TelegramBot) Send(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("errore nell'invio del messaggio a chat %d: %w", chatID, err)
	}
	return nil
}

// sendMessage invia un messaggio e logga l'eventuale errore
func (t *TelegramBot) sendMessage(chatID int64, text string) {
	if err := t.Send(chatID, text); err != nil {
		log.Printf("[Telegram] %v", err)
	}
}

// setSessionLanguage memorizza la lingua di sessione di una chat
func (t *TelegramBot) setSessionLanguage(chatID int64, lang string) {
	t.langLock.Lock()
	defer t.langLock.Unlock()
	t.langs[chatID] = lang
}

// userLanguage restituisce la lingua di una chat: prima la sessione, poi la
// riga di iscrizione, infine l'inglese
func (t *TelegramBot) userLanguage(chatID int64) string {
	t.langLock.RLock()
	lang, ok := t.langs[chatID]
	t.langLock.RUnlock()
	if ok {
		return lang
	}

	if sub, err := t.repo.Get(chatID); err == nil {
		return controllers.NormalizeLanguage(sub.Language)
	}

	return "en"
}

// mainKeyboard costruisce la tastiera principale nella lingua dell'utente
func mainKeyboard(lang string) tgbotapi.ReplyKeyboardMarkup {
	labels, ok := buttonLabels[lang]
	if !ok {
		labels = buttonLabels["en"]
	}

	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(labels[0]),
			tgbotapi.NewKeyboardButton(labels[1]),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(labels[2]),
			tgbotapi.NewKeyboardButton(labels[3]),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

// handleMessage gestisce i messaggi in arrivo
func (t *TelegramBot) handleMessage(message *tgbotapi.Message) {
	log.Printf("[Telegram] Messaggio da %d: %s", message.Chat.ID, message.Text)

	if message.IsCommand() {
		switch message.Command() {
		case "start":
			t.handleStart(message)
		case "price":
			t.handleRate(message.Chat.ID)
		case "chart":
			t.handleChart(message.Chat.ID)
		case "help":
			t.sendMessage(message.Chat.ID, textFor(t.userLanguage(message.Chat.ID), "help"))
		default:
			t.sendMessage(message.Chat.ID, textFor(t.userLanguage(message.Chat.ID), "help"))
		}
		return
	}

	// Pulsanti della tastiera principale: il testo viene tradotto in un'azione
	// prima di qualsiasi altra cosa
	switch resolveAction(message.Text) {
	case ActionRate:
		t.handleRate(message.Chat.ID)
	case ActionChart:
		t.handleChart(message.Chat.ID)
	case ActionNotifications:
		t.handleNotifications(message)
	case ActionBuy:
		t.sendMessage(message.Chat.ID, textFor(t.userLanguage(message.Chat.ID), "buy"))
	default:
		t.sendMessage(message.Chat.ID, textFor(t.userLanguage(message.Chat.ID), "help"))
	}
}

// handleStart propone la scelta della lingua con una tastiera inline
func (t *TelegramBot) handleStart(message *tgbotapi.Message) {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("English", "en"),
			tgbotapi.NewInlineKeyboardButtonData("Русский", "ru"),
			tgbotapi.NewInlineKeyboardButtonData("Українська", "uk"),
		),
	)

	msg := tgbotapi.NewMessage(message.Chat.ID, "Select language / Выберите язык / Оберіть мову:")
	msg.ReplyMarkup = keyboard
	if _, err := t.bot.Send(msg); err != nil {
		log.Printf("[Telegram] Errore nell'invio della scelta lingua: %v", err)
	}
}

// handleLanguageSelect gestisce il callback della scelta lingua: conferma,
// mostra la tastiera principale con il prezzo corrente e invia il grafico
func (t *TelegramBot) handleLanguageSelect(query *tgbotapi.CallbackQuery) {
	lang := controllers.NormalizeLanguage(query.Data)
	chatID := query.Message.Chat.ID

	t.setSessionLanguage(chatID, lang)

	// Se l'utente è già iscritto, la lingua va aggiornata anche nella riga di
	// iscrizione: le notifiche seguono il database, non la sessione
	if _, err := t.repo.Get(chatID); err == nil {
		if err := t.repo.SetLanguage(chatID, lang); err != nil {
			log.Printf("[Telegram] Errore nell'aggiornamento della lingua per chat %d: %v", chatID, err)
		}
	}

	if _, err := t.bot.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		log.Printf("[Telegram] Errore nella risposta al callback: %v", err)
	}

	edit := tgbotapi.NewEditMessageText(chatID, query.Message.MessageID, textFor(lang, "language_set"))
	if _, err := t.bot.Send(edit); err != nil {
		log.Printf("[Telegram] Errore nella modifica del messaggio: %v", err)
	}

	// Prezzo corrente con la tastiera principale
	msg := tgbotapi.NewMessage(chatID, t.priceText(lang))
	msg.ReplyMarkup = mainKeyboard(lang)
	if _, err := t.bot.Send(msg); err != nil {
		log.Printf("[Telegram] Errore nell'invio del prezzo: %v", err)
	}

	t.handleChart(chatID)
}

// priceText formatta il prezzo corrente di TON nella lingua dell'utente
func (t *TelegramBot) priceText(lang string) string {
	price, err := controllers.GetTonPriceUSD()
	if err != nil {
		log.Printf("[Telegram] Prezzo non disponibile: %v", err)
		return textFor(lang, "price_unavailable")
	}

	timestamp := time.Now().Format("15:04 02.01.2006")
	return fmt.Sprintf("1 TON = %.3f $ (Binance)\n%s: %s", price, textFor(lang, "updated"), timestamp)
}

// handleRate invia il prezzo corrente di TON
func (t *TelegramBot) handleRate(chatID int64) {
	t.sendMessage(chatID, t.priceText(t.userLanguage(chatID)))
}

// handleChart invia il grafico delle ultime 24 ore
func (t *TelegramBot) handleChart(chatID int64) {
	image, err := controllers.FetchTonChartImage()
	if err != nil {
		log.Printf("[Telegram] Errore nella generazione del grafico: %v", err)
		t.sendMessage(chatID, textFor(t.userLanguage(chatID), "chart_failed"))
		return
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "chart.png", Bytes: image})
	if _, err := t.bot.Send(photo); err != nil {
		log.Printf("[Telegram] Errore nell'invio del grafico: %v", err)
	}
}

// handleNotifications attiva o disattiva gli avvisi di deviazione per la chat.
// Lo stato vive solo nella tabella subscriptions.
func (t *TelegramBot) handleNotifications(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	lang := t.userLanguage(chatID)

	sub, err := t.repo.Get(chatID)
	if err == nil && sub.Active {
		if err := t.repo.Deactivate(chatID); err != nil {
			log.Printf("[Telegram] Errore nella disattivazione per chat %d: %v", chatID, err)
			return
		}
		t.sendMessage(chatID, textFor(lang, "notifications_off"))
		return
	}

	// Opt-in: il prezzo corrente diventa la base; senza prezzo niente iscrizione
	price, err := controllers.GetTonPriceUSD()
	if err != nil {
		log.Printf("[Telegram] Prezzo non disponibile, iscrizione rifiutata per chat %d: %v", chatID, err)
		t.sendMessage(chatID, textFor(lang, "subscribe_failed"))
		return
	}

	if _, err := t.repo.Upsert(chatID, lang, price); err != nil {
		log.Printf("[Telegram] Errore nell'iscrizione per chat %d: %v", chatID, err)
		return
	}

	t.sendMessage(chatID, textFor(lang, "notifications_on"))
}
