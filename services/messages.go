package services

import "fmt"

// Testi delle notifiche di deviazione per lingua. La lingua è un dato della
// iscrizione e non influenza mai il calcolo della soglia.
var alertTemplates = map[string]struct {
	up   string
	down string
}{
	"en": {
		up:   "📈 TON is up %.1f%%!\nWas: $%.3f\nNow: $%.3f",
		down: "📉 TON is down %.1f%%!\nWas: $%.3f\nNow: $%.3f",
	},
	"ru": {
		up:   "📈 Курс TON вырос на %.1f%%!\nБыло: $%.3f\nСтало: $%.3f",
		down: "📉 Курс TON упал на %.1f%%!\nБыло: $%.3f\nСтало: $%.3f",
	},
	"uk": {
		up:   "📈 Курс TON зріс на %.1f%%!\nБуло: $%.3f\nСтало: $%.3f",
		down: "📉 Курс TON впав на %.1f%%!\nБуло: $%.3f\nСтало: $%.3f",
	},
}

// FormatDeviationAlert costruisce il testo della notifica nella lingua
// dell'utente, con direzione, prezzo di partenza, prezzo corrente e deviazione
func FormatDeviationAlert(language string, basePrice, currentPrice, deviation float64) string {
	t, ok := alertTemplates[language]
	if !ok {
		t = alertTemplates["en"]
	}

	tpl := t.up
	if currentPrice < basePrice {
		tpl = t.down
	}

	return fmt.Sprintf(tpl, deviation*100, basePrice, currentPrice)
}
