package telegram

// Action identifica l'operazione richiesta dall'utente. Viene decisa al confine
// della UI: i gestori ragionano solo su queste costanti, mai sul testo
// localizzato dei pulsanti.
type Action int

const (
	ActionUnknown Action = iota
	ActionRate
	ActionChart
	ActionNotifications
	ActionBuy
)

// Etichette dei pulsanti della tastiera principale per ogni lingua, nell'ordine
// Curso/Grafico/Notifiche/Acquisto
var buttonLabels = map[string][4]string{
	"ru": {"Курс", "График", "Уведомления", "Купить Toncoins"},
	"en": {"Rate", "Chart", "Notifications", "Buy Toncoins"},
	"uk": {"Курс", "Графік", "Сповіщення", "Купити Toncoins"},
}

// resolveAction traduce il testo di un pulsante nell'azione corrispondente,
// cercando in tutte le lingue: il risultato non dipende dalla lingua corrente
// dell'utente
func resolveAction(text string) Action {
	for _, labels := range buttonLabels {
		switch text {
		case labels[0]:
			return ActionRate
		case labels[1]:
			return ActionChart
		case labels[2]:
			return ActionNotifications
		case labels[3]:
			return ActionBuy
		}
	}
	return ActionUnknown
}

// Messaggi localizzati del bot
var texts = map[string]map[string]string{
	"en": {
		"help": "Commands:\n/start - choose language\n/price - current TON rate\n/chart - 24h TON chart\nUse the keyboard buttons for notifications and more.",
		"language_set":      "Language set: English ✓\nLoading TON rate and chart...",
		"updated":           "Updated",
		"price_unavailable": "TON price not available",
		"chart_failed":      "Failed to load chart, please try again later.",
		"notifications_on":  "Notifications are now enabled. You will get a message when TON moves 10% or more.",
		"notifications_off": "Notifications are now disabled.",
		"subscribe_failed":  "TON price not available right now, please try again later.",
		"buy": "You can buy Toncoin right now on: Crypto Bot, ByBit, OKX, EXMO, Gate.io, MEXC, KuCoin.\n" +
			"Learn more about TON at @givemetonru",
	},
	"ru": {
		"help": "Команды:\n/start - выбор языка\n/price - текущий курс TON\n/chart - график TON за 24 часа\nКнопки клавиатуры - уведомления и другое.",
		"language_set":      "Язык установлен: Русский ✓\nЗагружаю курс и график TON...",
		"updated":           "Обновлено",
		"price_unavailable": "Курс TON недоступен",
		"chart_failed":      "Не удалось построить график, попробуй позже.",
		"notifications_on":  "Уведомления включены. Вы получите сообщение, когда TON изменится на 10% и больше.",
		"notifications_off": "Уведомления отключены.",
		"subscribe_failed":  "Курс TON сейчас недоступен, попробуйте позже.",
		"buy": "Купить Toncoin прямо сейчас вы можете в: Crypto Bot, ByBit, OKX, EXMO, Gate.io, MEXC, KuCoin.\n" +
			"Больше о TON в @givemetonru",
	},
	"uk": {
		"help": "Команди:\n/start - вибір мови\n/price - поточний курс TON\n/chart - графік TON за 24 години\nКнопки клавіатури - сповіщення та інше.",
		"language_set":      "Мову встановлено: Українська ✓\nЗавантажую курс і графік TON...",
		"updated":           "Оновлено",
		"price_unavailable": "Курс TON недоступний",
		"chart_failed":      "Не вдалося побудувати графік, спробуйте пізніше.",
		"notifications_on":  "Сповіщення увімкнено. Ви отримаєте повідомлення, коли TON зміниться на 10% і більше.",
		"notifications_off": "Сповіщення вимкнено.",
		"subscribe_failed":  "Курс TON зараз недоступний, спробуйте пізніше.",
		"buy": "Придбати Toncoin прямо зараз ви можете на: Crypto Bot, ByBit, OKX, EXMO, Gate.io, MEXC, KuCoin.\n" +
			"Більше про TON в @givemetonru",
	},
}

// textFor restituisce il messaggio nella lingua richiesta, con fallback inglese
func textFor(lang, key string) string {
	if m, ok := texts[lang]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	return texts["en"][key]
}
