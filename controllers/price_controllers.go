package controllers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/cardanobuybot/tonmetric-bot/models"
	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
)

const tonSymbol = "TONUSDT"

// Client HTTP verso Binance, con timeout perché una dipendenza lenta non deve
// bloccare il ciclo di monitoraggio
var binanceClient = resty.New().
	SetBaseURL("https://api.binance.com").
	SetTimeout(10 * time.Second)

// tickerResponse è la risposta di /api/v3/ticker/price
type tickerResponse struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// GetTonPriceUSD restituisce il prezzo spot corrente TON/USD da Binance
func GetTonPriceUSD() (float64, error) {
	start := time.Now()

	resp, err := binanceClient.R().
		SetQueryParam("symbol", tonSymbol).
		SetResult(&tickerResponse{}).
		Get("/api/v3/ticker/price")

	log.Printf("[Binance] Tempo di risposta ticker: %v", time.Since(start))

	if err != nil {
		return 0, fmt.Errorf("errore nella richiesta a Binance: %w", err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("risposta non valida da Binance: %s", resp.Status())
	}

	ticker := resp.Result().(*tickerResponse)
	price, err := strconv.ParseFloat(ticker.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("prezzo non interpretabile da Binance (%q): %w", ticker.Price, err)
	}
	if price <= 0 {
		return 0, fmt.Errorf("prezzo non positivo da Binance: %f", price)
	}

	return price, nil
}

// GetTonHourlyCloses restituisce i prezzi di chiusura orari TON/USD delle
// ultime `limit` ore. Usato solo dal grafico, mai dal monitor.
func GetTonHourlyCloses(limit int) ([]float64, error) {
	var klines [][]interface{}

	resp, err := binanceClient.R().
		SetQueryParams(map[string]string{
			"symbol":   tonSymbol,
			"interval": "1h",
			"limit":    strconv.Itoa(limit),
		}).
		SetResult(&klines).
		Get("/api/v3/klines")
	if err != nil {
		return nil, fmt.Errorf("errore nella richiesta klines a Binance: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("risposta non valida da Binance: %s", resp.Status())
	}

	closes := make([]float64, 0, len(klines))
	for _, k := range klines {
		// Formato kline: [openTime, open, high, low, close, ...]
		if len(k) < 5 {
			continue
		}
		raw, ok := k[4].(string)
		if !ok {
			continue
		}
		c, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		closes = append(closes, c)
	}
	if len(closes) == 0 {
		return nil, fmt.Errorf("nessuna candela valida ricevuta da Binance")
	}

	return closes, nil
}

// GetTonPriceSample restituisce prezzo spot corrente e istante della lettura
func GetTonPriceSample() (models.PriceSample, error) {
	price, err := GetTonPriceUSD()
	if err != nil {
		return models.PriceSample{}, err
	}
	return models.PriceSample{Timestamp: time.Now().UTC(), Price: price}, nil
}

// BinancePriceSource adatta il client Binance al contratto PriceSource del monitor
type BinancePriceSource struct{}

func (BinancePriceSource) CurrentPrice() (float64, error) {
	return GetTonPriceUSD()
}

// GetTonPriceHandler restituisce un handler Gin per il prezzo corrente di TON
func GetTonPriceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sample, err := GetTonPriceSample()
		if err != nil {
			log.Printf("[Binance] ERRORE nel recupero del prezzo: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Impossibile ottenere il prezzo TON al momento."})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"symbol":    tonSymbol,
			"price":     sample.Price,
			"timestamp": sample.Timestamp,
		})
	}
}
