package controllers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
)

var quickChartClient = resty.New().
	SetBaseURL("https://quickchart.io").
	SetTimeout(15 * time.Second)

// buildChartConfig costruisce la configurazione Chart.js da passare a QuickChart
func buildChartConfig(closes []float64) (string, error) {
	labels := make([]int, len(closes))
	for i := range labels {
		labels[i] = i + 1
	}

	config := map[string]interface{}{
		"type": "line",
		"data": map[string]interface{}{
			"labels": labels,
			"datasets": []map[string]interface{}{{
				"label":       "TON/USD",
				"data":        closes,
				"fill":        false,
				"borderColor": "#3366CC",
				"borderWidth": 2,
			}},
		},
		"options": map[string]interface{}{
			"elements": map[string]interface{}{
				"point": map[string]interface{}{"radius": 0},
			},
			"layout": map[string]interface{}{"padding": 5},
			"scales": map[string]interface{}{
				"x": map[string]interface{}{"display": false},
				"y": map[string]interface{}{
					"ticks": map[string]interface{}{"callback": "(value) => '$' + value.toFixed(3)"},
				},
			},
		},
	}

	raw, err := json.Marshal(config)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// FetchTonChartImage restituisce il PNG del grafico TON/USD delle ultime 24 ore
func FetchTonChartImage() ([]byte, error) {
	closes, err := GetTonHourlyCloses(24)
	if err != nil {
		return nil, err
	}

	cfg, err := buildChartConfig(closes)
	if err != nil {
		return nil, fmt.Errorf("errore nella costruzione della configurazione del grafico: %w", err)
	}

	resp, err := quickChartClient.R().
		SetQueryParam("c", cfg).
		Get("/chart")
	if err != nil {
		return nil, fmt.Errorf("errore nella richiesta a QuickChart: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("risposta non valida da QuickChart: %s", resp.Status())
	}

	return resp.Body(), nil
}

// GetTonChartHandler restituisce un handler Gin con il grafico PNG
func GetTonChartHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		image, err := FetchTonChartImage()
		if err != nil {
			log.Printf("[QuickChart] ERRORE nella generazione del grafico: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Impossibile generare il grafico al momento."})
			return
		}

		c.Data(http.StatusOK, "image/png", image)
	}
}
