package dto

import "devhubtrader.app/forge/internal/compose"

// CatalogResponse lists the options of the guided generation form.
type CatalogResponse struct {
	Timeframes []compose.Timeframe `json:"timeframes"`
	Assets     []string            `json:"assets"`
	Strategies []string            `json:"strategies"`
	RiskLevels []string            `json:"risk_levels"`
}

func ToCatalogResponse() *CatalogResponse {
	return &CatalogResponse{
		Timeframes: compose.Timeframes,
		Assets:     compose.Assets,
		Strategies: compose.Strategies,
		RiskLevels: compose.RiskLevels,
	}
}
