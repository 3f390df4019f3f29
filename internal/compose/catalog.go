package compose

import (
	"errors"
	"fmt"
	"strings"

	"devhubtrader.app/forge/internal/model"
)

var (
	ErrUnknownTimeframe = errors.New("unknown timeframe")
	ErrUnknownAsset     = errors.New("unknown asset")
	ErrUnknownRiskLevel = errors.New("unknown risk level")
)

// Timeframe is a chart period the guided form offers.
type Timeframe struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var Timeframes = []Timeframe{
	{ID: "M1", Name: "1 minuto"},
	{ID: "M5", Name: "5 minutos"},
	{ID: "M15", Name: "15 minutos"},
	{ID: "M30", Name: "30 minutos"},
	{ID: "H1", Name: "1 hora"},
	{ID: "H4", Name: "4 horas"},
	{ID: "D1", Name: "1 dia"},
	{ID: "W1", Name: "1 semana"},
}

var Assets = []string{
	"WINFUT", "WDOFUT", "PETR4", "VALE3", "ITUB4", "BBDC4", "ABEV3", "MGLU3", "BOVA11",
}

var Strategies = []string{
	"Tendência", "Reversão à Média", "Rompimento", "Scalping",
	"HFT", "Correlação", "Volatilidade", "Média Móvel",
}

var RiskLevels = []string{"Conservador", "Moderado", "Agressivo"}

// TimeframeName returns the display name for id, or id itself when the
// catalogue does not know it.
func TimeframeName(id string) string {
	for _, tf := range Timeframes {
		if tf.ID == id {
			return tf.Name
		}
	}
	return id
}

func IsKnownTimeframe(id string) bool {
	for _, tf := range Timeframes {
		if tf.ID == id {
			return true
		}
	}
	return false
}

func IsKnownAsset(symbol string) bool {
	for _, a := range Assets {
		if a == symbol {
			return true
		}
	}
	return false
}

func IsKnownRiskLevel(level string) bool {
	for _, l := range RiskLevels {
		if strings.EqualFold(l, level) {
			return true
		}
	}
	return false
}

// ValidateGuided checks the closed fields of the guided form against the
// catalogue. Strategy and details stay free text.
func ValidateGuided(g *model.GuidedFields) error {
	if g == nil {
		return nil
	}
	for _, tf := range g.Timeframes {
		if !IsKnownTimeframe(tf) {
			return fmt.Errorf("%w: %q", ErrUnknownTimeframe, tf)
		}
	}
	for _, a := range g.Assets {
		if !IsKnownAsset(a) {
			return fmt.Errorf("%w: %q", ErrUnknownAsset, a)
		}
	}
	if g.RiskLevel != "" && !IsKnownRiskLevel(g.RiskLevel) {
		return fmt.Errorf("%w: %q", ErrUnknownRiskLevel, g.RiskLevel)
	}
	return nil
}
