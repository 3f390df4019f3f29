package compose

import (
	"strings"

	"devhubtrader.app/forge/internal/model"
)

var (
	createKeywords = []string{
		"create a robot", "criar um robô", "fazer um robô", "build a robot",
		"create a new version", "criar uma nova versão",
	}
	optimizeKeywords = []string{"optimize", "otimizar", "improve", "melhorar"}
	fixKeywords      = []string{"fix", "corrigir", "consertar", "arrumar", "não funciona", "not working"}
)

// InferOperation guesses the operation from a free-text request. Create
// keywords win over optimize, optimize over fix. Without a match the
// request is a create.
func InferOperation(text string) model.Operation {
	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, createKeywords):
		return model.OperationCreate
	case containsAny(lower, optimizeKeywords):
		return model.OperationOptimize
	case containsAny(lower, fixKeywords):
		return model.OperationFix
	}
	return model.OperationCreate
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
