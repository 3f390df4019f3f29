// Package compose builds the message sent to the assistant for a create,
// optimize or fix request.
package compose

import (
	"encoding/json"
	"fmt"
	"strings"

	"devhubtrader.app/forge/common/llm"
	"devhubtrader.app/forge/internal/extract"
	"devhubtrader.app/forge/internal/model"
)

// MinRequestLength is the shortest free-text request worth sending as is.
// Anything shorter should go through the guided form.
const MinRequestLength = 15

// SourceVersion is the version an optimize or fix request starts from.
type SourceVersion struct {
	Code        string
	Description *string
	Tags        []string
}

type Request struct {
	Operation          model.Operation
	UserText           string
	Guided             *model.GuidedFields
	Current            *SourceVersion
	ProblemDescription string
}

const (
	optimizeInstruction = "Please analyze this code and provide an optimized version based on my request. " +
		"Also provide a description of the changes and suggest appropriate tags for the new version."
	fixInstruction = "Please fix any errors in this code and provide a corrected version that will work properly. " +
		"Also provide a description of what was fixed and suggest appropriate tags for the new version."
	defaultProblem = "The code is not working as expected."
)

var metadataInstruction = buildMetadataInstruction()

func buildMetadataInstruction() string {
	schema, err := json.Marshal(llm.GenerateSchema[extract.Metadata]())
	if err != nil {
		panic(fmt.Sprintf("compose: marshal metadata schema: %v", err))
	}
	return "End your reply with a fenced ```json block containing only an object that matches this JSON schema:\n" +
		string(schema)
}

// Compose renders req as the single user message of a conversation.
// It never fails; missing pieces are left out.
func Compose(req Request) string {
	text := strings.TrimSpace(req.UserText)
	if !req.Guided.IsEmpty() {
		text = guidedText(req.Operation, req.Guided)
	}

	if req.Operation == model.OperationCreate || req.Current == nil || strings.TrimSpace(req.Current.Code) == "" {
		if req.Operation == model.OperationFix && req.ProblemDescription != "" {
			return joinParagraphs(text, "Problem description: "+req.ProblemDescription)
		}
		return text
	}

	var sb strings.Builder
	if text != "" {
		sb.WriteString(text)
		sb.WriteString("\n\n")
	}

	switch req.Operation {
	case model.OperationFix:
		sb.WriteString("Here is the code that needs to be fixed:\n\n")
	default:
		sb.WriteString("Here is the current code to optimize:\n\n")
	}
	sb.WriteString("```ntsl\n")
	sb.WriteString(req.Current.Code)
	sb.WriteString("\n```\n\n")

	if d := req.Current.Description; d != nil && strings.TrimSpace(*d) != "" {
		sb.WriteString(fmt.Sprintf("Current version description: %s\n\n", *d))
	}
	if len(req.Current.Tags) > 0 {
		sb.WriteString(fmt.Sprintf("Current version tags: %s\n\n", strings.Join(req.Current.Tags, ", ")))
	}

	if req.Operation == model.OperationFix {
		problem := strings.TrimSpace(req.ProblemDescription)
		if problem == "" {
			problem = defaultProblem
		}
		sb.WriteString(fmt.Sprintf("Problem description: %s\n\n", problem))
		sb.WriteString(fixInstruction)
	} else {
		sb.WriteString(optimizeInstruction)
	}

	sb.WriteString("\n\n")
	sb.WriteString(metadataInstruction)
	return sb.String()
}

// guidedText turns the guided form into a sentence. Optimize and fix share
// the optimize wording.
func guidedText(op model.Operation, g *model.GuidedFields) string {
	var clauses []string
	lead := "Criar nova versão"
	if op != model.OperationCreate {
		lead = "Otimize o código atual do robô"
		if g.Strategy != "" {
			clauses = append(clauses, "para melhorar a estratégia de "+g.Strategy)
		}
	} else if g.Strategy != "" {
		clauses = append(clauses, "utilizando a estratégia de "+g.Strategy)
	}

	if len(g.Timeframes) > 0 {
		names := make([]string, 0, len(g.Timeframes))
		for _, tf := range g.Timeframes {
			names = append(names, TimeframeName(tf))
		}
		clauses = append(clauses, "para operar em "+strings.Join(names, ", "))
	}
	if len(g.Assets) > 0 {
		clauses = append(clauses, "nos ativos "+strings.Join(g.Assets, ", "))
	}
	if g.RiskLevel != "" {
		clauses = append(clauses, "com perfil de risco "+g.RiskLevel)
	}

	out := lead
	if len(clauses) > 0 {
		out += " " + strings.Join(clauses, " ")
	}
	if d := strings.TrimSpace(g.AdditionalDetails); d != "" {
		out += ". " + d
	}
	return out
}

func joinParagraphs(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}

// NeedsGuidance reports whether a free-text request is too short to send
// without the guided form.
func NeedsGuidance(text string) bool {
	return len([]rune(strings.TrimSpace(text))) < MinRequestLength
}
