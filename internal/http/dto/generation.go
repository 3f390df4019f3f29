package dto

import (
	"strings"
	"time"

	"devhubtrader.app/forge/internal/generation"
	"devhubtrader.app/forge/internal/model"
)

type GuidedFieldsRequest struct {
	Strategy          string   `json:"strategy" binding:"max=100"`
	Timeframes        []string `json:"timeframes" binding:"max=8"`
	Assets            []string `json:"assets" binding:"max=20"`
	RiskLevel         string   `json:"risk_level" binding:"max=50"`
	AdditionalDetails string   `json:"additional_details" binding:"max=2000"`
}

func (g *GuidedFieldsRequest) ToModel() *model.GuidedFields {
	if g == nil {
		return nil
	}
	return &model.GuidedFields{
		Strategy:          strings.TrimSpace(g.Strategy),
		Timeframes:        upperAll(g.Timeframes),
		Assets:            upperAll(g.Assets),
		RiskLevel:         strings.TrimSpace(g.RiskLevel),
		AdditionalDetails: strings.TrimSpace(g.AdditionalDetails),
	}
}

type GenerateRequest struct {
	// Operation is inferred from Message when empty.
	Operation          string               `json:"operation" binding:"omitempty,oneof=create optimize fix"`
	Message            string               `json:"message" binding:"max=8000"`
	Guided             *GuidedFieldsRequest `json:"guided"`
	SourceVersionID    string               `json:"source_version_id"`
	ProblemDescription string               `json:"problem_description" binding:"max=4000"`
}

type GenerationResponse struct {
	State       string           `json:"state"`
	ProseOnly   bool             `json:"prose_only"`
	Saved       bool             `json:"saved"`
	Degraded    bool             `json:"degraded_name,omitempty"`
	Version     *VersionResponse `json:"version,omitempty"`
	Prose       string           `json:"prose"`
	Code        *string          `json:"code,omitempty"`
	Description *string          `json:"description,omitempty"`
	Tags        []string         `json:"tags"`
	Charged     int64            `json:"charged"`
	Balance     *int64           `json:"balance,omitempty"`
	DurationMS  int64            `json:"duration_ms"`
}

func ToGenerationResponse(o *generation.Outcome) *GenerationResponse {
	if o == nil {
		return nil
	}
	tags := o.Tags
	if tags == nil {
		tags = []string{}
	}
	resp := &GenerationResponse{
		State:       string(o.State),
		ProseOnly:   o.ProseOnly,
		Saved:       o.Saved,
		Degraded:    o.Degraded,
		Prose:       o.Prose,
		Code:        o.Code,
		Description: o.Description,
		Tags:        tags,
		Charged:     o.Charged,
		Balance:     o.Balance,
		DurationMS:  o.Duration.Milliseconds(),
	}
	if o.Version != nil {
		resp.Version = ToVersionResponse(o.Version)
	}
	return resp
}

// GenerationErrorResponse is returned for a failed generation. Outcome is
// set when the assistant produced code that could not be fully committed.
type GenerationErrorResponse struct {
	Error   string              `json:"error"`
	Kind    string              `json:"kind"`
	Action  string              `json:"action,omitempty"`
	Outcome *GenerationResponse `json:"outcome,omitempty"`
}

type GenerationRunResponse struct {
	ID           int64      `json:"id,string"`
	RobotID      int64      `json:"robot_id,string"`
	Operation    string     `json:"operation"`
	Status       string     `json:"status"`
	State        string     `json:"state"`
	Attempt      int32      `json:"attempt"`
	ErrorKind    *string    `json:"error_kind,omitempty"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	VersionID    *string    `json:"version_id,omitempty"`
	VersionName  *string    `json:"version_name,omitempty"`
	Prose        *string    `json:"prose,omitempty"`
	Code         *string    `json:"code,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

func ToGenerationRunResponse(r *model.GenerationRun) *GenerationRunResponse {
	return &GenerationRunResponse{
		ID:           r.ID,
		RobotID:      r.RobotID,
		Operation:    string(r.Operation),
		Status:       string(r.Status),
		State:        string(r.State),
		Attempt:      r.Attempt,
		ErrorKind:    r.ErrorKind,
		ErrorMessage: r.ErrorMessage,
		VersionID:    idString(r.VersionID),
		VersionName:  r.VersionName,
		Prose:        r.Prose,
		Code:         r.Code,
		CreatedAt:    r.CreatedAt,
		FinishedAt:   r.FinishedAt,
	}
}

func upperAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.ToUpper(strings.TrimSpace(item)); item != "" {
			out = append(out, item)
		}
	}
	return out
}
