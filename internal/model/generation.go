package model

import "time"

// Operation is what the user asked the assistant to do with a robot.
type Operation string

const (
	OperationCreate   Operation = "create"
	OperationOptimize Operation = "optimize"
	OperationFix      Operation = "fix"
)

func (o Operation) Valid() bool {
	switch o {
	case OperationCreate, OperationOptimize, OperationFix:
		return true
	}
	return false
}

// GenerationState is the step a generation is in. Committed and Failed are
// terminal.
type GenerationState string

const (
	GenerationStateIdle       GenerationState = "idle"
	GenerationStateComposing  GenerationState = "composing"
	GenerationStateRunning    GenerationState = "running"
	GenerationStateExtracting GenerationState = "extracting"
	GenerationStateAllocating GenerationState = "allocating"
	GenerationStatePersisting GenerationState = "persisting"
	GenerationStateCommitted  GenerationState = "committed"
	GenerationStateFailed     GenerationState = "failed"
)

func (s GenerationState) Terminal() bool {
	return s == GenerationStateCommitted || s == GenerationStateFailed
}

// PastAssistant reports whether a generation in this state has already
// sent its request to the assistant.
func (s GenerationState) PastAssistant() bool {
	switch s {
	case GenerationStateRunning, GenerationStateExtracting, GenerationStateAllocating, GenerationStatePersisting:
		return true
	}
	return false
}

// GenerationStatus tracks an asynchronous run through the queue.
type GenerationStatus string

const (
	GenerationStatusQueued    GenerationStatus = "queued"
	GenerationStatusRunning   GenerationStatus = "running"
	GenerationStatusSucceeded GenerationStatus = "succeeded"
	GenerationStatusFailed    GenerationStatus = "failed"
)

// GuidedFields is the structured form a user can fill instead of writing a
// free-text request. At least one field must be set for it to be used.
type GuidedFields struct {
	Strategy          string   `json:"strategy,omitempty"`
	Timeframes        []string `json:"timeframes,omitempty"`
	Assets            []string `json:"assets,omitempty"`
	RiskLevel         string   `json:"risk_level,omitempty"`
	AdditionalDetails string   `json:"additional_details,omitempty"`
}

func (g *GuidedFields) IsEmpty() bool {
	if g == nil {
		return true
	}
	return g.Strategy == "" && len(g.Timeframes) == 0 && len(g.Assets) == 0 &&
		g.RiskLevel == "" && g.AdditionalDetails == ""
}

type GenerationRun struct {
	ID                 int64            `json:"id"`
	ProfileID          int64            `json:"profile_id"`
	RobotID            int64            `json:"robot_id"`
	SourceVersionID    *int64           `json:"source_version_id,omitempty"`
	Operation          Operation        `json:"operation"`
	UserText           string           `json:"user_text"`
	Guided             *GuidedFields    `json:"guided,omitempty"`
	ProblemDescription *string          `json:"problem_description,omitempty"`
	Status             GenerationStatus `json:"status"`
	State              GenerationState  `json:"state"`
	Attempt            int32            `json:"attempt"`
	ErrorKind          *string          `json:"error_kind,omitempty"`
	ErrorMessage       *string          `json:"error_message,omitempty"`
	VersionID          *int64           `json:"version_id,omitempty"`
	VersionName        *string          `json:"version_name,omitempty"`
	Prose              *string          `json:"prose,omitempty"`
	Code               *string          `json:"code,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
	FinishedAt         *time.Time       `json:"finished_at,omitempty"`
}

// GenerationResult is what a finished run records.
type GenerationResult struct {
	Status       GenerationStatus
	State        GenerationState
	ErrorKind    *string
	ErrorMessage *string
	VersionID    *int64
	VersionName  *string
	Prose        *string
	Code         *string
}
