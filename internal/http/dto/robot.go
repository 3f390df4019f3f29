package dto

import (
	"time"

	"devhubtrader.app/forge/internal/model"
)

type CreateRobotRequest struct {
	Name string `json:"name" binding:"required,min=1,max=255"`
}

type RenameRobotRequest struct {
	Name string `json:"name" binding:"required,min=1,max=255"`
}

type SetCurrentVersionRequest struct {
	VersionID string `json:"version_id" binding:"required"`
}

type RobotResponse struct {
	ID               int64     `json:"id,string"`
	Name             string    `json:"name"`
	CurrentVersionID *string   `json:"current_version_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type CreateRobotResponse struct {
	Robot   *RobotResponse   `json:"robot"`
	Version *VersionResponse `json:"version"`
}

func ToRobotResponse(r *model.Robot) *RobotResponse {
	return &RobotResponse{
		ID:               r.ID,
		Name:             r.Name,
		CurrentVersionID: idString(r.CurrentVersionID),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func ToRobotResponses(robots []model.Robot) []*RobotResponse {
	out := make([]*RobotResponse, len(robots))
	for i := range robots {
		out[i] = ToRobotResponse(&robots[i])
	}
	return out
}
