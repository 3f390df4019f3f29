package dto

import (
	"strconv"
	"time"

	"devhubtrader.app/forge/internal/model"
)

type CreateVersionRequest struct {
	Name        string   `json:"name" binding:"required,max=100"`
	Code        string   `json:"code" binding:"required"`
	Description string   `json:"description" binding:"required,max=2000"`
	Tags        []string `json:"tags" binding:"max=50"`
}

// UpdateVersionRequest leaves absent fields untouched.
type UpdateVersionRequest struct {
	Description *string  `json:"description" binding:"omitempty,max=2000"`
	Tags        []string `json:"tags" binding:"omitempty,max=50"`
	Code        *string  `json:"code"`
}

type RenameVersionRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

type VersionResponse struct {
	ID          int64     `json:"id,string"`
	RobotID     int64     `json:"robot_id,string"`
	VersionName string    `json:"version_name"`
	Code        string    `json:"code"`
	Description *string   `json:"description,omitempty"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SuggestedNameResponse struct {
	Name string `json:"name"`
}

func ToVersionResponse(v *model.Version) *VersionResponse {
	tags := v.Tags
	if tags == nil {
		tags = []string{}
	}
	return &VersionResponse{
		ID:          v.ID,
		RobotID:     v.RobotID,
		VersionName: v.VersionName,
		Code:        v.Code,
		Description: v.Description,
		Tags:        tags,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

func ToVersionResponses(versions []model.Version) []*VersionResponse {
	out := make([]*VersionResponse, len(versions))
	for i := range versions {
		out[i] = ToVersionResponse(&versions[i])
	}
	return out
}

func idString(id *int64) *string {
	if id == nil {
		return nil
	}
	s := strconv.FormatInt(*id, 10)
	return &s
}
