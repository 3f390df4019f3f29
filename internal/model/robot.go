package model

import "time"

type Robot struct {
	ID               int64     `json:"id"`
	OwnerID          int64     `json:"owner_id"`
	Name             string    `json:"name"`
	CurrentVersionID *int64    `json:"current_version_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Version is an immutable snapshot of a robot's script. Only description,
// tags and name may be edited after creation; code changes produce a new
// version.
type Version struct {
	ID          int64     `json:"id"`
	RobotID     int64     `json:"robot_id"`
	VersionName string    `json:"version_name"`
	Code        string    `json:"code"`
	Description *string   `json:"description,omitempty"`
	Tags        []string  `json:"tags"`
	CreatedBy   *int64    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// VersionNames returns the names of vs in order.
func VersionNames(vs []Version) []string {
	names := make([]string, len(vs))
	for i, v := range vs {
		names[i] = v.VersionName
	}
	return names
}
