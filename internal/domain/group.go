package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

type Group struct {
	ID          int64     `db:"id"          json:"id"`
	Name        string    `db:"group_name"  json:"group_name"`
	Description string    `db:"description" json:"description"`
	IsDefault   bool      `db:"is_default"  json:"is_default"`
	CreatedAt   time.Time `db:"created_at"  json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"  json:"updated_at"`
}

// GroupInput is the writable part of a group.
type GroupInput struct {
	Name        string `json:"group_name"`
	Description string `json:"description"`
}

func (g *GroupInput) Normalize() {
	g.Name = strings.TrimSpace(g.Name)
}

func (g *GroupInput) Validate() error {
	v := &validator{}
	n := utf8.RuneCountInString(g.Name)
	v.check(n >= 1 && n <= 100, "group_name must be 1-100 characters")
	v.check(utf8.RuneCountInString(g.Description) <= 255, "description must be at most 255 characters")
	return v.err()
}

type GroupDeletion struct {
	DeletedGroupID    int64  `json:"deleted_group_id"`
	DeletedGroupName  string `json:"deleted_group_name"`
	MovedDevicesCount int64  `json:"moved_devices_count"`
	DefaultGroupName  string `json:"default_group_name"`
}
