package model

import "constructhub/pkg/rbac"

type User struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Disabled bool   `json:"disabled"`
}

func (u User) IsAdmin() bool { return u.Role == rbac.RoleAdmin }
