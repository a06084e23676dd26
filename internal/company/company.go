package company

import (
	companyDatamodel "github.com/frahmantamala/interview-console/internal/core/datamodel/company"
)

const (
	UserRoleAdmin     = "admin"
	UserRoleRecruiter = "recruiter"
	UserRoleViewer    = "viewer"

	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User is a member of the company. CompanyRoles are the CompanyRole ids the
// user holds, which decide interviewer eligibility.
type User struct {
	ID           string   `json:"id"`
	UserID       string   `json:"user_id"`
	Email        string   `json:"email"`
	Name         string   `json:"name,omitempty"`
	Role         string   `json:"role"`
	CompanyRoles []string `json:"company_roles"`
	Status       string   `json:"status"`
}

func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

func (u *User) HasRole(roleID string) bool {
	for _, r := range u.CompanyRoles {
		if r == roleID {
			return true
		}
	}
	return false
}

type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

func FromDataModel(u companyDatamodel.User) User {
	roles := u.CompanyRoles
	if roles == nil {
		roles = []string{}
	}
	return User{
		ID:           u.ID,
		UserID:       u.UserID,
		Email:        u.Email,
		Name:         u.Name,
		Role:         u.Role,
		CompanyRoles: roles,
		Status:       u.Status,
	}
}

func FromDataModelSlice(users []companyDatamodel.User) []User {
	result := make([]User, len(users))
	for i, u := range users {
		result[i] = FromDataModel(u)
	}
	return result
}

func RoleFromDataModel(r companyDatamodel.Role) Role {
	return Role{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		IsActive:    r.IsActive,
	}
}

func RolesFromDataModel(roles []companyDatamodel.Role) []Role {
	result := make([]Role, len(roles))
	for i, r := range roles {
		result[i] = RoleFromDataModel(r)
	}
	return result
}

// FindUser looks a user up by either the membership id or the account user id.
func FindUser(users []User, id string) (User, bool) {
	for _, u := range users {
		if u.ID == id || u.UserID == id {
			return u, true
		}
	}
	return User{}, false
}
