package company

type User struct {
	ID           string   `json:"id"`
	UserID       string   `json:"user_id"`
	Email        string   `json:"email"`
	Name         string   `json:"name,omitempty"`
	Role         string   `json:"role"`
	CompanyRoles []string `json:"company_roles"`
	Status       string   `json:"status"`
}

type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

type UpdateUserRolesPayload struct {
	CompanyRoles []string `json:"company_roles"`
}
