package company

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type UsersResponse struct {
	Users []User `json:"users"`
}

type RolesResponse struct {
	Roles []Role `json:"roles"`
}

// UpdateUserRolesDTO replaces the CompanyRole ids held by a company user.
type UpdateUserRolesDTO struct {
	CompanyRoles []string `json:"company_roles"`
}

func (dto UpdateUserRolesDTO) Validate() error {
	return validation.ValidateStruct(&dto,
		validation.Field(&dto.CompanyRoles, validation.NotNil, validation.Each(validation.Required)),
	)
}
