package atsgateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/frahmantamala/interview-console/internal"
	companyDatamodel "github.com/frahmantamala/interview-console/internal/core/datamodel/company"
)

type UserFilter struct {
	ActiveOnly bool
	Role       string
	Search     string
}

func (f UserFilter) values() url.Values {
	v := url.Values{}
	if f.ActiveOnly {
		v.Set("active_only", "true")
	}
	if f.Role != "" {
		v.Set("role", f.Role)
	}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	return v
}

func companyPath(sess internal.Session, suffix string) (string, error) {
	if sess.CompanyID == "" {
		return "", internal.ErrMissingCompany
	}
	return fmt.Sprintf("/company/%s%s", url.PathEscape(sess.CompanyID), suffix), nil
}

func (c *Client) CompanyUsers(ctx context.Context, sess internal.Session, filter UserFilter) ([]companyDatamodel.User, error) {
	path, err := companyPath(sess, "/users")
	if err != nil {
		return nil, err
	}
	var users []companyDatamodel.User
	if err := c.request(ctx, sess, http.MethodGet, path, filter.values(), nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) CompanyRoles(ctx context.Context, sess internal.Session, activeOnly bool) ([]companyDatamodel.Role, error) {
	path, err := companyPath(sess, "/roles")
	if err != nil {
		return nil, err
	}
	query := url.Values{}
	query.Set("active_only", strconv.FormatBool(activeOnly))

	var roles []companyDatamodel.Role
	if err := c.request(ctx, sess, http.MethodGet, path, query, nil, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

func (c *Client) UpdateUserRoles(ctx context.Context, sess internal.Session, companyUserID string, roleIDs []string) (*companyDatamodel.User, error) {
	path, err := companyPath(sess, "/users/"+url.PathEscape(companyUserID)+"/roles")
	if err != nil {
		return nil, err
	}
	if roleIDs == nil {
		roleIDs = []string{}
	}
	var user companyDatamodel.User
	payload := companyDatamodel.UpdateUserRolesPayload{CompanyRoles: roleIDs}
	if err := c.request(ctx, sess, http.MethodPut, path, nil, payload, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
