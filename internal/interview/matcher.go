package interview

import (
	"fmt"

	"github.com/frahmantamala/interview-console/internal/company"
)

// IsEligible reports whether user may interview for the required roles. An
// empty requirement accepts everyone.
func IsEligible(user company.User, requiredRoleIDs []string) bool {
	if len(requiredRoleIDs) == 0 {
		return true
	}
	for _, required := range requiredRoleIDs {
		if user.HasRole(required) {
			return true
		}
	}
	return false
}

// EligibleUsers keeps the users holding at least one required role, in order.
func EligibleUsers(users []company.User, requiredRoleIDs []string) []company.User {
	out := make([]company.User, 0, len(users))
	for _, u := range users {
		if IsEligible(u, requiredRoleIDs) {
			out = append(out, u)
		}
	}
	return out
}

// RoleSelection is the required-role and interviewer pair edited together.
// Eligibility is advisory; the backend re-validates on submit.
type RoleSelection struct {
	RequiredRoles []string `json:"required_roles"`
	Interviewers  []string `json:"interviewers"`
}

// ToggleRole adds or removes roleID, then keeps only the selected interviewers
// holding at least one role of the new set. Removing the last role therefore
// clears the interviewers. It returns how many were dropped.
func (s *RoleSelection) ToggleRole(roleID string, users []company.User) int {
	if idx := indexOf(s.RequiredRoles, roleID); idx >= 0 {
		s.RequiredRoles = append(s.RequiredRoles[:idx:idx], s.RequiredRoles[idx+1:]...)
	} else {
		s.RequiredRoles = append(s.RequiredRoles, roleID)
	}

	kept := make([]string, 0, len(s.Interviewers))
	for _, id := range s.Interviewers {
		if holdsAny(id, users, s.RequiredRoles) {
			kept = append(kept, id)
		}
	}
	removed := len(s.Interviewers) - len(kept)
	s.Interviewers = kept
	return removed
}

// ToggleInterviewer removes userID if selected. Otherwise it adds it, unless
// roles are required and the user holds none of them, in which case nothing
// changes and false is returned.
func (s *RoleSelection) ToggleInterviewer(userID string, users []company.User) bool {
	if idx := indexOf(s.Interviewers, userID); idx >= 0 {
		s.Interviewers = append(s.Interviewers[:idx:idx], s.Interviewers[idx+1:]...)
		return true
	}
	if !s.qualifies(userID, users) {
		return false
	}
	s.Interviewers = append(s.Interviewers, userID)
	return true
}

func (s *RoleSelection) qualifies(userID string, users []company.User) bool {
	if len(s.RequiredRoles) == 0 {
		return true
	}
	user, ok := company.FindUser(users, userID)
	if !ok {
		return false
	}
	return IsEligible(user, s.RequiredRoles)
}

func holdsAny(userID string, users []company.User, roleIDs []string) bool {
	user, ok := company.FindUser(users, userID)
	if !ok {
		return false
	}
	for _, roleID := range roleIDs {
		if user.HasRole(roleID) {
			return true
		}
	}
	return false
}

// RemovedInterviewersWarning is the user-facing note after ToggleRole drops interviewers.
func RemovedInterviewersWarning(removed int) string {
	if removed <= 0 {
		return ""
	}
	if removed == 1 {
		return "1 interviewer was removed because they no longer hold a required role"
	}
	return fmt.Sprintf("%d interviewers were removed because they no longer hold a required role", removed)
}

const IneligibleInterviewerWarning = "This user holds none of the required roles"

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
