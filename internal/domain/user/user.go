package user

import "strings"

type Role string

const (
	RoleCandidate Role = "candidate"
	RoleRecruiter Role = "recruiter"
	RoleCompany   Role = "company"
	RoleAdmin     Role = "admin"
)

func ParseRole(value string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleCandidate:
		return RoleCandidate, true
	case RoleRecruiter:
		return RoleRecruiter, true
	case RoleCompany:
		return RoleCompany, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}
