package proposal

import (
	"talentbridge/internal/common"
	"talentbridge/internal/domain/user"
)

// OwnerIDs are the identities that hold each role on an application.
type OwnerIDs struct {
	RecruiterID common.UUID
	CandidateID common.UUID
	CompanyID   common.UUID
}

// CanAct decides whether the actor may act on a proposal right now. The actor
// role must come from the authenticated caller identity, never from the
// proposal payload. Admins may always act; everyone else only when the pending
// party is their own role and the application's owner id for that role matches
// them exactly.
func CanAct(pending Party, owners OwnerIDs, actorID common.UUID, actorRole user.Role) bool {
	if actorID.IsZero() {
		return false
	}
	switch actorRole {
	case user.RoleAdmin:
		return true
	case user.RoleCandidate:
		return pending == PartyCandidate && owners.CandidateID == actorID
	case user.RoleRecruiter:
		return pending == PartyRecruiter && owners.RecruiterID == actorID
	case user.RoleCompany:
		return pending == PartyCompany && owners.CompanyID == actorID
	default:
		return false
	}
}
