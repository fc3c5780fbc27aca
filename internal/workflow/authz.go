package workflow

// Operation 表示授权门校验的操作类别
type Operation string

const (
	OpCreate     Operation = "create"
	OpEdit       Operation = "edit"
	OpTransition Operation = "transition"
	OpDelete     Operation = "delete"
	OpView       Operation = "view"
)

// Caller carries the identity resolved from the session for one request.
type Caller struct {
	ID       uint
	Role     Role
	AgencyID uint
}

// AccountRef is the slice of an SEO account the gate needs: who operates it
// and which client user may look at it. ClientUserID is zero when no client
// has been attached.
type AccountRef struct {
	ID               uint
	AssignedAgencyID uint
	ClientUserID     uint
}

// Authorize decides whether the caller may run the operation against a post
// owned by the given account. It has no side effects.
//
// Owner and Admin pass every check. An Agency caller must belong to the
// agency the account is assigned to. A Client caller must match the
// account's client user and may only view. Accounts outside the caller's
// visibility surface as ErrNotFound rather than ErrForbidden so existence
// does not leak; a nil account (dangling reference) is ErrNotFound for
// every caller.
func Authorize(caller Caller, account *AccountRef, op Operation) error {
	if account == nil {
		return ErrNotFound
	}

	if caller.Role.Elevated() {
		return nil
	}

	switch caller.Role {
	case RoleAgency:
		if caller.AgencyID == 0 || account.AssignedAgencyID != caller.AgencyID {
			return ErrNotFound
		}
		return nil
	case RoleClient:
		if account.ClientUserID == 0 || account.ClientUserID != caller.ID {
			return ErrNotFound
		}
		if op != OpView {
			return ErrForbidden
		}
		return nil
	}

	return ErrForbidden
}
