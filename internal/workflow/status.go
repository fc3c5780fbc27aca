package workflow

// Status 表示文章在审核流程中的状态
type Status string

const (
	StatusDraft         Status = "draft"
	StatusUnderReview   Status = "under_review"
	StatusApproved      Status = "approved"
	StatusRejected      Status = "rejected"
	StatusNeedsRevision Status = "needs_revision"
	StatusPublished     Status = "published"
	StatusArchived      Status = "archived"
)

// Statuses lists every status the workflow recognizes.
var Statuses = []Status{
	StatusDraft,
	StatusUnderReview,
	StatusApproved,
	StatusRejected,
	StatusNeedsRevision,
	StatusPublished,
	StatusArchived,
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Role 表示会话中登录用户的角色
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleAgency Role = "agency"
	RoleClient Role = "client"
)

// Roles lists every role a user account may carry.
var Roles = []Role{RoleOwner, RoleAdmin, RoleAgency, RoleClient}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// Elevated reports whether the role bypasses account-ownership checks.
func (r Role) Elevated() bool {
	return r == RoleOwner || r == RoleAdmin
}
