package workflow

// Action 表示调用方请求的流程动作
type Action string

const (
	ActionSubmit          Action = "submit"
	ActionApprove         Action = "approve"
	ActionReject          Action = "reject"
	ActionRequestRevision Action = "needs_revision"
	ActionPublish         Action = "publish"
	ActionDiscard         Action = "discard"
	ActionArchive         Action = "archive"
)

// Rule describes one edge family of the workflow state machine.
type Rule struct {
	From         []Status
	To           Status
	AdminOnly    bool
	RequiresNote bool
	SetsReviewer bool
}

// transitionTable 是状态机的唯一事实来源；所有状态检查都经由它。
// Owner 和 Admin 不受 AdminOnly 之外的角色限制，Agency 需通过授权门
// 的账户归属检查，Client 永远不能触发任何动作。
var transitionTable = map[Action]Rule{
	ActionSubmit: {
		From: []Status{StatusDraft, StatusNeedsRevision},
		To:   StatusUnderReview,
	},
	ActionApprove: {
		From:         []Status{StatusUnderReview},
		To:           StatusApproved,
		SetsReviewer: true,
	},
	ActionReject: {
		From:         []Status{StatusUnderReview},
		To:           StatusRejected,
		RequiresNote: true,
		SetsReviewer: true,
	},
	ActionRequestRevision: {
		From:         []Status{StatusUnderReview},
		To:           StatusNeedsRevision,
		RequiresNote: true,
		SetsReviewer: true,
	},
	ActionPublish: {
		From:      []Status{StatusApproved},
		To:        StatusPublished,
		AdminOnly: true,
	},
	ActionDiscard: {
		// 草稿上的 discard 是合法的空转，便于调用方不关心当前状态直接打回
		From: []Status{StatusDraft, StatusUnderReview, StatusApproved, StatusRejected, StatusNeedsRevision},
		To:   StatusDraft,
	},
	ActionArchive: {
		From:      []Status{StatusPublished},
		To:        StatusArchived,
		AdminOnly: true,
	},
}

// Lookup returns the rule for an action.
func Lookup(action Action) (Rule, bool) {
	rule, ok := transitionTable[action]
	return rule, ok
}

// Resolve validates the edge (action, current) against the transition table
// and returns the target status. The current status is left untouched when
// the edge is illegal.
func Resolve(action Action, current Status) (Status, error) {
	rule, ok := transitionTable[action]
	if !ok {
		return current, NewInvalidTransition(current, current)
	}
	for _, from := range rule.From {
		if from == current {
			return rule.To, nil
		}
	}
	return current, NewInvalidTransition(current, rule.To)
}

// RoleMayAct reports whether the role is ever allowed to trigger the action,
// before any ownership check. Clients are read-only across the board.
func RoleMayAct(role Role, action Action) bool {
	if role == RoleClient {
		return false
	}
	rule, ok := transitionTable[action]
	if !ok {
		return false
	}
	if rule.AdminOnly {
		return role.Elevated()
	}
	return role.Elevated() || role == RoleAgency
}
