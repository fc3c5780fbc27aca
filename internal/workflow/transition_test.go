package workflow

import (
	"errors"
	"testing"
)

func TestResolveLegalEdges(t *testing.T) {
	cases := []struct {
		action Action
		from   Status
		want   Status
	}{
		{ActionSubmit, StatusDraft, StatusUnderReview},
		{ActionSubmit, StatusNeedsRevision, StatusUnderReview},
		{ActionApprove, StatusUnderReview, StatusApproved},
		{ActionReject, StatusUnderReview, StatusRejected},
		{ActionRequestRevision, StatusUnderReview, StatusNeedsRevision},
		{ActionPublish, StatusApproved, StatusPublished},
		{ActionDiscard, StatusDraft, StatusDraft},
		{ActionDiscard, StatusUnderReview, StatusDraft},
		{ActionDiscard, StatusApproved, StatusDraft},
		{ActionDiscard, StatusRejected, StatusDraft},
		{ActionDiscard, StatusNeedsRevision, StatusDraft},
		{ActionArchive, StatusPublished, StatusArchived},
	}

	for _, tc := range cases {
		got, err := Resolve(tc.action, tc.from)
		if err != nil {
			t.Fatalf("Resolve(%s, %s): unexpected error %v", tc.action, tc.from, err)
		}
		if got != tc.want {
			t.Fatalf("Resolve(%s, %s) = %s, want %s", tc.action, tc.from, got, tc.want)
		}
	}
}

// 穷举所有不在转换表内的 (状态, 动作) 组合，全部必须失败且返回原状态。
func TestResolveRejectsEveryIllegalEdge(t *testing.T) {
	legal := map[Action]map[Status]bool{}
	for action, rule := range transitionTable {
		legal[action] = map[Status]bool{}
		for _, from := range rule.From {
			legal[action][from] = true
		}
	}

	actions := []Action{
		ActionSubmit, ActionApprove, ActionReject,
		ActionRequestRevision, ActionPublish, ActionDiscard, ActionArchive,
	}

	for _, action := range actions {
		for _, from := range Statuses {
			if legal[action][from] {
				continue
			}
			got, err := Resolve(action, from)
			if err == nil {
				t.Fatalf("Resolve(%s, %s): expected error", action, from)
			}
			if !IsInvalidTransition(err) {
				t.Fatalf("Resolve(%s, %s): expected InvalidTransitionError, got %v", action, from, err)
			}
			if got != from {
				t.Fatalf("Resolve(%s, %s): status changed to %s on failure", action, from, got)
			}
		}
	}
}

func TestResolveUnknownAction(t *testing.T) {
	got, err := Resolve(Action("promote"), StatusDraft)
	if !IsInvalidTransition(err) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if got != StatusDraft {
		t.Fatalf("status changed on unknown action: %s", got)
	}
}

func TestInvalidTransitionCarriesStates(t *testing.T) {
	_, err := Resolve(ActionPublish, StatusDraft)
	var ite *InvalidTransitionError
	if !errors.As(err, &ite) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if ite.Current != StatusDraft {
		t.Fatalf("expected current draft, got %s", ite.Current)
	}
	if ite.Requested != StatusPublished {
		t.Fatalf("expected requested published, got %s", ite.Requested)
	}
}

func TestRoleMayAct(t *testing.T) {
	cases := []struct {
		role   Role
		action Action
		want   bool
	}{
		{RoleOwner, ActionPublish, true},
		{RoleAdmin, ActionPublish, true},
		{RoleAdmin, ActionArchive, true},
		{RoleAgency, ActionSubmit, true},
		{RoleAgency, ActionApprove, true},
		{RoleAgency, ActionReject, true},
		{RoleAgency, ActionPublish, false},
		{RoleAgency, ActionArchive, false},
		{RoleClient, ActionSubmit, false},
		{RoleClient, ActionApprove, false},
		{RoleClient, ActionDiscard, false},
	}

	for _, tc := range cases {
		if got := RoleMayAct(tc.role, tc.action); got != tc.want {
			t.Fatalf("RoleMayAct(%s, %s) = %v, want %v", tc.role, tc.action, got, tc.want)
		}
	}
}
