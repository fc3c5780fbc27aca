package workflow

import (
	"errors"
	"testing"
)

func TestAuthorizeElevatedRoles(t *testing.T) {
	account := &AccountRef{ID: 1, AssignedAgencyID: 9, ClientUserID: 4}
	ops := []Operation{OpCreate, OpEdit, OpTransition, OpDelete, OpView}

	for _, role := range []Role{RoleOwner, RoleAdmin} {
		for _, op := range ops {
			if err := Authorize(Caller{ID: 99, Role: role}, account, op); err != nil {
				t.Fatalf("Authorize(%s, %s): unexpected deny %v", role, op, err)
			}
		}
	}
}

func TestAuthorizeAgencyOwnership(t *testing.T) {
	account := &AccountRef{ID: 1, AssignedAgencyID: 3}

	assigned := Caller{ID: 10, Role: RoleAgency, AgencyID: 3}
	for _, op := range []Operation{OpCreate, OpEdit, OpTransition, OpDelete, OpView} {
		if err := Authorize(assigned, account, op); err != nil {
			t.Fatalf("assigned agency denied %s: %v", op, err)
		}
	}

	// 其他机构的用户连账号的存在性都不可见
	foreign := Caller{ID: 11, Role: RoleAgency, AgencyID: 7}
	if err := Authorize(foreign, account, OpEdit); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign agency: expected ErrNotFound, got %v", err)
	}
	if err := Authorize(foreign, account, OpView); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign agency view: expected ErrNotFound, got %v", err)
	}

	unassigned := Caller{ID: 12, Role: RoleAgency}
	if err := Authorize(unassigned, account, OpView); !errors.Is(err, ErrNotFound) {
		t.Fatalf("agency without agency id: expected ErrNotFound, got %v", err)
	}
}

func TestAuthorizeClientReadOnly(t *testing.T) {
	account := &AccountRef{ID: 1, AssignedAgencyID: 3, ClientUserID: 20}

	matching := Caller{ID: 20, Role: RoleClient}
	if err := Authorize(matching, account, OpView); err != nil {
		t.Fatalf("matching client view denied: %v", err)
	}
	for _, op := range []Operation{OpCreate, OpEdit, OpTransition, OpDelete} {
		if err := Authorize(matching, account, op); !errors.Is(err, ErrForbidden) {
			t.Fatalf("client %s: expected ErrForbidden, got %v", op, err)
		}
	}

	other := Caller{ID: 21, Role: RoleClient}
	if err := Authorize(other, account, OpView); !errors.Is(err, ErrNotFound) {
		t.Fatalf("mismatched client: expected ErrNotFound, got %v", err)
	}

	noClient := &AccountRef{ID: 2, AssignedAgencyID: 3}
	if err := Authorize(matching, noClient, OpView); !errors.Is(err, ErrNotFound) {
		t.Fatalf("account without client: expected ErrNotFound, got %v", err)
	}
}

func TestAuthorizeDanglingAccount(t *testing.T) {
	// 悬空的账号引用对任何角色都视为不存在
	for _, role := range Roles {
		if err := Authorize(Caller{ID: 1, Role: role}, nil, OpView); !errors.Is(err, ErrNotFound) {
			t.Fatalf("role %s: expected ErrNotFound for dangling account, got %v", role, err)
		}
	}
}
