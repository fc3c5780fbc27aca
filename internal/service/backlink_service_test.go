package service

import (
	"errors"
	"testing"

	"github.com/seox/internal/db"
	"github.com/seox/internal/workflow"
)

func TestBacklinkServiceCRUD(t *testing.T) {
	gdb := setupServiceTestDB(t)
	fx := seedWorkflowFixture(t, gdb)
	svc := NewBacklinkService(gdb)

	backlink, err := svc.Create(fx.author.Caller(), fx.reviewedAccount.ID, BacklinkInput{
		SourceURL:    "https://partner.example.org/roundup",
		TargetURL:    "https://acme.example.com/blog/tactics",
		AnchorText:   "link building tactics",
		DomainRating: 55,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if backlink.Status != db.BacklinkPending {
		t.Fatalf("expected default pending status, got %q", backlink.Status)
	}

	backlink.Status = db.BacklinkActive
	updated, err := svc.Update(fx.author.Caller(), backlink.ID, BacklinkInput{
		SourceURL:    backlink.SourceURL,
		TargetURL:    backlink.TargetURL,
		AnchorText:   backlink.AnchorText,
		Status:       db.BacklinkActive,
		DomainRating: 57,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != db.BacklinkActive || updated.DomainRating != 57 {
		t.Fatalf("update not applied: %+v", updated)
	}

	list, err := svc.ListForAccount(fx.author.Caller(), fx.reviewedAccount.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 backlink, got %d", len(list))
	}

	if err := svc.Delete(fx.author.Caller(), backlink.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Update(fx.author.Caller(), backlink.ID, BacklinkInput{}); !errors.Is(err, workflow.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestBacklinkServiceValidation(t *testing.T) {
	gdb := setupServiceTestDB(t)
	fx := seedWorkflowFixture(t, gdb)
	svc := NewBacklinkService(gdb)

	_, err := svc.Create(fx.author.Caller(), fx.reviewedAccount.ID, BacklinkInput{
		SourceURL: "not a url",
		TargetURL: "https://acme.example.com/blog/x",
	})
	if !isValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = svc.Create(fx.author.Caller(), fx.reviewedAccount.ID, BacklinkInput{
		SourceURL: "https://a.example.org",
		TargetURL: "https://b.example.com",
		Status:    "immortal",
	})
	if !isValidationError(err) {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}
}

func TestBacklinkServiceScoping(t *testing.T) {
	gdb := setupServiceTestDB(t)
	fx := seedWorkflowFixture(t, gdb)
	svc := NewBacklinkService(gdb)

	if _, err := svc.Create(fx.author.Caller(), fx.reviewedAccount.ID, BacklinkInput{
		SourceURL: "https://a.example.org",
		TargetURL: "https://acme.example.com",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	// 其他机构不可见
	if _, err := svc.ListForAccount(fx.foreignAgency.Caller(), fx.reviewedAccount.ID); !errors.Is(err, workflow.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// 客户只读
	list, err := svc.ListForAccount(fx.client.Caller(), fx.reviewedAccount.ID)
	if err != nil {
		t.Fatalf("client list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("client should see the backlink, got %d", len(list))
	}
	if _, err := svc.Create(fx.client.Caller(), fx.reviewedAccount.ID, BacklinkInput{
		SourceURL: "https://c.example.org",
		TargetURL: "https://acme.example.com",
	}); !errors.Is(err, workflow.ErrForbidden) {
		t.Fatalf("client create should be forbidden, got %v", err)
	}

	// 悬空账号
	if _, err := svc.ListForAccount(fx.admin.Caller(), 9999); !errors.Is(err, workflow.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for dangling account, got %v", err)
	}
}
