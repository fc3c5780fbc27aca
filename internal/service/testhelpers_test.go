package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/seox/internal/db"
	"github.com/seox/internal/workflow"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return gdb
}

// workflowFixture 准备一套覆盖所有角色与账号归属组合的测试数据。
type workflowFixture struct {
	agency        db.Agency
	otherAgency   db.Agency
	admin         db.User
	author        db.User
	reviewer      db.User
	foreignAgency db.User
	client        db.User
	otherClient   db.User

	// reviewedAccount requires approval and is bound to client;
	// autoAccount skips review entirely.
	reviewedAccount db.SeoAccount
	autoAccount     db.SeoAccount
}

func seedWorkflowFixture(t *testing.T, gdb *gorm.DB) workflowFixture {
	t.Helper()

	fx := workflowFixture{
		agency:      db.Agency{Name: "Northwind SEO"},
		otherAgency: db.Agency{Name: "Contoso Digital"},
	}
	for _, agency := range []*db.Agency{&fx.agency, &fx.otherAgency} {
		if err := gdb.Create(agency).Error; err != nil {
			t.Fatalf("create agency: %v", err)
		}
	}

	fx.admin = db.User{Username: "admin", Password: "x", Role: workflow.RoleAdmin}
	fx.author = db.User{Username: "author", Password: "x", Role: workflow.RoleAgency, AgencyID: fx.agency.ID}
	fx.reviewer = db.User{Username: "reviewer", Password: "x", Role: workflow.RoleAgency, AgencyID: fx.agency.ID}
	fx.foreignAgency = db.User{Username: "outsider", Password: "x", Role: workflow.RoleAgency, AgencyID: fx.otherAgency.ID}
	fx.client = db.User{Username: "client", Password: "x", Role: workflow.RoleClient}
	fx.otherClient = db.User{Username: "other-client", Password: "x", Role: workflow.RoleClient}

	for _, user := range []*db.User{&fx.admin, &fx.author, &fx.reviewer, &fx.foreignAgency, &fx.client, &fx.otherClient} {
		if err := gdb.Create(user).Error; err != nil {
			t.Fatalf("create user %s: %v", user.Username, err)
		}
	}

	fx.reviewedAccount = db.SeoAccount{
		AccountName:      "Acme Store",
		Domain:           "acme.example.com",
		AssignedAgencyID: fx.agency.ID,
		ClientUserID:     fx.client.ID,
		RequiresApproval: true,
	}
	fx.autoAccount = db.SeoAccount{
		AccountName:      "Fast Lane",
		Domain:           "fastlane.example.com",
		AssignedAgencyID: fx.agency.ID,
		RequiresApproval: false,
	}
	for _, account := range []*db.SeoAccount{&fx.reviewedAccount, &fx.autoAccount} {
		if err := gdb.Create(account).Error; err != nil {
			t.Fatalf("create account: %v", err)
		}
	}

	return fx
}

func createDraft(t *testing.T, svc *PostService, caller workflow.Caller, accountID uint, title string) *db.BlogPost {
	t.Helper()
	post, err := svc.Create(caller, PostInput{
		Title:        title,
		Content:      "# " + title + "\n\nBody copy with enough substance.",
		SeoAccountID: accountID,
	})
	if err != nil {
		t.Fatalf("create draft %q: %v", title, err)
	}
	return post
}

func mustTransition(t *testing.T, svc *PostService, caller workflow.Caller, postID uint, action workflow.Action, input TransitionInput) *db.BlogPost {
	t.Helper()
	post, err := svc.Transition(caller, postID, action, input)
	if err != nil {
		t.Fatalf("transition %s: %v", action, err)
	}
	return post
}
