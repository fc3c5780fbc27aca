package service

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/seox/internal/db"
	"github.com/seox/internal/workflow"
	"gorm.io/gorm"
)

var (
	// ErrAccountInUse is returned when deleting an account that still owns
	// posts or backlinks.
	ErrAccountInUse = errors.New("seo account still owns records")
)

// AccountService wraps SEO account related operations.
type AccountService struct {
	db *gorm.DB
}

// NewAccountService creates an AccountService instance.
func NewAccountService(gdb *gorm.DB) *AccountService {
	return &AccountService{db: gdb}
}

// AccountInput represents fields accepted when creating or updating an
// SEO account.
type AccountInput struct {
	AccountName      string
	Domain           string
	AssignedAgencyID uint
	ClientUserID     uint
	RequiresApproval *bool
}

// Validate 校验账号输入。
func (in AccountInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.AccountName,
			validation.Required.Error("accountName is required"),
		),
		validation.Field(&in.Domain,
			validation.Required.Error("domain is required"),
			is.Host.Error("domain must be a valid hostname"),
		),
		validation.Field(&in.AssignedAgencyID,
			validation.Required.Error("assignedAgencyId is required"),
		),
	)
}

// Create persists a new account. Only owner/admin may create accounts.
func (s *AccountService) Create(caller workflow.Caller, input AccountInput) (*db.SeoAccount, error) {
	if !caller.Role.Elevated() {
		return nil, workflow.ErrForbidden
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkReferences(input); err != nil {
		return nil, err
	}

	requiresApproval := true
	if input.RequiresApproval != nil {
		requiresApproval = *input.RequiresApproval
	}

	account := db.SeoAccount{
		AccountName:      strings.TrimSpace(input.AccountName),
		Domain:           strings.TrimSpace(input.Domain),
		AssignedAgencyID: input.AssignedAgencyID,
		ClientUserID:     input.ClientUserID,
		RequiresApproval: requiresApproval,
	}
	if err := s.db.Create(&account).Error; err != nil {
		return nil, err
	}
	return s.Get(caller, account.ID)
}

// Get fetches an account visible to the caller.
func (s *AccountService) Get(caller workflow.Caller, id uint) (*db.SeoAccount, error) {
	account, err := loadAccount(s.db, id)
	if err != nil {
		return nil, err
	}
	if err := workflow.Authorize(caller, account.Ref(), workflow.OpView); err != nil {
		return nil, err
	}

	var full db.SeoAccount
	if err := s.db.Preload("AssignedAgency").First(&full, id).Error; err != nil {
		return nil, err
	}
	return &full, nil
}

// List returns the accounts visible to the caller.
func (s *AccountService) List(caller workflow.Caller) ([]db.SeoAccount, error) {
	var accounts []db.SeoAccount
	if err := visibleAccounts(s.db, caller).
		Preload("AssignedAgency").
		Order("seo_accounts.account_name asc, seo_accounts.id asc").
		Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// Update applies account edits. Only owner/admin may update accounts;
// changing RequiresApproval never touches posts already in flight.
func (s *AccountService) Update(caller workflow.Caller, id uint, input AccountInput) (*db.SeoAccount, error) {
	if !caller.Role.Elevated() {
		return nil, workflow.ErrForbidden
	}

	account, err := loadAccount(s.db, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, workflow.ErrNotFound
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkReferences(input); err != nil {
		return nil, err
	}

	account.AccountName = strings.TrimSpace(input.AccountName)
	account.Domain = strings.TrimSpace(input.Domain)
	account.AssignedAgencyID = input.AssignedAgencyID
	account.ClientUserID = input.ClientUserID
	if input.RequiresApproval != nil {
		account.RequiresApproval = *input.RequiresApproval
	}

	if err := s.db.Save(account).Error; err != nil {
		return nil, err
	}
	return s.Get(caller, account.ID)
}

// Delete removes an account that owns no posts and no backlinks.
func (s *AccountService) Delete(caller workflow.Caller, id uint) error {
	if !caller.Role.Elevated() {
		return workflow.ErrForbidden
	}

	account, err := loadAccount(s.db, id)
	if err != nil {
		return err
	}
	if account == nil {
		return workflow.ErrNotFound
	}

	var postCount int64
	if err := s.db.Model(&db.BlogPost{}).Where("seo_account_id = ?", id).Count(&postCount).Error; err != nil {
		return err
	}
	var backlinkCount int64
	if err := s.db.Model(&db.Backlink{}).Where("seo_account_id = ?", id).Count(&backlinkCount).Error; err != nil {
		return err
	}
	if postCount > 0 || backlinkCount > 0 {
		return ErrAccountInUse
	}

	return s.db.Delete(&db.SeoAccount{}, id).Error
}

// checkReferences 验证机构与客户用户引用真实存在且角色匹配。
func (s *AccountService) checkReferences(input AccountInput) error {
	var agencyCount int64
	if err := s.db.Model(&db.Agency{}).Where("id = ?", input.AssignedAgencyID).Count(&agencyCount).Error; err != nil {
		return err
	}
	if agencyCount == 0 {
		return validation.Errors{"assignedAgencyId": validation.NewError("validation_exists", "agency does not exist")}
	}

	if input.ClientUserID != 0 {
		var client db.User
		if err := s.db.First(&client, input.ClientUserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return validation.Errors{"clientUserId": validation.NewError("validation_exists", "client user does not exist")}
			}
			return err
		}
		if client.Role != workflow.RoleClient {
			return validation.Errors{"clientUserId": validation.NewError("validation_role", "clientUserId must reference a client user")}
		}
	}
	return nil
}
