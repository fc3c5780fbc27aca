package service

import (
	"errors"

	"github.com/seox/internal/db"
	"github.com/seox/internal/workflow"
	"gorm.io/gorm"
)

// loadAccount fetches an SEO account; a missing row returns (nil, nil) so
// the authorization gate can treat the dangling reference as not-found.
func loadAccount(gdb *gorm.DB, id uint) (*db.SeoAccount, error) {
	var account db.SeoAccount
	if err := gdb.First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// visibleAccounts narrows an SeoAccount query to the accounts the caller may
// see: everything for owner/admin, the agency's assignments for agency
// users, and the single bound account for clients.
func visibleAccounts(gdb *gorm.DB, caller workflow.Caller) *gorm.DB {
	query := gdb.Model(&db.SeoAccount{})
	switch {
	case caller.Role.Elevated():
		return query
	case caller.Role == workflow.RoleAgency:
		return query.Where("assigned_agency_id = ?", caller.AgencyID)
	case caller.Role == workflow.RoleClient:
		return query.Where("client_user_id = ?", caller.ID)
	}
	// 未知角色不可见任何账号
	return query.Where("1 = 0")
}

// visibleAccountIDs resolves the id set for callers that need an IN filter.
func visibleAccountIDs(gdb *gorm.DB, caller workflow.Caller) ([]uint, error) {
	var ids []uint
	if err := visibleAccounts(gdb, caller).Pluck("seo_accounts.id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
