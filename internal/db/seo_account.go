package db

import (
	"github.com/seox/internal/workflow"
	"gorm.io/gorm"
)

// SeoAccount 表示机构托管的一个客户站点，文章与外链都挂在它下面。
// ClientUserID 为 0 时表示尚未绑定客户用户。
type SeoAccount struct {
	gorm.Model
	AccountName      string `gorm:"not null"`
	Domain           string `gorm:"not null"`
	AssignedAgencyID uint   `gorm:"index;not null"`
	AssignedAgency   Agency `gorm:"foreignKey:AssignedAgencyID"`
	ClientUserID     uint   `gorm:"index"`
	RequiresApproval bool   `gorm:"not null;default:true"`
}

// Ref projects the account into the view the authorization gate consumes.
func (a *SeoAccount) Ref() *workflow.AccountRef {
	if a == nil {
		return nil
	}
	return &workflow.AccountRef{
		ID:               a.ID,
		AssignedAgencyID: a.AssignedAgencyID,
		ClientUserID:     a.ClientUserID,
	}
}
