package db

import (
	"errors"
	"strings"

	"github.com/seox/internal/workflow"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User 定义了登录用户模型；Role 决定其在审核流程中的权限。
type User struct {
	gorm.Model
	Username string        `gorm:"unique;not null"`
	Password string        `gorm:"not null" json:"-"`
	Role     workflow.Role `gorm:"type:text;not null;default:'agency'"`
	AgencyID uint          `gorm:"index"`
}

// Agency groups agency users so several of them can work the same accounts.
type Agency struct {
	gorm.Model
	Name string `gorm:"unique;not null"`
}

// Caller converts the user row into the identity the authorization gate
// consumes.
func (u *User) Caller() workflow.Caller {
	return workflow.Caller{ID: u.ID, Role: u.Role, AgencyID: u.AgencyID}
}

// EnsureRootUser 存在性检查：若提供的用户名与密码均非空且不存在对应账号，
// 则创建一个 bcrypt 哈希的 owner 用户。
func EnsureRootUser(username, password string) error {
	trimmedUser := strings.TrimSpace(username)
	trimmedPassword := strings.TrimSpace(password)
	if trimmedUser == "" || trimmedPassword == "" {
		return nil
	}

	if DB == nil {
		return errors.New("database not initialized")
	}

	var existing User
	if err := DB.Where("username = ?", trimmedUser).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(trimmedPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		return DB.Create(&User{
			Username: trimmedUser,
			Password: string(hashed),
			Role:     workflow.RoleOwner,
		}).Error
	}

	return nil
}
