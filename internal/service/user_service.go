package service

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/seox/internal/db"
	"github.com/seox/internal/workflow"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrBadCredentials covers both an unknown username and a wrong
	// password so login failures do not reveal which one it was.
	ErrBadCredentials = errors.New("invalid username or password")

	// ErrUsernameTaken is returned when creating a user with an existing
	// username.
	ErrUsernameTaken = errors.New("username already taken")
)

// UserService wraps user administration and authentication.
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a UserService instance.
func NewUserService(gdb *gorm.DB) *UserService {
	return &UserService{db: gdb}
}

// UserInput represents fields accepted when creating a user.
type UserInput struct {
	Username string
	Password string
	Role     workflow.Role
	AgencyID uint
}

// Validate 校验用户输入；agency 角色必须挂在某个机构下。
func (in UserInput) Validate() error {
	roles := make([]interface{}, 0, len(workflow.Roles))
	for _, role := range workflow.Roles {
		roles = append(roles, role)
	}

	return validation.ValidateStruct(&in,
		validation.Field(&in.Username,
			validation.Required.Error("username is required"),
			validation.Length(3, 64).Error("username must be 3-64 characters"),
		),
		validation.Field(&in.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be at least 8 characters"),
		),
		validation.Field(&in.Role,
			validation.Required.Error("role is required"),
			validation.In(roles...).Error("unknown role"),
		),
		validation.Field(&in.AgencyID,
			validation.When(in.Role == workflow.RoleAgency,
				validation.Required.Error("agencyId is required for agency users"),
			),
		),
	)
}

// Authenticate resolves a user by username and verifies the password.
func (s *UserService) Authenticate(username, password string) (*db.User, error) {
	var user db.User
	if err := s.db.Where("username = ?", strings.TrimSpace(username)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrBadCredentials
	}
	return &user, nil
}

// Create provisions a user account. Only owner/admin may create users.
func (s *UserService) Create(caller workflow.Caller, input UserInput) (*db.User, error) {
	if !caller.Role.Elevated() {
		return nil, workflow.ErrForbidden
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if input.Role == workflow.RoleAgency {
		var count int64
		if err := s.db.Model(&db.Agency{}).Where("id = ?", input.AgencyID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, validation.Errors{"agencyId": validation.NewError("validation_exists", "agency does not exist")}
		}
	} else {
		// 非机构角色不挂机构
		input.AgencyID = 0
	}

	username := strings.TrimSpace(input.Username)
	var existing db.User
	if err := s.db.Where("username = ?", username).First(&existing).Error; err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := db.User{
		Username: username,
		Password: string(hashed),
		Role:     input.Role,
		AgencyID: input.AgencyID,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns all users. Only owner/admin may list users.
func (s *UserService) List(caller workflow.Caller) ([]db.User, error) {
	if !caller.Role.Elevated() {
		return nil, workflow.ErrForbidden
	}

	var users []db.User
	if err := s.db.Order("username asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Get fetches one user by id for admin surfaces.
func (s *UserService) Get(caller workflow.Caller, id uint) (*db.User, error) {
	if !caller.Role.Elevated() && caller.ID != id {
		return nil, workflow.ErrForbidden
	}

	var user db.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflow.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
