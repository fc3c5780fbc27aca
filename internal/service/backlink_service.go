package service

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/seox/internal/db"
	"github.com/seox/internal/workflow"
	"gorm.io/gorm"
)

// BacklinkService wraps backlink tracking CRUD. Backlinks never enter the
// review workflow; access control reuses the account gate.
type BacklinkService struct {
	db *gorm.DB
}

// NewBacklinkService creates a BacklinkService instance.
func NewBacklinkService(gdb *gorm.DB) *BacklinkService {
	return &BacklinkService{db: gdb}
}

// BacklinkInput represents fields accepted when recording a backlink.
type BacklinkInput struct {
	SourceURL    string
	TargetURL    string
	AnchorText   string
	Status       string
	DomainRating int
	FirstSeenAt  *time.Time
}

// Validate 校验外链输入。
func (in BacklinkInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.SourceURL,
			validation.Required.Error("sourceUrl is required"),
			is.URL.Error("sourceUrl must be a valid URL"),
		),
		validation.Field(&in.TargetURL,
			validation.Required.Error("targetUrl is required"),
			is.URL.Error("targetUrl must be a valid URL"),
		),
		validation.Field(&in.Status,
			validation.In(db.BacklinkPending, db.BacklinkActive, db.BacklinkLost).Error("unknown backlink status"),
		),
		validation.Field(&in.DomainRating,
			validation.Min(0).Error("domainRating must not be negative"),
			validation.Max(100).Error("domainRating must be at most 100"),
		),
	)
}

// ListForAccount returns the account's backlinks, newest first.
func (s *BacklinkService) ListForAccount(caller workflow.Caller, accountID uint) ([]db.Backlink, error) {
	account, err := loadAccount(s.db, accountID)
	if err != nil {
		return nil, err
	}
	if err := workflow.Authorize(caller, account.Ref(), workflow.OpView); err != nil {
		return nil, err
	}

	var backlinks []db.Backlink
	if err := s.db.
		Where("seo_account_id = ?", accountID).
		Order("created_at desc, id desc").
		Find(&backlinks).Error; err != nil {
		return nil, err
	}
	return backlinks, nil
}

// Create records a backlink under the account.
func (s *BacklinkService) Create(caller workflow.Caller, accountID uint, input BacklinkInput) (*db.Backlink, error) {
	account, err := loadAccount(s.db, accountID)
	if err != nil {
		return nil, err
	}
	if err := workflow.Authorize(caller, account.Ref(), workflow.OpCreate); err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = db.BacklinkPending
	}

	backlink := db.Backlink{
		SeoAccountID: accountID,
		SourceURL:    strings.TrimSpace(input.SourceURL),
		TargetURL:    strings.TrimSpace(input.TargetURL),
		AnchorText:   strings.TrimSpace(input.AnchorText),
		Status:       status,
		DomainRating: input.DomainRating,
		FirstSeenAt:  input.FirstSeenAt,
	}
	if err := s.db.Create(&backlink).Error; err != nil {
		return nil, err
	}
	return &backlink, nil
}

// Update applies edits to a backlink record.
func (s *BacklinkService) Update(caller workflow.Caller, id uint, input BacklinkInput) (*db.Backlink, error) {
	backlink, err := s.load(id)
	if err != nil {
		return nil, err
	}

	account, err := loadAccount(s.db, backlink.SeoAccountID)
	if err != nil {
		return nil, err
	}
	if err := workflow.Authorize(caller, account.Ref(), workflow.OpEdit); err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	backlink.SourceURL = strings.TrimSpace(input.SourceURL)
	backlink.TargetURL = strings.TrimSpace(input.TargetURL)
	backlink.AnchorText = strings.TrimSpace(input.AnchorText)
	if status := strings.TrimSpace(input.Status); status != "" {
		backlink.Status = status
	}
	backlink.DomainRating = input.DomainRating
	if input.FirstSeenAt != nil {
		backlink.FirstSeenAt = input.FirstSeenAt
	}

	if err := s.db.Save(backlink).Error; err != nil {
		return nil, err
	}
	return backlink, nil
}

// Delete removes a backlink record.
func (s *BacklinkService) Delete(caller workflow.Caller, id uint) error {
	backlink, err := s.load(id)
	if err != nil {
		return err
	}

	account, err := loadAccount(s.db, backlink.SeoAccountID)
	if err != nil {
		return err
	}
	if err := workflow.Authorize(caller, account.Ref(), workflow.OpDelete); err != nil {
		return err
	}

	return s.db.Delete(&db.Backlink{}, backlink.ID).Error
}

func (s *BacklinkService) load(id uint) (*db.Backlink, error) {
	var backlink db.Backlink
	if err := s.db.First(&backlink, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflow.ErrNotFound
		}
		return nil, err
	}
	return &backlink, nil
}
