package db

import (
	"time"

	"gorm.io/gorm"
)

// Backlink status values. Backlinks are plain CRUD records outside the
// review workflow.
const (
	BacklinkPending = "pending"
	BacklinkActive  = "active"
	BacklinkLost    = "lost"
)

// Backlink 表示为某个 SEO 账号跟踪的一条外链记录。
type Backlink struct {
	gorm.Model
	SeoAccountID uint       `gorm:"index;not null"`
	SeoAccount   SeoAccount `gorm:"foreignKey:SeoAccountID"`
	SourceURL    string     `gorm:"not null"`
	TargetURL    string     `gorm:"not null"`
	AnchorText   string
	Status       string `gorm:"index;not null;default:'pending'"`
	DomainRating int
	FirstSeenAt  *time.Time
}
