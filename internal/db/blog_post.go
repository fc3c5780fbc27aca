package db

import (
	"time"

	"github.com/seox/internal/workflow"
	"gorm.io/gorm"
)

// BlogPost 定义了文章模型。Status 只能经由 service 层的流程引擎变更，
// Version 在每次流程变更时自增，用于乐观并发控制。
type BlogPost struct {
	gorm.Model
	SeoAccountID   uint            `gorm:"index;not null;uniqueIndex:idx_blog_posts_account_slug"`
	SeoAccount     SeoAccount      `gorm:"foreignKey:SeoAccountID"`
	Title          string          `gorm:"not null"`
	Slug           string          `gorm:"not null;uniqueIndex:idx_blog_posts_account_slug"`
	Content        string          `gorm:"type:text"`
	Excerpt        string          `gorm:"type:text"`
	TargetKeywords []string        `gorm:"serializer:json;type:text"`
	Status         workflow.Status `gorm:"type:text;index;not null;default:'draft'"`
	AuthorID       uint            `gorm:"index;not null"`
	Author         User            `gorm:"foreignKey:AuthorID"`
	ReviewerID     *uint
	Reviewer       *User `gorm:"foreignKey:ReviewerID"`
	PublishedURL   string
	PublishedAt    *time.Time
	Version        int            `gorm:"not null;default:1"`
	RevisionNotes  []RevisionNote `gorm:"foreignKey:BlogPostID"`
}

// RevisionNote 是附在文章上的只追加审核记录，任何路径都不得修改或删除已有条目。
type RevisionNote struct {
	ID         uint   `gorm:"primarykey"`
	BlogPostID uint   `gorm:"index;not null"`
	AuthorID   uint   `gorm:"not null"`
	Author     User   `gorm:"foreignKey:AuthorID"`
	Note       string `gorm:"type:text;not null"`
	CreatedAt  time.Time
}
