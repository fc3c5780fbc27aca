package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/seox/internal/db"
	"github.com/seox/internal/metrics"
	"github.com/seox/internal/workflow"
	"gorm.io/gorm"
)

var (
	// ErrPostPublished is returned on delete attempts against a published
	// post; published posts must be archived first.
	ErrPostPublished = errors.New("published posts must be archived before deletion")

	// ErrEditLocked is returned when a post's status forbids field edits.
	ErrEditLocked = errors.New("post is not editable in its current status")
)

// PostService 实现文章的审核发布流程引擎：角色授权、状态转换、
// 审核记录与乐观并发控制都经由它。
type PostService struct {
	db *gorm.DB
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb}
}

// PostInput represents fields accepted when creating or updating a post.
type PostInput struct {
	Title          string
	Content        string
	Excerpt        string
	SeoAccountID   uint
	TargetKeywords []string
}

// Validate 校验创建/更新输入，返回带字段明细的 validation.Errors。
func (in PostInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, 200).Error("title must be at most 200 characters"),
		),
		validation.Field(&in.Content,
			validation.Required.Error("content is required"),
		),
		validation.Field(&in.SeoAccountID,
			validation.Required.Error("seoAccountId is required"),
		),
	)
}

// TransitionInput carries the optional payload of a transition request.
// ExpectedVersion, when non-zero, lets the caller fail fast with a conflict
// if the post moved since it was read.
type TransitionInput struct {
	Notes           string
	PublishedURL    string
	ExpectedVersion int
}

// PostFilter describes filters for listing posts.
type PostFilter struct {
	SeoAccountID uint
	Status       workflow.Status
	Search       string
	Page         int
	PerPage      int
}

// PostListResult aggregates paginated list data and per-status counters.
type PostListResult struct {
	Posts        []db.BlogPost
	Total        int64
	StatusCounts map[workflow.Status]int64
	TotalPages   int
	Page         int
	PerPage      int
}

// Create persists a new draft owned by the caller.
func (s *PostService) Create(caller workflow.Caller, input PostInput) (*db.BlogPost, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	account, err := loadAccount(s.db, input.SeoAccountID)
	if err != nil {
		return nil, err
	}
	if err := workflow.Authorize(caller, account.Ref(), workflow.OpCreate); err != nil {
		return nil, err
	}

	post := db.BlogPost{
		SeoAccountID:   input.SeoAccountID,
		Title:          strings.TrimSpace(input.Title),
		Content:        input.Content,
		Excerpt:        resolveExcerpt(input),
		TargetKeywords: input.TargetKeywords,
		Status:         workflow.StatusDraft,
		AuthorID:       caller.ID,
		Version:        1,
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		slug, err := uniqueSlug(tx, post.SeoAccountID, post.Title, 0)
		if err != nil {
			return err
		}
		post.Slug = slug
		return tx.Create(&post).Error
	}); err != nil {
		return nil, err
	}

	return s.load(post.ID)
}

// Get fetches a post visible to the caller.
func (s *PostService) Get(caller workflow.Caller, id uint) (*db.BlogPost, error) {
	post, err := s.load(id)
	if err != nil {
		return nil, err
	}

	account, err := loadAccount(s.db, post.SeoAccountID)
	if err != nil {
		return nil, err
	}
	if err := workflow.Authorize(caller, account.Ref(), workflow.OpView); err != nil {
		return nil, err
	}
	return post, nil
}

// Update applies field edits while the post sits in draft or needs_revision.
// The write is version-guarded so an edit racing a transition loses cleanly.
func (s *PostService) Update(caller workflow.Caller, id uint, input PostInput) (*db.BlogPost, error) {
	post, err := s.load(id)
	if err != nil {
		return nil, err
	}

	account, err := loadAccount(s.db, post.SeoAccountID)
	if err != nil {
		return nil, err
	}
	if err := workflow.Authorize(caller, account.Ref(), workflow.OpEdit); err != nil {
		return nil, err
	}

	if post.Status != workflow.StatusDraft && post.Status != workflow.StatusNeedsRevision {
		return nil, ErrEditLocked
	}

	// 编辑不允许把文章挪到其他账号
	input.SeoAccountID = post.SeoAccountID
	if err := input.Validate(); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if err := s.db.Transaction(func(tx *gorm.DB) error {
		slug := post.Slug
		if title != post.Title {
			fresh, err := uniqueSlug(tx, post.SeoAccountID, title, post.ID)
			if err != nil {
				return err
			}
			slug = fresh
		}

		// map 更新不经过 gorm 的序列化器，关键词手动按列格式编码
		keywords, err := json.Marshal(input.TargetKeywords)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"title":           title,
			"slug":            slug,
			"content":         input.Content,
			"excerpt":         resolveExcerpt(input),
			"target_keywords": string(keywords),
			"version":         post.Version + 1,
		}

		res := tx.Model(&db.BlogPost{}).
			Where("id = ? AND version = ?", post.ID, post.Version).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return workflow.ErrConflict
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return s.load(post.ID)
}

// Delete removes a non-published post. Published posts must go through
// archive first.
func (s *PostService) Delete(caller workflow.Caller, id uint) error {
	post, err := s.load(id)
	if err != nil {
		return err
	}

	account, err := loadAccount(s.db, post.SeoAccountID)
	if err != nil {
		return err
	}
	if err := workflow.Authorize(caller, account.Ref(), workflow.OpDelete); err != nil {
		return err
	}

	if post.Status == workflow.StatusPublished {
		return ErrPostPublished
	}

	return s.db.Delete(&db.BlogPost{}, post.ID).Error
}

// Transition applies a workflow action to the post and returns the updated
// record. Illegal edges, denied roles and lost races leave the record
// untouched.
func (s *PostService) Transition(caller workflow.Caller, postID uint, action workflow.Action, input TransitionInput) (*db.BlogPost, error) {
	post, err := s.load(postID)
	if err != nil {
		return nil, err
	}
	return s.applyTransition(caller, post, action, input)
}

// applyTransition runs the full gate/validate/resolve/CAS pipeline against
// an already-loaded snapshot of the post. A stale snapshot surfaces as
// workflow.ErrConflict.
func (s *PostService) applyTransition(caller workflow.Caller, post *db.BlogPost, action workflow.Action, input TransitionInput) (*db.BlogPost, error) {
	account, err := loadAccount(s.db, post.SeoAccountID)
	if err != nil {
		return nil, err
	}
	if err := workflow.Authorize(caller, account.Ref(), workflow.OpTransition); err != nil {
		recordOutcome(action, err)
		return nil, err
	}
	if !workflow.RoleMayAct(caller.Role, action) {
		recordOutcome(action, workflow.ErrForbidden)
		return nil, workflow.ErrForbidden
	}

	if input.ExpectedVersion > 0 && input.ExpectedVersion != post.Version {
		recordOutcome(action, workflow.ErrConflict)
		return nil, workflow.ErrConflict
	}

	rule, known := workflow.Lookup(action)
	note := strings.TrimSpace(input.Notes)
	if known && rule.RequiresNote && note == "" {
		err := validation.Errors{"notes": validation.NewError("validation_required", "a non-empty note is required")}
		recordOutcome(action, err)
		return nil, err
	}

	target, err := workflow.Resolve(action, post.Status)
	if err != nil {
		recordOutcome(action, err)
		return nil, err
	}

	updates := map[string]interface{}{
		"status":  target,
		"version": post.Version + 1,
	}
	if rule.SetsReviewer {
		updates["reviewer_id"] = caller.ID
	}

	switch action {
	case workflow.ActionSubmit:
		if err := validateSubmittable(post); err != nil {
			recordOutcome(action, err)
			return nil, err
		}
		// requiresApproval 只在提交时读取一次；草稿提交在免审账号上直达 approved
		if post.Status == workflow.StatusDraft && account != nil && !account.RequiresApproval {
			target = workflow.StatusApproved
			updates["status"] = target
		}
	case workflow.ActionPublish:
		url := strings.TrimSpace(input.PublishedURL)
		if err := validation.Validate(url,
			validation.Required.Error("publishedUrl is required"),
			is.URL.Error("publishedUrl must be a valid URL"),
		); err != nil {
			wrapped := validation.Errors{"publishedUrl": err}
			recordOutcome(action, wrapped)
			return nil, wrapped
		}
		updates["published_url"] = url
		updates["published_at"] = time.Now()
	case workflow.ActionArchive:
		// 只有 published 状态可以持有 PublishedURL
		updates["published_url"] = ""
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&db.BlogPost{}).
			Where("id = ? AND version = ?", post.ID, post.Version).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return workflow.ErrConflict
		}

		if note != "" {
			return tx.Create(&db.RevisionNote{
				BlogPostID: post.ID,
				AuthorID:   caller.ID,
				Note:       note,
			}).Error
		}
		return nil
	})
	if err != nil {
		recordOutcome(action, err)
		return nil, err
	}

	recordOutcome(action, nil)
	return s.load(post.ID)
}

// AddNote appends an entry to the post's revision history and returns the
// full ordered history. Entries are never edited or removed.
func (s *PostService) AddNote(caller workflow.Caller, postID uint, text string) ([]db.RevisionNote, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, validation.Errors{"note": validation.NewError("validation_required", "note text is required")}
	}

	post, err := s.load(postID)
	if err != nil {
		return nil, err
	}

	account, err := loadAccount(s.db, post.SeoAccountID)
	if err != nil {
		return nil, err
	}
	if err := workflow.Authorize(caller, account.Ref(), workflow.OpEdit); err != nil {
		return nil, err
	}

	if err := s.db.Create(&db.RevisionNote{
		BlogPostID: post.ID,
		AuthorID:   caller.ID,
		Note:       trimmed,
	}).Error; err != nil {
		return nil, err
	}

	return s.notesFor(post.ID)
}

// Notes returns the post's revision history in insertion order.
func (s *PostService) Notes(caller workflow.Caller, postID uint) ([]db.RevisionNote, error) {
	post, err := s.load(postID)
	if err != nil {
		return nil, err
	}

	account, err := loadAccount(s.db, post.SeoAccountID)
	if err != nil {
		return nil, err
	}
	if err := workflow.Authorize(caller, account.Ref(), workflow.OpView); err != nil {
		return nil, err
	}

	return s.notesFor(post.ID)
}

// RenderPreview returns the sanitized HTML rendering of the post content.
func (s *PostService) RenderPreview(caller workflow.Caller, postID uint) (string, error) {
	post, err := s.Get(caller, postID)
	if err != nil {
		return "", err
	}
	return RenderContent(post.Content)
}

// List provides paginated posts scoped to the caller's visible accounts,
// with per-status counters computed over the same scope.
func (s *PostService) List(caller workflow.Caller, filter PostFilter) (*PostListResult, error) {
	result := &PostListResult{
		Page:         filter.Page,
		PerPage:      filter.PerPage,
		StatusCounts: map[workflow.Status]int64{},
	}
	if result.Page <= 0 {
		result.Page = 1
	}
	if result.PerPage <= 0 {
		result.PerPage = 10
	}

	if filter.Status != "" && !filter.Status.Valid() {
		return nil, validation.Errors{"status": validation.NewError("validation_in", "unknown status")}
	}

	if filter.SeoAccountID != 0 {
		account, err := loadAccount(s.db, filter.SeoAccountID)
		if err != nil {
			return nil, err
		}
		if err := workflow.Authorize(caller, account.Ref(), workflow.OpView); err != nil {
			return nil, err
		}
	}

	scopeIDs, scoped, err := s.listScope(caller)
	if err != nil {
		return nil, err
	}
	if scoped && len(scopeIDs) == 0 {
		result.TotalPages = 1
		return result, nil
	}

	applyScope := func(query *gorm.DB) *gorm.DB {
		if scoped {
			query = query.Where("blog_posts.seo_account_id IN ?", scopeIDs)
		}
		if filter.SeoAccountID != 0 {
			query = query.Where("blog_posts.seo_account_id = ?", filter.SeoAccountID)
		}
		if filter.Search != "" {
			search := "%" + filter.Search + "%"
			query = query.Where(
				"(blog_posts.title LIKE ? OR blog_posts.content LIKE ? OR blog_posts.excerpt LIKE ?)",
				search, search, search,
			)
		}
		return query
	}

	countQuery := applyScope(s.db.Model(&db.BlogPost{}))
	if filter.Status != "" {
		countQuery = countQuery.Where("blog_posts.status = ?", filter.Status)
	}
	if err := countQuery.Count(&result.Total).Error; err != nil {
		return nil, err
	}

	var rows []struct {
		Status workflow.Status
		Count  int64
	}
	if err := applyScope(s.db.Model(&db.BlogPost{})).
		Select("blog_posts.status AS status, COUNT(*) AS count").
		Group("blog_posts.status").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result.StatusCounts[row.Status] = row.Count
	}

	offset := (result.Page - 1) * result.PerPage

	dataQuery := applyScope(s.db.Model(&db.BlogPost{}).
		Preload("SeoAccount").
		Preload("Author").
		Preload("Reviewer"))
	if filter.Status != "" {
		dataQuery = dataQuery.Where("blog_posts.status = ?", filter.Status)
	}

	var posts []db.BlogPost
	if err := dataQuery.
		Order("blog_posts.created_at desc, blog_posts.id desc").
		Limit(result.PerPage).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, err
	}

	if result.Total == 0 {
		result.TotalPages = 1
	} else {
		result.TotalPages = int((result.Total + int64(result.PerPage) - 1) / int64(result.PerPage))
	}

	result.Posts = posts
	return result, nil
}

func (s *PostService) listScope(caller workflow.Caller) ([]uint, bool, error) {
	if caller.Role.Elevated() {
		return nil, false, nil
	}
	ids, err := visibleAccountIDs(s.db, caller)
	if err != nil {
		return nil, false, err
	}
	return ids, true, nil
}

func (s *PostService) load(id uint) (*db.BlogPost, error) {
	var post db.BlogPost
	if err := s.db.
		Preload("SeoAccount").
		Preload("Author").
		Preload("Reviewer").
		Preload("RevisionNotes", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("revision_notes.created_at asc, revision_notes.id asc")
		}).
		First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflow.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (s *PostService) notesFor(postID uint) ([]db.RevisionNote, error) {
	var notes []db.RevisionNote
	if err := s.db.
		Preload("Author").
		Where("blog_post_id = ?", postID).
		Order("created_at asc, id asc").
		Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func resolveExcerpt(input PostInput) string {
	if excerpt := strings.TrimSpace(input.Excerpt); excerpt != "" {
		return excerpt
	}
	return DeriveExcerpt(input.Content, 200)
}

// validateSubmittable 检查提交所需的非空字段。
func validateSubmittable(post *db.BlogPost) error {
	errs := validation.Errors{}
	if strings.TrimSpace(post.Title) == "" {
		errs["title"] = validation.NewError("validation_required", "title is required before submission")
	}
	if strings.TrimSpace(post.Content) == "" {
		errs["content"] = validation.NewError("validation_required", "content is required before submission")
	}
	if post.SeoAccountID == 0 {
		errs["seoAccountId"] = validation.NewError("validation_required", "seoAccountId is required before submission")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// uniqueSlug derives an account-scoped slug from the title, suffixing a
// counter on collisions.
func uniqueSlug(tx *gorm.DB, accountID uint, title string, excludeID uint) (string, error) {
	base := Slugify(title)
	if base == "" {
		base = "post"
	}

	candidate := base
	for i := 2; ; i++ {
		var count int64
		query := tx.Model(&db.BlogPost{}).
			Where("seo_account_id = ? AND slug = ?", accountID, candidate)
		if excludeID != 0 {
			query = query.Where("id <> ?", excludeID)
		}
		if err := query.Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

func recordOutcome(action workflow.Action, err error) {
	switch {
	case err == nil:
		metrics.RecordTransition(string(action), metrics.OutcomeApplied)
	case errors.Is(err, workflow.ErrConflict):
		metrics.RecordTransition(string(action), metrics.OutcomeConflict)
	case errors.Is(err, workflow.ErrForbidden), errors.Is(err, workflow.ErrNotFound):
		metrics.RecordTransition(string(action), metrics.OutcomeDenied)
	case workflow.IsInvalidTransition(err):
		metrics.RecordTransition(string(action), metrics.OutcomeInvalid)
	case isValidationError(err):
		metrics.RecordTransition(string(action), metrics.OutcomeRejected)
	default:
		metrics.RecordTransition(string(action), metrics.OutcomeErrored)
	}
}

func isValidationError(err error) bool {
	var verrs validation.Errors
	return errors.As(err, &verrs)
}
