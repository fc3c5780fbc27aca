package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/seox/internal/service"
	"github.com/seox/internal/workflow"
)

type postPayload struct {
	Title          string   `json:"title"`
	Content        string   `json:"content"`
	Excerpt        string   `json:"excerpt"`
	SeoAccountID   uint     `json:"seoAccountId"`
	TargetKeywords []string `json:"targetKeywords"`
}

func (p postPayload) toInput() service.PostInput {
	return service.PostInput{
		Title:          p.Title,
		Content:        p.Content,
		Excerpt:        p.Excerpt,
		SeoAccountID:   p.SeoAccountID,
		TargetKeywords: p.TargetKeywords,
	}
}

// CreatePost 创建新草稿
func (a *API) CreatePost(c *gin.Context) {
	var payload postPayload
	if !bindJSON(c, &payload) {
		return
	}

	post, err := a.posts.Create(caller(c), payload.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// GetPosts 获取调用方可见的文章列表
func (a *API) GetPosts(c *gin.Context) {
	filter := service.PostFilter{
		SeoAccountID: parseUintQuery(c, "seoAccountId"),
		Status:       workflow.Status(c.Query("status")),
		Search:       c.Query("search"),
		Page:         parseIntQuery(c, "page"),
		PerPage:      parseIntQuery(c, "perPage"),
	}

	result, err := a.posts.List(caller(c), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"posts":        result.Posts,
		"total":        result.Total,
		"totalPages":   result.TotalPages,
		"page":         result.Page,
		"perPage":      result.PerPage,
		"statusCounts": result.StatusCounts,
	})
}

// GetPost 获取单篇文章
func (a *API) GetPost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	post, err := a.posts.Get(caller(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// UpdatePost 在草稿或返工状态下更新文章字段
func (a *API) UpdatePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var payload postPayload
	if !bindJSON(c, &payload) {
		return
	}

	post, err := a.posts.Update(caller(c), id, payload.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// DeletePost 删除未发布的文章
func (a *API) DeletePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.posts.Delete(caller(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SubmitPost 提交草稿或返工稿进入审核
func (a *API) SubmitPost(c *gin.Context) {
	a.transition(c, workflow.ActionSubmit, nil)
}

// ReviewPost 应用审核动作：approve、reject 或 needs_revision
func (a *API) ReviewPost(c *gin.Context) {
	var payload struct {
		Action          string `json:"action"`
		Notes           string `json:"notes"`
		ExpectedVersion int    `json:"expectedVersion"`
	}
	if !bindJSON(c, &payload) {
		return
	}

	var action workflow.Action
	switch payload.Action {
	case "approve":
		action = workflow.ActionApprove
	case "reject":
		action = workflow.ActionReject
	case "needs_revision":
		action = workflow.ActionRequestRevision
	default:
		respondError(c, http.StatusBadRequest, "action must be approve, reject or needs_revision")
		return
	}

	a.transition(c, action, &service.TransitionInput{
		Notes:           payload.Notes,
		ExpectedVersion: payload.ExpectedVersion,
	})
}

// PublishPost 发布已批准的文章
func (a *API) PublishPost(c *gin.Context) {
	var payload struct {
		PublishedURL    string `json:"publishedUrl"`
		ExpectedVersion int    `json:"expectedVersion"`
	}
	if !bindJSON(c, &payload) {
		return
	}

	a.transition(c, workflow.ActionPublish, &service.TransitionInput{
		PublishedURL:    payload.PublishedURL,
		ExpectedVersion: payload.ExpectedVersion,
	})
}

// DiscardPost 把文章打回草稿
func (a *API) DiscardPost(c *gin.Context) {
	a.transition(c, workflow.ActionDiscard, nil)
}

// ArchivePost 归档已发布的文章
func (a *API) ArchivePost(c *gin.Context) {
	a.transition(c, workflow.ActionArchive, nil)
}

func (a *API) transition(c *gin.Context, action workflow.Action, input *service.TransitionInput) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var resolved service.TransitionInput
	if input != nil {
		resolved = *input
	} else {
		// 无主体的转换端点也接受可选的 notes/expectedVersion
		var payload struct {
			Notes           string `json:"notes"`
			ExpectedVersion int    `json:"expectedVersion"`
		}
		if c.Request.Body != nil && c.Request.ContentLength > 0 {
			if !bindJSON(c, &payload) {
				return
			}
		}
		resolved = service.TransitionInput{
			Notes:           payload.Notes,
			ExpectedVersion: payload.ExpectedVersion,
		}
	}

	post, err := a.posts.Transition(caller(c), id, action, resolved)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// GetNotes 返回文章的审核记录
func (a *API) GetNotes(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	notes, err := a.posts.Notes(caller(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

// AddNote 追加一条审核记录
func (a *API) AddNote(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var payload struct {
		Note string `json:"note"`
	}
	if !bindJSON(c, &payload) {
		return
	}

	notes, err := a.posts.AddNote(caller(c), id, payload.Note)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"notes": notes})
}

// PreviewPost 返回正文渲染后的 HTML
func (a *API) PreviewPost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	html, err := a.posts.RenderPreview(caller(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"html": html})
}
