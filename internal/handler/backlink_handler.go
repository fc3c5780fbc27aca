package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/seox/internal/service"
)

type backlinkPayload struct {
	SourceURL    string     `json:"sourceUrl"`
	TargetURL    string     `json:"targetUrl"`
	AnchorText   string     `json:"anchorText"`
	Status       string     `json:"status"`
	DomainRating int        `json:"domainRating"`
	FirstSeenAt  *time.Time `json:"firstSeenAt"`
}

func (p backlinkPayload) toInput() service.BacklinkInput {
	return service.BacklinkInput{
		SourceURL:    p.SourceURL,
		TargetURL:    p.TargetURL,
		AnchorText:   p.AnchorText,
		Status:       p.Status,
		DomainRating: p.DomainRating,
		FirstSeenAt:  p.FirstSeenAt,
	}
}

// GetBacklinks 获取某账号下的外链列表
func (a *API) GetBacklinks(c *gin.Context) {
	accountID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	backlinks, err := a.backlinks.ListForAccount(caller(c), accountID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"backlinks": backlinks})
}

// CreateBacklink 为账号记录一条外链
func (a *API) CreateBacklink(c *gin.Context) {
	accountID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var payload backlinkPayload
	if !bindJSON(c, &payload) {
		return
	}

	backlink, err := a.backlinks.Create(caller(c), accountID, payload.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"backlink": backlink})
}

// UpdateBacklink 更新外链状态或属性
func (a *API) UpdateBacklink(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var payload backlinkPayload
	if !bindJSON(c, &payload) {
		return
	}

	backlink, err := a.backlinks.Update(caller(c), id, payload.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"backlink": backlink})
}

// DeleteBacklink 删除外链记录
func (a *API) DeleteBacklink(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.backlinks.Delete(caller(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
