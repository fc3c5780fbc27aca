package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/seox/internal/service"
)

type accountPayload struct {
	AccountName      string `json:"accountName"`
	Domain           string `json:"domain"`
	AssignedAgencyID uint   `json:"assignedAgencyId"`
	ClientUserID     uint   `json:"clientUserId"`
	RequiresApproval *bool  `json:"requiresApproval"`
}

func (p accountPayload) toInput() service.AccountInput {
	return service.AccountInput{
		AccountName:      p.AccountName,
		Domain:           p.Domain,
		AssignedAgencyID: p.AssignedAgencyID,
		ClientUserID:     p.ClientUserID,
		RequiresApproval: p.RequiresApproval,
	}
}

// CreateAccount 创建 SEO 账号，仅限 owner/admin
func (a *API) CreateAccount(c *gin.Context) {
	var payload accountPayload
	if !bindJSON(c, &payload) {
		return
	}

	account, err := a.accounts.Create(caller(c), payload.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"account": account})
}

// GetAccounts 获取调用方可见的账号列表
func (a *API) GetAccounts(c *gin.Context) {
	accounts, err := a.accounts.List(caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

// GetAccount 获取单个账号
func (a *API) GetAccount(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	account, err := a.accounts.Get(caller(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": account})
}

// UpdateAccount 更新账号信息，仅限 owner/admin
func (a *API) UpdateAccount(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var payload accountPayload
	if !bindJSON(c, &payload) {
		return
	}

	account, err := a.accounts.Update(caller(c), id, payload.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": account})
}

// DeleteAccount 删除没有关联数据的账号
func (a *API) DeleteAccount(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.accounts.Delete(caller(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
