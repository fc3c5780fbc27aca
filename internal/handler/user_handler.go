package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/seox/internal/service"
	"github.com/seox/internal/workflow"
)

// CreateUser 创建用户，仅限 owner/admin
func (a *API) CreateUser(c *gin.Context) {
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Role     string `json:"role"`
		AgencyID uint   `json:"agencyId"`
	}
	if !bindJSON(c, &payload) {
		return
	}

	user, err := a.users.Create(caller(c), service.UserInput{
		Username: payload.Username,
		Password: payload.Password,
		Role:     workflow.Role(payload.Role),
		AgencyID: payload.AgencyID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": gin.H{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
		"agencyId": user.AgencyID,
	}})
}

// GetUsers 列出全部用户，仅限 owner/admin
func (a *API) GetUsers(c *gin.Context) {
	users, err := a.users.List(caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	out := make([]gin.H, 0, len(users))
	for _, user := range users {
		out = append(out, gin.H{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
			"agencyId": user.AgencyID,
		})
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

// GetUser 获取单个用户；普通用户只能看自己
func (a *API) GetUser(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := a.users.Get(caller(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": gin.H{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
		"agencyId": user.AgencyID,
	}})
}

// GetDashboard 返回调用方可见范围内的统计数据
func (a *API) GetDashboard(c *gin.Context) {
	stats, err := a.dashboard.Stats(caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"accountCount":   stats.AccountCount,
		"postCount":      stats.PostCount,
		"postCounts":     stats.PostCounts,
		"backlinkCount":  stats.BacklinkCount,
		"backlinkCounts": stats.BacklinkCounts,
		"recentPosts":    stats.RecentPosts,
	})
}
