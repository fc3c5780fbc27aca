package handler

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/seox/internal/db"
	"github.com/seox/internal/logger"
	"github.com/seox/internal/workflow"
	"gorm.io/gorm"
)

const callerContextKey = "__caller"

// Login 处理登录请求并写入会话。
func (a *API) Login(c *gin.Context) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !bindJSON(c, &input) {
		return
	}

	user, err := a.users.Authenticate(input.Username, input.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save session")
		return
	}

	logger.Info("user logged in", "user_id", user.ID, "role", string(user.Role))
	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
	})
}

// Logout 清除会话。
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to clear session")
		return
	}
	c.Status(http.StatusNoContent)
}

// Session returns the caller bound to the current session.
func (a *API) Session(c *gin.Context) {
	user, ok := c.MustGet(callerContextKey).(*db.User)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
		"agencyId": user.AgencyID,
	})
}

// AuthRequired 校验会话并把解析出的用户放进请求上下文。
// 每次请求都重新读库，角色或机构变更立即生效。
func (a *API) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		rawID := session.Get("user_id")
		if rawID == nil {
			respondError(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}

		userID, ok := rawID.(uint)
		if !ok {
			respondError(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}

		var user db.User
		if err := a.db.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// 会话指向已删除的用户，作废会话
				session.Clear()
				_ = session.Save()
				respondError(c, http.StatusUnauthorized, "authentication required")
			} else {
				respondError(c, http.StatusInternalServerError, "internal error")
			}
			c.Abort()
			return
		}

		c.Set(callerContextKey, &user)
		c.Next()
	}
}

// caller resolves the typed workflow identity for the current request.
func caller(c *gin.Context) workflow.Caller {
	user := c.MustGet(callerContextKey).(*db.User)
	return user.Caller()
}
