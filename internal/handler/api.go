package handler

import (
	"github.com/seox/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db        *gorm.DB
	users     *service.UserService
	accounts  *service.AccountService
	posts     *service.PostService
	backlinks *service.BacklinkService
	dashboard *service.DashboardService
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB) *API {
	return &API{
		db:        gdb,
		users:     service.NewUserService(gdb),
		accounts:  service.NewAccountService(gdb),
		posts:     service.NewPostService(gdb),
		backlinks: service.NewBacklinkService(gdb),
		dashboard: service.NewDashboardService(gdb),
	}
}

// DB exposes the underlying gorm instance for bootstrap paths.
func (a *API) DB() *gorm.DB {
	return a.db
}
