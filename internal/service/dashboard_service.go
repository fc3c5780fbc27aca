package service

import (
	"github.com/seox/internal/db"
	"github.com/seox/internal/workflow"
	"gorm.io/gorm"
)

// DashboardService aggregates the counters the dashboard renders, scoped to
// the caller's visible accounts.
type DashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a DashboardService instance.
func NewDashboardService(gdb *gorm.DB) *DashboardService {
	return &DashboardService{db: gdb}
}

// DashboardStats 汇总仪表盘所需的统计数据。
type DashboardStats struct {
	AccountCount   int64
	PostCount      int64
	PostCounts     map[workflow.Status]int64
	BacklinkCount  int64
	BacklinkCounts map[string]int64
	RecentPosts    []db.BlogPost
}

// Stats computes the dashboard aggregates for the caller.
func (s *DashboardService) Stats(caller workflow.Caller) (*DashboardStats, error) {
	stats := &DashboardStats{
		PostCounts:     map[workflow.Status]int64{},
		BacklinkCounts: map[string]int64{},
	}

	ids, err := visibleAccountIDs(s.db, caller)
	if err != nil {
		return nil, err
	}
	stats.AccountCount = int64(len(ids))
	if len(ids) == 0 {
		return stats, nil
	}

	var postRows []struct {
		Status workflow.Status
		Count  int64
	}
	if err := s.db.Model(&db.BlogPost{}).
		Select("status, COUNT(*) AS count").
		Where("seo_account_id IN ?", ids).
		Group("status").
		Find(&postRows).Error; err != nil {
		return nil, err
	}
	for _, row := range postRows {
		stats.PostCounts[row.Status] = row.Count
		stats.PostCount += row.Count
	}

	var backlinkRows []struct {
		Status string
		Count  int64
	}
	if err := s.db.Model(&db.Backlink{}).
		Select("status, COUNT(*) AS count").
		Where("seo_account_id IN ?", ids).
		Group("status").
		Find(&backlinkRows).Error; err != nil {
		return nil, err
	}
	for _, row := range backlinkRows {
		stats.BacklinkCounts[row.Status] = row.Count
		stats.BacklinkCount += row.Count
	}

	if err := s.db.Model(&db.BlogPost{}).
		Preload("SeoAccount").
		Preload("Author").
		Where("seo_account_id IN ?", ids).
		Order("updated_at desc, id desc").
		Limit(5).
		Find(&stats.RecentPosts).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
