package main

import (
	"fmt"
	"log"
	"time"

	"github.com/seox/internal/config"
	"github.com/seox/internal/db"
	"github.com/seox/internal/workflow"
	"golang.org/x/crypto/bcrypt"
)

// 开发环境测试数据生成器
func main() {
	cfg := config.Load()
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成测试数据...")

	agencies := createAgencies()
	users := createUsers(agencies)
	accounts := createAccounts(agencies, users)
	createPosts(users, accounts)
	createBacklinks(accounts)

	fmt.Println("测试数据生成完成！")
	fmt.Println("owner: root (密码: rootpass123)")
	fmt.Println("admin: admin (密码: admin12345)")
	fmt.Println("agency: writer-north / writer-south (密码: writerpass)")
	fmt.Println("client: client-acme (密码: clientpass)")
}

func createAgencies() map[string]db.Agency {
	out := map[string]db.Agency{}
	for _, name := range []string{"North Star Media", "Southbank Digital"} {
		var agency db.Agency
		if err := db.DB.Where("name = ?", name).First(&agency).Error; err != nil {
			agency = db.Agency{Name: name}
			db.DB.Create(&agency)
		}
		out[name] = agency
	}
	fmt.Println("✅ 机构创建完成")
	return out
}

func createUsers(agencies map[string]db.Agency) map[string]db.User {
	var count int64
	db.DB.Model(&db.User{}).Count(&count)
	if count > 0 {
		fmt.Println("用户已存在，跳过创建")
		users := map[string]db.User{}
		var all []db.User
		db.DB.Find(&all)
		for _, u := range all {
			users[u.Username] = u
		}
		return users
	}

	north := agencies["North Star Media"].ID
	south := agencies["Southbank Digital"].ID

	seed := []db.User{
		{Username: "root", Password: hash("rootpass123"), Role: workflow.RoleOwner},
		{Username: "admin", Password: hash("admin12345"), Role: workflow.RoleAdmin},
		{Username: "writer-north", Password: hash("writerpass"), Role: workflow.RoleAgency, AgencyID: north},
		{Username: "writer-south", Password: hash("writerpass"), Role: workflow.RoleAgency, AgencyID: south},
		{Username: "client-acme", Password: hash("clientpass"), Role: workflow.RoleClient},
	}

	users := map[string]db.User{}
	for _, user := range seed {
		db.DB.Create(&user)
		users[user.Username] = user
	}

	fmt.Println("✅ 测试用户创建完成")
	return users
}

func createAccounts(agencies map[string]db.Agency, users map[string]db.User) map[string]db.SeoAccount {
	var count int64
	db.DB.Model(&db.SeoAccount{}).Count(&count)
	if count > 0 {
		fmt.Println("SEO 账号已存在，跳过创建")
		out := map[string]db.SeoAccount{}
		var all []db.SeoAccount
		db.DB.Find(&all)
		for _, a := range all {
			out[a.AccountName] = a
		}
		return out
	}

	reviewed := true
	auto := false
	seed := []db.SeoAccount{
		{
			AccountName:      "Acme Plumbing",
			Domain:           "acmeplumbing.example.com",
			AssignedAgencyID: agencies["North Star Media"].ID,
			ClientUserID:     users["client-acme"].ID,
			RequiresApproval: reviewed,
		},
		{
			AccountName:      "Beta Fitness",
			Domain:           "betafitness.example.com",
			AssignedAgencyID: agencies["North Star Media"].ID,
			RequiresApproval: auto,
		},
		{
			AccountName:      "Gamma Roofing",
			Domain:           "gammaroofing.example.com",
			AssignedAgencyID: agencies["Southbank Digital"].ID,
			RequiresApproval: reviewed,
		},
	}

	out := map[string]db.SeoAccount{}
	for _, account := range seed {
		db.DB.Create(&account)
		out[account.AccountName] = account
	}

	fmt.Println("✅ SEO 账号创建完成")
	return out
}

func createPosts(users map[string]db.User, accounts map[string]db.SeoAccount) {
	var count int64
	db.DB.Model(&db.BlogPost{}).Count(&count)
	if count > 0 {
		fmt.Println("文章已存在，跳过创建")
		return
	}

	author := users["writer-north"]
	admin := users["admin"]
	now := time.Now()
	publishedAt := now.Add(-48 * time.Hour)

	posts := []db.BlogPost{
		{
			SeoAccountID:   accounts["Acme Plumbing"].ID,
			Title:          "Emergency Plumbing Checklist for Homeowners",
			Slug:           "emergency-plumbing-checklist-for-homeowners",
			Content:        "## When the pipes burst\n\nShut off the main valve first, then document the damage for your insurer. A well-prepared homeowner can cut repair costs in half.",
			Excerpt:        "Shut off the main valve first, then document the damage for your insurer.",
			TargetKeywords: []string{"emergency plumbing", "burst pipe repair"},
			Status:         workflow.StatusDraft,
			AuthorID:       author.ID,
			Version:        1,
		},
		{
			SeoAccountID:   accounts["Acme Plumbing"].ID,
			Title:          "How Often Should You Service a Water Heater",
			Slug:           "how-often-should-you-service-a-water-heater",
			Content:        "Annual flushing extends the life of most tank heaters. Hard-water regions should consider a six month cadence.",
			Excerpt:        "Annual flushing extends the life of most tank heaters.",
			TargetKeywords: []string{"water heater maintenance"},
			Status:         workflow.StatusUnderReview,
			AuthorID:       author.ID,
			Version:        2,
		},
		{
			SeoAccountID:   accounts["Acme Plumbing"].ID,
			Title:          "Signs Your Sewer Line Needs Attention",
			Slug:           "signs-your-sewer-line-needs-attention",
			Content:        "Slow drains across several fixtures usually point at the main line, not the individual traps.",
			Excerpt:        "Slow drains across several fixtures usually point at the main line.",
			TargetKeywords: []string{"sewer line repair", "drain cleaning"},
			Status:         workflow.StatusPublished,
			AuthorID:       author.ID,
			ReviewerID:     &admin.ID,
			PublishedURL:   "https://acmeplumbing.example.com/blog/signs-your-sewer-line-needs-attention",
			PublishedAt:    &publishedAt,
			Version:        4,
		},
		{
			SeoAccountID:   accounts["Gamma Roofing"].ID,
			Title:          "Metal vs Asphalt Shingles Cost Breakdown",
			Slug:           "metal-vs-asphalt-shingles-cost-breakdown",
			Content:        "Metal costs more upfront but roughly doubles the service life in most climates.",
			Excerpt:        "Metal costs more upfront but roughly doubles the service life.",
			TargetKeywords: []string{"metal roofing cost"},
			Status:         workflow.StatusNeedsRevision,
			AuthorID:       users["writer-south"].ID,
			ReviewerID:     &admin.ID,
			Version:        3,
		},
		{
			SeoAccountID:   accounts["Beta Fitness"].ID,
			Title:          "Five Mobility Drills for Desk Workers",
			Slug:           "five-mobility-drills-for-desk-workers",
			Content:        "Hip flexor stretches and thoracic rotations undo most of what eight seated hours do to you.",
			Excerpt:        "Hip flexor stretches and thoracic rotations undo most of a seated day.",
			TargetKeywords: []string{"mobility drills", "desk stretches"},
			Status:         workflow.StatusApproved,
			AuthorID:       author.ID,
			Version:        2,
		},
	}

	for i := range posts {
		if err := db.DB.Create(&posts[i]).Error; err != nil {
			log.Printf("创建文章失败: %v", err)
			continue
		}
	}

	// 给审核中的文章补一条历史记录
	var underReview db.BlogPost
	if err := db.DB.Where("status = ?", workflow.StatusUnderReview).First(&underReview).Error; err == nil {
		note := db.RevisionNote{
			BlogPostID: underReview.ID,
			AuthorID:   author.ID,
			Note:       "Submitted for review: tightened the intro per last round of feedback.",
		}
		db.DB.Create(&note)
	}

	fmt.Println("✅ 测试文章创建完成")
}

func createBacklinks(accounts map[string]db.SeoAccount) {
	var count int64
	db.DB.Model(&db.Backlink{}).Count(&count)
	if count > 0 {
		fmt.Println("外链已存在，跳过创建")
		return
	}

	firstSeen := time.Now().Add(-30 * 24 * time.Hour)
	links := []db.Backlink{
		{
			SeoAccountID: accounts["Acme Plumbing"].ID,
			SourceURL:    "https://hometips.example.org/best-plumbers",
			TargetURL:    "https://acmeplumbing.example.com/",
			AnchorText:   "trusted local plumber",
			Status:       db.BacklinkActive,
			DomainRating: 54,
			FirstSeenAt:  &firstSeen,
		},
		{
			SeoAccountID: accounts["Acme Plumbing"].ID,
			SourceURL:    "https://diyforum.example.net/thread/9921",
			TargetURL:    "https://acmeplumbing.example.com/blog/signs-your-sewer-line-needs-attention",
			AnchorText:   "sewer line guide",
			Status:       db.BacklinkPending,
			DomainRating: 31,
		},
		{
			SeoAccountID: accounts["Beta Fitness"].ID,
			SourceURL:    "https://wellness.example.io/roundup",
			TargetURL:    "https://betafitness.example.com/",
			AnchorText:   "mobility program",
			Status:       db.BacklinkLost,
			DomainRating: 47,
			FirstSeenAt:  &firstSeen,
		},
	}

	for i := range links {
		db.DB.Create(&links[i])
	}

	fmt.Println("✅ 外链数据创建完成")
}

func hash(password string) string {
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hashed)
}
