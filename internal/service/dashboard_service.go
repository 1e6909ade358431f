package service

import (
	"context"
	"time"

	"bizsite/internal/models"
	"bizsite/internal/repository"
	"bizsite/internal/requestlog"
)

// DashboardRepos groups the stores the dashboard aggregates over.
type DashboardRepos struct {
	Users      repository.UserRepository
	Categories repository.CategoryRepository
	Products   repository.ProductRepository
	Services   repository.OfferingRepository
	Projects   repository.ProjectRepository
	Blog       repository.BlogRepository
	Licenses   repository.LicenseRepository
	Contacts   repository.ContactRepository
}

type DashboardService struct {
	repos    DashboardRepos
	requests *requestlog.Ring
	now      Clock
}

type EntityCounts struct {
	Users      int64 `json:"users"`
	Admins     int64 `json:"admins"`
	Categories int64 `json:"categories"`
	Products   int64 `json:"products"`
	Services   int64 `json:"services"`
	Projects   int64 `json:"projects"`
	BlogPosts  int64 `json:"blogPosts"`
	Licenses   int64 `json:"licenses"`
	Contacts   int64 `json:"contacts"`
}

type Dashboard struct {
	Counts          EntityCounts       `json:"counts"`
	LicensesBy      map[string]int64   `json:"licensesByStatus"`
	ExpiredLicenses int64              `json:"expiredLicenses"`
	ContactsBy      map[string]int64   `json:"contactsByStatus"`
	PublishedBy     map[string]int64   `json:"publishedByKind"`
	RecentContacts  []models.Contact   `json:"recentContacts"`
	RecentPosts     []models.BlogPost  `json:"recentPosts"`
	Requests        *requestlog.Stats  `json:"requests,omitempty"`
	RecentRequests  []requestlog.Entry `json:"recentRequests,omitempty"`
	GeneratedAt     time.Time          `json:"generatedAt"`
}

const dashboardRecent = 5

func NewDashboardService(repos DashboardRepos, requests *requestlog.Ring, now Clock) *DashboardService {
	if now == nil {
		now = time.Now
	}
	return &DashboardService{repos: repos, requests: requests, now: now}
}

func (s *DashboardService) Get(ctx context.Context) (*Dashboard, error) {
	r := s.repos
	now := s.now()
	d := &Dashboard{GeneratedAt: now.UTC(), PublishedBy: map[string]int64{}}

	counters := []struct {
		dst   *int64
		count func(context.Context, ...repository.Predicate) (int64, error)
	}{
		{&d.Counts.Users, r.Users.Count},
		{&d.Counts.Categories, r.Categories.Count},
		{&d.Counts.Products, r.Products.Count},
		{&d.Counts.Services, r.Services.Count},
		{&d.Counts.Projects, r.Projects.Count},
		{&d.Counts.BlogPosts, r.Blog.Count},
		{&d.Counts.Licenses, r.Licenses.Count},
		{&d.Counts.Contacts, r.Contacts.Count},
	}
	for _, c := range counters {
		n, err := c.count(ctx)
		if err != nil {
			return nil, err
		}
		*c.dst = n
	}

	var err error
	if d.Counts.Admins, err = r.Users.CountAdmins(ctx); err != nil {
		return nil, err
	}
	if d.LicensesBy, err = r.Licenses.CountBy(ctx, "status"); err != nil {
		return nil, err
	}
	// Stored status lags behind expiry; count lapsed active/unused keys separately.
	if d.ExpiredLicenses, err = r.Licenses.Count(ctx,
		repository.In("status", models.LicenseActive, models.LicenseUnused),
		repository.Before("expires_at", now.UTC()),
	); err != nil {
		return nil, err
	}
	if d.ContactsBy, err = r.Contacts.CountBy(ctx, "status"); err != nil {
		return nil, err
	}

	published := repository.Eq("status", models.StatusPublished)
	for kind, count := range map[string]func(context.Context, ...repository.Predicate) (int64, error){
		"products": r.Products.Count,
		"services": r.Services.Count,
		"projects": r.Projects.Count,
		"blog":     r.Blog.Count,
	} {
		if d.PublishedBy[kind], err = count(ctx, published); err != nil {
			return nil, err
		}
	}

	recent := models.PageRequest{Page: 1, Limit: dashboardRecent}
	if d.RecentContacts, _, err = r.Contacts.List(ctx, repository.ListQuery{Page: recent}); err != nil {
		return nil, err
	}
	if d.RecentPosts, _, err = r.Blog.List(ctx, repository.ListQuery{Page: recent, Order: "created_at DESC"}); err != nil {
		return nil, err
	}
	for i := range d.RecentPosts {
		d.RecentPosts[i].Content = ""
	}

	if s.requests != nil {
		stats := s.requests.Stats(5)
		d.Requests = &stats
		d.RecentRequests = s.requests.Recent(10)
	}
	return d, nil
}
