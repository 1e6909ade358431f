// Package service implements the business operations behind the HTTP handlers.
package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"bizsite/internal/cache"
	"bizsite/internal/models"
	"bizsite/internal/repository"
	"bizsite/internal/validation"
)

// ListContentInput is the shared filter set of content list endpoints.
type ListContentInput struct {
	Page       int    `query:"page"`
	Limit      int    `query:"limit"`
	Search     string `query:"search"`
	Status     string `query:"status"`
	CategoryID uint   `query:"categoryId"`
	Featured   string `query:"featured"`
}

// PageRequest returns the normalised pagination window.
func (in ListContentInput) PageRequest() models.PageRequest {
	return models.PageRequest{Page: in.Page, Limit: in.Limit}.Normalize()
}

func (in ListContentInput) filters(searchCols ...string) (repository.Filters, error) {
	f := repository.Filters{}.SearchIf(in.Search, searchCols...)
	if in.Status != "" {
		status, err := parseContentStatus(in.Status)
		if err != nil {
			return nil, err
		}
		f = append(f, repository.Eq("status", status))
	}
	f = f.EqIf(in.CategoryID != 0, "category_id", in.CategoryID)
	if in.Featured != "" {
		featured, err := strconv.ParseBool(in.Featured)
		if err != nil {
			return nil, models.NewValidationError("featured must be true or false")
		}
		f = append(f, repository.Eq("is_featured", featured))
	}
	return f, nil
}

// cacheKey identifies a public list query for the cache.
func (in ListContentInput) cacheKey() string {
	p := in.PageRequest()
	v := url.Values{}
	v.Set("page", strconv.Itoa(p.Page))
	v.Set("limit", strconv.Itoa(p.Limit))
	v.Set("search", strings.ToLower(strings.TrimSpace(in.Search)))
	v.Set("category", strconv.FormatUint(uint64(in.CategoryID), 10))
	v.Set("featured", in.Featured)
	return v.Encode()
}

func parseContentStatus(s string) (models.ContentStatus, error) {
	status := models.ContentStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", models.NewValidationError("status must be one of draft, published, archived")
	}
	return status, nil
}

func requireText(field string, v *string, max int) (string, error) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return "", models.NewValidationError(field + " is required")
	}
	return checkLength(field, strings.TrimSpace(*v), max)
}

func checkLength(field, v string, max int) (string, error) {
	if max > 0 && len([]rune(v)) > max {
		return "", models.NewValidationError(fmt.Sprintf("%s must be at most %d characters", field, max))
	}
	return v, nil
}

// setText trims and assigns *v to dst when v is non-nil.
func setText(dst *string, field string, v *string, max int) error {
	if v == nil {
		return nil
	}
	out, err := checkLength(field, strings.TrimSpace(*v), max)
	if err != nil {
		return err
	}
	*dst = out
	return nil
}

func setStatus(dst *models.ContentStatus, v *string) error {
	if v == nil {
		return nil
	}
	status, err := parseContentStatus(*v)
	if err != nil {
		return err
	}
	*dst = status
	return nil
}

func setURL(dst *string, field string, v *string) error {
	if v == nil {
		return nil
	}
	raw := strings.TrimSpace(*v)
	if raw != "" {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https" && !strings.HasPrefix(raw, "/")) {
			return models.NewValidationError(field + " must be an http(s) URL or a site path")
		}
	}
	return setText(dst, field, &raw, 500)
}

func cleanList(items []string, maxItems, maxLen int) ([]string, error) {
	out := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" {
			continue
		}
		if len([]rune(it)) > maxLen {
			return nil, models.NewValidationError(fmt.Sprintf("list entries must be at most %d characters", maxLen))
		}
		out = append(out, it)
	}
	if len(out) > maxItems {
		return nil, models.NewValidationError(fmt.Sprintf("at most %d entries allowed", maxItems))
	}
	return out, nil
}

type slugChecker interface {
	SlugTaken(ctx context.Context, slug string, excludeID uint) (bool, error)
}

// resolveSlug validates an explicit slug or derives one from title. Explicit
// slugs in use are a conflict; derived slugs get a numeric suffix.
func resolveSlug(ctx context.Context, repo slugChecker, requested *string, title string, excludeID uint) (string, error) {
	if requested != nil && strings.TrimSpace(*requested) != "" {
		slug := strings.TrimSpace(*requested)
		if err := validation.ValidateSlug(slug); err != nil {
			return "", models.NewValidationError(err.Error())
		}
		taken, err := repo.SlugTaken(ctx, slug, excludeID)
		if err != nil {
			return "", err
		}
		if taken {
			return "", models.NewConflictError(fmt.Sprintf("slug %q is already in use", slug))
		}
		return slug, nil
	}

	base := validation.Slugify(title)
	if base == "" {
		return "", models.NewValidationError("slug is required when the title has no letters or digits")
	}
	for i := 1; i <= 50; i++ {
		candidate := base
		if i > 1 {
			suffix := "-" + strconv.Itoa(i)
			candidate = strings.TrimRight(truncate(base, validation.MaxSlugLength-len(suffix)), "-") + suffix
		}
		taken, err := repo.SlugTaken(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", models.NewConflictError("could not derive a free slug; provide one explicitly")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// publicCache serves published content reads through Redis.
type publicCache struct {
	cache *cache.Cache
	kind  string
}

func (p publicCache) list(ctx context.Context, in ListContentInput, dest any, fetch func() error) error {
	return p.cache.Aside(ctx, cache.PublicListKey(p.kind, in.cacheKey()), dest, cache.PublicTTL, fetch)
}

func (p publicCache) slug(ctx context.Context, slug string, dest any, fetch func() error) error {
	return p.cache.Aside(ctx, cache.PublicSlugKey(p.kind, slug), dest, cache.PublicTTL, fetch)
}

func (p publicCache) invalidate(ctx context.Context) {
	p.cache.InvalidatePrefix(ctx, cache.PublicKindPrefix(p.kind))
}

// checkCategory verifies id names a category of kind.
func checkCategory(ctx context.Context, repo repository.CategoryRepository, id uint, kind models.CategoryKind) error {
	cat, err := repo.GetByID(ctx, id)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return models.NewValidationError(fmt.Sprintf("category %d does not exist", id))
		}
		return err
	}
	if cat.Kind != kind {
		return models.NewValidationError(fmt.Sprintf("category %d is not a %s category", id, kind))
	}
	return nil
}

// setCategory applies a category id update; 0 clears it.
func setCategory(ctx context.Context, repo repository.CategoryRepository, dst **uint, v *uint, kind models.CategoryKind) error {
	if v == nil {
		return nil
	}
	if *v == 0 {
		*dst = nil
		return nil
	}
	if err := checkCategory(ctx, repo, *v, kind); err != nil {
		return err
	}
	id := *v
	*dst = &id
	return nil
}

// Clock returns the current time; services take one so tests can fix it.
type Clock func() time.Time
