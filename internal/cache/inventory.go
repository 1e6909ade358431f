package cache

import (
	"fmt"
	"time"
)

const (
	publicPrefix      = "public:"
	PublicListPattern = publicPrefix + "%s:list:%s"
	PublicSlugPattern = publicPrefix + "%s:slug:%s"
	OAuthStatePrefix  = "oauth:state:"
)

const (
	PublicTTL = 5 * time.Minute
)

// Content kinds cached for public reads.
const (
	KindProducts = "products"
	KindServices = "services"
	KindProjects = "projects"
	KindBlog     = "blog"
)

// PublicListKey caches one public list page, identified by its encoded query.
func PublicListKey(kind, query string) string {
	return fmt.Sprintf(PublicListPattern, kind, query)
}

func PublicSlugKey(kind, slug string) string {
	return fmt.Sprintf(PublicSlugPattern, kind, slug)
}

// PublicKindPrefix covers every cached public read of kind.
func PublicKindPrefix(kind string) string {
	return publicPrefix + kind + ":"
}

func OAuthStateKey(state string) string {
	return OAuthStatePrefix + state
}
