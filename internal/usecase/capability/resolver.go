package capability

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/Go-Comment-Moderation/domain"
)

// DefaultModeratorKeys are the permission names/slugs treated as comment moderation.
var DefaultModeratorKeys = []string{
	"moderate comments",
	"moderate-comments",
	"moderate_comments",
	"approve comments",
	"approve-comments",
	"manage comments",
	"manage-comments",
	"admin",
	"administrator",
	"super-admin",
	"manager",
}

// Provider is one strategy for answering "does actor hold any of keys".
// keys are already lower-cased and trimmed.
type Provider interface {
	Check(ctx context.Context, actor *domain.User, keys []string) (bool, error)
}

// Resolver asks its providers in order and stops at the first yes.
type Resolver struct {
	providers []Provider
	keys      []string
}

var _ domain.CapabilityResolver = (*Resolver)(nil)

// NewResolver falls back to DefaultModeratorKeys when keys is empty
func NewResolver(keys []string, providers ...Provider) *Resolver {
	if len(keys) == 0 {
		keys = DefaultModeratorKeys
	}
	return &Resolver{
		providers: providers,
		keys:      normalize(keys),
	}
}

func (r *Resolver) IsModerator(ctx context.Context, actor *domain.User) bool {
	if actor == nil {
		return false
	}
	for _, p := range r.providers {
		if r.check(ctx, p, actor) {
			return true
		}
	}
	return false
}

func (r *Resolver) check(ctx context.Context, p Provider, actor *domain.User) (ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			logrus.Warnf("capability provider %T panicked for user %d: %v", p, actor.ID, rec)
			ok = false
		}
	}()

	ok, err := p.Check(ctx, actor, r.keys)
	if err != nil {
		logrus.Warnf("capability provider %T failed for user %d: %v", p, actor.ID, err)
		return false
	}
	return ok
}

// ParseKeys splits a comma separated key list, as read from configuration.
func ParseKeys(s string) []string {
	var keys []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func normalize(keys []string) []string {
	res := make([]string, 0, len(keys))
	for _, k := range keys {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			res = append(res, k)
		}
	}
	return res
}

func matchAny(candidates []string, keys []string) bool {
	for _, c := range candidates {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		for _, k := range keys {
			if c == k {
				return true
			}
		}
	}
	return false
}
