package capability

import (
	"context"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Guyuepp/Go-Comment-Moderation/domain"
)

// BundleProvider looks at the permission bundle the actor carries itself.
type BundleProvider struct{}

func NewBundleProvider() *BundleProvider {
	return &BundleProvider{}
}

func (BundleProvider) Check(_ context.Context, actor *domain.User, keys []string) (bool, error) {
	if actor.Permissions == nil {
		return false, nil
	}
	return matchAny(actor.Permissions, keys), nil
}

// roleGraphTimeout bounds a shared lookup once it no longer follows any caller's context.
const roleGraphTimeout = 5 * time.Second

// RoleGraphProvider queries the user -> roles -> permissions read model.
// Concurrent checks for the same user share one lookup.
type RoleGraphProvider struct {
	reader domain.PermissionReader
	group  singleflight.Group
}

func NewRoleGraphProvider(reader domain.PermissionReader) *RoleGraphProvider {
	return &RoleGraphProvider{reader: reader}
}

func (p *RoleGraphProvider) Check(ctx context.Context, actor *domain.User, keys []string) (bool, error) {
	ch := p.group.DoChan(strconv.FormatInt(actor.ID, 10), func() (any, error) {
		// the lookup outlives the caller that started it
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), roleGraphTimeout)
		defer cancel()
		return p.reader.PermissionsByUser(lookupCtx, actor.ID)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return false, ctx.Err()
	}
	if res.Err != nil {
		return false, res.Err
	}

	perms, _ := res.Val.([]domain.Permission)
	for _, perm := range perms {
		if matchAny([]string{perm.Name, perm.Slug}, keys) {
			return true, nil
		}
	}
	return false, nil
}
