package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aurelia-hq/aurelia-backend/domain/social"
)

// FollowRepository is an in-memory ports.FollowRepository.
type FollowRepository struct {
	mu      sync.RWMutex
	follows map[string]social.Follow
}

// NewFollowRepository creates an empty in-memory follow repository.
func NewFollowRepository() *FollowRepository {
	return &FollowRepository{follows: make(map[string]social.Follow)}
}

func followKey(followerID, followingID string) string {
	return followerID + "/" + followingID
}

func (r *FollowRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.follows[followKey(followerID, followingID)]
	return ok, nil
}

func (r *FollowRepository) Create(ctx context.Context, followerID, followingID string) (*social.Follow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f := social.Follow{
		ID:          uuid.New().String(),
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   time.Now().UTC(),
	}
	r.follows[followKey(followerID, followingID)] = f
	return &f, nil
}

func (r *FollowRepository) Delete(ctx context.Context, followerID, followingID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := followKey(followerID, followingID)
	if _, ok := r.follows[key]; !ok {
		return false, nil
	}
	delete(r.follows, key)
	return true, nil
}

func (r *FollowRepository) ListFollowers(ctx context.Context, userID string) ([]social.Follow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []social.Follow
	for _, f := range r.follows {
		if f.FollowingID == userID {
			out = append(out, f)
		}
	}
	sortFollows(out)
	return out, nil
}

func (r *FollowRepository) ListFollowing(ctx context.Context, userID string) ([]social.Follow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []social.Follow
	for _, f := range r.follows {
		if f.FollowerID == userID {
			out = append(out, f)
		}
	}
	sortFollows(out)
	return out, nil
}

func (r *FollowRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	followers, _ := r.ListFollowers(ctx, userID)
	return int64(len(followers)), nil
}

func (r *FollowRepository) CountFollowing(ctx context.Context, userID string) (int64, error) {
	following, _ := r.ListFollowing(ctx, userID)
	return int64(len(following)), nil
}

func sortFollows(follows []social.Follow) {
	sort.Slice(follows, func(i, j int) bool {
		if follows[i].CreatedAt.Equal(follows[j].CreatedAt) {
			return follows[i].ID < follows[j].ID
		}
		return follows[i].CreatedAt.After(follows[j].CreatedAt)
	})
}

// NotificationRepository is an in-memory ports.NotificationRepository.
type NotificationRepository struct {
	mu            sync.RWMutex
	notifications []social.Notification
}

// NewNotificationRepository creates an empty in-memory notification repository.
func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) List(ctx context.Context, userID string, limit, offset int) ([]social.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []social.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if offset >= len(out) {
		return []social.Notification{}, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *NotificationRepository) Create(ctx context.Context, n *social.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *n
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	r.notifications = append(r.notifications, stored)
	return nil
}

func (r *NotificationRepository) Delete(ctx context.Context, id, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, n := range r.notifications {
		if n.ID == id && n.UserID == userID {
			r.notifications = append(r.notifications[:i], r.notifications[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *NotificationRepository) DeleteAll(ctx context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.notifications[:0]
	deleted := 0
	for _, n := range r.notifications {
		if n.UserID == userID {
			deleted++
			continue
		}
		kept = append(kept, n)
	}
	r.notifications = kept
	return deleted, nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.notifications {
		if r.notifications[i].UserID == userID {
			r.notifications[i].IsRead = true
		}
	}
	return nil
}
