package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aurelia-hq/aurelia-backend/application/ports"
	"github.com/aurelia-hq/aurelia-backend/domain/profile"
	"github.com/aurelia-hq/aurelia-backend/domain/social"
	"github.com/aurelia-hq/aurelia-backend/pkg/errors"
)

// SocialService owns the follow graph and the notifications it produces.
type SocialService struct {
	follows       ports.FollowRepository
	notifications ports.NotificationRepository
	profiles      ports.ProfileRepository
	logger        *zap.Logger
}

// NewSocialService creates a social service.
func NewSocialService(
	follows ports.FollowRepository,
	notifications ports.NotificationRepository,
	profiles ports.ProfileRepository,
	logger *zap.Logger,
) *SocialService {
	return &SocialService{
		follows:       follows,
		notifications: notifications,
		profiles:      profiles,
		logger:        logger,
	}
}

// Follow creates a follow edge and notifies the followed user. The
// notification is best-effort: its failure never fails the follow.
func (s *SocialService) Follow(ctx context.Context, followerID, followingID string) (*social.Follow, error) {
	if followerID == followingID {
		return nil, errors.NewValidationError("Cannot follow yourself")
	}

	exists, err := s.follows.Exists(ctx, followerID, followingID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.NewValidationError("Already following this user")
	}

	follow, err := s.follows.Create(ctx, followerID, followingID)
	if err != nil {
		return nil, err
	}

	s.notifyFollowed(ctx, followerID, followingID)
	return follow, nil
}

func (s *SocialService) notifyFollowed(ctx context.Context, followerID, followingID string) {
	followerName := "Someone"
	if p, err := s.profiles.GetByID(ctx, followerID); err == nil && p.FullName != "" {
		followerName = p.FullName
	}

	notification := &social.Notification{
		UserID:        followingID,
		Type:          social.NotificationTypeFollow,
		Message:       fmt.Sprintf("%s started following you", followerName),
		RelatedUserID: followerID,
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		s.logger.Warn("Failed to create follow notification",
			zap.String("user_id", followingID),
			zap.Error(err),
		)
	}
}

// Unfollow removes a follow edge.
func (s *SocialService) Unfollow(ctx context.Context, followerID, followingID string) error {
	deleted, err := s.follows.Delete(ctx, followerID, followingID)
	if err != nil {
		return err
	}
	if !deleted {
		return errors.NewNotFoundMessage("Not following this user")
	}
	return nil
}

// FollowEntry is one row of a follower or following listing.
type FollowEntry struct {
	UserID            string    `json:"user_id"`
	Email             string    `json:"email,omitempty"`
	Name              string    `json:"name"`
	Bio               string    `json:"bio,omitempty"`
	Skills            []string  `json:"skills"`
	LookingFor        []string  `json:"looking_for"`
	ProfilePictureURL string    `json:"profile_picture_url,omitempty"`
	FollowedAt        time.Time `json:"followed_at"`
}

// Followers lists the users following userID, joined with their profiles.
// Edges whose profile is missing are skipped.
func (s *SocialService) Followers(ctx context.Context, userID string) ([]FollowEntry, error) {
	edges, err := s.follows.ListFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.joinEntries(ctx, edges, func(f social.Follow) string { return f.FollowerID })
}

// Following lists the users userID follows, joined with their profiles.
func (s *SocialService) Following(ctx context.Context, userID string) ([]FollowEntry, error) {
	edges, err := s.follows.ListFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.joinEntries(ctx, edges, func(f social.Follow) string { return f.FollowingID })
}

func (s *SocialService) joinEntries(ctx context.Context, edges []social.Follow, party func(social.Follow) string) ([]FollowEntry, error) {
	ids := make([]string, len(edges))
	for i, edge := range edges {
		ids[i] = party(edge)
	}

	profiles, err := s.profiles.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]profile.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	entries := make([]FollowEntry, 0, len(edges))
	for _, edge := range edges {
		p, ok := byID[party(edge)]
		if !ok {
			continue
		}
		entries = append(entries, FollowEntry{
			UserID:            p.ID,
			Email:             p.Email,
			Name:              p.FullName,
			Bio:               p.Bio,
			Skills:            emptyIfNil(p.Skills),
			LookingFor:        emptyIfNil(p.LookingFor),
			ProfilePictureURL: p.ProfilePictureURL,
			FollowedAt:        edge.CreatedAt,
		})
	}
	return entries, nil
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// IsFollowing reports whether followerID follows followingID.
func (s *SocialService) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	return s.follows.Exists(ctx, followerID, followingID)
}

// FollowStats holds exact follower and following counts.
type FollowStats struct {
	FollowersCount int64 `json:"followers_count"`
	FollowingCount int64 `json:"following_count"`
}

// Stats returns exact follow counts for a user.
func (s *SocialService) Stats(ctx context.Context, userID string) (*FollowStats, error) {
	followers, err := s.follows.CountFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	following, err := s.follows.CountFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &FollowStats{FollowersCount: followers, FollowingCount: following}, nil
}

// NotificationView is a notification joined with its related user.
type NotificationView struct {
	ID          string       `json:"id"`
	Type        string       `json:"type"`
	Message     string       `json:"message"`
	IsRead      bool         `json:"is_read"`
	CreatedAt   time.Time    `json:"created_at"`
	RelatedUser *RelatedUser `json:"related_user,omitempty"`
}

// RelatedUser is the compact actor attached to a notification.
type RelatedUser struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	ProfilePictureURL string `json:"profile_picture_url,omitempty"`
}

// Notifications lists the caller's notifications, newest first, with the
// related user joined best-effort.
func (s *SocialService) Notifications(ctx context.Context, userID string, limit, offset int) ([]NotificationView, error) {
	rows, err := s.notifications.List(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	views := make([]NotificationView, 0, len(rows))
	for _, n := range rows {
		view := NotificationView{
			ID:        n.ID,
			Type:      n.Type,
			Message:   n.Message,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		}
		if n.RelatedUserID != "" {
			if p, err := s.profiles.GetByID(ctx, n.RelatedUserID); err == nil {
				view.RelatedUser = &RelatedUser{
					ID:                p.ID,
					Name:              p.FullName,
					ProfilePictureURL: p.ProfilePictureURL,
				}
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// DeleteNotification removes one of the caller's notifications.
func (s *SocialService) DeleteNotification(ctx context.Context, userID, notificationID string) error {
	deleted, err := s.notifications.Delete(ctx, notificationID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return errors.NewNotFoundError("Notification")
	}
	return nil
}

// ClearNotifications removes all of the caller's notifications, returning
// how many were removed.
func (s *SocialService) ClearNotifications(ctx context.Context, userID string) (int, error) {
	return s.notifications.DeleteAll(ctx, userID)
}

// MarkNotificationsRead flags every notification of the caller as read.
func (s *SocialService) MarkNotificationsRead(ctx context.Context, userID string) error {
	return s.notifications.MarkAllRead(ctx, userID)
}
