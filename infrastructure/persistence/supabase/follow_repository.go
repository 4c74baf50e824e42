package supabase

import (
	"context"

	supa "github.com/supabase-community/supabase-go"

	"github.com/aurelia-hq/aurelia-backend/domain/social"
	"github.com/aurelia-hq/aurelia-backend/pkg/errors"
)

const followsTable = "follows"

// FollowRepository persists follow edges in the external store.
type FollowRepository struct {
	client *supa.Client
}

// NewFollowRepository creates a Supabase-backed follow repository.
func NewFollowRepository(client *supa.Client) *FollowRepository {
	return &FollowRepository{client: client}
}

// Exists reports whether follower already follows following.
func (r *FollowRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	data, _, err := r.client.From(followsTable).
		Select("id", "", false).
		Eq("follower_id", followerID).
		Eq("following_id", followingID).
		Execute()
	if err != nil {
		return false, errors.NewExternalError("checking follow", err)
	}

	rows, err := decodeRows[social.Follow](data)
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// Create inserts a follow edge.
func (r *FollowRepository) Create(ctx context.Context, followerID, followingID string) (*social.Follow, error) {
	row := map[string]interface{}{
		"follower_id":  followerID,
		"following_id": followingID,
	}

	data, _, err := r.client.From(followsTable).
		Insert(row, false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, errors.NewExternalError("creating follow", err)
	}

	created, err := decodeFirst[social.Follow](data)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, errors.NewInternalError("follow insert returned no row")
	}
	return created, nil
}

// Delete removes a follow edge, reporting whether one existed.
func (r *FollowRepository) Delete(ctx context.Context, followerID, followingID string) (bool, error) {
	data, _, err := r.client.From(followsTable).
		Delete("representation", "").
		Eq("follower_id", followerID).
		Eq("following_id", followingID).
		Execute()
	if err != nil {
		return false, errors.NewExternalError("deleting follow", err)
	}

	rows, err := decodeRows[social.Follow](data)
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// ListFollowers returns edges pointing at userID.
func (r *FollowRepository) ListFollowers(ctx context.Context, userID string) ([]social.Follow, error) {
	data, _, err := r.client.From(followsTable).
		Select("*", "", false).
		Eq("following_id", userID).
		Order("created_at", descending).
		Execute()
	if err != nil {
		return nil, errors.NewExternalError("listing followers", err)
	}
	return decodeRows[social.Follow](data)
}

// ListFollowing returns edges originating from userID.
func (r *FollowRepository) ListFollowing(ctx context.Context, userID string) ([]social.Follow, error) {
	data, _, err := r.client.From(followsTable).
		Select("*", "", false).
		Eq("follower_id", userID).
		Order("created_at", descending).
		Execute()
	if err != nil {
		return nil, errors.NewExternalError("listing following", err)
	}
	return decodeRows[social.Follow](data)
}

// CountFollowers returns the number of followers of userID.
func (r *FollowRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	_, count, err := r.client.From(followsTable).
		Select("id", "exact", false).
		Eq("following_id", userID).
		Execute()
	if err != nil {
		return 0, errors.NewExternalError("counting followers", err)
	}
	return count, nil
}

// CountFollowing returns the number of users userID follows.
func (r *FollowRepository) CountFollowing(ctx context.Context, userID string) (int64, error) {
	_, count, err := r.client.From(followsTable).
		Select("id", "exact", false).
		Eq("follower_id", userID).
		Execute()
	if err != nil {
		return 0, errors.NewExternalError("counting following", err)
	}
	return count, nil
}
