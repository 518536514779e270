package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/photoshare/internal/cache"
	"github.com/d60-Lab/photoshare/internal/repository"
)

var (
	ErrFollowSelf = errors.New("you cannot follow yourself")
)

func isNotFound(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }

// FollowCounts 粉丝数 / 关注数
type FollowCounts struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}

// RelationshipService 关注关系：翻转操作 + 计数
type RelationshipService interface {
	// ToggleFollow 有边删、无边建；返回是否处于已关注态。
	// 并发重复建边被唯一键挡下时按“已关注”处理，不向上抛错。
	ToggleFollow(ctx context.Context, actorID, targetID string) (bool, error)
	Counts(ctx context.Context, userID string) (FollowCounts, error)
}

type relationshipService struct {
	follows  repository.FollowRepository
	counters *cache.Counters
}

func NewRelationshipService(follows repository.FollowRepository, counters *cache.Counters) RelationshipService {
	return &relationshipService{follows: follows, counters: counters}
}

func (s *relationshipService) ToggleFollow(ctx context.Context, actorID, targetID string) (bool, error) {
	if actorID == targetID {
		return false, ErrFollowSelf
	}

	exists, err := s.follows.Exists(ctx, actorID, targetID)
	if err != nil {
		return false, err
	}

	var following bool
	if exists {
		if _, err := s.follows.Delete(ctx, actorID, targetID); err != nil {
			return false, err
		}
		following = false
	} else {
		// created=false 意味着并发对手先插入成功，结果同样是已关注
		if _, err := s.follows.Create(ctx, actorID, targetID); err != nil {
			return false, err
		}
		following = true
	}

	s.counters.InvalidateFollows(ctx, targetID)
	s.counters.InvalidateFollows(ctx, actorID)
	return following, nil
}

func (s *relationshipService) Counts(ctx context.Context, userID string) (FollowCounts, error) {
	followers, following, err := s.counters.FollowCounts(ctx, userID, func(ctx context.Context) (int64, int64, error) {
		followers, err := s.follows.CountFollowers(ctx, userID)
		if err != nil {
			return 0, 0, err
		}
		following, err := s.follows.CountFollowing(ctx, userID)
		if err != nil {
			return 0, 0, err
		}
		return followers, following, nil
	})
	if err != nil {
		return FollowCounts{}, err
	}
	return FollowCounts{Followers: followers, Following: following}, nil
}
