package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/photoshare/internal/cache"
	"github.com/d60-Lab/photoshare/internal/model"
	"github.com/d60-Lab/photoshare/internal/repository"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrNotPostOwner = errors.New("you can only delete your own posts")
)

// CreatePostInput 发帖入参；坐标可选
type CreatePostInput struct {
	ImageURL  string   `json:"imageUrl" binding:"required"`
	Caption   *string  `json:"caption"`
	Location  *string  `json:"location"`
	PlaceID   *string  `json:"placeId"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// LikeResult 点赞翻转结果
type LikeResult struct {
	Liked bool  `json:"liked"`
	Likes int64 `json:"likes"`
}

type PostService interface {
	Create(ctx context.Context, userID string, in CreatePostInput) (*model.Post, error)
	List(ctx context.Context) ([]*model.Post, error)
	// ToggleLike 有赞删、无赞建（自赞允许）；并发重复点赞吸收为已点赞态
	ToggleLike(ctx context.Context, userID, postID string) (LikeResult, error)
	// Delete 帖主或管理员可删，连带点赞
	Delete(ctx context.Context, actorID string, actorIsAdmin bool, postID string) error
}

type postService struct {
	posts    repository.PostRepository
	likes    repository.LikeRepository
	counters *cache.Counters
}

func NewPostService(posts repository.PostRepository, likes repository.LikeRepository, counters *cache.Counters) PostService {
	return &postService{posts: posts, likes: likes, counters: counters}
}

func (s *postService) Create(ctx context.Context, userID string, in CreatePostInput) (*model.Post, error) {
	now := time.Now()
	p := &model.Post{
		ID:        uuid.New().String(),
		UserID:    userID,
		ImageURL:  in.ImageURL,
		Caption:   in.Caption,
		Location:  in.Location,
		PlaceID:   in.PlaceID,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, err
	}
	// 带作者快照与空点赞列表返回
	return s.posts.GetByID(ctx, p.ID)
}

func (s *postService) List(ctx context.Context) ([]*model.Post, error) {
	return s.posts.List(ctx)
}

func (s *postService) ToggleLike(ctx context.Context, userID, postID string) (LikeResult, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		if isNotFound(err) {
			return LikeResult{}, ErrPostNotFound
		}
		return LikeResult{}, err
	}

	exists, err := s.likes.Exists(ctx, userID, postID)
	if err != nil {
		return LikeResult{}, err
	}

	var liked bool
	if exists {
		if _, err := s.likes.Delete(ctx, userID, postID); err != nil {
			return LikeResult{}, err
		}
		liked = false
	} else {
		// created=false 意味着并发对手先插入成功，结果同样是已点赞
		if _, err := s.likes.Create(ctx, userID, postID); err != nil {
			return LikeResult{}, err
		}
		liked = true
	}

	s.counters.InvalidateLike(ctx, postID)
	count, err := s.counters.LikeCount(ctx, postID, func(ctx context.Context) (int64, error) {
		return s.likes.CountByPost(ctx, postID)
	})
	if err != nil {
		return LikeResult{}, err
	}
	return LikeResult{Liked: liked, Likes: count}, nil
}

func (s *postService) Delete(ctx context.Context, actorID string, actorIsAdmin bool, postID string) error {
	p, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if isNotFound(err) {
			return ErrPostNotFound
		}
		return err
	}
	if p.UserID != actorID && !actorIsAdmin {
		return ErrNotPostOwner
	}
	if err := s.posts.DeleteCascade(ctx, postID); err != nil {
		return err
	}
	s.counters.InvalidateLike(ctx, postID)
	return nil
}
