package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/photoshare/internal/model"
)

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	// GetByID 帖子 + 作者快照 + 点赞
	GetByID(ctx context.Context, id string) (*model.Post, error)
	// List 全部帖子，最新在前，带作者快照与点赞
	List(ctx context.Context) ([]*model.Post, error)
	// DeleteCascade 删除帖子及其点赞（单事务）
	DeleteCascade(ctx context.Context, id string) error
}

type postRepository struct{ db *gorm.DB }

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Likes").
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) List(ctx context.Context) ([]*model.Post, error) {
	var posts []*model.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Likes").
		Order("created_at DESC").
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) DeleteCascade(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.Like{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Post{}).Error
	})
}
