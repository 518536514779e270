package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/d60-Lab/photoshare/internal/model"
)

// UserWithCounts 用户卡片（带帖子数 / 点赞数）
type UserWithCounts struct {
	model.User
	PostCount int64 `json:"postCount" gorm:"column:post_count"`
	LikeCount int64 `json:"likeCount" gorm:"column:like_count"`
}

const userCountsSelect = "users.*, " +
	"(SELECT COUNT(*) FROM posts WHERE posts.user_id = users.id) AS post_count, " +
	"(SELECT COUNT(*) FROM likes WHERE likes.user_id = users.id) AS like_count"

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// GetProfile 用户 + 帖子（倒序，含点赞）
	GetProfile(ctx context.Context, username string) (*model.User, error)
	// GetProfileByID 同 GetProfile，按 ID 查
	GetProfileByID(ctx context.Context, id string) (*model.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	// UsernameTakenByOther 改名查重时排除本人
	UsernameTakenByOther(ctx context.Context, username, selfEmail string) (bool, error)
	Update(ctx context.Context, user *model.User) error
	// ListExcluding 目录页：除调用者外全部用户，按注册时间倒序
	ListExcluding(ctx context.Context, email string) ([]UserWithCounts, error)
	// ListAll 管理端：全部用户，按注册时间倒序
	ListAll(ctx context.Context) ([]UserWithCounts, error)
	// Search 名称或用户名大小写不敏感包含匹配，排除调用者，上限 limit，name 升序
	Search(ctx context.Context, query, excludeEmail string, limit int) ([]UserWithCounts, error)
	AdminExists(ctx context.Context) (bool, error)
	// DeleteCascade 删除用户及其帖子、点赞、关注边（单事务）
	DeleteCascade(ctx context.Context, id string) error
}

type userRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepository{db: db} }

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetProfile(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).
		Preload("Posts", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Posts.Likes").
		Where("username = ?", username).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetProfileByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).
		Preload("Posts", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Posts.Likes").
		Where("id = ?", id).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&cnt).Error
	return cnt > 0, err
}

func (r *userRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("username = ?", username).Count(&cnt).Error
	return cnt > 0, err
}

func (r *userRepository) UsernameTakenByOther(ctx context.Context, username, selfEmail string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("username = ? AND email <> ?", username, selfEmail).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) ListExcluding(ctx context.Context, email string) ([]UserWithCounts, error) {
	var res []UserWithCounts
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Select(userCountsSelect).
		Where("email <> ?", email).
		Order("created_at DESC").
		Scan(&res).Error
	return res, err
}

func (r *userRepository) ListAll(ctx context.Context) ([]UserWithCounts, error) {
	var res []UserWithCounts
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Select(userCountsSelect).
		Order("created_at DESC").
		Scan(&res).Error
	return res, err
}

func (r *userRepository) Search(ctx context.Context, query, excludeEmail string, limit int) ([]UserWithCounts, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	var res []UserWithCounts
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Select(userCountsSelect).
		Where("(LOWER(name) LIKE ? OR LOWER(username) LIKE ?) AND email <> ?", pattern, pattern, excludeEmail).
		Order("name ASC").
		Limit(limit).
		Scan(&res).Error
	return res, err
}

func (r *userRepository) AdminExists(ctx context.Context) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("is_admin = ?", true).Count(&cnt).Error
	return cnt > 0, err
}

func (r *userRepository) DeleteCascade(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 先清孤儿：该用户帖子上的他人点赞
		if err := tx.Where("post_id IN (?)",
			tx.Model(&model.Post{}).Select("id").Where("user_id = ?", id),
		).Delete(&model.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR following_id = ?", id, id).Delete(&model.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.Post{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.User{}).Error
	})
}
