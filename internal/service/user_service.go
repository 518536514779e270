package service

import (
	"context"

	"github.com/d60-Lab/photoshare/internal/model"
	"github.com/d60-Lab/photoshare/internal/repository"
)

const searchLimit = 20

// PublicUser 对外用户卡片：帖子 + 关注计数
type PublicUser struct {
	model.User
	Count FollowCounts `json:"_count"`
}

// UserService 档案 / 目录 / 搜索
type UserService interface {
	// Profile 按用户名取档案（帖子倒序，含点赞）
	Profile(ctx context.Context, username string) (*model.User, error)
	// PublicByID 按 ID 取公开卡片，含粉丝/关注计数
	PublicByID(ctx context.Context, id string) (*PublicUser, error)
	// Directory 除调用者外全部用户，最新注册在前
	Directory(ctx context.Context, selfEmail string) ([]repository.UserWithCounts, error)
	// Search 大小写不敏感子串匹配 name/username，排除调用者，至多 20 条，name 升序
	Search(ctx context.Context, query, selfEmail string) ([]repository.UserWithCounts, error)
}

type userService struct {
	users repository.UserRepository
	rels  RelationshipService
}

func NewUserService(users repository.UserRepository, rels RelationshipService) UserService {
	return &userService{users: users, rels: rels}
}

func (s *userService) Profile(ctx context.Context, username string) (*model.User, error) {
	u, err := s.users.GetProfile(ctx, username)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *userService) PublicByID(ctx context.Context, id string) (*PublicUser, error) {
	u, err := s.users.GetProfileByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	counts, err := s.rels.Counts(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PublicUser{User: *u, Count: counts}, nil
}

func (s *userService) Directory(ctx context.Context, selfEmail string) ([]repository.UserWithCounts, error) {
	return s.users.ListExcluding(ctx, selfEmail)
}

func (s *userService) Search(ctx context.Context, query, selfEmail string) ([]repository.UserWithCounts, error) {
	return s.users.Search(ctx, query, selfEmail, searchLimit)
}
