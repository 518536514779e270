package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"

	"github.com/d60-Lab/photoshare/internal/model"
	"github.com/d60-Lab/photoshare/internal/repository"
)

var (
	ErrAdminProtected = errors.New("admin users cannot be deleted")
	ErrAdminExists    = errors.New("admin user already exists")
)

// AdminService 管理端：全量列表、删除、初始化管理员
type AdminService interface {
	ListUsers(ctx context.Context) ([]repository.UserWithCounts, error)
	ListPosts(ctx context.Context) ([]*model.Post, error)
	// DeleteUser 拒绝删除管理员；连带帖子、点赞、关注边
	DeleteUser(ctx context.Context, id string) error
	DeletePost(ctx context.Context, id string) error
	// Bootstrap 创建配置指定的管理员账号，已有管理员则拒绝
	Bootstrap(ctx context.Context, email, password string) (*model.User, error)
}

type adminService struct {
	users repository.UserRepository
	posts repository.PostRepository
}

func NewAdminService(users repository.UserRepository, posts repository.PostRepository) AdminService {
	return &adminService{users: users, posts: posts}
}

func (s *adminService) ListUsers(ctx context.Context) ([]repository.UserWithCounts, error) {
	return s.users.ListAll(ctx)
}

func (s *adminService) ListPosts(ctx context.Context) ([]*model.Post, error) {
	return s.posts.List(ctx)
}

func (s *adminService) DeleteUser(ctx context.Context, id string) error {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return ErrUserNotFound
		}
		return err
	}
	if u.IsAdmin {
		return ErrAdminProtected
	}
	return s.users.DeleteCascade(ctx, id)
}

func (s *adminService) DeletePost(ctx context.Context, id string) error {
	if _, err := s.posts.GetByID(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrPostNotFound
		}
		return err
	}
	return s.posts.DeleteCascade(ctx, id)
}

func (s *adminService) Bootstrap(ctx context.Context, email, password string) (*model.User, error) {
	exists, err := s.users.AdminExists(ctx)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAdminExists
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	admin := &model.User{
		ID:       uuid.New().String(),
		Email:    email,
		Username: "admin",
		Password: string(digest),
		Name:     "Admin",
		IsAdmin:  true,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}
