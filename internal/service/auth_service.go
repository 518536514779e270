package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/photoshare/internal/model"
	"github.com/d60-Lab/photoshare/internal/repository"
	"github.com/d60-Lab/photoshare/pkg/token"

	"github.com/google/uuid"
)

var (
	ErrEmailTaken        = errors.New("this email is already in use")
	ErrUsernameTaken     = errors.New("this username is already in use")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidCredential = errors.New("invalid password")
)

// RegisterInput 注册入参
type RegisterInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required"`
}

// UpdateProfileInput 资料更新入参
type UpdateProfileInput struct {
	Name         string  `json:"name" binding:"required"`
	Username     string  `json:"username" binding:"required,username"`
	Bio          *string `json:"bio"`
	ProfileImage *string `json:"profileImage"`
}

// AuthService 注册 / 登录 / 资料更新
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	// Login 返回用户与会话令牌。未知邮箱与错误密码返回不同错误，
	// 与既有客户端约定保持一致（存在账号枚举面，见 DESIGN.md）。
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	// UpdateProfile 更新资料并重签令牌（claims 里带用户名/姓名）
	UpdateProfile(ctx context.Context, selfEmail string, in UpdateProfileInput) (*model.User, string, error)
}

type authService struct {
	users repository.UserRepository
	codec *token.Codec
}

func NewAuthService(users repository.UserRepository, codec *token.Codec) AuthService {
	return &authService{users: users, codec: codec}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if err := CheckEmail(in.Email); err != nil {
		return nil, err
	}
	if !UsernameValid(in.Username) {
		return nil, ErrUsernameFormat
	}
	if !PasswordStrong(in.Password) {
		return nil, ErrWeakPassword
	}

	if taken, err := s.users.EmailExists(ctx, in.Email); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrEmailTaken
	}
	if taken, err := s.users.UsernameExists(ctx, in.Username); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrUsernameTaken
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		ID:       uuid.New().String(),
		Email:    in.Email,
		Username: in.Username,
		Password: string(digest),
		Name:     in.Name,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredential
	}
	tok, err := s.codec.Issue(u)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

func (s *authService) UpdateProfile(ctx context.Context, selfEmail string, in UpdateProfileInput) (*model.User, string, error) {
	if !UsernameValid(in.Username) {
		return nil, "", ErrUsernameFormat
	}
	taken, err := s.users.UsernameTakenByOther(ctx, in.Username, selfEmail)
	if err != nil {
		return nil, "", err
	}
	if taken {
		return nil, "", ErrUsernameTaken
	}

	u, err := s.users.GetByEmail(ctx, selfEmail)
	if err != nil {
		if isNotFound(err) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}
	u.Name = in.Name
	u.Username = in.Username
	u.Bio = in.Bio
	u.ProfileImage = in.ProfileImage
	if err := s.users.Update(ctx, u); err != nil {
		return nil, "", err
	}

	tok, err := s.codec.Issue(u)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}
