package handler

import (
	"github.com/d60-Lab/photoshare/config"
	"github.com/d60-Lab/photoshare/internal/service"
)

// Handler 聚合各业务服务，供路由注册
type Handler struct {
	authSvc   service.AuthService
	postSvc   service.PostService
	userSvc   service.UserService
	relSvc    service.RelationshipService
	adminSvc  service.AdminService
	uploadSvc service.UploadService
	adminCfg  config.AdminConfig
}

func NewHandler(
	authSvc service.AuthService,
	postSvc service.PostService,
	userSvc service.UserService,
	relSvc service.RelationshipService,
	adminSvc service.AdminService,
	uploadSvc service.UploadService,
	adminCfg config.AdminConfig,
) *Handler {
	return &Handler{
		authSvc:   authSvc,
		postSvc:   postSvc,
		userSvc:   userSvc,
		relSvc:    relSvc,
		adminSvc:  adminSvc,
		uploadSvc: uploadSvc,
		adminCfg:  adminCfg,
	}
}
