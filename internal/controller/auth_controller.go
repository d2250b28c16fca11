package controller

import (
	"errors"
	"language_gems_backend/internal/service"
	"language_gems_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// Register 用户注册
// @Summary 用户注册
// @Description 注册学生或教师账号，邮箱唯一
// @Tags auth
// @Accept json
// @Produce json
// @Param body body service.RegisterInput true "注册信息"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/auth/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var input service.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	user, err := ctrl.AuthService.Register(&input)
	if err != nil {
		if errors.Is(err, util.ErrEmailRegistered) {
			util.Error(c, http.StatusConflict, err.Error())
			return
		}
		util.LogInternalError(c, err)
		return
	}

	util.Created(c, gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	})
}

// Login 用户登录
// @Summary 用户登录
// @Description 校验邮箱密码并签发 JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param body body service.LoginInput true "登录凭证"
// @Success 200 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /api/auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var input service.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	token, user, err := ctrl.AuthService.Login(&input)
	if err != nil {
		if errors.Is(err, util.ErrInvalidCredentials) || errors.Is(err, util.ErrPermissionDenied) {
			util.Unauthorized(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}

	util.Success(c, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// Profile 当前用户信息
// @Summary 当前用户信息
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/auth/profile [get]
func (ctrl *AuthController) Profile(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	user, err := ctrl.AuthService.GetProfile(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}

	util.Success(c, gin.H{
		"id":       user.ID,
		"name":     user.Name,
		"email":    user.Email,
		"role":     user.Role,
		"language": user.Language,
	})
}
