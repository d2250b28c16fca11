package controller

import (
	"language_gems_backend/internal/model"
	"language_gems_backend/internal/service"
	"language_gems_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ActivityController 活动会话上报与完成状态查询
type ActivityController struct {
	SessionService *service.GameSessionService
	Completion     *service.CompletionService
}

func NewActivityController(sessionService *service.GameSessionService, completion *service.CompletionService) *ActivityController {
	return &ActivityController{SessionService: sessionService, Completion: completion}
}

func completionKeyFromRequest(c *gin.Context, studentID uint) model.CompletionKey {
	return model.CompletionKey{
		AssignmentID: c.Param("id"),
		StudentID:    studentID,
		ActivityID:   c.Param("activityId"),
	}
}

// SubmitSession 上报游戏会话
// @Summary 上报游戏会话
// @Description 落库会话与逐词作答证据，并立即执行一次完成判定
// @Tags activities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "作业ID"
// @Param activityId path string true "活动ID"
// @Param body body service.SubmitSessionInput true "会话数据"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/assignments/{id}/activities/{activityId}/sessions [post]
func (ctrl *ActivityController) SubmitSession(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	var input service.SubmitSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	key := completionKeyFromRequest(c, claims.UserID)
	session, decision, err := ctrl.SessionService.SubmitSession(c.Request.Context(), key, &input)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}

	util.Created(c, gin.H{
		"session":    session,
		"completion": decision,
	})
}

// GetCompletion 查询完成状态
// @Summary 查询完成状态
// @Description 按当前证据现算一次完成判定，只读不落库
// @Tags activities
// @Produce json
// @Security BearerAuth
// @Param id path string true "作业ID"
// @Param activityId path string true "活动ID"
// @Success 200 {object} model.CompletionDecision
// @Router /api/assignments/{id}/activities/{activityId}/completion [get]
func (ctrl *ActivityController) GetCompletion(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	key := completionKeyFromRequest(c, claims.UserID)
	decision := ctrl.Completion.Evaluate(c.Request.Context(), key)
	util.Success(c, decision)
}
