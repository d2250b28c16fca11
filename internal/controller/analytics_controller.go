package controller

import (
	"errors"
	"language_gems_backend/internal/service"
	"language_gems_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

// Overview 作业总览
// @Summary 作业总览
// @Description 完成率、平均用时、班级成功分等教师端分诊指标
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param id path string true "作业ID"
// @Success 200 {object} model.AssignmentOverview
// @Failure 404 {object} util.Response
// @Router /api/assignments/{id}/analytics/overview [get]
func (ctrl *AnalyticsController) Overview(c *gin.Context) {
	overview, err := ctrl.AnalyticsService.GetAssignmentOverview(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrAssignmentNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, overview)
}

// WordDifficulty 词汇难度排行
// @Summary 词汇难度排行
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param id path string true "作业ID"
// @Success 200 {object} util.Response
// @Router /api/assignments/{id}/analytics/words [get]
func (ctrl *AnalyticsController) WordDifficulty(c *gin.Context) {
	ranking, err := ctrl.AnalyticsService.GetWordDifficultyRanking(c.Request.Context(), c.Param("id"))
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, ranking)
}

// Roster 学生花名册
// @Summary 学生花名册
// @Description 每个学生的完成状态、用时、失败率与干预标记
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param id path string true "作业ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/assignments/{id}/analytics/roster [get]
func (ctrl *AnalyticsController) Roster(c *gin.Context) {
	roster, err := ctrl.AnalyticsService.GetStudentRoster(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrAssignmentNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, roster)
}

// ExportRoster 导出花名册 CSV
// @Summary 导出花名册 CSV
// @Description 导出到配置的存储后端并返回对象路径
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param id path string true "作业ID"
// @Success 200 {object} util.Response
// @Router /api/assignments/{id}/analytics/roster/export [post]
func (ctrl *AnalyticsController) ExportRoster(c *gin.Context) {
	path, err := ctrl.AnalyticsService.ExportRosterCSV(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrAssignmentNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, gin.H{"path": path})
}
