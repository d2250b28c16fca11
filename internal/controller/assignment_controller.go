package controller

import (
	"errors"
	"language_gems_backend/internal/service"
	"language_gems_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AssignmentController struct {
	AssignmentService *service.AssignmentService
}

func NewAssignmentController(assignmentService *service.AssignmentService) *AssignmentController {
	return &AssignmentController{AssignmentService: assignmentService}
}

// Create 创建作业
// @Summary 创建作业
// @Description 教师创建作业，词汇来源为直接词汇列表或引用词汇表
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateAssignmentInput true "作业"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/assignments [post]
func (ctrl *AssignmentController) Create(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	var input service.CreateAssignmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	assignment, err := ctrl.AssignmentService.CreateAssignment(claims.UserID, &input)
	if err != nil {
		if errors.Is(err, util.ErrListNotFound) {
			util.BadRequest(c, err.Error())
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Created(c, assignment)
}

// Get 作业详情
// @Summary 作业详情
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path string true "作业ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/assignments/{id} [get]
func (ctrl *AssignmentController) Get(c *gin.Context) {
	assignment, vocabularyIDs, err := ctrl.AssignmentService.GetAssignment(c.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrAssignmentNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, gin.H{
		"assignment":    assignment,
		"vocabularyIds": vocabularyIDs,
	})
}

// ListMine 当前教师创建的作业
// @Summary 我创建的作业
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页条数" default(20)
// @Success 200 {object} util.Response
// @Router /api/assignments [get]
func (ctrl *AssignmentController) ListMine(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	assignments, total, err := ctrl.AssignmentService.ListByCreator(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}

	util.Success(c, util.PageResponse{List: assignments, Total: total, Page: page, Limit: limit})
}

// ListByClass 按班级查询作业
// @Summary 按班级查询作业
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param classId path string true "班级ID"
// @Success 200 {object} util.Response
// @Router /api/classes/{classId}/assignments [get]
func (ctrl *AssignmentController) ListByClass(c *gin.Context) {
	assignments, err := ctrl.AssignmentService.ListByClass(c.Param("classId"))
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, assignments)
}
