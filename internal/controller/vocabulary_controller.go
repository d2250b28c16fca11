package controller

import (
	"errors"
	"language_gems_backend/internal/service"
	"language_gems_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type VocabularyController struct {
	VocabService *service.VocabularyService
}

func NewVocabularyController(vocabService *service.VocabularyService) *VocabularyController {
	return &VocabularyController{VocabService: vocabService}
}

// CreateItem 录入单词
// @Summary 录入单词
// @Tags vocabulary
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateVocabularyItemInput true "词条"
// @Success 201 {object} util.Response
// @Router /api/vocabulary/items [post]
func (ctrl *VocabularyController) CreateItem(c *gin.Context) {
	var input service.CreateVocabularyItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	item, err := ctrl.VocabService.CreateItem(&input)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Created(c, item)
}

// ListItems 分页查询词库
// @Summary 分页查询词库
// @Tags vocabulary
// @Produce json
// @Security BearerAuth
// @Param language query string false "语言"
// @Param category query string false "类目"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页条数" default(20)
// @Success 200 {object} util.Response
// @Router /api/vocabulary/items [get]
func (ctrl *VocabularyController) ListItems(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	items, total, err := ctrl.VocabService.ListItems(c.Query("language"), c.Query("category"), page, limit)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}

	util.Success(c, util.PageResponse{List: items, Total: total, Page: page, Limit: limit})
}

// CreateList 创建词汇表
// @Summary 创建词汇表
// @Tags vocabulary
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateVocabularyListInput true "词汇表"
// @Success 201 {object} util.Response
// @Router /api/vocabulary/lists [post]
func (ctrl *VocabularyController) CreateList(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	var input service.CreateVocabularyListInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	list, err := ctrl.VocabService.CreateList(claims.UserID, &input)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Created(c, list)
}

// GetList 词汇表详情，含词条
// @Summary 词汇表详情
// @Tags vocabulary
// @Produce json
// @Security BearerAuth
// @Param id path string true "词汇表ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/vocabulary/lists/{id} [get]
func (ctrl *VocabularyController) GetList(c *gin.Context) {
	list, items, err := ctrl.VocabService.GetList(c.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrListNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}

	util.Success(c, gin.H{"list": list, "items": items})
}
