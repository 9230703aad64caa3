package controller

import (
	"errors"

	"course_enrich_backend/internal/model"
	"course_enrich_backend/internal/service"
	"course_enrich_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AdminController 运营后台的内容管理与加工触发
type AdminController struct {
	Content   *service.ContentService
	Scheduler *service.SchedulerService
}

func NewAdminController(content *service.ContentService, scheduler *service.SchedulerService) *AdminController {
	return &AdminController{
		Content:   content,
		Scheduler: scheduler,
	}
}

type CreateCourseRequest struct {
	Title string `json:"title" binding:"required"`
	Slug  string `json:"slug"`
}

// @Summary 创建课程
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCourseRequest true "课程信息"
// @Success 201 {object} util.Response{data=model.Course}
// @Router /api/admin/courses [post]
func (c *AdminController) CreateCourse(ctx *gin.Context) {
	var req CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course := &model.Course{
		Title: req.Title,
		Slug:  req.Slug,
	}
	if err := c.Content.CreateCourse(course); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, course)
}

type CreateSectionRequest struct {
	Title string `json:"title" binding:"required"`
	Order int    `json:"order"`
}

// @Summary 创建课程小节
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Param request body CreateSectionRequest true "小节信息"
// @Success 201 {object} util.Response{data=model.Section}
// @Failure 404 {object} util.Response
// @Router /api/admin/courses/{id}/sections [post]
func (c *AdminController) CreateSection(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.Param("id"))
	if courseID == 0 {
		util.BadRequest(ctx, "Invalid course ID")
		return
	}

	var req CreateSectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	section := &model.Section{
		CourseID: courseID,
		Title:    req.Title,
		Order:    req.Order,
	}
	if err := c.Content.CreateSection(section); err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, section)
}

type CreateLessonRequest struct {
	Title            string `json:"title" binding:"required"`
	Content          string `json:"content"`
	PermalinkURL     string `json:"permalinkUrl"`
	Order            int    `json:"order"`
	DurationOverride *int   `json:"durationOverride"`
	Meta             string `json:"meta"`
	ChaptersRaw      string `json:"chapters"`
}

// @Summary 创建课时
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "小节ID"
// @Param request body CreateLessonRequest true "课时信息"
// @Success 201 {object} util.Response{data=model.Lesson}
// @Failure 404 {object} util.Response
// @Router /api/admin/sections/{id}/lessons [post]
func (c *AdminController) CreateLesson(ctx *gin.Context) {
	sectionID := util.MustParseUint(ctx.Param("id"))
	if sectionID == 0 {
		util.BadRequest(ctx, "Invalid section ID")
		return
	}

	var req CreateLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson := &model.Lesson{
		SectionID:        sectionID,
		Title:            req.Title,
		Content:          req.Content,
		PermalinkURL:     req.PermalinkURL,
		OrderInSection:   req.Order,
		DurationOverride: req.DurationOverride,
		Meta:             req.Meta,
		ChaptersRaw:      req.ChaptersRaw,
	}
	if err := c.Content.CreateLesson(lesson); err != nil {
		if errors.Is(err, util.ErrSectionNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, lesson)
}

type UpdateLessonRequest struct {
	Title            *string `json:"title"`
	Content          *string `json:"content"`
	PermalinkURL     *string `json:"permalinkUrl"`
	Order            *int    `json:"order"`
	DurationOverride *int    `json:"durationOverride"`
	Meta             *string `json:"meta"`
	ChaptersRaw      *string `json:"chapters"`
}

// @Summary 修改课时
// @Description 部分更新：只修改请求里出现的字段。修改后派生缓存不会自动刷新，需要重新发布
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "课时ID"
// @Param request body UpdateLessonRequest true "修改内容"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Failure 404 {object} util.Response
// @Router /api/admin/lessons/{id} [put]
func (c *AdminController) UpdateLesson(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "Invalid lesson ID")
		return
	}

	var req UpdateLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.Content.GetLesson(id)
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	if req.Title != nil {
		lesson.Title = *req.Title
	}
	if req.Content != nil {
		lesson.Content = *req.Content
	}
	if req.PermalinkURL != nil {
		lesson.PermalinkURL = *req.PermalinkURL
	}
	if req.Order != nil {
		lesson.OrderInSection = *req.Order
	}
	if req.DurationOverride != nil {
		lesson.DurationOverride = req.DurationOverride
	}
	if req.Meta != nil {
		lesson.Meta = *req.Meta
	}
	if req.ChaptersRaw != nil {
		lesson.ChaptersRaw = *req.ChaptersRaw
	}

	if err := c.Content.SaveLesson(lesson); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, lesson)
}

// @Summary 发布课时
// @Description 同步执行完整加工（分类、时长解析、落库）并重算所属课程总时长
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "课时ID"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Failure 404 {object} util.Response
// @Router /api/admin/lessons/{id}/publish [post]
func (c *AdminController) PublishLesson(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "Invalid lesson ID")
		return
	}

	lesson, err := c.Scheduler.OnLessonPublished(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, lesson)
}

// @Summary 立即重算课程总时长
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response{data=model.CourseDuration}
// @Failure 404 {object} util.Response
// @Router /api/admin/courses/{id}/recalculate [post]
func (c *AdminController) RecalculateCourse(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "Invalid course ID")
		return
	}

	result, err := c.Scheduler.RecalculateNow(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, result)
}
