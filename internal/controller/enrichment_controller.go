package controller

import (
	"errors"

	"course_enrich_backend/internal/service"
	"course_enrich_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// EnrichmentController 面向内容平台的只读加工视图
type EnrichmentController struct {
	Enrichment *service.EnrichmentService
	Scheduler  *service.SchedulerService
}

func NewEnrichmentController(enrichment *service.EnrichmentService, scheduler *service.SchedulerService) *EnrichmentController {
	return &EnrichmentController{
		Enrichment: enrichment,
		Scheduler:  scheduler,
	}
}

// @Summary 获取课时加工元数据
// @Description 课时的类型分类、交互性、时长、全局位置与章节列表
// @Tags 课时
// @Produce json
// @Param id path int true "课时ID"
// @Success 200 {object} util.Response{data=model.LessonMeta}
// @Failure 404 {object} util.Response
// @Router /api/lessons/{id}/meta [get]
func (c *EnrichmentController) GetLessonMeta(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "Invalid lesson ID")
		return
	}

	meta, err := c.Enrichment.LessonMeta(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, meta)
}

// @Summary 获取课时章节列表
// @Tags 课时
// @Produce json
// @Param id path int true "课时ID"
// @Success 200 {object} util.Response{data=[]model.Clip}
// @Failure 404 {object} util.Response
// @Router /api/lessons/{id}/chapters [get]
func (c *EnrichmentController) GetLessonChapters(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "Invalid lesson ID")
		return
	}

	clips, err := c.Enrichment.LessonChapters(id)
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, clips)
}

// @Summary 获取课程总时长
// @Description 返回已缓存的课程总时长；未缓存时排队后台重算并返回未计算状态
// @Tags 课程
// @Produce json
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response{data=model.CourseDuration}
// @Failure 404 {object} util.Response
// @Router /api/courses/{id}/duration [get]
func (c *EnrichmentController) GetCourseDuration(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "Invalid course ID")
		return
	}

	result, err := c.Scheduler.CourseDuration(ctx.Request.Context(), id)
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
