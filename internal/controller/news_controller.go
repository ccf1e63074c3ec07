package controller

import (
	"course_admin_gateway/internal/model"
	"course_admin_gateway/internal/service"
	"course_admin_gateway/internal/util"

	"github.com/gin-gonic/gin"
)

type NewsController struct {
	NewsService *service.NewsService
	Languages   *model.LanguageRegistry
}

func NewNewsController(newsService *service.NewsService, languages *model.LanguageRegistry) *NewsController {
	return &NewsController{NewsService: newsService, Languages: languages}
}

// GetNews godoc
// @Summary List news
// @Description Lists articles, optionally in one language, or returns one article when id is given
// @Tags News
// @Produce json
// @Param id query string false "News ID"
// @Param language query string false "Language GUID, ISO code or name"
// @Success 200 {object} util.Response{data=[]model.NewsItem}
// @Router /api/news [get]
func (c *NewsController) GetNews(ctx *gin.Context) {
	if id := ctx.Query("id"); id != "" {
		item, err := c.NewsService.Get(ctx.Request.Context(), id)
		if err != nil {
			util.Fail(ctx, err)
			return
		}
		util.Success(ctx, item)
		return
	}

	items, err := c.NewsService.List(ctx.Request.Context(), ctx.Query("language"))
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, items)
}

// CreateNews godoc
// @Summary Publish a news article
// @Tags News
// @Accept json
// @Produce json
// @Param news body model.NewsInput true "Article"
// @Success 201 {object} util.Response{data=model.NewsItem}
// @Failure 413 {object} util.Response
// @Router /api/news [post]
func (c *NewsController) CreateNews(ctx *gin.Context) {
	var in model.NewsInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.FailBinding(ctx, err)
		return
	}
	item, err := c.NewsService.Create(ctx.Request.Context(), in)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Created(ctx, item)
}

// UpdateNews godoc
// @Summary Update a news article
// @Tags News
// @Accept json
// @Produce json
// @Param id query string true "News ID"
// @Param news body model.NewsInput true "Article"
// @Success 200 {object} util.Response{data=model.NewsItem}
// @Router /api/news [put]
func (c *NewsController) UpdateNews(ctx *gin.Context) {
	id, err := requireQuery(ctx, "id")
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	var in model.NewsInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.FailBinding(ctx, err)
		return
	}
	item, err := c.NewsService.Update(ctx.Request.Context(), id, in)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, item)
}

// DeleteNews godoc
// @Summary Delete a news article
// @Tags News
// @Produce json
// @Param id query string true "News ID"
// @Success 200 {object} util.Response
// @Router /api/news [delete]
func (c *NewsController) DeleteNews(ctx *gin.Context) {
	id, err := requireQuery(ctx, "id")
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	if err := c.NewsService.Delete(ctx.Request.Context(), id); err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}

// BatchUpdateNews godoc
// @Summary Update several news articles
// @Tags News
// @Accept json
// @Produce json
// @Param items body []model.NewsDetailsUpdate true "Rows"
// @Success 200 {object} util.Response{data=[]util.BatchResult}
// @Router /api/news/batch [put]
func (c *NewsController) BatchUpdateNews(ctx *gin.Context) {
	var items []model.NewsDetailsUpdate
	if err := ctx.ShouldBindJSON(&items); err != nil {
		util.FailBinding(ctx, err)
		return
	}
	if len(items) == 0 {
		util.Fail(ctx, util.Required("items"))
		return
	}
	util.Success(ctx, c.NewsService.BatchUpdate(ctx.Request.Context(), items))
}

// GetLanguages godoc
// @Summary List content languages
// @Tags News
// @Produce json
// @Success 200 {object} util.Response{data=[]model.LanguageOption}
// @Router /api/languages [get]
func (c *NewsController) GetLanguages(ctx *gin.Context) {
	util.Success(ctx, c.Languages.Options())
}
