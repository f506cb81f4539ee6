package handlers

import (
	"net/http"

	"blog-api/helper"
	"blog-api/models"
	"blog-api/services"

	"github.com/gin-gonic/gin"
)

type ArticleHandler struct {
	articleService services.ArticleService
}

func NewArticleHandler(articleService services.ArticleService) *ArticleHandler {
	return &ArticleHandler{articleService: articleService}
}

func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req models.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	article, err := h.articleService.Create(userID, req)
	if err != nil {
		c.JSON(helper.StatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, article)
}

func (h *ArticleHandler) GetArticles(c *gin.Context) {
	viewerID := c.GetUint("user_id")

	var params models.ArticleListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.articleService.FindMany(params, viewerID)
	if err != nil {
		c.JSON(helper.StatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *ArticleHandler) GetFeed(c *gin.Context) {
	viewerID := c.GetUint("user_id")

	var params models.ArticleListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	feed, err := h.articleService.GetFeed(viewerID, params.Limit, params.Offset)
	if err != nil {
		c.JSON(helper.StatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, feed)
}

func (h *ArticleHandler) GetArticle(c *gin.Context) {
	viewerID := c.GetUint("user_id")

	article, err := h.articleService.FindBySlug(c.Param("slug"), viewerID)
	if err != nil {
		c.JSON(helper.StatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, article)
}

func (h *ArticleHandler) GetArticlesByAuthor(c *gin.Context) {
	articles, err := h.articleService.FindByAuthor(c.Param("username"))
	if err != nil {
		c.JSON(helper.StatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": articles})
}

func (h *ArticleHandler) UpdateArticle(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req models.UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	article, err := h.articleService.Update(c.Param("slug"), userID, req)
	if err != nil {
		c.JSON(helper.StatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, article)
}

func (h *ArticleHandler) DeleteArticle(c *gin.Context) {
	userID := c.GetUint("user_id")

	if err := h.articleService.Remove(c.Param("slug"), userID); err != nil {
		c.JSON(helper.StatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Article deleted successfully"})
}

func (h *ArticleHandler) FavoriteArticle(c *gin.Context) {
	userID := c.GetUint("user_id")

	article, err := h.articleService.Favorite(c.Param("slug"), userID)
	if err != nil {
		c.JSON(helper.StatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, article)
}

func (h *ArticleHandler) UnfavoriteArticle(c *gin.Context) {
	userID := c.GetUint("user_id")

	article, err := h.articleService.Unfavorite(c.Param("slug"), userID)
	if err != nil {
		c.JSON(helper.StatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, article)
}

func (h *ArticleHandler) ApproveArticle(c *gin.Context) {
	article, err := h.articleService.Approve(c.Param("slug"))
	if err != nil {
		c.JSON(helper.StatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, article)
}

func (h *ArticleHandler) RejectArticle(c *gin.Context) {
	article, err := h.articleService.Reject(c.Param("slug"))
	if err != nil {
		c.JSON(helper.StatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, article)
}
