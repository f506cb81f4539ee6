package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"blog-api/config"
	"blog-api/handlers"
	"blog-api/middleware"
	"blog-api/models"
	"blog-api/repositories"
	"blog-api/services"
)

type IntegrationTestSuite struct {
	suite.Suite
	db                  *gorm.DB
	router              *gin.Engine
	notificationService services.NotificationService

	authorToken string
	authorID    uint
	adminToken  string
	readerToken string
	readerID    uint
}

func (suite *IntegrationTestSuite) SetupSuite() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		suite.T().Fatal("Failed to open test database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		suite.T().Fatal("Failed to access test database:", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := config.Migrate(db); err != nil {
		suite.T().Fatal("Failed to migrate test database:", err)
	}

	suite.db = db
	suite.setupRouter()
}

func (suite *IntegrationTestSuite) setupRouter() {
	gin.SetMode(gin.TestMode)

	userRepo := repositories.NewUserRepository(suite.db)
	articleRepo := repositories.NewArticleRepository(suite.db)
	tagRepo := repositories.NewTagRepository(suite.db)
	commentRepo := repositories.NewCommentRepository(suite.db)
	notificationRepo := repositories.NewNotificationRepository(suite.db)

	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo, articleRepo)
	tagService := services.NewTagService(tagRepo)
	suite.notificationService = services.NewNotificationService(notificationRepo, userRepo, zerolog.Nop())
	articleService := services.NewArticleService(articleRepo, userRepo, tagService, suite.notificationService)
	commentService := services.NewCommentService(commentRepo, articleRepo)

	authHandler := handlers.NewAuthHandler(authService)
	profileHandler := handlers.NewProfileHandler(userService)
	articleHandler := handlers.NewArticleHandler(articleService)
	commentHandler := handlers.NewCommentHandler(commentService)
	tagHandler := handlers.NewTagHandler(tagService)
	notificationHandler := handlers.NewNotificationHandler(suite.notificationService)

	router := gin.New()

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		public := v1.Group("/")
		public.Use(middleware.OptionalAuth())
		{
			public.GET("/articles", articleHandler.GetArticles)
			public.GET("/articles/:slug", articleHandler.GetArticle)
			public.GET("/articles/:slug/comments", commentHandler.GetComments)
			public.GET("/profiles/:username", profileHandler.GetProfile)
			public.GET("/profiles/:username/articles", articleHandler.GetArticlesByAuthor)
			public.GET("/tags", tagHandler.GetTags)
		}

		protected := v1.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/profile", authHandler.GetProfile)

			articles := protected.Group("/articles")
			{
				articles.POST("", articleHandler.CreateArticle)
				articles.GET("/feed", articleHandler.GetFeed)
				articles.PUT("/:slug", articleHandler.UpdateArticle)
				articles.DELETE("/:slug", articleHandler.DeleteArticle)
				articles.POST("/:slug/favorite", articleHandler.FavoriteArticle)
				articles.DELETE("/:slug/favorite", articleHandler.UnfavoriteArticle)
				articles.POST("/:slug/comments", commentHandler.CreateComment)
				articles.PUT("/:slug/approve", middleware.RequireRole("ADMIN"), articleHandler.ApproveArticle)
				articles.PUT("/:slug/reject", middleware.RequireRole("ADMIN"), articleHandler.RejectArticle)
			}

			protected.DELETE("/comments/:id", commentHandler.DeleteComment)
			protected.POST("/profiles/:username/follow", profileHandler.Follow)
			protected.DELETE("/profiles/:username/follow", profileHandler.Unfollow)
			protected.GET("/notifications", notificationHandler.GetNotifications)
			protected.PUT("/notifications/:id/read", notificationHandler.MarkRead)
		}
	}

	suite.router = router
}

func (suite *IntegrationTestSuite) TearDownSuite() {
	suite.notificationService.Close()
}

func (suite *IntegrationTestSuite) SetupTest() {
	for _, table := range []string{
		"notifications", "comments", "article_tags", "article_favorites",
		"user_follows", "articles", "tags", "users",
	} {
		suite.db.Exec("DELETE FROM " + table)
	}

	suite.authorToken, suite.authorID = suite.registerUser("author", "author@example.com", models.RoleUser)
	suite.adminToken, _ = suite.registerUser("admin", "admin@example.com", models.RoleAdmin)
	suite.readerToken, suite.readerID = suite.registerUser("reader", "reader@example.com", models.RoleUser)
}

type envelope struct {
	Code        int             `json:"code"`
	CodeType    string          `json:"code_type"`
	CodeMessage json.RawMessage `json:"code_message"`
	Data        json.RawMessage `json:"data"`
}

func (suite *IntegrationTestSuite) registerUser(username, email string, role models.UserRole) (string, uint) {
	payload := models.RegisterRequest{
		Name:     "Test User",
		Username: username,
		Email:    email,
		Password: "password123",
		Role:     role,
	}

	w := suite.request("POST", "/api/v1/auth/register", payload, "")
	suite.Equal(http.StatusOK, w.Code)

	var resp envelope
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))

	var auth models.AuthResponse
	suite.NoError(json.Unmarshal(resp.Data, &auth))
	suite.NotEmpty(auth.Token)

	return auth.Token, auth.User.ID
}

func (suite *IntegrationTestSuite) request(method, path string, payload interface{}, token string) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		suite.NoError(err)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *IntegrationTestSuite) createArticle(title string, status models.ArticleStatus, tags []string) models.ArticleResponse {
	payload := models.CreateArticleRequest{
		Title:   title,
		Body:    "Some article body with enough words to read.",
		TagList: tags,
		Status:  status,
	}

	w := suite.request("POST", "/api/v1/articles", payload, suite.authorToken)
	suite.Equal(http.StatusCreated, w.Code)

	var article models.ArticleResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &article))
	return article
}

func (suite *IntegrationTestSuite) TestAuthFlow() {
	w := suite.request("POST", "/api/v1/auth/login", models.LoginRequest{
		Email:    "author@example.com",
		Password: "password123",
	}, "")
	suite.Equal(http.StatusOK, w.Code)

	var resp envelope
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))

	var auth models.AuthResponse
	suite.NoError(json.Unmarshal(resp.Data, &auth))
	suite.Equal("author", auth.User.Username)

	w = suite.request("POST", "/api/v1/auth/login", models.LoginRequest{
		Email:    "author@example.com",
		Password: "wrong-password",
	}, "")
	suite.Equal(http.StatusUnauthorized, w.Code)

	w = suite.request("GET", "/api/v1/profile", nil, auth.Token)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *IntegrationTestSuite) TestArticleLifecycle() {
	created := suite.createArticle("Integration Article", models.StatusPending, []string{"golang", "testing"})
	suite.Equal("integration-article", created.Slug)
	suite.Equal(models.StatusPending, created.Status)

	// moderation is admin-only
	w := suite.request("PUT", "/api/v1/articles/integration-article/approve", nil, suite.authorToken)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.request("PUT", "/api/v1/articles/integration-article/approve", nil, suite.adminToken)
	suite.Equal(http.StatusOK, w.Code)

	var approved models.Article
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &approved))
	suite.Equal(models.StatusPublished, approved.Status)
	suite.NotNil(approved.PublishedAt)

	// a second approve hits the state machine
	w = suite.request("PUT", "/api/v1/articles/integration-article/approve", nil, suite.adminToken)
	suite.Equal(http.StatusConflict, w.Code)

	// anonymous read
	w = suite.request("GET", "/api/v1/articles/integration-article", nil, "")
	suite.Equal(http.StatusOK, w.Code)

	var anonymous models.ArticleResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &anonymous))
	suite.False(anonymous.Favorited)
	suite.Len(anonymous.Tags, 2)

	// favorite, then re-read as the favoriter
	w = suite.request("POST", "/api/v1/articles/integration-article/favorite", nil, suite.readerToken)
	suite.Equal(http.StatusOK, w.Code)

	var favorited models.ArticleResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &favorited))
	suite.True(favorited.Favorited)
	suite.Equal(int64(1), favorited.FavoritesCount)

	w = suite.request("POST", "/api/v1/articles/integration-article/favorite", nil, suite.readerToken)
	suite.Equal(http.StatusConflict, w.Code)

	// a viewer who never favorited still sees the aggregate count
	w = suite.request("GET", "/api/v1/articles/integration-article", nil, suite.authorToken)
	suite.Equal(http.StatusOK, w.Code)

	var forAuthor models.ArticleResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &forAuthor))
	suite.False(forAuthor.Favorited)
	suite.Equal(int64(1), forAuthor.FavoritesCount)
}

func (suite *IntegrationTestSuite) TestListAndPagination() {
	suite.createArticle("List One", models.StatusDraft, []string{"golang"})
	suite.createArticle("List Two", models.StatusDraft, []string{"golang"})
	suite.createArticle("List Three", models.StatusDraft, nil)

	w := suite.request("GET", "/api/v1/articles?tag=golang&limit=1", nil, "")
	suite.Equal(http.StatusOK, w.Code)

	var page models.ArticleListResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &page))
	suite.Len(page.Items, 1)
	suite.Equal(int64(2), page.ArticlesCount)
}

func (suite *IntegrationTestSuite) TestDeleteArticleForbidden() {
	created := suite.createArticle("Protected Article", models.StatusDraft, nil)

	w := suite.request("DELETE", "/api/v1/articles/"+created.Slug, nil, suite.readerToken)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.request("DELETE", "/api/v1/articles/"+created.Slug, nil, suite.authorToken)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request("GET", "/api/v1/articles/"+created.Slug, nil, "")
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *IntegrationTestSuite) TestFeed() {
	// reader follows nobody yet: empty feed, no error
	w := suite.request("GET", "/api/v1/articles/feed", nil, suite.readerToken)
	suite.Equal(http.StatusOK, w.Code)

	var feed models.FeedResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &feed))
	suite.Empty(feed.Items)
	suite.Equal(int64(0), feed.ArticlesCount)

	w = suite.request("POST", "/api/v1/profiles/author/follow", nil, suite.readerToken)
	suite.Equal(http.StatusOK, w.Code)

	suite.createArticle("Feed Article", models.StatusPending, nil)
	w = suite.request("PUT", "/api/v1/articles/feed-article/approve", nil, suite.adminToken)
	suite.Equal(http.StatusOK, w.Code)

	// drafts stay out of the feed
	suite.createArticle("Unreviewed Article", models.StatusDraft, nil)

	w = suite.request("GET", "/api/v1/articles/feed", nil, suite.readerToken)
	suite.Equal(http.StatusOK, w.Code)

	suite.NoError(json.Unmarshal(w.Body.Bytes(), &feed))
	suite.Equal(int64(1), feed.ArticlesCount)
	suite.Len(feed.Items, 1)
	suite.Equal("feed-article", feed.Items[0].Slug)
}

func (suite *IntegrationTestSuite) TestComments() {
	created := suite.createArticle("Discussed Article", models.StatusDraft, nil)

	w := suite.request("POST", fmt.Sprintf("/api/v1/articles/%s/comments", created.Slug), models.CreateCommentRequest{
		Body: "First!",
	}, suite.readerToken)
	suite.Equal(http.StatusCreated, w.Code)

	var root models.Comment
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &root))
	suite.Equal(0, root.Depth)

	w = suite.request("POST", fmt.Sprintf("/api/v1/articles/%s/comments", created.Slug), models.CreateCommentRequest{
		Body:     "Replying",
		ParentID: &root.ID,
	}, suite.authorToken)
	suite.Equal(http.StatusCreated, w.Code)

	var reply models.Comment
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &reply))
	suite.Equal(1, reply.Depth)

	w = suite.request("GET", fmt.Sprintf("/api/v1/articles/%s/comments", created.Slug), nil, "")
	suite.Equal(http.StatusOK, w.Code)

	var list struct {
		Comments []models.Comment `json:"comments"`
	}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &list))
	suite.Len(list.Comments, 2)
	suite.Equal(1, list.Comments[0].ReplyCount)

	// only the comment author can delete it
	w = suite.request("DELETE", fmt.Sprintf("/api/v1/comments/%d", root.ID), nil, suite.authorToken)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.request("DELETE", fmt.Sprintf("/api/v1/comments/%d", root.ID), nil, suite.readerToken)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *IntegrationTestSuite) TestTags() {
	suite.createArticle("Tagged Article", models.StatusDraft, []string{"golang", "api"})

	w := suite.request("GET", "/api/v1/tags", nil, "")
	suite.Equal(http.StatusOK, w.Code)

	var resp envelope
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))

	var tags []models.Tag
	suite.NoError(json.Unmarshal(resp.Data, &tags))
	suite.Len(tags, 2)
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}
