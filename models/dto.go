package models

type RegisterRequest struct {
	Name     string   `json:"name" binding:"required,min=1,max=20"`
	Username string   `json:"username" binding:"required,min=3,max=30"`
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=6"`
	Role     UserRole `json:"role,omitempty" binding:"omitempty,oneof=USER ADMIN"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type CreateArticleRequest struct {
	Title       string        `json:"title" binding:"required,min=1,max=255"`
	Description string        `json:"description"`
	Body        string        `json:"body" binding:"required"`
	CoverImage  *string       `json:"cover_image"`
	TagList     []string      `json:"tag_list" binding:"omitempty,dive,min=1,max=50"`
	Status      ArticleStatus `json:"status" binding:"omitempty,oneof=draft pending"`
}

// UpdateArticleRequest uses pointers so an absent field can be told apart
// from an explicit zero value when detecting no-op patches.
type UpdateArticleRequest struct {
	Title       *string        `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string        `json:"description"`
	Body        *string        `json:"body" binding:"omitempty,min=1"`
	CoverImage  *string        `json:"cover_image"`
	TagList     *[]string      `json:"tag_list" binding:"omitempty,dive,min=1,max=50"`
	Status      *ArticleStatus `json:"status" binding:"omitempty,oneof=draft pending"`
}

type ArticleListParams struct {
	Tag       string `form:"tag"`
	Author    string `form:"author"`
	Favorited string `form:"favorited"`
	Limit     int    `form:"limit,default=20"`
	Offset    int    `form:"offset,default=0"`
}

// ArticleResponse augments an article with the per-viewer favorited flag
// and the aggregate favorite count, both computed on read.
type ArticleResponse struct {
	Article
	Favorited      bool  `json:"favorited"`
	FavoritesCount int64 `json:"favorites_count"`
}

type ArticleListResponse struct {
	Items         []ArticleResponse `json:"items"`
	ArticlesCount int64             `json:"articles_count"`
}

// FeedResponse carries plain articles: feed items have no viewer-relative
// flag, callers needing one re-fetch by slug.
type FeedResponse struct {
	Items         []Article `json:"items"`
	ArticlesCount int64     `json:"articles_count"`
}

type CreateCommentRequest struct {
	Body     string `json:"body" binding:"required,min=1,max=500"`
	ParentID *uint  `json:"parent_id"`
}

type ProfileResponse struct {
	User
	FollowersCount int64 `json:"followers_count"`
	FollowingCount int64 `json:"following_count"`
	ArticlesCount  int64 `json:"articles_count"`
	Following      bool  `json:"following"`
}
