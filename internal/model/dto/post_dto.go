package dto

// CreatePostRequest 创建帖子请求
type CreatePostRequest struct {
	Kind    string `json:"kind" binding:"omitempty,oneof=general mission"`
	Title   string `json:"title" binding:"required,min=1,max=200"`
	Content string `json:"content" binding:"required,min=1,max=20000"`
}

// PostItem 帖子列表项
type PostItem struct {
	ID           int64       `json:"id"`
	Kind         string      `json:"kind"`
	Title        string      `json:"title"`
	Author       *AuthorInfo `json:"author"`
	CommentCount int         `json:"comment_count"`
	LikeCount    int         `json:"like_count"`
	ViewCount    int         `json:"view_count"`
	IsLocked     bool        `json:"is_locked"`
	CreatedAt    string      `json:"created_at"`
}

// PostDetail 帖子详情
type PostDetail struct {
	ID           int64       `json:"id"`
	Kind         string      `json:"kind"`
	Title        string      `json:"title"`
	Content      string      `json:"content"`
	ContentHTML  string      `json:"content_html"`
	Author       *AuthorInfo `json:"author"`
	CommentCount int         `json:"comment_count"`
	LikeCount    int         `json:"like_count"`
	ViewCount    int         `json:"view_count"`
	IsLiked      bool        `json:"is_liked"`
	IsLocked     bool        `json:"is_locked"`
	CreatedAt    string      `json:"created_at"`
}

// AuthorInfo 作者信息
type AuthorInfo struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
	Bio       string `json:"bio,omitempty"`
}
