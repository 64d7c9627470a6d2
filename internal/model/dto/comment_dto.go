package dto

// CreateCommentRequest 创建评论请求
type CreateCommentRequest struct {
	Content  string `json:"content" binding:"required,min=1,max=2000"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

// UpdateCommentRequest 修改评论请求
type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=2000"`
}

// CommentItem 评论项
type CommentItem struct {
	ID           int64          `json:"id"`
	PostID       int64          `json:"post_id"`
	ParentID     *int64         `json:"parent_id"`
	Depth        int            `json:"depth"`
	Author       *CommentAuthor `json:"author"`
	Content      string         `json:"content"`
	ContentHTML  string         `json:"content_html"`
	LikeCount    int            `json:"like_count"`
	IsLiked      bool           `json:"is_liked"`
	IsDeleted    bool           `json:"is_deleted"`
	RepliesCount int            `json:"replies_count"`
	Replies      []*CommentItem `json:"replies,omitempty"`
	CreatedAt    string         `json:"created_at"`
}

// CommentAuthor 评论作者信息
type CommentAuthor struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

// CommentPage 评论分页结果（根评论 + 游标）
type CommentPage struct {
	Items      []*CommentItem `json:"items"`
	NextCursor string         `json:"next_cursor,omitempty"`
	HasNext    bool           `json:"has_next"`
}

// LikeResponse 点赞切换结果
type LikeResponse struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}
