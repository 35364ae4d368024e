package models

// TikTokCommentPage mirrors one page of the web comment-list endpoint.
// Depending on the variant TikTok serves, comments arrive under either
// "comments" or "comment_list"; individual items stay untyped because the
// text field moves around between layouts.
type TikTokCommentPage struct {
	Comments    []map[string]any `json:"comments"`
	CommentList []map[string]any `json:"comment_list"`
	HasMore     int              `json:"has_more"`
	Cursor      int64            `json:"cursor"`
	CursorNext  int64            `json:"cursor_next"`
}

// Items returns whichever comment array the page carries.
func (p TikTokCommentPage) Items() []map[string]any {
	if len(p.Comments) > 0 {
		return p.Comments
	}
	return p.CommentList
}
