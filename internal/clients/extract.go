package clients

import "strings"

// textExtractors are the known layouts of a comment item, tried in order:
// a top-level "text", a nested "comment.text", or a top-level "content".
var textExtractors = []func(map[string]any) string{
	func(it map[string]any) string {
		s, _ := it["text"].(string)
		return s
	},
	func(it map[string]any) string {
		inner, _ := it["comment"].(map[string]any)
		if inner == nil {
			return ""
		}
		s, _ := inner["text"].(string)
		return s
	},
	func(it map[string]any) string {
		s, _ := it["content"].(string)
		return s
	},
}

// ExtractCommentText pulls the comment text out of a provider item,
// whatever shape it arrived in. Returns the trimmed text, or "" when no
// extractor matched.
func ExtractCommentText(item map[string]any) string {
	for _, extract := range textExtractors {
		if s := strings.TrimSpace(extract(item)); s != "" {
			return s
		}
	}
	return ""
}
