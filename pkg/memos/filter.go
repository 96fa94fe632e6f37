package memos

// ContentContains builds the filter predicate matching memos whose content
// contains keyword. The keyword is embedded verbatim, quotes included.
func ContentContains(keyword string) string {
	return `content.contains("` + keyword + `")`
}

// VisibilityIn builds the filter predicate matching memos with visibility v.
func VisibilityIn(v Visibility) string {
	return `visibilities == ["` + string(v) + `"]`
}
