// Package memo provides the MCP tools backed by the Memos client.
//
// Tool Overview:
//
// get_user: Show the user the API key authenticates as
//
// search_memo: Search the user's memos by content keyword and state
//
// create_memo: Create a memo with optional tags and visibility
//
// get_memo: Fetch a single memo by id or resource name
//
// list_memo_tags: List the tags in use, filtered by visibility
//
// list_memo: List memos one page at a time
//
// Usage Example:
//
//	client, _ := memos.NewClient(url, apiKey)
//	registry, _ := tools.NewRegistry()
//	for _, tool := range memo.All(client) {
//	    registry.Register(tool)
//	}
package memo
