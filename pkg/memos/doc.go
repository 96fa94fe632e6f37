// Package memos is a client for the Memos note service HTTP API.
//
// The Client is the only place that knows about the service's URL layout,
// resource names ("memos/<id>", "users/<id>") and filter expression syntax.
// Every failure it returns is a *Error whose message names the operation
// that failed, so callers can forward it to users as-is.
//
// Usage Example:
//
//	client, err := memos.NewClient("https://memos.example.com", apiKey,
//	    memos.WithTimeout(10*time.Second))
//	if err != nil {
//	    return err
//	}
//
//	memo, err := client.CreateMemo(ctx, "Buy milk", []string{"#errand"}, memos.VisibilityPrivate)
package memos
