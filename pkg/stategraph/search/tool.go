package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/mpresley/stategraph/pkg/stategraph/tool"
)

// NewTool adapts a Client into a tool an agent graph can dispatch. The
// result content is a readable listing of title, URL and snippet per hit.
func NewTool(client *Client) *tool.Tool {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "the search query",
			},
		},
		"required": []string{"query"},
	}

	return tool.New(
		"web_search",
		"Search the web for current information. Returns ranked results with title, URL and a content snippet.",
		schema,
		func(ctx context.Context, args map[string]any) (any, error) {
			query := args["query"].(string)

			results, err := client.Search(ctx, query)
			if err != nil {
				return nil, err
			}
			if len(results) == 0 {
				return fmt.Sprintf("no results found for %q", query), nil
			}

			var b strings.Builder
			for i, r := range results {
				fmt.Fprintf(&b, "%d. %s\n   %s\n   %s\n", i+1, r.Title, r.URL, r.Snippet)
			}
			return b.String(), nil
		},
	)
}
