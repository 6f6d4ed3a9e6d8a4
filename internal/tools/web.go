package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
)

const (
	webUserAgent = "toolbridge/0.1 (+https://github.com/toolbridge/toolbridge)"
	maxRedirects = 5
)

// WebFetchTool fetches a URL and extracts its readable content. It is the one
// built-in tool registered alongside MCP-discovered tools, so the loop always
// has something to offer even against a tool-less server.
type WebFetchTool struct {
	maxChars   int
	httpClient *http.Client
}

// NewWebFetchTool creates a WebFetchTool. maxChars defaults to 50000.
func NewWebFetchTool(maxChars int) *WebFetchTool {
	if maxChars <= 0 {
		maxChars = 50000
	}
	client := &http.Client{
		Timeout: 30 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
	return &WebFetchTool{maxChars: maxChars, httpClient: client}
}

func (t *WebFetchTool) Name() string { return "web_fetch" }
func (t *WebFetchTool) Description() string {
	return "Fetch a URL and extract its readable text content."
}
func (t *WebFetchTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"url": {
				"type": "string",
				"description": "URL to fetch"
			},
			"maxChars": {
				"type": "integer",
				"minimum": 100
			}
		},
		"required": ["url"]
	}`)
}

func (t *WebFetchTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	rawURL, _ := params["url"].(string)
	if rawURL == "" {
		return "Error: url is required", nil
	}
	if err := validateURL(rawURL); err != nil {
		return fmt.Sprintf("Error: invalid URL %q: %v", rawURL, err), nil
	}

	maxChars := t.maxChars
	if mc, ok := params["maxChars"].(float64); ok && int(mc) >= 100 {
		maxChars = int(mc)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}
	req.Header.Set("User-Agent", webUserAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}

	text := extractText(rawURL, resp.Header.Get("Content-Type"), body)
	if len(text) > maxChars {
		text = text[:maxChars] + "\n[truncated]"
	}
	return fmt.Sprintf("[HTTP %d] %s\n\n%s", resp.StatusCode, rawURL, text), nil
}

// extractText turns a response body into readable text based on content type.
func extractText(rawURL, ctype string, body []byte) string {
	switch {
	case strings.Contains(ctype, "application/json"):
		var data any
		if err := json.Unmarshal(body, &data); err == nil {
			formatted, _ := json.MarshalIndent(data, "", "  ")
			return string(formatted)
		}
		return string(body)

	case strings.Contains(ctype, "text/html") || isHTMLPrefix(body):
		parsedURL, _ := url.Parse(rawURL)
		article, err := readability.FromReader(bytes.NewReader(body), parsedURL)
		if err != nil {
			return stripHTMLTags(string(body))
		}
		text := strings.TrimSpace(article.TextContent)
		if article.Title != "" {
			text = article.Title + "\n\n" + text
		}
		return text

	default:
		return string(body)
	}
}

// validateURL checks that rawURL is http(s) with a valid domain.
func validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("only http/https allowed, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing domain in URL")
	}
	return nil
}

func isHTMLPrefix(body []byte) bool {
	head := strings.ToLower(string(body[:min(len(body), 256)]))
	return strings.Contains(head, "<!doctype html") || strings.Contains(head, "<html")
}

var reTags = regexp.MustCompile(`<[^>]*>`)

func stripHTMLTags(s string) string {
	return strings.TrimSpace(reTags.ReplaceAllString(s, " "))
}
