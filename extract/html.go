package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html"
)

// maxFetchBytes limits how much of a remote resource is read.
const maxFetchBytes = 4 << 20

// fetchPage downloads a web page and reduces it to title, meta description
// and readable body text.
func (e *Extractor) fetchPage(ctx context.Context, url string) (title, description, body string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", "", "", err
	}
	req.Header.Set("User-Agent", "recall/1.0")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", "", "", fmt.Errorf("status %d", resp.StatusCode)
	}

	return parsePage(io.LimitReader(resp.Body, maxFetchBytes))
}

// fetchImage downloads an image and reports its media type from the
// response headers, falling back to content sniffing.
func (e *Extractor) fetchImage(ctx context.Context, url string) (data []byte, mimeType string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", "recall/1.0")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, "", fmt.Errorf("status %d", resp.StatusCode)
	}

	data, err = io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, "", err
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("empty body")
	}

	mimeType = resp.Header.Get("Content-Type")
	if idx := strings.Index(mimeType, ";"); idx >= 0 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	return data, mimeType, nil
}

// parsePage walks the HTML tree collecting the title, the meta description,
// and visible text with script, style and noscript subtrees skipped.
func parsePage(r io.Reader) (title, description, body string, err error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", "", "", err
	}

	var bodyParts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript", "template":
				return
			case "title":
				if title == "" {
					title = collapseWhitespace(textContent(n))
				}
				return
			case "meta":
				if metaName(n) == "description" {
					if content := attrValue(n, "content"); content != "" {
						description = collapseWhitespace(content)
					}
				}
			}
		case html.TextNode:
			if text := strings.TrimSpace(n.Data); text != "" {
				bodyParts = append(bodyParts, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	body = collapseWhitespace(strings.Join(bodyParts, " "))
	return title, description, body, nil
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func metaName(n *html.Node) string {
	name := attrValue(n, "name")
	if name == "" {
		name = attrValue(n, "property")
	}
	return strings.ToLower(name)
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, key) {
			return attr.Val
		}
	}
	return ""
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
