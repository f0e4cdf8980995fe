package webingester

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// Pre-compiled regexes, compiled once to avoid runtime ReDoS surprises.
var (
	scriptRe         = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleRe          = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	excessiveLinesRe = regexp.MustCompile(`\n{4,}`)
)

// minReadableChars is the readability output length below which the manual
// DOM pruning fallback runs instead.
const minReadableChars = 140

// ConvertResult contains the result of HTML to text conversion.
type ConvertResult struct {
	Title string
	Text  string
}

// Converter turns raw HTML into clean markdown-ish text suitable for
// chunking. Readability article extraction runs first; pages it cannot
// handle fall back to manual DOM pruning.
type Converter struct {
	converter *md.Converter
}

// NewConverter creates a new HTML to text converter.
func NewConverter() *Converter {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	return &Converter{
		converter: converter,
	}
}

// Convert transforms HTML content into clean text. pageURL helps readability
// resolve relative references; it may be empty.
func (c *Converter) Convert(htmlContent []byte, pageURL string) (*ConvertResult, error) {
	title := extractHTMLTitle(htmlContent)

	content, articleTitle := extractReadableContent(htmlContent, pageURL)
	if content == "" {
		content = extractMainContent(htmlContent)
	}
	if title == "" {
		title = articleTitle
	}

	text, err := c.converter.ConvertString(content)
	if err != nil {
		return nil, err
	}
	text = cleanText(text)

	if title == "" {
		title = extractHeadingTitle(text)
	}

	return &ConvertResult{
		Title: title,
		Text:  text,
	}, nil
}

// extractReadableContent runs readability article extraction. It returns
// empty content when the page has no extractable article.
func extractReadableContent(content []byte, pageURL string) (string, string) {
	var parsed *url.URL
	if pageURL != "" {
		if u, err := url.Parse(pageURL); err == nil {
			parsed = u
		}
	}

	article, err := readability.FromReader(bytes.NewReader(content), parsed)
	if err != nil {
		return "", ""
	}
	if len(strings.TrimSpace(article.TextContent)) < minReadableChars {
		return "", article.Title
	}
	return article.Content, article.Title
}

// extractHTMLTitle extracts the <title> text from HTML.
func extractHTMLTitle(content []byte) string {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return ""
	}

	var title string
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
			title = strings.TrimSpace(n.FirstChild.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if title != "" {
				return
			}
			extract(c)
		}
	}
	extract(doc)

	return title
}

// extractMainContent is the fallback content extractor: it prunes obvious
// boilerplate from the DOM and returns the main content region.
func extractMainContent(content []byte) string {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return basicHTMLCleanup(string(content))
	}

	for _, selector := range []string{"main", "article", "[role=main]"} {
		if node := findElement(doc, selector); node != nil {
			return renderNode(node)
		}
	}

	removeElements(doc, []string{
		"nav", "header", "footer", "aside", "script", "style", "noscript",
		"iframe", "object", "embed", "form", "input", "button",
	})
	removeByClass(doc, []string{
		"nav", "navbar", "navigation", "sidebar", "menu", "toc",
		"table-of-contents", "footer", "header", "ad", "advertisement",
		"social", "share", "comments", "related", "breadcrumb", "cookie",
	})

	if body := findElement(doc, "body"); body != nil {
		return renderNode(body)
	}

	return string(content)
}

// findElement finds the first element matching a simple selector.
func findElement(n *html.Node, selector string) *html.Node {
	var result *html.Node
	var find func(*html.Node)
	find = func(node *html.Node) {
		if result != nil {
			return
		}
		if node.Type == html.ElementNode && matchesSelector(node, selector) {
			result = node
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}
	find(n)
	return result
}

// matchesSelector checks if a node matches a tag name or [attr=value]
// selector.
func matchesSelector(n *html.Node, selector string) bool {
	if strings.HasPrefix(selector, "[") && strings.HasSuffix(selector, "]") {
		attr := strings.TrimSuffix(strings.TrimPrefix(selector, "["), "]")
		parts := strings.SplitN(attr, "=", 2)
		if len(parts) == 2 {
			for _, a := range n.Attr {
				if a.Key == parts[0] && a.Val == parts[1] {
					return true
				}
			}
		}
		return false
	}
	return n.Data == selector
}

// removeElements removes all elements with the given tag names.
func removeElements(n *html.Node, tags []string) {
	tagSet := make(map[string]bool)
	for _, tag := range tags {
		tagSet[tag] = true
	}

	var toRemove []*html.Node
	var collect func(*html.Node)
	collect = func(node *html.Node) {
		if node.Type == html.ElementNode && tagSet[node.Data] {
			toRemove = append(toRemove, node)
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)

	for _, node := range toRemove {
		if node.Parent != nil {
			node.Parent.RemoveChild(node)
		}
	}
}

// removeByClass removes elements carrying any of the given class names.
func removeByClass(n *html.Node, classes []string) {
	classSet := make(map[string]bool)
	for _, class := range classes {
		classSet[strings.ToLower(class)] = true
	}

	var toRemove []*html.Node
	var collect func(*html.Node)
	collect = func(node *html.Node) {
		if node.Type == html.ElementNode {
			for _, a := range node.Attr {
				if a.Key == "class" {
					for _, c := range strings.Fields(strings.ToLower(a.Val)) {
						if classSet[c] {
							toRemove = append(toRemove, node)
							return
						}
					}
				}
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)

	for _, node := range toRemove {
		if node.Parent != nil {
			node.Parent.RemoveChild(node)
		}
	}
}

// renderNode renders a node and its children back to an HTML string.
func renderNode(n *html.Node) string {
	var sb strings.Builder
	html.Render(&sb, n)
	return sb.String()
}

// basicHTMLCleanup strips script and style blocks when DOM parsing fails.
func basicHTMLCleanup(content string) string {
	content = scriptRe.ReplaceAllString(content, "")
	content = styleRe.ReplaceAllString(content, "")
	return content
}

// cleanText normalizes converted text: collapses blank-line runs, trims
// trailing whitespace per line, trims the whole.
func cleanText(content string) string {
	content = excessiveLinesRe.ReplaceAllString(content, "\n\n\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	content = strings.Join(lines, "\n")

	return strings.TrimSpace(content)
}

// extractHeadingTitle extracts the first H1 heading from markdown text.
func extractHeadingTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
