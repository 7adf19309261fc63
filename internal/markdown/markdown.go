// Package markdown converts fetched page HTML into GitHub-flavored
// markdown, the format every stored page file uses.
package markdown

import (
	"regexp"
	"strings"

	htmltomd "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
)

type Converter struct {
	md *htmltomd.Converter
}

func NewConverter() *Converter {
	conv := htmltomd.NewConverter("", true, nil)
	conv.Use(plugin.GitHubFlavored())
	conv.AddRules(codeBlockRule(), admonitionRule())
	return &Converter{md: conv}
}

// Convert renders a whole page to markdown. Script and style content is
// dropped by the underlying converter; the result is trimmed and ends
// with a single newline.
func (c *Converter) Convert(html string) (string, error) {
	body, err := c.md.ConvertString(html)
	if err != nil {
		return "", err
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return "", nil
	}
	return body + "\n", nil
}

// codeBlockRule keeps fenced code blocks with language hints instead of
// letting <pre> collapse into indented blocks.
func codeBlockRule() htmltomd.Rule {
	return htmltomd.Rule{
		Filter: []string{"pre"},
		Replacement: func(_ string, selec *goquery.Selection, _ *htmltomd.Options) *string {
			if selec == nil {
				empty := ""
				return &empty
			}

			code := selec.Find("code").First()
			if code.Length() == 0 {
				return nil
			}

			text := strings.ReplaceAll(code.Text(), "\r\n", "\n")
			text = strings.TrimSuffix(text, "\n")

			fence := "```"
			if strings.Contains(text, "```") {
				fence = "````"
			}

			var b strings.Builder
			b.WriteString("\n")
			b.WriteString(fence)
			b.WriteString(detectLanguage(code))
			b.WriteString("\n")
			b.WriteString(text)
			b.WriteString("\n")
			b.WriteString(fence)
			b.WriteString("\n")
			out := b.String()
			return &out
		},
	}
}

var langClassRe = regexp.MustCompile(`(?:^|\s)(?:language|lang)-([a-zA-Z0-9_+-]+)(?:\s|$)`)

func detectLanguage(code *goquery.Selection) string {
	class := strings.TrimSpace(code.AttrOr("class", ""))
	m := langClassRe.FindStringSubmatch(class)
	if len(m) != 2 {
		return ""
	}
	lang := strings.ToLower(m[1])
	if lang == "golang" {
		lang = "go"
	}
	return lang
}

// admonitionRule turns note/warning/tip callout containers, common on
// documentation sites, into blockquotes with a bold title.
func admonitionRule() htmltomd.Rule {
	return htmltomd.Rule{
		Filter: []string{"div", "aside"},
		Replacement: func(content string, selec *goquery.Selection, _ *htmltomd.Options) *string {
			title := admonitionTitle(strings.ToLower(selec.AttrOr("class", "")))
			if title == "" {
				return nil
			}

			var b strings.Builder
			b.WriteString("> **" + title + "**\n")
			for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
				if strings.TrimSpace(line) == "" {
					b.WriteString(">\n")
				} else {
					b.WriteString("> " + line + "\n")
				}
			}
			b.WriteString("\n")
			out := b.String()
			return &out
		},
	}
}

func admonitionTitle(classes string) string {
	switch {
	case strings.Contains(classes, "warning"), strings.Contains(classes, "caution"):
		return "Warning"
	case strings.Contains(classes, "note"):
		return "Note"
	case strings.Contains(classes, "tip"):
		return "Tip"
	case strings.Contains(classes, "important"):
		return "Important"
	default:
		return ""
	}
}
