// Package preview готовит содержимое текстовых файлов шота для показа.
package preview

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ignatzorin/shotboard/internal/models"
)

// blockTags отделяются переводом строки при извлечении текста.
const blockTags = "p, div, br, li, h1, h2, h3, h4, h5, h6, tr, pre, blockquote"

// Plain возвращает содержимое в виде простого текста: HTML очищается
// от разметки, JSON форматируется, остальные форматы отдаются как есть.
func Plain(p models.PromptFile) (string, error) {
	switch p.Type {
	case models.PromptHTML:
		return HTMLToText(p.Content)
	case models.PromptJSON:
		return indentJSON(p.Content), nil
	default:
		return p.Content, nil
	}
}

// HTMLToText извлекает видимый текст документа.
func HTMLToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("preview: разбор html: %w", err)
	}
	doc.Find("script, style, noscript, template").Remove()
	doc.Find(blockTags).Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	lines := strings.Split(doc.Find("body").Text(), "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = normSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n"), nil
}

// Title возвращает заголовок HTML документа, если он есть.
func Title(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return normSpace(doc.Find("title").First().Text())
}

// indentJSON форматирует JSON; невалидный текст возвращается без изменений.
func indentJSON(raw string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(raw), "", "  "); err != nil {
		return raw
	}
	return buf.String()
}

func normSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
