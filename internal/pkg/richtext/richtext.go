package richtext

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	mdParser = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)
	policy      = bluemonday.UGCPolicy()
	stripPolicy = bluemonday.StrictPolicy()
	tagPattern  = regexp.MustCompile(`<[^>]*>`)
)

func init() {
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	policy.RequireNoReferrerOnLinks(true)
}

// Render 将 Markdown 渲染为净化后的 HTML
func Render(source string) string {
	var buf bytes.Buffer
	if err := mdParser.Convert([]byte(source), &buf); err != nil {
		// 渲染失败时退回净化后的原文
		return policy.Sanitize(source)
	}

	return string(policy.SanitizeBytes(buf.Bytes()))
}

// Clean 净化用户输入的原文，剔除危险标签后原样保存
func Clean(source string) string {
	return policy.Sanitize(source)
}

// IsBlank 判断内容净化后是否为空白
func IsBlank(source string) bool {
	return plainText(source) == ""
}

// Preview 生成通知等场景用的纯文本摘要
func Preview(source string, max int) string {
	plain := plainText(source)
	runes := []rune(plain)
	if len(runes) <= max {
		return plain
	}
	return string(runes[:max])
}

func plainText(source string) string {
	plain := stripPolicy.Sanitize(source)
	plain = tagPattern.ReplaceAllString(plain, "")
	return strings.TrimSpace(plain)
}
