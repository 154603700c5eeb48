package report

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const pageStyle = "body{font-family:sans-serif;max-width:1000px;margin:0 auto;padding:1rem;} " +
	"table{width:100%;border-collapse:collapse;margin-bottom:1rem;font-size:0.9rem;} " +
	"th,td{border:1px solid #a8a29e;padding:0.35rem 0.45rem;text-align:left;vertical-align:top;} " +
	"thead th{background:#f1f5f9;font-weight:700;}"

// HTML renders the Markdown report to a standalone HTML page
func HTML(r Report) ([]byte, error) {
	var content bytes.Buffer
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(Markdown(r)), &content); err != nil {
		return nil, fmt.Errorf("markdown convert: %w", err)
	}

	title := "商标注册申请请款汇总"
	if r.Summary.Title != "" {
		title = r.Summary.Title
	}

	var page bytes.Buffer
	page.WriteString("<!doctype html><html><head><meta charset='utf-8'><title>")
	page.WriteString(html.EscapeString(title))
	page.WriteString("</title><style>" + pageStyle + "</style></head><body>")
	page.Write(content.Bytes())
	page.WriteString("</body></html>\n")
	return page.Bytes(), nil
}
