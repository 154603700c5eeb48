package report

import (
	"fmt"
	"strings"

	"github.com/a3tai/mcp-trademark-billing/internal/invoice"
)

// Markdown renders the report as a GitHub-flavoured Markdown document
func Markdown(r Report) string {
	var b strings.Builder

	b.WriteString("# 商标注册申请请款汇总\n\n")
	if r.RunID != "" {
		fmt.Fprintf(&b, "Run `%s`: %d invoices, %d skipped, %d failed documents.\n\n",
			r.RunID, len(r.Invoices), len(r.Skipped), len(r.Failed))
	}

	for _, inv := range r.Invoices {
		writeInvoice(&b, inv)
	}
	writeSummary(&b, r.Summary)

	if len(r.Skipped) > 0 {
		b.WriteString("## Skipped applicants\n\n")
		for _, rec := range r.Skipped {
			fmt.Fprintf(&b, "- %s (%s)\n", cell(rec.Applicant.String()), strings.Join(rec.Documents, ", "))
		}
		b.WriteString("\n")
	}

	if len(r.Failed) > 0 {
		b.WriteString("## Unreadable documents\n\n")
		for _, doc := range r.Failed {
			fmt.Fprintf(&b, "- %s\n", cell(doc))
		}
		b.WriteString("\n")
	}

	if len(r.Errors) > 0 {
		b.WriteString("## Errors\n\n")
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "- %s\n", cell(e))
		}
		b.WriteString("\n")
	}

	if len(r.Diagnostics) > 0 {
		b.WriteString("## Diagnostics\n\n")
		b.WriteString("| Severity | Kind | Document | Page | Message |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for _, d := range r.Diagnostics {
			page := ""
			if d.Page > 0 {
				page = fmt.Sprint(d.Page)
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				d.Severity, d.Kind, cell(d.Document), page, cell(d.Message))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func writeInvoice(b *strings.Builder, inv invoice.Invoice) {
	fmt.Fprintf(b, "## %s\n\n", cell(inv.Title))
	fmt.Fprintf(b, "- 申请人：%s\n", cell(inv.Applicant))
	fmt.Fprintf(b, "- 统一社会信用代码：%s\n", cell(inv.RegistrationID))
	fmt.Fprintf(b, "- 日期：%s\n", cell(inv.Date))
	fmt.Fprintf(b, "- 合计大写：%s\n", inv.TotalInWords)
	if len(inv.Unresolved) > 0 {
		fmt.Fprintf(b, "- 待人工补录类别：%s\n", cell(strings.Join(inv.Unresolved, "、")))
	}
	b.WriteString("\n")

	b.WriteString("| 序号 | 事宜 | 商标名称 | 类别 | 官费 | 代理费 | 小计 |\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")
	for _, item := range inv.Items {
		fmt.Fprintf(b, "| %d | %s | %s | %s | %s | %s | %s |\n",
			item.No, item.Matter, cell(item.Trademark), item.Category,
			invoice.FormatYuan(item.Official), invoice.FormatYuan(item.Agent), invoice.FormatYuan(item.Subtotal))
	}
	fmt.Fprintf(b, "| 合计 | | | | %s | %s | %s |\n\n",
		invoice.FormatYuan(inv.TotalOfficial), invoice.FormatYuan(inv.TotalAgent), invoice.FormatYuan(inv.Total))
}

func writeSummary(b *strings.Builder, s invoice.Summary) {
	if len(s.Rows) == 0 {
		return
	}

	fmt.Fprintf(b, "## %s\n\n", cell(s.Title))
	b.WriteString("| 申请人 | 统一社会信用代码 | 费用 | 金额 | 合计 | 日期 |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, row := range s.Rows {
		kind := "代理费"
		if row.Kind == invoice.FeeOfficial {
			kind = "官费"
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s |\n",
			cell(row.Applicant), cell(row.RegistrationID), kind,
			invoice.FormatYuan(row.Amount), invoice.FormatYuan(row.ApplicantTotal), cell(row.Date))
	}
	b.WriteString("\n")
}

var cellReplacer = strings.NewReplacer("|", `\|`, "\n", " ", "\r", " ")

// cell keeps extracted text from breaking table rows
func cell(s string) string {
	return cellReplacer.Replace(s)
}
