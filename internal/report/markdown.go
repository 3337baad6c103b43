package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
)

// MarkdownWriter exporta a página em Markdown (GitHub flavored).
type MarkdownWriter struct {
	output io.Writer
}

func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: output}
}

func (w *MarkdownWriter) Write(page *Page) error {
	md := markdown.NewMarkdown(w.output)
	md.H1(page.Title)
	md.PlainText("")

	for _, s := range page.Sections {
		switch s.Kind {
		case KindMetric:
			md.H2(s.Heading)
			md.PlainText("")
			md.PlainText(markdown.Bold(s.Display))
		case KindNarrative:
			md.H2(s.Heading)
			md.PlainText("")
			md.PlainText(s.Text)
		case KindFooter:
			md.HorizontalRule()
			md.Note(s.Text)
		default:
			md.H2(s.Heading)
			md.PlainText("")
			md.Table(tableSet(s))
		}
		md.PlainText("")
	}
	return md.Build()
}

func tableSet(s Section) markdown.TableSet {
	rows := make([][]string, 0, len(s.Data.Rows))
	for _, r := range s.Data.Rows {
		rows = append(rows, []string{r.Label, strconv.Itoa(r.Count)})
	}
	return markdown.TableSet{
		Header: []string{s.Data.LabelColumn, s.Data.CountColumn},
		Rows:   rows,
	}
}
