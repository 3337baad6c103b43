package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const summarySheet = "Resumo"

// cellWriter guarda o primeiro erro e ignora as escritas seguintes.
type cellWriter struct {
	f   *excelize.File
	err error
}

func (c *cellWriter) set(sheet string, col, row int, v any) {
	if c.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		c.err = err
		return
	}
	c.err = c.f.SetCellValue(sheet, cell, v)
}

// WriteXLSX grava uma planilha "Resumo" e uma aba por dataset, com as
// linhas na mesma ordem em que aparecem no painel.
func WriteXLSX(w io.Writer, page *Page) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	cw := &cellWriter{f: f}

	cw.set(summarySheet, 1, 1, page.Title)
	row := 2
	for _, s := range page.Sections {
		switch s.Kind {
		case KindMetric:
			cw.set(summarySheet, 1, row, s.Heading)
			cw.set(summarySheet, 2, row, s.Value)
			row++
		case KindFooter:
			cw.set(summarySheet, 1, row, s.Text)
			row++
		}
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 48); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}

	for _, s := range page.Sections {
		if s.Data == nil {
			continue
		}
		sheet := s.Data.Key
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("xlsx sheet %s: %w", sheet, err)
		}
		cw.set(sheet, 1, 1, s.Data.LabelColumn)
		cw.set(sheet, 2, 1, s.Data.CountColumn)
		for i, r := range s.Data.Rows {
			cw.set(sheet, 1, i+2, r.Label)
			cw.set(sheet, 2, i+2, r.Count)
		}
		if err := f.SetColWidth(sheet, "A", "A", 40); err != nil {
			return fmt.Errorf("xlsx sheet %s: %w", sheet, err)
		}
	}
	if cw.err != nil {
		return fmt.Errorf("xlsx: %w", cw.err)
	}

	return f.Write(w)
}
