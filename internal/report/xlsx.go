package report

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/RafaelMeirellesJ/Comparando-Mapas-de-Cores-para-Visualiza-o-Cient-fica/internal/correlation"
	"github.com/RafaelMeirellesJ/Comparando-Mapas-de-Cores-para-Visualiza-o-Cient-fica/internal/utils"
)

// WorkbookFile is the XLSX export's name inside the output directory.
const WorkbookFile = "correlations.xlsx"

// CommonSheet holds the common-country table.
const CommonSheet = "Common countries"

// ExportXLSX writes one sheet per non-empty matrix plus the common-country
// table. NaN correlations are left blank.
func ExportXLSX(path string, matrices []MatrixSummary, table *correlation.Frame) error {
	f := excelize.NewFile()
	defer f.Close()

	first := true
	sheet := func(name string) error {
		if first {
			first = false
			return f.SetSheetName("Sheet1", name)
		}
		_, err := f.NewSheet(name)
		return err
	}

	for _, m := range matrices {
		if m.Matrix.Empty() {
			continue
		}
		if err := sheet(m.Name); err != nil {
			return fmt.Errorf("sheet %s: %w", m.Name, err)
		}
		if err := writeMatrix(f, m.Name, m.Matrix); err != nil {
			return fmt.Errorf("sheet %s: %w", m.Name, err)
		}
	}
	if err := sheet(CommonSheet); err != nil {
		return fmt.Errorf("sheet %s: %w", CommonSheet, err)
	}
	if err := writeTable(f, CommonSheet, table); err != nil {
		return fmt.Errorf("sheet %s: %w", CommonSheet, err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("encode workbook: %w", err)
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}

func writeMatrix(f *excelize.File, sheet string, m correlation.Matrix) error {
	header := []any{""}
	for _, l := range m.Labels {
		header = append(header, l)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, l := range m.Labels {
		row := []any{l}
		for j := range m.Labels {
			if v := m.At(i, j); math.IsNaN(v) {
				row = append(row, nil)
			} else {
				row = append(row, v)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeTable(f *excelize.File, sheet string, t *correlation.Frame) error {
	header := []any{"Entity", "Code"}
	if t != nil {
		for _, c := range t.Columns {
			header = append(header, c)
		}
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i := 0; i < t.Len(); i++ {
		k := t.Keys[i]
		row := []any{k.Entity, k.Code}
		for _, c := range t.Columns {
			row = append(row, t.Values[c][i])
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
