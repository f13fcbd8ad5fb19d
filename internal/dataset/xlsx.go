package dataset

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// xlsxSource reads the first sheet of a workbook.
type xlsxSource struct{}

func (xlsxSource) CanRead(path string) bool { return hasExt(path, ".xlsx") }

func (xlsxSource) Read(path string) ([]string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil, nil
	}
	return rows[0], rows[1:], nil
}
