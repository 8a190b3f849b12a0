package source

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"
)

type xlsxLoader struct{}

func (xlsxLoader) CanLoad(path string) bool {
	name := strings.ToLower(path)
	return strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".xlsm")
}

// Load reads the selected worksheet. If SheetName is empty and SheetIndex <= 0,
// it defaults to the first sheet.
func (xlsxLoader) Load(ctx context.Context, path string, opt Options) (*Records, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}
	defer f.Close()

	sheet, err := pickSheet(f.GetSheetList(), opt, baseName(path))
	if err != nil {
		return nil, err
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, eris.Wrapf(err, "xlsx: read sheet %q", sheet)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, eris.Wrapf(ErrEmpty, "xlsx: sheet %q", sheet)
	}
	col := newCollector(baseName(path), rows[0], opt)
	for _, row := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "xlsx: cancelled")
		}
		if isBlankRow(row) {
			continue
		}
		col.add(row)
	}
	return col.rec, nil
}

func pickSheet(sheets []string, opt Options, file string) (string, error) {
	if opt.SheetName != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, opt.SheetName) {
				return s, nil
			}
		}
		return "", eris.Errorf("xlsx: sheet '%s' not found in workbook '%s'; available sheets: %s",
			opt.SheetName, file, strings.Join(sheets, ", "))
	}
	idx := opt.SheetIndex
	if idx <= 0 {
		idx = 1
	}
	if idx > len(sheets) {
		return "", eris.Errorf("xlsx: sheet index %d out of range (workbook has %d sheets)", idx, len(sheets))
	}
	return sheets[idx-1], nil
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
