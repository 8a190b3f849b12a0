package report

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"
)

// WriteWorkbook saves the report tables to an XLSX workbook with one sheet
// per table. Sheets of sections that did not run are omitted; missing
// coefficients are written as empty cells.
func (r *Result) WriteWorkbook(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	var sheets []sheet
	if len(r.Numeric) > 0 {
		sheets = append(sheets, r.describeSheet())
	}
	if len(r.Missing) > 0 {
		rows := [][]any{{"column", "missing"}}
		for _, m := range r.Missing {
			rows = append(rows, []any{m.Name, m.Count})
		}
		sheets = append(sheets, sheet{"missing", rows})
	}
	if r.Corr != nil {
		header := []any{""}
		for _, c := range r.Corr.Columns {
			header = append(header, c)
		}
		rows := [][]any{header}
		for i, vals := range r.Corr.Rows() {
			row := []any{r.Corr.Columns[i]}
			for _, v := range vals {
				row = append(row, cell(v))
			}
			rows = append(rows, row)
		}
		sheets = append(sheets, sheet{"correlation", rows})
	}
	if len(r.TargetCorr) > 0 {
		rows := [][]any{{"column", "r"}}
		for _, tc := range r.TargetCorr {
			rows = append(rows, []any{tc.Column, cell(tc.R)})
		}
		sheets = append(sheets, sheet{"target_corr", rows})
	}
	if len(r.YearlyGross) > 0 || len(r.YearlyRating) > 0 {
		rating := map[float64]float64{}
		for _, y := range r.YearlyRating {
			rating[y.Year] = y.Mean
		}
		years := r.YearlyGross
		if len(years) == 0 {
			years = r.YearlyRating
		}
		rows := [][]any{{"year", "mean_gross", "mean_rating"}}
		for _, y := range years {
			rows = append(rows, []any{int(y.Year), cell(meanOf(r.YearlyGross, y.Year)), cell(lookup(rating, y.Year))})
		}
		sheets = append(sheets, sheet{"trends", rows})
	}
	if len(sheets) == 0 {
		return eris.New("workbook: no tables to export")
	}

	for i, s := range sheets {
		idx, err := f.NewSheet(s.name)
		if err != nil {
			return eris.Wrapf(err, "workbook: add sheet %s", s.name)
		}
		if i == 0 {
			f.SetActiveSheet(idx)
		}
		for j, row := range s.rows {
			ref, err := excelize.CoordinatesToCellName(1, j+1)
			if err != nil {
				return eris.Wrap(err, "workbook: cell name")
			}
			if err := f.SetSheetRow(s.name, ref, &row); err != nil {
				return eris.Wrapf(err, "workbook: write %s row %d", s.name, j+1)
			}
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return eris.Wrap(err, "workbook: remove default sheet")
	}
	if err := f.SaveAs(path); err != nil {
		return eris.Wrapf(err, "workbook: save %s", path)
	}
	return nil
}

type sheet struct {
	name string
	rows [][]any
}

func (r *Result) describeSheet() sheet {
	header := []any{""}
	for _, s := range r.Numeric {
		header = append(header, s.Column)
	}
	rows := [][]any{header}
	for i, label := range describeRows {
		row := []any{label}
		for _, s := range r.Numeric {
			vals := []float64{
				float64(s.Count), s.Mean, s.Std, s.Min, s.Q25, s.Median, s.Q75, s.Max, s.Mode, s.Skew, s.Kurt,
				float64(s.Outliers),
			}
			if label == "outliers" && !s.OutliersChecked {
				row = append(row, nil)
				continue
			}
			row = append(row, cell(vals[i]))
		}
		rows = append(rows, row)
	}
	return sheet{"describe", rows}
}

func cell(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}
