package reports

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet    = "Summary"
	productsSheet   = "Top Products"
	categoriesSheet = "Categories"
)

func setRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// WriteXLSX renders the stats as a workbook. rate converts USD to the local
// currency for the second value column; pass 0 to leave it out.
func WriteXLSX(w io.Writer, st *Stats, rate float64) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}

	local := func(v float64) interface{} {
		if rate <= 0 {
			return nil
		}
		return v * rate
	}
	summary := [][]interface{}{
		{"Metric", "USD", "Local"},
		{"Timeframe", string(st.Timeframe), nil},
		{"Total revenue", st.TotalRevenue, local(st.TotalRevenue)},
		{"Potential revenue", st.TotalPotentialRevenue, local(st.TotalPotentialRevenue)},
		{"Unpaid revenue", st.UnpaidRevenue, local(st.UnpaidRevenue)},
		{"Orders", st.OrderCount, nil},
		{"Average order", st.AvgOrderValue, local(st.AvgOrderValue)},
		{"Expenses", st.TotalExpenses, local(st.TotalExpenses)},
		{"Salaries", st.TotalSalaries, local(st.TotalSalaries)},
		{"Stock value", st.StockValue, local(st.StockValue)},
		{"Low stock items", st.LowStockCount, nil},
	}
	if err := setRows(f, summarySheet, summary); err != nil {
		return err
	}

	if _, err := f.NewSheet(productsSheet); err != nil {
		return err
	}
	products := [][]interface{}{{"Product", "Qty sold"}}
	for _, p := range st.TopProducts {
		products = append(products, []interface{}{p.Name, p.Qty})
	}
	if err := setRows(f, productsSheet, products); err != nil {
		return err
	}

	if _, err := f.NewSheet(categoriesSheet); err != nil {
		return err
	}
	categories := [][]interface{}{{"Category", "Revenue"}}
	for _, c := range st.CategoryPerformance {
		categories = append(categories, []interface{}{c.Name, c.Value})
	}
	if err := setRows(f, categoriesSheet, categories); err != nil {
		return err
	}

	_, err := f.WriteTo(w)
	return err
}
