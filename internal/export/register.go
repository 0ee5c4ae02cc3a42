// Package export writes scanned slips into a spreadsheet register.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/erazemk/slipgen/internal/model"
)

// SheetName is the worksheet the register is written to.
const SheetName = "Register"

// Header is the first row of the register.
var Header = []any{
	"Slip No", "Date & Time", "Department", "Requested By", "Purpose",
	"Item", "Quantity", "Unit", "Account", "Dimension",
}

// WriteRegister writes one row per line of every slip to a new workbook at
// path. Slips without lines get a single row with empty item columns.
func WriteRegister(path string, slips []*model.Slip) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	row := 2
	for _, s := range slips {
		lines := s.Lines()
		if len(lines) == 0 {
			lines = []model.Line{{}}
		}
		for _, l := range lines {
			values := []any{
				s.SlipNumber, s.CreatedAt, s.Department, s.RequesterName, s.Purpose,
				l.Name, quantityCell(l.Quantity), l.Unit, l.AccountCode, l.Dimension,
			}
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return fmt.Errorf("addressing row %d: %w", row, err)
			}
			if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
				return fmt.Errorf("writing row %d: %w", row, err)
			}
			row++
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freezing header: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving register: %w", err)
	}
	return nil
}

// quantityCell leaves the cell empty for placeholder rows.
func quantityCell(q int) any {
	if q == 0 {
		return ""
	}
	return q
}
