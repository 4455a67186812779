package roster

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/labstack/gommon/log"
	"github.com/xuri/excelize/v2"

	"classroom-assistant-go/models"
)

const exportSheet = "Roster"

// ExportHeader is the header row written by WriteSpreadsheet.
var ExportHeader = []interface{}{"座號", "姓名", "分數", "參與抽籤"}

// ReadSpreadsheet reads a roster from the first sheet of an xlsx stream.
// The first row is a header; column A holds the id and column B the name.
// Rows are returned as roster text so they go through Parse like typed input.
func ReadSpreadsheet(r io.Reader) (string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		log.Errorf("Error opening Excel reader: %v", err)
		return "", fmt.Errorf("failed to open excel file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Warnf("Error closing excel file: %v", err)
		}
	}()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return "", errors.New("excel file does not contain any sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		log.Errorf("Error getting rows from sheet '%s': %v", sheetName, err)
		return "", fmt.Errorf("failed to get rows from sheet %s: %w", sheetName, err)
	}

	lines := make([]string, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue
		}
		var id, name string
		if len(row) > 0 {
			id = strings.TrimSpace(row[0])
		}
		if len(row) > 1 {
			name = strings.TrimSpace(row[1])
		}
		if id == "" && name == "" {
			continue
		}
		lines = append(lines, strings.TrimSpace(id+" "+name))
	}
	log.Debugf("Read %d roster rows from sheet '%s'", len(lines), sheetName)
	return strings.Join(lines, "\n"), nil
}

// WriteSpreadsheet writes the class roster with scores as an xlsx workbook.
func WriteSpreadsheet(w io.Writer, class models.Class) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Warnf("Error closing excel file: %v", err)
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	header := append([]interface{}(nil), ExportHeader...)
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, s := range class.Students {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{s.ID, s.Name, s.Score, strconv.FormatBool(s.Selected)}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write student %d: %w", s.ID, err)
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
