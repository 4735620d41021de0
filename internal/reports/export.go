package reports

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Alejano1/GestInvLab-proyecto/internal/locale"
	"github.com/Alejano1/GestInvLab-proyecto/pkg/models"

	"github.com/xuri/excelize/v2"
)

const (
	CSVFilename  = "reporte_inventario.csv"
	XLSXFilename = "reporte_inventario.xlsx"
	sheetName    = "Reporte"
	placeholder  = "N/A"
)

var Header = []string{"Fecha", "Documento", "Tipo", "Insumo", "Lote", "Cantidad", "Destino", "Usuario"}

// Row is one line of the report table: a movement detail, or the movement
// itself when it has no details.
type Row struct {
	Date        string `json:"fecha"`
	Document    string `json:"documento"`
	Type        string `json:"tipo"`
	Supply      string `json:"insumo"`
	Lot         string `json:"lote"`
	Quantity    int    `json:"cantidad"`
	Destination string `json:"destino"`
	User        string `json:"usuario"`
}

func (r Row) fields() []string {
	quantity := ""
	if r.Quantity != 0 {
		quantity = strconv.Itoa(r.Quantity)
	}
	return []string{r.Date, r.Document, r.Type, r.Supply, r.Lot, quantity, r.Destination, r.User}
}

func Rows(movements []models.Movement, loc *time.Location) []Row {
	rows := make([]Row, 0, len(movements))
	for i := range movements {
		movement := &movements[i]
		base := Row{
			Date:        locale.FormatDateTime(movement.RegisteredAt.Time, loc),
			Document:    movement.Document(),
			Type:        movement.Type,
			Destination: movement.DestinationName(),
			User:        movement.User,
		}
		if len(movement.Details) == 0 {
			row := base
			row.Supply = placeholder
			row.Lot = placeholder
			rows = append(rows, row)
			continue
		}
		for _, detail := range movement.Details {
			row := base
			row.Supply = detail.SupplyName
			row.Lot = detail.LotNumber
			row.Quantity = detail.Quantity
			rows = append(rows, row)
		}
	}
	return rows
}

// ExportCSV writes an unquoted header and fully quoted rows, CRLF terminated.
// A zero quantity is written as an empty field.
func ExportCSV(rows []Row) []byte {
	var buf bytes.Buffer
	buf.WriteString(strings.Join(Header, ","))
	buf.WriteString("\r\n")
	for _, row := range rows {
		fields := row.fields()
		for i, field := range fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteByte('"')
			buf.WriteString(strings.ReplaceAll(field, `"`, `""`))
			buf.WriteByte('"')
		}
		buf.WriteString("\r\n")
	}
	return buf.Bytes()
}

func ExportXLSX(rows []Row) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	for i, h := range Header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("write header %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("style header %s: %w", cell, err)
		}
	}

	for i, row := range rows {
		values := []interface{}{row.Date, row.Document, row.Type, row.Supply, row.Lot, nil, row.Destination, row.User}
		if row.Quantity != 0 {
			values[5] = row.Quantity
		}
		for col, value := range values {
			if value == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("row %d cell: %w", i+1, err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("write %s: %w", cell, err)
			}
		}
	}

	colWidths := []float64{22, 14, 10, 28, 14, 10, 24, 16}
	for i, w := range colWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i+1, err)
		}
		if err := f.SetColWidth(sheetName, col, col, w); err != nil {
			return nil, fmt.Errorf("width of column %s: %w", col, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
