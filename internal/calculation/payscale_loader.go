package calculation

import (
	"encoding/csv"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strconv"
	"strings"
	"unicode"

	"github.com/pensioncalc/corpus-engine/internal/domain"
	"github.com/shopspring/decimal"
)

// LoadPayScaleFile reads a pay matrix CSV from fsys. The table id is the file
// name without extension and the commission ordinal is its leading number
// ("7th_CPC.csv" is commission 7).
func LoadPayScaleFile(fsys fs.FS, name string) (*domain.PayScaleTable, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", name, err)
	}
	defer f.Close()

	id := strings.TrimSuffix(path.Base(name), path.Ext(name))
	return ReadPayScaleTable(f, id, commissionFromID(id))
}

// ReadPayScaleTable parses a pay matrix: the header holds level identifiers,
// each row is a step, and a blank cell ends that level's column.
func ReadPayScaleTable(r io.Reader, id string, commission int) (*domain.PayScaleTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV %s: %w", id, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("insufficient data in %s", id)
	}

	header := make([]string, len(records[0]))
	for i, col := range records[0] {
		header[i] = strings.Trim(strings.TrimSpace(col), `"`)
		if header[i] == "" {
			return nil, fmt.Errorf("%s: empty level name in column %d", id, i+1)
		}
	}

	columns := make(map[string][]decimal.Decimal, len(header))
	ended := make([]bool, len(header))
	for rowIdx, record := range records[1:] {
		for col, level := range header {
			cell := ""
			if col < len(record) {
				cell = strings.TrimSpace(record[col])
			}
			if cell == "" {
				ended[col] = true
				continue
			}
			if ended[col] {
				return nil, fmt.Errorf("%s: level %s has a value after its last step (row %d)", id, level, rowIdx+2)
			}
			pay, err := decimal.NewFromString(cell)
			if err != nil {
				return nil, fmt.Errorf("%s: level %s row %d: %w", id, level, rowIdx+2, err)
			}
			columns[level] = append(columns[level], pay)
		}
	}

	return domain.NewPayScaleTable(id, commission, header, columns)
}

// WritePayScaleTable writes a table in the format ReadPayScaleTable accepts.
func WritePayScaleTable(w io.Writer, table *domain.PayScaleTable) error {
	writer := csv.NewWriter(w)
	levels := table.Levels()
	if err := writer.Write(levels); err != nil {
		return err
	}
	for step := 1; step <= table.MaxSteps(); step++ {
		row := make([]string, len(levels))
		for i, level := range levels {
			if step <= table.Steps(level) {
				pay, err := table.BasicPay(level, step)
				if err != nil {
					return err
				}
				row[i] = pay.String()
			}
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func commissionFromID(id string) int {
	end := strings.IndexFunc(id, func(r rune) bool { return !unicode.IsDigit(r) })
	if end == -1 {
		end = len(id)
	}
	n, err := strconv.Atoi(id[:end])
	if err != nil {
		return 0
	}
	return n
}

// commissionID names a derived table after its commission ordinal, e.g. 8 -> "8th_CPC".
func commissionID(n int) string {
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix + "_CPC"
}
