package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const textSeparator = "\t"

var cellReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ")

// encodeText joins the header and rows with newlines, one record per line.
// Cell values are flattened so the line count always equals rows + 1.
func encodeText(headers []string, rows [][]string) []byte {
	var b bytes.Buffer
	writeLine := func(cells []string) {
		for i, c := range cells {
			if i > 0 {
				b.WriteString(textSeparator)
			}
			b.WriteString(cellReplacer.Replace(c))
		}
	}

	writeLine(headers)
	for _, row := range rows {
		b.WriteByte('\n')
		writeLine(row)
	}
	return b.Bytes()
}

// encodeXLSX builds a single-sheet workbook in memory.
func encodeXLSX(sheet string, headers []string, rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "" && sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return nil, fmt.Errorf("rename sheet: %w", err)
		}
	} else {
		sheet = "Sheet1"
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return nil, fmt.Errorf("stream writer: %w", err)
	}

	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = excelize.Cell{Value: h}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return nil, fmt.Errorf("flush sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
