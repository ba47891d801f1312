package services

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"teashop/internal/models"
)

var csvHeader = []string{"id", "nom", "typeThe", "origine", "prix", "quantiteStock", "description", "dateReception"}

// ExportToCSV serializes products, in order, to CSV text.
func (s *ProductService) ExportToCSV(products []models.Product) string {
	var b strings.Builder
	// strings.Builder never fails to write.
	_ = WriteCSV(&b, products)
	return b.String()
}

// WriteCSV writes a header row and one row per product. Every value is
// double-quoted with embedded quotes doubled, missing values are written as
// "" and each row ends with a single '\n'.
func WriteCSV(w io.Writer, products []models.Product) error {
	bw := bufio.NewWriter(w)
	writeCSVRow(bw, csvHeader)
	for _, p := range products {
		writeCSVRow(bw, csvRecord(p))
	}
	return bw.Flush()
}

func csvRecord(p models.Product) []string {
	id := ""
	if p.ID != 0 {
		id = strconv.FormatUint(uint64(p.ID), 10)
	}
	return []string{
		id,
		p.Name,
		p.TeaType,
		p.Origin,
		p.FormattedPrice(),
		strconv.Itoa(p.StockQuantity),
		p.DescriptionText(),
		p.FormattedReceivedDate(),
	}
}

// writeCSVRow quotes every field; encoding/csv only quotes when a field needs it.
func writeCSVRow(w *bufio.Writer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteByte('"')
		w.WriteString(strings.ReplaceAll(f, `"`, `""`))
		w.WriteByte('"')
	}
	w.WriteByte('\n')
}
