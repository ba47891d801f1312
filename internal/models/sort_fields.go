package models

import "strings"

// Sortable product properties, keyed by their wire name.
const (
	FieldID            = "id"
	FieldName          = "nom"
	FieldTeaType       = "typeThe"
	FieldOrigin        = "origine"
	FieldPrice         = "prix"
	FieldStockQuantity = "quantiteStock"
	FieldDescription   = "description"
	FieldReceivedDate  = "dateReception"
)

// ProductColumns maps each sortable property to its database column.
var ProductColumns = map[string]string{
	FieldID:            "id",
	FieldName:          "name",
	FieldTeaType:       "tea_type",
	FieldOrigin:        "origin",
	FieldPrice:         "price",
	FieldStockQuantity: "stock_quantity",
	FieldDescription:   "description",
	FieldReceivedDate:  "received_date",
}

var sortAliases = map[string]string{
	"id":            FieldID,
	"nom":           FieldName,
	"name":          FieldName,
	"typethe":       FieldTeaType,
	"teatype":       FieldTeaType,
	"tea_type":      FieldTeaType,
	"origine":       FieldOrigin,
	"origin":        FieldOrigin,
	"prix":          FieldPrice,
	"price":         FieldPrice,
	"quantitestock": FieldStockQuantity,
	"stockquantity": FieldStockQuantity,
	"stock":         FieldStockQuantity,
	"description":   FieldDescription,
	"datereception": FieldReceivedDate,
	"receiveddate":  FieldReceivedDate,
}

// CanonicalSortField resolves a caller-supplied sort key to a property name.
// Matching ignores case; unknown keys return false.
func CanonicalSortField(key string) (string, bool) {
	field, ok := sortAliases[strings.ToLower(strings.TrimSpace(key))]
	return field, ok
}

// ParseDirection maps "desc" (any case) to Desc and anything else to Asc.
func ParseDirection(s string) Direction {
	if strings.EqualFold(s, "desc") {
		return Desc
	}
	return Asc
}
