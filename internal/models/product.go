package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date format used for receivedDate in forms, JSON and CSV.
const DateLayout = "2006-01-02"

// Product represents a tea in the catalog.
type Product struct {
	ID            uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	Name          string          `json:"nom" gorm:"type:varchar(100);not null;index"`
	TeaType       string          `json:"typeThe" gorm:"type:varchar(255);not null;index"`
	Origin        string          `json:"origine" gorm:"type:varchar(255);not null"`
	Price         decimal.Decimal `json:"prix" gorm:"type:decimal(10,2);not null"`
	StockQuantity int             `json:"quantiteStock" gorm:"not null;default:0"`
	Description   *string         `json:"description" gorm:"type:varchar(500)"`
	ReceivedDate  *time.Time      `json:"dateReception" gorm:"type:date"`
}

// TableName pins the table name regardless of the naming strategy.
func (Product) TableName() string {
	return "products"
}

// FormattedReceivedDate returns the received date as YYYY-MM-DD, or "" when unset.
func (p Product) FormattedReceivedDate() string {
	if p.ReceivedDate == nil {
		return ""
	}
	return p.ReceivedDate.Format(DateLayout)
}

// FormattedPrice returns the price with two decimals.
func (p Product) FormattedPrice() string {
	return p.Price.StringFixed(2)
}

// DescriptionText returns the description, or "" when unset.
func (p Product) DescriptionText() string {
	if p.Description == nil {
		return ""
	}
	return *p.Description
}

// ProductFilter narrows a product query. Empty fields are not applied.
type ProductFilter struct {
	NameContains string // case-insensitive substring on name
	TeaType      string // exact match on tea type
}
