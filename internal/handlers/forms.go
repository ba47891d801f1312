package handlers

import (
	"strconv"
	"strings"
	"time"

	"teashop/internal/models"
	"teashop/pkg/validator"

	"github.com/shopspring/decimal"
)

// ProductForm is the create/edit form as submitted by the browser.
// Fields stay strings so a bad value can be echoed back with its message.
type ProductForm struct {
	Name          string `form:"nom" validate:"notblank,max=100"`
	TeaType       string `form:"typeThe" validate:"notblank"`
	Origin        string `form:"origine" validate:"notblank"`
	Price         string `form:"prix" validate:"required,numeric,decimal_gte=5,decimal_lte=100"`
	StockQuantity string `form:"quantiteStock" validate:"required,integer,number,max=9"`
	Description   string `form:"description" validate:"max=500"`
	ReceivedDate  string `form:"dateReception" validate:"omitempty,datetime=2006-01-02"`
}

// fieldMessages holds the message shown for each form field and failed rule.
var fieldMessages = map[string]map[string]string{
	"nom": {
		"notblank": "Le nom est obligatoire",
		"max":      "Le nom ne peut pas dépasser 100 caractères",
	},
	"typeThe": {"notblank": "Le type de thé est obligatoire"},
	"origine": {"notblank": "L'origine est obligatoire"},
	"prix": {
		"required":    "Le prix est obligatoire",
		"numeric":     "Le prix doit être un nombre",
		"decimal_gte": "Le prix doit être au minimum 5€",
		"decimal_lte": "Le prix ne peut pas dépasser 100€",
	},
	"quantiteStock": {
		"required": "La quantité en stock est obligatoire",
		"integer":  "La quantité doit être un nombre entier",
		"number":   "La quantité ne peut pas être négative",
		"max":      "La quantité est trop grande",
	},
	"description":   {"max": "La description ne peut pas dépasser 500 caractères"},
	"dateReception": {"datetime": "La date de réception doit être au format AAAA-MM-JJ"},
}

// Validate returns one message per invalid field, keyed by form name.
// An empty map means the form can be saved.
func (f ProductForm) Validate() map[string]string {
	errs := make(map[string]string)
	for _, e := range validator.ValidateStruct(f) {
		msg, ok := fieldMessages[e.FailedField][e.Tag]
		if !ok {
			msg = "Valeur invalide"
		}
		errs[e.FailedField] = msg
	}
	return errs
}

// Product converts a validated form into a product carrying id.
func (f ProductForm) Product(id uint) models.Product {
	price, _ := decimal.NewFromString(strings.TrimSpace(f.Price))
	stock, _ := strconv.Atoi(f.StockQuantity)

	p := models.Product{
		ID:            id,
		Name:          f.Name,
		TeaType:       f.TeaType,
		Origin:        f.Origin,
		Price:         price,
		StockQuantity: stock,
	}
	if f.Description != "" {
		desc := f.Description
		p.Description = &desc
	}
	if f.ReceivedDate != "" {
		if d, err := time.Parse(models.DateLayout, f.ReceivedDate); err == nil {
			p.ReceivedDate = &d
		}
	}
	return p
}

// FormFromProduct pre-fills the edit form.
func FormFromProduct(p models.Product) ProductForm {
	return ProductForm{
		Name:          p.Name,
		TeaType:       p.TeaType,
		Origin:        p.Origin,
		Price:         p.FormattedPrice(),
		StockQuantity: strconv.Itoa(p.StockQuantity),
		Description:   p.DescriptionText(),
		ReceivedDate:  p.FormattedReceivedDate(),
	}
}
