package models

import "time"

// InvoiceColumns is the declared column order of the Invoice table.
var InvoiceColumns = []string{"Invoice_ID", "User_ID", "Invoice_Date"}

// InvoiceLineItemColumns is the declared column order of the Invoice_Line_Item table.
var InvoiceLineItemColumns = []string{"Line_Item_ID", "Invoice_ID", "Product_ID", "Quantity"}

// Invoice is an invoice header together with its ordered line items.
type Invoice struct {
	ID          uint              `json:"id" gorm:"column:Invoice_ID;primaryKey"`
	UserID      uint              `json:"user_id" gorm:"column:User_ID"`
	InvoiceDate time.Time         `json:"invoice_date" gorm:"column:Invoice_Date"`
	LineItems   []InvoiceLineItem `json:"line_items" gorm:"foreignKey:InvoiceID;references:ID"`
}

func (Invoice) TableName() string { return "Invoice" }

// InvoiceLineItem is one product and quantity entry of an invoice.
// Product is a snapshot taken when the invoice was built; later catalog
// edits are not reflected in it.
type InvoiceLineItem struct {
	ID        uint    `json:"id" gorm:"column:Line_Item_ID;primaryKey"`
	InvoiceID uint    `json:"invoice_id" gorm:"column:Invoice_ID"`
	ProductID uint    `json:"product_id" gorm:"column:Product_ID"`
	Quantity  int     `json:"quantity" gorm:"column:Quantity"`
	Product   Product `json:"product" gorm:"foreignKey:ProductID;references:ID"`
}

func (InvoiceLineItem) TableName() string { return "Invoice_Line_Item" }

// Clone returns a deep copy so callers cannot mutate cached line items.
func (i Invoice) Clone() Invoice {
	out := i
	out.LineItems = append([]InvoiceLineItem(nil), i.LineItems...)
	return out
}
