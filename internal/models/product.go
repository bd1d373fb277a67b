package models

import "github.com/shopspring/decimal"

// ProductColumns is the declared column order of the Product table.
var ProductColumns = []string{"Product_ID", "Product_Name", "Description", "Stock_Quantity", "Unit_Price"}

// Product represents a catalog entry.
type Product struct {
	ID            uint            `json:"id" gorm:"column:Product_ID;primaryKey"`
	Name          string          `json:"name" gorm:"column:Product_Name;not null"`
	Description   string          `json:"description" gorm:"column:Description"`
	StockQuantity int             `json:"stock_quantity" gorm:"column:Stock_Quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price" gorm:"column:Unit_Price"`
}

func (Product) TableName() string { return "Product" }
