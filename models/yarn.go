// models/yarn.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const YarnTable = "yarn_inventory"

// Yarn statuses.
const (
	YarnStatusActive = "active"
)

type Yarn struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64           `gorm:"not null;index" json:"user_id"`
	DateAdded   time.Time       `gorm:"not null;index" json:"date_added"`
	Brand       string          `gorm:"size:255;not null" json:"brand"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Color       *string         `gorm:"size:100" json:"color"`
	Count       *int            `json:"count"`
	StartLen    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"start_len"`
	StartWeight decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"start_weight"`
	CurrWeight  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"curr_weight"`
	UPC         *string         `gorm:"column:upc;size:64" json:"upc"`
	Status      *string         `gorm:"size:32;default:'active'" json:"status"`
	Deleted     bool            `gorm:"not null;default:false;index" json:"deleted"`
	DeletedWhen *time.Time      `json:"deleted_when"`
}

func (Yarn) TableName() string { return YarnTable }

// YarnInput is the request body for create and update. Pointers keep
// "absent" apart from zero values; validate tags apply to create only.
type YarnInput struct {
	UserID      *int64           `json:"user_id" validate:"required,gt=0"`
	Brand       *string          `json:"brand" validate:"required,min=1"`
	Name        *string          `json:"name" validate:"required,min=1"`
	Color       *string          `json:"color"`
	Count       *int             `json:"count"`
	StartLen    *decimal.Decimal `json:"start_len" validate:"required"`
	StartWeight *decimal.Decimal `json:"start_weight" validate:"required"`
	CurrWeight  *decimal.Decimal `json:"curr_weight" validate:"required"`
	UPC         *string          `json:"upc"`
	Status      *string          `json:"status"`
}

// CreateYarnResponse is returned by POST /api/yarn.
type CreateYarnResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// MessageResponse is returned by PUT and DELETE.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}
