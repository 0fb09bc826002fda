package web

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"yarn_inventory/models"

	"github.com/shopspring/decimal"
)

// YarnForm holds the raw form values so a failed submit can be shown again
// exactly as typed.
type YarnForm struct {
	UserID      string `form:"user_id"`
	Brand       string `form:"brand"`
	Name        string `form:"name"`
	Color       string `form:"color"`
	Count       string `form:"count"`
	StartLen    string `form:"start_len"`
	StartWeight string `form:"start_weight"`
	CurrWeight  string `form:"curr_weight"`
	UPC         string `form:"upc"`
	Status      string `form:"status"`
}

func formFromYarn(y *models.Yarn) YarnForm {
	f := YarnForm{
		UserID:      strconv.FormatInt(y.UserID, 10),
		Brand:       y.Brand,
		Name:        y.Name,
		StartLen:    y.StartLen.String(),
		StartWeight: y.StartWeight.String(),
		CurrWeight:  y.CurrWeight.String(),
	}
	if y.Color != nil {
		f.Color = *y.Color
	}
	if y.Count != nil {
		f.Count = strconv.Itoa(*y.Count)
	}
	if y.UPC != nil {
		f.UPC = *y.UPC
	}
	if y.Status != nil {
		f.Status = *y.Status
	}
	return f
}

// Input converts the form into an API request body. Blank fields are left
// out; the API decides which of them are required.
func (f YarnForm) Input() (models.YarnInput, error) {
	var in models.YarnInput

	if s := strings.TrimSpace(f.UserID); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return in, errors.New("User ID must be a whole number")
		}
		in.UserID = &n
	}
	if s := strings.TrimSpace(f.Count); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return in, errors.New("Count must be a whole number")
		}
		in.Count = &n
	}

	var err error
	if in.StartLen, err = parseDecimal("Starting length", f.StartLen); err != nil {
		return in, err
	}
	if in.StartWeight, err = parseDecimal("Starting weight", f.StartWeight); err != nil {
		return in, err
	}
	if in.CurrWeight, err = parseDecimal("Current weight", f.CurrWeight); err != nil {
		return in, err
	}

	in.Brand = text(f.Brand)
	in.Name = text(f.Name)
	in.Color = text(f.Color)
	in.UPC = text(f.UPC)
	in.Status = text(f.Status)
	return in, nil
}

func parseDecimal(label, raw string) (*decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", label)
	}
	return &d, nil
}

func text(raw string) *string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	return &s
}
