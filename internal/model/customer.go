package model

import "strings"

// Customer 購票顧客，phone 與 email 至少要有一個
type Customer struct {
	ID             int     `json:"id" db:"id"`
	FirstName      string  `json:"first_name" db:"first_name"`
	LastName       string  `json:"last_name" db:"last_name"`
	Phone          *string `json:"phone,omitempty" db:"phone"`
	Email          *string `json:"email,omitempty" db:"email"`
	Organization   *string `json:"organization,omitempty" db:"organization"`
	PreferredSport *string `json:"preferred_sport,omitempty" db:"preferred_sport"`
	Status         string  `json:"status" db:"status"`
	PaymentMethod  *string `json:"payment_method,omitempty" db:"payment_method"`
}

const CustomerStatusActive = "Active"

// NewCustomer 購票時臨時建立的顧客資料
type NewCustomer struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Organization   string `json:"organization"`
	PreferredSport string `json:"preferred_sport"`
	PaymentMethod  string `json:"payment_method"`
}

// HasContact 檢查是否至少有一種聯絡方式
func (c NewCustomer) HasContact() bool {
	return strings.TrimSpace(c.Phone) != "" || strings.TrimSpace(c.Email) != ""
}

// ToCustomer 空字串欄位轉成 NULL
func (c NewCustomer) ToCustomer() *Customer {
	return &Customer{
		FirstName:      strings.TrimSpace(c.FirstName),
		LastName:       strings.TrimSpace(c.LastName),
		Phone:          optionalString(c.Phone),
		Email:          optionalString(c.Email),
		Organization:   optionalString(c.Organization),
		PreferredSport: optionalString(c.PreferredSport),
		Status:         CustomerStatusActive,
		PaymentMethod:  optionalString(c.PaymentMethod),
	}
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
