package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	PaymentModeFreeScheme = "FREE SCHEME"
	DeliveryModeCounter   = "Bus Pass Counter"
)

// Age is the applicant's age split the way the counter form collects it.
type Age struct {
	Years  int `json:"years"`
	Months int `json:"months"`
	Days   int `json:"days"`
}

// AgeOn returns the completed years, months and days between birth and on, both taken
// as calendar dates.
func AgeOn(birth, on time.Time) Age {
	birth = time.Date(birth.Year(), birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC)
	on = time.Date(on.Year(), on.Month(), on.Day(), 0, 0, 0, 0, time.UTC)
	if on.Before(birth) {
		return Age{}
	}

	years := on.Year() - birth.Year()
	if birth.AddDate(years, 0, 0).After(on) {
		years--
	}
	anchor := birth.AddDate(years, 0, 0)
	months := 0
	for months < 11 && !anchor.AddDate(0, months+1, 0).After(on) {
		months++
	}
	anchor = anchor.AddDate(0, months, 0)
	return Age{Years: years, Months: months, Days: int(on.Sub(anchor).Hours() / 24)}
}

// Applicant is one persisted bus pass application.
type Applicant struct {
	ID           int64     `json:"id"`
	PassID       string    `json:"passId"`
	QRCode       string    `json:"qrCode"`
	Name         string    `json:"name"`
	FatherName   string    `json:"fatherName"`
	DOB          string    `json:"dob"`
	Gender       string    `json:"gender"`
	Age          Age       `json:"age"`
	Phone        string    `json:"phone"`
	Whatsapp     string    `json:"whatsapp"`
	Number       string    `json:"number"`
	Aadhar       string    `json:"aadhar"`
	Photo        string    `json:"photo"`
	AadharFile   string    `json:"aadharFile"`
	Address      string    `json:"address"`
	District     string    `json:"district"`
	Mandal       string    `json:"mandal"`
	Village      string    `json:"village"`
	Pincode      string    `json:"pincode"`
	City         string    `json:"city"`
	PassType     string    `json:"passType"`
	PaymentMode  string    `json:"paymentMode"`
	DeliveryMode string    `json:"deliveryMode"`
	Counter      string    `json:"counter"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Contacts returns the contact aliases stored on the record.
func (a Applicant) Contacts() ContactSet {
	return ContactSet{Phone: a.Phone, Whatsapp: a.Whatsapp, Number: a.Number}
}

// MaxContactLen matches the width of the contact columns.
const MaxContactLen = 32

// ContactSet holds the three contact aliases an applicant may be looked up by.
type ContactSet struct {
	Phone    string
	Whatsapp string
	Number   string
}

// Canonical prefers phone, then whatsapp, then number.
func (c ContactSet) Canonical() string {
	for _, v := range []string{c.Phone, c.Whatsapp, c.Number} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// Resolve fills every empty alias with the canonical value. Explicit values are kept.
func (c ContactSet) Resolve() ContactSet {
	canonical := c.Canonical()
	fill := func(v string) string {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
		return canonical
	}
	return ContactSet{
		Phone:    fill(c.Phone),
		Whatsapp: fill(c.Whatsapp),
		Number:   fill(c.Number),
	}
}

// Oversized returns the form name of the first contact longer than MaxContactLen, or "".
func (c ContactSet) Oversized() string {
	for _, f := range []struct{ name, v string }{
		{"phone", c.Phone}, {"whatsapp", c.Whatsapp}, {"number", c.Number},
	} {
		if utf8.RuneCountInString(strings.TrimSpace(f.v)) > MaxContactLen {
			return f.name
		}
	}
	return ""
}

// Aliases lists the distinct non-empty values in phone, whatsapp, number order.
func (c ContactSet) Aliases() []string {
	out := make([]string, 0, 3)
	seen := map[string]bool{}
	for _, v := range []string{c.Phone, c.Whatsapp, c.Number} {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// ApplicationInput carries the text fields of a submitted application form.
type ApplicationInput struct {
	Name       string
	FatherName string
	DOB        string
	Gender     string
	Age        Age
	Contacts   ContactSet
	Aadhar     string
	Address    string
	District   string
	Mandal     string
	Village    string
	Pincode    string
	City       string
	PassType   string
	Counter    string
}
