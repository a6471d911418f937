package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PartyKind string

const (
	PartyClient  PartyKind = "client"
	PartyCompany PartyKind = "company"
)

func (k PartyKind) Entity() Entity {
	if k == PartyCompany {
		return EntityCompanies
	}
	return EntityClients
}

// Party is the identity half of a client or company record.
type Party interface {
	PartyKind() PartyKind
}

type Client struct {
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Address          string `json:"address"`
	PhoneNumber      string `json:"phone_number"`
	RegistrationDate Date   `json:"registration_date"`
	Email            string `json:"email"`
}

func (Client) PartyKind() PartyKind { return PartyClient }

type Company struct {
	Name             string `json:"name"`
	PhoneNumber      string `json:"phone_number"`
	Address          string `json:"address"`
	RegistrationDate Date   `json:"registration_date"`
	Email            string `json:"email"`
	INN              string `json:"inn"`
}

func (Company) PartyKind() PartyKind { return PartyCompany }

type Deposit struct {
	Amount       decimal.Decimal `json:"amount"`
	OpeningDate  Date            `json:"opening_date"`
	ClosingDate  NullDate        `json:"closing_date"`
	InterestRate decimal.Decimal `json:"interest_rate"`
}

// ActiveOn reports whether the deposit is open on day d. A deposit opened on
// d or closed on d does not count.
func (dep Deposit) ActiveOn(d Date) bool {
	if !dep.OpeningDate.Before(d) {
		return false
	}
	return !dep.ClosingDate.Valid || dep.ClosingDate.Date.After(d)
}

// PartyRecord is a party as stored in a layer. Deposit is nil when the
// source carried no deposit for the party.
type PartyRecord struct {
	ID         int64     `json:"id"`
	Party      Party     `json:"party"`
	Deposit    *Deposit  `json:"deposit,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
	FileName   string    `json:"file_name,omitempty"`
}

type Bank struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	LicenseNumber string `json:"license_number"`
}

type BankRecord struct {
	ID         int64     `json:"id"`
	Bank       Bank      `json:"bank"`
	RecordedAt time.Time `json:"recorded_at"`
	FileName   string    `json:"file_name,omitempty"`
}
