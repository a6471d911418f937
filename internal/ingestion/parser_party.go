package ingestion

import (
	"fmt"

	"github.com/wakala/dwh/internal/domain"
)

const partyColumns = 10

// ParseClients parses the clients file.
//
// Expected header:
//
//	first_name,last_name,address,phone_number,registration_date,email,deposit_amount,opening_date,closing_date,interest_rate
func ParseClients(data []byte) ([]domain.PartyRecord, []RowError, error) {
	var records []domain.PartyRecord
	skipped, err := readRows(data, func(row []string) error {
		if len(row) != partyColumns {
			return fmt.Errorf("expected %d columns, got %d", partyColumns, len(row))
		}
		reg, err := parseDate("registration_date", row[4])
		if err != nil {
			return err
		}
		dep, err := parseDeposit(row[6:10])
		if err != nil {
			return err
		}
		records = append(records, domain.PartyRecord{
			Party: domain.Client{
				FirstName:        row[0],
				LastName:         row[1],
				Address:          row[2],
				PhoneNumber:      row[3],
				RegistrationDate: reg,
				Email:            row[5],
			},
			Deposit: dep,
		})
		return nil
	})
	return records, skipped, err
}

// ParseCompanies parses the companies file.
//
// Expected header:
//
//	name,phone_number,address,registration_date,email,inn,deposit_amount,opening_date,closing_date,interest_rate
func ParseCompanies(data []byte) ([]domain.PartyRecord, []RowError, error) {
	var records []domain.PartyRecord
	skipped, err := readRows(data, func(row []string) error {
		if len(row) != partyColumns {
			return fmt.Errorf("expected %d columns, got %d", partyColumns, len(row))
		}
		reg, err := parseDate("registration_date", row[3])
		if err != nil {
			return err
		}
		dep, err := parseDeposit(row[6:10])
		if err != nil {
			return err
		}
		records = append(records, domain.PartyRecord{
			Party: domain.Company{
				Name:             row[0],
				PhoneNumber:      row[1],
				Address:          row[2],
				RegistrationDate: reg,
				Email:            row[4],
				INN:              row[5],
			},
			Deposit: dep,
		})
		return nil
	})
	return records, skipped, err
}

// parseDeposit reads amount, opening date, closing date and interest rate.
// A row with neither amount nor opening date carries no deposit; an empty
// closing date leaves the deposit open.
func parseDeposit(f []string) (*domain.Deposit, error) {
	if f[0] == "" && f[1] == "" {
		return nil, nil
	}
	amount, err := parseAmount("deposit_amount", f[0])
	if err != nil {
		return nil, err
	}
	opening, err := parseDate("opening_date", f[1])
	if err != nil {
		return nil, err
	}
	dep := &domain.Deposit{Amount: amount, OpeningDate: opening}
	if f[2] != "" {
		closing, err := parseDate("closing_date", f[2])
		if err != nil {
			return nil, err
		}
		dep.ClosingDate = domain.NullDate{Date: closing, Valid: true}
	}
	if dep.InterestRate, err = parseAmount("interest_rate", f[3]); err != nil {
		return nil, err
	}
	return dep, nil
}

// ParseBank parses the bank file.
//
// Expected header:
//
//	name,address,license_number
func ParseBank(data []byte) ([]domain.BankRecord, []RowError, error) {
	var records []domain.BankRecord
	skipped, err := readRows(data, func(row []string) error {
		if len(row) != 3 {
			return fmt.Errorf("expected 3 columns, got %d", len(row))
		}
		records = append(records, domain.BankRecord{
			Bank: domain.Bank{Name: row[0], Address: row[1], LicenseNumber: row[2]},
		})
		return nil
	})
	return records, skipped, err
}
