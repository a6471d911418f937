package main

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"
)

func main() {
	rng := rand.New(rand.NewSource(42))
	// testdata/*.csv are hand-written fixtures; never overwrite them.
	baseDir := filepath.Join(findTestdataDir(), "generated")
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		panic(err)
	}

	// Date range: 2024-10-21 to 2024-11-03.
	startDate := time.Date(2024, 10, 21, 0, 0, 0, 0, time.UTC)
	days := 14

	generateClients(rng, baseDir, startDate, 40)
	generateCompanies(rng, baseDir, startDate, 15)
	generateBank(baseDir)
	generateSnapshots(rng, baseDir, "capital.csv",
		[]string{"reserve_fund", "equity_capital", "accumulated_earnings"}, startDate, days, 800, 2500)
	generateSnapshots(rng, baseDir, "assets.csv",
		[]string{"securities", "real_estate", "financial_reports", "credit_facilities", "machinery", "debts", "equipment"},
		startDate, days, 2000, 9000)
	generateSnapshots(rng, baseDir, "liabilities.csv",
		[]string{"financial_instruments_debts", "securities_obligations", "reporting_data", "invoices_to_pay", "funds_in_accounts"},
		startDate, days, 1000, 6000)

	fmt.Printf("Test data written to %s\n", baseDir)
}

var (
	firstNames = []string{"Anna", "Boris", "Darya", "Egor", "Irina", "Maksim", "Olga", "Pavel", "Sofia", "Timur"}
	lastNames  = []string{"Volkova", "Petrov", "Smirnova", "Orlov", "Kuznetsova", "Sokolov", "Popova", "Lebedev"}
	streets    = []string{"Lenina", "Sadovaya", "Mira", "Tverskaya", "Nevsky", "Gagarina"}
)

func openCSV(path string, header []string) (*os.File, *csv.Writer) {
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	w := csv.NewWriter(f)
	w.Write(header)
	return f, w
}

func money(rng *rand.Rand, lo, hi float64) string {
	return fmt.Sprintf("%.2f", lo+rng.Float64()*(hi-lo))
}

// deposit returns amount, opening, closing and rate. Roughly one in five
// deposits is still open; one in twenty rows carries no deposit at all.
func deposit(rng *rand.Rand, start time.Time) []string {
	if rng.Float64() < 0.05 {
		return []string{"", "", "", ""}
	}
	opening := start.AddDate(0, 0, -rng.Intn(400))
	closing := ""
	if rng.Float64() > 0.2 {
		closing = opening.AddDate(0, 0, 30+rng.Intn(700)).Format("2006-01-02")
	}
	return []string{
		money(rng, 50, 5000),
		opening.Format("2006-01-02"),
		closing,
		fmt.Sprintf("%.2f", 0.5+rng.Float64()*12),
	}
}

func generateClients(rng *rand.Rand, baseDir string, start time.Time, n int) {
	path := filepath.Join(baseDir, "clients.csv")
	f, w := openCSV(path, []string{
		"first_name", "last_name", "address", "phone_number", "registration_date", "email",
		"deposit_amount", "opening_date", "closing_date", "interest_rate",
	})
	defer f.Close()
	defer w.Flush()

	for i := 0; i < n; i++ {
		first := firstNames[rng.Intn(len(firstNames))]
		last := lastNames[rng.Intn(len(lastNames))]
		row := []string{
			first, last,
			fmt.Sprintf("%s st. %d", streets[rng.Intn(len(streets))], 1+rng.Intn(120)),
			fmt.Sprintf("+7900%07d", rng.Intn(10000000)),
			start.AddDate(0, 0, -rng.Intn(2000)).Format("2006-01-02"),
			fmt.Sprintf("%s.%s%d@example.com", first, last, i),
		}
		w.Write(append(row, deposit(rng, start)...))
	}

	// One malformed row to exercise the arity check.
	w.Write([]string{"Broken", "Row", "Nowhere"})
	fmt.Printf("Generated %d clients -> %s\n", n, path)
}

func generateCompanies(rng *rand.Rand, baseDir string, start time.Time, n int) {
	path := filepath.Join(baseDir, "companies.csv")
	f, w := openCSV(path, []string{
		"name", "phone_number", "address", "registration_date", "email", "inn",
		"deposit_amount", "opening_date", "closing_date", "interest_rate",
	})
	defer f.Close()
	defer w.Flush()

	for i := 0; i < n; i++ {
		row := []string{
			fmt.Sprintf("OOO Company %02d", i+1),
			fmt.Sprintf("+7495%07d", rng.Intn(10000000)),
			fmt.Sprintf("%s st. %d", streets[rng.Intn(len(streets))], 1+rng.Intn(120)),
			start.AddDate(0, 0, -rng.Intn(4000)).Format("2006-01-02"),
			fmt.Sprintf("office%02d@example.com", i+1),
			fmt.Sprintf("77%08d", rng.Intn(100000000)),
		}
		w.Write(append(row, deposit(rng, start)...))
	}
	fmt.Printf("Generated %d companies -> %s\n", n, path)
}

func generateBank(baseDir string) {
	path := filepath.Join(baseDir, "bank.csv")
	f, w := openCSV(path, []string{"name", "address", "license_number"})
	defer f.Close()
	defer w.Flush()

	w.Write([]string{"Severny Bank", "Moscow, Tverskaya st. 1", "1481"})
	fmt.Printf("Generated bank -> %s\n", path)
}

// generateSnapshots writes one to three intraday rows per business day and
// skips weekends, so the lookback window has gaps to bridge.
func generateSnapshots(rng *rand.Rand, baseDir, name string, header []string, start time.Time, days int, lo, hi float64) {
	path := filepath.Join(baseDir, name)
	f, w := openCSV(path, append(header, "timestamp"))
	defer f.Close()
	defer w.Flush()

	count := 0
	for d := 0; d < days; d++ {
		day := start.AddDate(0, 0, d)
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}
		for k := 0; k < 1+rng.Intn(3); k++ {
			ts := day.Add(time.Duration(9+k*3)*time.Hour + time.Duration(rng.Intn(60))*time.Minute)
			row := make([]string, 0, len(header)+1)
			for range header {
				row = append(row, money(rng, lo, hi))
			}
			w.Write(append(row, ts.Format("2006-01-02 15:04:05")))
			count++
		}
	}
	fmt.Printf("Generated %d rows -> %s\n", count, path)
}

func findTestdataDir() string {
	// Look for the testdata directory relative to common locations.
	candidates := []string{
		"testdata",
		"./testdata",
		"../testdata",
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && info.IsDir() {
			return c
		}
	}
	// Fallback.
	return "testdata"
}
