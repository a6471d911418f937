package repository

import (
	"strings"

	"github.com/wakala/dwh/internal/domain"
)

type colType int

const (
	colText colType = iota
	colSerial
	colRef
	colDate
	colTimestamp
	colNumeric
)

type colDef struct {
	name     string
	typ      colType
	nullable bool
}

type tableDef struct {
	layer domain.Layer
	name  string
	cols  []colDef
	index []string
}

var (
	clientColumns  = []string{"first_name", "last_name", "address", "phone_number", "registration_date", "email"}
	companyColumns = []string{"name", "phone_number", "address", "registration_date", "email", "inn"}
	depositColumns = []string{"deposit_amount", "opening_date", "closing_date", "interest_rate"}
	bankColumns    = []string{"name", "address", "license_number"}

	factColumns = map[domain.FactKind][]string{
		domain.FactCapital: {"reserve_fund", "equity_capital", "accumulated_earnings"},
		domain.FactAssets: {"securities", "real_estate", "financial_reports", "credit_facilities",
			"machinery", "debts", "equipment"},
		domain.FactLiabilities: {"financial_instruments_debts", "securities_obligations",
			"reporting_data", "invoices_to_pay", "funds_in_accounts"},
	}

	factTables = map[domain.FactKind]string{
		domain.FactCapital:     "capital",
		domain.FactAssets:      "general_assets",
		domain.FactLiabilities: "control_liabilities",
	}
)

type partyTables struct {
	party   string
	deposit string
	ref     string
	columns []string
}

func partyTablesFor(kind domain.PartyKind) partyTables {
	if kind == domain.PartyCompany {
		return partyTables{party: "companies", deposit: "deposits_companies", ref: "company_id", columns: companyColumns}
	}
	return partyTables{party: "clients", deposit: "deposits_clients", ref: "client_id", columns: clientColumns}
}

func partyColDefs(kind domain.PartyKind) []colDef {
	var out []colDef
	for _, c := range partyTablesFor(kind).columns {
		t := colText
		if c == "registration_date" {
			t = colDate
		}
		out = append(out, colDef{name: c, typ: t})
	}
	return out
}

// depositColDefs are nullable in staging, where a file row may carry a party
// without its deposit.
func depositColDefs(nullable bool) []colDef {
	return []colDef{
		{name: "deposit_amount", typ: colNumeric, nullable: nullable},
		{name: "opening_date", typ: colDate, nullable: nullable},
		{name: "closing_date", typ: colDate, nullable: true},
		{name: "interest_rate", typ: colNumeric, nullable: nullable},
	}
}

func amountColDefs(kind domain.FactKind) []colDef {
	var out []colDef
	for _, c := range factColumns[kind] {
		out = append(out, colDef{name: c, typ: colNumeric})
	}
	return out
}

var (
	idCol         = colDef{name: "id", typ: colSerial}
	fileNameCol   = colDef{name: "file_name", typ: colText}
	recordedAtCol = colDef{name: "recorded_at", typ: colTimestamp}
	bankIDCol     = colDef{name: "bank_id", typ: colRef}
)

func tableDefs() []tableDef {
	var defs []tableDef
	cat := func(parts ...[]colDef) []colDef {
		var out []colDef
		for _, p := range parts {
			out = append(out, p...)
		}
		return out
	}

	for _, kind := range []domain.PartyKind{domain.PartyClient, domain.PartyCompany} {
		pt := partyTablesFor(kind)
		defs = append(defs, tableDef{
			layer: domain.LayerStaging, name: pt.party,
			cols:  cat([]colDef{idCol}, partyColDefs(kind), depositColDefs(true), []colDef{fileNameCol, recordedAtCol}),
			index: []string{"recorded_at"},
		})
		for _, layer := range []domain.Layer{domain.LayerCanonical, domain.LayerWarehouse} {
			defs = append(defs,
				tableDef{
					layer: layer, name: pt.party,
					cols:  cat([]colDef{idCol}, partyColDefs(kind), []colDef{recordedAtCol}),
					index: []string{"recorded_at"},
				},
				tableDef{
					layer: layer, name: pt.deposit,
					cols:  cat([]colDef{idCol, {name: pt.ref, typ: colRef}}, depositColDefs(false), []colDef{recordedAtCol}),
					index: []string{pt.ref, "opening_date"},
				},
			)
		}
	}

	bankCols := []colDef{{name: "name", typ: colText}, {name: "address", typ: colText}, {name: "license_number", typ: colText}}
	defs = append(defs, tableDef{
		layer: domain.LayerStaging, name: "bank",
		cols: cat([]colDef{idCol}, bankCols, []colDef{fileNameCol, recordedAtCol}),
	})
	for _, layer := range []domain.Layer{domain.LayerCanonical, domain.LayerWarehouse} {
		defs = append(defs, tableDef{
			layer: layer, name: "bank",
			cols: cat([]colDef{idCol}, bankCols, []colDef{recordedAtCol}),
		})
	}

	for _, kind := range domain.FactKinds {
		defs = append(defs, tableDef{
			layer: domain.LayerStaging, name: factTables[kind],
			cols:  cat([]colDef{idCol}, amountColDefs(kind), []colDef{fileNameCol, recordedAtCol}),
			index: []string{"recorded_at"},
		})
		for _, layer := range []domain.Layer{domain.LayerCanonical, domain.LayerWarehouse} {
			defs = append(defs, tableDef{
				layer: layer, name: factTables[kind],
				cols:  cat([]colDef{idCol}, amountColDefs(kind), []colDef{bankIDCol, recordedAtCol}),
				index: []string{"recorded_at"},
			})
		}
	}

	defs = append(defs,
		tableDef{
			layer: domain.LayerWarehouse, name: "common_data",
			cols: []colDef{
				idCol,
				{name: "date", typ: colDate},
				{name: "client_deposits_total", typ: colNumeric, nullable: true},
				{name: "company_deposits_total", typ: colNumeric, nullable: true},
				{name: "bank_total_capital", typ: colNumeric, nullable: true},
				{name: "bank_total_assets", typ: colNumeric, nullable: true},
				{name: "bank_total_liabilities", typ: colNumeric, nullable: true},
				recordedAtCol,
			},
			index: []string{"date"},
		},
		tableDef{
			layer: domain.LayerMart, name: "params",
			cols: []colDef{
				idCol,
				{name: "date", typ: colDate},
				{name: "n1_0", typ: colNumeric, nullable: true},
				{name: "standard_n1_0", typ: colNumeric},
				{name: "n1_1", typ: colNumeric, nullable: true},
				{name: "standard_n1_1", typ: colNumeric},
				{name: "n1_2", typ: colNumeric, nullable: true},
				{name: "standard_n1_2", typ: colNumeric},
				recordedAtCol,
			},
			index: []string{"date"},
		},
	)
	return defs
}

// schemaStatements renders the bootstrap DDL. No unique constraints are
// declared; idempotency is enforced by insertIfAbsent.
func schemaStatements(d Dialect) []string {
	var stmts []string
	if d == DialectPostgres {
		for _, l := range []domain.Layer{domain.LayerStaging, domain.LayerCanonical, domain.LayerWarehouse, domain.LayerMart} {
			stmts = append(stmts, "CREATE SCHEMA IF NOT EXISTS "+string(l))
		}
	}

	for _, t := range tableDefs() {
		name := d.table(t.layer, t.name)
		cols := make([]string, len(t.cols))
		for i, c := range t.cols {
			def := c.name + " " + d.columnType(c.typ)
			if !c.nullable && c.typ != colSerial && c.typ != colRef {
				def += " NOT NULL"
			}
			cols[i] = def
		}
		stmts = append(stmts, "CREATE TABLE IF NOT EXISTS "+name+" (\n\t"+strings.Join(cols, ",\n\t")+"\n)")

		for _, col := range t.index {
			idx := "idx_" + string(t.layer) + "_" + t.name + "_" + col
			stmts = append(stmts, "CREATE INDEX IF NOT EXISTS "+idx+" ON "+name+"("+col+")")
		}
	}
	return stmts
}
