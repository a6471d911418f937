package repository

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wakala/dwh/internal/domain"
)

// Dialect covers the differences between the supported stores. Postgres
// keeps each layer in its own schema; SQLite prefixes table names instead.
type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

// timestampLayout has a fixed width so SQLite text timestamps sort
// chronologically.
const timestampLayout = "2006-01-02 15:04:05.000000"

func (d Dialect) String() string {
	if d == DialectPostgres {
		return "postgres"
	}
	return "sqlite"
}

func (d Dialect) table(layer domain.Layer, name string) string {
	if d == DialectPostgres {
		return string(layer) + "." + name
	}
	return string(layer) + "_" + name
}

// rebind rewrites ? placeholders to $N for postgres.
func (d Dialect) rebind(q string) string {
	if d != DialectPostgres || !strings.Contains(q, "?") {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// equal is a null-safe equality predicate on col.
func (d Dialect) equal(col string) string {
	if d == DialectPostgres {
		return col + " IS NOT DISTINCT FROM ?"
	}
	return col + " IS ?"
}

// timestamp converts t to the form the store keeps. Timestamps are UTC at
// microsecond precision in both stores.
func (d Dialect) timestamp(t time.Time) any {
	t = t.UTC().Truncate(time.Microsecond)
	if d == DialectPostgres {
		return t
	}
	return t.Format(timestampLayout)
}

func (d Dialect) columnType(t colType) string {
	switch t {
	case colSerial:
		if d == DialectPostgres {
			return "BIGSERIAL PRIMARY KEY"
		}
		return "INTEGER PRIMARY KEY AUTOINCREMENT"
	case colRef:
		return "BIGINT"
	case colDate:
		if d == DialectPostgres {
			return "DATE"
		}
		return "TEXT"
	case colTimestamp:
		if d == DialectPostgres {
			return "TIMESTAMPTZ"
		}
		return "TEXT"
	case colNumeric:
		return "NUMERIC"
	}
	return "TEXT"
}

// nullTime scans a timestamp from either store.
type nullTime struct {
	Time  time.Time
	Valid bool
}

var storedTimeLayouts = []string{
	timestampLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	domain.DateLayout,
}

func (n *nullTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*n = nullTime{}
		return nil
	case time.Time:
		*n = nullTime{Time: v.UTC(), Valid: true}
		return nil
	case []byte:
		return n.parse(string(v))
	case string:
		return n.parse(v)
	}
	return fmt.Errorf("scan timestamp: unsupported type %T", src)
}

func (n *nullTime) parse(s string) error {
	for _, layout := range storedTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*n = nullTime{Time: t.UTC(), Valid: true}
			return nil
		}
	}
	return fmt.Errorf("scan timestamp: unrecognised value %q", s)
}
