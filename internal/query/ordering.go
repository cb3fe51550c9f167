package query

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	Asc  = "asc"
	Desc = "desc"
)

// Ordering is the normalized sort request. OrderBy and Direction are echoed back to clients.
type Ordering struct {
	OrderBy   string `json:"order_by"`
	Direction string `json:"direction"`

	column string
	pk     string
}

// ParseOrdering resolves order_by through fields, an allow-list of key to "table.column".
// Unknown keys sort by pk. Any direction other than asc is desc.
func ParseOrdering(p Params, fields map[string]string, pk string) Ordering {
	key := strings.ToLower(strings.TrimLeft(strings.TrimSpace(p.Get("order_by")), "+"))
	if key == "" {
		key = "id"
	}

	dir := Desc
	if strings.ToLower(strings.TrimSpace(p.Get("order"))) == Asc {
		dir = Asc
	}

	col, ok := fields[key]
	if !ok {
		col = pk
	}

	return Ordering{OrderBy: key, Direction: dir, column: col, pk: pk}
}

func (o Ordering) Desc() bool { return o.Direction != Asc }

// Column is the resolved sort column.
func (o Ordering) Column() string { return o.column }

// Scope orders by the resolved column, then by the primary key in the same direction
// so that rows with equal sort values keep a stable order across pages.
func (o Ordering) Scope(db *gorm.DB) *gorm.DB {
	return OrderBy(o.column, o.pk, o.Desc())(db)
}

// OrderBy sorts by col with pk as tie-break. The tie-break is skipped when col is pk.
func OrderBy(col, pk string, desc bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		cols := []clause.OrderByColumn{{Column: column(col), Desc: desc}}
		if pk != "" && col != pk {
			cols = append(cols, clause.OrderByColumn{Column: column(pk), Desc: desc})
		}
		return db.Order(clause.OrderBy{Columns: cols})
	}
}

func column(name string) clause.Column {
	if table, col, ok := strings.Cut(name, "."); ok {
		return clause.Column{Table: table, Name: col}
	}
	return clause.Column{Name: name}
}
