// ABOUTME: Change keys and read-sets used to match writes against live queries.
// ABOUTME: A key names a row, a foreign-key value, or a whole table.
package live

// Key identifies something a query can depend on. A row key has Column "id",
// a foreign-key key has the child column and the referenced id, and a table
// key has an empty Column.
type Key struct {
	Table  string
	Column string
	Value  int64
}

// Row returns the key for a single row.
func Row(table string, id int64) Key {
	return Key{Table: table, Column: "id", Value: id}
}

// Ref returns the key for all rows whose column equals value.
func Ref(table, column string, value int64) Key {
	return Key{Table: table, Column: column, Value: value}
}

// Table returns the key that depends on every row of a table.
func Table(table string) Key {
	return Key{Table: table}
}

// ReadSet is the set of keys observed while evaluating a query.
type ReadSet map[Key]struct{}

// NewReadSet returns an empty read-set.
func NewReadSet() ReadSet {
	return make(ReadSet)
}

// Add records a key.
func (rs ReadSet) Add(k Key) {
	rs[k] = struct{}{}
}

// Has reports whether k was recorded directly.
func (rs ReadSet) Has(k Key) bool {
	_, ok := rs[k]
	return ok
}

// Matches reports whether any changed key intersects the read-set. A table
// key on either side matches every key of that table.
func (rs ReadSet) Matches(changed []Key) bool {
	if len(rs) == 0 {
		return false
	}
	for _, k := range changed {
		if rs.Has(k) || rs.Has(Table(k.Table)) {
			return true
		}
		if k.Column == "" && rs.readsTable(k.Table) {
			return true
		}
	}
	return false
}

func (rs ReadSet) readsTable(table string) bool {
	for k := range rs {
		if k.Table == table {
			return true
		}
	}
	return false
}
