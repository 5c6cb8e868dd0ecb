package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Table is the in-memory copy of the whole backing store: an identifier →
// record mapping that remembers key order.
//
// Go maps have no order, but the JSON document does, and that order is what
// breaks ties when sorting. Table therefore keeps the keys in a slice next
// to the map. The zero value is an empty, ready-to-use table.
type Table struct {
	ids  []string
	rows map[string]Student
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{rows: make(map[string]Student)}
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.ids)
}

// Get returns the record stored under id.
func (t *Table) Get(id string) (Student, bool) {
	s, ok := t.rows[id]
	return s, ok
}

// Put stores s under id. New identifiers are appended at the end; existing
// ones keep their position.
func (t *Table) Put(id string, s Student) {
	if t.rows == nil {
		t.rows = make(map[string]Student)
	}
	if _, ok := t.rows[id]; !ok {
		t.ids = append(t.ids, id)
	}
	t.rows[id] = s
}

// Delete removes id and reports whether it was present.
func (t *Table) Delete(id string) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	if i := slices.Index(t.ids, id); i >= 0 {
		t.ids = slices.Delete(t.ids, i, i+1)
	}
	return true
}

// Entries returns every record with its identifier, in table order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.ids))
	for _, id := range t.ids {
		out = append(out, Entry{Student: t.rows[id], ID: id})
	}
	return out
}

// MarshalJSON encodes the table as a JSON object keyed by identifier,
// preserving table order. An empty table encodes as {}.
func (t *Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range t.ids {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(t.rows[id])
		if err != nil {
			return nil, fmt.Errorf("marshal student %s: %w", id, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object-of-objects, keeping key order.
// A repeated key keeps its first position and its last value.
func (t *Table) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("student table: expected JSON object, got %v", tok)
	}

	fresh := NewTable()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		id, ok := tok.(string)
		if !ok {
			return fmt.Errorf("student table: expected string key, got %v", tok)
		}

		var s Student
		if err := dec.Decode(&s); err != nil {
			return fmt.Errorf("student table: record %s: %w", id, err)
		}
		fresh.Put(id, s)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*t = *fresh
	return nil
}
