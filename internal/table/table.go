// Package table renders an arbitrary rectangular dataset with client-side
// sorting and optional row actions. It knows nothing about the domain
// meaning of a column: callers describe columns, hand over rows, and get
// back a sorted presentation. Rows are never fetched or mutated here.
package table

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Direction is the sort direction
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// Column describes how to label, sort and render one field of a row.
// Value extracts the raw cell value; nil means absent. Render, when set,
// overrides the default cell formatting.
type Column[T any] struct {
	Key      string
	Label    string
	Sortable bool
	Value    func(row T) any
	Render   func(value any, row T) string
}

// Options configure row identity and the optional action callbacks. The
// presenter only dispatches: it never removes or edits rows itself.
type Options[T any] struct {
	ID       func(row T) string
	OnEdit   func(row T)
	OnDelete func(id string)
}

// Model holds the presentation-layer state for one table: the input rows,
// the current sort key and direction, the cursor, and the loading flag.
type Model[T any] struct {
	columns []Column[T]
	rows    []T
	opts    Options[T]

	sortKey string
	sortDir Direction

	cursor  int
	loading bool
	width   int
	keys    keyMap
}

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Edit   key.Binding
	Delete key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	}
}

// Loose collation gives locale-aware, case-insensitive ordering for
// string cells.
var collator = collate.New(language.Und, collate.Loose)

// New creates a table over the given columns. Column keys must be unique
// within one table; duplicate keys are a programming error.
func New[T any](columns []Column[T], opts Options[T]) *Model[T] {
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if seen[c.Key] {
			panic(fmt.Sprintf("table: duplicate column key %q", c.Key))
		}
		seen[c.Key] = true
	}
	return &Model[T]{
		columns: columns,
		opts:    opts,
		width:   80,
		keys:    defaultKeys(),
	}
}

// SetRows replaces the input rows. The slice is treated as read-only.
func (m *Model[T]) SetRows(rows []T) {
	m.rows = rows
	if m.cursor >= len(rows) {
		m.cursor = 0
	}
}

// SetLoading toggles the loading indicator. While loading, rows are ignored
// entirely and no sorting happens.
func (m *Model[T]) SetLoading(v bool) { m.loading = v }

// Loading reports whether the table is in its loading state
func (m *Model[T]) Loading() bool { return m.loading }

// SetWidth sets the render width
func (m *Model[T]) SetWidth(w int) { m.width = w }

// SortState returns the active sort key ("" when unsorted) and direction
func (m *Model[T]) SortState() (string, Direction) {
	return m.sortKey, m.sortDir
}

// Sort reacts to a header activation: sorting by the already-active key
// flips the direction, a new key starts ascending. Keys of non-sortable or
// unknown columns are ignored.
func (m *Model[T]) Sort(colKey string) {
	col := m.column(colKey)
	if col == nil || !col.Sortable {
		return
	}
	if m.sortKey == colKey {
		if m.sortDir == Ascending {
			m.sortDir = Descending
		} else {
			m.sortDir = Ascending
		}
		return
	}
	m.sortKey = colKey
	m.sortDir = Ascending
}

// SortByIndex activates the n-th column header (0-based)
func (m *Model[T]) SortByIndex(i int) {
	if i < 0 || i >= len(m.columns) {
		return
	}
	m.Sort(m.columns[i].Key)
}

func (m *Model[T]) column(key string) *Column[T] {
	for i := range m.columns {
		if m.columns[i].Key == key {
			return &m.columns[i]
		}
	}
	return nil
}

// Rows returns the rows in display order: a freshly derived, sorted copy.
// The input slice is never reordered in place.
func (m *Model[T]) Rows() []T {
	if m.sortKey == "" {
		return append([]T(nil), m.rows...)
	}
	col := m.column(m.sortKey)
	if col == nil {
		return append([]T(nil), m.rows...)
	}

	sorted := append([]T(nil), m.rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return m.compare(col, sorted[i], sorted[j]) < 0
	})
	return sorted
}

// compare orders two rows by one column. Absent values sink to the bottom
// in both directions; only the present-vs-present comparison is reversed
// for descending order.
func (m *Model[T]) compare(col *Column[T], a, b T) int {
	va := col.Value(a)
	vb := col.Value(b)

	switch {
	case va == nil && vb == nil:
		return 0
	case va == nil:
		return 1
	case vb == nil:
		return -1
	}

	var c int
	fa, aNum := asFloat(va)
	fb, bNum := asFloat(vb)
	if aNum && bNum {
		switch {
		case fa < fb:
			c = -1
		case fa > fb:
			c = 1
		}
	} else {
		c = collator.CompareString(fmt.Sprint(va), fmt.Sprint(vb))
	}

	if m.sortDir == Descending {
		c = -c
	}
	return c
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// Cursor returns the index of the highlighted row within Rows()
func (m *Model[T]) Cursor() int { return m.cursor }

// CurrentRow returns the highlighted row, or false when there is none
func (m *Model[T]) CurrentRow() (T, bool) {
	var zero T
	if m.loading {
		return zero, false
	}
	rows := m.Rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return zero, false
	}
	return rows[m.cursor], true
}

// MoveUp moves the cursor one row up
func (m *Model[T]) MoveUp() {
	if m.cursor > 0 {
		m.cursor--
	}
}

// MoveDown moves the cursor one row down
func (m *Model[T]) MoveDown() {
	if m.cursor < len(m.rows)-1 {
		m.cursor++
	}
}

// EditCurrent dispatches the edit callback for the highlighted row
func (m *Model[T]) EditCurrent() {
	if m.opts.OnEdit == nil {
		return
	}
	if row, ok := m.CurrentRow(); ok {
		m.opts.OnEdit(row)
	}
}

// DeleteCurrent dispatches the delete callback with the highlighted row's
// id. The row list itself is untouched; the owner refetches or filters.
func (m *Model[T]) DeleteCurrent() {
	if m.opts.OnDelete == nil || m.opts.ID == nil {
		return
	}
	if row, ok := m.CurrentRow(); ok {
		m.opts.OnDelete(m.opts.ID(row))
	}
}

func (m *Model[T]) hasActions() bool {
	return m.opts.OnEdit != nil || m.opts.OnDelete != nil
}

// Update handles table key events: cursor movement, number keys 1-9 to
// sort by that column, and e/d row actions when callbacks are wired.
func (m *Model[T]) Update(msg tea.Msg) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.loading {
		return
	}

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		m.MoveUp()
	case key.Matches(keyMsg, m.keys.Down):
		m.MoveDown()
	case key.Matches(keyMsg, m.keys.Edit):
		m.EditCurrent()
	case key.Matches(keyMsg, m.keys.Delete):
		m.DeleteCurrent()
	default:
		s := keyMsg.String()
		if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			m.SortByIndex(int(s[0] - '1'))
		}
	}
}
