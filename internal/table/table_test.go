package table

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

type row struct {
	id string
	k  any
}

func kColumns() []Column[row] {
	return []Column[row]{
		{Key: "k", Label: "K", Sortable: true, Value: func(r row) any { return r.k }},
	}
}

func newKTable(rows []row, opts Options[row]) *Model[row] {
	m := New(kColumns(), opts)
	m.SetRows(rows)
	return m
}

func keysOf(rows []row) []any {
	out := make([]any, len(rows))
	for i, r := range rows {
		out[i] = r.k
	}
	return out
}

func TestSortAbsentSinksBothDirections(t *testing.T) {
	rows := []row{{k: 2}, {k: nil}, {k: 1}}

	m := newKTable(rows, Options[row]{})
	m.Sort("k") // ascending
	got := keysOf(m.Rows())
	if got[0] != 1 || got[1] != 2 || got[2] != nil {
		t.Errorf("ascending = %v, want [1 2 <nil>]", got)
	}

	m.Sort("k") // flip to descending
	got = keysOf(m.Rows())
	if got[0] != 2 || got[1] != 1 || got[2] != nil {
		t.Errorf("descending = %v, want [2 1 <nil>]", got)
	}
}

func TestSortLocaleAware(t *testing.T) {
	rows := []row{{k: "b"}, {k: "A"}}

	m := newKTable(rows, Options[row]{})
	m.Sort("k")
	got := keysOf(m.Rows())
	if got[0] != "A" || got[1] != "b" {
		t.Errorf("ascending = %v, want [A b]", got)
	}
}

func TestSortMixedTypesCompareAsStrings(t *testing.T) {
	rows := []row{{k: "10"}, {k: 2}}

	m := newKTable(rows, Options[row]{})
	m.Sort("k")
	// Only one value is numeric, so both compare as strings: "10" < "2"
	got := keysOf(m.Rows())
	if got[0] != "10" || got[1] != 2 {
		t.Errorf("got %v, want [10 2]", got)
	}
}

func TestSortNumeric(t *testing.T) {
	rows := []row{{k: 10}, {k: 2}, {k: 33.5}}

	m := newKTable(rows, Options[row]{})
	m.Sort("k")
	got := keysOf(m.Rows())
	if got[0] != 2 || got[1] != 10 || got[2] != 33.5 {
		t.Errorf("got %v, want [2 10 33.5]", got)
	}
}

func TestSortToggleAndSwitchKey(t *testing.T) {
	cols := []Column[row]{
		{Key: "a", Label: "A", Sortable: true, Value: func(r row) any { return r.k }},
		{Key: "b", Label: "B", Sortable: true, Value: func(r row) any { return r.id }},
	}
	m := New(cols, Options[row]{})

	m.Sort("a")
	if k, d := m.SortState(); k != "a" || d != Ascending {
		t.Fatalf("after first click: %q %v", k, d)
	}
	m.Sort("a")
	if k, d := m.SortState(); k != "a" || d != Descending {
		t.Fatalf("after second click: %q %v", k, d)
	}
	m.Sort("b")
	if k, d := m.SortState(); k != "b" || d != Ascending {
		t.Fatalf("after switching key: %q %v", k, d)
	}
}

func TestSortIgnoresUnsortableColumn(t *testing.T) {
	cols := []Column[row]{
		{Key: "k", Label: "K", Sortable: false, Value: func(r row) any { return r.k }},
	}
	m := New(cols, Options[row]{})
	m.Sort("k")
	if k, _ := m.SortState(); k != "" {
		t.Errorf("unsortable column became sort key %q", k)
	}
}

func TestRowsNotMutatedInPlace(t *testing.T) {
	rows := []row{{k: 2}, {k: 1}}
	m := newKTable(rows, Options[row]{})
	m.Sort("k")
	_ = m.Rows()
	if rows[0].k != 2 || rows[1].k != 1 {
		t.Error("input slice was reordered in place")
	}
}

func TestLoadingIgnoresRows(t *testing.T) {
	m := newKTable([]row{{id: "1", k: "x"}}, Options[row]{})
	m.SetLoading(true)

	view := m.View()
	if !strings.Contains(view, "Loading") {
		t.Errorf("loading view = %q", view)
	}
	if strings.Contains(view, "x") {
		t.Error("rows rendered while loading")
	}
}

func TestEmptyPlaceholder(t *testing.T) {
	m := newKTable(nil, Options[row]{})
	if !strings.Contains(m.View(), "No data available") {
		t.Error("missing no-data placeholder")
	}
}

func TestDeleteDispatchesOnce(t *testing.T) {
	var deleted []string
	rows := []row{{id: "r1", k: 1}, {id: "r2", k: 2}}
	m := newKTable(rows, Options[row]{
		ID:       func(r row) string { return r.id },
		OnDelete: func(id string) { deleted = append(deleted, id) },
	})

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	if len(deleted) != 1 || deleted[0] != "r1" {
		t.Fatalf("deleted = %v, want [r1]", deleted)
	}
	// The presenter must not drop the row itself
	if len(m.Rows()) != 2 {
		t.Error("presenter removed a row on delete")
	}
}

func TestEditDispatchesCurrentRow(t *testing.T) {
	var edited []string
	rows := []row{{id: "r1"}, {id: "r2"}}
	m := newKTable(rows, Options[row]{
		ID:     func(r row) string { return r.id },
		OnEdit: func(r row) { edited = append(edited, r.id) },
	})

	m.MoveDown()
	m.EditCurrent()
	if len(edited) != 1 || edited[0] != "r2" {
		t.Errorf("edited = %v, want [r2]", edited)
	}
}

func TestActionsFollowSortedOrder(t *testing.T) {
	var deleted []string
	rows := []row{{id: "big", k: 9}, {id: "small", k: 1}}
	m := newKTable(rows, Options[row]{
		ID:       func(r row) string { return r.id },
		OnDelete: func(id string) { deleted = append(deleted, id) },
	})

	m.Sort("k") // ascending: small first
	m.DeleteCurrent()
	if len(deleted) != 1 || deleted[0] != "small" {
		t.Errorf("deleted = %v, want [small]", deleted)
	}
}

func TestStatusBadgeFallback(t *testing.T) {
	cols := []Column[row]{
		{Key: "status", Label: "Status", Value: func(r row) any { return r.k }},
	}
	m := New(cols, Options[row]{})

	for _, status := range []string{"Present", "absent", "LATE", "leave", "whatever"} {
		out := m.CellText(cols[0], row{k: status})
		if !strings.Contains(out, status) {
			t.Errorf("badge for %q lost its text: %q", status, out)
		}
	}
}

func TestCustomRenderWins(t *testing.T) {
	cols := []Column[row]{
		{
			Key:    "status",
			Label:  "Status",
			Value:  func(r row) any { return r.k },
			Render: func(v any, r row) string { return "custom" },
		},
	}
	m := New(cols, Options[row]{})
	if got := m.CellText(cols[0], row{k: "Present"}); got != "custom" {
		t.Errorf("render override ignored: %q", got)
	}
}

func TestAbsentValueRendersBlank(t *testing.T) {
	m := newKTable(nil, Options[row]{})
	if got := m.CellText(kColumns()[0], row{k: nil}); got != "" {
		t.Errorf("absent cell = %q, want empty", got)
	}
}

func TestDuplicateColumnKeysPanic(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate column keys")
		}
	}()
	New([]Column[row]{
		{Key: "k", Value: func(r row) any { return nil }},
		{Key: "k", Value: func(r row) any { return nil }},
	}, Options[row]{})
}
