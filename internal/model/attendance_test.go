package model

import "testing"

func TestNormalizeStatus(t *testing.T) {
	cases := map[string]string{
		"Present":  StatusPresent,
		"present":  StatusPresent,
		" LATE ":   StatusLate,
		"absent":   StatusAbsent,
		"leave":    StatusLeave,
		"Absent\n": StatusAbsent,
		"":         StatusUnknown,
		"on fire":  StatusUnknown,
	}

	for in, want := range cases {
		if got := NormalizeStatus(in); got != want {
			t.Errorf("NormalizeStatus(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStats(t *testing.T) {
	records := []AttendanceRecord{
		{Status: "Present"},
		{Status: "present"},
		{Status: "Absent"},
		{Status: "Late"},
		{Status: "weird"},
	}

	st := Stats(records, 4)
	if st.Total != 5 || st.Present != 2 || st.Absent != 1 || st.Late != 1 {
		t.Fatalf("unexpected counts: %+v", st)
	}
	if st.Rate != 50 {
		t.Errorf("rate = %d, want 50", st.Rate)
	}
}

func TestStatsFallsBackToRecordCount(t *testing.T) {
	records := []AttendanceRecord{{Status: "Present"}, {Status: "Absent"}}
	st := Stats(records, 0)
	if st.Rate != 50 {
		t.Errorf("rate = %d, want 50", st.Rate)
	}
}

func TestStatsEmpty(t *testing.T) {
	st := Stats(nil, 0)
	if st.Rate != 0 || st.Total != 0 {
		t.Errorf("expected zero stats, got %+v", st)
	}
}

func TestFilterByStatus(t *testing.T) {
	records := []AttendanceRecord{
		{ID: "1", Status: "Present"},
		{ID: "2", Status: "Absent"},
		{ID: "3", Status: "present"},
	}

	got := FilterByStatus(records, "present")
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "3" {
		t.Fatalf("unexpected filter result: %+v", got)
	}

	if all := FilterByStatus(records, "all"); len(all) != 3 {
		t.Errorf("filter 'all' returned %d records", len(all))
	}
	if all := FilterByStatus(records, ""); len(all) != 3 {
		t.Errorf("filter '' returned %d records", len(all))
	}
	if len(records) != 3 {
		t.Error("input slice was mutated")
	}
}
