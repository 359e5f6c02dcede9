package date

import (
	"encoding/json"
	"testing"
	"time"
)

// TestTime assert that the dates are canonical and comparable.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31, 10, 0, 0)
	d2 := FromTime(time.Date(2025, 7, 31, 12, 0, 0, 500, time.FixedZone("CEST", 2*3600)))

	if d1 != d2 {
		t.Errorf("New() = %v, FromTime() = %v, want the same date", d1, d2)
	}
}

func TestFromEpoch(t *testing.T) {
	want := New(2023, 3, 14, 9, 30, 15)
	tests := []struct {
		name  string
		epoch int64
	}{
		{"seconds", want.Unix()},
		{"milliseconds", want.Millis()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromEpoch(tt.epoch); got != want {
				t.Errorf("FromEpoch(%d) = %v, want %v", tt.epoch, got, want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Date
	}{
		{"2023-03-14 09:30:15", New(2023, 3, 14, 9, 30, 15)},
		{"2023-03-14T09:30:15Z", New(2023, 3, 14, 9, 30, 15)},
		{"2023-03-14T10:30:15+01:00", New(2023, 3, 14, 9, 30, 15)},
		{"2023-03-14 09:30:15 UTC", New(2023, 3, 14, 9, 30, 15)},
		{"2023-3-4", New(2023, 3, 4, 0, 0, 0)},
		{"3/14/2023 09:30", New(2023, 3, 14, 9, 30, 0)},
		{"1678786215", New(2023, 3, 14, 9, 30, 15)},
		{"1678786215000", New(2023, 3, 14, 9, 30, 15)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	for _, bad := range []string{"", "yesterday", "2023-13-45"} {
		if _, err := Parse(bad); err == nil {
			t.Errorf("Parse(%q) expected an error", bad)
		}
	}
}

func TestJSON(t *testing.T) {
	d := New(2024, 2, 29, 23, 59, 58)
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal() unexpected error: %v", err)
	}
	want := `{"year":2024,"month":2,"day":29,"hour":23,"minute":59,"second":58,"timestamp":1709251198}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
	var got Date
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() unexpected error: %v", err)
	}
	if got != d {
		t.Errorf("Unmarshal() = %v, want %v", got, d)
	}
}

func TestYears(t *testing.T) {
	r := Years{From: 2021, To: 2023}
	var got []int
	for y := range r.All() {
		got = append(got, y)
	}
	if len(got) != 3 || got[0] != 2021 || got[2] != 2023 {
		t.Errorf("Years.All() = %v, want [2021 2022 2023]", got)
	}
	if !r.Contains(New(2022, 6, 1, 0, 0, 0)) {
		t.Errorf("Years.Contains() = false, want true")
	}
	if (Years{From: 2024, To: 2023}).Len() != 0 {
		t.Errorf("Years.Len() of an empty range should be 0")
	}
}
