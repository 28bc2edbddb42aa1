package date

import (
	"encoding/json"
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestNewNormalizes(t *testing.T) {
	if got, want := New(2024, time.January, 32), New(2024, time.February, 1); got != want {
		t.Errorf("New(2024, 1, 32) = %v, want %v", got, want)
	}
	if got, want := New(2024, time.March, 0), New(2024, time.February, 29); got != want {
		t.Errorf("New(2024, 3, 0) = %v, want %v", got, want)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2025-07-01", want: New(2025, time.July, 1)},
		{in: "2025-7-1", want: New(2025, time.July, 1)},
		{in: " 2025-7-1 ", want: New(2025, time.July, 1)},
		{in: "2021-03-04T14:05:12Z", want: New(2021, time.March, 4)},
		{in: "01/07/2025", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDaysUntil(t *testing.T) {
	d := New(2024, time.March, 1)
	if got := d.DaysUntil(d.Add(30)); got != 30 {
		t.Errorf("DaysUntil(+30) = %d, want 30", got)
	}
	if got := d.DaysUntil(d.Add(-2)); got != -2 {
		t.Errorf("DaysUntil(-2) = %d, want -2", got)
	}
	// crossing the UK clock change must not lose a day.
	if got := New(2024, time.March, 30).DaysUntil(New(2024, time.April, 1)); got != 2 {
		t.Errorf("DaysUntil across DST = %d, want 2", got)
	}
}

func TestCompare(t *testing.T) {
	a, b := New(2024, 1, 1), New(2024, 1, 2)
	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Errorf("Compare is not consistent with Before/After")
	}
}

func TestJSON(t *testing.T) {
	in := New(2023, time.April, 6)
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"2023-04-06"` {
		t.Errorf("Marshal = %s", data)
	}
	var out Date
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Errorf("Unmarshal = %v, want %v", out, in)
	}
}

func TestRange(t *testing.T) {
	r := Range{From: New(2024, 1, 1), To: New(2024, 1, 31)}
	if !r.Contains(New(2024, 1, 1)) || !r.Contains(New(2024, 1, 31)) {
		t.Errorf("boundaries must be included")
	}
	if r.Contains(New(2024, 2, 1)) {
		t.Errorf("2024-02-01 is outside %v", r)
	}
	if r.Days() != 31 {
		t.Errorf("Days() = %d, want 31", r.Days())
	}
}
