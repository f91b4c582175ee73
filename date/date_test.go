package date

import (
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestNewNormalizes(t *testing.T) {
	// Day 32 of July is August 1st.
	if got, want := New(2025, 7, 32), New(2025, 8, 1); got != want {
		t.Errorf("New(2025, 7, 32) = %s, want %s", got, want)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Date
		err  bool
	}{
		{in: "2014-11-22", want: New(2014, time.November, 22)},
		{in: "2025-7-1", want: New(2025, time.July, 1)},
		{in: "22/11/2014", err: true},
		{in: "", err: true},
	}
	for _, tc := range tests {
		got, err := Parse(tc.in)
		if tc.err {
			if err == nil {
				t.Errorf("Parse(%q) expected an error, got %s", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q) unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Parse(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestFormat(t *testing.T) {
	d := New(2014, time.November, 22)
	if got, want := d.Format("060102"), "141122"; got != want {
		t.Errorf("Format(060102) = %q, want %q", got, want)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	d := New(2024, time.March, 15)
	data, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() failed: %v", err)
	}
	if string(data) != `"2024-03-15"` {
		t.Errorf("MarshalJSON() = %s", data)
	}
	var back Date
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatalf("UnmarshalJSON() failed: %v", err)
	}
	if back != d {
		t.Errorf("round trip changed the date: %s != %s", back, d)
	}
}
