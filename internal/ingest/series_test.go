package ingest

import (
	"testing"

	"github.com/shopspring/decimal"
)

func seriesStrings(s Series) []string {
	out := make([]string, len(s))
	for i, v := range s {
		if v == nil {
			out[i] = "nil"
		} else {
			out[i] = v.String()
		}
	}
	return out
}

func TestNormalizeWindowInvariant(t *testing.T) {
	san := NewSanitizer()
	tests := []struct {
		name  string
		cells []string
		n     int
		want  []string
	}{
		{
			name:  "exact window",
			cells: []string{"10", "20", "30", "40", "50"},
			n:     5,
			want:  []string{"10", "20", "30", "40", "50"},
		},
		{
			name:  "extra history keeps most recent",
			cells: []string{"1", "2", "10", "20", "30", "40", "50"},
			n:     5,
			want:  []string{"10", "20", "30", "40", "50"},
		},
		{
			name:  "trailing non numeric artifacts skipped",
			cells: []string{"10", "20", "30", "40", "50", "↑", "see note"},
			n:     5,
			want:  []string{"10", "20", "30", "40", "50"},
		},
		{
			name:  "short history left padded",
			cells: []string{"40", "50"},
			n:     5,
			want:  []string{"nil", "nil", "nil", "40", "50"},
		},
		{
			name:  "no cells",
			cells: nil,
			n:     5,
			want:  []string{"nil", "nil", "nil", "nil", "nil"},
		},
		{
			name:  "all non numeric",
			cells: []string{"-", "", "n/a"},
			n:     2,
			want:  []string{"nil", "nil"},
		},
		{
			name:  "two period window",
			cells: []string{"100", "200", "300"},
			n:     2,
			want:  []string{"200", "300"},
		},
		{
			name:  "adorned cells",
			cells: []string{"₹1,000", "₹2,000.50"},
			n:     2,
			want:  []string{"1000", "2000.5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.cells, tt.n, san)
			if len(got) != tt.n {
				t.Fatalf("Normalize returned length %d, want %d", len(got), tt.n)
			}
			gotStr := seriesStrings(got)
			for i := range tt.want {
				if gotStr[i] != tt.want[i] {
					t.Errorf("position %d = %s, want %s (full: %v)", i, gotStr[i], tt.want[i], gotStr)
				}
			}
		})
	}
}

func TestSeriesAccessors(t *testing.T) {
	a := decimal.NewFromInt(1)
	b := decimal.NewFromInt(2)
	s := Series{&a, nil, &b}

	if got := s.Latest(); got == nil || !got.Equal(b) {
		t.Errorf("Latest() = %v, want 2", got)
	}
	if got := s.Previous(); got != nil {
		t.Errorf("Previous() = %v, want nil", got)
	}
	if got := len(s.Window()); got != 2 {
		t.Errorf("len(Window()) = %d, want 2", got)
	}

	var empty Series
	if empty.Latest() != nil || empty.Previous() != nil || empty.Window() != nil {
		t.Error("empty series accessors should all return nil")
	}
}
