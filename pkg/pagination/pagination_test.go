package pagination

import "testing"

func TestNormalizeLimit(t *testing.T) {
	cases := []struct {
		name string
		in   int
		want int
	}{
		{"zero uses default", 0, DefaultLimit},
		{"negative uses default", -5, DefaultLimit},
		{"in range passes through", 42, 42},
		{"above max clamps", 500, MaxLimit},
		{"max passes through", MaxLimit, MaxLimit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeLimit(tc.in); got != tc.want {
				t.Fatalf("NormalizeLimit(%d) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeSkip(t *testing.T) {
	if got := NormalizeSkip(-1); got != 0 {
		t.Fatalf("NormalizeSkip(-1) = %d, want 0", got)
	}
	if got := NormalizeSkip(30); got != 30 {
		t.Fatalf("NormalizeSkip(30) = %d, want 30", got)
	}
}

func TestNewPageNeverNilItems(t *testing.T) {
	page := NewPage[string](nil, 0, Params{Skip: 0, Limit: 20})
	if page.Items == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if page.Total != 0 || page.Skip != 0 || page.Limit != 20 {
		t.Fatalf("unexpected page metadata: %+v", page)
	}
}
