package pagination

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   Params
		want Params
	}{
		{Params{}, Params{Limit: DefaultLimit}},
		{Params{Limit: 10, Offset: 5}, Params{Limit: 10, Offset: 5}},
		{Params{Limit: 1000, Offset: -3}, Params{Limit: MaxLimit}},
	}
	for _, tc := range cases {
		if got := tc.in.Normalize(); got != tc.want {
			t.Fatalf("Normalize(%+v) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestNewPage(t *testing.T) {
	p := Params{Limit: 2, Offset: 0}
	page := NewPage([]int{1, 2}, 5, p)
	if !page.HasNext || page.Total != 5 || len(page.Items) != 2 {
		t.Fatalf("unexpected page %+v", page)
	}

	last := NewPage([]int{5}, 5, Params{Limit: 2, Offset: 4})
	if last.HasNext {
		t.Fatal("last page should not report a next page")
	}

	empty := NewPage[int](nil, 0, p)
	if empty.Items == nil {
		t.Fatal("items should marshal as an empty list")
	}
}
