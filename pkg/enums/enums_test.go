package enums

import "testing"

func TestProductCategorySubcategories(t *testing.T) {
	cases := []struct {
		category ProductCategory
		sub      string
		want     bool
	}{
		{ProductCategoryAccesorios, "Aritos", true},
		{ProductCategoryBotellas, "Mates", true},
		{ProductCategoryInfantiles, "Juegos de mesa", true},
		{ProductCategoryInfantiles, "Superheroes", true},
		{ProductCategoryHogar, "Termos", false},
		{ProductCategory("Ropa"), "Remeras", false},
	}
	for _, tc := range cases {
		if got := tc.category.AllowsSubcategory(tc.sub); got != tc.want {
			t.Fatalf("%s/%s: expected %v got %v", tc.category, tc.sub, tc.want, got)
		}
	}
}

func TestParseProductCategory(t *testing.T) {
	if _, err := ParseProductCategory("Hogar"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseProductCategory("hogar"); err == nil {
		t.Fatal("expected lowercase category to be rejected")
	}
}

func TestSubcategoriesReturnsCopy(t *testing.T) {
	subs := ProductCategoryHogar.Subcategories()
	subs[0] = "Mutated"
	if !ProductCategoryHogar.AllowsSubcategory("Muebles") {
		t.Fatal("Subcategories leaked internal slice")
	}
}

func TestRandomDisplayClass(t *testing.T) {
	for i := 0; i < 50; i++ {
		switch RandomDisplayClass() {
		case DisplayClassBG1, DisplayClassBG2, DisplayClassBG3:
		default:
			t.Fatal("unexpected display class")
		}
	}
}

func TestParseTicketStatusAndRole(t *testing.T) {
	if s, err := ParseTicketStatus("listo"); err != nil || s != TicketStatusReady {
		t.Fatalf("unexpected ticket status %q err=%v", s, err)
	}
	if _, err := ParseTicketStatus("shipped"); err == nil {
		t.Fatal("expected invalid ticket status error")
	}
	if r, err := ParseUserRole("admin"); err != nil || r != UserRoleAdmin {
		t.Fatalf("unexpected role %q err=%v", r, err)
	}
	if UserRole("root").IsValid() {
		t.Fatal("root should not be a valid role")
	}
}
