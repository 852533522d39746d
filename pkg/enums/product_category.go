package enums

import (
	"fmt"
	"math/rand/v2"
)

// ProductCategory is the top level of the closed catalog taxonomy.
type ProductCategory string

const (
	ProductCategoryAccesorios ProductCategory = "Accesorios"
	ProductCategoryBotellas   ProductCategory = "Botellas"
	ProductCategoryInfantiles ProductCategory = "Infantiles"
	ProductCategoryHogar      ProductCategory = "Hogar"
)

// subcategories are stored in their capitalized form.
var subcategoriesByCategory = map[ProductCategory][]string{
	ProductCategoryAccesorios: {"Aritos", "Argollas", "Anillos", "Broches", "Carteras", "Bolsos", "Monederos"},
	ProductCategoryBotellas:   {"Termos", "Vasos", "Mates"},
	ProductCategoryInfantiles: {"Juegos de mesa", "Rompe cabezas", "Muñecos", "Autos", "Superheroes"},
	ProductCategoryHogar:      {"Muebles", "Bazar"},
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	_, ok := subcategoriesByCategory[c]
	return ok
}

// Subcategories lists the subcategories allowed under c.
func (c ProductCategory) Subcategories() []string {
	return append([]string(nil), subcategoriesByCategory[c]...)
}

// AllowsSubcategory reports whether sub belongs to c.
func (c ProductCategory) AllowsSubcategory(sub string) bool {
	for _, candidate := range subcategoriesByCategory[c] {
		if candidate == sub {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	category := ProductCategory(value)
	if !category.IsValid() {
		return "", fmt.Errorf("invalid product category %q", value)
	}
	return category, nil
}

// DisplayClass is the storefront card background assigned at creation.
type DisplayClass string

const (
	DisplayClassBG1 DisplayClass = "bg1"
	DisplayClassBG2 DisplayClass = "bg2"
	DisplayClassBG3 DisplayClass = "bg3"
)

var displayClasses = []DisplayClass{DisplayClassBG1, DisplayClassBG2, DisplayClassBG3}

// RandomDisplayClass picks one of the display classes uniformly.
func RandomDisplayClass() DisplayClass {
	return displayClasses[rand.IntN(len(displayClasses))]
}
