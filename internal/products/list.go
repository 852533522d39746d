package product

import (
	"github.com/angelmondragon/tienda-backend/pkg/enums"
	"github.com/angelmondragon/tienda-backend/pkg/pagination"
)

// ListFilter narrows the catalog browse query.
type ListFilter struct {
	Title         string
	Category      *enums.ProductCategory
	Subcategory   string
	Code          string
	OnlyAvailable bool
}

// ListProductsInput is the raw browse request. Available defaults to true
// when nil.
type ListProductsInput struct {
	Title       string
	Category    string
	Subcategory string
	Code        string
	Available   *bool
	Pagination  pagination.Params
}
