package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/tienda-backend/api/responses"
	"github.com/angelmondragon/tienda-backend/api/validators"
	product "github.com/angelmondragon/tienda-backend/internal/products"
	pkgerrors "github.com/angelmondragon/tienda-backend/pkg/errors"
	"github.com/angelmondragon/tienda-backend/pkg/logger"
	"github.com/angelmondragon/tienda-backend/pkg/pagination"
)

type thumbnailRequest struct {
	URL      string `json:"url" validate:"required,url"`
	Filename string `json:"filename" validate:"required"`
}

type createProductRequest struct {
	Title       string             `json:"title" validate:"required"`
	Description string             `json:"description" validate:"required"`
	Code        string             `json:"code" validate:"required"`
	Price       int64              `json:"price" validate:"gt=0"`
	Stock       int                `json:"stock" validate:"gte=0"`
	Category    string             `json:"category" validate:"required"`
	Subcategory string             `json:"subcategory" validate:"required"`
	Thumbnails  []thumbnailRequest `json:"thumbnails" validate:"required,min=2,dive"`
}

type updateProductRequest struct {
	Title       *string             `json:"title,omitempty"`
	Description *string             `json:"description,omitempty"`
	Code        *string             `json:"code,omitempty"`
	Price       *int64              `json:"price,omitempty" validate:"omitempty,gt=0"`
	Stock       *int                `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Category    *string             `json:"category,omitempty"`
	Subcategory *string             `json:"subcategory,omitempty"`
	Thumbnails  *[]thumbnailRequest `json:"thumbnails,omitempty" validate:"omitempty,min=2,dive"`
}

func toThumbnailInputs(in []thumbnailRequest) []product.ThumbnailInput {
	out := make([]product.ThumbnailInput, 0, len(in))
	for _, t := range in {
		out = append(out, product.ThumbnailInput{URL: t.URL, Filename: t.Filename})
	}
	return out
}

func (r createProductRequest) toInput() product.CreateProductInput {
	return product.CreateProductInput{
		Title:       r.Title,
		Description: r.Description,
		Code:        r.Code,
		Price:       r.Price,
		Stock:       r.Stock,
		Category:    r.Category,
		Subcategory: r.Subcategory,
		Thumbnails:  toThumbnailInputs(r.Thumbnails),
	}
}

func (r updateProductRequest) toInput() product.UpdateProductInput {
	input := product.UpdateProductInput{
		Title:       r.Title,
		Description: r.Description,
		Code:        r.Code,
		Price:       r.Price,
		Stock:       r.Stock,
		Category:    r.Category,
		Subcategory: r.Subcategory,
	}
	if r.Thumbnails != nil {
		thumbs := toThumbnailInputs(*r.Thumbnails)
		input.Thumbnails = &thumbs
	}
	return input
}

// ProductList browses the catalog. Only products with stock are listed unless
// available=false is passed.
func ProductList(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := parseListProducts(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.ListProducts(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ProductListByCategory is ProductList with the category taken from the path.
func ProductListByCategory(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := parseListProducts(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.Category = strings.TrimSpace(chi.URLParam(r, "category"))
		result, err := svc.ListProducts(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func parseListProducts(r *http.Request) (product.ListProductsInput, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return product.ListProductsInput{}, err
	}
	offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
	if err != nil {
		return product.ListProductsInput{}, err
	}
	available, err := validators.ParseQueryBool(r, "available")
	if err != nil {
		return product.ListProductsInput{}, err
	}
	q := r.URL.Query()
	return product.ListProductsInput{
		Title:       strings.TrimSpace(q.Get("title")),
		Category:    strings.TrimSpace(q.Get("category")),
		Subcategory: strings.TrimSpace(q.Get("subcategory")),
		Code:        strings.TrimSpace(q.Get("code")),
		Available:   available,
		Pagination:  pagination.Params{Limit: limit, Offset: offset},
	}, nil
}

func ProductGet(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func ProductGetByCode(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := strings.TrimSpace(chi.URLParam(r, "code"))
		if code == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "code is required"))
			return
		}
		dto, err := svc.GetProductByCode(r.Context(), code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func ProductCreate(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.CreateProduct(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func ProductUpdate(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.UpdateProduct(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func ProductDelete(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func ProductDeleteByCode(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := strings.TrimSpace(chi.URLParam(r, "code"))
		if code == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "code is required"))
			return
		}
		if err := svc.DeleteProductByCode(r.Context(), code); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
