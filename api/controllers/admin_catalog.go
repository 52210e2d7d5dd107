package controllers

import (
	"context"
	"net/http"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/api/responses"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/api/validators"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/internal/products"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/logger"
	"github.com/google/uuid"
)

// AdminListProducts includes inactive products.
func AdminListProducts(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "product service")
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		q := r.URL.Query()
		result, err := svc.ListProducts(r.Context(), products.ListProductsInput{
			Filters: products.ListFilters{
				CategorySlug:    q.Get("category"),
				OccasionSlug:    q.Get("occasion"),
				Query:           validators.SanitizeString(q.Get("q"), 100),
				IncludeInactive: true,
			},
			Pagination: params,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func AdminCreateProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "product service")
			return
		}
		var body products.CreateProductInput
		if err := validators.DecodeJSONBody(w, r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.CreateProduct(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusCreated, "product created", product)
	}
}

func AdminUpdateProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "product service")
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body products.UpdateProductInput
		if err := validators.DecodeJSONBody(w, r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.UpdateProduct(r.Context(), id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "product updated", product)
	}
}

func AdminDeleteProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return deleteByID(logg, "product deleted", func(ctx context.Context, id uuid.UUID) error {
		if svc == nil {
			return errServiceUnavailable("product service")
		}
		return svc.DeleteProduct(ctx, id)
	})
}

func AdminCreateCategory(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return createTaxonomy(logg, "category created", func(ctx context.Context, in products.TaxonomyInput) (*products.TaxonomyDTO, error) {
		if svc == nil {
			return nil, errServiceUnavailable("product service")
		}
		return svc.CreateCategory(ctx, in)
	})
}

func AdminDeleteCategory(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return deleteByID(logg, "category deleted", func(ctx context.Context, id uuid.UUID) error {
		if svc == nil {
			return errServiceUnavailable("product service")
		}
		return svc.DeleteCategory(ctx, id)
	})
}

func AdminCreateOccasion(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return createTaxonomy(logg, "occasion created", func(ctx context.Context, in products.TaxonomyInput) (*products.TaxonomyDTO, error) {
		if svc == nil {
			return nil, errServiceUnavailable("product service")
		}
		return svc.CreateOccasion(ctx, in)
	})
}

func AdminDeleteOccasion(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return deleteByID(logg, "occasion deleted", func(ctx context.Context, id uuid.UUID) error {
		if svc == nil {
			return errServiceUnavailable("product service")
		}
		return svc.DeleteOccasion(ctx, id)
	})
}

func createTaxonomy(logg *logger.Logger, message string, create func(context.Context, products.TaxonomyInput) (*products.TaxonomyDTO, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body products.TaxonomyInput
		if err := validators.DecodeJSONBody(w, r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusCreated, message, item)
	}
}

func deleteByID(logg *logger.Logger, message string, del func(context.Context, uuid.UUID) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := del(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, message, nil)
	}
}
