package controllers

import (
	"context"
	"net/http"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/api/responses"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/api/validators"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/internal/blogs"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/logger"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/pagination"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func ListBlogs(svc blogs.Service, logg *logger.Logger) http.HandlerFunc {
	return listBlogs(svc, logg, func(s blogs.Service) func(context.Context, pagination.Params) (*blogs.BlogListResult, error) {
		return s.ListPublished
	})
}

func AdminListBlogs(svc blogs.Service, logg *logger.Logger) http.HandlerFunc {
	return listBlogs(svc, logg, func(s blogs.Service) func(context.Context, pagination.Params) (*blogs.BlogListResult, error) {
		return s.ListAll
	})
}

func listBlogs(svc blogs.Service, logg *logger.Logger, pick func(blogs.Service) func(context.Context, pagination.Params) (*blogs.BlogListResult, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "blog service")
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := pick(svc)(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// GetBlog returns a published post by slug.
func GetBlog(svc blogs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "blog service")
			return
		}
		post, err := svc.GetPublished(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, post)
	}
}

func AdminCreateBlog(svc blogs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "blog service")
			return
		}
		var body blogs.CreateBlogInput
		if err := validators.DecodeJSONBody(w, r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		post, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusCreated, "blog created", post)
	}
}

func AdminUpdateBlog(svc blogs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "blog service")
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body blogs.UpdateBlogInput
		if err := validators.DecodeJSONBody(w, r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		post, err := svc.Update(r.Context(), id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "blog updated", post)
	}
}

func AdminDeleteBlog(svc blogs.Service, logg *logger.Logger) http.HandlerFunc {
	return deleteByID(logg, "blog deleted", func(ctx context.Context, id uuid.UUID) error {
		if svc == nil {
			return errServiceUnavailable("blog service")
		}
		return svc.Delete(ctx, id)
	})
}
