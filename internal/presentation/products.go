package presentation

import (
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/RaikyD/store-admin/internal/application"
	"github.com/RaikyD/store-admin/internal/presentation/helpers"
	"github.com/RaikyD/store-admin/internal/validation"
	"github.com/go-chi/chi/v5"
)

const maxImageBytes = 5 << 20

type ProductsHandler struct {
	svc *application.ProductsService
}

func NewProductsHandler(svc *application.ProductsService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

func (h *ProductsHandler) Register(r chi.Router) {
	r.Get("/products", h.ListProducts)
	r.Post("/products", h.CreateProduct)
	r.Get("/products/{id}", h.GetProduct)
	r.Put("/products/{id}", h.UpdateProduct)
	r.Delete("/products/{id}", h.DeleteProduct)
	r.Post("/products/{id}/image", h.UploadImage)
}

func (h *ProductsHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, err, "failed to list products")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, list)
}

func (h *ProductsHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.URLUUID(r, "id")
	if !ok {
		helpers.HttpError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err, "failed to get product")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var form validation.ProductForm
	if err := helpers.DecodeJSON(r.Body, &form); err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	p, err := h.svc.Create(r.Context(), form)
	if err != nil {
		writeError(w, err, "failed to create product")
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, p)
}

func (h *ProductsHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.URLUUID(r, "id")
	if !ok {
		helpers.HttpError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	var form validation.ProductForm
	if err := helpers.DecodeJSON(r.Body, &form); err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	p, err := h.svc.Update(r.Context(), id, form)
	if err != nil {
		writeError(w, err, "failed to update product")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.URLUUID(r, "id")
	if !ok {
		helpers.HttpError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, err, "failed to delete product")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadImage expects multipart/form-data with the image in the "file" field.
func (h *ProductsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.URLUUID(r, "id")
	if !ok {
		helpers.HttpError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	mediatype, params, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediatype != "multipart/form-data" {
		helpers.HttpError(w, http.StatusUnsupportedMediaType, "unsupported content-type")
		return
	}

	mr := multipart.NewReader(r.Body, params["boundary"])
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			helpers.HttpError(w, http.StatusBadRequest, "invalid multipart body: "+err.Error())
			return
		}
		if part.FormName() != "file" {
			continue
		}

		ct := part.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}
		if mt, _, _ := mime.ParseMediaType(ct); !strings.HasPrefix(mt, "image/") {
			_ = part.Close()
			helpers.HttpError(w, http.StatusUnsupportedMediaType, "file must be an image")
			return
		}

		p, err := h.svc.UploadImage(r.Context(), id, part.FileName(), ct, io.LimitReader(part, maxImageBytes))
		_ = part.Close()
		if err != nil {
			writeError(w, err, "failed to upload image")
			return
		}
		helpers.WriteJSON(w, http.StatusOK, p)
		return
	}
	helpers.HttpError(w, http.StatusBadRequest, "file field is required")
}
