package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"productsync/internal/domain/product"
	"productsync/internal/infrastructure/rabbitmq"
	"productsync/internal/usecase"

	"github.com/go-chi/chi/v5"
)

type AdminHandlers struct {
	listProductsUC  *usecase.ListProducts
	getProductUC    *usecase.GetProduct
	createProductUC *usecase.CreateProduct
	updateProductUC *usecase.UpdateProduct
	deleteProductUC *usecase.DeleteProduct
	likeProductUC   *usecase.LikeProduct
}

func NewAdminHandlers(
	listProductsUC *usecase.ListProducts,
	getProductUC *usecase.GetProduct,
	createProductUC *usecase.CreateProduct,
	updateProductUC *usecase.UpdateProduct,
	deleteProductUC *usecase.DeleteProduct,
	likeProductUC *usecase.LikeProduct,
) *AdminHandlers {
	return &AdminHandlers{
		listProductsUC:  listProductsUC,
		getProductUC:    getProductUC,
		createProductUC: createProductUC,
		updateProductUC: updateProductUC,
		deleteProductUC: deleteProductUC,
		likeProductUC:   likeProductUC,
	}
}

func (h *AdminHandlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.listProductsUC.Execute(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

func (h *AdminHandlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req usecase.CreateProductParams
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.createProductUC.Execute(r.Context(), req)
	if err != nil {
		writeMutationError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, p)
}

func (h *AdminHandlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	p, err := h.getProductUC.Execute(r.Context(), id)
	if err != nil {
		writeMutationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (h *AdminHandlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	var req struct {
		Title string `json:"title"`
		Image string `json:"image"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.updateProductUC.Execute(r.Context(), usecase.UpdateProductParams{
		ID:    id,
		Title: req.Title,
		Image: req.Image,
	})
	if err != nil {
		writeMutationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (h *AdminHandlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	affected, err := h.deleteProductUC.Execute(r.Context(), id)
	if err != nil {
		writeMutationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"deleted": affected})
}

func (h *AdminHandlers) LikeProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	p, err := h.likeProductUC.Execute(r.Context(), id)
	if err != nil {
		writeMutationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMutationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, product.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, usecase.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, rabbitmq.ErrNotReady):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
