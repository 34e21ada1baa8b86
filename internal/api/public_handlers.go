package api

import (
	"errors"
	"net/http"

	"productsync/internal/domain/replica"
	"productsync/internal/usecase"

	"github.com/go-chi/chi/v5"
)

type PublicHandlers struct {
	listReplicasUC *usecase.ListReplicas
	likeReplicaUC  *usecase.LikeReplica
}

func NewPublicHandlers(listReplicasUC *usecase.ListReplicas, likeReplicaUC *usecase.LikeReplica) *PublicHandlers {
	return &PublicHandlers{
		listReplicasUC: listReplicasUC,
		likeReplicaUC:  likeReplicaUC,
	}
}

func (h *PublicHandlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	replicas, err := h.listReplicasUC.Execute(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, replicas)
}

func (h *PublicHandlers) LikeProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "missing product id", http.StatusBadRequest)
		return
	}

	rep, err := h.likeReplicaUC.Execute(r.Context(), id)
	if err != nil {
		if errors.Is(err, replica.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		// Remote or local failure: the whole increment failed, nothing was
		// applied.
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, rep)
}
