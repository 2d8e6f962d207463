package pets

import (
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"pet-party/internal/middleware"
)

const (
	// Foto de hasta 5 MiB en base64 + resto del formulario.
	maxBodyBytes = 8 << 20

	StorageWarningHeader = "X-Storage-Warning"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Get("/", listPetsHandler(svc))
		pr.Post("/", createPetHandler(svc))

		pr.Get("/stats", statsHandler(svc))
		pr.Post("/sync", syncHandler(svc))

		// Borrado en dos pasos: solicitar => confirmar con token (o cancelar).
		pr.Delete("/delete-request", cancelDeleteHandler(svc))
		pr.Post("/{petID}/delete-request", requestDeleteHandler(svc))
		pr.Delete("/{petID}", confirmDeleteHandler(svc))

		pr.Get("/{petID}", getPetHandler(svc))
		pr.Put("/{petID}", updatePetHandler(svc))
	})
}

// petRequest es el formulario completo de alta/edición.
type petRequest struct {
	Name              string   `json:"name"`
	Type              string   `json:"type" enums:"dog,cat,bird,rabbit,hamster,fish,other"`
	Breed             string   `json:"breed"`
	Age               *float64 `json:"age"`
	Gender            string   `json:"gender" enums:"male,female"`
	Weight            *float64 `json:"weight"`
	VaccinationStatus string   `json:"vaccinationStatus" enums:"up-to-date,partial,overdue,unknown"`
	VaccinationNotes  string   `json:"vaccinationNotes"`
	SpecialNeeds      string   `json:"specialNeeds"`

	// Photo es un data URI. PhotoMediaType/PhotoSize son los declarados por el cliente (opcionales).
	Photo          *string `json:"photo"`
	PhotoMediaType string  `json:"photoMediaType"`
	PhotoSize      int64   `json:"photoSize"`
}

type validationErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type deleteRequestResponse struct {
	PetID     string    `json:"petId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// listPetsHandler godoc
// @Summary Listar mascotas
// @Description Devuelve las mascotas del namespace del usuario (o "local" sin identidad) en orden de alta.
// @Tags pets
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario"
// @Success 200 {array} PetProfile
// @Router /pets [get]
func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.List(r.Context(), namespaceOf(r)))
	}
}

// createPetHandler godoc
// @Summary Agregar mascota
// @Tags pets
// @Accept json
// @Produce json
// @Param payload body petRequest true "Datos de la mascota"
// @Success 201 {object} PetProfile
// @Failure 400 {string} string "invalid json"
// @Failure 422 {object} validationErrorResponse
// @Failure 503 {string} string "storage unavailable"
// @Router /pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, ok := decodeDraft(w, r)
		if !ok {
			return
		}

		p, err := svc.Add(r.Context(), namespaceOf(r), d)
		if err != nil && !isStorageError(err) {
			writeError(w, err)
			return
		}
		markStorageWarning(w, err)
		writeJSON(w, http.StatusCreated, p)
	}
}

// getPetHandler godoc
// @Summary Perfil de mascota
// @Tags pets
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} PetProfile
// @Failure 404 {string} string "pet not found"
// @Failure 503 {string} string "storage unavailable"
// @Router /pets/{petID} [get]
func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.Get(r.Context(), namespaceOf(r), chi.URLParam(r, "petID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// updatePetHandler godoc
// @Summary Editar mascota
// @Description Reemplaza todos los campos editables. id y createdAt no cambian.
// @Tags pets
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body petRequest true "Formulario completo"
// @Success 200 {object} PetProfile
// @Failure 404 {string} string "pet not found"
// @Failure 422 {object} validationErrorResponse
// @Failure 503 {string} string "storage unavailable"
// @Router /pets/{petID} [put]
func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, ok := decodeDraft(w, r)
		if !ok {
			return
		}

		p, err := svc.Update(r.Context(), namespaceOf(r), chi.URLParam(r, "petID"), d)
		if err != nil && !isStorageError(err) {
			writeError(w, err)
			return
		}
		markStorageWarning(w, err)
		writeJSON(w, http.StatusOK, p)
	}
}

// requestDeleteHandler godoc
// @Summary Solicitar borrado
// @Description Primer paso del borrado. Devuelve un token que hay que enviar a DELETE /pets/{petID}.
// @Tags pets
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} deleteRequestResponse
// @Failure 404 {string} string "pet not found"
// @Failure 503 {string} string "storage unavailable"
// @Router /pets/{petID}/delete-request [post]
func requestDeleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := svc.RequestDelete(r.Context(), namespaceOf(r), chi.URLParam(r, "petID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, deleteRequestResponse{
			PetID:     req.PetID,
			Token:     req.Token,
			ExpiresAt: req.ExpiresAt,
		})
	}
}

// confirmDeleteHandler godoc
// @Summary Confirmar borrado
// @Tags pets
// @Param petID path string true "ID de la mascota"
// @Param token query string true "Token de la solicitud de borrado"
// @Success 204
// @Failure 404 {string} string "pet not found"
// @Failure 409 {string} string "delete confirmation mismatch"
// @Failure 503 {string} string "storage unavailable"
// @Router /pets/{petID} [delete]
func confirmDeleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := svc.ConfirmDelete(r.Context(), namespaceOf(r), chi.URLParam(r, "petID"), r.URL.Query().Get("token"))
		if err != nil && !isStorageError(err) {
			writeError(w, err)
			return
		}
		markStorageWarning(w, err)
		w.WriteHeader(http.StatusNoContent)
	}
}

// cancelDeleteHandler godoc
// @Summary Cancelar solicitud de borrado
// @Tags pets
// @Success 204
// @Router /pets/delete-request [delete]
func cancelDeleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.CancelDelete(r.Context(), namespaceOf(r))
		w.WriteHeader(http.StatusNoContent)
	}
}

// statsHandler godoc
// @Summary Estadísticas de mascotas
// @Tags pets
// @Produce json
// @Success 200 {object} Statistics
// @Router /pets/stats [get]
func statsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Statistics(r.Context(), namespaceOf(r)))
	}
}

// syncHandler godoc
// @Summary Reintentar persistencia
// @Description Reescribe la colección completa en el backend tras un fallo de almacenamiento.
// @Tags pets
// @Success 204
// @Failure 503 {string} string "storage unavailable"
// @Router /pets/sync [post]
func syncHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Sync(r.Context(), namespaceOf(r)); err != nil {
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func decodeDraft(w http.ResponseWriter, r *http.Request) (Draft, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req petRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return Draft{}, false
	}

	d := Draft{
		Name:              req.Name,
		Type:              PetType(req.Type),
		Breed:             req.Breed,
		Gender:            Gender(strings.TrimSpace(req.Gender)),
		Weight:            req.Weight,
		VaccinationStatus: VaccinationStatus(strings.TrimSpace(req.VaccinationStatus)),
		VaccinationNotes:  req.VaccinationNotes,
		SpecialNeeds:      req.SpecialNeeds,
	}

	if req.Age != nil {
		if *req.Age != math.Trunc(*req.Age) {
			writeError(w, &ValidationError{Field: "age", Message: "age must be a whole number"})
			return Draft{}, false
		}
		// Fuera de rango de int lo rechaza ValidateDraft igual.
		a := int(math.Max(math.Min(*req.Age, AgeMax+1), AgeMin-1))
		d.Age = &a
	}

	if req.Photo != nil && strings.TrimSpace(*req.Photo) != "" {
		d.Photo = &Photo{
			DataURI:   *req.Photo,
			MediaType: req.PhotoMediaType,
			Size:      req.PhotoSize,
		}
	}

	return d, true
}

func namespaceOf(r *http.Request) string {
	if claims, ok := middleware.GetClaims(r.Context()); ok && strings.TrimSpace(claims.UserID) != "" {
		return claims.UserID
	}
	return LocalNamespace
}

func markStorageWarning(w http.ResponseWriter, err error) {
	if err != nil && isStorageError(err) {
		w.Header().Set(StorageWarningHeader, "changes may not be saved")
	}
}

func writeError(w http.ResponseWriter, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, validationErrorResponse{Field: verr.Field, Message: verr.Message})
	case errors.Is(err, ErrNotFound):
		http.Error(w, "pet not found", http.StatusNotFound)
	case errors.Is(err, ErrConfirmationMismatch):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrStoreUnavailable):
		http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
