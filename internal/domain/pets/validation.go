package pets

import (
	"encoding/base64"
	"math"
	"net/url"
	"strings"
	"unicode/utf8"
)

const (
	NameMaxLen = 20
	AgeMin     = 0
	AgeMax     = 30
	WeightMin  = 0.0
	WeightMax  = 100.0

	// MaxPhotoBytes es el tope de la imagen ya decodificada (5 MiB).
	MaxPhotoBytes = 5 * 1024 * 1024
)

// ValidateDraft devuelve el primer error en orden de formulario, o nil.
// Espera un draft ya normalizado (ver normalizeDraft).
func ValidateDraft(d Draft) *ValidationError {
	name := strings.TrimSpace(d.Name)
	switch {
	case name == "":
		return &ValidationError{Field: "name", Message: "name is required"}
	case utf8.RuneCountInString(name) > NameMaxLen:
		return &ValidationError{Field: "name", Message: "name must be between 1 and 20 characters"}
	}

	if strings.TrimSpace(string(d.Type)) == "" {
		return &ValidationError{Field: "type", Message: "type is required"}
	}
	if !d.Type.Valid() {
		return &ValidationError{Field: "type", Message: "unknown pet type " + quote(string(d.Type))}
	}

	if d.Age != nil && (*d.Age < AgeMin || *d.Age > AgeMax) {
		return &ValidationError{Field: "age", Message: "age must be between 0 and 30"}
	}

	if d.Weight != nil {
		w := *d.Weight
		if math.IsNaN(w) || math.IsInf(w, 0) || w < WeightMin || w > WeightMax {
			return &ValidationError{Field: "weight", Message: "weight must be between 0 and 100 kg"}
		}
	}

	if d.Gender != "" && !d.Gender.Valid() {
		return &ValidationError{Field: "gender", Message: "unknown gender " + quote(string(d.Gender))}
	}
	if d.VaccinationStatus != "" && !d.VaccinationStatus.Valid() {
		return &ValidationError{Field: "vaccinationStatus", Message: "unknown vaccination status " + quote(string(d.VaccinationStatus))}
	}

	if d.Photo != nil {
		if verr := validatePhoto(*d.Photo); verr != nil {
			return verr
		}
	}

	return nil
}

// validatePhoto revisa lo que trae el data URI y lo declarado por el cliente:
// ambos media types tienen que ser image/* y vale el mayor de los tamaños.
func validatePhoto(p Photo) *ValidationError {
	mediaType, size, err := ParseDataURI(p.DataURI)
	if err != nil {
		return &ValidationError{Field: "photo", Message: "photo must be a valid data URI"}
	}

	if !isImage(mediaType) {
		return &ValidationError{Field: "photo", Message: "photo must be an image"}
	}
	if declared := strings.TrimSpace(p.MediaType); declared != "" && !isImage(declared) {
		return &ValidationError{Field: "photo", Message: "photo must be an image"}
	}

	if max(size, p.Size) > MaxPhotoBytes {
		return &ValidationError{Field: "photo", Message: "photo must not exceed 5MB"}
	}
	return nil
}

func isImage(mediaType string) bool {
	return strings.HasPrefix(strings.ToLower(mediaType), "image/")
}

// ParseDataURI devuelve el media type y el tamaño en bytes del contenido de un
// data URI (RFC 2397).
func ParseDataURI(uri string) (mediaType string, size int64, err error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(uri), "data:")
	if !ok {
		return "", 0, ErrInvalidInput
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", 0, ErrInvalidInput
	}

	params := strings.Split(header, ";")
	mediaType = strings.TrimSpace(params[0])
	if mediaType == "" {
		mediaType = "text/plain"
	}
	isBase64 := false
	for _, p := range params[1:] {
		if strings.EqualFold(strings.TrimSpace(p), "base64") {
			isBase64 = true
		}
	}

	if isBase64 {
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			if decoded, err = base64.RawStdEncoding.DecodeString(payload); err != nil {
				return "", 0, ErrInvalidInput
			}
		}
		return mediaType, int64(len(decoded)), nil
	}

	decoded, err := url.PathUnescape(payload)
	if err != nil {
		return "", 0, ErrInvalidInput
	}
	return mediaType, int64(len(decoded)), nil
}

func normalizeDraft(d Draft) Draft {
	d.Name = strings.TrimSpace(d.Name)
	d.Type = PetType(strings.TrimSpace(string(d.Type)))
	d.Breed = strings.TrimSpace(d.Breed)
	d.VaccinationNotes = strings.TrimSpace(d.VaccinationNotes)
	d.SpecialNeeds = strings.TrimSpace(d.SpecialNeeds)
	return d
}

func quote(s string) string {
	return `"` + s + `"`
}
