package pets

import (
	"bytes"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// EncodeCollection serializa la colección tal como se guarda bajo StorageKey.
func EncodeCollection(items []PetProfile) ([]byte, error) {
	if items == nil {
		items = []PetProfile{}
	}
	return json.Marshal(items)
}

// storedProfile acepta además los nombres de la versión anterior del gestor
// (vaccination, notes) y ids numéricos.
type storedProfile struct {
	ID     json.RawMessage `json:"id"`
	Name   string          `json:"name"`
	Type   PetType         `json:"type"`
	Breed  string          `json:"breed"`
	Age    *int            `json:"age"`
	Gender Gender          `json:"gender"`
	Weight *float64        `json:"weight"`

	VaccinationStatus VaccinationStatus `json:"vaccinationStatus"`
	Vaccination       VaccinationStatus `json:"vaccination"`
	VaccinationNotes  string            `json:"vaccinationNotes"`
	Notes             string            `json:"notes"`
	SpecialNeeds      string            `json:"specialNeeds"`
	Photo             string            `json:"photo"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DecodeCollection es la inversa de EncodeCollection. Un payload vacío es una
// colección vacía; cualquier otro fallo vuelve como *DecodeError.
func DecodeCollection(data []byte) ([]PetProfile, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []PetProfile{}, nil
	}

	var raw []storedProfile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &DecodeError{Err: err}
	}

	out := make([]PetProfile, 0, len(raw))
	for _, r := range raw {
		id, err := decodeID(r.ID)
		if err != nil {
			return nil, &DecodeError{Err: err}
		}

		p := PetProfile{
			ID:                id,
			Name:              r.Name,
			Type:              r.Type,
			Breed:             r.Breed,
			Age:               r.Age,
			Gender:            r.Gender,
			Weight:            r.Weight,
			VaccinationStatus: r.VaccinationStatus,
			VaccinationNotes:  r.VaccinationNotes,
			SpecialNeeds:      r.SpecialNeeds,
			Photo:             r.Photo,
			CreatedAt:         r.CreatedAt.UTC(),
			UpdatedAt:         r.UpdatedAt.UTC(),
		}
		if p.VaccinationStatus == "" {
			p.VaccinationStatus = r.Vaccination
		}
		if p.VaccinationNotes == "" {
			p.VaccinationNotes = r.Notes
		}
		out = append(out, p)
	}
	return out, nil
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}
