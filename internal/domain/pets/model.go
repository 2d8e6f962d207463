package pets

import "time"

// StorageKey es la única clave bajo la que se persiste la colección.
const StorageKey = "petPartyPets"

// PetType define los tipos de mascota soportados.
// @Enum dog, cat, bird, rabbit, hamster, fish, other
type PetType string

const (
	TypeDog     PetType = "dog"
	TypeCat     PetType = "cat"
	TypeBird    PetType = "bird"
	TypeRabbit  PetType = "rabbit"
	TypeHamster PetType = "hamster"
	TypeFish    PetType = "fish"
	TypeOther   PetType = "other"
)

func (t PetType) Valid() bool {
	switch t {
	case TypeDog, TypeCat, TypeBird, TypeRabbit, TypeHamster, TypeFish, TypeOther:
		return true
	}
	return false
}

// Gender define el sexo de la mascota.
// @Enum male, female
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// VaccinationStatus define el estado de vacunación declarado por el dueño.
// @Enum up-to-date, partial, overdue, unknown
type VaccinationStatus string

const (
	VaccinationUpToDate VaccinationStatus = "up-to-date"
	VaccinationPartial  VaccinationStatus = "partial"
	VaccinationOverdue  VaccinationStatus = "overdue"
	VaccinationUnknown  VaccinationStatus = "unknown"
)

func (v VaccinationStatus) Valid() bool {
	switch v {
	case VaccinationUpToDate, VaccinationPartial, VaccinationOverdue, VaccinationUnknown:
		return true
	}
	return false
}

// PetProfile es el registro persistido. Los tags JSON son el formato de
// almacenamiento: no cambiar nombres sin migrar los datos guardados.
type PetProfile struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Type PetType `json:"type"`

	Breed  string   `json:"breed,omitempty"`
	Age    *int     `json:"age,omitempty"`
	Gender Gender   `json:"gender,omitempty"`
	Weight *float64 `json:"weight,omitempty"` // kg

	VaccinationStatus VaccinationStatus `json:"vaccinationStatus,omitempty"`
	VaccinationNotes  string            `json:"vaccinationNotes,omitempty"`
	SpecialNeeds      string            `json:"specialNeeds,omitempty"`

	// Photo es un data URI (data:image/...;base64,...).
	Photo string `json:"photo,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Draft es la entrada del usuario (alta o edición completa) aún sin validar.
type Draft struct {
	Name              string
	Type              PetType
	Breed             string
	Age               *int
	Gender            Gender
	Weight            *float64
	VaccinationStatus VaccinationStatus
	VaccinationNotes  string
	SpecialNeeds      string
	Photo             *Photo
}

// Photo llega ya codificada por el cliente. MediaType y Size son los
// declarados por quien la capturó; si vienen vacíos se derivan del data URI.
type Photo struct {
	DataURI   string
	MediaType string
	Size      int64
}

// Statistics agrega la colección actual.
type Statistics struct {
	Total                    int                       `json:"total"`
	CountByType              map[PetType]int           `json:"countByType"`
	CountByVaccinationStatus map[VaccinationStatus]int `json:"countByVaccinationStatus"`
	AverageAge               float64                   `json:"averageAge"`
}

func (p PetProfile) clone() PetProfile {
	out := p
	if p.Age != nil {
		a := *p.Age
		out.Age = &a
	}
	if p.Weight != nil {
		w := *p.Weight
		out.Weight = &w
	}
	return out
}

func cloneAll(in []PetProfile) []PetProfile {
	out := make([]PetProfile, len(in))
	for i, p := range in {
		out[i] = p.clone()
	}
	return out
}
