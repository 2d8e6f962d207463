package pets

import "math"

// ComputeStatistics es pura. AverageAge promedia solo los registros con edad
// (0 cuenta como edad), redondeado a un decimal.
func ComputeStatistics(items []PetProfile) Statistics {
	st := Statistics{
		Total:                    len(items),
		CountByType:              map[PetType]int{},
		CountByVaccinationStatus: map[VaccinationStatus]int{},
	}

	sum, withAge := 0, 0
	for _, p := range items {
		st.CountByType[p.Type]++
		if p.VaccinationStatus != "" {
			st.CountByVaccinationStatus[p.VaccinationStatus]++
		}
		if p.Age != nil {
			sum += *p.Age
			withAge++
		}
	}

	if withAge > 0 {
		st.AverageAge = math.Round(float64(sum)/float64(withAge)*10) / 10
	}
	return st
}
