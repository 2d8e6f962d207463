package pets

import "testing"

func TestComputeStatistics(t *testing.T) {
	items := []PetProfile{
		{ID: "1", Type: TypeDog, Age: intPtr(2), VaccinationStatus: VaccinationUpToDate},
		{ID: "2", Type: TypeDog, Age: intPtr(4)},
		{ID: "3", Type: TypeCat, VaccinationStatus: VaccinationUpToDate},
	}

	st := ComputeStatistics(items)
	if st.Total != 3 {
		t.Fatalf("expected total 3, got %d", st.Total)
	}
	if st.CountByType[TypeDog] != 2 || st.CountByType[TypeCat] != 1 {
		t.Fatalf("unexpected type counts: %#v", st.CountByType)
	}
	if st.CountByVaccinationStatus[VaccinationUpToDate] != 2 || len(st.CountByVaccinationStatus) != 1 {
		t.Fatalf("unexpected vaccination counts: %#v", st.CountByVaccinationStatus)
	}
	if st.AverageAge != 3.0 {
		t.Fatalf("expected average 3.0, got %v", st.AverageAge)
	}
}

func TestComputeStatistics_Rounding(t *testing.T) {
	items := []PetProfile{
		{Type: TypeCat, Age: intPtr(1)},
		{Type: TypeCat, Age: intPtr(1)},
		{Type: TypeCat, Age: intPtr(2)},
	}
	if got := ComputeStatistics(items).AverageAge; got != 1.3 {
		t.Fatalf("expected 1.3, got %v", got)
	}
}

func TestComputeStatistics_ZeroAgeCounts(t *testing.T) {
	items := []PetProfile{
		{Type: TypeHamster, Age: intPtr(0)},
		{Type: TypeHamster, Age: intPtr(3)},
	}
	if got := ComputeStatistics(items).AverageAge; got != 1.5 {
		t.Fatalf("expected 1.5, got %v", got)
	}
}

func TestComputeStatistics_NoAges(t *testing.T) {
	st := ComputeStatistics([]PetProfile{{Type: TypeFish}})
	if st.AverageAge != 0 {
		t.Fatalf("expected 0 average, got %v", st.AverageAge)
	}

	empty := ComputeStatistics(nil)
	if empty.Total != 0 || empty.AverageAge != 0 || empty.CountByType == nil {
		t.Fatalf("unexpected empty statistics: %#v", empty)
	}
}
