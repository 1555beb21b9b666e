package debt

import domain "cuotas-backend/internal/domain/debt"

type DebtDTO struct {
	domain.Debt
	State domain.State `json:"state"`
	Slots []bool       `json:"slots"`
}

type ListDTO struct {
	Active    []DebtDTO `json:"active"`
	Completed []DebtDTO `json:"completed"`
}

func toDTO(d domain.Debt) DebtDTO {
	return DebtDTO{Debt: d, State: d.State(), Slots: domain.PaidSlots(d)}
}

func toDTOs(ds []domain.Debt) []DebtDTO {
	out := make([]DebtDTO, len(ds))
	for i, d := range ds {
		out[i] = toDTO(d)
	}
	return out
}
