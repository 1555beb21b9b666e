package debt

import "time"

// MarkForward marks installment slot index as paid together with every slot
// before it. Paid never goes down and a completed debt is left untouched, so
// there is no way to unmark through here. The debt reaching completion gets
// EndDate stamped with now's calendar date.
func MarkForward(d Debt, index int, now time.Time) Debt {
	total := max(0, d.Quantity)
	if total == 0 {
		return d
	}

	current := min(max(d.Paid, 0), total)
	if current >= total {
		return d
	}

	// past-the-end indices mark everything; negative ones change nothing
	paid := min(max(current, index+1), total)
	d.Paid = paid
	if paid >= total {
		d.EndDate = Today(now)
	}
	return d
}

// PaidSlots returns one flag per installment, true when it is paid.
func PaidSlots(d Debt) []bool {
	total := max(0, d.Quantity)
	paid := min(max(d.Paid, 0), total)
	out := make([]bool, total)
	for i := 0; i < paid; i++ {
		out[i] = true
	}
	return out
}
