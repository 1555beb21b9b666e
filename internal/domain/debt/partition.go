package debt

type Partition struct {
	Active    []Debt `json:"active"`
	Completed []Debt `json:"completed"`
}

// Split keeps input order inside each bucket.
func Split(debts []Debt) Partition {
	p := Partition{Active: []Debt{}, Completed: []Debt{}}
	for _, d := range debts {
		if d.Completed() {
			p.Completed = append(p.Completed, d)
		} else {
			p.Active = append(p.Active, d)
		}
	}
	return p
}

// Ordered is the rendering order: active first, then completed.
func (p Partition) Ordered() []Debt {
	out := make([]Debt, 0, len(p.Active)+len(p.Completed))
	out = append(out, p.Active...)
	return append(out, p.Completed...)
}
