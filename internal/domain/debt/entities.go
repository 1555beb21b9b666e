package debt

import "time"

type Icon string

// Wire values match what existing slots already hold.
const (
	IconHome     Icon = "home"
	IconClothing Icon = "shirt"
	IconPhone    Icon = "phone"
	IconCart     Icon = "cart"
	IconHealth   Icon = "heart"
	IconCar      Icon = "car"
)

var icons = []Icon{IconHome, IconClothing, IconPhone, IconCart, IconHealth, IconCar}

func Icons() []Icon { return append([]Icon(nil), icons...) }

func (i Icon) Valid() bool {
	for _, k := range icons {
		if i == k {
			return true
		}
	}
	return false
}

// ParseIcon falls back to IconHome for unknown or empty tags.
func ParseIcon(s string) Icon {
	if i := Icon(s); i.Valid() {
		return i
	}
	return IconHome
}

type State string

const (
	StateActive    State = "active"
	StateCompleted State = "completed"
)

// DateLayout is the ISO calendar date used for StartDate and EndDate.
const DateLayout = "2006-01-02"

type Debt struct {
	ID          string  `json:"id"`
	Icon        Icon    `json:"icon"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Paid        int     `json:"paid"`
}

func (d Debt) Completed() bool { return d.Quantity > 0 && d.Paid >= d.Quantity }

func (d Debt) State() State {
	if d.Completed() {
		return StateCompleted
	}
	return StateActive
}

// Fields are the user-editable parts of a Debt, already coerced from a Draft.
type Fields struct {
	Icon        Icon
	Title       string
	Description string
	StartDate   string
	EndDate     string
	Quantity    int
	Price       float64
}

// Check enforces the same rules as the draft validator on coerced values.
func (f Fields) Check() error {
	if f.Title == "" || f.Description == "" || f.StartDate == "" || f.Quantity <= 0 || f.Price <= 0 {
		return ErrInvalidFields
	}
	return nil
}

// Apply copies f onto d, leaving ID and Paid alone.
func (f Fields) Apply(d Debt) Debt {
	d.Icon = ParseIcon(string(f.Icon))
	d.Title = f.Title
	d.Description = f.Description
	d.StartDate = f.StartDate
	d.EndDate = f.EndDate
	d.Quantity = f.Quantity
	d.Price = f.Price
	return d
}

func Today(now time.Time) string { return now.UTC().Format(DateLayout) }
