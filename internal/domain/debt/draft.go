package debt

import (
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Field string

const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldStartDate   Field = "startDate"
	FieldEndDate     Field = "endDate"
	FieldQuantity    Field = "quantity"
	FieldPrice       Field = "price"
)

// DraftFields lists the form fields in display order.
var DraftFields = []Field{FieldTitle, FieldDescription, FieldStartDate, FieldEndDate, FieldQuantity, FieldPrice}

// Draft is the text-typed form state behind a create or edit session.
type Draft struct {
	Icon        Icon   `json:"icon"`
	Title       string `json:"title"       validate:"notblank"`
	Description string `json:"description" validate:"notblank"`
	StartDate   string `json:"startDate"   validate:"required"`
	EndDate     string `json:"endDate"`
	Quantity    string `json:"quantity"    validate:"required,posnum,intlike"`
	Price       string `json:"price"       validate:"required,posnum"`
}

func NewDraft() Draft { return Draft{Icon: IconHome} }

func DraftFromDebt(d Debt) Draft {
	return Draft{
		Icon:        ParseIcon(string(d.Icon)),
		Title:       d.Title,
		Description: d.Description,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		Quantity:    strconv.Itoa(d.Quantity),
		Price:       strconv.FormatFloat(d.Price, 'f', -1, 64),
	}
}

// Equal reports whether the two drafts hold the same text; a draft that
// differs from the one it started from has unsaved edits.
func (d Draft) Equal(o Draft) bool { return d == o }

// Fields coerces the draft. Only meaningful once Validate allows saving.
func (d Draft) Fields() Fields {
	qty, _ := parseNumber(d.Quantity)
	price, _ := parseNumber(d.Price)
	return Fields{
		Icon:        ParseIcon(string(d.Icon)),
		Title:       strings.TrimSpace(d.Title),
		Description: strings.TrimSpace(d.Description),
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		Quantity:    int(qty),
		Price:       price,
	}
}

type Validation struct {
	Errors  map[Field]string `json:"errors"`
	CanSave bool             `json:"can_save"`
}

// Visible keeps only the messages of touched fields.
func (v Validation) Visible(t Touched) map[Field]string {
	out := make(map[Field]string, len(v.Errors))
	for f, msg := range v.Errors {
		if t[f] {
			out[f] = msg
		}
	}
	return out
}

// Touched marks fields the user interacted with, or all of them after a save attempt.
type Touched map[Field]bool

func (t Touched) Touch(f Field) Touched {
	if t == nil {
		t = Touched{}
	}
	t[f] = true
	return t
}

func TouchAll() Touched {
	t := make(Touched, len(DraftFields))
	for _, f := range DraftFields {
		t[f] = true
	}
	return t
}

var draftValidator = newDraftValidator()

func newDraftValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("posnum", func(fl validator.FieldLevel) bool {
		n, ok := parseNumber(fl.Field().String())
		return ok && n > 0
	})
	_ = v.RegisterValidation("intlike", func(fl validator.FieldLevel) bool {
		n, _ := parseNumber(fl.Field().String())
		return n == math.Trunc(n) && n <= math.MaxInt32
	})
	return v
}

var fieldLabels = map[Field]string{
	FieldTitle:       "title",
	FieldDescription: "description",
	FieldStartDate:   "start date",
	FieldQuantity:    "quantity",
	FieldPrice:       "price",
}

// Validate runs every field rule on the draft. It never looks at touched
// state; callers use Visible for that.
func Validate(d Draft) Validation {
	out := Validation{Errors: map[Field]string{}, CanSave: true}
	err := draftValidator.Struct(d)
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return out
	}
	for _, e := range ve {
		f := Field(e.Field())
		label := fieldLabels[f]
		switch e.Tag() {
		case "notblank", "required":
			out.Errors[f] = label + " is required"
		case "posnum":
			out.Errors[f] = label + " must be greater than 0"
		case "intlike":
			out.Errors[f] = label + " must be a whole number"
		default:
			out.Errors[f] = label + " is invalid"
		}
	}
	out.CanSave = len(out.Errors) == 0
	return out
}

func parseNumber(s string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
