// Package blob is the one place the debt collection is turned into bytes
// and back. The slot holds a JSON array of debt objects.
package blob

import (
	"encoding/json"
	"errors"
	"math"

	domain "cuotas-backend/internal/domain/debt"

	"github.com/xeipuuv/gojsonschema"
)

const slotSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "properties": {
      "id":          {"type": "string"},
      "icon":        {"type": "string"},
      "title":       {"type": "string"},
      "description": {"type": "string"},
      "startDate":   {"type": "string"},
      "endDate":     {"type": ["string", "null"]},
      "quantity":    {"type": "number"},
      "price":       {"type": "number"},
      "paid":        {"type": "number"}
    }
  }
}`

var schema = mustSchema(slotSchema)

func mustSchema(s string) *gojsonschema.Schema {
	sch, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(err)
	}
	return sch
}

var ErrShape = errors.New("slot content is not an array of debts")

// record tolerates numbers written as floats by older clients.
type record struct {
	ID          string  `json:"id"`
	Icon        string  `json:"icon"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate"`
	Quantity    float64 `json:"quantity"`
	Price       float64 `json:"price"`
	Paid        float64 `json:"paid"`
}

func Encode(debts []domain.Debt) ([]byte, error) {
	if debts == nil {
		debts = []domain.Debt{}
	}
	return json.Marshal(debts)
}

// Decode returns ErrShape or a JSON error for content that is not a
// well-formed array; callers treat any error as an empty collection.
func Decode(raw []byte) ([]domain.Debt, error) {
	if len(raw) == 0 {
		return []domain.Debt{}, nil
	}
	res, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, err
	}
	if !res.Valid() {
		return nil, ErrShape
	}

	var recs []record
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, err
	}
	out := make([]domain.Debt, len(recs))
	for i, r := range recs {
		quantity := count(r.Quantity)
		out[i] = domain.Debt{
			ID:          r.ID,
			Icon:        domain.ParseIcon(r.Icon),
			Title:       r.Title,
			Description: r.Description,
			StartDate:   r.StartDate,
			EndDate:     r.EndDate,
			Quantity:    quantity,
			Price:       r.Price,
			Paid:        min(count(r.Paid), quantity),
		}
	}
	return out, nil
}

// count truncates a stored count into [0, MaxInt32].
func count(f float64) int {
	if math.IsNaN(f) || f <= 0 {
		return 0
	}
	return int(min(math.Trunc(f), math.MaxInt32))
}

// DecodeOrEmpty is Decode for gateways: failures become an empty collection.
func DecodeOrEmpty(raw []byte) ([]domain.Debt, error) {
	out, err := Decode(raw)
	if err != nil {
		return []domain.Debt{}, err
	}
	return out, nil
}
