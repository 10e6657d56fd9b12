package filter

// ChipType identifies which part of the query a chip removes.
type ChipType string

const (
	ChipSearch  ChipType = "search"
	ChipStatus  ChipType = "status"
	ChipPayment ChipType = "payment"
)

// Chip is a removable tag describing one active restriction.
type Chip struct {
	Type  ChipType `json:"type"`
	Label string   `json:"label"`
}

// ParseChipType validates a chip type coming from a request.
func ParseChipType(s string) (ChipType, bool) {
	switch ChipType(s) {
	case ChipSearch, ChipStatus, ChipPayment:
		return ChipType(s), true
	}
	return "", false
}

// Chips describes the active restrictions, search first.
func (q Query) Chips() []Chip {
	q = q.Normalize()
	chips := make([]Chip, 0, 3)
	if q.Search != "" {
		chips = append(chips, Chip{Type: ChipSearch, Label: "Search: " + q.Search})
	}
	if q.Status != All {
		chips = append(chips, Chip{Type: ChipStatus, Label: "Status: " + q.Status})
	}
	if q.Payment != All {
		chips = append(chips, Chip{Type: ChipPayment, Label: "Payment: " + q.Payment})
	}
	return chips
}

// Without returns the query with one restriction cleared.
func (q Query) Without(t ChipType) Query {
	switch t {
	case ChipSearch:
		q.Search = ""
	case ChipStatus:
		q.Status = All
	case ChipPayment:
		q.Payment = All
	}
	return q
}
