// Package preferences is the typed form of the dashboard's persisted UI
// state. The store itself only deals in string keys and values; Parse and
// Encode convert at that boundary, replacing anything missing or invalid
// with its default.
package preferences

import (
	"strconv"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/eshaffer321/orders-dashboard/internal/domain/filter"
	"github.com/eshaffer321/orders-dashboard/internal/domain/pager"
	"github.com/eshaffer321/orders-dashboard/internal/domain/sorter"
)

// Storage keys.
const (
	KeyTheme    = "inv_theme"
	KeySearch   = "inv_search"
	KeyStatus   = "inv_status"
	KeyPayment  = "inv_payment"
	KeySortKey  = "inv_sortKey"
	KeySortDir  = "inv_sortDir"
	KeyPage     = "inv_page"
	KeyPageSize = "inv_perPage"
)

// ViewKeys are the keys removed when the dashboard is cleared. The theme
// survives a clear.
var ViewKeys = []string{
	KeySearch,
	KeyStatus,
	KeyPayment,
	KeySortKey,
	KeySortDir,
	KeyPage,
	KeyPageSize,
}

// Theme is the colour scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggle flips between light and dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ParseTheme validates a theme name.
func ParseTheme(s string) (Theme, bool) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), true
	}
	return ThemeLight, false
}

// Preferences is the persisted dashboard state.
type Preferences struct {
	Theme    Theme  `validate:"oneof=light dark"`
	Search   string `validate:"max=256"`
	Status   string `validate:"required"`
	Payment  string `validate:"required"`
	SortKey  string `validate:"sortkey"`
	SortDir  string `validate:"oneof=asc desc"`
	Page     int    `validate:"gte=1"`
	PageSize int    `validate:"gte=1"`
}

// Defaults returns the state used when nothing has been stored.
func Defaults() Preferences {
	return Preferences{
		Theme:    ThemeLight,
		Search:   "",
		Status:   filter.All,
		Payment:  filter.All,
		SortKey:  string(sorter.KeyNone),
		SortDir:  string(sorter.Asc),
		Page:     1,
		PageSize: pager.DefaultPageSize,
	}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("sortkey", func(fl validator.FieldLevel) bool {
			_, ok := sorter.ParseKey(fl.Field().String())
			return ok
		})
	})
	return validate
}

// Parse builds Preferences from stored values. Missing keys, unparseable
// numbers and values that fail validation fall back to their defaults.
func Parse(values map[string]string) Preferences {
	p := Defaults()
	if v, ok := values[KeyTheme]; ok && v != "" {
		p.Theme = Theme(v)
	}
	if v, ok := values[KeySearch]; ok {
		p.Search = v
	}
	if v := values[KeyStatus]; v != "" {
		p.Status = v
	}
	if v := values[KeyPayment]; v != "" {
		p.Payment = v
	}
	p.SortKey = values[KeySortKey]
	if v := values[KeySortDir]; v != "" {
		p.SortDir = v
	}
	p.Page = parsePositive(values[KeyPage], p.Page)
	p.PageSize = parsePositive(values[KeyPageSize], p.PageSize)

	return p.sanitize()
}

// sanitize resets every field that fails validation.
func (p Preferences) sanitize() Preferences {
	err := getValidator().Struct(p)
	if err == nil {
		return p
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Defaults()
	}

	d := Defaults()
	for _, fe := range errs {
		switch fe.Field() {
		case "Theme":
			p.Theme = d.Theme
		case "Search":
			p.Search = d.Search
		case "Status":
			p.Status = d.Status
		case "Payment":
			p.Payment = d.Payment
		case "SortKey":
			p.SortKey = d.SortKey
		case "SortDir":
			p.SortDir = d.SortDir
		case "Page":
			p.Page = d.Page
		case "PageSize":
			p.PageSize = d.PageSize
		}
	}
	return p
}

// Encode produces the stored form of every view key plus the theme.
func (p Preferences) Encode() map[string]string {
	return map[string]string{
		KeyTheme:    string(p.Theme),
		KeySearch:   p.Search,
		KeyStatus:   p.Status,
		KeyPayment:  p.Payment,
		KeySortKey:  p.SortKey,
		KeySortDir:  p.SortDir,
		KeyPage:     strconv.Itoa(p.Page),
		KeyPageSize: strconv.Itoa(p.PageSize),
	}
}

// Query returns the stored filter selections.
func (p Preferences) Query() filter.Query {
	return filter.Query{Search: p.Search, Status: p.Status, Payment: p.Payment}
}

// Sort returns the stored sort state.
func (p Preferences) Sort() sorter.Spec {
	key, _ := sorter.ParseKey(p.SortKey)
	dir, _ := sorter.ParseDirection(p.SortDir)
	return sorter.Spec{Key: key, Direction: dir}
}

func parsePositive(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
