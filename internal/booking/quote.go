// Package booking models the personalize-tour quote form and the
// quote/booking status lifecycle managed from the admin panel.
package booking

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/fMoyano90/universonomada-web/internal/models"
)

// Passenger stepper bounds. Adults start at their minimum of one; the rest
// start at zero.
const (
	AdultsMin = 1
	AdultsMax = 10

	ChildrenMin = 0
	ChildrenMax = 8

	InfantsMin = 0
	InfantsMax = 5

	SeniorsMin = 0
	SeniorsMax = 5
)

// QuoteForm is the working state of the personalize-tour form. Values
// survive a failed submission so the visitor can retry.
type QuoteForm struct {
	DestinationID      int
	StartDate          string // YYYY-MM-DD
	EndDate            string
	FlexibleDates      bool
	Adults             int
	Children           int
	Infants            int
	Seniors            int
	Accommodation      string // "", "yes", "no" (required select)
	SpecialRequests    string
	ContactName        string
	ContactEmail       string
	ContactPhone       string
}

func NewQuoteForm() *QuoteForm {
	return &QuoteForm{Adults: AdultsMin}
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ClampCounts forces every stepper back into its documented bounds,
// whatever sequence of clicks produced the values.
func (f *QuoteForm) ClampCounts() {
	f.Adults = clamp(f.Adults, AdultsMin, AdultsMax)
	f.Children = clamp(f.Children, ChildrenMin, ChildrenMax)
	f.Infants = clamp(f.Infants, InfantsMin, InfantsMax)
	f.Seniors = clamp(f.Seniors, SeniorsMin, SeniorsMax)
}

// ApplyFlexibleDates clears both dates when the checkbox is on; their
// validation errors are suppressed too (see Validate).
func (f *QuoteForm) ApplyFlexibleDates() {
	if f.FlexibleDates {
		f.StartDate = ""
		f.EndDate = ""
	}
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Validate accumulates every field error into one map, not fail-fast, so
// the template can highlight all invalid fields at once.
func (f *QuoteForm) Validate() map[string]string {
	errs := make(map[string]string)

	if f.DestinationID <= 0 {
		errs["destination"] = "Selecciona un destino"
	}

	if !f.FlexibleDates {
		start, startErr := time.Parse("2006-01-02", f.StartDate)
		end, endErr := time.Parse("2006-01-02", f.EndDate)
		if f.StartDate != "" && startErr != nil {
			errs["startDate"] = "Fecha de inicio inválida"
		}
		if f.EndDate != "" && endErr != nil {
			errs["endDate"] = "Fecha de término inválida"
		}
		// End must be strictly after start when both are set.
		if startErr == nil && endErr == nil && f.StartDate != "" && f.EndDate != "" && !end.After(start) {
			errs["dateRange"] = "La fecha de término debe ser posterior a la de inicio"
		}
	}

	if f.Accommodation != "yes" && f.Accommodation != "no" {
		errs["accommodation"] = "Indica si necesitas alojamiento"
	}

	if strings.TrimSpace(f.ContactName) == "" {
		errs["name"] = "El nombre es obligatorio"
	}
	if strings.TrimSpace(f.ContactEmail) == "" {
		errs["email"] = "El email es obligatorio"
	} else if !emailRegex.MatchString(f.ContactEmail) {
		errs["email"] = "Ingresa un email válido"
	}
	if strings.TrimSpace(f.ContactPhone) == "" {
		errs["phone"] = "El teléfono es obligatorio"
	}

	return errs
}

// Requests-field labels. The backend stores one free-text field, so the
// passenger breakdown travels inside it under these literal prefixes and is
// parsed back out in the admin table.
const (
	labelAdults        = "Adultos:"
	labelChildren      = "Niños:"
	labelInfants       = "Bebés:"
	labelSeniors       = "Adultos mayores:"
	labelAccommodation = "Necesita alojamiento:"
)

// ComposeRequests packs the breakdown plus the visitor's free text into the
// specialRequests field.
func (f *QuoteForm) ComposeRequests() string {
	accommodation := "No"
	if f.Accommodation == "yes" {
		accommodation = "Sí"
	}
	lines := []string{
		fmt.Sprintf("%s %d", labelAdults, f.Adults),
		fmt.Sprintf("%s %d", labelChildren, f.Children),
		fmt.Sprintf("%s %d", labelInfants, f.Infants),
		fmt.Sprintf("%s %d", labelSeniors, f.Seniors),
		fmt.Sprintf("%s %s", labelAccommodation, accommodation),
	}
	if text := strings.TrimSpace(f.SpecialRequests); text != "" {
		lines = append(lines, "", text)
	}
	return strings.Join(lines, "\n")
}

// ToBooking builds the quote payload for the backend.
func (f *QuoteForm) ToBooking() *models.Booking {
	return &models.Booking{
		DestinationID:      f.DestinationID,
		StartDate:          f.StartDate,
		EndDate:            f.EndDate,
		Adults:             f.Adults,
		Children:           f.Children,
		Infants:            f.Infants,
		Seniors:            f.Seniors,
		NeedsAccommodation: f.Accommodation == "yes",
		SpecialRequests:    f.ComposeRequests(),
		ContactName:        strings.TrimSpace(f.ContactName),
		ContactEmail:       strings.TrimSpace(f.ContactEmail),
		ContactPhone:       strings.TrimSpace(f.ContactPhone),
		Status:             models.StatusPending,
		BookingType:        models.BookingTypeQuote,
	}
}
