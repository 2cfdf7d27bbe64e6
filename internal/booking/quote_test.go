package booking

import (
	"strings"
	"testing"

	"github.com/fMoyano90/universonomada-web/internal/models"
)

func validForm() *QuoteForm {
	f := NewQuoteForm()
	f.DestinationID = 3
	f.StartDate = "2026-11-10"
	f.EndDate = "2026-11-18"
	f.Accommodation = "yes"
	f.ContactName = "Carla Rojas"
	f.ContactEmail = "carla@example.com"
	f.ContactPhone = "+56 9 1234 5678"
	return f
}

func TestClampCounts(t *testing.T) {
	f := NewQuoteForm()
	f.Adults = 0
	f.Children = 99
	f.Infants = -2
	f.Seniors = 6
	f.ClampCounts()

	if f.Adults != AdultsMin {
		t.Errorf("adults = %d, want %d", f.Adults, AdultsMin)
	}
	if f.Children != ChildrenMax {
		t.Errorf("children = %d, want %d", f.Children, ChildrenMax)
	}
	if f.Infants != 0 {
		t.Errorf("infants = %d, want 0", f.Infants)
	}
	if f.Seniors != SeniorsMax {
		t.Errorf("seniors = %d, want %d", f.Seniors, SeniorsMax)
	}
}

func TestFlexibleDatesClearAndSuppress(t *testing.T) {
	f := validForm()
	f.StartDate = "garbage"
	f.EndDate = "2026-13-45"
	f.FlexibleDates = true
	f.ApplyFlexibleDates()

	if f.StartDate != "" || f.EndDate != "" {
		t.Fatalf("dates not cleared: %q %q", f.StartDate, f.EndDate)
	}
	if errs := f.Validate(); len(errs) != 0 {
		t.Fatalf("flexible dates still validated: %v", errs)
	}
}

func TestValidateAccumulatesAllErrors(t *testing.T) {
	f := NewQuoteForm()
	errs := f.Validate()

	for _, field := range []string{"destination", "accommodation", "name", "email", "phone"} {
		if errs[field] == "" {
			t.Errorf("missing error for %q", field)
		}
	}
}

func TestValidateDateRange(t *testing.T) {
	f := validForm()

	// Equal dates: end must be strictly after start.
	f.EndDate = f.StartDate
	if errs := f.Validate(); errs["dateRange"] == "" {
		t.Fatal("expected dateRange error for equal dates")
	}

	f.EndDate = "2026-11-09"
	if errs := f.Validate(); errs["dateRange"] == "" {
		t.Fatal("expected dateRange error for end before start")
	}

	f.EndDate = "2026-11-11"
	if errs := f.Validate(); len(errs) != 0 {
		t.Fatalf("valid range rejected: %v", errs)
	}
}

func TestValidateEmail(t *testing.T) {
	f := validForm()
	f.ContactEmail = "not-an-email"
	if errs := f.Validate(); errs["email"] == "" {
		t.Fatal("expected email error")
	}
}

func TestValidateAccommodationMustBeAnswered(t *testing.T) {
	f := validForm()
	f.Accommodation = ""
	if errs := f.Validate(); errs["accommodation"] == "" {
		t.Fatal("expected accommodation error for unanswered select")
	}
	f.Accommodation = "maybe"
	if errs := f.Validate(); errs["accommodation"] == "" {
		t.Fatal("expected accommodation error for invalid value")
	}
}

func TestComposeParseRoundTrip(t *testing.T) {
	f := validForm()
	f.Adults = 2
	f.Children = 1
	f.Infants = 0
	f.Seniors = 1
	f.SpecialRequests = "Somos celíacos.\nPreferimos hoteles céntricos."

	b := ParseRequests(f.ComposeRequests())
	if b.Adults != 2 || b.Children != 1 || b.Infants != 0 || b.Seniors != 1 {
		t.Fatalf("breakdown mismatch: %+v", b)
	}
	if !b.NeedsAccommodation {
		t.Fatal("accommodation lost in round trip")
	}
	if !strings.Contains(b.FreeText, "celíacos") {
		t.Fatalf("free text lost: %q", b.FreeText)
	}
}

func TestParseRequestsUnstructuredText(t *testing.T) {
	b := ParseRequests("Queremos viajar en familia.\nAdultos: 4\nAlgo más.")
	if b.Adults != 4 {
		t.Fatalf("adults = %d", b.Adults)
	}
	if b.FreeText != "Queremos viajar en familia.\nAlgo más." {
		t.Fatalf("free text = %q", b.FreeText)
	}
	if b.NeedsAccommodation {
		t.Fatal("accommodation defaulted to true")
	}
}

func TestToBookingIsPendingQuote(t *testing.T) {
	b := validForm().ToBooking()
	if b.Status != models.StatusPending {
		t.Errorf("status = %q", b.Status)
	}
	if b.BookingType != models.BookingTypeQuote {
		t.Errorf("bookingType = %q", b.BookingType)
	}
	if !b.NeedsAccommodation {
		t.Error("accommodation flag lost")
	}
	if !strings.Contains(b.SpecialRequests, "Adultos: 1") {
		t.Errorf("breakdown missing from requests: %q", b.SpecialRequests)
	}
}
