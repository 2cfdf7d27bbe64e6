package booking

import (
	"testing"

	"github.com/fMoyano90/universonomada-web/internal/models"
)

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func TestQuoteTransitions(t *testing.T) {
	got := AvailableTransitions(models.StatusPending, models.BookingTypeQuote)
	if !contains(got, models.StatusInReview) {
		t.Errorf("pending quote should offer in_review, got %v", got)
	}
	if contains(got, models.StatusSent) {
		t.Errorf("pending quote must not skip to sent, got %v", got)
	}
	if !contains(got, models.StatusRejected) || !contains(got, models.StatusCancelled) {
		t.Errorf("non-terminal state missing reject/cancel, got %v", got)
	}

	// Once in review, pending is gone and sent appears.
	got = AvailableTransitions(models.StatusInReview, models.BookingTypeQuote)
	if !contains(got, models.StatusSent) {
		t.Errorf("in_review quote should offer sent, got %v", got)
	}
	if contains(got, models.StatusPending) {
		t.Errorf("no backward transition to pending, got %v", got)
	}
}

func TestBookingFlowChain(t *testing.T) {
	steps := []struct {
		from, to string
	}{
		{models.StatusPending, models.StatusInContact},
		{models.StatusInContact, models.StatusApproved},
		{models.StatusApproved, models.StatusApprovedAndPaid},
		{models.StatusApprovedAndPaid, models.StatusCompleted},
	}
	for _, s := range steps {
		if !CanTransition(s.from, models.BookingTypeBooking, s.to) {
			t.Errorf("booking %s -> %s should be allowed", s.from, s.to)
		}
	}

	// No skipping ahead.
	if CanTransition(models.StatusPending, models.BookingTypeBooking, models.StatusApproved) {
		t.Error("pending booking must not jump to approved")
	}
}

func TestTerminalStatesOfferNothing(t *testing.T) {
	for _, status := range []string{models.StatusSent, models.StatusCompleted, models.StatusRejected, models.StatusCancelled} {
		for _, bt := range []string{models.BookingTypeQuote, models.BookingTypeBooking} {
			if got := AvailableTransitions(status, bt); len(got) != 0 {
				t.Errorf("%s %s is terminal but offers %v", bt, status, got)
			}
		}
	}
}

func TestCanConvert(t *testing.T) {
	quote := &models.Booking{BookingType: models.BookingTypeQuote, Status: models.StatusInReview}
	if !CanConvert(quote) {
		t.Error("active quote should be convertible")
	}

	quote.Status = models.StatusSent
	if CanConvert(quote) {
		t.Error("terminal quote must not convert")
	}

	booked := &models.Booking{BookingType: models.BookingTypeBooking, Status: models.StatusPending}
	if CanConvert(booked) {
		t.Error("a booking is never convertible")
	}
}

func TestStatusLabelFallsBackToRaw(t *testing.T) {
	if got := StatusLabel(models.StatusApprovedAndPaid); got != "Aprobada y pagada" {
		t.Errorf("label = %q", got)
	}
	if got := StatusLabel("weird_status"); got != "weird_status" {
		t.Errorf("unknown status label = %q", got)
	}
}
