package booking

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/fMoyano90/universonomada-web/internal/models"
)

// Forward transitions per booking type. Reject/cancel are additionally
// reachable from every non-terminal state.
var quoteFlow = map[string][]string{
	models.StatusPending:  {models.StatusInReview},
	models.StatusInReview: {models.StatusSent},
}

var bookingFlow = map[string][]string{
	models.StatusPending:         {models.StatusInContact},
	models.StatusInContact:       {models.StatusApproved},
	models.StatusApproved:        {models.StatusApprovedAndPaid},
	models.StatusApprovedAndPaid: {models.StatusCompleted},
}

var terminalStatuses = map[string]bool{
	models.StatusSent:      true,
	models.StatusCompleted: true,
	models.StatusRejected:  true,
	models.StatusCancelled: true,
}

// AvailableTransitions lists the statuses a record may move to from its
// current (status, bookingType) pair. Only these get buttons in the admin
// table.
func AvailableTransitions(status, bookingType string) []string {
	flow := bookingFlow
	if bookingType == models.BookingTypeQuote {
		flow = quoteFlow
	}

	var targets []string
	targets = append(targets, flow[status]...)
	if !terminalStatuses[status] {
		targets = append(targets, models.StatusRejected, models.StatusCancelled)
	}
	return targets
}

func CanTransition(status, bookingType, target string) bool {
	for _, t := range AvailableTransitions(status, bookingType) {
		if t == target {
			return true
		}
	}
	return false
}

// CanConvert reports whether a quote may be converted into a booking.
// Conversion resets the status to pending under the booking rules.
func CanConvert(b *models.Booking) bool {
	return b.BookingType == models.BookingTypeQuote && !terminalStatuses[b.Status]
}

// StatusLabel maps statuses to the Spanish labels shown in the admin UI.
func StatusLabel(status string) string {
	switch status {
	case models.StatusPending:
		return "Pendiente"
	case models.StatusInReview:
		return "En revisión"
	case models.StatusSent:
		return "Enviada"
	case models.StatusInContact:
		return "En contacto"
	case models.StatusApproved:
		return "Aprobada"
	case models.StatusApprovedAndPaid:
		return "Aprobada y pagada"
	case models.StatusCompleted:
		return "Completada"
	case models.StatusRejected:
		return "Rechazada"
	case models.StatusCancelled:
		return "Cancelada"
	}
	return status
}

// RequestBreakdown is what ParseRequests recovers from the free-text
// specialRequests field.
type RequestBreakdown struct {
	Adults             int
	Children           int
	Infants            int
	Seniors            int
	NeedsAccommodation bool
	FreeText           string
}

// ParseRequests pattern-matches the literal label prefixes written by
// ComposeRequests. It is a soft schema over an unstructured field: unknown
// lines accumulate into FreeText untouched.
func ParseRequests(text string) RequestBreakdown {
	var b RequestBreakdown
	var freeLines []string

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, labelAdults):
			b.Adults = parseCount(line, labelAdults)
		case strings.HasPrefix(line, labelChildren):
			b.Children = parseCount(line, labelChildren)
		case strings.HasPrefix(line, labelInfants):
			b.Infants = parseCount(line, labelInfants)
		case strings.HasPrefix(line, labelSeniors):
			b.Seniors = parseCount(line, labelSeniors)
		case strings.HasPrefix(line, labelAccommodation):
			value := strings.TrimSpace(strings.TrimPrefix(line, labelAccommodation))
			b.NeedsAccommodation = strings.EqualFold(value, "sí") || strings.EqualFold(value, "si")
		case line != "":
			freeLines = append(freeLines, line)
		}
	}
	b.FreeText = strings.Join(freeLines, "\n")
	return b
}

func parseCount(line, label string) int {
	n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, label)))
	if err != nil {
		return 0
	}
	return n
}
