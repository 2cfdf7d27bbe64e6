package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fMoyano90/universonomada-web/internal/models"
)

// CreateBooking submits a new quote or booking request. Public endpoint,
// no token required.
func (c *Client) CreateBooking(ctx context.Context, booking *models.Booking) error {
	_, err := c.doJSON(ctx, http.MethodPost, "/bookings", booking, "")
	return err
}

func (c *Client) ListBookings(ctx context.Context, token string, page, limit int) ([]models.Booking, int, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	raw, err := c.doJSON(ctx, http.MethodGet, "/bookings?"+q.Encode(), nil, token)
	if err != nil {
		return nil, 0, err
	}

	items, total := decodeList(raw, "bookings", "items", "rows")
	var bookings []models.Booking
	if len(items) > 0 {
		if err := json.Unmarshal(items, &bookings); err != nil {
			return nil, 0, fmt.Errorf("decoding bookings: %w", err)
		}
	}
	if total < 0 {
		total = len(bookings)
	}
	return bookings, total, nil
}

func (c *Client) UpdateBookingStatus(ctx context.Context, token string, id int, status string) error {
	payload := map[string]string{"status": status}
	_, err := c.doJSON(ctx, http.MethodPatch, "/bookings/"+strconv.Itoa(id)+"/status", payload, token)
	return err
}

// ConvertQuoteToBooking flips a quote into a booking; the backend resets
// its status to pending under the booking transition rules.
func (c *Client) ConvertQuoteToBooking(ctx context.Context, token string, id int) error {
	_, err := c.doJSON(ctx, http.MethodPost, "/bookings/"+strconv.Itoa(id)+"/convert", nil, token)
	return err
}

func (c *Client) DeleteBooking(ctx context.Context, token string, id int) error {
	_, err := c.doJSON(ctx, http.MethodDelete, "/bookings/"+strconv.Itoa(id), nil, token)
	return err
}
