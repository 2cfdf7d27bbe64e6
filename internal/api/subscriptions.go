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

// Subscribe registers a newsletter subscription. Public endpoint.
func (c *Client) Subscribe(ctx context.Context, email, name string) error {
	payload := map[string]string{"email": email}
	if name != "" {
		payload["name"] = name
	}
	_, err := c.doJSON(ctx, http.MethodPost, "/subscriptions", payload, "")
	return err
}

func (c *Client) ListSubscriptions(ctx context.Context, token string, page, limit int) ([]models.Subscription, int, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	raw, err := c.doJSON(ctx, http.MethodGet, "/subscriptions?"+q.Encode(), nil, token)
	if err != nil {
		return nil, 0, err
	}

	items, total := decodeList(raw, "subscriptions", "items", "rows")
	var subscriptions []models.Subscription
	if len(items) > 0 {
		if err := json.Unmarshal(items, &subscriptions); err != nil {
			return nil, 0, fmt.Errorf("decoding subscriptions: %w", err)
		}
	}
	if total < 0 {
		total = len(subscriptions)
	}
	return subscriptions, total, nil
}

// ToggleSubscription flips the active flag.
func (c *Client) ToggleSubscription(ctx context.Context, token string, id int, active bool) error {
	payload := map[string]bool{"isActive": active}
	_, err := c.doJSON(ctx, http.MethodPatch, "/subscriptions/"+strconv.Itoa(id), payload, token)
	return err
}

func (c *Client) DeleteSubscription(ctx context.Context, token string, id int) error {
	_, err := c.doJSON(ctx, http.MethodDelete, "/subscriptions/"+strconv.Itoa(id), nil, token)
	return err
}
