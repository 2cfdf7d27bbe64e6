package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/fMoyano90/universonomada-web/internal/models"
)

// ListActiveSliders returns the active sliders sorted by display order.
// Equal orders keep the backend's insertion order (stable sort).
func (c *Client) ListActiveSliders(ctx context.Context) ([]models.Slider, error) {
	raw, err := c.doJSON(ctx, http.MethodGet, "/sliders/active", nil, "")
	if err != nil {
		return nil, err
	}

	items, _ := decodeList(raw, "sliders", "items", "rows")
	var sliders []models.Slider
	if len(items) > 0 {
		if err := json.Unmarshal(items, &sliders); err != nil {
			return nil, fmt.Errorf("decoding sliders: %w", err)
		}
	}
	sort.SliceStable(sliders, func(i, j int) bool {
		return sliders[i].SortOrder < sliders[j].SortOrder
	})
	return sliders, nil
}

func (c *Client) ListSliders(ctx context.Context, token string) ([]models.Slider, error) {
	raw, err := c.doJSON(ctx, http.MethodGet, "/sliders", nil, token)
	if err != nil {
		return nil, err
	}

	items, _ := decodeList(raw, "sliders", "items", "rows")
	var sliders []models.Slider
	if len(items) > 0 {
		if err := json.Unmarshal(items, &sliders); err != nil {
			return nil, fmt.Errorf("decoding sliders: %w", err)
		}
	}
	sort.SliceStable(sliders, func(i, j int) bool {
		return sliders[i].SortOrder < sliders[j].SortOrder
	})
	return sliders, nil
}

func (c *Client) CreateSlider(ctx context.Context, token string, slider *models.Slider) error {
	_, err := c.doJSON(ctx, http.MethodPost, "/sliders", slider, token)
	return err
}

func (c *Client) UpdateSlider(ctx context.Context, token string, slider *models.Slider) error {
	_, err := c.doJSON(ctx, http.MethodPut, "/sliders/"+strconv.Itoa(slider.ID), slider, token)
	return err
}

// UpdateSliderOrder changes only the display order of one slider. Reorder
// in the admin UI swaps the orders of two neighbors via two of these calls.
func (c *Client) UpdateSliderOrder(ctx context.Context, token string, id, order int) error {
	payload := map[string]int{"displayOrder": order}
	_, err := c.doJSON(ctx, http.MethodPatch, "/sliders/"+strconv.Itoa(id)+"/order", payload, token)
	return err
}

func (c *Client) DeleteSlider(ctx context.Context, token string, id int) error {
	_, err := c.doJSON(ctx, http.MethodDelete, "/sliders/"+strconv.Itoa(id), nil, token)
	return err
}
