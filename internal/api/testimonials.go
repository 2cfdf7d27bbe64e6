package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/fMoyano90/universonomada-web/internal/models"
)

func (c *Client) ListTestimonials(ctx context.Context) ([]models.Testimonial, error) {
	raw, err := c.doJSON(ctx, http.MethodGet, "/testimonials", nil, "")
	if err != nil {
		return nil, err
	}

	items, _ := decodeList(raw, "testimonials", "items", "rows")
	var testimonials []models.Testimonial
	if len(items) > 0 {
		if err := json.Unmarshal(items, &testimonials); err != nil {
			return nil, fmt.Errorf("decoding testimonials: %w", err)
		}
	}
	return testimonials, nil
}

func (c *Client) CreateTestimonial(ctx context.Context, token string, t *models.Testimonial) error {
	_, err := c.doJSON(ctx, http.MethodPost, "/testimonials", t, token)
	return err
}

func (c *Client) UpdateTestimonial(ctx context.Context, token string, t *models.Testimonial) error {
	_, err := c.doJSON(ctx, http.MethodPut, "/testimonials/"+strconv.Itoa(t.ID), t, token)
	return err
}

func (c *Client) DeleteTestimonial(ctx context.Context, token string, id int) error {
	_, err := c.doJSON(ctx, http.MethodDelete, "/testimonials/"+strconv.Itoa(id), nil, token)
	return err
}

// UploadTestimonialImage sends an already-processed image to the backend's
// upload endpoint and returns the hosted URL.
func (c *Client) UploadTestimonialImage(ctx context.Context, token, filename string, image io.Reader) (string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("image", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, image); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	raw, err := c.doMultipart(ctx, http.MethodPost, "/uploads/testimonials", body, w.FormDataContentType(), token)
	if err != nil {
		return "", err
	}

	var uploaded struct {
		URL      string `json:"url"`
		ImageURL string `json:"imageUrl"`
	}
	if err := json.Unmarshal(raw, &uploaded); err != nil {
		return "", fmt.Errorf("decoding upload response: %w", err)
	}
	if uploaded.URL != "" {
		return uploaded.URL, nil
	}
	if uploaded.ImageURL != "" {
		return uploaded.ImageURL, nil
	}
	return "", fmt.Errorf("upload response missing url")
}
