package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fMoyano90/universonomada-web/internal/models"
)

// DestinationPayload is what the admin wizard submits. Image slots hold
// either a staged file path or an external URL; a file always wins over a
// URL for the same slot.
type DestinationPayload struct {
	Title         string
	Slug          string
	Duration      string
	ActivityLevel string
	ActivityType  []string
	GroupSize     string
	Description   string
	Itineraries   []models.ItineraryItem
	Includes      []string
	Excludes      []string
	Tips          []string
	Faqs          []models.Faq
	Price         float64
	Location      string
	IsRecommended bool
	IsSpecial     bool
	Type          string

	MainImagePath string // staged upload on disk
	MainImageURL  string
	GalleryPaths  []string
	GalleryURLs   []string
}

// HasFiles reports whether any image slot carries a staged file. The wire
// shape of the repeatable fields depends on it, see Encode.
func (p *DestinationPayload) HasFiles() bool {
	return p.MainImagePath != "" || len(p.GalleryPaths) > 0
}

// Encode builds the multipart body for destination create/update. This is a
// negotiated contract with the backend, not a shape to tidy up: scalars go
// as strings, booleans as the literals "1"/"0", and repeatable objects as
// name[i][field] keys, unless a file is attached, in which case each array
// collapses to a single JSON-encoded string field.
func (p *DestinationPayload) Encode() (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	fields := map[string]string{
		"title":         p.Title,
		"slug":          p.Slug,
		"duration":      p.Duration,
		"activityLevel": p.ActivityLevel,
		"groupSize":     p.GroupSize,
		"description":   p.Description,
		"location":      p.Location,
		"type":          p.Type,
		"price":         strconv.FormatFloat(p.Price, 'f', -1, 64),
		"isRecommended": boolField(p.IsRecommended),
		"isSpecial":     boolField(p.IsSpecial),
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}

	if p.HasFiles() {
		if err := writeJSONFields(w, p); err != nil {
			return nil, "", err
		}
	} else {
		writeIndexedFields(w, p)
	}

	if p.MainImagePath != "" {
		if err := attachFile(w, "mainImage", p.MainImagePath); err != nil {
			return nil, "", err
		}
	} else if p.MainImageURL != "" {
		if err := w.WriteField("imageSrc", p.MainImageURL); err != nil {
			return nil, "", err
		}
	}
	for _, path := range p.GalleryPaths {
		if err := attachFile(w, "galleryImages", path); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return body, w.FormDataContentType(), nil
}

func boolField(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func writeJSONFields(w *multipart.Writer, p *DestinationPayload) error {
	arrays := map[string]interface{}{
		"activityType":     p.ActivityType,
		"itineraries":      p.Itineraries,
		"includes":         p.Includes,
		"excludes":         p.Excludes,
		"tips":             p.Tips,
		"faqs":             p.Faqs,
		"galleryImageUrls": p.GalleryURLs,
	}
	for name, value := range arrays {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", name, err)
		}
		if err := w.WriteField(name, string(encoded)); err != nil {
			return err
		}
	}
	return nil
}

func writeIndexedFields(w *multipart.Writer, p *DestinationPayload) {
	for i, v := range p.ActivityType {
		w.WriteField(fmt.Sprintf("activityType[%d]", i), v)
	}
	for i, it := range p.Itineraries {
		w.WriteField(fmt.Sprintf("itineraries[%d][day]", i), it.Day)
		w.WriteField(fmt.Sprintf("itineraries[%d][title]", i), it.Title)
		for j, detail := range it.Details {
			w.WriteField(fmt.Sprintf("itineraries[%d][details][%d]", i, j), detail)
		}
	}
	for i, v := range p.Includes {
		w.WriteField(fmt.Sprintf("includes[%d]", i), v)
	}
	for i, v := range p.Excludes {
		w.WriteField(fmt.Sprintf("excludes[%d]", i), v)
	}
	for i, v := range p.Tips {
		w.WriteField(fmt.Sprintf("tips[%d]", i), v)
	}
	for i, faq := range p.Faqs {
		w.WriteField(fmt.Sprintf("faqs[%d][question]", i), faq.Question)
		w.WriteField(fmt.Sprintf("faqs[%d][answer]", i), faq.Answer)
	}
	for i, u := range p.GalleryURLs {
		w.WriteField(fmt.Sprintf("galleryImageUrls[%d]", i), u)
	}
}

func attachFile(w *multipart.Writer, field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	part, err := w.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(part, f)
	return err
}

// ListDestinations requests one page of destinations. An empty destType
// means all types. Returns the items and the backend's total count; a
// response without a total reports len(items).
func (c *Client) ListDestinations(ctx context.Context, destType string, page, limit int) ([]models.Destination, int, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	if destType != "" {
		q.Set("type", destType)
	}

	raw, err := c.doJSON(ctx, http.MethodGet, "/destinations?"+q.Encode(), nil, "")
	if err != nil {
		return nil, 0, err
	}

	items, total := decodeList(raw, "destinations", "items", "rows")
	var destinations []models.Destination
	if len(items) > 0 {
		if err := json.Unmarshal(items, &destinations); err != nil {
			return nil, 0, fmt.Errorf("decoding destinations: %w", err)
		}
	}
	if total < 0 {
		total = len(destinations)
	}
	return destinations, total, nil
}

func (c *Client) GetDestination(ctx context.Context, id int) (*models.Destination, error) {
	raw, err := c.doJSON(ctx, http.MethodGet, "/destinations/"+strconv.Itoa(id), nil, "")
	if err != nil {
		return nil, err
	}
	var d models.Destination
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decoding destination: %w", err)
	}
	return &d, nil
}

func (c *Client) GetDestinationBySlug(ctx context.Context, slug string) (*models.Destination, error) {
	raw, err := c.doJSON(ctx, http.MethodGet, "/destinations/slug/"+url.PathEscape(slug), nil, "")
	if err != nil {
		return nil, err
	}
	var d models.Destination
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decoding destination: %w", err)
	}
	return &d, nil
}

func (c *Client) CreateDestination(ctx context.Context, token string, payload *DestinationPayload) error {
	body, contentType, err := payload.Encode()
	if err != nil {
		return err
	}
	_, err = c.doMultipart(ctx, http.MethodPost, "/destinations", body, contentType, token)
	return err
}

func (c *Client) UpdateDestination(ctx context.Context, token string, id int, payload *DestinationPayload) error {
	body, contentType, err := payload.Encode()
	if err != nil {
		return err
	}
	_, err = c.doMultipart(ctx, http.MethodPut, "/destinations/"+strconv.Itoa(id), body, contentType, token)
	return err
}

func (c *Client) DeleteDestination(ctx context.Context, token string, id int) error {
	_, err := c.doJSON(ctx, http.MethodDelete, "/destinations/"+strconv.Itoa(id), nil, token)
	return err
}
