package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/fMoyano90/universonomada-web/internal/models"
)

func TestUnwrapDataPeelsNestedEnvelopes(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"single", `{"success":true,"data":[1,2]}`, `[1,2]`},
		{"double", `{"success":true,"data":{"success":true,"data":{"id":1}}}`, `{"id":1}`},
		{"bare array", `[1,2,3]`, `[1,2,3]`},
		{"plain object", `{"id":5,"title":"x"}`, `{"id":5,"title":"x"}`},
	}
	for _, tc := range cases {
		got := unwrapData(json.RawMessage(tc.body))
		var a, b interface{}
		if err := json.Unmarshal(got, &a); err != nil {
			t.Fatalf("%s: unwrapped to invalid JSON %q", tc.name, got)
		}
		json.Unmarshal([]byte(tc.want), &b)
		aj, _ := json.Marshal(a)
		bj, _ := json.Marshal(b)
		if string(aj) != string(bj) {
			t.Errorf("%s: got %s, want %s", tc.name, aj, bj)
		}
	}
}

func TestExtractMessage(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`{"message":"Slug duplicado"}`, "Slug duplicado"},
		{`{"error":"token expirado"}`, "token expirado"},
		{`{"success":false,"data":{"message":"anidado"}}`, "anidado"},
		{`not json at all`, http.StatusText(http.StatusBadRequest)},
		{`{}`, http.StatusText(http.StatusBadRequest)},
	}
	for _, tc := range cases {
		if got := extractMessage([]byte(tc.body), http.StatusBadRequest); got != tc.want {
			t.Errorf("extractMessage(%q) = %q, want %q", tc.body, got, tc.want)
		}
	}
}

func TestDecodeListShapes(t *testing.T) {
	// Bare array: no total reported.
	items, total := decodeList(json.RawMessage(`[{"id":1}]`), "destinations")
	if total != -1 || len(items) == 0 {
		t.Fatalf("bare array: items=%s total=%d", items, total)
	}

	// Keyed object with total.
	items, total = decodeList(json.RawMessage(`{"destinations":[{"id":1}],"total":42}`), "destinations", "items")
	if total != 42 || len(items) == 0 {
		t.Fatalf("keyed object: items=%s total=%d", items, total)
	}

	// Unknown shape degrades to empty, not an error.
	items, _ = decodeList(json.RawMessage(`"what"`), "destinations")
	if items != nil {
		t.Fatalf("unknown shape returned items: %s", items)
	}
}

func TestListDestinationsUnwrapsDoubleEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/destinations" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("type"); got != "international" {
			t.Errorf("type param = %q", got)
		}
		w.Write([]byte(`{"success":true,"data":{"success":true,"data":{"destinations":[{"id":1,"title":"Tokio"},{"id":2,"title":"Kenia"}],"total":9}}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	items, total, err := c.ListDestinations(context.Background(), "international", 1, 6)
	if err != nil {
		t.Fatal(err)
	}
	if total != 9 {
		t.Errorf("total = %d, want 9", total)
	}
	if len(items) != 2 || items[0].Title != "Tokio" {
		t.Errorf("items = %+v", items)
	}
}

func TestListDestinationsBareArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1},{"id":2},{"id":3}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	items, total, err := c.ListDestinations(context.Background(), "", 1, 6)
	if err != nil {
		t.Fatal(err)
	}
	// No total in the response: fall back to the item count.
	if total != 3 || len(items) != 3 {
		t.Errorf("items=%d total=%d", len(items), total)
	}
}

func TestErrorCarriesBackendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"success":false,"message":"El slug ya existe"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, _, err := c.ListDestinations(context.Background(), "", 1, 6)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.StatusCode != http.StatusConflict || apiErr.Message != "El slug ya existe" {
		t.Fatalf("got %+v", apiErr)
	}
}

func TestBearerTokenHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("Authorization = %q", got)
		}
		w.Write([]byte(`{"bookings":[],"total":0}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, _, err := c.ListBookings(context.Background(), "tok-123", 1, 10); err != nil {
		t.Fatal(err)
	}
}

func TestLoginDecodesTokenPair(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Email != "admin@example.com" {
			t.Errorf("email = %q", req.Email)
		}
		w.Write([]byte(`{"success":true,"data":{"accessToken":"at","refreshToken":"rt","user":{"id":1,"role":"admin","name":"Ana"}}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	sess, err := c.Login(context.Background(), "admin@example.com", "secret")
	if err != nil {
		t.Fatal(err)
	}
	if sess.AccessToken != "at" || sess.RefreshToken != "rt" || sess.User.Role != "admin" {
		t.Fatalf("session = %+v", sess)
	}
}

func decodeMultipart(t *testing.T, body *multipart.Reader) (map[string][]string, map[string][]string) {
	t.Helper()
	fields := make(map[string][]string)
	files := make(map[string][]string)
	for {
		part, err := body.NextPart()
		if err != nil {
			break
		}
		if part.FileName() != "" {
			files[part.FormName()] = append(files[part.FormName()], part.FileName())
			continue
		}
		value, _ := io.ReadAll(part)
		fields[part.FormName()] = append(fields[part.FormName()], string(value))
	}
	return fields, files
}

func multipartReader(t *testing.T, p *DestinationPayload) (map[string][]string, map[string][]string) {
	t.Helper()
	body, contentType, err := p.Encode()
	if err != nil {
		t.Fatal(err)
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		t.Fatal(err)
	}
	return decodeMultipart(t, multipart.NewReader(body, params["boundary"]))
}

func TestEncodeWithoutFilesUsesIndexedKeys(t *testing.T) {
	p := &DestinationPayload{
		Title:         "Ruta Austral",
		Price:         1250000,
		IsRecommended: true,
		IsSpecial:     false,
		ActivityType:  []string{"trekking", "naturaleza"},
		Itineraries: []models.ItineraryItem{
			{Day: "Día 1", Title: "Llegada", Details: []string{"Check-in", "Cena"}},
		},
		Faqs:         []models.Faq{{Question: "¿Qué llevar?", Answer: "Abrigo"}},
		MainImageURL: "https://cdn.example.com/main.jpg",
		GalleryURLs:  []string{"https://cdn.example.com/g1.jpg"},
	}

	fields, files := multipartReader(t, p)

	// Booleans travel as the literals "1"/"0".
	if got := fields["isRecommended"]; len(got) != 1 || got[0] != "1" {
		t.Errorf("isRecommended = %v", got)
	}
	if got := fields["isSpecial"]; len(got) != 1 || got[0] != "0" {
		t.Errorf("isSpecial = %v", got)
	}
	if got := fields["price"]; len(got) != 1 || got[0] != "1250000" {
		t.Errorf("price = %v", got)
	}

	// Without files, arrays expand to name[i][field] keys.
	checks := []struct{ key, want string }{
		{"activityType[1]", "naturaleza"},
		{"itineraries[0][day]", "Día 1"},
		{"itineraries[0][details][1]", "Cena"},
		{"faqs[0][question]", "¿Qué llevar?"},
		{"galleryImageUrls[0]", "https://cdn.example.com/g1.jpg"},
		{"imageSrc", "https://cdn.example.com/main.jpg"},
	}
	for _, tc := range checks {
		if got := fields[tc.key]; len(got) != 1 || got[0] != tc.want {
			t.Errorf("field %q = %v, want %q", tc.key, got, tc.want)
		}
	}
	if _, ok := fields["itineraries"]; ok {
		t.Error("JSON-string field present without files")
	}
	if len(files) != 0 {
		t.Errorf("unexpected file parts: %v", files)
	}
}

func TestEncodeWithFilesUsesJSONFields(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "main.jpg")
	if err := os.WriteFile(imgPath, []byte("fake image bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := &DestinationPayload{
		Title:         "Tokio Clásico",
		ActivityType:  []string{"cultura"},
		Itineraries:   []models.ItineraryItem{{Day: "Día 1", Title: "Llegada"}},
		MainImagePath: imgPath,
		GalleryURLs:   []string{"https://cdn.example.com/g1.jpg"},
	}

	fields, files := multipartReader(t, p)

	if got := files["mainImage"]; len(got) != 1 || got[0] != "main.jpg" {
		t.Fatalf("mainImage file part = %v", got)
	}
	if _, ok := fields["imageSrc"]; ok {
		t.Error("imageSrc sent alongside a file upload")
	}

	// With a file attached, each array collapses to one JSON-encoded field.
	raw, ok := fields["itineraries"]
	if !ok || len(raw) != 1 {
		t.Fatalf("itineraries JSON field missing: %v", fields)
	}
	var its []models.ItineraryItem
	if err := json.Unmarshal([]byte(raw[0]), &its); err != nil {
		t.Fatalf("itineraries not valid JSON: %v", err)
	}
	if len(its) != 1 || its[0].Day != "Día 1" {
		t.Errorf("itineraries = %+v", its)
	}
	if _, ok := fields["itineraries[0][day]"]; ok {
		t.Error("indexed keys present alongside JSON fields")
	}
	if got := fields["galleryImageUrls"]; len(got) != 1 || got[0] != `["https://cdn.example.com/g1.jpg"]` {
		t.Errorf("galleryImageUrls = %v", got)
	}
}
