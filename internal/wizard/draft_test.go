package wizard

import (
	"encoding/json"
	"testing"

	"github.com/fMoyano90/universonomada-web/internal/models"
)

func TestStepNavigationClamps(t *testing.T) {
	d := NewDraft()
	if d.Step != StepBasic {
		t.Fatalf("new draft starts at step %d", d.Step)
	}

	d.PrevStep()
	if d.Step != StepBasic {
		t.Fatalf("prev on first step moved to %d", d.Step)
	}

	d.NextStep()
	d.NextStep()
	d.NextStep()
	if d.Step != StepAdvanced {
		t.Fatalf("next past last step moved to %d", d.Step)
	}
}

func TestValidateRequiredFields(t *testing.T) {
	d := NewDraft()
	errs := d.Validate()

	for _, field := range []string{"title", "type", "location", "mainImage"} {
		if errs[field] == "" {
			t.Errorf("expected error for %q", field)
		}
	}
	if errs["mainImage"] != "Debe proporcionar una imagen principal (archivo o URL válida)" {
		t.Errorf("unexpected main image message: %q", errs["mainImage"])
	}
}

func TestValidateMainImageURL(t *testing.T) {
	d := NewDraft()
	d.Title = "Safari en Kenia"
	d.Type = "international"
	d.Location = "Nairobi, Kenia"

	// A malformed URL is a hard rejection, not a fallback.
	d.SetMainImageURL("not a url")
	if errs := d.Validate(); errs["mainImage"] == "" {
		t.Fatal("expected error for malformed URL")
	}

	d.SetMainImageURL("https://cdn.example.com/kenia.jpg")
	if errs := d.Validate(); len(errs) != 0 {
		t.Fatalf("expected valid draft, got %v", errs)
	}

	// A staged file satisfies the requirement regardless of the URL slot.
	d.SetMainImageURL("")
	d.SetMainImageFile("/tmp/staged.jpg")
	if errs := d.Validate(); len(errs) != 0 {
		t.Fatalf("expected staged file to satisfy main image, got %v", errs)
	}
}

func TestMainImageEvictedExactlyOnce(t *testing.T) {
	d := NewDraft()

	if evicted := d.SetMainImageFile("/tmp/a.jpg"); evicted != "" {
		t.Fatalf("first stage evicted %q", evicted)
	}
	if evicted := d.SetMainImageFile("/tmp/b.jpg"); evicted != "/tmp/a.jpg" {
		t.Fatalf("replace evicted %q, want /tmp/a.jpg", evicted)
	}
	if evicted := d.RemoveMainImage(); evicted != "/tmp/b.jpg" {
		t.Fatalf("remove evicted %q, want /tmp/b.jpg", evicted)
	}
	// The slot is empty now; nothing left to evict.
	if evicted := d.RemoveMainImage(); evicted != "" {
		t.Fatalf("second remove evicted %q again", evicted)
	}
}

func TestRestagingSamePathDoesNotSelfEvict(t *testing.T) {
	d := NewDraft()
	d.SetMainImageFile("/tmp/a.jpg")
	if evicted := d.SetMainImageFile("/tmp/a.jpg"); evicted != "" {
		t.Fatalf("staging the same path evicted it: %q", evicted)
	}
	if d.MainImage.FilePath != "/tmp/a.jpg" {
		t.Fatalf("staged path lost: %q", d.MainImage.FilePath)
	}
}

func TestGalleryRemoveReturnsStagedFile(t *testing.T) {
	d := NewDraft()
	d.AddGalleryURL("https://cdn.example.com/1.jpg")
	d.AddGalleryFile("/tmp/g.jpg")

	if evicted := d.RemoveGalleryItem(5); evicted != "" {
		t.Fatalf("out-of-range remove evicted %q", evicted)
	}
	if evicted := d.RemoveGalleryItem(0); evicted != "" {
		t.Fatalf("URL slot evicted a file: %q", evicted)
	}
	if evicted := d.RemoveGalleryItem(0); evicted != "/tmp/g.jpg" {
		t.Fatalf("file slot evicted %q, want /tmp/g.jpg", evicted)
	}
	if len(d.Gallery) != 0 {
		t.Fatalf("gallery not empty: %d slots", len(d.Gallery))
	}
}

func TestSubmitLock(t *testing.T) {
	d := NewDraft()
	if !d.BeginSubmit() {
		t.Fatal("first BeginSubmit rejected")
	}
	if d.BeginSubmit() {
		t.Fatal("second BeginSubmit accepted while in flight")
	}
	d.EndSubmit()
	if !d.BeginSubmit() {
		t.Fatal("BeginSubmit rejected after EndSubmit")
	}
}

// The lock only works across requests if the stored draft record carries it.
// Each request loads its own copy from storage, so a copy decoded from a
// locked draft must refuse to submit, and one decoded after release must not.
func TestSubmitLockSurvivesStorageRoundTrip(t *testing.T) {
	d := NewDraft()
	if !d.BeginSubmit() {
		t.Fatal("first BeginSubmit rejected")
	}

	stored, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var concurrent Draft
	if err := json.Unmarshal(stored, &concurrent); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if concurrent.BeginSubmit() {
		t.Fatal("copy loaded from a locked draft acquired the lock")
	}

	d.EndSubmit()
	stored, err = json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var later Draft
	if err := json.Unmarshal(stored, &later); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !later.BeginSubmit() {
		t.Fatal("copy loaded after release still holds the lock")
	}
}

func TestListEditsAreIndexAddressed(t *testing.T) {
	d := NewDraft()
	d.AddInclude()
	d.AddInclude()
	d.AddInclude()
	d.SetInclude(0, "Traslados")
	d.SetInclude(1, "Desayuno")
	d.SetInclude(2, "Guía")

	// Out-of-range edits are ignored, not grown.
	d.SetInclude(9, "fantasma")
	d.RemoveInclude(9)
	if len(d.Includes) != 3 {
		t.Fatalf("expected 3 includes, got %d", len(d.Includes))
	}

	d.RemoveInclude(1)
	if len(d.Includes) != 2 || d.Includes[0] != "Traslados" || d.Includes[1] != "Guía" {
		t.Fatalf("remove broke order: %v", d.Includes)
	}
}

func TestToggleActivityType(t *testing.T) {
	d := NewDraft()
	d.ToggleActivityType("trekking")
	d.ToggleActivityType("playa")
	d.ToggleActivityType("trekking")
	if len(d.ActivityType) != 1 || d.ActivityType[0] != "playa" {
		t.Fatalf("unexpected activity types: %v", d.ActivityType)
	}
}

func TestPayloadFiltersEmptiesAndSplitsDetails(t *testing.T) {
	d := NewDraft()
	d.Title = "  Ruta Austral  "
	d.Type = "national"
	d.Location = "Aysén"
	d.PriceText = "1250000"
	d.Includes = []string{"Traslados", "   ", "", "Guía"}
	d.AddItinerary()
	d.SetItinerary(0, "Día 1", "Llegada", "Recepción en aeropuerto\n\n  Traslado al hotel  \n")
	d.AddItinerary() // stays empty, dropped at submit
	d.Faqs = []models.Faq{{Question: "¿Qué llevar?", Answer: "Abrigo"}, {}}
	d.AddGalleryURL("https://cdn.example.com/1.jpg")
	d.AddGalleryFile("/tmp/g.jpg")
	d.SetMainImageURL("https://cdn.example.com/main.jpg")

	p := d.Payload()

	if p.Title != "Ruta Austral" {
		t.Errorf("title not trimmed: %q", p.Title)
	}
	if p.Price != 1250000 {
		t.Errorf("price = %v", p.Price)
	}
	if len(p.Includes) != 2 {
		t.Errorf("empty includes not filtered: %v", p.Includes)
	}
	if len(p.Itineraries) != 1 {
		t.Fatalf("empty itinerary not dropped: %d", len(p.Itineraries))
	}
	if len(p.Itineraries[0].Details) != 2 || p.Itineraries[0].Details[1] != "Traslado al hotel" {
		t.Errorf("details not split/trimmed: %v", p.Itineraries[0].Details)
	}
	if len(p.Faqs) != 1 {
		t.Errorf("empty faq not dropped: %v", p.Faqs)
	}
	if len(p.GalleryPaths) != 1 || len(p.GalleryURLs) != 1 {
		t.Errorf("gallery slots misrouted: paths=%v urls=%v", p.GalleryPaths, p.GalleryURLs)
	}
	if p.MainImageURL != "https://cdn.example.com/main.jpg" || p.MainImagePath != "" {
		t.Errorf("main image slot wrong: path=%q url=%q", p.MainImagePath, p.MainImageURL)
	}
}

func TestPayloadFileWinsOverURL(t *testing.T) {
	d := NewDraft()
	d.SetMainImageURL("https://cdn.example.com/main.jpg")
	d.SetMainImageFile("/tmp/main.jpg")

	p := d.Payload()
	if p.MainImagePath != "/tmp/main.jpg" {
		t.Fatalf("staged file lost: %q", p.MainImagePath)
	}
	if p.MainImageURL != "" {
		t.Fatalf("URL sent alongside file: %q", p.MainImageURL)
	}
}

func TestFromDestinationSeedsEditDraft(t *testing.T) {
	dest := &models.Destination{
		ID:       7,
		Title:    "Tokio Clásico",
		Slug:     "tokio-clasico",
		Price:    2890000,
		Type:     "international",
		Location: "Tokio, Japón",
		ImageSrc: "https://cdn.example.com/tokio.jpg",
		Itineraries: []models.ItineraryItem{
			{Day: "Día 1", Title: "Llegada", Details: []string{"Check-in", "Cena libre"}},
		},
		GalleryImages: []models.GalleryImage{{URL: "https://cdn.example.com/g1.jpg"}},
	}

	d := FromDestination(dest)
	if !d.IsEditing() || d.EditID != 7 {
		t.Fatalf("edit id not set: %d", d.EditID)
	}
	if d.PriceText != "2890000" {
		t.Errorf("price text = %q", d.PriceText)
	}
	if d.MainImage.URL != dest.ImageSrc {
		t.Errorf("main image not seeded: %q", d.MainImage.URL)
	}
	if len(d.Itinerary) != 1 || d.Itinerary[0].DetailsText != "Check-in\nCena libre" {
		t.Errorf("itinerary details not joined: %+v", d.Itinerary)
	}
	if len(d.Gallery) != 1 || d.Gallery[0].URL != "https://cdn.example.com/g1.jpg" {
		t.Errorf("gallery not seeded: %+v", d.Gallery)
	}
}
