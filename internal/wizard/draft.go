// Package wizard holds the working copy behind the three-step admin
// destination form. The draft lives in Redis between step posts; all list
// edits are index-addressed and keep insertion order. Validation runs only
// at final submit, never on step navigation.
package wizard

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/fMoyano90/universonomada-web/internal/api"
	"github.com/fMoyano90/universonomada-web/internal/models"
)

const (
	StepBasic    = 1
	StepContent  = 2
	StepAdvanced = 3
)

// ImageSlot holds either a staged file or an external URL. A staged file
// always wins over a URL for the same slot.
type ImageSlot struct {
	FilePath string `json:"filePath"`
	URL      string `json:"url"`
}

// ItineraryDraft keeps the detail lines as one newline-delimited text blob,
// the way the textarea edits them; they are split only at submit.
type ItineraryDraft struct {
	Day         string `json:"day"`
	Title       string `json:"title"`
	DetailsText string `json:"detailsText"`
}

type Draft struct {
	ID     string `json:"id"`
	EditID int    `json:"editId"` // 0 when creating
	Step   int    `json:"step"`

	Title         string   `json:"title"`
	Slug          string   `json:"slug"`
	Duration      string   `json:"duration"`
	ActivityLevel string   `json:"activityLevel"`
	ActivityType  []string `json:"activityType"`
	GroupSize     string   `json:"groupSize"`
	Description   string   `json:"description"`
	PriceText     string   `json:"priceText"`
	Location      string   `json:"location"`
	Type          string   `json:"type"`
	IsRecommended bool     `json:"isRecommended"`
	IsSpecial     bool     `json:"isSpecial"`

	Itinerary []ItineraryDraft `json:"itinerary"`
	Includes  []string         `json:"includes"`
	Excludes  []string         `json:"excludes"`
	Tips      []string         `json:"tips"`
	Faqs      []models.Faq     `json:"faqs"`

	MainImage ImageSlot   `json:"mainImage"`
	Gallery   []ImageSlot `json:"gallery"`

	// Submitting is the submit lock; a draft mid-submission rejects a
	// second submit until the first one resolves.
	Submitting bool `json:"submitting"`
}

func NewDraft() *Draft {
	return &Draft{
		ID:   uuid.New().String(),
		Step: StepBasic,
	}
}

// FromDestination seeds a draft for editing an existing destination.
func FromDestination(d *models.Destination) *Draft {
	draft := NewDraft()
	draft.EditID = d.ID
	draft.Title = d.Title
	draft.Slug = d.Slug
	draft.Duration = d.Duration
	draft.ActivityLevel = d.ActivityLevel
	draft.ActivityType = append([]string(nil), d.ActivityType...)
	draft.GroupSize = d.GroupSize
	draft.Description = d.Description
	draft.PriceText = strconv.FormatFloat(d.Price, 'f', -1, 64)
	draft.Location = d.Location
	draft.Type = d.Type
	draft.IsRecommended = d.IsRecommended
	draft.IsSpecial = d.IsSpecial
	draft.MainImage = ImageSlot{URL: d.ImageSrc}

	for _, it := range d.Itineraries {
		draft.Itinerary = append(draft.Itinerary, ItineraryDraft{
			Day:         it.Day,
			Title:       it.Title,
			DetailsText: strings.Join(it.Details, "\n"),
		})
	}
	draft.Includes = append([]string(nil), d.Includes...)
	draft.Excludes = append([]string(nil), d.Excludes...)
	draft.Tips = append([]string(nil), d.Tips...)
	draft.Faqs = append([]models.Faq(nil), d.Faqs...)
	for _, g := range d.GalleryImages {
		draft.Gallery = append(draft.Gallery, ImageSlot{URL: g.URL})
	}
	return draft
}

func (d *Draft) IsEditing() bool { return d.EditID != 0 }

// NextStep and PrevStep never validate the step being left; they only
// clamp within the fixed three steps.
func (d *Draft) NextStep() {
	if d.Step < StepAdvanced {
		d.Step++
	}
}

func (d *Draft) PrevStep() {
	if d.Step > StepBasic {
		d.Step--
	}
}

// ToggleActivityType flips membership in the checkbox group.
func (d *Draft) ToggleActivityType(value string) {
	for i, v := range d.ActivityType {
		if v == value {
			d.ActivityType = append(d.ActivityType[:i], d.ActivityType[i+1:]...)
			return
		}
	}
	d.ActivityType = append(d.ActivityType, value)
}

// Simple string lists: index-addressed replace, append empty, remove by index.

func (d *Draft) AddInclude() { d.Includes = append(d.Includes, "") }
func (d *Draft) AddExclude() { d.Excludes = append(d.Excludes, "") }
func (d *Draft) AddTip()     { d.Tips = append(d.Tips, "") }

func (d *Draft) SetInclude(i int, v string) { setItem(d.Includes, i, v) }
func (d *Draft) SetExclude(i int, v string) { setItem(d.Excludes, i, v) }
func (d *Draft) SetTip(i int, v string)     { setItem(d.Tips, i, v) }

func (d *Draft) RemoveInclude(i int) { d.Includes = removeAt(d.Includes, i) }
func (d *Draft) RemoveExclude(i int) { d.Excludes = removeAt(d.Excludes, i) }
func (d *Draft) RemoveTip(i int)     { d.Tips = removeAt(d.Tips, i) }

func (d *Draft) AddItinerary() {
	d.Itinerary = append(d.Itinerary, ItineraryDraft{})
}

func (d *Draft) SetItinerary(i int, day, title, detailsText string) {
	if i < 0 || i >= len(d.Itinerary) {
		return
	}
	d.Itinerary[i] = ItineraryDraft{Day: day, Title: title, DetailsText: detailsText}
}

func (d *Draft) RemoveItinerary(i int) {
	if i < 0 || i >= len(d.Itinerary) {
		return
	}
	d.Itinerary = append(d.Itinerary[:i], d.Itinerary[i+1:]...)
}

func (d *Draft) AddFaq() {
	d.Faqs = append(d.Faqs, models.Faq{})
}

func (d *Draft) SetFaq(i int, question, answer string) {
	if i < 0 || i >= len(d.Faqs) {
		return
	}
	d.Faqs[i] = models.Faq{Question: question, Answer: answer}
}

func (d *Draft) RemoveFaq(i int) {
	if i < 0 || i >= len(d.Faqs) {
		return
	}
	d.Faqs = append(d.Faqs[:i], d.Faqs[i+1:]...)
}

func setItem(list []string, i int, v string) {
	if i >= 0 && i < len(list) {
		list[i] = v
	}
}

func removeAt(list []string, i int) []string {
	if i < 0 || i >= len(list) {
		return list
	}
	return append(list[:i], list[i+1:]...)
}

// SetMainImageFile stages a new main image file. The previously staged file,
// if any, is evicted exactly once; the returned path must be removed from
// disk by the caller.
func (d *Draft) SetMainImageFile(path string) (evicted string) {
	evicted = d.MainImage.FilePath
	if evicted == path {
		evicted = ""
	}
	d.MainImage.FilePath = path
	return evicted
}

// SetMainImageURL sets the URL slot. A staged file, when present, still
// takes precedence at submit.
func (d *Draft) SetMainImageURL(u string) {
	d.MainImage.URL = u
}

// RemoveMainImage clears both slots and returns the staged file to delete.
func (d *Draft) RemoveMainImage() (evicted string) {
	evicted = d.MainImage.FilePath
	d.MainImage = ImageSlot{}
	return evicted
}

func (d *Draft) AddGalleryFile(path string) {
	d.Gallery = append(d.Gallery, ImageSlot{FilePath: path})
}

func (d *Draft) AddGalleryURL(u string) {
	d.Gallery = append(d.Gallery, ImageSlot{URL: u})
}

// RemoveGalleryItem drops a slot and returns its staged file, if any,
// for deletion.
func (d *Draft) RemoveGalleryItem(i int) (evicted string) {
	if i < 0 || i >= len(d.Gallery) {
		return ""
	}
	evicted = d.Gallery[i].FilePath
	d.Gallery = append(d.Gallery[:i], d.Gallery[i+1:]...)
	return evicted
}

// BeginSubmit takes the submit lock. It returns false when a submission is
// already in flight.
func (d *Draft) BeginSubmit() bool {
	if d.Submitting {
		return false
	}
	d.Submitting = true
	return true
}

// EndSubmit releases the lock so a rejected submission can be retried.
func (d *Draft) EndSubmit() {
	d.Submitting = false
}

// Validate runs only at final submit. Required: title, type, location, and a
// main image (either a staged file or a valid absolute URL). A malformed URL
// is a hard rejection, not a silent fallback.
func (d *Draft) Validate() map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(d.Title) == "" {
		errs["title"] = "El título es obligatorio"
	}
	if strings.TrimSpace(d.Type) == "" {
		errs["type"] = "El tipo de destino es obligatorio"
	}
	if strings.TrimSpace(d.Location) == "" {
		errs["location"] = "La ubicación es obligatoria"
	}
	if d.MainImage.FilePath == "" && !isAbsoluteURL(d.MainImage.URL) {
		errs["mainImage"] = "Debe proporcionar una imagen principal (archivo o URL válida)"
	}
	return errs
}

func isAbsoluteURL(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}
	u, err := url.Parse(raw)
	return err == nil && u.IsAbs() && u.Host != ""
}

// Payload assembles the wire payload. Empty list entries survive editing but
// are filtered here, at submission time.
func (d *Draft) Payload() *api.DestinationPayload {
	price, _ := strconv.ParseFloat(strings.TrimSpace(d.PriceText), 64)

	p := &api.DestinationPayload{
		Title:         strings.TrimSpace(d.Title),
		Slug:          strings.TrimSpace(d.Slug),
		Duration:      d.Duration,
		ActivityLevel: d.ActivityLevel,
		ActivityType:  append([]string(nil), d.ActivityType...),
		GroupSize:     d.GroupSize,
		Description:   d.Description,
		Includes:      filterEmpty(d.Includes),
		Excludes:      filterEmpty(d.Excludes),
		Tips:          filterEmpty(d.Tips),
		Price:         price,
		Location:      strings.TrimSpace(d.Location),
		IsRecommended: d.IsRecommended,
		IsSpecial:     d.IsSpecial,
		Type:          d.Type,
		MainImagePath: d.MainImage.FilePath,
	}
	if p.MainImagePath == "" {
		p.MainImageURL = strings.TrimSpace(d.MainImage.URL)
	}

	for _, it := range d.Itinerary {
		if strings.TrimSpace(it.Day) == "" && strings.TrimSpace(it.Title) == "" && strings.TrimSpace(it.DetailsText) == "" {
			continue
		}
		p.Itineraries = append(p.Itineraries, models.ItineraryItem{
			Day:     strings.TrimSpace(it.Day),
			Title:   strings.TrimSpace(it.Title),
			Details: splitDetails(it.DetailsText),
		})
	}
	for _, faq := range d.Faqs {
		if strings.TrimSpace(faq.Question) == "" && strings.TrimSpace(faq.Answer) == "" {
			continue
		}
		p.Faqs = append(p.Faqs, faq)
	}
	for _, slot := range d.Gallery {
		if slot.FilePath != "" {
			p.GalleryPaths = append(p.GalleryPaths, slot.FilePath)
		} else if strings.TrimSpace(slot.URL) != "" {
			p.GalleryURLs = append(p.GalleryURLs, strings.TrimSpace(slot.URL))
		}
	}
	return p
}

func filterEmpty(list []string) []string {
	var out []string
	for _, v := range list {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

// splitDetails turns the newline-delimited textarea into ordered detail
// lines, dropping blanks.
func splitDetails(text string) []string {
	var details []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			details = append(details, line)
		}
	}
	return details
}
