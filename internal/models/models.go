package models

import (
	"time"
)

// Destination types as the API reports them.
const (
	DestinationNational      = "national"
	DestinationInternational = "international"
	DestinationSpecial       = "special"
)

type ItineraryItem struct {
	Day     string   `json:"day"`
	Title   string   `json:"title"`
	Details []string `json:"details"`
}

type Faq struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type GalleryImage struct {
	URL string `json:"imageUrl"`
	Alt string `json:"alt,omitempty"`
}

type Destination struct {
	ID            int             `json:"id"`
	Title         string          `json:"title"`
	Slug          string          `json:"slug"`
	ImageSrc      string          `json:"imageSrc"`
	Duration      string          `json:"duration"` // e.g. "5 días / 4 noches"
	ActivityLevel string          `json:"activityLevel"`
	ActivityType  []string        `json:"activityType"`
	GroupSize     string          `json:"groupSize"`
	Description   string          `json:"description"`
	Itineraries   []ItineraryItem `json:"itineraries"`
	Includes      []string        `json:"includes"`
	Excludes      []string        `json:"excludes"`
	Tips          []string        `json:"tips"`
	Faqs          []Faq           `json:"faqs"`
	GalleryImages []GalleryImage  `json:"galleryImages"`
	Price         float64         `json:"price"`
	Location      string          `json:"location"`
	IsRecommended bool            `json:"isRecommended"`
	IsSpecial     bool            `json:"isSpecial"`
	Type          string          `json:"type"` // national, international, special
	CreatedAt     time.Time       `json:"createdAt"`
}

// Slider display order determines the hero carousel sequence;
// ties fall back to API insertion order.
type Slider struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle"`
	Location   string `json:"location"`
	ImageURL   string `json:"imageUrl"`
	ButtonText string `json:"buttonText,omitempty"`
	ButtonURL  string `json:"buttonUrl,omitempty"`
	IsActive   bool   `json:"isActive"`
	SortOrder  int    `json:"displayOrder"`
}

type Testimonial struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Rating   int    `json:"rating"` // integer 1-5
	Text     string `json:"content"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Booking statuses shared by quotes and bookings. Allowed transitions
// depend on the booking type, see internal/booking.
const (
	StatusPending         = "pending"
	StatusInReview        = "in_review"
	StatusSent            = "sent"
	StatusInContact       = "in_contact"
	StatusApproved        = "approved"
	StatusApprovedAndPaid = "approved_and_paid"
	StatusCompleted       = "completed"
	StatusRejected        = "rejected"
	StatusCancelled       = "cancelled"
)

const (
	BookingTypeQuote   = "quote"
	BookingTypeBooking = "booking"
)

type Booking struct {
	ID                 int       `json:"id"`
	DestinationID      int       `json:"destinationId"`
	DestinationTitle   string    `json:"destinationTitle,omitempty"`
	StartDate          string    `json:"startDate,omitempty"` // empty when dates are flexible
	EndDate            string    `json:"endDate,omitempty"`
	Adults             int       `json:"adults"`
	Children           int       `json:"children"`
	Infants            int       `json:"infants"`
	Seniors            int       `json:"seniors"`
	NeedsAccommodation bool      `json:"needsAccommodation"`
	SpecialRequests    string    `json:"specialRequests"`
	ContactName        string    `json:"contactName"`
	ContactEmail       string    `json:"contactEmail"`
	ContactPhone       string    `json:"contactPhone"`
	Status             string    `json:"status"`
	BookingType        string    `json:"bookingType"` // quote or booking
	CreatedAt          time.Time `json:"createdAt"`
}

type Subscription struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type User struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"` // must be "admin" to reach the back-office
}

// Session is the record kept in Redis for a logged-in admin:
// the token pair and the user, cleared together on logout.
type Session struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         User   `json:"user"`
}
