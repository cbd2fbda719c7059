package dto

import (
	"encoding/json"
	"time"

	"github.com/wb-go/wbf/ginext"
)

const (
	FieldBadFormat     = "FIELD_BADFORMAT"
	FieldIncorrect     = "FIELD_INCORRECT"
	ServiceUnavailable = "SERVICE_UNAVAILABLE"
	InternalError      = "Service is currently unavailable. Please try again later."

	ValidationFailed      = "VALIDATION_ERROR"
	VerificationFailed    = "CAPTCHA_FAILED"
	SubscriptionDuplicate = "SUBSCRIPTION_DUPLICATE"
	SessionNotFound       = "SESSION_NOT_FOUND"
	SessionFull           = "SESSION_FULL"
	WorkshopNotFound      = "WORKSHOP_NOT_FOUND"
	NewsletterDuplicate   = "NEWSLETTER_DUPLICATE"
)

// SubscribeRequest is the workshop subscription form payload. ParticipantCount
// is kept raw: the form may send a number, a numeric string, junk or nothing,
// and anything that is not an integer in range is dropped rather than rejected.
type SubscribeRequest struct {
	Name             string          `json:"name"`
	Email            string          `json:"email"`
	Phone            string          `json:"phone"`
	SessionID        string          `json:"sessionId"`
	ParticipantCount json.RawMessage `json:"participantCount,omitempty"`
	Remarks          string          `json:"remarks,omitempty"`
	Token            string          `json:"token,omitempty"`
}

type SubscribeResponse struct {
	ID string `json:"id"`
}

type NewsletterSubscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name,omitempty"`
	Token string `json:"token,omitempty"`
}

type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
	Token   string `json:"token,omitempty"`
}

// SessionResponse is a WorkshopSession together with its freshly computed
// participant status.
type SessionResponse struct {
	ID                  string    `json:"_id"`
	Date                string    `json:"date"`
	Time                string    `json:"time,omitempty"`
	Location            string    `json:"location"`
	Price               *float64  `json:"price,omitempty"`
	MaxParticipants     *int      `json:"maxParticipants,omitempty"`
	CurrentParticipants int       `json:"currentParticipants"`
	IsFull              bool      `json:"isFull"`
	CreatedAt           time.Time `json:"_createdAt"`
	UpdatedAt           time.Time `json:"_updatedAt"`
}

type WorkshopResponse struct {
	ID               string            `json:"_id"`
	Title            string            `json:"title"`
	Slug             string            `json:"slug"`
	Description      string            `json:"description,omitempty"`
	ShortDescription string            `json:"shortDescription,omitempty"`
	DefaultPrice     *float64          `json:"defaultPrice,omitempty"`
	MainImageURL     string            `json:"mainImageUrl,omitempty"`
	ImageURLs        []ImageResponse   `json:"imageUrls,omitempty"`
	Sessions         []SessionResponse `json:"sessions"`
	CreatedAt        time.Time         `json:"_createdAt"`
	UpdatedAt        time.Time         `json:"_updatedAt"`
}

type ImageResponse struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

type GalleryItemResponse struct {
	ID        string    `json:"_id"`
	Alt       string    `json:"alt,omitempty"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"_createdAt"`
}

// Notification kinds; each selects an e-mail template in the consumer worker.
const (
	NotifyWorkshopSubscription   = "workshop_subscription"
	NotifyNewsletterSubscription = "newsletter_subscription"
	NotifyContactMessage         = "contact_message"
)

// NotificationMessage is the payload published to the notification queue after
// a successful form intake.
type NotificationMessage struct {
	ID               string `json:"id"`
	Kind             string `json:"kind"`
	Name             string `json:"name,omitempty"`
	Email            string `json:"email,omitempty"`
	Phone            string `json:"phone,omitempty"`
	ParticipantCount *int   `json:"participantCount,omitempty"`
	Remarks          string `json:"remarks,omitempty"`
	WorkshopTitle    string `json:"workshopTitle,omitempty"`
	SessionDate      string `json:"sessionDate,omitempty"`
	SessionTime      string `json:"sessionTime,omitempty"`
	SessionLocation  string `json:"sessionLocation,omitempty"`
	Message          string `json:"message,omitempty"`
}

type Response struct {
	Status string `json:"status"`
	Error  *Error `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

type Error struct {
	Code string `json:"code"`
	Desc string `json:"desc"`
}

func BadResponseError(c *ginext.Context, code, desc string) {
	c.JSON(400, Response{
		Status: "error",
		Error: &Error{
			Code: code,
			Desc: desc,
		},
	})
}

func NotFoundResponseError(c *ginext.Context, code, desc string) {
	c.JSON(404, Response{
		Status: "error",
		Error: &Error{
			Code: code,
			Desc: desc,
		},
	})
}

func InternalServerError(c *ginext.Context) {
	c.JSON(500, Response{
		Status: "error",
		Error: &Error{
			Code: ServiceUnavailable,
			Desc: InternalError,
		},
	})
}

func FieldIncorrectError(c *ginext.Context, fieldName string) {
	BadResponseError(c, FieldIncorrect, "Field '"+fieldName+"' is incorrect")
}

func SuccessResponse(c *ginext.Context, data any) {
	c.JSON(200, Response{
		Status: "ok",
		Data:   data,
	})
}

func SuccessCreatedResponse(c *ginext.Context, data any) {
	c.JSON(201, Response{
		Status: "ok",
		Data:   data,
	})
}
