package model

import "time"

// Workshop is the reusable template for a class of workshop. It is managed in
// the CMS and never written by this service.
type Workshop struct {
	ID               string    `json:"_id"`
	Title            string    `json:"title"`
	Slug             Slug      `json:"slug"`
	Description      string    `json:"description,omitempty"`
	ShortDescription string    `json:"shortDescription,omitempty"`
	MainImage        *Image    `json:"mainImage,omitempty"`
	Images           []Image   `json:"images,omitempty"`
	DefaultPrice     *float64  `json:"defaultPrice,omitempty"`
	CreatedAt        time.Time `json:"_createdAt"`
	UpdatedAt        time.Time `json:"_updatedAt"`
}

// WorkshopSession is one scheduled date of a Workshop, the actual bookable unit.
type WorkshopSession struct {
	ID              string    `json:"_id"`
	WorkshopRef     Reference `json:"workshop"`
	Date            string    `json:"date"`
	Time            string    `json:"time,omitempty"`
	Location        string    `json:"location"`
	Price           *float64  `json:"price,omitempty"`
	MaxParticipants *int      `json:"maxParticipants,omitempty"`
	IsFull          bool      `json:"isFull"`
	CreatedAt       time.Time `json:"_createdAt"`
	UpdatedAt       time.Time `json:"_updatedAt"`
}

// Subscription is one participant's registration for a WorkshopSession.
// Created once by the admission flow, never mutated here afterwards.
type Subscription struct {
	ID               string    `json:"_id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	ParticipantCount *int      `json:"participantCount,omitempty"`
	Remarks          string    `json:"remarks,omitempty"`
	SessionRef       Reference `json:"workshopSession"`
	CreatedAt        time.Time `json:"_createdAt"`
}

type Event struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Date        string    `json:"date"`
	Location    string    `json:"location"`
	Image       *Image    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"_createdAt"`
	UpdatedAt   time.Time `json:"_updatedAt"`
}

type GalleryImage struct {
	ID        string    `json:"_id"`
	Alt       string    `json:"alt,omitempty"`
	Image     *Image    `json:"image,omitempty"`
	CreatedAt time.Time `json:"_createdAt"`
	UpdatedAt time.Time `json:"_updatedAt"`
}

type NewsletterSubscriber struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"_createdAt"`
}

type ContactMessage struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"_createdAt"`
}

type SiteSettings struct {
	ContactInfo ContactInfo  `json:"contactInfo"`
	SocialLinks []SocialLink `json:"socialLinks"`
}

type ContactInfo struct {
	Email string  `json:"email"`
	Phone *string `json:"phone"`
}

type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Label    string `json:"label,omitempty"`
}

// Reference points at another document in the store.
type Reference struct {
	Ref string `json:"_ref"`
}

// Slug mirrors the store's slug object shape.
type Slug struct {
	Current string `json:"current"`
}

// Image is a stored image field; Asset carries the CDN asset reference.
type Image struct {
	Asset *Asset `json:"asset,omitempty"`
	Alt   string `json:"alt,omitempty"`
}

type Asset struct {
	Ref string `json:"_ref,omitempty"`
	URL string `json:"url,omitempty"`
}
