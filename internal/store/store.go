package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lennartdeknikker/jaco-line/internal/model"
)

var ErrNotFound = errors.New("document not found")

// Store is the document-store boundary the rest of the service depends on.
// Every method is a single round trip; nothing here spans a transaction.
type Store interface {
	GetSessionByID(ctx context.Context, id string) (*model.WorkshopSession, error)
	FindSubscription(ctx context.Context, email, sessionID string) (*model.Subscription, error)
	CountSubscriptions(ctx context.Context, sessionID string) (int, error)
	CreateSubscription(ctx context.Context, sub *model.Subscription) (string, error)

	ListWorkshops(ctx context.Context) ([]model.Workshop, error)
	GetWorkshopByID(ctx context.Context, id string) (*model.Workshop, error)
	GetWorkshopBySlug(ctx context.Context, slug string) (*model.Workshop, error)
	ListUpcomingSessions(ctx context.Context, workshopID, fromDate string) ([]model.WorkshopSession, error)

	ListEvents(ctx context.Context, limit int) ([]model.Event, error)
	ListGallery(ctx context.Context, limit int) ([]model.GalleryImage, error)
	GetSiteSettings(ctx context.Context) (*model.SiteSettings, error)

	FindNewsletterSubscriber(ctx context.Context, email string) (*model.NewsletterSubscriber, error)
	CreateNewsletterSubscriber(ctx context.Context, sub *model.NewsletterSubscriber) (string, error)
	CreateContactMessage(ctx context.Context, msg *model.ContactMessage) (string, error)

	ImageURL(img *model.Image, width int) string
}

type documentStore struct {
	client *Client
	log    *zerolog.Logger
}

func NewStore(client *Client, log *zerolog.Logger) (Store, error) {
	if client == nil {
		return nil, fmt.Errorf("store client cannot be nil")
	}
	return &documentStore{client: client, log: log}, nil
}

func (s *documentStore) GetSessionByID(ctx context.Context, id string) (*model.WorkshopSession, error) {
	query := `*[_type == "workshopSession" && _id == $id][0]`

	var session model.WorkshopSession
	if err := s.client.Query(ctx, query, map[string]any{"id": id}, &session); err != nil {
		return nil, fmt.Errorf("get workshop session: %w", err)
	}
	if session.ID == "" {
		return nil, ErrNotFound
	}
	return &session, nil
}

func (s *documentStore) FindSubscription(ctx context.Context, email, sessionID string) (*model.Subscription, error) {
	query := `*[_type == "workshopSubscription" && workshopSession._ref == $sessionId && email == $email][0]`

	var sub model.Subscription
	params := map[string]any{"sessionId": sessionID, "email": email}
	if err := s.client.Query(ctx, query, params, &sub); err != nil {
		return nil, fmt.Errorf("find subscription: %w", err)
	}
	if sub.ID == "" {
		return nil, ErrNotFound
	}
	return &sub, nil
}

func (s *documentStore) CountSubscriptions(ctx context.Context, sessionID string) (int, error) {
	query := `count(*[_type == "workshopSubscription" && workshopSession._ref == $sessionId])`

	n, err := s.client.Count(ctx, query, map[string]any{"sessionId": sessionID})
	if err != nil {
		return 0, fmt.Errorf("count subscriptions: %w", err)
	}
	return n, nil
}

func (s *documentStore) CreateSubscription(ctx context.Context, sub *model.Subscription) (string, error) {
	doc := map[string]any{
		"_type": "workshopSubscription",
		"_id":   uuid.NewString(),
		"name":  sub.Name,
		"email": sub.Email,
		"phone": sub.Phone,
		"workshopSession": map[string]any{
			"_type": "reference",
			"_ref":  sub.SessionRef.Ref,
		},
	}
	if sub.ParticipantCount != nil {
		doc["participantCount"] = *sub.ParticipantCount
	}
	if sub.Remarks != "" {
		doc["remarks"] = sub.Remarks
	}

	id, err := s.client.Create(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("create subscription: %w", err)
	}
	return id, nil
}

func (s *documentStore) ListWorkshops(ctx context.Context) ([]model.Workshop, error) {
	query := `*[_type == "workshop"] | order(title asc)`

	var workshops []model.Workshop
	if err := s.client.Query(ctx, query, nil, &workshops); err != nil {
		return nil, fmt.Errorf("list workshops: %w", err)
	}
	return workshops, nil
}

func (s *documentStore) GetWorkshopByID(ctx context.Context, id string) (*model.Workshop, error) {
	query := `*[_type == "workshop" && _id == $id][0]`

	var workshop model.Workshop
	if err := s.client.Query(ctx, query, map[string]any{"id": id}, &workshop); err != nil {
		return nil, fmt.Errorf("get workshop: %w", err)
	}
	if workshop.ID == "" {
		return nil, ErrNotFound
	}
	return &workshop, nil
}

func (s *documentStore) GetWorkshopBySlug(ctx context.Context, slug string) (*model.Workshop, error) {
	query := `*[_type == "workshop" && slug.current == $slug][0]`

	var workshop model.Workshop
	if err := s.client.Query(ctx, query, map[string]any{"slug": slug}, &workshop); err != nil {
		return nil, fmt.Errorf("get workshop by slug: %w", err)
	}
	if workshop.ID == "" {
		return nil, ErrNotFound
	}
	return &workshop, nil
}

func (s *documentStore) ListUpcomingSessions(ctx context.Context, workshopID, fromDate string) ([]model.WorkshopSession, error) {
	query := `*[_type == "workshopSession" && workshop._ref == $workshopId && date >= $from] | order(date asc)`

	var sessions []model.WorkshopSession
	params := map[string]any{"workshopId": workshopID, "from": fromDate}
	if err := s.client.Query(ctx, query, params, &sessions); err != nil {
		return nil, fmt.Errorf("list upcoming sessions: %w", err)
	}
	return sessions, nil
}

func (s *documentStore) ListEvents(ctx context.Context, limit int) ([]model.Event, error) {
	query := `*[_type == "event"] | order(date asc)`
	if limit > 0 {
		query += fmt.Sprintf("[0...%d]", limit)
	}

	var events []model.Event
	if err := s.client.Query(ctx, query, nil, &events); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *documentStore) ListGallery(ctx context.Context, limit int) ([]model.GalleryImage, error) {
	query := `*[_type == "gallery"] | order(_createdAt desc)`
	if limit > 0 {
		query += fmt.Sprintf("[0...%d]", limit)
	}
	query += ` { _id, alt, image { asset-> { _id, url } }, _createdAt, _updatedAt }`

	var gallery []model.GalleryImage
	if err := s.client.Query(ctx, query, nil, &gallery); err != nil {
		return nil, fmt.Errorf("list gallery: %w", err)
	}
	return gallery, nil
}

func (s *documentStore) GetSiteSettings(ctx context.Context) (*model.SiteSettings, error) {
	query := `*[_type == "siteSettings"][0]`

	var settings model.SiteSettings
	if err := s.client.Query(ctx, query, nil, &settings); err != nil {
		return nil, fmt.Errorf("get site settings: %w", err)
	}
	cleanSettings(&settings)
	return &settings, nil
}

func (s *documentStore) FindNewsletterSubscriber(ctx context.Context, email string) (*model.NewsletterSubscriber, error) {
	query := `*[_type == "newsletterSubscriber" && email == $email][0]`

	var sub model.NewsletterSubscriber
	if err := s.client.Query(ctx, query, map[string]any{"email": email}, &sub); err != nil {
		return nil, fmt.Errorf("find newsletter subscriber: %w", err)
	}
	if sub.ID == "" {
		return nil, ErrNotFound
	}
	return &sub, nil
}

func (s *documentStore) CreateNewsletterSubscriber(ctx context.Context, sub *model.NewsletterSubscriber) (string, error) {
	doc := map[string]any{
		"_type": "newsletterSubscriber",
		"_id":   uuid.NewString(),
		"email": sub.Email,
	}
	if sub.Name != "" {
		doc["name"] = sub.Name
	}

	id, err := s.client.Create(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("create newsletter subscriber: %w", err)
	}
	return id, nil
}

func (s *documentStore) CreateContactMessage(ctx context.Context, msg *model.ContactMessage) (string, error) {
	doc := map[string]any{
		"_type":   "contactMessage",
		"_id":     uuid.NewString(),
		"name":    msg.Name,
		"email":   msg.Email,
		"message": msg.Message,
	}

	id, err := s.client.Create(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("create contact message: %w", err)
	}
	return id, nil
}
