package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"github.com/lennartdeknikker/jaco-line/internal/admission"
	"github.com/lennartdeknikker/jaco-line/internal/dto"
	"github.com/lennartdeknikker/jaco-line/internal/model"
	"github.com/lennartdeknikker/jaco-line/internal/rabbit"
	"github.com/lennartdeknikker/jaco-line/internal/store"
	"github.com/lennartdeknikker/jaco-line/pkg/validator"
)

type Service interface {
	Subscribe(ctx *ginext.Context)
	GetWorkshops(ctx *ginext.Context)
	GetWorkshopBySlug(ctx *ginext.Context)
	GetEvents(ctx *ginext.Context)
	GetGallery(ctx *ginext.Context)
	GetSiteSettings(ctx *ginext.Context)
	SubscribeNewsletter(ctx *ginext.Context)
	SubmitContact(ctx *ginext.Context)
}

type service struct {
	store     store.Store
	admission *admission.Controller
	verifier  admission.TokenVerifier
	log       *zerolog.Logger
	rbt       *rabbit.Client
}

func NewService(st store.Store, ctrl *admission.Controller, verifier admission.TokenVerifier, logger *zerolog.Logger, rbt *rabbit.Client) Service {
	return &service{
		store:     st,
		admission: ctrl,
		verifier:  verifier,
		log:       logger,
		rbt:       rbt,
	}
}

func (s *service) Subscribe(ctx *ginext.Context) {
	var req dto.SubscribeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}

	id, admErr := s.admission.Admit(ctx.Request.Context(), admission.Request{
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		SessionID:        req.SessionID,
		ParticipantCount: req.ParticipantCount,
		Remarks:          req.Remarks,
		Token:            req.Token,
	})
	if admErr != nil {
		s.respondAdmissionError(ctx, admErr)
		return
	}

	s.notifySubscription(ctx.Request.Context(), req, id)

	dto.SuccessCreatedResponse(ctx, dto.SubscribeResponse{ID: id})
}

func (s *service) respondAdmissionError(ctx *ginext.Context, admErr *admission.Error) {
	switch admErr.Kind {
	case admission.KindValidation:
		dto.BadResponseError(ctx, dto.ValidationFailed, admErr.Message)
	case admission.KindVerification:
		dto.BadResponseError(ctx, dto.VerificationFailed, admErr.Message)
	case admission.KindDuplicate:
		dto.BadResponseError(ctx, dto.SubscriptionDuplicate, admErr.Message)
	case admission.KindNotFound:
		dto.NotFoundResponseError(ctx, dto.SessionNotFound, admErr.Message)
	case admission.KindCapacity:
		dto.BadResponseError(ctx, dto.SessionFull, admErr.Message)
	default:
		s.log.Error().Err(admErr).Msg("admission aborted on store failure")
		dto.InternalServerError(ctx)
	}
}

// notifySubscription publishes the owner notification for a new subscription.
// Best effort: every failure here is logged and the admission result stands.
func (s *service) notifySubscription(ctx context.Context, req dto.SubscribeRequest, subscriptionID string) {
	msg := dto.NotificationMessage{
		ID:               uuid.NewString(),
		Kind:             dto.NotifyWorkshopSubscription,
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		ParticipantCount: admission.SanitizeParticipantCount(req.ParticipantCount),
		Remarks:          req.Remarks,
	}

	session, err := s.store.GetSessionByID(ctx, req.SessionID)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to load session for notification")
	} else {
		msg.SessionDate = session.Date
		msg.SessionTime = session.Time
		msg.SessionLocation = session.Location

		workshop, err := s.store.GetWorkshopByID(ctx, session.WorkshopRef.Ref)
		if err != nil {
			s.log.Warn().Err(err).Msg("failed to load workshop for notification")
		} else {
			msg.WorkshopTitle = workshop.Title
		}
	}

	s.publishNotification(msg, subscriptionID)
}

func (s *service) publishNotification(msg dto.NotificationMessage, documentID string) {
	if s.rbt == nil {
		return
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to marshal notification message")
		return
	}
	if err := s.rbt.Publish(payload); err != nil {
		s.log.Error().Err(err).Str("document_id", documentID).Msg("failed to publish notification message")
	}
}

func (s *service) GetWorkshops(ctx *ginext.Context) {
	workshops, err := s.store.ListWorkshops(ctx.Request.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list workshops")
		dto.InternalServerError(ctx)
		return
	}

	today := time.Now().Format("2006-01-02")
	resp := make([]dto.WorkshopResponse, 0, len(workshops))
	for i := range workshops {
		item, err := s.workshopResponse(ctx.Request.Context(), &workshops[i], today)
		if err != nil {
			s.log.Error().Err(err).Str("workshop_id", workshops[i].ID).Msg("failed to build workshop response")
			continue
		}
		resp = append(resp, *item)
	}

	dto.SuccessResponse(ctx, resp)
}

func (s *service) GetWorkshopBySlug(ctx *ginext.Context) {
	slug := ctx.Param("slug")
	if !validator.ValidSlug(slug) {
		dto.FieldIncorrectError(ctx, "slug")
		return
	}

	workshop, err := s.store.GetWorkshopBySlug(ctx.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			dto.NotFoundResponseError(ctx, dto.WorkshopNotFound, "Workshop not found")
			return
		}
		s.log.Error().Err(err).Str("slug", slug).Msg("failed to get workshop")
		dto.InternalServerError(ctx)
		return
	}

	today := time.Now().Format("2006-01-02")
	resp, err := s.workshopResponse(ctx.Request.Context(), workshop, today)
	if err != nil {
		s.log.Error().Err(err).Str("slug", slug).Msg("failed to build workshop response")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, resp)
}

// workshopResponse assembles one workshop with its upcoming sessions, each
// carrying a freshly computed participant status. Status is never cached.
func (s *service) workshopResponse(ctx context.Context, workshop *model.Workshop, fromDate string) (*dto.WorkshopResponse, error) {
	sessions, err := s.store.ListUpcomingSessions(ctx, workshop.ID, fromDate)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	sessionResponses := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		session := &sessions[i]
		count, err := s.store.CountSubscriptions(ctx, session.ID)
		if err != nil {
			return nil, fmt.Errorf("count subscriptions: %w", err)
		}
		status := admission.ComputeSessionStatus(session, count)

		sessionResponses = append(sessionResponses, dto.SessionResponse{
			ID:                  session.ID,
			Date:                session.Date,
			Time:                session.Time,
			Location:            session.Location,
			Price:               session.Price,
			MaxParticipants:     session.MaxParticipants,
			CurrentParticipants: status.CurrentParticipants,
			IsFull:              status.IsFull,
			CreatedAt:           session.CreatedAt,
			UpdatedAt:           session.UpdatedAt,
		})
	}

	resp := &dto.WorkshopResponse{
		ID:               workshop.ID,
		Title:            workshop.Title,
		Slug:             workshop.Slug.Current,
		Description:      workshop.Description,
		ShortDescription: workshop.ShortDescription,
		DefaultPrice:     workshop.DefaultPrice,
		MainImageURL:     s.store.ImageURL(workshop.MainImage, 1200),
		Sessions:         sessionResponses,
		CreatedAt:        workshop.CreatedAt,
		UpdatedAt:        workshop.UpdatedAt,
	}
	for i := range workshop.Images {
		img := &workshop.Images[i]
		if url := s.store.ImageURL(img, 1200); url != "" {
			resp.ImageURLs = append(resp.ImageURLs, dto.ImageResponse{URL: url, Alt: img.Alt})
		}
	}
	return resp, nil
}

func (s *service) GetEvents(ctx *ginext.Context) {
	limit, _ := strconv.Atoi(ctx.Query("limit"))

	events, err := s.store.ListEvents(ctx.Request.Context(), limit)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list events")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, events)
}

func (s *service) GetGallery(ctx *ginext.Context) {
	limit, _ := strconv.Atoi(ctx.Query("limit"))

	gallery, err := s.store.ListGallery(ctx.Request.Context(), limit)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list gallery")
		dto.InternalServerError(ctx)
		return
	}

	resp := make([]dto.GalleryItemResponse, 0, len(gallery))
	for i := range gallery {
		item := &gallery[i]
		resp = append(resp, dto.GalleryItemResponse{
			ID:        item.ID,
			Alt:       item.Alt,
			ImageURL:  s.store.ImageURL(item.Image, 0),
			CreatedAt: item.CreatedAt,
		})
	}

	dto.SuccessResponse(ctx, resp)
}

func (s *service) GetSiteSettings(ctx *ginext.Context) {
	settings, err := s.store.GetSiteSettings(ctx.Request.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to get site settings")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, settings)
}

func (s *service) SubscribeNewsletter(ctx *ginext.Context) {
	var req dto.NewsletterSubscribeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	if s.verifier != nil && !s.verifier.Verify(ctx.Request.Context(), req.Token) {
		dto.BadResponseError(ctx, dto.VerificationFailed, admission.MsgVerificationFailed)
		return
	}

	_, err := s.store.FindNewsletterSubscriber(ctx.Request.Context(), req.Email)
	switch {
	case err == nil:
		dto.BadResponseError(ctx, dto.NewsletterDuplicate, "Email already subscribed")
		return
	case !errors.Is(err, store.ErrNotFound):
		s.log.Error().Err(err).Msg("failed to check newsletter subscriber")
		dto.InternalServerError(ctx)
		return
	}

	id, err := s.store.CreateNewsletterSubscriber(ctx.Request.Context(), &model.NewsletterSubscriber{
		Email: req.Email,
		Name:  req.Name,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create newsletter subscriber")
		dto.InternalServerError(ctx)
		return
	}

	s.publishNotification(dto.NotificationMessage{
		ID:    uuid.NewString(),
		Kind:  dto.NotifyNewsletterSubscription,
		Name:  req.Name,
		Email: req.Email,
	}, id)

	dto.SuccessCreatedResponse(ctx, dto.SubscribeResponse{ID: id})
}

func (s *service) SubmitContact(ctx *ginext.Context) {
	var req dto.ContactRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	if s.verifier != nil && !s.verifier.Verify(ctx.Request.Context(), req.Token) {
		dto.BadResponseError(ctx, dto.VerificationFailed, admission.MsgVerificationFailed)
		return
	}

	id, err := s.store.CreateContactMessage(ctx.Request.Context(), &model.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create contact message")
		dto.InternalServerError(ctx)
		return
	}

	s.publishNotification(dto.NotificationMessage{
		ID:      uuid.NewString(),
		Kind:    dto.NotifyContactMessage,
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	}, id)

	dto.SuccessCreatedResponse(ctx, dto.SubscribeResponse{ID: id})
}
