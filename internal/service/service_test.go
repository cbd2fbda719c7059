package service_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"github.com/lennartdeknikker/jaco-line/internal/admission"
	"github.com/lennartdeknikker/jaco-line/internal/api/api"
	"github.com/lennartdeknikker/jaco-line/internal/model"
	"github.com/lennartdeknikker/jaco-line/internal/service"
	"github.com/lennartdeknikker/jaco-line/internal/store"
)

func TestMain(m *testing.M) {
	zlog.Init()
	m.Run()
}

type fakeStore struct {
	sessions      map[string]*model.WorkshopSession
	workshops     []model.Workshop
	subscriptions []*model.Subscription
	newsletter    map[string]bool
	events        []model.Event
	nextID        int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sessions:   map[string]*model.WorkshopSession{},
		newsletter: map[string]bool{},
	}
}

func (f *fakeStore) GetSessionByID(ctx context.Context, id string) (*model.WorkshopSession, error) {
	if session, ok := f.sessions[id]; ok {
		return session, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) FindSubscription(ctx context.Context, email, sessionID string) (*model.Subscription, error) {
	for _, sub := range f.subscriptions {
		if sub.Email == email && sub.SessionRef.Ref == sessionID {
			return sub, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) CountSubscriptions(ctx context.Context, sessionID string) (int, error) {
	count := 0
	for _, sub := range f.subscriptions {
		if sub.SessionRef.Ref == sessionID {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) CreateSubscription(ctx context.Context, sub *model.Subscription) (string, error) {
	f.nextID++
	stored := *sub
	stored.ID = fmt.Sprintf("sub-%d", f.nextID)
	f.subscriptions = append(f.subscriptions, &stored)
	return stored.ID, nil
}

func (f *fakeStore) ListWorkshops(ctx context.Context) ([]model.Workshop, error) {
	return f.workshops, nil
}

func (f *fakeStore) GetWorkshopByID(ctx context.Context, id string) (*model.Workshop, error) {
	for i := range f.workshops {
		if f.workshops[i].ID == id {
			return &f.workshops[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) GetWorkshopBySlug(ctx context.Context, slug string) (*model.Workshop, error) {
	for i := range f.workshops {
		if f.workshops[i].Slug.Current == slug {
			return &f.workshops[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) ListUpcomingSessions(ctx context.Context, workshopID, fromDate string) ([]model.WorkshopSession, error) {
	var sessions []model.WorkshopSession
	for _, session := range f.sessions {
		if session.WorkshopRef.Ref == workshopID && session.Date >= fromDate {
			sessions = append(sessions, *session)
		}
	}
	return sessions, nil
}

func (f *fakeStore) ListEvents(ctx context.Context, limit int) ([]model.Event, error) {
	if limit > 0 && limit < len(f.events) {
		return f.events[:limit], nil
	}
	return f.events, nil
}

func (f *fakeStore) ListGallery(ctx context.Context, limit int) ([]model.GalleryImage, error) {
	return nil, nil
}

func (f *fakeStore) GetSiteSettings(ctx context.Context) (*model.SiteSettings, error) {
	return &model.SiteSettings{}, nil
}

func (f *fakeStore) FindNewsletterSubscriber(ctx context.Context, email string) (*model.NewsletterSubscriber, error) {
	if f.newsletter[email] {
		return &model.NewsletterSubscriber{ID: "nl-1", Email: email}, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) CreateNewsletterSubscriber(ctx context.Context, sub *model.NewsletterSubscriber) (string, error) {
	f.newsletter[sub.Email] = true
	return "nl-2", nil
}

func (f *fakeStore) CreateContactMessage(ctx context.Context, msg *model.ContactMessage) (string, error) {
	return "cm-1", nil
}

func (f *fakeStore) ImageURL(img *model.Image, width int) string {
	if img == nil || img.Asset == nil {
		return ""
	}
	return "https://cdn.example.test/" + img.Asset.Ref
}

func newTestApp(f *fakeStore) *ginext.Engine {
	log := zerolog.Nop()
	controller := admission.NewController(f, nil, &log)
	svc := service.NewService(f, controller, nil, &log, nil)
	return api.NewRouters(&api.Routers{Service: svc})
}

func doJSON(app *ginext.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func intPtr(n int) *int { return &n }

func subscribeBody(email string) string {
	return fmt.Sprintf(`{"name":"Alice","email":%q,"phone":"0612345678","sessionId":"S1"}`, email)
}

func TestSubscribeStatusMapping(t *testing.T) {
	f := newFakeStore()
	f.sessions["S1"] = &model.WorkshopSession{
		ID:              "S1",
		WorkshopRef:     model.Reference{Ref: "W1"},
		Date:            "2099-01-01",
		Location:        "Atelier",
		MaxParticipants: intPtr(1),
	}
	app := newTestApp(f)

	// Success created.
	rec := doJSON(app, http.MethodPost, "/v1/workshops/subscribe", subscribeBody("alice@x.com"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("success status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Status string `json:"status"`
		Data   struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.Status != "ok" || created.Data.ID == "" {
		t.Errorf("created response = %+v", created)
	}

	// Duplicate is a 400.
	rec = doJSON(app, http.MethodPost, "/v1/workshops/subscribe", subscribeBody("alice@x.com"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), admission.MsgDuplicate) {
		t.Errorf("duplicate body = %s", rec.Body.String())
	}

	// Capacity is a 400.
	rec = doJSON(app, http.MethodPost, "/v1/workshops/subscribe", subscribeBody("bob@x.com"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("capacity status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), admission.MsgSessionFull) {
		t.Errorf("capacity body = %s", rec.Body.String())
	}

	// Unknown session is a 404.
	body := `{"name":"Eve","email":"eve@x.com","phone":"0612345678","sessionId":"missing"}`
	rec = doJSON(app, http.MethodPost, "/v1/workshops/subscribe", body)
	if rec.Code != http.StatusNotFound {
		t.Errorf("not-found status = %d, want 404", rec.Code)
	}

	// Missing phone is a 400 with the dedicated message.
	body = `{"name":"Eve","email":"eve@x.com","phone":"  ","sessionId":"S1"}`
	rec = doJSON(app, http.MethodPost, "/v1/workshops/subscribe", body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("validation status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), admission.MsgPhoneRequired) {
		t.Errorf("validation body = %s", rec.Body.String())
	}
}

func TestGetWorkshopBySlug(t *testing.T) {
	f := newFakeStore()
	f.workshops = []model.Workshop{{
		ID:    "W1",
		Title: "Draaien basis",
		Slug:  model.Slug{Current: "draaien-basis"},
	}}
	f.sessions["S1"] = &model.WorkshopSession{
		ID:              "S1",
		WorkshopRef:     model.Reference{Ref: "W1"},
		Date:            "2099-01-01",
		Location:        "Atelier",
		MaxParticipants: intPtr(8),
	}
	f.subscriptions = append(f.subscriptions,
		&model.Subscription{Email: "a@x.com", SessionRef: model.Reference{Ref: "S1"}},
		&model.Subscription{Email: "b@x.com", SessionRef: model.Reference{Ref: "S1"}},
	)
	app := newTestApp(f)

	rec := doJSON(app, http.MethodGet, "/v1/workshops/draaien-basis", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data struct {
			Title    string `json:"title"`
			Sessions []struct {
				CurrentParticipants int  `json:"currentParticipants"`
				IsFull              bool `json:"isFull"`
			} `json:"sessions"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.Title != "Draaien basis" {
		t.Errorf("title = %q", resp.Data.Title)
	}
	if len(resp.Data.Sessions) != 1 {
		t.Fatalf("sessions = %+v", resp.Data.Sessions)
	}
	if resp.Data.Sessions[0].CurrentParticipants != 2 || resp.Data.Sessions[0].IsFull {
		t.Errorf("session status = %+v", resp.Data.Sessions[0])
	}

	rec = doJSON(app, http.MethodGet, "/v1/workshops/onbekend", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown slug status = %d, want 404", rec.Code)
	}

	rec = doJSON(app, http.MethodGet, "/v1/workshops/Not%20A%20Slug", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid slug status = %d, want 400", rec.Code)
	}
}

func TestNewsletterSubscribe(t *testing.T) {
	f := newFakeStore()
	app := newTestApp(f)

	rec := doJSON(app, http.MethodPost, "/v1/newsletter/subscribe", `{"email":"carol@x.com","name":"Carol"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(app, http.MethodPost, "/v1/newsletter/subscribe", `{"email":"carol@x.com"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate status = %d, want 400", rec.Code)
	}

	rec = doJSON(app, http.MethodPost, "/v1/newsletter/subscribe", `{"name":"No Mail"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing email status = %d, want 400", rec.Code)
	}
}

func TestContactSubmit(t *testing.T) {
	f := newFakeStore()
	app := newTestApp(f)

	rec := doJSON(app, http.MethodPost, "/v1/contact", `{"name":"Dave","email":"dave@x.com","message":"Wanneer is de open dag?"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(app, http.MethodPost, "/v1/contact", `{"name":"Dave","email":"dave@x.com"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing message status = %d, want 400", rec.Code)
	}
}

func TestGetEvents(t *testing.T) {
	f := newFakeStore()
	f.events = []model.Event{
		{ID: "E1", Title: "Open dag", Date: "2026-09-12", Location: "Atelier"},
		{ID: "E2", Title: "Kerstmarkt", Date: "2026-12-12", Location: "Dorpsplein"},
	}
	app := newTestApp(f)

	rec := doJSON(app, http.MethodGet, "/v1/events?limit=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Data []model.Event `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Title != "Open dag" {
		t.Errorf("events = %+v", resp.Data)
	}
}
