package api

import (
	"net/http/httptest"
	"sync"

	"github.com/findhari93-sketch/NeramNewApp-sub004/config"
	"github.com/findhari93-sketch/NeramNewApp-sub004/db"
	"github.com/findhari93-sketch/NeramNewApp-sub004/middlewares"
	"github.com/findhari93-sketch/NeramNewApp-sub004/models"
)

const (
	testWebhookSecret  = "webhook-test-secret"
	testPayTokenSecret = "paytoken-test-secret"
)

// stubStorage records mutations in memory. The embedded interface covers the
// methods a test never reaches; calling one of those panics, which is the
// point.
type stubStorage struct {
	db.Storage

	mu         sync.Mutex
	apps       map[int]*models.Application
	appsByLink map[string]*models.Application
	updates    []models.PaymentUpdate
	webhookIDs map[string]bool
	consumed   map[string]string
	reviews    map[int]string
	linkIDs    map[int]string
}

func newStubStorage(apps ...*models.Application) *stubStorage {
	s := &stubStorage{
		apps:       map[int]*models.Application{},
		appsByLink: map[string]*models.Application{},
		webhookIDs: map[string]bool{},
		consumed:   map[string]string{},
		reviews:    map[int]string{},
		linkIDs:    map[int]string{},
	}
	for _, app := range apps {
		s.apps[app.ID] = app
		if app.RazorpayLinkID != "" {
			s.appsByLink[app.RazorpayLinkID] = app
		}
	}
	return s
}

func (s *stubStorage) GetApplicationByID(applicationID int) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apps[applicationID], nil
}

func (s *stubStorage) GetApplicationByRazorpayLinkID(linkID string) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appsByLink[linkID], nil
}

func (s *stubStorage) ApplyPaymentUpdate(update *models.PaymentUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, *update)
	return nil
}

func (s *stubStorage) RecordWebhookEvent(eventID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fresh := !s.webhookIDs[eventID]
	s.webhookIDs[eventID] = true
	return fresh, nil
}

func (s *stubStorage) ConsumeToken(signature string, firebaseUID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.consumed[signature]; ok {
		return false, nil
	}
	s.consumed[signature] = firebaseUID
	return true, nil
}

func (s *stubStorage) ReviewApplication(applicationID int, approvalStatus string, totalFee float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews[applicationID] = approvalStatus
	if app, ok := s.apps[applicationID]; ok {
		app.ApprovalStatus = approvalStatus
		app.TotalFee = totalFee
	}
	return nil
}

func (s *stubStorage) SetApplicationPaymentLink(applicationID int, razorpayLinkID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.linkIDs[applicationID] = razorpayLinkID
	return nil
}

func (s *stubStorage) recordedUpdates() []models.PaymentUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.PaymentUpdate{}, s.updates...)
}

func newTestContext(storage db.Storage) *config.AppContext {
	ctx := &config.AppContext{DB: storage}
	ctx.Config.PayTokenSecret = testPayTokenSecret
	ctx.Config.Razorpay.WebhookSecret = testWebhookSecret
	return ctx
}

func newTestResponseWriter() (*middlewares.ResponseWriter, *httptest.ResponseRecorder) {
	recorder := httptest.NewRecorder()
	return middlewares.NewResponseWriter(recorder), recorder
}
