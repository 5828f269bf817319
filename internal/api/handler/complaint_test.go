package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"civiport/backend/internal/api/handler"
	"civiport/backend/internal/complaint"
	"civiport/backend/internal/eventhub"
	"civiport/backend/internal/models"
	"civiport/backend/internal/status"
	"civiport/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// fakeStore is an in-memory storage.Storage for handler tests.
type fakeStore struct {
	complaints map[string]*models.Complaint
	users      map[string]*models.User
	updates    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		complaints: make(map[string]*models.Complaint),
		users:      make(map[string]*models.User),
	}
}

func (f *fakeStore) SaveUser(user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeStore) GetUserByID(id string) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, storage.ErrUserNotFound
}

func (f *fakeStore) GetUserByEmail(email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (f *fakeStore) SaveComplaint(c *models.Complaint) error {
	f.complaints[c.ID] = c
	return nil
}

func (f *fakeStore) GetComplaintByID(id string) (*models.Complaint, error) {
	if c, ok := f.complaints[id]; ok {
		return c, nil
	}
	return nil, storage.ErrComplaintNotFound
}

func (f *fakeStore) ListComplaintsByOwner(ownerID string) ([]models.Complaint, error) {
	var out []models.Complaint
	for _, c := range f.complaints {
		if c.OwnerID == ownerID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeStore) ListAllComplaints(filter storage.ComplaintFilter) ([]models.Complaint, error) {
	var out []models.Complaint
	for _, c := range f.complaints {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeStore) UpdateComplaintStatus(id string, newStatus status.Status) (*models.Complaint, error) {
	c, ok := f.complaints[id]
	if !ok {
		return nil, storage.ErrComplaintNotFound
	}
	f.updates++
	c.Status = newStatus
	return c, nil
}

func (f *fakeStore) IncrDailyActivity(metric string) error { return nil }

func (f *fakeStore) GetDailyActivity(metric string, day time.Time) (int64, error) { return 0, nil }

func setupRouter(store *fakeStore) (*gin.Engine, *handler.Handler) {
	gin.SetMode(gin.TestMode)
	hub := eventhub.NewHub()
	go hub.Run()

	svc := complaint.NewService(store, hub, nil)
	h := handler.NewHandler(hub, store, svc, []byte("test-secret"))

	r := gin.New()
	// Auth middleware replaced by a stub admin identity; the JWT paths
	// are covered by the login/register handlers themselves.
	asAdmin := func(c *gin.Context) {
		c.Set("userID", "admin-1")
		c.Set("role", models.RoleAdmin)
	}
	r.PATCH("/api/complaints/status/:id", asAdmin, h.UpdateComplaintStatus)
	r.GET("/api/complaints/user/:id", asAdmin, h.ListUserComplaints)
	return r, h
}

func TestUpdateComplaintStatus_OK(t *testing.T) {
	store := newFakeStore()
	store.complaints["c-1"] = &models.Complaint{ID: "c-1", OwnerID: "u-1", Status: status.Pending}
	r, _ := setupRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/complaints/status/c-1",
		strings.NewReader(`{"status":"Ongoing"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"Ongoing"`)
	assert.Equal(t, status.Ongoing, store.complaints["c-1"].Status)
}

// TestUpdateComplaintStatus_Bogus: an unrecognized status is rejected and
// nothing is persisted.
func TestUpdateComplaintStatus_Bogus(t *testing.T) {
	store := newFakeStore()
	store.complaints["c-1"] = &models.Complaint{ID: "c-1", OwnerID: "u-1", Status: status.Pending}
	r, _ := setupRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/complaints/status/c-1",
		strings.NewReader(`{"status":"Bogus"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, status.Pending, store.complaints["c-1"].Status, "persisted status unchanged")
	assert.Zero(t, store.updates)
}

func TestUpdateComplaintStatus_NotFound(t *testing.T) {
	store := newFakeStore()
	r, _ := setupRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/complaints/status/missing",
		strings.NewReader(`{"status":"Ongoing"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListUserComplaints(t *testing.T) {
	store := newFakeStore()
	store.complaints["c-1"] = &models.Complaint{ID: "c-1", OwnerID: "u-1", Status: status.Pending}
	store.complaints["c-2"] = &models.Complaint{ID: "c-2", OwnerID: "u-2", Status: status.Ongoing}
	r, _ := setupRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/complaints/user/u-1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "c-1")
	assert.NotContains(t, w.Body.String(), "c-2")
}
