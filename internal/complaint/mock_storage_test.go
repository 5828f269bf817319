package complaint_test

import (
	"time"

	"civiport/backend/internal/models"
	"civiport/backend/internal/status"
	"civiport/backend/internal/storage"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a mock implementation of the storage.Storage interface.
// It uses testify/mock to allow flexible expectation setting in tests.
type MockStorage struct {
	mock.Mock
}

// User operations
func (m *MockStorage) SaveUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) GetUserByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) GetUserByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// Complaint operations
func (m *MockStorage) SaveComplaint(complaint *models.Complaint) error {
	args := m.Called(complaint)
	return args.Error(0)
}

func (m *MockStorage) GetComplaintByID(id string) (*models.Complaint, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

func (m *MockStorage) ListComplaintsByOwner(ownerID string) ([]models.Complaint, error) {
	args := m.Called(ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockStorage) ListAllComplaints(filter storage.ComplaintFilter) ([]models.Complaint, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockStorage) UpdateComplaintStatus(id string, newStatus status.Status) (*models.Complaint, error) {
	args := m.Called(id, newStatus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

// Activity counters
func (m *MockStorage) IncrDailyActivity(metric string) error {
	args := m.Called(metric)
	return args.Error(0)
}

func (m *MockStorage) GetDailyActivity(metric string, day time.Time) (int64, error) {
	args := m.Called(metric, day)
	return args.Get(0).(int64), args.Error(1)
}

// MockBroadcaster records every event handed to the hub.
type MockBroadcaster struct {
	Events []models.StatusChangeEvent
}

func (b *MockBroadcaster) Broadcast(evt models.StatusChangeEvent) {
	b.Events = append(b.Events, evt)
}

// MockNotifier records staff notifications.
type MockNotifier struct {
	Filed     []*models.Complaint
	Completed []*models.Complaint
}

func (n *MockNotifier) ComplaintFiled(c *models.Complaint) { n.Filed = append(n.Filed, c) }
func (n *MockNotifier) ComplaintCompleted(c *models.Complaint) { n.Completed = append(n.Completed, c) }
