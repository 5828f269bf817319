package storage

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"civiport/backend/internal/models"
	"civiport/backend/internal/status"
)

// ErrComplaintNotFound is returned when a complaint ID does not exist.
var ErrComplaintNotFound = errors.New("complaint not found")

// ErrUserNotFound is returned when a user lookup comes up empty.
var ErrUserNotFound = errors.New("user not found")

// ComplaintFilter narrows ListAllComplaints. Zero values mean "all".
type ComplaintFilter struct {
	Status   status.Status
	Category string
}

type Storage interface {
	SaveUser(user *models.User) error
	GetUserByID(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)

	SaveComplaint(complaint *models.Complaint) error
	GetComplaintByID(id string) (*models.Complaint, error)
	ListComplaintsByOwner(ownerID string) ([]models.Complaint, error)
	ListAllComplaints(filter ComplaintFilter) ([]models.Complaint, error)
	UpdateComplaintStatus(id string, newStatus status.Status) (*models.Complaint, error)

	IncrDailyActivity(metric string) error
	GetDailyActivity(metric string, day time.Time) (int64, error)
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// SaveUser persists a user record in PostgreSQL.
func (s *Service) SaveUser(user *models.User) error {
	return s.DB.Save(user).Error
}

func (s *Service) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SaveComplaint persists a new or updated complaint record.
func (s *Service) SaveComplaint(complaint *models.Complaint) error {
	if err := s.DB.Save(complaint).Error; err != nil {
		log.Printf("ERROR: Failed to save complaint for owner %s: %v", complaint.OwnerID, err)
		return err
	}
	return nil
}

func (s *Service) GetComplaintByID(id string) (*models.Complaint, error) {
	var complaint models.Complaint
	err := s.DB.First(&complaint, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrComplaintNotFound
	}
	if err != nil {
		log.Printf("ERROR: Failed to get complaint %s: %v", id, err)
		return nil, err
	}
	return &complaint, nil
}

// ListComplaintsByOwner returns the citizen's complaints, most recent first.
func (s *Service) ListComplaintsByOwner(ownerID string) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := s.DB.Where("owner_id = ?", ownerID).
		Order("created_at desc").
		Find(&complaints).Error
	if err != nil {
		log.Printf("ERROR: Failed to list complaints for owner %s: %v", ownerID, err)
		return nil, err
	}
	return complaints, nil
}

// ListAllComplaints returns every complaint matching the filter, most
// recent first. Used by the admin console and the CSV export.
func (s *Service) ListAllComplaints(filter ComplaintFilter) ([]models.Complaint, error) {
	query := s.DB.Order("created_at desc")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	var complaints []models.Complaint
	if err := query.Find(&complaints).Error; err != nil {
		log.Printf("ERROR: Failed to list complaints: %v", err)
		return nil, err
	}
	return complaints, nil
}

// UpdateComplaintStatus applies an atomic single-record status update and
// returns the updated row. The caller has already validated newStatus.
func (s *Service) UpdateComplaintStatus(id string, newStatus status.Status) (*models.Complaint, error) {
	result := s.DB.Model(&models.Complaint{}).
		Where("id = ?", id).
		Update("status", newStatus)
	if result.Error != nil {
		log.Printf("ERROR: Failed to update status of complaint %s: %v", id, result.Error)
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrComplaintNotFound
	}

	return s.GetComplaintByID(id)
}

// IncrDailyActivity bumps today's counter for a metric in Redis. Counters
// expire after a month; the dashboards only look back a few weeks.
func (s *Service) IncrDailyActivity(metric string) error {
	key := activityKey(metric, time.Now())
	if err := s.Redis.Incr(s.Ctx, key).Err(); err != nil {
		return err
	}
	return s.Redis.Expire(s.Ctx, key, 31*24*time.Hour).Err()
}

// GetDailyActivity reads a metric counter for a given day. A missing key
// reads as zero.
func (s *Service) GetDailyActivity(metric string, day time.Time) (int64, error) {
	val, err := s.Redis.Get(s.Ctx, activityKey(metric, day)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return val, nil
}

func activityKey(metric string, day time.Time) string {
	return "activity:" + metric + ":" + day.Format("2006-01-02")
}
