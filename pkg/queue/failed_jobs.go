package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/duolink/cotizador/pkg/logger"
)

// FailedJobRecord is the row written for each job that ran out of retries.
type FailedJobRecord struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"`
	JobType  string    `gorm:"size:255;not null;index"`
	Payload  string    `gorm:"type:text;not null"`
	Error    string    `gorm:"type:text"`
	Attempts int       `gorm:"not null;default:0"`
	FailedAt time.Time `gorm:"autoCreateTime"`
}

func (FailedJobRecord) TableName() string { return "failed_jobs" }

var failedJobDB *gorm.DB

// UseDB turns on database persistence for failed jobs. Call once at boot
// after the database connection is up.
func UseDB(db *gorm.DB) {
	failedJobDB = db
	db.AutoMigrate(&FailedJobRecord{})
}

// persistFailed records the failure in memory and, when configured, in the
// failed_jobs table.
func (m *Manager) persistFailed(job Job, typeName string, lastErr error, attempts int) {
	m.mu.Lock()
	m.failed = append(m.failed, FailedJob{
		Type: typeName, Job: job, Err: lastErr, FailedAt: time.Now(), Attempts: attempts,
	})
	m.mu.Unlock()

	if failedJobDB == nil {
		return
	}

	payload, err := json.Marshal(job)
	if err != nil {
		payload = []byte(fmt.Sprintf(`{"error": "could not marshal: %v"}`, err))
	}

	record := FailedJobRecord{
		JobType:  typeName,
		Payload:  string(payload),
		Error:    lastErr.Error(),
		Attempts: attempts,
		FailedAt: time.Now(),
	}

	if err := failedJobDB.Create(&record).Error; err != nil {
		logger.Error("queue: persist failed job", "type", typeName, "error", err)
	}
}
