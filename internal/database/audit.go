package database

import "threat-tracker/internal/models"

// CreateAuditLog appends one journal entry.
func CreateAuditLog(batchID, entity string, entityID uint, action, details string) error {
	if DB == nil {
		return nil
	}
	record := models.AuditLog{
		BatchID:  batchID,
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		Details:  details,
	}
	return DB.Create(&record).Error
}

// RecentAuditLogs returns up to limit entries, newest first.
func RecentAuditLogs(limit int) ([]models.AuditLog, error) {
	if DB == nil {
		return nil, nil
	}
	var logs []models.AuditLog
	err := DB.Order("created_at desc").Limit(limit).Find(&logs).Error
	return logs, err
}

// Enabled reports whether an audit database is configured.
func Enabled() bool {
	return DB != nil
}
