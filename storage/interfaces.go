package storage

import "whop-automation/models"

// ResultWriter is the interface any upload-result export backend must
// satisfy.
type ResultWriter interface {
	WriteResults(runID string, results []models.UploadResult) error
	Close() error
}
