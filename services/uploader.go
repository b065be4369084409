package services

import (
	"path/filepath"

	"whop-automation/models"
	"whop-automation/store"
	"whop-automation/utils"
)

// Marketplace is the slice of the marketplace client the services need.
// Defined here so tests can substitute a fake.
type Marketplace interface {
	CreateListing(doc *models.ProductDocument) (string, error)
	UpdatePrice(listingID string, priceCents int) error
	Analytics(listingID string) (*models.Analytics, error)
	ListListings() []models.Listing
}

// ResultSink receives the per-item results of one batch run, e.g. the
// CSV export or the optional database archive.
type ResultSink interface {
	WriteResults(runID string, results []models.UploadResult) error
}

// BatchUploader drains every pending document from the store exactly
// once per invocation and attempts to create a remote listing for each,
// pacing consecutive uploads with a fixed delay. One failure never
// aborts the batch.
type BatchUploader struct {
	store    *store.Store
	market   Marketplace
	renderer *Renderer
	pacer    *utils.Pacer
	logger   *utils.Logger
	sinks    []ResultSink
	newRunID func() string
}

// NewBatchUploader wires the uploader. Sinks are optional; each
// receives the full result list after the batch completes.
func NewBatchUploader(st *store.Store, market Marketplace, renderer *Renderer,
	pacer *utils.Pacer, logger *utils.Logger, sinks ...ResultSink) *BatchUploader {
	return &BatchUploader{
		store:    st,
		market:   market,
		renderer: renderer,
		pacer:    pacer,
		logger:   logger,
		sinks:    sinks,
		newRunID: newRunID,
	}
}

// UploadPending runs one batch over the store. An empty store returns
// zero counts with no error. A malformed document is logged, counted as
// failed, and skipped.
func (u *BatchUploader) UploadPending() *models.BatchResult {
	result := &models.BatchResult{Products: []models.UploadResult{}}

	paths, err := u.store.Pending()
	if err != nil {
		u.logger.Error("[uploader] Cannot enumerate product store: %v", err)
		return result
	}

	u.logger.Info("[uploader] Found %d products to upload", len(paths))

	for _, path := range paths {
		u.pacer.Wait()

		doc, err := u.store.Load(path)
		if err != nil {
			u.logger.Error("[uploader] Skipping unreadable document %s: %v", filepath.Base(path), err)
			result.Failed++
			result.Products = append(result.Products, models.UploadResult{
				Title:  filepath.Base(path),
				Status: models.StatusFailed,
			})
			continue
		}

		listingID, err := u.market.CreateListing(doc)
		if err != nil {
			result.Failed++
			result.Products = append(result.Products, models.UploadResult{
				Title:  doc.Title,
				Status: models.StatusFailed,
			})
			continue
		}

		result.Success++
		result.Products = append(result.Products, models.UploadResult{
			Title:     doc.Title,
			ListingID: listingID,
			Status:    models.StatusSuccess,
		})

		// A render failure leaves an orphaned remote listing with no
		// local files. Accepted: logged, not rolled back.
		if err := u.renderer.Render(doc, listingID); err != nil {
			u.logger.Error("[uploader] Deliverable rendering failed for %s: %v", listingID, err)
		}

		if err := u.store.MarkUploaded(path); err != nil {
			u.logger.Error("[uploader] Could not mark %s as uploaded: %v", filepath.Base(path), err)
		}
	}

	u.logger.Info("[uploader] Upload complete — success: %d, failed: %d",
		result.Success, result.Failed)

	if len(result.Products) > 0 {
		runID := u.newRunID()
		for _, sink := range u.sinks {
			if err := sink.WriteResults(runID, result.Products); err != nil {
				u.logger.Error("[uploader] Result export failed: %v", err)
			}
		}
	}

	return result
}
