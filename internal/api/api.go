package api

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"optlisting/internal/analysis"
	"optlisting/internal/export"
	"optlisting/internal/models"
	ebayService "optlisting/internal/services/ebay"
)

type APIHandler struct {
	db          *gorm.DB
	ebayService *ebayService.SyncService
	// sync job state
	jobMu   sync.Mutex
	syncJob *syncJob
}

func SetupRoutes(r *gin.RouterGroup, db *gorm.DB, ebaySvc *ebayService.SyncService) *APIHandler {
	handler := &APIHandler{
		db:          db,
		ebayService: ebaySvc,
	}

	// Listing routes
	listings := r.Group("/listings")
	{
		listings.GET("", handler.ListListings)
		listings.POST("/import", handler.ImportListings)
	}

	// Analysis routes
	analysisGroup := r.Group("/analysis")
	{
		analysisGroup.POST("/run", handler.RunAnalysis)
		analysisGroup.GET("/runs", handler.ListAnalysisRuns)
	}

	// Export routes
	exportGroup := r.Group("/export")
	{
		exportGroup.GET("/formats", handler.ListExportFormats)
		exportGroup.POST("/csv", handler.ExportCSV)
		exportGroup.POST("/xlsx", handler.ExportXLSX)
	}

	// Supplier signal rule management
	signals := r.Group("/signals")
	{
		signals.GET("", handler.ListSignals)
		signals.POST("", handler.CreateSignal)
		signals.DELETE("/:id", handler.DeleteSignal)
	}

	// eBay sync job
	syncGroup := r.Group("/sync")
	{
		syncGroup.POST("/start", handler.StartSync)
		syncGroup.GET("/status", handler.SyncStatus)
		syncGroup.POST("/stop", handler.StopSync)
	}

	// Live job progress
	r.GET("/ws/progress", handler.ProgressWS)

	return handler
}

// requireUserID reads the tenant scope from the query string. There is
// no default-user fallback: requests without explicit tenant scope are
// rejected.
func requireUserID(c *gin.Context) (uint, bool) {
	raw := c.Query("user_id")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return 0, false
	}
	return uint(id), true
}

// ListListings returns a page of the user's listings with optional
// search and zombie filtering
// GET /api/v1/listings?user_id=1&search=&zombies_only=true&page=1&page_size=50
func (h *APIHandler) ListListings(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	search := strings.TrimSpace(c.Query("search"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 200 {
		pageSize = 50
	}

	q := h.db.Model(&models.Listing{}).Where("user_id = ?", userID)
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("LOWER(title) LIKE LOWER(?) OR LOWER(sku) LIKE LOWER(?) OR item_id LIKE ?", like, like, like)
	}
	if c.Query("zombies_only") == "true" {
		q = q.Where("is_zombie = ?", true)
	}
	if supplier := c.Query("supplier"); supplier != "" {
		q = q.Where("supplier_name = ?", supplier)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("counting listings")
	}

	var listings []models.Listing
	if err := q.Order("zombie_score DESC, item_id ASC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&listings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":      200,
		"data":      listings,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"msg":       "success",
	})
}

// ImportListings accepts a batch of raw listing records from the sync
// collaborator and upserts them by (user_id, item_id). Records are
// normalized independently; one bad record never blocks the rest.
// POST /api/v1/listings/import
func (h *APIHandler) ImportListings(c *gin.Context) {
	var req struct {
		UserID   uint                     `json:"user_id"`
		Listings []ebayService.RawListing `json:"listings"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.UserID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	imported := 0
	skipped := 0
	for _, raw := range req.Listings {
		if raw.ItemID == "" {
			skipped++
			continue
		}
		listing := ebayService.ToListing(req.UserID, raw)
		if err := h.db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "item_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"sku", "title", "image_url", "brand", "upc", "price", "date_listed",
				"sales", "watches", "impressions", "views", "updated_at",
			}),
		}).Create(&listing).Error; err != nil {
			log.WithError(err).WithField("item_id", raw.ItemID).Warn("import upsert failed")
			skipped++
			continue
		}
		imported++
	}

	c.JSON(http.StatusOK, gin.H{
		"code":     200,
		"imported": imported,
		"skipped":  skipped,
		"msg":      "success",
	})
}

// RunAnalysis executes one full analysis pass over the user's listings:
// supplier detection, zombie classification, then global winner
// annotation. Annotations are persisted and a run record is written.
// POST /api/v1/analysis/run
func (h *APIHandler) RunAnalysis(c *gin.Context) {
	var req struct {
		UserID  uint `json:"user_id"`
		analysis.FilterParams
		Weights *analysis.ScoreWeights `json:"weights"`
		Limit   int                    `json:"limit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.UserID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	if err := req.FilterParams.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	weights := analysis.DefaultScoreWeights()
	if req.Weights != nil {
		weights = *req.Weights
	}
	limit := req.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var signals []models.SupplierSignal
	if err := h.db.Where("enabled = ?", true).Order("signal_type, priority").Find(&signals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	rules := analysis.NewRuleSet(signals)

	var listings []models.Listing
	if err := h.db.Where("user_id = ?", req.UserID).Find(&listings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	now := time.Now().UTC()
	run := models.AnalysisRun{
		ID:             uuid.NewString(),
		UserID:         req.UserID,
		MinDaysListed:  req.MinDaysListed,
		MaxSales:       req.MaxSales,
		MaxWatchCount:  req.MaxWatchCount,
		MaxImpressions: req.MaxImpressions,
		MaxViews:       req.MaxViews,
		Status:         "running",
		StartedAt:      now,
	}

	zombies := 0
	unverified := 0
	refs := make([]*models.Listing, len(listings))
	for i := range listings {
		l := &listings[i]
		refs[i] = l

		det := rules.Detect(l)
		l.SupplierName = det.SupplierName
		l.SupplierConfidence = det.Confidence
		l.ManagementHub = det.ManagementHub
		if det.Confidence == models.ConfidenceUnverified {
			unverified++
		}

		isZombie, score := analysis.Classify(l, req.FilterParams, weights, now)
		l.IsZombie = isZombie
		l.ZombieScore = score
		if isZombie {
			zombies++
		}
	}

	// Winner annotation needs the whole tenant set at once and runs
	// after classification; it never changes is_zombie
	analysis.AnnotateGlobalWinners(refs)

	analyzedAt := now
	if err := h.db.Transaction(func(tx *gorm.DB) error {
		for i := range listings {
			l := &listings[i]
			if err := tx.Model(&models.Listing{}).Where("id = ?", l.ID).Updates(map[string]interface{}{
				"supplier_name":       l.SupplierName,
				"supplier_confidence": l.SupplierConfidence,
				"management_hub":      l.ManagementHub,
				"is_zombie":           l.IsZombie,
				"zombie_score":        l.ZombieScore,
				"is_global_winner":    l.IsGlobalWinner,
				"is_active_elsewhere": l.IsActiveElsewhere,
				"last_analyzed_at":    analyzedAt,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	finished := time.Now().UTC()
	run.TotalScanned = len(listings)
	run.TotalZombies = zombies
	run.TotalUnverified = unverified
	run.Status = "completed"
	run.FinishedAt = &finished
	if err := h.db.Create(&run).Error; err != nil {
		log.WithError(err).Warn("saving analysis run record")
	}

	// Rank qualifying listings, strongest deletion candidates first
	candidates := make([]models.Listing, 0, zombies)
	for _, l := range listings {
		if l.IsZombie {
			candidates = append(candidates, l)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ZombieScore > candidates[j].ZombieScore
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	log.WithFields(log.Fields{
		"user_id": req.UserID,
		"run_id":  run.ID,
		"scanned": run.TotalScanned,
		"zombies": zombies,
	}).Info("analysis run completed")

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"run":  run,
		"summary": gin.H{
			"total_scanned":    run.TotalScanned,
			"total_zombies":    zombies,
			"total_unverified": unverified,
		},
		"zombies": candidates,
		"msg":     "success",
	})
}

// ListAnalysisRuns returns the run history for a user
// GET /api/v1/analysis/runs?user_id=1
func (h *APIHandler) ListAnalysisRuns(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var runs []models.AnalysisRun
	if err := h.db.Where("user_id = ?", userID).
		Order("started_at DESC").Limit(50).
		Find(&runs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": runs, "msg": "success"})
}

// ListExportFormats returns the configured export schemas
// GET /api/v1/export/formats
func (h *APIHandler) ListExportFormats(c *gin.Context) {
	var specs []models.CsvFormatSpec
	if err := h.db.Preload("Columns").Order("name").Find(&specs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": specs, "msg": "success"})
}

type exportRequest struct {
	UserID  uint     `json:"user_id"`
	Format  string   `json:"format"`
	ItemIDs []string `json:"item_ids"`
}

// loadExportSelection resolves the format spec and the selected
// listings. Unknown format names are caller errors; unknown item ids
// are skipped silently since the user's selection may be stale.
func (h *APIHandler) loadExportSelection(c *gin.Context) (*models.CsvFormatSpec, []models.Listing, bool) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return nil, nil, false
	}
	if req.UserID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return nil, nil, false
	}
	if req.Format == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format is required"})
		return nil, nil, false
	}

	var spec models.CsvFormatSpec
	if err := h.db.Preload("Columns").Where("name = ?", req.Format).First(&spec).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown export format: " + req.Format})
		return nil, nil, false
	}

	var listings []models.Listing
	if len(req.ItemIDs) > 0 {
		if err := h.db.Where("user_id = ? AND item_id IN ?", req.UserID, req.ItemIDs).
			Find(&listings).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return nil, nil, false
		}
		// Preserve the user's selection order
		byItemID := make(map[string]models.Listing, len(listings))
		for _, l := range listings {
			byItemID[l.ItemID] = l
		}
		ordered := make([]models.Listing, 0, len(listings))
		for _, id := range req.ItemIDs {
			if l, ok := byItemID[id]; ok {
				ordered = append(ordered, l)
			}
		}
		listings = ordered
	}

	return &spec, listings, true
}

// ExportCSV serializes the selected listings into the target tool's CSV
// schema and returns it as a file download. An empty selection yields a
// header-only file, not an error.
// POST /api/v1/export/csv
func (h *APIHandler) ExportCSV(c *gin.Context) {
	spec, listings, ok := h.loadExportSelection(c)
	if !ok {
		return
	}

	data, err := export.GenerateCSV(listings, spec)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := export.Filename(spec, time.Now().UTC().Format("2006-01-02"), "csv")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", data)
}

// ExportXLSX is the spreadsheet flavor of ExportCSV
// POST /api/v1/export/xlsx
func (h *APIHandler) ExportXLSX(c *gin.Context) {
	spec, listings, ok := h.loadExportSelection(c)
	if !ok {
		return
	}

	data, err := export.GenerateXLSX(listings, spec)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := export.Filename(spec, time.Now().UTC().Format("2006-01-02"), "xlsx")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// ListSignals returns the supplier detection rule table
// GET /api/v1/signals
func (h *APIHandler) ListSignals(c *gin.Context) {
	var signals []models.SupplierSignal
	if err := h.db.Order("signal_type, priority").Find(&signals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": signals, "msg": "success"})
}

// CreateSignal adds a detection rule without a deploy
// POST /api/v1/signals
func (h *APIHandler) CreateSignal(c *gin.Context) {
	var signal models.SupplierSignal
	if err := c.ShouldBindJSON(&signal); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if signal.Pattern == "" || signal.SupplierName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pattern and supplier_name are required"})
		return
	}
	switch signal.SignalType {
	case models.SignalSKUPrefix, models.SignalImageDomain, models.SignalTitleKeyword:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signal_type"})
		return
	}
	switch signal.ConfidenceTier {
	case models.ConfidenceHigh, models.ConfidenceMedium, models.ConfidenceLow:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid confidence_tier"})
		return
	}
	signal.ID = 0
	signal.Enabled = true

	if err := h.db.Create(&signal).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": signal, "msg": "created"})
}

// DeleteSignal removes a detection rule
// DELETE /api/v1/signals/:id
func (h *APIHandler) DeleteSignal(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signal id"})
		return
	}
	res := h.db.Delete(&models.SupplierSignal{}, uint(id))
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "signal not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "msg": "deleted"})
}

// -------- eBay Sync Job --------

type syncJob struct {
	Running    bool       `json:"running"`
	UserID     uint       `json:"user_id"`
	Offset     int        `json:"offset"`
	Total      int        `json:"total"`
	Imported   int        `json:"imported"`
	Failed     int        `json:"failed"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`
	Error      string     `json:"error"`
}

// StartSync launches a background pull of the user's active eBay
// listings into the local store
// POST /api/v1/sync/start
func (h *APIHandler) StartSync(c *gin.Context) {
	var req struct {
		UserID uint `json:"user_id"`
	}
	_ = c.ShouldBindJSON(&req)
	if req.UserID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	var user models.User
	if err := h.db.First(&user, req.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if user.EbayToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user has no eBay token; connect the account first"})
		return
	}

	h.jobMu.Lock()
	if h.syncJob != nil && h.syncJob.Running {
		st := *h.syncJob
		h.jobMu.Unlock()
		c.JSON(http.StatusConflict, gin.H{"error": "sync already running", "status": st})
		return
	}
	job := &syncJob{Running: true, UserID: req.UserID, StartedAt: time.Now()}
	h.syncJob = job
	h.jobMu.Unlock()

	go h.runSyncJob(job, user)
	c.JSON(http.StatusOK, gin.H{"code": 200, "msg": "started", "status": job})
}

// StopSync requests the running job to stop after the current page
// POST /api/v1/sync/stop
func (h *APIHandler) StopSync(c *gin.Context) {
	h.jobMu.Lock()
	defer h.jobMu.Unlock()
	if h.syncJob == nil || !h.syncJob.Running {
		c.JSON(http.StatusOK, gin.H{"code": 200, "msg": "no running job"})
		return
	}
	h.syncJob.Running = false
	c.JSON(http.StatusOK, gin.H{"code": 200, "msg": "stopping"})
}

// SyncStatus reports the current or last job state
// GET /api/v1/sync/status
func (h *APIHandler) SyncStatus(c *gin.Context) {
	st := h.snapshotJob()
	if st == nil {
		c.JSON(http.StatusOK, gin.H{"code": 200, "status": gin.H{"running": false}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "status": st})
}

func (h *APIHandler) snapshotJob() *syncJob {
	h.jobMu.Lock()
	defer h.jobMu.Unlock()
	if h.syncJob == nil {
		return nil
	}
	cp := *h.syncJob
	return &cp
}

func (h *APIHandler) runSyncJob(job *syncJob, user models.User) {
	const pageSize = 100
	offset := 0

	for {
		h.jobMu.Lock()
		if h.syncJob != job || !job.Running {
			h.jobMu.Unlock()
			break
		}
		job.Offset = offset
		h.jobMu.Unlock()

		raws, total, err := h.ebayService.FetchActiveListings(user.EbayToken, offset, pageSize)
		if err != nil {
			h.jobMu.Lock()
			job.Failed++
			job.Error = err.Error()
			h.jobMu.Unlock()
			log.WithError(err).WithField("user_id", user.ID).Warn("sync page fetch failed")
			break
		}

		h.jobMu.Lock()
		job.Total = total
		h.jobMu.Unlock()

		for _, raw := range raws {
			if raw.ItemID == "" {
				continue
			}
			listing := ebayService.ToListing(user.ID, raw)
			if err := h.db.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "user_id"}, {Name: "item_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"sku", "title", "image_url", "brand", "upc", "price", "date_listed",
					"sales", "watches", "impressions", "views", "updated_at",
				}),
			}).Create(&listing).Error; err != nil {
				h.jobMu.Lock()
				job.Failed++
				h.jobMu.Unlock()
				continue
			}
			h.jobMu.Lock()
			job.Imported++
			h.jobMu.Unlock()
		}

		offset += pageSize
		if len(raws) == 0 || offset >= total {
			break
		}
	}

	h.jobMu.Lock()
	if h.syncJob == job {
		job.Running = false
		now := time.Now()
		job.FinishedAt = &now
	}
	h.jobMu.Unlock()
}

// -------- Progress WebSocket --------

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ProgressWS pushes the sync job state to the client once per second so
// the dashboard can render live progress without polling
// GET /api/v1/ws/progress
func (h *APIHandler) ProgressWS(c *gin.Context) {
	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		st := h.snapshotJob()
		payload := gin.H{"running": false}
		if st != nil {
			payload = gin.H{"running": st.Running, "status": st}
		}
		if err := conn.WriteJSON(payload); err != nil {
			return
		}
		if st == nil || !st.Running {
			// send one final frame after completion, then close
			return
		}
	}
}
