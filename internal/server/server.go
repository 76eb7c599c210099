// Package server exposes the takeoff pipeline over a JSON HTTP API. The API
// is stateless: every request carries the site parameters and assumptions and
// receives the fully derived estimate and pro forma.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/landtakeoffs/land-takeoffs/internal/estimate"
	"github.com/landtakeoffs/land-takeoffs/internal/proforma"
	"github.com/landtakeoffs/land-takeoffs/internal/session"
	"github.com/landtakeoffs/land-takeoffs/internal/sitespec"
	"github.com/landtakeoffs/land-takeoffs/pkg/constants"
	"github.com/landtakeoffs/land-takeoffs/pkg/mathutil"
	"github.com/landtakeoffs/land-takeoffs/pkg/output"
	"github.com/landtakeoffs/land-takeoffs/pkg/pricebook"
	"go.uber.org/zap"
)

type handler struct {
	logger      *zap.Logger
	maxBodySize int64
	version     string
	catalog     *pricebook.Catalog
}

// NewHandler constructs the HTTP handler that serves the takeoff API.
func NewHandler(logger *zap.Logger, maxBodySize int64, version string, catalog *pricebook.Catalog) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}
	if catalog == nil {
		catalog = pricebook.Default()
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxBodySize: maxBodySize, version: trimmedVersion, catalog: catalog}

	mux := http.NewServeMux()

	// Estimate template (price book) for UIs seeding an estimate form
	mux.HandleFunc("/api/template", h.handleTemplate)

	// Full pipeline: site parameters in, estimate + pro forma out
	mux.HandleFunc("/api/estimate", h.handleEstimate)

	// Delimited export endpoints
	mux.HandleFunc("/api/export/estimate", h.handleExportEstimate)
	mux.HandleFunc("/api/export/proforma", h.handleExportProforma)

	// Service metadata
	mux.HandleFunc("/api/health", h.handleHealth)
	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

// estimateRequest is the payload shared by the estimate and export endpoints.
type estimateRequest struct {
	Project     string                  `json:"project"`
	Site        sitespec.SiteParameters `json:"site"`
	Assumptions *sitespec.Assumptions   `json:"assumptions,omitempty"`
	Prices      map[string]float64      `json:"prices,omitempty"`
}

type estimateResponse struct {
	Project        string              `json:"project"`
	Session        string              `json:"session"`
	Allocation     estimate.Allocation `json:"allocation"`
	Sections       []sectionView       `json:"sections"`
	Totals         totalsView          `json:"totals"`
	ProformaInputs proforma.Inputs     `json:"proformaInputs"`
	ProformaResult proforma.Result     `json:"proformaResult"`
	Warnings       []string            `json:"warnings,omitempty"`
	Duration       string              `json:"duration"`
}

type sectionView struct {
	Category pricebook.Category `json:"category"`
	Items    []lineItemView     `json:"items"`
	Subtotal float64            `json:"subtotal"`
}

type lineItemView struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Unit        string  `json:"unit"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Amount      float64 `json:"amount"`
}

type totalsView struct {
	GrandTotal  float64           `json:"grandTotal"`
	CostPerLot  mathutil.Quotient `json:"costPerLot"`
	CostPerAcre mathutil.Quotient `json:"costPerAcre"`
}

type templateResponse struct {
	Categories  []templateSection `json:"categories"`
	SepticItems []pricebook.Item  `json:"septicItems"`
}

type templateSection struct {
	Category pricebook.Category `json:"category"`
	Items    []pricebook.Item   `json:"items"`
}

func (h *handler) handleTemplate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	response := templateResponse{SepticItems: h.catalog.SepticItems()}
	for _, cat := range pricebook.Categories() {
		response.Categories = append(response.Categories, templateSection{
			Category: cat,
			Items:    h.catalog.Items(cat),
		})
	}

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleEstimate(w http.ResponseWriter, r *http.Request) {
	op := "server.handleEstimate"
	sess, warnings, start, ok := h.runPipeline(w, r, op)
	if !ok {
		return
	}

	elapsed := time.Since(start)
	response := estimateResponse{
		Project:        sess.Project,
		Session:        sess.ID,
		Allocation:     sess.Allocation(),
		Sections:       buildSections(sess.Sections()),
		Totals:         buildTotals(sess.Totals()),
		ProformaInputs: sess.ProformaInputs(),
		ProformaResult: sess.ProformaResult(),
		Warnings:       warnings,
		Duration:       elapsed.String(),
	}

	h.logger.Info("estimate computed",
		zap.String("op", op),
		zap.String("session", sess.ID),
		zap.Int("lotCount", response.Allocation.LotCount),
		zap.Float64("grandTotal", response.Totals.GrandTotal),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleExportEstimate(w http.ResponseWriter, r *http.Request) {
	op := "server.handleExportEstimate"
	sess, _, _, ok := h.runPipeline(w, r, op)
	if !ok {
		return
	}

	csvString := output.EstimateCsvString(sess.Project, sess.Sections(), sess.Totals())
	h.writeJSON(w, http.StatusOK, map[string]string{"csv": csvString})
}

func (h *handler) handleExportProforma(w http.ResponseWriter, r *http.Request) {
	op := "server.handleExportProforma"
	sess, _, _, ok := h.runPipeline(w, r, op)
	if !ok {
		return
	}

	csvString := output.ProformaCsvString(sess.ProformaInputs(), sess.ProformaResult())
	h.writeJSON(w, http.StatusOK, map[string]string{"csv": csvString})
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"version": h.version})
}

// runPipeline decodes the shared request payload and builds a session from
// it. On failure it writes the error response and returns ok=false.
func (h *handler) runPipeline(w http.ResponseWriter, r *http.Request, op string) (*session.Session, []string, time.Time, bool) {
	start := time.Now()

	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return nil, nil, start, false
	}

	if h.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}

	var payload estimateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxBodySize), op)
			return nil, nil, start, false
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return nil, nil, start, false
	}

	payload.Site.Normalize()
	if payload.Project == "" {
		payload.Project = "Untitled Project"
	}
	if payload.Site.SewerType == "" {
		payload.Site.SewerType = sitespec.SewerPublic
	}
	if payload.Site.CurbType == "" {
		payload.Site.CurbType = sitespec.CurbStandard
	}

	assumptions := sitespec.DefaultAssumptions()
	if payload.Assumptions != nil {
		assumptions = *payload.Assumptions
	}

	conf := sitespec.Configuration{
		Project:     payload.Project,
		Site:        payload.Site,
		Assumptions: assumptions,
		Prices:      payload.Prices,
	}
	warnings := conf.ValidateConfiguration()

	catalog := h.catalog.Clone()
	if len(payload.Prices) > 0 {
		unknown, err := catalog.ApplyOverrides(payload.Prices)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, err.Error(), op)
			return nil, nil, start, false
		}
		for _, code := range unknown {
			warnings = append(warnings, fmt.Sprintf("price override for unknown item %s ignored", code))
		}
	}

	sess, err := session.New(h.logger, payload.Project, catalog, payload.Site, assumptions)
	if err != nil {
		status := http.StatusBadRequest
		if !errors.Is(err, sitespec.ErrInvalidInput) && !errors.Is(err, sitespec.ErrInvalidEnum) {
			status = http.StatusInternalServerError
		}
		h.respondError(w, status, err.Error(), op)
		return nil, nil, start, false
	}

	return sess, warnings, start, true
}

func buildSections(sections []estimate.Section) []sectionView {
	views := make([]sectionView, 0, len(sections))
	for _, section := range sections {
		view := sectionView{
			Category: section.Category,
			Subtotal: section.Subtotal(),
			Items:    make([]lineItemView, 0, len(section.Items)),
		}
		for _, item := range section.Items {
			view.Items = append(view.Items, lineItemView{
				Code:        item.Code,
				Description: item.Description,
				Unit:        item.Unit,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				Amount:      item.Total(),
			})
		}
		views = append(views, view)
	}
	return views
}

func buildTotals(totals estimate.Totals) totalsView {
	return totalsView{
		GrandTotal:  totals.GrandTotal,
		CostPerLot:  totals.CostPerLot,
		CostPerAcre: totals.CostPerAcre,
	}
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
