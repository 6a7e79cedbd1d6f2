/*
handlers.go - HTTP API handlers for the savings tracker

PURPOSE:
  Exposes the savings tracking and forecasting engine via REST API. Handles
  HTTP request/response, JSON serialization, and delegates to the forecast
  package and the store.

ENDPOINTS:
  Accounts:
    GET    /api/accounts               List all accounts
    POST   /api/accounts               Create account
    PATCH  /api/accounts/{id}          Rename account
    DELETE /api/accounts/{id}          Delete account (cascades)

  Values:
    GET    /api/values                 List value records (date order)
    POST   /api/values                 Record an observed value
    DELETE /api/values/{id}            Delete a value record

  Contributions:
    GET    /api/contributions          List future contributions
    POST   /api/contributions          Declare a contribution (recurring upserts)
    DELETE /api/contributions/{id}     Delete a contribution

  Computed:
    GET    /api/summary                Current total + per-account latest values
    POST   /api/forecast               Projection, rates, months-to-target
    GET    /api/history                Monthly step-function series per account
    GET    /api/changes                30-day change per account

  Settings:
    GET    /api/settings               Current target
    PUT    /api/settings               Set target

REQUEST FLOW:
  1. Parse HTTP request
  2. Gather store snapshot (concurrent reads)
  3. Call forecast functions
  4. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid input (bad id, bad date, out-of-range horizon)
  - 404: Resource not found
  - 500: Internal errors
  Malformed what-if override values are NOT errors: they silently fall back
  to the account's baseline rate.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/hearth/savings-engine/forecast"
	"github.com/hearth/savings-engine/store/sqlite"
)

const dateLayout = "2006-01-02"

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store *sqlite.Store

	// now is injectable for deterministic tests.
	now func() time.Time

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store: store,
		now:   time.Now,
	}
}

// =============================================================================
// ACCOUNT HANDLERS
// =============================================================================

// ListAccounts returns all accounts.
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.Store.ListAccounts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list accounts", err)
		return
	}

	dtos := make([]AccountDTO, len(accounts))
	for i, a := range accounts {
		dtos[i] = AccountDTO{ID: a.ID, Name: a.Name}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateAccount creates a new account.
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "Account name is required", nil)
		return
	}

	a, err := h.Store.CreateAccount(r.Context(), req.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create account", err)
		return
	}
	writeJSON(w, http.StatusCreated, AccountDTO{ID: a.ID, Name: a.Name})
}

// RenameAccount updates an account's name.
func (h *Handler) RenameAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid account id", err)
		return
	}

	var req RenameAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	a, err := h.Store.RenameAccount(r.Context(), id, req.Name)
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Account not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to rename account", err)
		return
	}
	writeJSON(w, http.StatusOK, AccountDTO{ID: a.ID, Name: a.Name})
}

// DeleteAccount deletes an account and everything attached to it.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid account id", err)
		return
	}

	err = h.Store.DeleteAccount(r.Context(), id)
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Account not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete account", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// VALUE RECORD HANDLERS
// =============================================================================

// ListValues returns all value records in date order.
func (h *Handler) ListValues(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListValueRecords(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list values", err)
		return
	}

	dtos := make([]ValueRecordDTO, len(records))
	for i, rec := range records {
		dtos[i] = toValueRecordDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateValue records an observed account value.
func (h *Handler) CreateValue(w http.ResponseWriter, r *http.Request) {
	var req CreateValueRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	rec, err := h.Store.CreateValueRecord(r.Context(), forecast.ValueRecord{
		AccountID: req.AccountID,
		Value:     decimal.NewFromFloat(req.Value),
		Date:      date,
	})
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Account not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create value record", err)
		return
	}
	writeJSON(w, http.StatusCreated, toValueRecordDTO(rec))
}

// DeleteValue deletes one value record.
func (h *Handler) DeleteValue(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid value id", err)
		return
	}

	err = h.Store.DeleteValueRecord(r.Context(), id)
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Value record not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete value record", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// CONTRIBUTION HANDLERS
// =============================================================================

// ListContributions returns all future contributions.
func (h *Handler) ListContributions(w http.ResponseWriter, r *http.Request) {
	contribs, err := h.Store.ListFutureContributions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list contributions", err)
		return
	}

	dtos := make([]ContributionDTO, len(contribs))
	for i, c := range contribs {
		dtos[i] = toContributionDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateContribution declares a future contribution. Posting a recurring
// contribution replaces any existing recurring entry for the same account.
func (h *Handler) CreateContribution(w http.ResponseWriter, r *http.Request) {
	var req CreateContributionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	c := forecast.FutureContribution{
		AccountID: req.AccountID,
		Amount:    decimal.NewFromFloat(req.Amount),
		Recurring: req.Recurring,
	}
	if req.Date != nil {
		date, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
			return
		}
		c.Date = &date
	}

	created, err := h.Store.CreateFutureContribution(r.Context(), c)
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Account not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create contribution", err)
		return
	}
	writeJSON(w, http.StatusCreated, toContributionDTO(created))
}

// DeleteContribution deletes one contribution.
func (h *Handler) DeleteContribution(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid contribution id", err)
		return
	}

	err = h.Store.DeleteFutureContribution(r.Context(), id)
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Contribution not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete contribution", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// SUMMARY / SETTINGS HANDLERS
// =============================================================================

// GetSummary returns the current total and per-account latest values.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	snap, err := forecast.Gather(r.Context(), h.Store)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load data", err)
		return
	}

	latest := forecast.LatestValues(snap.Accounts, snap.Values)
	total := decimal.Zero
	accounts := make([]AccountSummaryDTO, len(snap.Accounts))
	for i, a := range snap.Accounts {
		v := latest[a.ID]
		total = total.Add(v)
		vf, _ := v.Float64()
		accounts[i] = AccountSummaryDTO{ID: a.ID, Name: a.Name, Total: vf}
	}

	totalF, _ := total.Float64()
	dto := SummaryDTO{Total: totalF, Accounts: accounts}
	if snap.Settings.TotalTarget != nil {
		t, _ := snap.Settings.TotalTarget.Float64()
		dto.Target = &t
	}
	writeJSON(w, http.StatusOK, dto)
}

// GetSettings returns the app settings.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Store.GetSettings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}

	var dto SettingsDTO
	if settings.TotalTarget != nil {
		t, _ := settings.TotalTarget.Float64()
		dto.TotalTarget = &t
	}
	writeJSON(w, http.StatusOK, dto)
}

// UpdateSettings sets the total savings target.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.TotalTarget <= 0 {
		writeError(w, http.StatusBadRequest, "Target must be positive", nil)
		return
	}

	if err := h.Store.UpdateTarget(r.Context(), decimal.NewFromFloat(req.TotalTarget)); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update settings", err)
		return
	}
	writeJSON(w, http.StatusOK, SettingsDTO{TotalTarget: &req.TotalTarget})
}

// =============================================================================
// FORECAST HANDLER
// =============================================================================

// Forecast computes the projection for the requested horizon with optional
// per-account what-if overrides.
func (h *Handler) Forecast(w http.ResponseWriter, r *http.Request) {
	var req ForecastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Months == 0 {
		req.Months = forecast.DefaultHorizon
	}
	if !forecast.ValidHorizon(req.Months) {
		writeError(w, http.StatusBadRequest, "Invalid forecast horizon", nil)
		return
	}

	snap, err := forecast.Gather(r.Context(), h.Store)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load data", err)
		return
	}

	// Values that don't parse fall back to the account's baseline rate.
	overrides := make(map[int64]decimal.Decimal)
	for accountID, raw := range req.Overrides {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		v, err := decimal.NewFromString(raw)
		if err != nil {
			continue
		}
		overrides[accountID] = v
	}

	startingTotal := forecast.CurrentTotal(snap.Accounts, snap.Values)
	baselineRate := forecast.TotalMonthlyRate(snap.Contributions)
	adjustedRate := forecast.AdjustedTotalRate(snap.Accounts, snap.Contributions, overrides)

	in := forecast.ProjectionInput{
		StartingTotal: startingTotal,
		Months:        forecast.NextMonths(req.Months, h.now()),
		BaselineRate:  baselineRate,
		AdjustedRate:  adjustedRate,
		OneOffs:       forecast.OneOffsByMonth(snap.Contributions),
	}
	projRows := forecast.Project(in)

	rows := make([]ProjectionRowDTO, len(projRows))
	for i, row := range projRows {
		b, _ := row.Baseline.Float64()
		a, _ := row.Adjusted.Float64()
		rows[i] = ProjectionRowDTO{Label: row.Label, Baseline: b, Adjusted: a}
	}

	rates := forecast.AccountRates(snap.Accounts, snap.Contributions)
	rateDTOs := make([]AccountRateDTO, len(snap.Accounts))
	for i, a := range snap.Accounts {
		rf, _ := rates[a.ID].Float64()
		dto := AccountRateDTO{AccountID: a.ID, Name: a.Name, Rate: rf}
		if v, ok := overrides[a.ID]; ok {
			vf, _ := v.Float64()
			dto.Override = &vf
		}
		rateDTOs[i] = dto
	}

	baseF, _ := baselineRate.Float64()
	adjF, _ := adjustedRate.Float64()
	startF, _ := startingTotal.Float64()

	out := ForecastDTO{
		Months:        req.Months,
		StartingTotal: startF,
		BaselineRate:  baseF,
		AdjustedRate:  adjF,
		HasOverride:   in.HasOverride(),
		Rows:          rows,
		AccountRates:  rateDTOs,
	}

	est := forecast.CompareToTarget(startingTotal, snap.Settings.TotalTarget, baselineRate, adjustedRate)
	if est.BaselineOK {
		out.BaselineMonths = &est.BaselineMonths
	}
	if est.AdjustedOK {
		out.AdjustedMonths = &est.AdjustedMonths
	}
	if est.BaselineOK && est.AdjustedOK {
		out.MonthsSooner = &est.MonthsSooner
	}

	writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// HISTORY / CHANGE HANDLERS
// =============================================================================

// GetHistory returns the monthly step-function series per account.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	snap, err := forecast.Gather(r.Context(), h.Store)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load data", err)
		return
	}

	series := forecast.HistoricalSeries(snap.Accounts, snap.Values, h.now())
	dtos := make([]HistoryRowDTO, len(series))
	for i, row := range series {
		values := make(map[int64]float64, len(row.Values))
		for id, v := range row.Values {
			values[id], _ = v.Float64()
		}
		dtos[i] = HistoryRowDTO{Label: row.Label, Values: values}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetChanges returns each account's 30-day value change.
func (h *Handler) GetChanges(w http.ResponseWriter, r *http.Request) {
	snap, err := forecast.Gather(r.Context(), h.Store)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load data", err)
		return
	}

	now := h.now()
	dtos := make([]ChangeDTO, len(snap.Accounts))
	for i, a := range snap.Accounts {
		wc := forecast.ChangeOverWindow(snap.Values, a.ID, now, forecast.DefaultChangeWindow)
		cf, _ := wc.Change.Float64()
		dto := ChangeDTO{AccountID: a.ID, Name: a.Name, Change: cf}
		if wc.PercentOK {
			pf, _ := wc.Percent.Float64()
			dto.PercentChange = &pf
		}
		dtos[i] = dto
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func toValueRecordDTO(rec forecast.ValueRecord) ValueRecordDTO {
	v, _ := rec.Value.Float64()
	return ValueRecordDTO{
		ID:        rec.ID,
		AccountID: rec.AccountID,
		Value:     v,
		Date:      rec.Date.Format(dateLayout),
	}
}

func toContributionDTO(c forecast.FutureContribution) ContributionDTO {
	amount, _ := c.Amount.Float64()
	dto := ContributionDTO{
		ID:        c.ID,
		AccountID: c.AccountID,
		Amount:    amount,
		Recurring: c.Recurring,
	}
	if c.Date != nil {
		d := c.Date.Format(dateLayout)
		dto.Date = &d
	}
	return dto
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
