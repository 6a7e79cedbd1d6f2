/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:
  Provides pre-built scenarios that populate the database with realistic
  data for testing and demos. Each scenario creates accounts, value history,
  contributions, and a target that demonstrate specific features.

AVAILABLE SCENARIOS:
  fresh-start:       Empty database with default settings
  two-account-saver: Two accounts with monthly history, recurring
                     contributions, a one-off, and a target
  target-in-sight:   A single account close to its target

NOTE:
  Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: writeJSON/writeError helpers
  - server.go: Scenario routes
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/hearth/savings-engine/forecast"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "fresh-start",
		Name:        "Fresh Start",
		Description: "Empty database with default settings",
	},
	{
		ID:          "two-account-saver",
		Name:        "Two-Account Saver",
		Description: "Two accounts with history, recurring contributions, a one-off, and a target",
	},
	{
		ID:          "target-in-sight",
		Name:        "Target In Sight",
		Description: "A single account a few months away from its target",
	},
}

// ListScenarios returns the available demo scenarios.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"scenarios": scenarios,
		"current":   h.currentScenario,
	})
}

// LoadScenario resets the database and loads the requested scenario.
// POST /api/scenarios/load
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}

	var err error
	switch req.ScenarioID {
	case "fresh-start":
		// Reset is the whole scenario; GetSettings recreates the default row.
		_, err = h.Store.GetSettings(ctx)
	case "two-account-saver":
		err = h.loadTwoAccountSaver(ctx)
	case "target-in-sight":
		err = h.loadTargetInSight(ctx)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario: %s", req.ScenarioID), nil)
		return
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]string{"loaded": req.ScenarioID})
}

// ResetDatabase clears all data.
// POST /api/scenarios/reset
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadTwoAccountSaver(ctx context.Context) error {
	now := h.now()

	easyAccess, err := h.Store.CreateAccount(ctx, "Easy Access Saver")
	if err != nil {
		return err
	}
	fixedRate, err := h.Store.CreateAccount(ctx, "1-Year Fixed Rate")
	if err != nil {
		return err
	}

	// Six months of snapshots for each account, oldest first.
	easyValues := []float64{12000, 12350, 12700, 13080, 13420, 13800}
	fixedValues := []float64{20000, 20000, 20050, 20050, 20100, 20100}
	for i := 0; i < 6; i++ {
		date := now.AddDate(0, i-5, 0)
		_, err := h.Store.CreateValueRecord(ctx, forecast.ValueRecord{
			AccountID: easyAccess.ID,
			Value:     decimal.NewFromFloat(easyValues[i]),
			Date:      date,
		})
		if err != nil {
			return err
		}
		_, err = h.Store.CreateValueRecord(ctx, forecast.ValueRecord{
			AccountID: fixedRate.ID,
			Value:     decimal.NewFromFloat(fixedValues[i]),
			Date:      date,
		})
		if err != nil {
			return err
		}
	}

	// Recurring monthly contribution into the easy-access account only; the
	// fixed-rate account takes no new money until maturity.
	accountID := easyAccess.ID
	_, err = h.Store.CreateFutureContribution(ctx, forecast.FutureContribution{
		AccountID: &accountID,
		Amount:    decimal.NewFromFloat(350),
		Recurring: true,
	})
	if err != nil {
		return err
	}

	// A one-off bonus three months out.
	bonusDate := now.AddDate(0, 3, 0)
	_, err = h.Store.CreateFutureContribution(ctx, forecast.FutureContribution{
		AccountID: &accountID,
		Amount:    decimal.NewFromFloat(2000),
		Date:      &bonusDate,
	})
	if err != nil {
		return err
	}

	return h.Store.UpdateTarget(ctx, decimal.NewFromInt(50000))
}

func (h *Handler) loadTargetInSight(ctx context.Context) error {
	now := h.now()

	account, err := h.Store.CreateAccount(ctx, "House Deposit")
	if err != nil {
		return err
	}

	for i, v := range []float64{18200, 18800, 19400} {
		_, err := h.Store.CreateValueRecord(ctx, forecast.ValueRecord{
			AccountID: account.ID,
			Value:     decimal.NewFromFloat(v),
			Date:      now.AddDate(0, i-2, 0),
		})
		if err != nil {
			return err
		}
	}

	accountID := account.ID
	_, err = h.Store.CreateFutureContribution(ctx, forecast.FutureContribution{
		AccountID: &accountID,
		Amount:    decimal.NewFromFloat(600),
		Recurring: true,
	})
	if err != nil {
		return err
	}

	return h.Store.UpdateTarget(ctx, decimal.NewFromInt(21000))
}
