/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model (decimal amounts, pointer optionals) from the
  external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  Amounts cross the wire as JSON numbers. Internally everything is
  decimal.Decimal; conversion happens at the DTO boundary only.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

// =============================================================================
// ACCOUNTS
// =============================================================================

// AccountDTO represents an account in API responses.
type AccountDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CreateAccountRequest is the request to create an account.
type CreateAccountRequest struct {
	Name string `json:"name"`
}

// RenameAccountRequest is the request to rename an account.
type RenameAccountRequest struct {
	Name string `json:"name"`
}

// =============================================================================
// VALUE RECORDS
// =============================================================================

// ValueRecordDTO represents an observed balance snapshot.
type ValueRecordDTO struct {
	ID        int64   `json:"id"`
	AccountID int64   `json:"account_id"`
	Value     float64 `json:"value"`
	Date      string  `json:"date"`
}

// CreateValueRecordRequest is the request to record a value.
type CreateValueRecordRequest struct {
	AccountID int64   `json:"account_id"`
	Value     float64 `json:"value"`
	Date      string  `json:"date"`
}

// =============================================================================
// CONTRIBUTIONS
// =============================================================================

// ContributionDTO represents a planned future contribution.
type ContributionDTO struct {
	ID        int64   `json:"id"`
	AccountID *int64  `json:"account_id,omitempty"`
	Amount    float64 `json:"amount"`
	Date      *string `json:"date,omitempty"`
	Recurring bool    `json:"recurring"`
}

// CreateContributionRequest is the request to declare a contribution.
// Recurring contributions replace any existing recurring entry for the same
// account (store upsert contract).
type CreateContributionRequest struct {
	AccountID *int64  `json:"account_id,omitempty"`
	Amount    float64 `json:"amount"`
	Date      *string `json:"date,omitempty"`
	Recurring bool    `json:"recurring"`
}

// =============================================================================
// SUMMARY / SETTINGS
// =============================================================================

// AccountSummaryDTO is one account's latest observed value.
type AccountSummaryDTO struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

// SummaryDTO is the current total plus per-account breakdown.
type SummaryDTO struct {
	Total    float64             `json:"total"`
	Target   *float64            `json:"target,omitempty"`
	Accounts []AccountSummaryDTO `json:"accounts"`
}

// SettingsDTO represents the app settings.
type SettingsDTO struct {
	TotalTarget *float64 `json:"total_target,omitempty"`
}

// UpdateSettingsRequest is the request to set the savings target.
type UpdateSettingsRequest struct {
	TotalTarget float64 `json:"total_target"`
}

// =============================================================================
// FORECAST
// =============================================================================

// ForecastRequest selects the projection horizon and optional per-account
// what-if overrides. Override values are strings straight from form input;
// values that do not parse as numbers fall back to the account's baseline
// rate.
type ForecastRequest struct {
	Months    int              `json:"months,omitempty"`
	Overrides map[int64]string `json:"overrides,omitempty"`
}

// ProjectionRowDTO is one emitted month of the projection.
type ProjectionRowDTO struct {
	Label    string  `json:"label"`
	Baseline float64 `json:"baseline"`
	Adjusted float64 `json:"adjusted"`
}

// AccountRateDTO is one account's recurring monthly rate, with the effective
// override if one is active.
type AccountRateDTO struct {
	AccountID int64    `json:"account_id"`
	Name      string   `json:"name"`
	Rate      float64  `json:"rate"`
	Override  *float64 `json:"override,omitempty"`
}

// ForecastDTO is the full projection response.
type ForecastDTO struct {
	Months         int                `json:"months"`
	StartingTotal  float64            `json:"starting_total"`
	BaselineRate   float64            `json:"baseline_rate"`
	AdjustedRate   float64            `json:"adjusted_rate"`
	HasOverride    bool               `json:"has_override"`
	Rows           []ProjectionRowDTO `json:"rows"`
	AccountRates   []AccountRateDTO   `json:"account_rates"`
	BaselineMonths *int               `json:"baseline_months_to_target,omitempty"`
	AdjustedMonths *int               `json:"adjusted_months_to_target,omitempty"`
	MonthsSooner   *int               `json:"months_sooner,omitempty"`
}

// =============================================================================
// HISTORY / CHANGES
// =============================================================================

// HistoryRowDTO is one month of the reconstructed series. Values is keyed by
// account id.
type HistoryRowDTO struct {
	Label  string            `json:"label"`
	Values map[int64]float64 `json:"values"`
}

// ChangeDTO is one account's trailing-window change.
type ChangeDTO struct {
	AccountID     int64    `json:"account_id"`
	Name          string   `json:"name"`
	Change        float64  `json:"change"`
	PercentChange *float64 `json:"percent_change,omitempty"`
}

// =============================================================================
// SCENARIOS / ERRORS
// =============================================================================

// ScenarioDTO describes a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
