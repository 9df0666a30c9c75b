package suggest

// Request is the payload for POST /api/v1/suggestions. Field names mirror the
// web client's payload, which mixes camelCase and snake_case historically.
type Request struct {
	PlanType     string `json:"planType"`
	Participants string `json:"participants"`
	Duration     string `json:"duration"`
	Location     string `json:"location"`
	BudgetRange  string `json:"budget_range"`
	Preferences  string `json:"preferences"`
	UserID       string `json:"userId"`
}

// requiredFields in the order they are reported when missing.
var requiredFields = []string{"planType", "participants", "duration", "location", "userId"}

func (r Request) fieldSet() map[string]string {
	return map[string]string{
		"planType":     r.PlanType,
		"participants": r.Participants,
		"duration":     r.Duration,
		"location":     r.Location,
		"userId":       r.UserID,
	}
}

// MissingFields returns required fields that are empty, in a stable order.
func (r Request) MissingFields() []string {
	set := r.fieldSet()
	var missing []string
	for _, f := range requiredFields {
		if set[f] == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// Received reports presence of each required field, echoed back on
// validation failures so the client can see what the server parsed.
func (r Request) Received() map[string]bool {
	set := r.fieldSet()
	out := make(map[string]bool, len(requiredFields))
	for _, f := range requiredFields {
		out[f] = set[f] != ""
	}
	return out
}

// DailyUsage is the per-day usage snapshot included in API responses.
type DailyUsage struct {
	Used      int `json:"used"`
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`
}

// Usage wraps the daily snapshot. Kept as a nested object so additional
// windows can be added without breaking clients.
type Usage struct {
	Daily DailyUsage `json:"daily"`
}

// GenerateResponse is the success body for POST /api/v1/suggestions.
type GenerateResponse struct {
	Success    bool   `json:"success"`
	Suggestion string `json:"suggestion"`
	Usage      Usage  `json:"usage"`
}

// QuotaResponse is the body for GET /api/v1/suggestions/quota.
type QuotaResponse struct {
	Success bool  `json:"success"`
	Usage   Usage `json:"usage"`
}

// ErrorResponse is the body for all non-2xx suggestion responses.
type ErrorResponse struct {
	Success  bool            `json:"success"`
	Error    string          `json:"error"`
	Message  string          `json:"message,omitempty"`
	Details  string          `json:"details,omitempty"`
	Received map[string]bool `json:"received,omitempty"`
	Usage    *Usage          `json:"usage,omitempty"`
}
