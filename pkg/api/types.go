package api

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Bind   string
	Port   int
	APIKey string
}

// APIResponse is the envelope for all JSON responses.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// InsertResponse reports the RID assigned to an inserted record.
type InsertResponse struct {
	RID string `json:"rid"`
}

// RecordResponse is one decoded record and its RID.
type RecordResponse struct {
	RID    string         `json:"rid"`
	Record map[string]any `json:"record"`
}

// ScanResponse lists the live records of a table. Skipped counts slots whose
// bytes failed to decode against the table schema.
type ScanResponse struct {
	Table   string           `json:"table"`
	Records []RecordResponse `json:"records"`
	Skipped int              `json:"skipped,omitempty"`
}

// QueryRequest carries one statement for the query endpoint.
type QueryRequest struct {
	Statement string `json:"statement"`
}

// QueryRow is one row of a SELECT result.
type QueryRow struct {
	RID    string         `json:"rid"`
	Values map[string]any `json:"values"`
}

// QueryResponse is the result of one statement: RID for INSERT, fields and
// rows for SELECT.
type QueryResponse struct {
	RID    string     `json:"rid,omitempty"`
	Fields []string   `json:"fields,omitempty"`
	Rows   []QueryRow `json:"rows,omitempty"`
}

// HealthResponse reports server health and the open tables.
type HealthResponse struct {
	Status string   `json:"status"`
	Tables []string `json:"tables"`
}
