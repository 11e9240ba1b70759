package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/ssargent/valkyrdb/pkg/catalog"
	"github.com/ssargent/valkyrdb/pkg/codec"
	"github.com/ssargent/valkyrdb/pkg/heap"
	"github.com/ssargent/valkyrdb/pkg/query"
	"github.com/ssargent/valkyrdb/pkg/table"
)

// Server handles the REST API over one catalog of open tables.
type Server struct {
	catalog *catalog.Catalog
	engine  *query.Engine
	config  ServerConfig
	metrics *Metrics
	log     logrus.FieldLogger
}

// NewServer creates a new API server.
func NewServer(c *catalog.Catalog, config ServerConfig, metrics *Metrics, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{
		catalog: c,
		engine:  query.NewEngine(c, log),
		config:  config,
		metrics: metrics,
		log:     log,
	}
}

// statusFor maps an operation error to an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrUnknownTable),
		errors.Is(err, heap.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, heap.ErrBadRID),
		errors.Is(err, codec.ErrMissingField),
		errors.Is(err, codec.ErrExtraField),
		errors.Is(err, codec.ErrTypeMismatch),
		errors.Is(err, codec.ErrSizeMismatch),
		errors.Is(err, query.ErrSyntax):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) tableFor(w http.ResponseWriter, r *http.Request) (*table.Table, bool) {
	name := chi.URLParam(r, "table")
	tbl, err := s.catalog.Table(name)
	if err != nil {
		sendError(w, err.Error(), statusFor(err))
		return nil, false
	}
	return tbl, true
}

// handleInsert inserts one record, supplied as a JSON object of field
// values, and returns the assigned RID.
func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	tbl, ok := s.tableFor(w, r)
	if !ok {
		return
	}

	var values map[string]any
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		sendError(w, "Invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := codec.FromNative(tbl.Schema(), values)
	if err != nil {
		s.metrics.RecordTableOperation("insert", false)
		sendError(w, err.Error(), statusFor(err))
		return
	}

	rid, err := tbl.Insert(rec)
	if err != nil {
		s.metrics.RecordTableOperation("insert", false)
		sendError(w, err.Error(), statusFor(err))
		return
	}

	s.metrics.RecordTableOperation("insert", true)
	sendSuccess(w, InsertResponse{RID: rid.String()})
}

// handleGet fetches and decodes one record by RID.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	tbl, ok := s.tableFor(w, r)
	if !ok {
		return
	}

	rid, err := heap.ParseRID(chi.URLParam(r, "rid"))
	if err != nil {
		sendError(w, err.Error(), statusFor(err))
		return
	}

	rec, err := tbl.Get(rid)
	if err != nil {
		s.metrics.RecordTableOperation("get", false)
		sendError(w, err.Error(), statusFor(err))
		return
	}

	s.metrics.RecordTableOperation("get", true)
	sendSuccess(w, RecordResponse{RID: rid.String(), Record: rec.Native()})
}

// handleDelete removes one record by RID.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	tbl, ok := s.tableFor(w, r)
	if !ok {
		return
	}

	rid, err := heap.ParseRID(chi.URLParam(r, "rid"))
	if err != nil {
		sendError(w, err.Error(), statusFor(err))
		return
	}

	if err := tbl.Delete(rid); err != nil {
		s.metrics.RecordTableOperation("delete", false)
		sendError(w, err.Error(), statusFor(err))
		return
	}

	s.metrics.RecordTableOperation("delete", true)
	sendSuccess(w, map[string]string{"deleted": rid.String()})
}

// handleScan lists every live record of a table. Slots that fail to decode
// are counted and skipped, not fatal.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	tbl, ok := s.tableFor(w, r)
	if !ok {
		return
	}

	resp := ScanResponse{
		Table:   tbl.Schema().TableName(),
		Records: []RecordResponse{},
	}

	sc := tbl.Scan()
	defer sc.Close()
	for sc.Next() {
		item := sc.Item()
		if item.Err != nil {
			resp.Skipped++
			s.log.WithFields(logrus.Fields{
				"table": resp.Table,
				"rid":   item.RID.String(),
			}).WithError(item.Err).Warn("skipping undecodable record")
			continue
		}
		resp.Records = append(resp.Records, RecordResponse{
			RID:    item.RID.String(),
			Record: item.Record.Native(),
		})
	}
	if err := sc.Err(); err != nil {
		s.metrics.RecordTableOperation("scan", false)
		sendError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.metrics.RecordTableOperation("scan", true)
	sendSuccess(w, resp)
}

// handleQuery executes one SELECT or INSERT statement.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := s.engine.Execute(req.Statement)
	if err != nil {
		s.metrics.RecordQuery(false)
		sendError(w, err.Error(), statusFor(err))
		return
	}

	resp := QueryResponse{Fields: result.Fields}
	if result.RID != nil {
		resp.RID = result.RID.String()
	}
	for _, row := range result.Rows {
		resp.Rows = append(resp.Rows, QueryRow{RID: row.RID.String(), Values: row.Values})
	}

	s.metrics.RecordQuery(true)
	sendSuccess(w, resp)
}

// handleHealth reports liveness and the open tables.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, HealthResponse{Status: "healthy", Tables: s.catalog.Tables()})
}
