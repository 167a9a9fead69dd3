// Package mcp exposes the product search engine over the MCP-style
// JSON-RPC 2.0 protocol: one POST endpoint for the envelope, a GET
// liveness endpoint, and the usual health/metrics plumbing.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/prodex/internal/domain"
	"github.com/kailas-cloud/prodex/internal/domain/search/filter"
	"github.com/kailas-cloud/prodex/internal/domain/search/request"
	"github.com/kailas-cloud/prodex/internal/domain/search/result"
	"github.com/kailas-cloud/prodex/internal/logger"
	"github.com/kailas-cloud/prodex/internal/metrics"
	healthuc "github.com/kailas-cloud/prodex/internal/usecase/health"
	"github.com/kailas-cloud/prodex/internal/version"
)

// protocolVersion is the MCP protocol revision this server speaks.
const protocolVersion = "2024-11-05"

const serverName = "prodex-mcp"

// Searcher executes a validated product search.
type Searcher interface {
	Search(ctx context.Context, req *request.Request) (*result.Response, error)
}

// HealthChecker aggregates component health for the introspection endpoints.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server is the stateless JSON-RPC dispatcher. Each request is handled
// independently; no session state is carried between calls. Handlers
// log through the request-scoped logger carried in the context.
type Server struct {
	search Searcher
	health HealthChecker
	limits request.Limits
}

// NewServer creates the MCP protocol server. limits bounds the tool's
// top_k parameter; the zero value keeps the package defaults.
func NewServer(search Searcher, health HealthChecker, limits request.Limits) *Server {
	return &Server{search: search, health: health, limits: limits}
}

// Router registers the protocol routes. Middleware is attached by the caller.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Post("/mcp", s.handleRPC)
	r.Get("/", s.handleRoot)
	r.Get("/healthz", s.handleHealthz)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	return r
}

// handleRPC parses the envelope and dispatches by method. A body that
// is not a valid envelope is rejected with HTTP 400 before dispatch.
func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "bad_request",
			"message": "invalid request body",
		})
		return
	}

	logger.FromContext(r.Context()).Debug("rpc request", zap.String("method", req.Method))

	switch req.Method {
	case "initialize":
		writeResult(w, req.ID, map[string]any{
			"protocolVersion": protocolVersion,
			"capabilities":    map[string]any{"tools": map[string]any{}},
			"serverInfo": map[string]any{
				"name":    serverName,
				"version": version.Version,
			},
		})
	case "notifications/initialized":
		writeResult(w, req.ID, true)
	case "tools/list":
		writeResult(w, req.ID, map[string]any{
			"tools": []toolDescriptor{searchToolDescriptor(s.limits)},
		})
	case "tools/call":
		s.handleToolCall(w, r, req)
	case "ping":
		writeResult(w, req.ID, map[string]any{})
	default:
		writeRPCError(w, req.ID, codeMethodNotFound, "Method not found")
	}
}

// toolCallParams is the tools/call parameter envelope.
type toolCallParams struct {
	Name      string         `json:"name"`
	Arguments searchToolArgs `json:"arguments"`
}

type searchToolArgs struct {
	Query       string   `json:"query"`
	TopK        int      `json:"top_k"`
	MaxPrice    *float64 `json:"max_price"`
	Category    *string  `json:"category"`
	InStockOnly bool     `json:"in_stock_only"`
	Brand       *string  `json:"brand"`
}

// handleToolCall executes search_products. Every failure is converted
// into a JSON-RPC error object; nothing propagates to the transport.
func (s *Server) handleToolCall(w http.ResponseWriter, r *http.Request, req rpcRequest) {
	var params toolCallParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
			writeRPCError(w, req.ID, codeToolError, "invalid tool arguments: "+err.Error())
			return
		}
	}

	if params.Name != "" && params.Name != searchToolName {
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		writeRPCError(w, req.ID, codeToolError, "unknown tool: "+params.Name)
		return
	}

	args := params.Arguments
	searchReq, err := request.New(args.Query, args.TopK, s.limits, filter.SearchFilter{
		MaxPrice:    args.MaxPrice,
		Category:    args.Category,
		Brand:       args.Brand,
		InStockOnly: args.InStockOnly,
	})
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		writeRPCError(w, req.ID, codeToolError, err.Error())
		return
	}

	log := logger.FromContext(r.Context())

	resp, err := s.search.Search(r.Context(), &searchReq)
	if err != nil {
		if errors.Is(err, domain.ErrBackendUnavailable) {
			// Degraded mode: the index is not ready. The tool still
			// answers successfully with a structured error payload.
			log.Warn("search degraded", zap.Error(err))
			metrics.SearchRequestsTotal.WithLabelValues("degraded").Inc()
			writeToolText(w, req.ID, degradedPayload{
				Error:         domain.ErrBackendUnavailable.Error(),
				QueryReceived: args.Query,
			})
			return
		}
		log.Error("search failed", zap.Error(err))
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		writeRPCError(w, req.ID, codeToolError, err.Error())
		return
	}

	metrics.SearchRequestsTotal.WithLabelValues("ok").Inc()
	metrics.SearchResultsReturned.Observe(float64(resp.TotalResults))
	writeToolText(w, req.ID, searchPayload{
		Query:        resp.Query,
		TotalResults: resp.TotalResults,
		Products:     productsPayload(resp.Hits),
	})
}

// writeToolText wraps a payload as the MCP text content envelope.
func writeToolText(w http.ResponseWriter, id json.RawMessage, payload any) {
	text, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		writeRPCError(w, id, codeToolError, "encode tool result: "+err.Error())
		return
	}
	writeResult(w, id, map[string]any{
		"content": []map[string]string{{"type": "text", "text": string(text)}},
	})
}

type searchPayload struct {
	Query        string           `json:"query"`
	TotalResults int              `json:"total_results"`
	Products     []productPayload `json:"products"`
}

type productPayload struct {
	ProductID   int64   `json:"product_id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	InStock     bool    `json:"in_stock"`
	Brand       string  `json:"brand"`
	Relevance   string  `json:"relevance"`
}

type degradedPayload struct {
	Error         string `json:"error"`
	QueryReceived string `json:"query_received"`
}

func productsPayload(hits []result.Hit) []productPayload {
	products := make([]productPayload, len(hits))
	for i := range hits {
		p := hits[i].Product()
		products[i] = productPayload{
			ProductID:   p.ID(),
			Name:        p.Name(),
			Category:    string(p.Category()),
			Description: p.Description(),
			Price:       p.Price(),
			InStock:     p.InStock(),
			Brand:       p.Brand(),
			Relevance:   hits[i].Relevance(),
		}
	}
	return products
}

// handleRoot serves the liveness/introspection document.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	writeJSON(w, http.StatusOK, map[string]any{
		"name":            serverName + "-server",
		"status":          "online",
		"protocol":        "mcp-http",
		"version":         version.Version,
		"store_connected": report.Checks["database"] == healthuc.CheckOK,
		"catalog_ready":   report.CatalogReady,
	})
}

// handleHealthz serves the aggregated component health report.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":        report.Status,
		"checks":        report.Checks,
		"catalog_ready": report.CatalogReady,
	})
}
