package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quantfi/tokenrisk/internal/assessor"
	"github.com/quantfi/tokenrisk/internal/health"
	"github.com/quantfi/tokenrisk/internal/logging"
	"github.com/quantfi/tokenrisk/internal/pagination"
	"github.com/quantfi/tokenrisk/internal/token"
)

// HealthResponse for health check endpoints.
type HealthResponse struct {
	Status    string          `json:"status"`
	Version   string          `json:"version"`
	Checks    []health.Status `json:"checks,omitempty"`
	Timestamp string          `json:"timestamp"`
}

func (s *Server) healthHandler(c *gin.Context) {
	healthy, statuses := s.checks.CheckAll(c.Request.Context())

	status := "healthy"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, HealthResponse{
		Status:    status,
		Version:   "0.1.0",
		Checks:    statuses,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) livenessHandler(c *gin.Context) {
	if !s.healthy.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

func (s *Server) readinessHandler(c *gin.Context) {
	if !s.ready.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (s *Server) infoHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        "tokenrisk",
		"description": "Composite risk scoring for ERC-20 tokens",
		"version":     "0.1.0",
	})
}

// chainsHandler lists supported chains and their listing thresholds.
func (s *Server) chainsHandler(c *gin.Context) {
	chains := make([]gin.H, 0, len(token.Chains))
	for _, name := range token.ChainNames() {
		cfg := token.Chains[token.Chain(name)]
		chains = append(chains, gin.H{
			"chain":           name,
			"platform":        cfg.CoinGeckoPlatform,
			"minLiquidityUsd": cfg.MinLiquidityUSD,
		})
	}
	c.JSON(http.StatusOK, gin.H{"chains": chains})
}

// assessHandler runs a fresh assessment for one token. The pipeline
// absorbs its own failures; a response always comes back 200 with the
// risk verdict, including for unsupported chains.
func (s *Server) assessHandler(c *gin.Context) {
	chain := c.Param("chain")
	address := c.Param("address")

	result := s.assessor.Assess(c.Request.Context(), chain, address)

	// Keep the wire payload lean: facts are available via ?verbose=1.
	if c.Query("verbose") == "" {
		result.Facts = nil
	}
	c.JSON(http.StatusOK, result)
}

// historyHandler returns stored assessments, most recent first.
func (s *Server) historyHandler(c *gin.Context) {
	chainName := c.Param("chain")
	address := c.Param("address")

	chain, err := token.ParseChain(chainName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "unsupported_chain",
			"message": err.Error(),
		})
		return
	}
	addr, err := token.NormalizeAddress(address)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_address",
			"message": err.Error(),
		})
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 200 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_limit",
				"message": "limit must be an integer between 1 and 200",
			})
			return
		}
		limit = n
	}

	cursor, err := pagination.Decode(c.Query("cursor"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_cursor",
			"message": err.Error(),
		})
		return
	}
	var before time.Time
	if cursor != nil {
		before = cursor.AssessedAt
	}

	// Fetch one extra row to learn whether another page exists.
	results, err := s.store.List(c.Request.Context(), string(chain), addr, before, limit+1)
	if err != nil {
		logging.L(c.Request.Context()).Error("failed to list assessments", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to load assessment history",
		})
		return
	}
	results, next, hasMore := pagination.ComputePage(results, limit, func(r *assessor.Result) (time.Time, string) {
		return r.AssessedAt, r.Address
	})
	for _, r := range results {
		r.Facts = nil
	}
	if results == nil {
		results = []*assessor.Result{}
	}

	resp := gin.H{
		"chain":       string(chain),
		"address":     addr,
		"count":       len(results),
		"assessments": results,
		"hasMore":     hasMore,
	}
	if next != "" {
		resp["nextCursor"] = next
	}
	c.JSON(http.StatusOK, resp)
}
