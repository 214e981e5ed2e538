package routes

import (
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/fintrack/fintrack-api/handlers"
)

func TestLedgerAndPlanningRoutesRegistered(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	rg := router.Group("/api/v1")
	ws := handlers.NewWSHandler()
	SetupLedgerRoutes(rg, nil, ws)
	SetupPlanningRoutes(rg, nil, ws)

	want := []struct{ method, path string }{
		{"GET", "/api/v1/transactions"},
		{"POST", "/api/v1/transactions"},
		{"PUT", "/api/v1/transactions/:id"},
		{"DELETE", "/api/v1/transactions/:id"},
		{"GET", "/api/v1/debts"},
		{"POST", "/api/v1/debts"},
		{"PUT", "/api/v1/debts/:id"},
		{"DELETE", "/api/v1/debts/:id"},
		{"POST", "/api/v1/debts/:id/payments"},
	}

	registered := map[string]bool{}
	for _, r := range router.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	for _, w := range want {
		if !registered[w.method+" "+w.path] {
			t.Errorf("route %s %s not registered", w.method, w.path)
		}
	}
}
