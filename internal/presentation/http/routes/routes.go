package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/printledger/internal/config"
	domainRepo "github.com/sangkips/printledger/internal/domain/repository"
	"github.com/sangkips/printledger/internal/presentation/http/handler"
	"github.com/sangkips/printledger/internal/presentation/http/middleware"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Web  *handler.WebHandler
	Form *handler.FormHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.ClientRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	client := router.Group("")
	client.Use(middleware.ClientIdentity())

	client.GET("/", h.Web.Index)

	v1 := client.Group("/api/v1")
	if deps.RateLimiter != nil {
		v1.Use(deps.RateLimiter.Middleware())
	}
	registerFormRoutes(v1, h, deps)

	return router
}

func registerFormRoutes(rg *gin.RouterGroup, h *Handlers, deps *Deps) {
	form := rg.Group("/form")
	{
		form.GET("", h.Form.Initialize)
		form.POST("/totals", h.Form.RecalculateTotals)
		form.PUT("/date", h.Form.PersistDate)
	}

	rg.POST("/entries",
		middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo}),
		h.Form.SubmitEntry,
	)

	history := rg.Group("/history")
	{
		history.GET("", h.Form.FetchCustomerHistory)
		history.GET("/export.pdf", h.Form.ExportPDF)
		history.GET("/export.xlsx", h.Form.ExportXLSX)
	}

	rg.GET("/dropdowns", h.Form.Dropdowns)
}
