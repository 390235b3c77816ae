package api

import (
	"log"
	stdhttp "net/http"

	intconfig "buspass/internal/config"
	"buspass/internal/domain/models"
	h "buspass/internal/http/handlers"
	"buspass/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env, hd *h.Handler) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(hd.Metrics), gin.Recovery(), middleware.CORS(env.CORSOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}
	r.MaxMultipartMemory = int64(env.MaxUploadMB) << 20

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"success":    false,
			"error":      "route not found",
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": middleware.GetRequestID(c),
		})
	})

	r.Static("/uploads", hd.Uploads.Dir)
	if hd.Metrics != nil {
		r.GET("/metrics", gin.WrapH(hd.Metrics.Handler()))
	}

	// legacy paths at the root
	mountPasses(r.Group(""), hd)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/ready", hd.Ready)

		mountPasses(api, hd)

		if env.JWTSecret != intconfig.DefaultJWTSecret {
			mountStaff(api, hd)
		}
	}

	return r
}

// mountStaff registers login and the token protected admin routes.
func mountStaff(api *gin.RouterGroup, hd *h.Handler) {
	auth := api.Group("/auth", middleware.RequireStore(hd.Store))
	auth.POST("/login", hd.Login)

	admin := api.Group("/admin",
		middleware.RequireStore(hd.Store),
		middleware.RequireAuth(hd.Auth),
		middleware.RequireRoles(models.RoleAdmin, models.RoleCounter),
	)
	admin.GET("/applicants", hd.ListApplicants)
	admin.GET("/applicants/:id/tickets", hd.ListApplicantTickets)
	admin.POST("/users", middleware.RequireRoles(models.RoleAdmin), hd.CreateUser)
}

func mountPasses(g *gin.RouterGroup, hd *h.Handler) {
	g = g.Group("", middleware.RequireStore(hd.Store))
	g.POST("/apply", hd.Apply)
	g.GET("/verify/:phone", hd.VerifyPhone)
	g.GET("/applicant/:id", hd.GetApplicant)
	g.GET("/applicant/:id/pass.pdf", hd.PassCard)
	g.GET("/getApplicant/:passId", hd.GetApplicantByPassID)
	g.POST("/scan", hd.Scan)
	g.POST("/bookTicket", hd.BookTicket)
	g.GET("/ticket/:id/receipt.pdf", hd.TicketReceipt)
}
