package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Noah-Bakr/Teach-Team-sub001/config"
	"github.com/Noah-Bakr/Teach-Team-sub001/internal/api/handler"
	"github.com/Noah-Bakr/Teach-Team-sub001/internal/api/middleware"
	"github.com/Noah-Bakr/Teach-Team-sub001/internal/api/validate"
	"github.com/Noah-Bakr/Teach-Team-sub001/internal/model"
	"github.com/Noah-Bakr/Teach-Team-sub001/pkg/jwt"
	"github.com/Noah-Bakr/Teach-Team-sub001/pkg/redis"
)

// Setup builds the gin engine. rdb may be nil.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) (*gin.Engine, error) {
	if err := validate.Register(); err != nil {
		return nil, err
	}

	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── health & metrics ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	limit := middleware.RateLimit(rdb, cfg.Server.RateLimit.Limit, cfg.Server.RateLimit.Window)

	lecturer := middleware.RoleAuth(model.RoleLecturer)
	candidate := middleware.RoleAuth(model.RoleCandidate)
	admin := middleware.RoleAuth(model.RoleAdmin)
	staff := middleware.RoleAuth(model.RoleLecturer, model.RoleAdmin)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/login", limit, h.Auth.Login)

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr))
		{
			authorized.GET("/auth/me", h.Auth.Me)

			// users
			users := authorized.Group("/users")
			{
				users.GET("", staff, h.User.ListUsers)
				users.GET("/:id", staff, h.User.GetUser)
				users.POST("", admin, h.User.CreateUser)
			}

			// courses
			courses := authorized.Group("/courses")
			{
				courses.GET("", h.Course.ListCourses)
				courses.GET("/:id", h.Course.GetCourse)
				courses.POST("", admin, h.Course.CreateCourse)
				courses.PUT("/:id", admin, h.Course.UpdateCourse)
				courses.DELETE("/:id", admin, h.Course.DeleteCourse)
			}

			// display-name lookup
			lookups := authorized.Group("/lookup")
			{
				lookups.GET("/:kind/:id", h.Lookup.Resolve)
				lookups.POST("/refresh", admin, h.Lookup.Refresh)
			}

			// candidate applications
			applications := authorized.Group("/applications", candidate)
			{
				applications.POST("", limit, h.Applicant.Apply)
				applications.GET("/me", h.Applicant.MyApplications)
			}

			// lecturer review
			applicants := authorized.Group("/applicants", lecturer)
			{
				applicants.GET("", h.Applicant.ListApplicants)
				applicants.GET("/selected", h.Applicant.SelectedApplicants)
				applicants.GET("/stream", h.Applicant.Stream)
				applicants.POST("/:id/toggle", limit, h.Applicant.ToggleSelected)
				applicants.PUT("/:id/rank", limit, h.Applicant.SetRank)
				applicants.PUT("/:id/comment", limit, h.Applicant.SetComment)
			}

			// selection overview
			overview := authorized.Group("/overview", lecturer)
			{
				overview.GET("", h.Overview.GetOverview)
				overview.GET("/export", h.Overview.ExportOverview)
			}
		}
	}

	return r, nil
}
