package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"liferpg/internal/config"
	"liferpg/internal/engine"
)

type Server struct {
	svc    *engine.Service
	log    zerolog.Logger
	secret []byte
}

func NewServer(svc *engine.Service, log zerolog.Logger, jwtSecret string) *Server {
	return &Server{svc: svc, log: log, secret: []byte(jwtSecret)}
}

// Router wires every route onto a fresh gin engine.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(loggingMiddleware(s.log), errorMiddleware(s.log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api", s.authMiddleware())
	{
		api.GET("/users/me", s.me)

		api.GET("/roles", s.listRoles)
		api.POST("/roles", s.createRole)
		api.GET("/roles/:id", s.getRole)

		api.GET("/quests", s.listQuests)
		api.POST("/quests", s.createQuest)
		api.GET("/quests/today", s.todayQuests)
		api.POST("/quests/reset-daily", s.resetDaily)
		api.GET("/quests/:id", s.getQuest)
		api.PUT("/quests/:id", s.updateQuest)
		api.DELETE("/quests/:id", s.deleteQuest)
		api.POST("/quests/:id/complete", s.completeQuest)
		api.POST("/quests/:id/uncomplete", s.uncompleteQuest)

		api.GET("/objectives", s.listObjectives)
		api.POST("/objectives", s.createObjective)
		api.GET("/objectives/:id", s.getObjective)
		api.PUT("/objectives/:id", s.updateObjective)
		api.DELETE("/objectives/:id", s.deleteObjective)
		api.POST("/objectives/:id/complete", s.completeObjective)
		api.PATCH("/objectives/:id/status", s.setObjectiveStatus)

		api.GET("/skills", s.listSkills)
		api.POST("/skills", s.createSkill)
		api.GET("/skills/:id", s.getSkill)
		api.POST("/skills/:id/unlock", s.unlockSkill)

		api.GET("/time-blocks", s.listTimeBlocks)
		api.POST("/time-blocks", s.createTimeBlock)
		api.GET("/time-blocks/:id", s.getTimeBlock)
		api.PUT("/time-blocks/:id", s.updateTimeBlock)
		api.DELETE("/time-blocks/:id", s.deleteTimeBlock)

		api.GET("/investments", s.listInvestments)
		api.POST("/investments", s.createInvestment)
		api.DELETE("/investments/:id", s.deleteInvestment)

		api.GET("/dashboard/stats", s.dashboardStats)
		api.GET("/xp/recent", s.recentXP)
	}
	return r
}

// HTTPServer wraps the router with the configured address and timeouts.
func (s *Server) HTTPServer(cfg config.Config) *http.Server {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      s.Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}
