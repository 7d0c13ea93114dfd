package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wananchi-labs/uwazi/internal/cache"
	"github.com/wananchi-labs/uwazi/internal/comment"
	commentdomain "github.com/wananchi-labs/uwazi/internal/comment/domain"
	"github.com/wananchi-labs/uwazi/internal/config"
	"github.com/wananchi-labs/uwazi/internal/institution"
	institutiondomain "github.com/wananchi-labs/uwazi/internal/institution/domain"
	"github.com/wananchi-labs/uwazi/internal/nominee"
	nomineedomain "github.com/wananchi-labs/uwazi/internal/nominee/domain"
	"github.com/wananchi-labs/uwazi/internal/observability"
	obsmiddleware "github.com/wananchi-labs/uwazi/internal/observability/logger"
	obsmetrics "github.com/wananchi-labs/uwazi/internal/observability/metrics"
	obstracing "github.com/wananchi-labs/uwazi/internal/observability/tracing"
	"github.com/wananchi-labs/uwazi/internal/ranking"
	rankingdomain "github.com/wananchi-labs/uwazi/internal/ranking/domain"
	"github.com/wananchi-labs/uwazi/internal/ratelimit"
	"github.com/wananchi-labs/uwazi/internal/rating"
	ratingdomain "github.com/wananchi-labs/uwazi/internal/rating/domain"
	"github.com/wananchi-labs/uwazi/internal/reference"
	referencedomain "github.com/wananchi-labs/uwazi/internal/reference/domain"
	"github.com/wananchi-labs/uwazi/internal/scandal"
	scandaldomain "github.com/wananchi-labs/uwazi/internal/scandal/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	config.Module,
	cache.Module,
	ratelimit.Module,
	nominee.Module,
	institution.Module,
	rating.Module,
	comment.Module,
	ranking.Module,
	reference.Module,
	scandal.Module,
	fx.Provide(registerGin),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) {
		s.registerAPIRoutes()
		s.registerAdminRoutes()
	}),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	addr := cfg.HTTPAddr
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine         *gin.Engine
	cfg            config.Config
	policy         *config.PolicyConfigHolder
	db             *gorm.DB
	genID          *snowflake.Node
	nomineeSvc     nomineedomain.Service
	institutionSvc institutiondomain.Service
	ratingSvc      ratingdomain.Service
	commentSvc     commentdomain.Service
	rankingSvc     rankingdomain.Service
	referenceSvc   referencedomain.Service
	scandalSvc     scandaldomain.Service
	limiter        ratelimit.Limiter
	swr            *cache.SWR
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Cfg            config.Config
	Policy         *config.PolicyConfigHolder
	DB             *gorm.DB
	GenID          *snowflake.Node
	NomineeSvc     nomineedomain.Service
	InstitutionSvc institutiondomain.Service
	RatingSvc      ratingdomain.Service
	CommentSvc     commentdomain.Service
	RankingSvc     rankingdomain.Service
	ReferenceSvc   referencedomain.Service
	ScandalSvc     scandaldomain.Service
	Limiter        ratelimit.Limiter
	SWR            *cache.SWR
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		policy:         p.Policy,
		db:             p.DB,
		genID:          p.GenID,
		nomineeSvc:     p.NomineeSvc,
		institutionSvc: p.InstitutionSvc,
		ratingSvc:      p.RatingSvc,
		commentSvc:     p.CommentSvc,
		rankingSvc:     p.RankingSvc,
		referenceSvc:   p.ReferenceSvc,
		scandalSvc:     p.ScandalSvc,
		limiter:        p.Limiter,
		swr:            p.SWR,
	}
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	nominees := api.Group("/nominees")
	nominees.GET("", s.ListNominees)
	nominees.GET("/:id", s.GetNominee)
	nominees.POST("/:id/rate", s.SubmitRating(ratingdomain.TargetNominee))
	nominees.GET("/:id/rankings", s.GetRankings(ratingdomain.TargetNominee))
	nominees.GET("/:id/rate-limit", s.RateLimitStatus(ratingdomain.TargetNominee))
	nominees.GET("/:id/comments", s.ListComments(ratingdomain.TargetNominee))
	nominees.POST("/:id/comments", s.CreateComment(ratingdomain.TargetNominee))
	nominees.GET("/:id/scandals", s.ListScandals(ratingdomain.TargetNominee))

	institutions := api.Group("/institutions")
	institutions.GET("", s.ListInstitutions)
	institutions.GET("/:id", s.GetInstitution)
	institutions.POST("/:id/rate", s.SubmitRating(ratingdomain.TargetInstitution))
	institutions.GET("/:id/rankings", s.GetRankings(ratingdomain.TargetInstitution))
	institutions.GET("/:id/rate-limit", s.RateLimitStatus(ratingdomain.TargetInstitution))
	institutions.GET("/:id/comments", s.ListComments(ratingdomain.TargetInstitution))
	institutions.POST("/:id/comments", s.CreateComment(ratingdomain.TargetInstitution))
	institutions.GET("/:id/scandals", s.ListScandals(ratingdomain.TargetInstitution))

	api.GET("/leaderboard", s.Leaderboard)
	api.GET("/trending", s.Trending)
	api.GET("/rate-limit", s.RateLimitQuery)
	api.POST("/comments/:id/react", s.ReactToComment)
	api.GET("/categories", s.ListCategories)
	api.GET("/positions", s.ListPositions)
	api.GET("/districts", s.ListDistricts)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin/api", s.AdminRequired())

	admin.POST("/nominees", s.CreateNominee)
	admin.PATCH("/nominees/:id", s.UpdateNominee)
	admin.DELETE("/nominees/:id", s.DeleteNominee)

	admin.POST("/institutions", s.CreateInstitution)
	admin.PATCH("/institutions/:id", s.UpdateInstitution)
	admin.DELETE("/institutions/:id", s.DeleteInstitution)

	admin.POST("/categories", s.CreateCategory)
	admin.PATCH("/categories/:id", s.UpdateCategory)
	admin.DELETE("/categories/:id", s.DeleteCategory)

	admin.POST("/positions", s.CreatePosition)
	admin.PATCH("/positions/:id", s.UpdatePosition)
	admin.DELETE("/positions/:id", s.DeletePosition)

	admin.POST("/districts", s.CreateDistrict)
	admin.PATCH("/districts/:id", s.UpdateDistrict)
	admin.DELETE("/districts/:id", s.DeleteDistrict)

	admin.POST("/scandals", s.CreateScandal)
	admin.PATCH("/scandals/:id", s.UpdateScandal)
	admin.DELETE("/scandals/:id", s.DeleteScandal)
	admin.POST("/scandals/:id/evidence", s.AddEvidence)
	admin.DELETE("/evidence/:id", s.RemoveEvidence)

	admin.DELETE("/comments/:id", s.DeleteComment)
}
