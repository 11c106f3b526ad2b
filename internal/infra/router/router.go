package router

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/inkwell-cms/inkwell/internal/app/middleware"
	articlehdl "github.com/inkwell-cms/inkwell/pkg/handler/article"
	authhdl "github.com/inkwell-cms/inkwell/pkg/handler/auth"
	categoryhdl "github.com/inkwell-cms/inkwell/pkg/handler/category"
	projecthdl "github.com/inkwell-cms/inkwell/pkg/handler/project"
	publichdl "github.com/inkwell-cms/inkwell/pkg/handler/public"
	taghdl "github.com/inkwell-cms/inkwell/pkg/handler/tag"
	techstackhdl "github.com/inkwell-cms/inkwell/pkg/handler/techstack"
	thoughthdl "github.com/inkwell-cms/inkwell/pkg/handler/thought"
	travelhdl "github.com/inkwell-cms/inkwell/pkg/handler/travel"
	userhdl "github.com/inkwell-cms/inkwell/pkg/handler/user"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth      *authhdl.Handler
	Article   *articlehdl.Handler
	Category  *categoryhdl.Handler
	Tag       *taghdl.Handler
	TechStack *techstackhdl.Handler
	Thought   *thoughthdl.Handler
	Travel    *travelhdl.Handler
	Project   *projecthdl.Handler
	User      *userhdl.Handler
	Public    *publichdl.Handler
}

// New assembles the gin engine: /api carries the JWT-gated admin panel,
// /api/public the anonymous blog front-end. uploadsDir, when non-empty, is
// served statically under /uploads (local storage only).
func New(debug bool, logger zerolog.Logger, secret []byte, h *Handlers, uploadsDir string) *gin.Engine {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.CORS())

	if uploadsDir != "" {
		engine.Static("/uploads", uploadsDir)
	}

	api := engine.Group("/api")

	h.Auth.RegisterPublic(api, middleware.LoginRateLimit())

	pub := api.Group("/public")
	h.Public.Register(pub)

	admin := api.Group("")
	admin.Use(middleware.JWTAuth(secret))
	h.Auth.RegisterProtected(admin)
	h.Article.Register(admin)
	h.Category.Register(admin)
	h.Tag.Register(admin)
	h.TechStack.Register(admin)
	h.Thought.Register(admin)
	h.Travel.Register(admin)
	h.Project.Register(admin)

	// Account management is admin-role only.
	users := admin.Group("")
	users.Use(middleware.AdminOnly())
	h.User.Register(users)

	return engine
}
