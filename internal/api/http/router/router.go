package router

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	"github.com/nabhcare/nabh-backend/config"
	"github.com/nabhcare/nabh-backend/internal/api/http/handler"
	"github.com/nabhcare/nabh-backend/internal/api/http/middleware"
	"github.com/nabhcare/nabh-backend/internal/service/auth"
	"github.com/nabhcare/nabh-backend/internal/service/doctor"
	"github.com/nabhcare/nabh-backend/internal/service/notification"
	"github.com/nabhcare/nabh-backend/internal/service/patient"
	"github.com/nabhcare/nabh-backend/internal/service/pharmacy"
	"github.com/nabhcare/nabh-backend/internal/service/user"
	"github.com/nabhcare/nabh-backend/internal/store"
	"github.com/nabhcare/nabh-backend/pkg/authorize"
	pasetotoken "github.com/nabhcare/nabh-backend/pkg/paseto"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg             *config.Config
	Auth            authorize.IAuthorization
	Users           store.UserStore
	AuthSvc         auth.Service
	UserSvc         user.Service
	PatientSvc      patient.Service
	DoctorSvc       doctor.Service
	PharmacySvc     pharmacy.Service
	NotificationSvc notification.Service
	PasetoMgr       *pasetotoken.Manager
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

func (r *Router) Register(app *fiber.App) {
	r.registerSystemRoutes(app)

	authRequired := middleware.AuthRequired(r.p.PasetoMgr, r.p.Users, r.p.Cfg.Authentication.CookieName)
	requirePerm := func(res authorize.Resource, act authorize.Action) fiber.Handler {
		return middleware.RequirePermission(r.p.Auth, res, act)
	}

	authH := handler.NewAuthHandler(r.p.AuthSvc, r.p.Cfg)
	userH := handler.NewUserHandler(r.p.UserSvc)
	patientH := handler.NewPatientHandler(r.p.PatientSvc)
	doctorH := handler.NewDoctorHandler(r.p.DoctorSvc)
	pharmacyH := handler.NewPharmacyHandler(r.p.PharmacySvc)
	notificationH := handler.NewNotificationHandler(r.p.NotificationSvc)

	api := app.Group("/api")

	r.registerUserRoutes(api, authH, userH, authRequired)
	r.registerPatientRoutes(api, patientH, notificationH, authRequired, requirePerm)
	r.registerDoctorRoutes(api, doctorH, authRequired, requirePerm)
	r.registerPharmacyRoutes(api, pharmacyH, authRequired, requirePerm)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New())
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.Cfg.Observability.Enabled && r.p.Cfg.Observability.Metrics.Enabled {
		path := r.p.Cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}
}
