package app

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/nabhcare/nabh-backend/config"
	"github.com/nabhcare/nabh-backend/internal/events"
	"github.com/nabhcare/nabh-backend/internal/service/auth"
	"github.com/nabhcare/nabh-backend/internal/service/doctor"
	"github.com/nabhcare/nabh-backend/internal/service/notification"
	"github.com/nabhcare/nabh-backend/internal/service/patient"
	"github.com/nabhcare/nabh-backend/internal/service/pharmacy"
	"github.com/nabhcare/nabh-backend/internal/service/user"
	"github.com/nabhcare/nabh-backend/internal/store"
	"github.com/nabhcare/nabh-backend/pkg/ai"
	"github.com/nabhcare/nabh-backend/pkg/email"
	pasetotoken "github.com/nabhcare/nabh-backend/pkg/paseto"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvideAuthService,
		ProvideUserService,
		ProvidePatientService,
		ProvideDoctorService,
		ProvidePharmacyService,
		ProvideNotificationService,
		ProvidePasetoManager,
	),
)

func ProvideAuthService(
	users store.UserStore,
	tokens *pasetotoken.Manager,
	mail *email.Client,
	cfg *config.Config,
	log *slog.Logger,
) auth.Service {
	return auth.New(users, tokens, mail, cfg, log)
}

func ProvideUserService(users store.UserStore) user.Service {
	return user.New(users)
}

func ProvidePatientService(
	users store.UserStore,
	appointments store.AppointmentStore,
	records store.MedicalRecordStore,
	pharmacies store.PharmacyStore,
	checker *ai.Client,
	pub events.Publisher,
	log *slog.Logger,
) patient.Service {
	return patient.New(users, appointments, records, pharmacies, checker, pub, log)
}

func ProvideDoctorService(
	users store.UserStore,
	appointments store.AppointmentStore,
	records store.MedicalRecordStore,
	prescriptions store.PrescriptionStore,
	log *slog.Logger,
) doctor.Service {
	return doctor.New(users, appointments, records, prescriptions, log)
}

func ProvidePharmacyService(
	users store.UserStore,
	pharmacies store.PharmacyStore,
	orders store.OrderStore,
	pub events.Publisher,
	log *slog.Logger,
) pharmacy.Service {
	return pharmacy.New(users, pharmacies, orders, pub, log)
}

func ProvideNotificationService(notifications store.NotificationStore) notification.Service {
	return notification.New(notifications)
}

func ProvidePasetoManager(cfg *config.Config) (*pasetotoken.Manager, error) {
	return pasetotoken.FromCentralConfig(cfg.Authentication)
}
