package app

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/fx"

	"github.com/nabhcare/nabh-backend/internal/events"
	"github.com/nabhcare/nabh-backend/internal/model"
	"github.com/nabhcare/nabh-backend/internal/store"
	svcsms "github.com/nabhcare/nabh-backend/pkg/sms"
)

// WorkerModule registers all NATS event workers.
var WorkerModule = fx.Module("workers",
	fx.Invoke(RegisterWorkers),
)

type WorkerParams struct {
	fx.In

	Lc            fx.Lifecycle
	NC            *nats.Conn
	Notifications store.NotificationStore
	SMS           *svcsms.Client
}

func RegisterWorkers(p WorkerParams) {
	if p.NC == nil {
		slog.Info("workers: NATS disabled, skipping event workers")
		return
	}
	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			startNotificationWorker(p.NC, p.Notifications)
			startSMSWorker(p.NC, p.SMS)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			// Drain handled by ProvideNatsClient
			return nil
		},
	})
}

// ---------------------------------------------------------------------------
// notification_worker
// ---------------------------------------------------------------------------

// startNotificationWorker turns domain events into in-app notifications for
// the counterpart user: the doctor hears about new bookings, the patient
// hears about order progress.
func startNotificationWorker(nc *nats.Conn, notifications store.NotificationStore) {
	_, err := nc.Subscribe(events.SubjectAppointmentCreated+".*", func(msg *nats.Msg) {
		var ev events.AppointmentCreated
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			slog.Warn("notification_worker: bad appointment payload", "err", err)
			return
		}
		doctorID, err := bson.ObjectIDFromHex(ev.DoctorID)
		if err != nil {
			slog.Warn("notification_worker: bad doctor id", "id", ev.DoctorID, "err", err)
			return
		}

		n := &model.Notification{
			User:  doctorID,
			Type:  "appointment_created",
			Title: "New appointment booked",
			Data: map[string]any{
				"appointmentId": ev.AppointmentID,
				"patientId":     ev.PatientID,
				"date":          ev.Date,
				"time":          ev.Time,
			},
		}
		if err := notifications.Create(context.Background(), n); err != nil {
			slog.Warn("notification_worker: create appointment notification failed", "err", err)
		}
	})
	if err != nil {
		slog.Error("notification_worker: subscribe appointment.created failed", "err", err)
	}

	_, err = nc.Subscribe(events.SubjectOrderStatusChanged+".*", func(msg *nats.Msg) {
		var ev events.OrderStatusChanged
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			slog.Warn("notification_worker: bad order payload", "err", err)
			return
		}
		patientID, err := bson.ObjectIDFromHex(ev.PatientID)
		if err != nil {
			slog.Warn("notification_worker: bad patient id", "id", ev.PatientID, "err", err)
			return
		}

		n := &model.Notification{
			User:  patientID,
			Type:  "order_status",
			Title: "Order " + ev.OrderID + " is now " + ev.Status,
			Data: map[string]any{
				"orderId":  ev.OrderID,
				"orderRef": ev.OrderRef,
				"status":   ev.Status,
			},
		}
		if err := notifications.Create(context.Background(), n); err != nil {
			slog.Warn("notification_worker: create order notification failed", "err", err)
		}
	})
	if err != nil {
		slog.Error("notification_worker: subscribe order.status failed", "err", err)
	}

	slog.Info("notification_worker: started")
}

// ---------------------------------------------------------------------------
// sms_worker
// ---------------------------------------------------------------------------

func startSMSWorker(nc *nats.Conn, smsCli *svcsms.Client) {
	_, err := nc.Subscribe(events.SubjectAppointmentCreated+".*", func(msg *nats.Msg) {
		var ev events.AppointmentCreated
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			slog.Warn("sms_worker: bad appointment payload", "err", err)
			return
		}
		if !smsCli.IsEnabled() || ev.PatientPhone == "" {
			return
		}

		err := smsCli.SendAppointmentConfirmation(
			context.Background(),
			ev.PatientPhone,
			ev.DoctorName,
			ev.Date.Format("2006-01-02"),
			ev.Time,
		)
		if err != nil {
			slog.Warn("sms_worker: confirmation send failed", "appointment_id", ev.AppointmentID, "err", err)
			return
		}
		slog.Debug("sms_worker: confirmation sent", "appointment_id", ev.AppointmentID)
	})
	if err != nil {
		slog.Error("sms_worker: subscribe appointment.created failed", "err", err)
	}

	slog.Info("sms_worker: started")
}
