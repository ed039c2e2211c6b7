package email

import "fmt"

// WelcomeEmailData carries the fields for the post-registration email.
type WelcomeEmailData struct {
	Name    string
	Email   string
	Role    string
	AppName string
}

// BuildWelcomeEmail creates the message sent after a successful registration.
func BuildWelcomeEmail(data WelcomeEmailData) Message {
	appName := data.AppName
	if appName == "" {
		appName = "Nabh"
	}

	name := data.Name
	if name == "" {
		name = "there"
	}

	subject := fmt.Sprintf("Welcome to %s", appName)

	textBody := fmt.Sprintf(`Hi %s,

Your %s account has been created as a %s.

You can now sign in and complete your profile.

Thanks,
The %s Team`,
		name, appName, data.Role, appName)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2563eb;">Hi %s,</h2>
    <p>Your %s account has been created as a <strong>%s</strong>.</p>
    <p>You can now sign in and complete your profile.</p>
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">Thanks,<br>The %s Team</p>
</body>
</html>`,
		name, appName, data.Role, appName)

	return Message{
		To:       []string{data.Email},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}

// AppointmentEmailData carries the fields for appointment notifications.
type AppointmentEmailData struct {
	Name       string
	Email      string
	DoctorName string
	Date       string
	Time       string
	Type       string
	AppName    string
}

// BuildAppointmentConfirmationEmail creates the booking confirmation message.
func BuildAppointmentConfirmationEmail(data AppointmentEmailData) Message {
	appName := data.AppName
	if appName == "" {
		appName = "Nabh"
	}

	name := data.Name
	if name == "" {
		name = "there"
	}

	subject := fmt.Sprintf("Your appointment with Dr. %s is booked", data.DoctorName)

	textBody := fmt.Sprintf(`Hi %s,

Your %s appointment with Dr. %s has been booked.

Date: %s
Time: %s

If you need to cancel, you can do so from your dashboard.

Thanks,
The %s Team`,
		name, data.Type, data.DoctorName, data.Date, data.Time, appName)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2563eb;">Hi %s,</h2>
    <p>Your %s appointment with <strong>Dr. %s</strong> has been booked.</p>
    <p style="background-color: #f3f4f6; padding: 10px 15px; border-radius: 4px;">Date: <strong>%s</strong><br>Time: <strong>%s</strong></p>
    <p>If you need to cancel, you can do so from your dashboard.</p>
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">Thanks,<br>The %s Team</p>
</body>
</html>`,
		name, data.Type, data.DoctorName, data.Date, data.Time, appName)

	return Message{
		To:       []string{data.Email},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}
