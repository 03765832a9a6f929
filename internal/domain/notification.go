package domain

// Notification event types appended to a user's unseen inbox.
const (
	NotifNewAppointmentRequest   = "new-appointment-request"
	NotifAppointmentStatusChange = "appointment-status-changed"
	NotifNewDoctorRequest        = "new-doctor-request"
	NotifDoctorRequestChanged    = "new-doctor-request-changed"
)

// Notification is an inbox entry embedded in the owning user's document.
// It has no id and no timestamp: ordering is insertion order within the
// sequence, and entries are only ever addressed in bulk.
type Notification struct {
	Type        string                 `json:"type" dynamodbav:"type"`
	Message     string                 `json:"message" dynamodbav:"message"`
	OnClickPath string                 `json:"on_click_path" dynamodbav:"on_click_path"`
	Data        map[string]interface{} `json:"data,omitempty" dynamodbav:"data,omitempty"`
}

// NewAppointmentRequestNotification is appended to the doctor's linked user
// account when a patient books an appointment.
func NewAppointmentRequestNotification(patientName string) Notification {
	return Notification{
		Type:        NotifNewAppointmentRequest,
		Message:     "You have a new appointment request from " + patientName,
		OnClickPath: "/doctor/appointments",
	}
}

// AppointmentStatusChangedNotification is appended to the patient's account
// when the doctor changes an appointment's status. The message interpolates
// the caller-supplied status string as-is.
func AppointmentStatusChangedNotification(status string) Notification {
	return Notification{
		Type:        NotifAppointmentStatusChange,
		Message:     "Your appointment has been " + status,
		OnClickPath: "/appointments",
	}
}

// NewDoctorRequestNotification is appended to each administrator account when
// a user applies for a doctor account.
func NewDoctorRequestNotification(doctorID, fullName string) Notification {
	return Notification{
		Type:        NotifNewDoctorRequest,
		Message:     fullName + " has applied for a doctor account",
		OnClickPath: "/admin/doctors",
		Data: map[string]interface{}{
			"doctor_id": doctorID,
			"name":      fullName,
		},
	}
}

// DoctorRequestChangedNotification is appended to the applicant's account
// when an administrator approves or rejects the doctor application.
func DoctorRequestChangedNotification(status string) Notification {
	return Notification{
		Type:        NotifDoctorRequestChanged,
		Message:     "Your doctor account request has been " + status,
		OnClickPath: "/notifications",
	}
}
