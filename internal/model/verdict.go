package model

const (
	ErrMissingPhoneNumber = "MISSING_PHONE_NUMBER"
	ErrUnexpected         = "UNEXPECTED_ERROR"
	ErrNoActiveMembership = "NO_ACTIVE_MEMBERSHIP"
	ErrCustomerNotFound   = "CUSTOMER_NOT_FOUND"
)

const (
	MembershipActive   = "Active"
	MembershipInactive = "Inactive"
)

// Verdict: результат проверки абонемента, уходит клиенту как JSON
type Verdict struct {
	Success      bool          `json:"success"`
	Message      string        `json:"message"`
	Error        string        `json:"error,omitempty"`
	CustomerData *CustomerData `json:"customerData,omitempty"`

	// Mock: вердикт сгенерирован без обращения к платежной системе
	Mock bool `json:"-"`
}

type CustomerData struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	MembershipStatus string `json:"membershipStatus"`
	ExpirationDate   string `json:"expirationDate,omitempty"`
	PaymentStatus    string `json:"paymentStatus"`
}

// CheckInRecord: запись для ленты админки, кладется в details журнала
type CheckInRecord struct {
	ID             string `json:"id"`
	Timestamp      string `json:"timestamp"`
	CustomerName   string `json:"customerName"`
	PhoneNumber    string `json:"phoneNumber"`
	Success        bool   `json:"success"`
	MembershipType string `json:"membershipType"`
	Message        string `json:"message"`
	NextPayment    string `json:"nextPayment"`
	Initials       string `json:"initials"`
}
