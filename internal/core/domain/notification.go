package domain

// Notification is a push message addressed to a device token.
type Notification struct {
	To    string
	Title string
	Body  string
	Data  map[string]string
}

// Warning is a non-fatal condition raised by an operation whose primary
// effect already succeeded.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
