package models

// ContactMessage is a support request submitted through the contact form.
type ContactMessage struct {
	ID        string
	Name      string
	Email     string
	Message   string
	CreatedAt int64
}
