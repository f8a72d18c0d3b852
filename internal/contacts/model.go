package contacts

import (
	"strings"
	"time"
)

const (
	StatusPending  = "pending"
	StatusRead     = "read"
	StatusReplied  = "replied"
	StatusArchived = "archived"
)

type Contact struct {
	ID        string     `bson:"_id,omitempty" json:"_id"`
	FirstName string     `bson:"firstName" json:"firstName"`
	LastName  string     `bson:"lastName" json:"lastName"`
	FullName  string     `bson:"-" json:"fullName"`
	Email     string     `bson:"email" json:"email"`
	Subject   string     `bson:"subject" json:"subject"`
	Message   string     `bson:"message" json:"message"`
	Status    string     `bson:"status" json:"status"`
	IPAddress string     `bson:"ipAddress,omitempty" json:"ipAddress,omitempty"`
	UserAgent string     `bson:"userAgent,omitempty" json:"userAgent,omitempty"`
	IsRead    bool       `bson:"isRead" json:"isRead"`
	ReadAt    *time.Time `bson:"readAt,omitempty" json:"readAt,omitempty"`
	RepliedAt *time.Time `bson:"repliedAt,omitempty" json:"repliedAt,omitempty"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
}

func (c *Contact) fillDerived() {
	c.FullName = c.FirstName + " " + c.LastName
}

type SubmitRequest struct {
	FirstName string `json:"firstName" validate:"max=50"`
	LastName  string `json:"lastName" validate:"max=50"`
	Email     string `json:"email" validate:"contact_email"`
	Subject   string `json:"subject" validate:"max=100"`
	Message   string `json:"message" validate:"max=1000"`
}

// Missing reports whether any of the five fields is blank.
func (r SubmitRequest) Missing() bool {
	for _, v := range []string{r.FirstName, r.LastName, r.Email, r.Subject, r.Message} {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

// Normalized trims every field and lower-cases the email.
func (r SubmitRequest) Normalized() SubmitRequest {
	return SubmitRequest{
		FirstName: strings.TrimSpace(r.FirstName),
		LastName:  strings.TrimSpace(r.LastName),
		Email:     strings.ToLower(strings.TrimSpace(r.Email)),
		Subject:   strings.TrimSpace(r.Subject),
		Message:   strings.TrimSpace(r.Message),
	}
}

type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// NormalizeContact builds the document stored for a submission.
func NormalizeContact(req SubmitRequest, meta RequestMeta, now time.Time) Contact {
	req = req.Normalized()
	return Contact{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Subject:   req.Subject,
		Message:   req.Message,
		Status:    StatusPending,
		IPAddress: strings.TrimSpace(meta.IPAddress),
		UserAgent: strings.TrimSpace(meta.UserAgent),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusRead, StatusReplied, StatusArchived:
		return true
	}
	return false
}

type ListFilter struct {
	Status string
}

type Stats struct {
	TotalContacts   int64 `bson:"totalContacts" json:"totalContacts"`
	PendingContacts int64 `bson:"pendingContacts" json:"pendingContacts"`
	ReadContacts    int64 `bson:"readContacts" json:"readContacts"`
	RepliedContacts int64 `bson:"repliedContacts" json:"repliedContacts"`
}

type SubmitResult struct {
	Contact   Contact
	EmailSent bool
	EmailErr  error
}

type ConfigCheck struct {
	APIKeySet bool
	SenderSet bool
	Err       error
}

func (c ConfigCheck) Valid() bool {
	return c.APIKeySet && c.SenderSet && c.Err == nil
}
