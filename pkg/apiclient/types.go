package apiclient

import "time"

type Project struct {
	ID               string     `json:"_id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	ShortDescription string     `json:"shortDescription"`
	Image            string     `json:"image"`
	Tags             []string   `json:"tags"`
	Technologies     []string   `json:"technologies"`
	Features         []string   `json:"features"`
	LiveURL          string     `json:"liveUrl,omitempty"`
	GithubURL        string     `json:"githubUrl,omitempty"`
	Status           string     `json:"status"`
	Category         string     `json:"category"`
	Priority         int        `json:"priority"`
	StartDate        *time.Time `json:"startDate,omitempty"`
	CompletionDate   *time.Time `json:"completionDate,omitempty"`
	IsFeatured       bool       `json:"isFeatured"`
	Views            int64      `json:"views"`
	Likes            int64      `json:"likes"`
	Duration         *int       `json:"duration"`
	StatusColor      string     `json:"statusColor"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

type Duration struct {
	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	IsCurrent bool       `json:"isCurrent"`
}

type Experience struct {
	ID                string    `json:"_id"`
	Company           string    `json:"company"`
	Position          string    `json:"position"`
	Duration          Duration  `json:"duration"`
	Location          string    `json:"location,omitempty"`
	WorkType          string    `json:"workType"`
	Achievements      []string  `json:"achievements"`
	Technologies      []string  `json:"technologies"`
	Skills            []string  `json:"skills"`
	FormattedDuration string    `json:"formattedDuration"`
	DurationMonths    *int      `json:"durationMonths"`
	DurationYears     *float64  `json:"durationYears"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

type ContactForm struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
}

type ContactResult struct {
	Success    bool      `json:"success"`
	Message    string    `json:"message"`
	ContactID  string    `json:"contactId"`
	Timestamp  time.Time `json:"timestamp"`
	EmailSent  bool      `json:"emailSent"`
	EmailError *string   `json:"emailError"`
}

type Health struct {
	Status    string  `json:"status"`
	Message   string  `json:"message"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
	Database  string  `json:"database"`
}
