package internal

import "time"

type User struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"` // participant|organizer|judge
	CreatedAt time.Time `json:"createdAt"`
}

type Event struct {
	ID              int       `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Location        string    `json:"location"`
	StartDate       time.Time `json:"startDate"`
	EndDate         time.Time `json:"endDate"`
	MaxParticipants *int      `json:"maxParticipants,omitempty"`
	PrizePool       string    `json:"prizePool"`
	Status          string    `json:"status"` // upcoming|active|completed
	Tracks          []string  `json:"tracks"`
	OrganizerID     int       `json:"organizerId"`
	Participants    []int     `json:"participants"`
	Judges          []int     `json:"judges"`
	CreatedAt       time.Time `json:"createdAt"`
}

type Project struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	TeamMembers  []string  `json:"teamMembers"`
	SubmittedBy  int       `json:"submittedBy"`
	EventID      *int      `json:"eventId,omitempty"`
	GithubURL    string    `json:"githubUrl"`
	DemoURL      string    `json:"demoUrl"`
	Technologies []string  `json:"technologies"`
	Track        string    `json:"track"`
	SubmittedAt  time.Time `json:"submittedAt"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Scores are the per-criterion marks a judge assigns, each in [1,10].
// Impact is optional and only counts toward the overall when present.
type Scores struct {
	Innovation   int  `json:"innovation"`
	Technical    int  `json:"technical"`
	Feasibility  int  `json:"feasibility"`
	Presentation int  `json:"presentation"`
	Impact       *int `json:"impact,omitempty"`
}

type Rating struct {
	ID        int        `json:"id"`
	ProjectID int        `json:"projectId"`
	JudgeID   int        `json:"judgeId"`
	EventID   *int       `json:"eventId,omitempty"`
	Scores    Scores     `json:"scores"`
	Overall   float64    `json:"overall"`
	Feedback  string     `json:"feedback"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type Invite struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	InvitedBy int       `json:"invitedBy"`
	Status    string    `json:"status"` // pending|accepted|declined
	CreatedAt time.Time `json:"createdAt"`
}

type Team struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	LeaderID    int       `json:"leaderId"`
	EventID     *int      `json:"eventId,omitempty"`
	Members     []int     `json:"members"`
	Invites     []Invite  `json:"invites"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Announcement struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	EventID   *int      `json:"eventId,omitempty"`
	Priority  string    `json:"priority"` // low|normal|high
	Audience  string    `json:"audience"`
	AuthorID  int       `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
}

type Question struct {
	ID         int        `json:"id"`
	Title      string     `json:"title"`
	Question   string     `json:"question"`
	AskedBy    int        `json:"askedBy"`
	EventID    *int       `json:"eventId,omitempty"`
	Answer     *string    `json:"answer"`
	AnsweredBy *int       `json:"answeredBy"`
	AnsweredAt *time.Time `json:"answeredAt"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// LeaderboardEntry is a project joined with its rating aggregate.
type LeaderboardEntry struct {
	ProjectID    int     `json:"projectId"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	SubmittedBy  int     `json:"submittedBy"`
	Track        string  `json:"track"`
	AverageScore float64 `json:"averageScore"`
	RatingCount  int     `json:"ratingCount"`
}
