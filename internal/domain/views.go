package domain

// WorkState is the table a unit of work currently lives in.
type WorkState string

const (
	StatePending  WorkState = "pending"
	StateAccepted WorkState = "accepted"
)

// SubjectRef is the id+name pair handed to callers outside the catalog.
type SubjectRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// WorkView is a unit of work with its resolved subjects.
type WorkView struct {
	ID          int64        `json:"id"`
	StudentID   int64        `json:"student_id"`
	State       WorkState    `json:"state"`
	Description string       `json:"description"`
	Subjects    []SubjectRef `json:"subjects"`
}

// StudentView embeds the student's pending and accepted work.
type StudentView struct {
	ID          int64      `json:"id"`
	DisplayName string     `json:"display_name"`
	ChatID      int64      `json:"chat_id"`
	Pending     []WorkView `json:"pending"`
	Accepted    *WorkView  `json:"accepted,omitempty"`
}

// SupervisedStudent is a student as seen from their mentor.
type SupervisedStudent struct {
	ID          int64     `json:"id"`
	DisplayName string    `json:"display_name"`
	ChatID      int64     `json:"chat_id"`
	Work        *WorkView `json:"work,omitempty"`
}

// MentorView is a mentor with subjects and supervised students resolved.
type MentorView struct {
	ID          int64               `json:"id"`
	DisplayName string              `json:"display_name"`
	ChatID      int64               `json:"chat_id"`
	Load        int64               `json:"load"`
	Archived    bool                `json:"archived"`
	Subjects    []SubjectRef        `json:"subjects"`
	Students    []SupervisedStudent `json:"students"`
}

// IdeaView is an idea with its subjects resolved.
type IdeaView struct {
	ID          int64        `json:"id"`
	MentorID    int64        `json:"mentor_id"`
	Description string       `json:"description"`
	Subjects    []SubjectRef `json:"subjects"`
}

// Roles reports which identity lists a chat id belongs to.
type Roles struct {
	ChatID  int64 `json:"chat_id"`
	Admin   bool  `json:"admin"`
	Support bool  `json:"support"`
	Mentor  bool  `json:"mentor"`
	Student bool  `json:"student"`
}

// Census holds row counts of the main tables.
type Census struct {
	Subjects     int64 `json:"subjects"`
	Students     int64 `json:"students"`
	Mentors      int64 `json:"mentors"`
	Pending      int64 `json:"pending"`
	Accepted     int64 `json:"accepted"`
	Ideas        int64 `json:"ideas"`
	OpenRequests int64 `json:"open_requests"`
}
