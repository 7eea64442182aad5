// Package domain defines the persistence models for subjects, parties
// (students, mentors, admins, support agents), units of work, ideas and
// support requests. These types are mapped with GORM and form the core data
// layer of the mentorship backend.
//
// A unit of work lives in exactly one of two tables at any time: PendingWork
// (filed, not yet assigned) or AcceptedWork (assigned to a mentor). Table
// membership is the state. Each table has its own subject join table so that
// foreign keys stay exact.
//
// Join tables carry no ON DELETE CASCADE: the services delete child rows in
// dependency order themselves, which keeps every cascade visible in code.
package domain

// Subject is an entry of the global subject vocabulary.
//
// Fields:
//   - ID: store-assigned primary key.
//   - Name: unique, non-empty, case-sensitive.
//   - UsageCount: advisory reference counter used for ranking.
//   - Archived: excluded from active listings, still a valid FK target.
type Subject struct {
	ID         int64  `json:"id"          gorm:"primaryKey;autoIncrement"`
	Name       string `json:"name"        gorm:"type:varchar(255);not null;uniqueIndex:ux_subjects_name"`
	UsageCount int64  `json:"usage_count" gorm:"not null;default:0"`
	Archived   bool   `json:"archived"    gorm:"not null;default:false;index"`
}

// TableName returns the database table name for Subject.
func (Subject) TableName() string { return "subjects" }

// Student is created implicitly by the first filed request of a chat identity
// and garbage-collected once it holds no pending and no accepted work.
type Student struct {
	ID          int64  `json:"id"           gorm:"primaryKey;autoIncrement"`
	DisplayName string `json:"display_name" gorm:"type:varchar(255);not null;default:''"`
	ChatID      int64  `json:"chat_id"      gorm:"not null;uniqueIndex:ux_students_chat"`
}

// TableName returns the database table name for Student.
func (Student) TableName() string { return "students" }

// Mentor supervises students. Load counts accepted assignments and is only
// ever changed with increment/decrement statements.
type Mentor struct {
	ID          int64  `json:"id"           gorm:"primaryKey;autoIncrement"`
	DisplayName string `json:"display_name" gorm:"type:varchar(255);not null;default:''"`
	ChatID      int64  `json:"chat_id"      gorm:"not null;uniqueIndex:ux_mentors_chat"`
	Load        int64  `json:"load"         gorm:"column:load_count;not null;default:0;index"`
	Archived    bool   `json:"archived"     gorm:"not null;default:false"`
}

// TableName returns the database table name for Mentor.
func (Mentor) TableName() string { return "mentors" }

// MentorSubject links a mentor to a subject they can supervise.
type MentorSubject struct {
	MentorID  int64 `gorm:"primaryKey;autoIncrement:false"`
	SubjectID int64 `gorm:"primaryKey;autoIncrement:false;index"`

	Mentor  Mentor  `json:"-" gorm:"foreignKey:MentorID;references:ID"`
	Subject Subject `json:"-" gorm:"foreignKey:SubjectID;references:ID"`
}

// TableName returns the database table name for MentorSubject.
func (MentorSubject) TableName() string { return "mentor_subjects" }

// Supervision is the "currently supervises" edge between a mentor and a student.
type Supervision struct {
	MentorID  int64 `gorm:"primaryKey;autoIncrement:false"`
	StudentID int64 `gorm:"primaryKey;autoIncrement:false;index"`

	Mentor  Mentor  `json:"-" gorm:"foreignKey:MentorID;references:ID"`
	Student Student `json:"-" gorm:"foreignKey:StudentID;references:ID"`
}

// TableName returns the database table name for Supervision.
func (Supervision) TableName() string { return "mentor_students" }

// PendingWork is a filed-but-unassigned unit of work. A student may hold any
// number of pending rows at once.
type PendingWork struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	StudentID   int64  `gorm:"not null;index:idx_pending_student"`
	Description string `gorm:"type:text;not null"`

	Student Student `json:"-" gorm:"foreignKey:StudentID;references:ID"`
}

// TableName returns the database table name for PendingWork.
func (PendingWork) TableName() string { return "pending_works" }

// AcceptedWork is a unit of work assigned to a mentor. The unique index on
// StudentID enforces "at most one accepted work per student".
type AcceptedWork struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	StudentID   int64  `gorm:"not null;uniqueIndex:ux_accepted_student"`
	Description string `gorm:"type:text;not null"`

	Student Student `json:"-" gorm:"foreignKey:StudentID;references:ID"`
}

// TableName returns the database table name for AcceptedWork.
func (AcceptedWork) TableName() string { return "accepted_works" }

// PendingWorkSubject tags a pending work with a subject, unique per pair.
type PendingWorkSubject struct {
	WorkID    int64 `gorm:"primaryKey;autoIncrement:false"`
	SubjectID int64 `gorm:"primaryKey;autoIncrement:false;index"`

	Work    PendingWork `json:"-" gorm:"foreignKey:WorkID;references:ID"`
	Subject Subject     `json:"-" gorm:"foreignKey:SubjectID;references:ID"`
}

// TableName returns the database table name for PendingWorkSubject.
func (PendingWorkSubject) TableName() string { return "pending_work_subjects" }

// AcceptedWorkSubject tags an accepted work with a subject, unique per pair.
type AcceptedWorkSubject struct {
	WorkID    int64 `gorm:"primaryKey;autoIncrement:false"`
	SubjectID int64 `gorm:"primaryKey;autoIncrement:false;index"`

	Work    AcceptedWork `json:"-" gorm:"foreignKey:WorkID;references:ID"`
	Subject Subject      `json:"-" gorm:"foreignKey:SubjectID;references:ID"`
}

// TableName returns the database table name for AcceptedWorkSubject.
func (AcceptedWorkSubject) TableName() string { return "accepted_work_subjects" }

// Idea is a mentor-authored proposal with its own subject tags.
type Idea struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	MentorID    int64  `gorm:"not null;index"`
	Description string `gorm:"type:text;not null"`

	Mentor Mentor `json:"-" gorm:"foreignKey:MentorID;references:ID"`
}

// TableName returns the database table name for Idea.
func (Idea) TableName() string { return "ideas" }

// IdeaSubject tags an idea with a subject.
type IdeaSubject struct {
	IdeaID    int64 `gorm:"primaryKey;autoIncrement:false"`
	SubjectID int64 `gorm:"primaryKey;autoIncrement:false;index"`

	Idea    Idea    `json:"-" gorm:"foreignKey:IdeaID;references:ID"`
	Subject Subject `json:"-" gorm:"foreignKey:SubjectID;references:ID"`
}

// TableName returns the database table name for IdeaSubject.
func (IdeaSubject) TableName() string { return "idea_subjects" }

// Admin is a flat identity list entry.
type Admin struct {
	ID     int64 `json:"id"      gorm:"primaryKey;autoIncrement"`
	ChatID int64 `json:"chat_id" gorm:"not null;uniqueIndex:ux_admins_chat"`
}

// TableName returns the database table name for Admin.
func (Admin) TableName() string { return "admins" }

// SupportAgent resolves support requests.
type SupportAgent struct {
	ID          int64  `json:"id"           gorm:"primaryKey;autoIncrement"`
	ChatID      int64  `json:"chat_id"      gorm:"not null;uniqueIndex:ux_support_chat"`
	DisplayName string `json:"display_name" gorm:"type:varchar(255);not null;default:''"`
}

// TableName returns the database table name for SupportAgent.
func (SupportAgent) TableName() string { return "support_agents" }

// SupportRequest is an open help request; at most one per chat.
type SupportRequest struct {
	ID                int64  `json:"id"                            gorm:"primaryKey;autoIncrement"`
	ChatID            int64  `json:"chat_id"                       gorm:"not null;uniqueIndex:ux_support_requests_chat"`
	DisplayName       string `json:"display_name"                  gorm:"type:varchar(255);not null;default:''"`
	Issue             string `json:"issue"                         gorm:"type:text;not null;default:''"`
	AssignedSupportID *int64 `json:"assigned_support_id,omitempty" gorm:"index"`

	Agent *SupportAgent `json:"-" gorm:"foreignKey:AssignedSupportID;references:ID"`
}

// TableName returns the database table name for SupportRequest.
func (SupportRequest) TableName() string { return "support_requests" }

// Models lists every persisted model in foreign-key dependency order
// (parents first). AutoMigrate and test fixtures use it.
func Models() []any {
	return []any{
		&Subject{},
		&Student{},
		&Mentor{},
		&MentorSubject{},
		&Supervision{},
		&PendingWork{},
		&AcceptedWork{},
		&PendingWorkSubject{},
		&AcceptedWorkSubject{},
		&Idea{},
		&IdeaSubject{},
		&Admin{},
		&SupportAgent{},
		&SupportRequest{},
		&Idempotency{},
	}
}
