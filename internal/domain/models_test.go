package domain

import "testing"

func TestTableNames(t *testing.T) {
	cases := map[string]string{
		Subject{}.TableName():             "subjects",
		Student{}.TableName():             "students",
		Mentor{}.TableName():              "mentors",
		MentorSubject{}.TableName():       "mentor_subjects",
		Supervision{}.TableName():         "mentor_students",
		PendingWork{}.TableName():         "pending_works",
		AcceptedWork{}.TableName():        "accepted_works",
		PendingWorkSubject{}.TableName():  "pending_work_subjects",
		AcceptedWorkSubject{}.TableName(): "accepted_work_subjects",
		Idea{}.TableName():                "ideas",
		IdeaSubject{}.TableName():         "idea_subjects",
		Admin{}.TableName():               "admins",
		SupportAgent{}.TableName():        "support_agents",
		SupportRequest{}.TableName():      "support_requests",
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("TableName() = %q; want %q", got, want)
		}
	}
}

func TestMigrations_UniqueConstraintsAndForeignKeys(t *testing.T) {
	db := newTestDB(t)
	if err := db.AutoMigrate(Models()...); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	m := db.Migrator()
	for _, tbl := range Models() {
		if !m.HasTable(tbl) {
			t.Fatalf("expected table for %T to exist", tbl)
		}
	}
	if !m.HasIndex(&AcceptedWork{}, "ux_accepted_student") {
		t.Fatalf("expected unique index ux_accepted_student on accepted_works")
	}
	if !m.HasIndex(&Subject{}, "ux_subjects_name") {
		t.Fatalf("expected unique index ux_subjects_name on subjects")
	}

	// Subject names are unique.
	if err := db.Create(&Subject{Name: "SQL", UsageCount: 1}).Error; err != nil {
		t.Fatalf("insert subject: %v", err)
	}
	if err := db.Create(&Subject{Name: "SQL", UsageCount: 1}).Error; err == nil {
		t.Fatalf("expected duplicate subject name to be rejected")
	}
	// Case-sensitive: "sql" is another subject.
	if err := db.Create(&Subject{Name: "sql", UsageCount: 1}).Error; err != nil {
		t.Fatalf("insert lower-case subject: %v", err)
	}

	st := &Student{DisplayName: "Ann", ChatID: 100}
	if err := db.Create(st).Error; err != nil {
		t.Fatalf("insert student: %v", err)
	}

	// Any number of pending rows per student.
	for i := 0; i < 3; i++ {
		if err := db.Create(&PendingWork{StudentID: st.ID, Description: "thesis"}).Error; err != nil {
			t.Fatalf("insert pending %d: %v", i, err)
		}
	}

	// At most one accepted row per student.
	if err := db.Create(&AcceptedWork{StudentID: st.ID, Description: "thesis"}).Error; err != nil {
		t.Fatalf("insert accepted: %v", err)
	}
	if err := db.Create(&AcceptedWork{StudentID: st.ID, Description: "second"}).Error; err == nil {
		t.Fatalf("expected second accepted row for the same student to be rejected")
	}

	// Join rows must reference existing parents.
	if err := db.Create(&PendingWorkSubject{WorkID: 9999, SubjectID: 1}).Error; err == nil {
		t.Fatalf("expected FK violation for dangling pending work id")
	}
	if err := db.Create(&MentorSubject{MentorID: 9999, SubjectID: 1}).Error; err == nil {
		t.Fatalf("expected FK violation for dangling mentor id")
	}

	// Deleting a subject that is still linked is refused: cascades are explicit.
	var sub Subject
	if err := db.First(&sub, "name = ?", "SQL").Error; err != nil {
		t.Fatalf("load subject: %v", err)
	}
	var pw PendingWork
	if err := db.First(&pw, "student_id = ?", st.ID).Error; err != nil {
		t.Fatalf("load pending: %v", err)
	}
	if err := db.Create(&PendingWorkSubject{WorkID: pw.ID, SubjectID: sub.ID}).Error; err != nil {
		t.Fatalf("link subject: %v", err)
	}
	if err := db.Delete(&Subject{}, sub.ID).Error; err == nil {
		t.Fatalf("expected FK violation when deleting a linked subject")
	}
}
