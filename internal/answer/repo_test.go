package answer

import (
	"context"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Job{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestJobLifecycle(t *testing.T) {
	repo := NewRepo(openTestDB(t))
	ctx := context.Background()

	job := &Job{ID: "01TESTJOB00000000000000000", UserID: 1, ChatID: 1, Query: "вопрос", Mode: ModeWeb, Status: JobQueued}
	if err := repo.CreateJob(ctx, job); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.UpdateJobStatusRunning(ctx, job.ID); err != nil {
		t.Fatalf("running: %v", err)
	}
	if err := repo.MarkJobSucceeded(ctx, job.ID, "ответ"); err != nil {
		t.Fatalf("succeed: %v", err)
	}

	got, err := repo.GetJobByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != JobSucceeded {
		t.Fatalf("status = %s", got.Status)
	}
	if got.Answer == nil || *got.Answer != "ответ" {
		t.Fatalf("answer = %v", got.Answer)
	}
}

func TestCreateJobOrGetExistingDeduplicates(t *testing.T) {
	repo := NewRepo(openTestDB(t))
	ctx := context.Background()

	key := "retry-key-1"
	first := &Job{ID: "01TESTJOB00000000000000001", UserID: 5, ChatID: 5, Query: "q", Mode: ModeWeb, IdempotencyKey: &key, Status: JobQueued}
	j1, created, err := repo.CreateJobOrGetExisting(ctx, first)
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	if !created {
		t.Fatalf("first call must create")
	}

	dup := &Job{ID: "01TESTJOB00000000000000002", UserID: 5, ChatID: 5, Query: "q", Mode: ModeWeb, IdempotencyKey: &key, Status: JobQueued}
	j2, created, err := repo.CreateJobOrGetExisting(ctx, dup)
	if err != nil {
		t.Fatalf("dup create: %v", err)
	}
	if created {
		t.Fatalf("duplicate key must not create a second job")
	}
	if j2.ID != j1.ID {
		t.Fatalf("expected existing job %s, got %s", j1.ID, j2.ID)
	}
}
