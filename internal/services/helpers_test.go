package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/workbenchflow/workbench-api/internal/models"
	"github.com/workbenchflow/workbench-api/internal/repository"
	"github.com/workbenchflow/workbench-api/internal/token"
)

// fakeMailer records sent codes; Fail makes every send error.
type fakeMailer struct {
	Sent []sentMail
	Fail bool
}

type sentMail struct {
	To   string
	Code string
}

func (m *fakeMailer) SendOtp(_ context.Context, to, code string) error {
	if m.Fail {
		return errors.New("smtp unreachable")
	}
	m.Sent = append(m.Sent, sentMail{To: to, Code: code})
	return nil
}

func (m *fakeMailer) lastCode() string {
	if len(m.Sent) == 0 {
		return ""
	}
	return m.Sent[len(m.Sent)-1].Code
}

type serviceTestEnv struct {
	db          *gorm.DB
	userRepo    repository.UserRepository
	otpRepo     repository.OtpRepository
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	markRepo    repository.MarkRepository
	commentRepo repository.CommentRepository
	pinRepo     repository.PinRepository
	fileRepo    repository.FileRepository

	mailer *fakeMailer
	tokens *token.Manager
	clock  *fakeClock

	otp      *OtpService
	auth     *AuthService
	users    *UserService
	access   *AccessService
	projects *ProjectService
	tasks    *TaskService
	marks    *MarkService
	comments *CommentService
	pins     *PinService
}

// fakeClock is a settable time source shared by the OTP and token
// services under test.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func setupServiceTestEnv(t *testing.T) *serviceTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Otp{},
		&models.User{},
		&models.StoreFile{},
		&models.Project{},
		&models.ProjectRole{},
		&models.ProjectMember{},
		&models.TaskGroup{},
		&models.TaskState{},
		&models.Task{},
		&models.Mark{},
		&models.Comment{},
		&models.Pin{},
		&models.TaskFile{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	log := zerolog.Nop()
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	mail := &fakeMailer{}

	env := &serviceTestEnv{
		db:          db,
		userRepo:    repository.NewUserRepository(db),
		otpRepo:     repository.NewOtpRepository(db),
		projectRepo: repository.NewProjectRepository(db),
		taskRepo:    repository.NewTaskRepository(db),
		markRepo:    repository.NewMarkRepository(db),
		commentRepo: repository.NewCommentRepository(db),
		pinRepo:     repository.NewPinRepository(db),
		fileRepo:    repository.NewFileRepository(db),
		mailer:      mail,
		clock:       clock,
	}

	env.tokens = token.NewManager([]byte("test-secret"), "workbench-test", 15*time.Hour).WithClock(clock.Now)
	env.otp = NewOtpService(env.userRepo, env.otpRepo, 2*time.Minute, 30*time.Second, log).WithClock(clock.Now)
	env.auth = NewAuthService(env.userRepo, env.otp, mail, env.tokens, time.Second, log)
	env.users = NewUserService(env.userRepo, log)
	env.access = NewAccessService(env.projectRepo, env.taskRepo)
	env.projects = NewProjectService(env.projectRepo, env.userRepo, env.access, log)
	env.tasks = NewTaskService(env.taskRepo, env.userRepo, env.access, log)
	env.marks = NewMarkService(env.markRepo, env.taskRepo, env.access, log)
	env.comments = NewCommentService(env.commentRepo, env.tasks, log)
	env.pins = NewPinService(env.pinRepo, env.tasks)

	return env
}

// registerConfirmed creates a user through the real registration path
// and confirms them with the code the fake mailer captured.
func (env *serviceTestEnv) registerConfirmed(t *testing.T, username, email string) *models.User {
	t.Helper()

	user, err := env.auth.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    email,
		Password: "supersecret",
	})
	require.NoError(t, err)

	require.NoError(t, env.auth.ConfirmOtp(email, env.mailer.lastCode()))

	confirmed, err := env.userRepo.FindByID(user.ID)
	require.NoError(t, err)
	return confirmed
}
