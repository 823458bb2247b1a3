package users

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/karyatex/konveksi-backend/pkg/config"
	"github.com/karyatex/konveksi-backend/pkg/db/models"
	"github.com/karyatex/konveksi-backend/pkg/enums"
	pkgerrors "github.com/karyatex/konveksi-backend/pkg/errors"
	"github.com/karyatex/konveksi-backend/pkg/security"
)

type fakeUserRepo struct {
	byID map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[uuid.UUID]*models.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, existing := range f.byID {
		if existing.Email == user.Email {
			return errors.New(`duplicate key value violates unique constraint "users_email_key"`)
		}
	}
	user.ID = uuid.New()
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := f.byID[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) List(context.Context, ListFilter) ([]models.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	f.byID[id].IsActive = active
	return nil
}

func (f *fakeUserRepo) UpdateRole(_ context.Context, id uuid.UUID, role enums.StaffRole) error {
	f.byID[id].Role = role
	return nil
}

func (f *fakeUserRepo) UpdatePasswordHash(_ context.Context, id uuid.UUID, hash string) error {
	f.byID[id].PasswordHash = hash
	return nil
}

func testPasswordConfig() config.PasswordConfig {
	// Minimal cost so the argon2 rounds stay fast in tests.
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
}

func newTestUserService(t *testing.T) (Service, *fakeUserRepo) {
	t.Helper()
	repo := newFakeUserRepo()
	svc, err := NewService(repo, testPasswordConfig())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, repo
}

func TestCreateStaffHashesAndNormalizes(t *testing.T) {
	svc, repo := newTestUserService(t)

	dto, err := svc.CreateStaff(context.Background(), CreateStaffInput{
		Email:    "  Dewi@Karyatex.ID ",
		Password: "rahasia-123",
		FullName: " Dewi Lestari ",
		Role:     enums.StaffRoleCS,
	})
	if err != nil {
		t.Fatalf("CreateStaff: %v", err)
	}
	if dto.Email != "dewi@karyatex.id" {
		t.Fatalf("email = %q, want lowercased trimmed", dto.Email)
	}
	if dto.FullName != "Dewi Lestari" {
		t.Fatalf("full name = %q", dto.FullName)
	}
	if !dto.IsActive {
		t.Fatal("new staff must start active")
	}

	stored := repo.byID[dto.ID]
	if stored.PasswordHash == "rahasia-123" || !strings.HasPrefix(stored.PasswordHash, "$argon2id$") {
		t.Fatalf("password not hashed: %q", stored.PasswordHash)
	}
	ok, err := security.VerifyPassword("rahasia-123", stored.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("stored hash does not verify: ok=%v err=%v", ok, err)
	}
}

func TestCreateStaffDuplicateEmail(t *testing.T) {
	svc, _ := newTestUserService(t)

	input := CreateStaffInput{
		Email:    "dewi@karyatex.id",
		Password: "rahasia-123",
		FullName: "Dewi Lestari",
		Role:     enums.StaffRoleCS,
	}
	if _, err := svc.CreateStaff(context.Background(), input); err != nil {
		t.Fatalf("first CreateStaff: %v", err)
	}
	_, err := svc.CreateStaff(context.Background(), input)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCreateStaffValidation(t *testing.T) {
	svc, _ := newTestUserService(t)

	valid := CreateStaffInput{
		Email:    "budi@karyatex.id",
		Password: "rahasia-123",
		FullName: "Budi Santoso",
		Role:     enums.StaffRoleWarehouse,
	}
	cases := map[string]func(*CreateStaffInput){
		"missing email":  func(in *CreateStaffInput) { in.Email = " " },
		"bad email":      func(in *CreateStaffInput) { in.Email = "not-an-email" },
		"missing name":   func(in *CreateStaffInput) { in.FullName = "" },
		"bad role":       func(in *CreateStaffInput) { in.Role = enums.StaffRole("janitor") },
		"short password": func(in *CreateStaffInput) { in.Password = "abc" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			input := valid
			mutate(&input)
			_, err := svc.CreateStaff(context.Background(), input)
			appErr := pkgerrors.As(err)
			if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestSetActiveToggles(t *testing.T) {
	svc, _ := newTestUserService(t)

	dto, err := svc.CreateStaff(context.Background(), CreateStaffInput{
		Email:    "qc@karyatex.id",
		Password: "rahasia-123",
		FullName: "Rina",
		Role:     enums.StaffRoleQCLine,
	})
	if err != nil {
		t.Fatalf("CreateStaff: %v", err)
	}

	deactivated, err := svc.SetActive(context.Background(), dto.ID, false)
	if err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if deactivated.IsActive {
		t.Fatal("expected inactive user")
	}

	_, err = svc.SetActive(context.Background(), uuid.New(), false)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestChangeRole(t *testing.T) {
	svc, _ := newTestUserService(t)

	dto, err := svc.CreateStaff(context.Background(), CreateStaffInput{
		Email:    "lia@karyatex.id",
		Password: "rahasia-123",
		FullName: "Lia",
		Role:     enums.StaffRoleQCCutting,
	})
	if err != nil {
		t.Fatalf("CreateStaff: %v", err)
	}

	changed, err := svc.ChangeRole(context.Background(), dto.ID, enums.StaffRoleLeader)
	if err != nil {
		t.Fatalf("ChangeRole: %v", err)
	}
	if changed.Role != enums.StaffRoleLeader {
		t.Fatalf("role = %s, want leader", changed.Role)
	}

	_, err = svc.ChangeRole(context.Background(), dto.ID, enums.StaffRole("intern"))
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestResetPasswordReturnsTempOnce(t *testing.T) {
	svc, repo := newTestUserService(t)

	dto, err := svc.CreateStaff(context.Background(), CreateStaffInput{
		Email:    "agus@karyatex.id",
		Password: "rahasia-123",
		FullName: "Agus",
		Role:     enums.StaffRolePrint,
	})
	if err != nil {
		t.Fatalf("CreateStaff: %v", err)
	}
	oldHash := repo.byID[dto.ID].PasswordHash

	temp, err := svc.ResetPassword(context.Background(), dto.ID)
	if err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if len(temp) != 12 {
		t.Fatalf("temp password length = %d, want 12", len(temp))
	}
	newHash := repo.byID[dto.ID].PasswordHash
	if newHash == oldHash {
		t.Fatal("password hash unchanged")
	}
	ok, err := security.VerifyPassword(temp, newHash)
	if err != nil || !ok {
		t.Fatalf("temp password does not verify: ok=%v err=%v", ok, err)
	}
}
