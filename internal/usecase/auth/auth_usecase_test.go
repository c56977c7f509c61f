package auth

import (
	"context"
	"testing"
	"time"

	"github.com/driftr-app/driftr-backend/internal/domain"
)

type fakeUsers struct {
	byEmail map[string]*domain.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: make(map[string]*domain.User)}
}

func (f *fakeUsers) Create(ctx context.Context, u *domain.User) error {
	if _, taken := f.byEmail[u.Email]; taken {
		return domain.ErrEmailTaken
	}
	u.ID = "user-" + u.Email
	u.CreatedAt = time.Now()
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

type fakeProfiles struct {
	created []domain.Profile
}

func (f *fakeProfiles) Create(ctx context.Context, p *domain.Profile) error {
	f.created = append(f.created, *p)
	return nil
}
func (f *fakeProfiles) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	return nil, domain.ErrProfileNotFound
}
func (f *fakeProfiles) Update(ctx context.Context, p *domain.Profile) error { return nil }
func (f *fakeProfiles) UpdateLocation(ctx context.Context, id string, lat, lng float64, name *string) error {
	return nil
}
func (f *fakeProfiles) Nearby(ctx context.Context, userID string, lat, lng, radiusKm float64, mode domain.ConnectionMode, limit int) ([]domain.NearbyProfile, error) {
	return nil, nil
}
func (f *fakeProfiles) ListBuilders(ctx context.Context, limit, offset int) ([]domain.BuilderProfile, error) {
	return nil, nil
}
func (f *fakeProfiles) GetBuilder(ctx context.Context, id string) (*domain.BuilderProfile, error) {
	return nil, domain.ErrProfileNotFound
}

const testSecret = "0123456789abcdef0123456789abcdef"

func TestSignUpAndLogin(t *testing.T) {
	users := newFakeUsers()
	profiles := &fakeProfiles{}
	uc := NewAuthUseCase(users, profiles, testSecret, time.Hour)

	signedUp, err := uc.SignUp(context.Background(), "Sam@Example.com", "hunter2secret", "Sam")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if signedUp.User.Email != "sam@example.com" {
		t.Fatalf("email not normalized: %q", signedUp.User.Email)
	}
	if !signedUp.IsNewUser || signedUp.Token == "" {
		t.Fatalf("unexpected signup response %+v", signedUp)
	}
	if len(profiles.created) != 1 || profiles.created[0].Name != "Sam" {
		t.Fatalf("profile not created: %+v", profiles.created)
	}

	loggedIn, err := uc.Login(context.Background(), "sam@example.com", "hunter2secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	userID, err := uc.VerifyToken(loggedIn.Token)
	if err != nil {
		t.Fatalf("token verification failed: %v", err)
	}
	if userID != signedUp.User.ID {
		t.Fatalf("token user = %q, want %q", userID, signedUp.User.ID)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	users := newFakeUsers()
	uc := NewAuthUseCase(users, &fakeProfiles{}, testSecret, time.Hour)

	if _, err := uc.SignUp(context.Background(), "a@b.com", "hunter2secret", "A"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	if _, err := uc.Login(context.Background(), "a@b.com", "wrong-password"); err != domain.ErrInvalidCredentials {
		t.Fatalf("got %v, want ErrInvalidCredentials", err)
	}
	// Unknown email reads the same as a wrong password.
	if _, err := uc.Login(context.Background(), "nobody@b.com", "hunter2secret"); err != domain.ErrInvalidCredentials {
		t.Fatalf("got %v, want ErrInvalidCredentials", err)
	}
}

func TestSignUpShortPassword(t *testing.T) {
	uc := NewAuthUseCase(newFakeUsers(), &fakeProfiles{}, testSecret, time.Hour)
	if _, err := uc.SignUp(context.Background(), "a@b.com", "short", "A"); err != domain.ErrInvalidInput {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
}

func TestVerifyGarbageToken(t *testing.T) {
	uc := NewAuthUseCase(newFakeUsers(), &fakeProfiles{}, testSecret, time.Hour)
	if _, err := uc.VerifyToken("not-a-jwt"); err != domain.ErrInvalidCredentials {
		t.Fatalf("got %v, want ErrInvalidCredentials", err)
	}
}
