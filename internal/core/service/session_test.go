package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/adapter/database"
	"storefront/internal/adapter/database/repository"
	"storefront/internal/core/domain"
	"storefront/internal/core/port"
	"storefront/internal/core/service"
	"storefront/internal/core/telemetry"
	"storefront/internal/core/util"
	. "storefront/pkg/test"
)

// fakeGateway keeps the identity in memory for a single simulated request.
type fakeGateway struct {
	identity string
	set      bool
}

func (g *fakeGateway) SetIdentity(ctx context.Context, accountID string) error {
	g.identity = accountID
	g.set = true
	return nil
}

func (g *fakeGateway) ClearIdentity(ctx context.Context) error {
	g.identity = ""
	g.set = false
	return nil
}

func (g *fakeGateway) CurrentIdentity(ctx context.Context) (string, bool, error) {
	return g.identity, g.set, nil
}

type SessionServiceTestSuite struct {
	suite.Suite
	db       *database.DB
	auth     port.AuthService
	sessions port.SessionService
	gateway  *fakeGateway
}

func (s *SessionServiceTestSuite) SetupTest() {
	s.db = InitTestDB()
	repo := repository.NewAccountRepository(s.db, telemetry.NewNoOpProbe())
	s.auth = service.NewAuthService(repo, util.NewBcryptHasher(bcrypt.MinCost), stubIssuer{})
	s.sessions = service.NewSessionService(s.auth, repo, telemetry.NewNoOpProbe())
	s.gateway = &fakeGateway{}
}

func (s *SessionServiceTestSuite) TearDownTest() {
	s.db.Close()
}

func TestSessionServiceTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(SessionServiceTestSuite))
}

func (s *SessionServiceTestSuite) registerDefault() *domain.Account {
	account, err := s.auth.Registration(context.Background(), domain.AccountDraft{
		Email:    "example@domain.com",
		Password: ptr("password123"),
	})
	Expect(err).ToNot(HaveOccurred())

	return account
}

func (s *SessionServiceTestSuite) TestLogin_StoresIdentity() {
	registered := s.registerDefault()

	account, err := s.sessions.Login(context.Background(), s.gateway, " example@domain.com ", "password123")

	Expect(err).ToNot(HaveOccurred())
	Expect(account.UUID).To(Equal(registered.UUID))
	Expect(s.gateway.set).To(BeTrue())
	Expect(s.gateway.identity).To(Equal(registered.UUID.String()))
}

func (s *SessionServiceTestSuite) TestLogin_FailureLeavesSessionUntouched() {
	s.registerDefault()

	account, err := s.sessions.Login(context.Background(), s.gateway, "example@domain.com", "wrong-password")

	Expect(account).To(BeNil())
	Expect(err).To(MatchError(domain.ErrInvalidCredentials))
	Expect(s.gateway.set).To(BeFalse())
}

func (s *SessionServiceTestSuite) TestLogout_ClearsIdentity() {
	s.registerDefault()

	_, err := s.sessions.Login(context.Background(), s.gateway, "example@domain.com", "password123")
	Expect(err).ToNot(HaveOccurred())

	Expect(s.sessions.Logout(context.Background(), s.gateway)).To(Succeed())
	Expect(s.gateway.set).To(BeFalse())

	account, err := s.sessions.Current(context.Background(), s.gateway)
	Expect(err).ToNot(HaveOccurred())
	Expect(account).To(BeNil())
}

func (s *SessionServiceTestSuite) TestLogout_WhenAnonymous() {
	Expect(s.sessions.Logout(context.Background(), s.gateway)).To(Succeed())
	Expect(s.gateway.set).To(BeFalse())
}

func (s *SessionServiceTestSuite) TestCurrent_ResolvesAccount() {
	registered := s.registerDefault()
	_ = s.gateway.SetIdentity(context.Background(), registered.UUID.String())

	account, err := s.sessions.Current(context.Background(), s.gateway)

	Expect(err).ToNot(HaveOccurred())
	Expect(account.Email).To(Equal("example@domain.com"))
}

func (s *SessionServiceTestSuite) TestCurrent_DanglingIdentityIsAnonymous() {
	_ = s.gateway.SetIdentity(context.Background(), uuid.NewString())

	account, err := s.sessions.Current(context.Background(), s.gateway)

	Expect(err).ToNot(HaveOccurred())
	Expect(account).To(BeNil())
}
