package service_test

import (
	"context"
	"strings"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"storefront/internal/adapter/database"
	"storefront/internal/adapter/database/repository"
	"storefront/internal/core/domain"
	"storefront/internal/core/port"
	"storefront/internal/core/service"
	"storefront/internal/core/telemetry"
	. "storefront/pkg/test"
	"storefront/pkg/test/factory"
)

func ptr(s string) *string { return &s }

type AccountValidatorTestSuite struct {
	suite.Suite
	db        *database.DB
	repo      port.AccountRepository
	validator *service.AccountValidator
}

func (s *AccountValidatorTestSuite) SetupTest() {
	s.db = InitTestDB()
	s.repo = repository.NewAccountRepository(s.db, telemetry.NewNoOpProbe())
	s.validator = service.NewAccountValidator(s.repo)
}

func (s *AccountValidatorTestSuite) TearDownTest() {
	s.db.Close()
}

func TestAccountValidatorTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(AccountValidatorTestSuite))
}

func (s *AccountValidatorTestSuite) validate(draft domain.AccountDraft) domain.Violations {
	violations, err := s.validator.Validate(context.Background(), draft)
	assert.NoError(s.T(), err)

	return violations
}

func (s *AccountValidatorTestSuite) TestValidate_ValidDraft() {
	violations := s.validate(domain.AccountDraft{
		Email:                "user@example.com",
		Password:             ptr("password"),
		PasswordConfirmation: ptr("password"),
	})

	Expect(violations).To(BeEmpty())
}

func (s *AccountValidatorTestSuite) TestValidate_BlankEmail() {
	for _, email := range []string{"", "   "} {
		violations := s.validate(domain.AccountDraft{Email: email, Password: ptr("password")})

		Expect(violations).To(ConsistOf(domain.Blank("email")))
	}
}

func (s *AccountValidatorTestSuite) TestValidate_MissingPassword() {
	violations := s.validate(domain.AccountDraft{Email: "user@example.com"})

	Expect(violations).To(ConsistOf(domain.Blank("password")))
}

func (s *AccountValidatorTestSuite) TestValidate_PasswordLengthBoundary() {
	violations := s.validate(domain.AccountDraft{Email: "user@example.com", Password: ptr("1234567")})
	Expect(violations).To(ConsistOf(domain.Short("password", 8)))
	Expect(violations[0].Message()).To(Equal("Password is too short (minimum is 8 characters)"))

	violations = s.validate(domain.AccountDraft{Email: "user@example.com", Password: ptr("12345678")})
	Expect(violations).To(BeEmpty())
}

func (s *AccountValidatorTestSuite) TestValidate_PasswordLengthCountsCharacters() {
	violations := s.validate(domain.AccountDraft{Email: "user@example.com", Password: ptr(strings.Repeat("é", 8))})

	Expect(violations).To(BeEmpty())
}

func (s *AccountValidatorTestSuite) TestValidate_ConfirmationMismatch() {
	violations := s.validate(domain.AccountDraft{
		Email:                "user@example.com",
		Password:             ptr("password"),
		PasswordConfirmation: ptr("passw0rd"),
	})

	Expect(violations).To(ConsistOf(domain.Mismatched("password_confirmation", "password")))
	Expect(violations[0].Message()).To(Equal("Password confirmation doesn't match Password"))
}

func (s *AccountValidatorTestSuite) TestValidate_ConfirmationAbsentIsNotChecked() {
	violations := s.validate(domain.AccountDraft{Email: "user@example.com", Password: ptr("password")})

	Expect(violations).To(BeEmpty())
}

func (s *AccountValidatorTestSuite) TestValidate_CaseOnlyDuplicateEmail() {
	_, err := s.repo.Create(context.Background(), factory.NewAccount(map[string]any{"Email": "a@b.com"}))
	Expect(err).ToNot(HaveOccurred())

	violations := s.validate(domain.AccountDraft{Email: "A@B.COM", Password: ptr("password")})

	Expect(violations).To(ConsistOf(domain.Duplicate("email")))
	Expect(violations[0].Message()).To(Equal("Email has already been taken"))
}

func (s *AccountValidatorTestSuite) TestValidate_CollectsEveryViolation() {
	_, err := s.repo.Create(context.Background(), factory.NewAccount(map[string]any{"Email": "taken@example.com"}))
	Expect(err).ToNot(HaveOccurred())

	violations := s.validate(domain.AccountDraft{
		Email:                " Taken@Example.com ",
		Password:             ptr("short"),
		PasswordConfirmation: ptr("other"),
	})

	Expect(violations).To(ConsistOf(
		domain.Duplicate("email"),
		domain.Short("password", 8),
		domain.Mismatched("password_confirmation", "password"),
	))
}

func (s *AccountValidatorTestSuite) TestValidate_PasswordLongerThanBcryptAccepts() {
	violations := s.validate(domain.AccountDraft{Email: "user@example.com", Password: ptr(strings.Repeat("a", 72))})
	Expect(violations).To(BeEmpty())

	violations = s.validate(domain.AccountDraft{Email: "user@example.com", Password: ptr(strings.Repeat("a", 73))})
	Expect(violations).To(ConsistOf(domain.Long("password", 72)))
	Expect(violations[0].Message()).To(Equal("Password is too long (maximum is 72 bytes)"))
}

func (s *AccountValidatorTestSuite) TestValidate_PasswordLengthLimitCountsBytes() {
	// 40 characters, 80 bytes
	violations := s.validate(domain.AccountDraft{Email: "user@example.com", Password: ptr(strings.Repeat("é", 40))})

	Expect(violations).To(ConsistOf(domain.Long("password", 72)))
}

func (s *AccountValidatorTestSuite) TestValidate_NonASCIICaseOnlyDuplicateEmail() {
	_, err := s.repo.Create(context.Background(), factory.NewAccount(map[string]any{"Email": "ÉLODIE@example.com"}))
	Expect(err).ToNot(HaveOccurred())

	violations := s.validate(domain.AccountDraft{Email: "élodie@EXAMPLE.com", Password: ptr("password")})

	Expect(violations).To(ConsistOf(domain.Duplicate("email")))
}
