package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"anonmsg/internal/auth/models"
	"anonmsg/internal/auth/service/mocks"
	usermodels "anonmsg/internal/user/models"
	id "anonmsg/pkg/domain"
	"anonmsg/pkg/platform/audit"
)

type AuthServiceSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	mockRepo  *mocks.MockAuthRepository
	mockAudit *mocks.MockAuditPublisher
	service   *Service
	ctx       context.Context
	user      *usermodels.User
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}

func (s *AuthServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockRepo = mocks.NewMockAuthRepository(s.ctrl)
	s.mockAudit = mocks.NewMockAuditPublisher(s.ctrl)

	var err error
	s.service, err = New(s.mockRepo, WithAuditPublisher(s.mockAudit))
	s.Require().NoError(err)
	s.ctx = context.Background()
	s.user = &usermodels.User{ID: id.NewUserID(), Username: "bob", Email: "bob@example.com"}
}

func (s *AuthServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *AuthServiceSuite) TestNew() {
	_, err := New(nil)
	s.Require().Error(err)
	s.Contains(err.Error(), "auth repository is required")
}

func (s *AuthServiceSuite) TestLogin() {
	s.Run("invalid input never reaches the repository", func() {
		cases := []struct {
			email, password string
			want            error
		}{
			{"  ", "secret1", models.ErrEmptyEmail},
			{"bob", "secret1", models.ErrInvalidEmailFormat},
			{"bob@example.com", "", models.ErrEmptyPassword},
			{"bob@example.com", "12345", models.ErrPasswordTooShort},
		}
		for _, tc := range cases {
			_, err := s.service.Login(s.ctx, tc.email, tc.password)
			s.Require().ErrorIs(err, tc.want, "email=%q password=%q", tc.email, tc.password)
		}
	})

	s.Run("success emits an audit event", func() {
		s.mockRepo.EXPECT().Login(gomock.Any(), "bob@example.com", "secret1").Return(s.user, nil)
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e audit.Event) error {
			s.Equal(string(audit.EventUserLoggedIn), e.Action)
			s.Equal(s.user.ID, e.UserID)
			return nil
		})

		got, err := s.service.Login(s.ctx, "bob@example.com", "secret1")
		s.Require().NoError(err)
		s.Same(s.user, got)
	})

	s.Run("repository failures pass through", func() {
		for _, repoErr := range []error{models.ErrInvalidCredentials, models.ErrUserNotFound, models.ErrAccountLocked} {
			s.mockRepo.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, repoErr)

			_, err := s.service.Login(s.ctx, "bob@example.com", "secret1")
			s.Same(repoErr, err)
		}
	})
}

func (s *AuthServiceSuite) TestSignup() {
	s.Run("mismatch is checked last", func() {
		_, err := s.service.Signup(s.ctx, "bob", "bob@example.com", "abcd1234", "abcd12345")
		s.Require().ErrorIs(err, models.ErrPasswordMismatch)

		_, err = s.service.Signup(s.ctx, "b", "bob@example.com", "abcd1234", "other")
		s.Require().ErrorIs(err, usermodels.ErrUsernameTooShort)
	})

	s.Run("weak password", func() {
		_, err := s.service.Signup(s.ctx, "bob", "bob@example.com", "abcdefgh", "abcdefgh")
		s.Require().ErrorIs(err, models.ErrWeakPassword)
	})

	s.Run("registers through the repository without the confirmation", func() {
		s.mockRepo.EXPECT().Signup(gomock.Any(), "bob", "bob@example.com", "abcd1234").Return(s.user, nil)
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		got, err := s.service.Signup(s.ctx, "bob", "bob@example.com", "abcd1234", "abcd1234")
		s.Require().NoError(err)
		s.Equal(s.user.ID, got.ID)
	})

	s.Run("taken email passes through", func() {
		s.mockRepo.EXPECT().Signup(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, models.ErrEmailAlreadyExists)

		_, err := s.service.Signup(s.ctx, "bob", "bob@example.com", "abcd1234", "abcd1234")
		s.Require().ErrorIs(err, models.ErrEmailAlreadyExists)
	})
}

func (s *AuthServiceSuite) TestLogout() {
	s.Run("not authenticated", func() {
		s.mockRepo.EXPECT().IsAuthenticated(gomock.Any()).Return(false)

		err := s.service.Logout(s.ctx)
		s.Require().ErrorIs(err, models.ErrNotAuthenticated)
	})

	s.Run("logs out the current session", func() {
		s.mockRepo.EXPECT().IsAuthenticated(gomock.Any()).Return(true)
		s.mockRepo.EXPECT().CurrentUser(gomock.Any()).Return(s.user, nil)
		s.mockRepo.EXPECT().Logout(gomock.Any()).Return(nil)
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e audit.Event) error {
			s.Equal(string(audit.EventUserLoggedOut), e.Action)
			s.Equal(s.user.ID, e.UserID)
			return nil
		})

		s.Require().NoError(s.service.Logout(s.ctx))
	})

	s.Run("repository failure passes through", func() {
		failed := errors.Join(models.ErrLogoutFailed, errors.New("redis down"))
		s.mockRepo.EXPECT().IsAuthenticated(gomock.Any()).Return(true)
		s.mockRepo.EXPECT().CurrentUser(gomock.Any()).Return(s.user, nil)
		s.mockRepo.EXPECT().Logout(gomock.Any()).Return(failed)

		err := s.service.Logout(s.ctx)
		s.Require().ErrorIs(err, models.ErrLogoutFailed)
	})
}

func (s *AuthServiceSuite) TestCurrentUser() {
	s.Run("no session", func() {
		s.mockRepo.EXPECT().CurrentUser(gomock.Any()).Return(nil, nil)

		_, err := s.service.CurrentUser(s.ctx)
		s.Require().ErrorIs(err, models.ErrNotAuthenticated)
	})

	s.Run("signed in", func() {
		s.mockRepo.EXPECT().CurrentUser(gomock.Any()).Return(s.user, nil)

		got, err := s.service.CurrentUser(s.ctx)
		s.Require().NoError(err)
		s.Same(s.user, got)
	})
}
