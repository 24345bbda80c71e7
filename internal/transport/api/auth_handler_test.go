package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/layzzbe/market/internal/domain"
	"github.com/layzzbe/market/internal/service"
	"github.com/layzzbe/market/internal/service/tokens"
	"github.com/layzzbe/market/internal/transport/api/mocks"
	"github.com/layzzbe/market/internal/transport/api/testutils"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
)

func testAPILogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type AuthHandlerTestSuite struct {
	suite.Suite
	mockUserService *mocks.MockUserServicer
	router          *gin.Engine
	jwtSecret       []byte
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

func (s *AuthHandlerTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())

	s.mockUserService = mocks.NewMockUserServicer(mockCtrl)
	s.jwtSecret = []byte("super secret key")

	s.router = New(RouterArgs{
		Logger:       testAPILogger(),
		UserService:  s.mockUserService,
		JWTSecretKey: s.jwtSecret,
	})
}

func (s *AuthHandlerTestSuite) TestRegister() {
	jwtTokenStr, jwtErr := tokens.GenerateUserJWT(1, time.Hour, s.jwtSecret)
	s.Require().NoError(jwtErr)

	argsOk := service.RegisterUserArgs{Email: "new@example.com", Password: "password"}
	argsDup := service.RegisterUserArgs{Email: "taken@example.com", Password: "password"}

	s.mockUserService.EXPECT().Register(gomock.Any(), argsOk).
		Return(&domain.User{Email: argsOk.Email}, jwtTokenStr, nil)
	s.mockUserService.EXPECT().Register(gomock.Any(), argsDup).
		Return(nil, "", domain.ErrDuplicateKey)

	cases := []struct {
		name        string
		args        *UserRegisterParams
		jwtTokenStr *string
		wantStatus  int
	}{
		{
			name:       "user created",
			args:       &UserRegisterParams{Email: argsOk.Email, Password: argsOk.Password},
			wantStatus: http.StatusOK,
		}, {
			name:        "already logged in",
			args:        &UserRegisterParams{Email: argsOk.Email, Password: argsOk.Password},
			wantStatus:  http.StatusUnauthorized,
			jwtTokenStr: &jwtTokenStr,
		}, {
			name:       "duplicate email",
			args:       &UserRegisterParams{Email: argsDup.Email, Password: argsDup.Password},
			wantStatus: http.StatusConflict,
		}, {
			name:       "bad request",
			args:       nil,
			wantStatus: http.StatusBadRequest,
		}, {
			name:       "malformed email",
			args:       &UserRegisterParams{Email: "not-an-email", Password: "password"},
			wantStatus: http.StatusUnprocessableEntity,
		}, {
			name:       "short password",
			args:       &UserRegisterParams{Email: "new@example.com", Password: "123"},
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			var payload []byte
			if t.args != nil {
				payload, _ = json.Marshal(t.args)
			}

			args := testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    RouteGroup + RegisterRoute,
				Body:   bytes.NewReader(payload),
			}

			var reqOpts []func(*testutils.RequestOptions)
			if t.jwtTokenStr != nil {
				reqOpts = append(reqOpts, testutils.WithBearer(*t.jwtTokenStr))
			}

			res, err := testutils.MakeRequest(args, reqOpts...)

			s.Require().NoError(err)
			s.Equal(t.wantStatus, res.StatusCode)
		})
	}
}

func (s *AuthHandlerTestSuite) TestLogin() {
	argsOk := service.LoginUserArgs{Email: "user@example.com", Password: "password"}
	argsWrongEmail := service.LoginUserArgs{Email: "wrong@example.com", Password: "password"}
	argsWrongPass := service.LoginUserArgs{Email: "user@example.com", Password: "<wrong>"}

	s.mockUserService.EXPECT().
		Login(gomock.Any(), argsOk).
		Return(&domain.User{Email: argsOk.Email}, "token", nil)
	s.mockUserService.EXPECT().
		Login(gomock.Any(), argsWrongEmail).
		Return(nil, "", domain.ErrRecordNotFound)
	s.mockUserService.EXPECT().
		Login(gomock.Any(), argsWrongPass).
		Return(nil, "", domain.ErrPasswordMissMatch)

	cases := []struct {
		name       string
		args       *UserLoginParams
		wantStatus int
	}{
		{
			name:       "ok",
			args:       &UserLoginParams{Email: argsOk.Email, Password: argsOk.Password},
			wantStatus: http.StatusOK,
		}, {
			name:       "bad request",
			args:       nil,
			wantStatus: http.StatusBadRequest,
		}, {
			name:       "wrong email",
			args:       &UserLoginParams{Email: argsWrongEmail.Email, Password: argsWrongEmail.Password},
			wantStatus: http.StatusUnauthorized,
		}, {
			name:       "wrong password",
			args:       &UserLoginParams{Email: argsWrongPass.Email, Password: argsWrongPass.Password},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			var payload []byte
			if t.args != nil {
				payload, _ = json.Marshal(t.args)
			}

			res, err := testutils.MakeRequest(testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    RouteGroup + LoginRoute,
				Body:   bytes.NewReader(payload),
			})

			s.Require().NoError(err)
			s.Equal(t.wantStatus, res.StatusCode)

			if t.wantStatus == http.StatusOK {
				s.Equal("Bearer token", res.Header.Get("Authorization"))
			}
		})
	}
}
