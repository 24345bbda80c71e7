package api

import (
	"bytes"
	"encoding/json"
	"fmt"
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
	"github.com/stretchr/testify/suite"
)

type AdminHandlerTestSuite struct {
	suite.Suite
	mockUserService *mocks.MockUserServicer
	router          *gin.Engine
	adminID         int64
	jwtToken        string
}

func TestAdminHandlerSuite(t *testing.T) {
	suite.Run(t, new(AdminHandlerTestSuite))
}

func (s *AdminHandlerTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())

	s.mockUserService = mocks.NewMockUserServicer(mockCtrl)
	s.adminID = 7
	jwtSecret := []byte("super secret key")

	token, tokenErr := tokens.GenerateUserJWT(s.adminID, time.Hour, jwtSecret)
	s.Require().NoError(tokenErr)
	s.jwtToken = token

	// AdminRequired перечитывает профиль на каждый запрос
	s.mockUserService.EXPECT().
		GetProfile(gomock.Any(), s.adminID).
		Return(&service.Profile{
			User: domain.User{ID: s.adminID, Email: "admin@example.com", Role: domain.RoleAdmin},
		}, nil).AnyTimes()

	s.router = New(RouterArgs{
		Logger:       testAPILogger(),
		UserService:  s.mockUserService,
		JWTSecretKey: jwtSecret,
	})
}

func (s *AdminHandlerTestSuite) roleURL(userID int64) string {
	return fmt.Sprintf("%s%s/users/%d/role", RouteGroup, AdminRouteGroup, userID)
}

func (s *AdminHandlerTestSuite) rolePayload(role string) []byte {
	payload, _ := json.Marshal(UpdateRoleParams{Role: role})
	return payload
}

func (s *AdminHandlerTestSuite) TestUpdateUserRole() {
	targetID := int64(8)
	s.mockUserService.EXPECT().
		UpdateRole(gomock.Any(), targetID, domain.RoleModerator).
		Return(&domain.User{ID: targetID, Email: "user@example.com", Role: domain.RoleModerator}, nil)

	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPut,
		URL:    s.roleURL(targetID),
		Body:   bytes.NewReader(s.rolePayload("moderator")),
	}, testutils.WithBearer(s.jwtToken))

	s.Require().NoError(err)
	s.Equal(http.StatusOK, res.StatusCode)
}

func (s *AdminHandlerTestSuite) TestUpdateUserRole_Self() {
	// смена собственной роли отклоняется до обращения к сервису:
	// UpdateRole не ожидается и его вызов провалит тест
	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPut,
		URL:    s.roleURL(s.adminID),
		Body:   bytes.NewReader(s.rolePayload("user")),
	}, testutils.WithBearer(s.jwtToken))

	s.Require().NoError(err)
	s.Equal(http.StatusBadRequest, res.StatusCode)

	var body map[string]any
	s.Require().NoError(json.NewDecoder(res.Body).Decode(&body))
	s.Equal("O'z darajangizni o'zgartira olmaysiz", body["error"])
}

func (s *AdminHandlerTestSuite) TestUpdateUserRole_UnknownRole() {
	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPut,
		URL:    s.roleURL(8),
		Body:   bytes.NewReader(s.rolePayload("superuser")),
	}, testutils.WithBearer(s.jwtToken))

	s.Require().NoError(err)
	s.Equal(http.StatusUnprocessableEntity, res.StatusCode)
}
