package service

import (
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/layzzbe/market/internal/domain"
	"github.com/layzzbe/market/internal/repository/repoargs"
	"github.com/layzzbe/market/internal/service/mocks"
	"github.com/layzzbe/market/internal/service/tokens"
	"github.com/layzzbe/market/pkg/uow"
	uowmocks "github.com/layzzbe/market/pkg/uow/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUOW       *uowmocks.MockUOW
	mockUserRepo  *mocks.MockUserRepository
	mockOrderRepo *mocks.MockOrderRepository
	jwtSecret     []byte
	userService   *UserService
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (s *UserServiceTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(mockCtrl)
	s.mockUserRepo = mocks.NewMockUserRepository(mockCtrl)
	s.mockOrderRepo = mocks.NewMockOrderRepository(mockCtrl)

	s.jwtSecret = []byte("secret")

	// Мок получения репозиториев из uow. Выполняется в инициализации сервиса.
	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()
	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.OrderRepoName)).
		Return(s.mockOrderRepo, nil).AnyTimes()

	userService, servErr := NewUserService(s.mockUOW, s.jwtSecret)
	s.Require().NoError(servErr)
	s.userService = userService
}

func (s *UserServiceTestSuite) hash(password string) string {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	s.Require().NoError(err)
	return string(bytes)
}

func (s *UserServiceTestSuite) TestRegister() {
	args := RegisterUserArgs{Email: "new@example.com", Password: "qwerty123"}

	s.mockUserRepo.EXPECT().
		CreateUser(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, createArgs repoargs.CreateUser) (*domain.User, error) {
			s.Equal(args.Email, createArgs.Email)
			s.Equal(domain.RoleUser, createArgs.Role)
			// в репозиторий уходит хэш, не исходный пароль
			s.NotEqual(args.Password, createArgs.Password)
			return &domain.User{ID: 1, Email: createArgs.Email, Role: createArgs.Role}, nil
		})

	user, token, err := s.userService.Register(s.T().Context(), args)
	s.Require().NoError(err)
	s.Equal(args.Email, user.Email)

	// выданный токен проходит проверку нашим же секретом
	parsed, validateErr := tokens.ValidateUserJWT(token, s.jwtSecret)
	s.Require().NoError(validateErr)
	claims, ok := parsed.Claims.(*tokens.UserClaims)
	s.Require().True(ok)
	s.Equal(user.ID, claims.ID)
}

func (s *UserServiceTestSuite) TestRegister_DuplicateEmail() {
	s.mockUserRepo.EXPECT().
		CreateUser(gomock.Any(), gomock.Any()).
		Return(nil, domain.ErrDuplicateKey)

	_, _, err := s.userService.Register(s.T().Context(), RegisterUserArgs{
		Email:    "taken@example.com",
		Password: "qwerty123",
	})
	s.Require().ErrorIs(err, domain.ErrDuplicateKey)
}

func (s *UserServiceTestSuite) TestLogin() {
	password := "qwerty123"
	savedUser := domain.User{
		ID:        1,
		CreatedAt: time.Now(),
		Email:     "user@example.com",
		Password:  s.hash(password),
	}

	s.mockUserRepo.EXPECT().
		FindByEmail(gomock.Any(), savedUser.Email).
		Return(&savedUser, nil).Times(2)
	s.mockUserRepo.EXPECT().
		FindByEmail(gomock.Any(), "wrong@example.com").
		Return(nil, domain.ErrRecordNotFound)

	cases := []struct {
		name    string
		args    LoginUserArgs
		wantErr error
	}{
		{name: "ok", args: LoginUserArgs{Email: savedUser.Email, Password: password}},
		{
			name:    "wrong email",
			args:    LoginUserArgs{Email: "wrong@example.com", Password: password},
			wantErr: domain.ErrRecordNotFound,
		},
		{
			name:    "wrong password",
			args:    LoginUserArgs{Email: savedUser.Email, Password: "nope nope"},
			wantErr: domain.ErrPasswordMissMatch,
		},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			user, token, err := s.userService.Login(s.T().Context(), tc.args)
			if tc.wantErr != nil {
				s.Require().ErrorIs(err, tc.wantErr)
				return
			}
			s.Require().NoError(err)
			s.Equal(savedUser.ID, user.ID)
			s.NotEmpty(token)
		})
	}
}

func (s *UserServiceTestSuite) TestGetProfile() {
	savedUser := domain.User{ID: 1, Email: "user@example.com", Balance: decimal.NewFromInt(50000)}

	s.mockUserRepo.EXPECT().FindByID(gomock.Any(), savedUser.ID).Return(&savedUser, nil)
	s.mockOrderRepo.EXPECT().GetUserSpending(gomock.Any(), savedUser.ID).
		Return(&repoargs.UserSpending{
			OrdersCount:   3,
			TotalSpentUSD: decimal.NewFromFloat(25.5),
		}, nil)

	profile, err := s.userService.GetProfile(s.T().Context(), savedUser.ID)
	s.Require().NoError(err)
	s.Equal(savedUser.Email, profile.User.Email)
	s.Equal(int64(3), profile.OrdersCount)
	s.True(profile.TotalSpentUSD.Equal(decimal.NewFromFloat(25.5)))
}

func (s *UserServiceTestSuite) TestChangePassword_WrongCurrent() {
	savedUser := domain.User{ID: 1, Password: s.hash("correct-one")}

	s.mockUserRepo.EXPECT().FindByID(gomock.Any(), savedUser.ID).Return(&savedUser, nil)

	err := s.userService.ChangePassword(s.T().Context(), savedUser.ID, "wrong-one", "new-password")
	s.Require().ErrorIs(err, domain.ErrPasswordMissMatch)
}

func (s *UserServiceTestSuite) TestDelete_RestrictedByHistory() {
	// схема запрещает удаление пользователя с заказами или транзакциями
	s.mockUserRepo.EXPECT().Delete(gomock.Any(), int64(1)).Return(domain.ErrRestricted)

	err := s.userService.Delete(s.T().Context(), 1)
	s.Require().ErrorIs(err, domain.ErrRestricted)
}
