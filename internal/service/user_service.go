package service

import (
	"context"
	"fmt"
	"time"

	"github.com/layzzbe/market/internal/domain"
	"github.com/layzzbe/market/internal/repository/repoargs"
	"github.com/layzzbe/market/internal/service/tokens"
	"github.com/layzzbe/market/pkg/uow"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const JWTTokenExpire = 7 * 24 * time.Hour

type UserService struct {
	uow            uow.UOW
	userRepo       UserRepository
	orderRepo      OrderRepository
	jwtTokenSecret []byte
}

func NewUserService(u uow.UOW, jwtTokenSecret []byte) (*UserService, error) {
	userRepo, userRepoErr := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr
	}
	orderRepo, orderRepoErr := uow.GetRepositoryAs[OrderRepository](u, uow.RepositoryName(repoargs.OrderRepoName))
	if orderRepoErr != nil {
		return nil, orderRepoErr
	}
	return &UserService{
		uow:            u,
		userRepo:       userRepo,
		orderRepo:      orderRepo,
		jwtTokenSecret: jwtTokenSecret,
	}, nil
}

type RegisterUserArgs struct {
	Email    string
	Password string
}

// Register создает юзера и выдает jwt токен. Дубликат email вернется как
// domain.ErrDuplicateKey.
func (s *UserService) Register(ctx context.Context, args RegisterUserArgs) (*domain.User, string, error) {
	password, hashErr := s.hashPassword(args.Password)
	if hashErr != nil {
		return nil, "", fmt.Errorf("registering user: %s", hashErr.Error())
	}

	user, createErr := s.userRepo.CreateUser(ctx, repoargs.CreateUser{
		Email:    args.Email,
		Password: password,
		Role:     domain.RoleUser,
	})
	if createErr != nil {
		return nil, "", fmt.Errorf("registering user: %w", createErr)
	}

	token, tokenErr := tokens.GenerateUserJWT(user.ID, JWTTokenExpire, s.jwtTokenSecret)
	if tokenErr != nil {
		return nil, "", fmt.Errorf("registering user: %w", tokenErr)
	}
	return user, token, nil
}

type LoginUserArgs struct {
	Email    string
	Password string
}

// Login аутентифицирует по паре email/пароль. Неверный пароль возвращается
// как domain.ErrPasswordMissMatch.
func (s *UserService) Login(ctx context.Context, args LoginUserArgs) (*domain.User, string, error) {
	user, findErr := s.userRepo.FindByEmail(ctx, args.Email)
	if findErr != nil {
		return nil, "", fmt.Errorf("logging user in: %w", findErr)
	}

	if !s.comparePasswords(user.Password, args.Password) {
		return nil, "", fmt.Errorf("logging user in: %w", domain.ErrPasswordMissMatch)
	}

	token, tokenErr := tokens.GenerateUserJWT(user.ID, JWTTokenExpire, s.jwtTokenSecret)
	if tokenErr != nil {
		return nil, "", fmt.Errorf("logging user in: %w", tokenErr)
	}
	return user, token, nil
}

// Profile - данные юзера вместе с агрегатами по заказам. Юзер и баланс
// читаются свежим запросом, без промежуточных кешей.
type Profile struct {
	User          domain.User
	OrdersCount   int64
	TotalSpentUSD decimal.Decimal
}

func (s *UserService) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	user, userErr := s.userRepo.FindByID(ctx, userID)
	if userErr != nil {
		return nil, fmt.Errorf("getting profile: %w", userErr)
	}

	spending, spendingErr := s.orderRepo.GetUserSpending(ctx, userID)
	if spendingErr != nil {
		return nil, fmt.Errorf("getting profile: %w", spendingErr)
	}

	return &Profile{
		User:          *user,
		OrdersCount:   spending.OrdersCount,
		TotalSpentUSD: spending.TotalSpentUSD.Round(2),
	}, nil
}

type UpdateProfileArgs struct {
	UserID   int64
	FullName *string
	Phone    *string
}

func (s *UserService) UpdateProfile(ctx context.Context, args UpdateProfileArgs) (*Profile, error) {
	_, updErr := s.userRepo.UpdateProfile(ctx, repoargs.UpdateProfile{
		UserID:   args.UserID,
		FullName: args.FullName,
		Phone:    args.Phone,
	})
	if updErr != nil {
		return nil, fmt.Errorf("updating profile: %w", updErr)
	}
	return s.GetProfile(ctx, args.UserID)
}

// ChangePassword меняет пароль после проверки текущего.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	user, findErr := s.userRepo.FindByID(ctx, userID)
	if findErr != nil {
		return fmt.Errorf("changing password: %w", findErr)
	}
	if !s.comparePasswords(user.Password, currentPassword) {
		return fmt.Errorf("changing password: %w", domain.ErrPasswordMissMatch)
	}

	hashed, hashErr := s.hashPassword(newPassword)
	if hashErr != nil {
		return fmt.Errorf("changing password: %s", hashErr.Error())
	}
	if updErr := s.userRepo.UpdatePassword(ctx, userID, hashed); updErr != nil {
		return fmt.Errorf("changing password: %w", updErr)
	}
	return nil
}

// ResetPassword - админский сброс пароля без проверки текущего.
func (s *UserService) ResetPassword(ctx context.Context, userID int64, newPassword string) (*domain.User, error) {
	user, findErr := s.userRepo.FindByID(ctx, userID)
	if findErr != nil {
		return nil, fmt.Errorf("resetting password: %w", findErr)
	}

	hashed, hashErr := s.hashPassword(newPassword)
	if hashErr != nil {
		return nil, fmt.Errorf("resetting password: %s", hashErr.Error())
	}
	if updErr := s.userRepo.UpdatePassword(ctx, userID, hashed); updErr != nil {
		return nil, fmt.Errorf("resetting password: %w", updErr)
	}
	return user, nil
}

func (s *UserService) UpdateRole(ctx context.Context, userID int64, role domain.RoleType) (*domain.User, error) {
	user, err := s.userRepo.UpdateRole(ctx, userID, role)
	if err != nil {
		return nil, fmt.Errorf("updating role: %w", err)
	}
	return user, nil
}

// Delete удаляет пользователя. Финансовая история защищена на уровне схемы:
// при наличии заказов или транзакций вернется domain.ErrRestricted.
func (s *UserService) Delete(ctx context.Context, userID int64) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}

func (s *UserService) GetAll(ctx context.Context) ([]Profile, error) {
	users, usersErr := s.userRepo.GetAll(ctx)
	if usersErr != nil {
		return nil, fmt.Errorf("listing users: %w", usersErr)
	}

	profiles := make([]Profile, 0, len(users))
	for _, user := range users {
		spending, spendingErr := s.orderRepo.GetUserSpending(ctx, user.ID)
		if spendingErr != nil {
			return nil, fmt.Errorf("listing users: %w", spendingErr)
		}
		profiles = append(profiles, Profile{
			User:          user,
			OrdersCount:   spending.OrdersCount,
			TotalSpentUSD: spending.TotalSpentUSD.Round(2),
		})
	}
	return profiles, nil
}

// UserDetail - профиль вместе с историей заказов (админская карточка).
type UserDetail struct {
	Profile
	Orders []domain.Order
}

func (s *UserService) GetDetail(ctx context.Context, userID int64) (*UserDetail, error) {
	profile, profileErr := s.GetProfile(ctx, userID)
	if profileErr != nil {
		return nil, profileErr
	}
	orders, ordersErr := s.orderRepo.GetByUserID(ctx, userID)
	if ordersErr != nil {
		return nil, fmt.Errorf("getting user detail: %w", ordersErr)
	}
	return &UserDetail{Profile: *profile, Orders: orders}, nil
}

func (s *UserService) hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %s", err.Error())
	}
	return string(bytes), nil
}

func (s *UserService) comparePasswords(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
