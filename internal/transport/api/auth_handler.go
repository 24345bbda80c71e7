package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/layzzbe/market/internal/domain"
	"github.com/layzzbe/market/internal/service"
)

type AuthHandler struct {
	userService UserServicer
}

func NewAuthHandler(userService UserServicer) *AuthHandler {
	return &AuthHandler{
		userService: userService,
	}
}

type UserRegisterParams struct {
	Email    string `binding:"required,email,max=255"  json:"email"`
	Password string `binding:"required,min=6,max=255" json:"password"`
}

// Register POST RouteGroup + RegisterRoute. Регистрирует пользователя и
// аутентифицирует его.
func (h *AuthHandler) Register(c *gin.Context) {
	var params UserRegisterParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		var valErrs validator.ValidationErrors
		if errors.As(bindErr, &valErrs) {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": valErrs.Error()})
			return
		}
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).
			SetType(gin.ErrorTypeBind)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, jwtToken, createErr := h.userService.Register(ctx, service.RegisterUserArgs{
		Email:    params.Email,
		Password: params.Password,
	})
	if createErr != nil {
		if errors.Is(createErr, domain.ErrDuplicateKey) {
			_ = c.AbortWithError(http.StatusConflict, errors.New("user with this email already exists")).
				SetType(gin.ErrorTypePublic)
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, createErr).
			SetType(gin.ErrorTypePrivate)
		return
	}

	c.Header("Authorization", "Bearer "+jwtToken)
	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(*user), "token": jwtToken})
}

type UserLoginParams struct {
	Email    string `binding:"required,email,max=255"  json:"email"`
	Password string `binding:"required,min=6,max=255" json:"password"`
}

// Login POST RouteGroup + LoginRoute. Аутентификация по паре email/пароль.
func (h *AuthHandler) Login(c *gin.Context) {
	var params UserLoginParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).
			SetType(gin.ErrorTypeBind)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, token, err := h.userService.Login(ctx, service.LoginUserArgs{
		Email:    params.Email,
		Password: params.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) || errors.Is(err, domain.ErrPasswordMissMatch) {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}
	c.Header("Authorization", "Bearer "+token)

	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(*user), "token": token})
}

// Me GET RouteGroup + ProfileRoute. Профиль текущего пользователя с агрегатами
// по заказам.
func (h *AuthHandler) Me(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	profile, err := h.userService.GetProfile(ctx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, newProfileResponse(*profile))
}

type UpdateProfileParams struct {
	FullName *string `binding:"omitempty,max=255" json:"full_name"`
	Phone    *string `binding:"omitempty,max=32"  json:"phone"`
}

// UpdateMe PUT RouteGroup + ProfileRoute.
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params UpdateProfileParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	profile, err := h.userService.UpdateProfile(ctx, service.UpdateProfileArgs{
		UserID:   currentUserID,
		FullName: params.FullName,
		Phone:    params.Phone,
	})
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, newProfileResponse(*profile))
}

type ChangePasswordParams struct {
	CurrentPassword string `binding:"required,min=6,max=255" json:"current_password"`
	NewPassword     string `binding:"required,min=6,max=255" json:"new_password"`
}

// ChangePassword PUT RouteGroup + ProfilePasswordRoute.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params ChangePasswordParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	err := h.userService.ChangePassword(ctx, currentUserID, params.CurrentPassword, params.NewPassword)
	if err != nil {
		if errors.Is(err, domain.ErrPasswordMissMatch) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Joriy parol noto'g'ri"})
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Parol muvaffaqiyatli o'zgartirildi"})
}
