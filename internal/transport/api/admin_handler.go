package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/layzzbe/market/internal/domain"
)

type AdminHandler struct {
	userSvs  UserServicer
	orderSvs OrderServicer
}

func NewAdminHandler(userSvs UserServicer, orderSvs OrderServicer) *AdminHandler {
	return &AdminHandler{
		userSvs:  userSvs,
		orderSvs: orderSvs,
	}
}

// Stats GET админской панели: счетчики и выручка в обеих валютах.
func (h *AdminHandler) Stats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	stats, err := h.orderSvs.GetAdminStats(ctx)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users_count":       stats.UsersCount,
		"products_count":    stats.ProductsCount,
		"orders_count":      stats.OrdersCount,
		"total_revenue_usd": stats.TotalRevenueUSD.StringFixed(2),
		"total_revenue_uzs": stats.TotalRevenueUZS.StringFixed(0),
	})
}

func (h *AdminHandler) Users(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	profiles, err := h.userSvs.GetAll(ctx)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	response := make([]ProfileResponse, len(profiles))
	for i, profile := range profiles {
		response[i] = newProfileResponse(profile)
	}
	c.JSON(http.StatusOK, response)
}

func (h *AdminHandler) UserDetail(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	detail, err := h.userSvs.GetDetail(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Foydalanuvchi topilmadi"})
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":   newProfileResponse(detail.Profile),
		"orders": newOrderListResponse(detail.Orders),
	})
}

type UpdateRoleParams struct {
	Role string `binding:"required" json:"role"`
}

func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	// Администратор не может сменить собственную роль.
	if userID == getUserIDFromContext(c) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "O'z darajangizni o'zgartira olmaysiz"})
		return
	}

	var params UpdateRoleParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	role := domain.RoleType(params.Role)
	if !role.Valid() {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": "unknown role"})
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, err := h.userSvs.UpdateRole(ctx, userID, role)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Foydalanuvchi topilmadi"})
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, newUserResponse(*user))
}

type ResetPasswordParams struct {
	NewPassword string `binding:"required,min=6,max=255" json:"new_password"`
}

func (h *AdminHandler) ResetUserPassword(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var params ResetPasswordParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, err := h.userSvs.ResetPassword(ctx, userID, params.NewPassword)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Foydalanuvchi topilmadi"})
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Parol yangilandi", "user": newUserResponse(*user)})
}

// DeleteUser DELETE админского роута. Пользователь с финансовой историей
// защищен ссылочной целостностью и вернет 409.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.userSvs.Delete(ctx, userID); err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Foydalanuvchi topilmadi"})
		case errors.Is(err, domain.ErrRestricted):
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error": "Foydalanuvchining buyurtmalari bor, o'chirish mumkin emas",
			})
		default:
			_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Foydalanuvchi o'chirildi"})
}

type AdminOrderResponse struct {
	OrderResponse
	UserID     int64  `json:"user_id"`
	BuyerEmail string `json:"buyer_email"`
}

func (h *AdminHandler) Orders(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	orders, err := h.orderSvs.GetAllOrders(ctx)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	response := make([]AdminOrderResponse, len(orders))
	for i, item := range orders {
		response[i] = AdminOrderResponse{
			OrderResponse: newOrderResponse(item.Order),
			UserID:        item.Order.UserID,
			BuyerEmail:    item.BuyerEmail,
		}
	}
	c.JSON(http.StatusOK, response)
}
