package api

import (
	"bytes"
	"encoding/json"
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
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type OrdersHandlerTestSuite struct {
	suite.Suite
	mockOrderService    *mocks.MockOrderServicer
	mockCheckoutService *mocks.MockCheckoutServicer
	router              *gin.Engine
	jwtSecret           []byte
	jwtToken            string
	userID              int64
}

func TestOrdersHandlerSuite(t *testing.T) {
	suite.Run(t, new(OrdersHandlerTestSuite))
}

func (s *OrdersHandlerTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())

	s.mockOrderService = mocks.NewMockOrderServicer(mockCtrl)
	s.mockCheckoutService = mocks.NewMockCheckoutServicer(mockCtrl)
	s.jwtSecret = []byte("super secret key")
	s.userID = 123

	token, tokenErr := tokens.GenerateUserJWT(s.userID, time.Hour, s.jwtSecret)
	s.Require().NoError(tokenErr)
	s.jwtToken = token

	s.router = New(RouterArgs{
		Logger:          testAPILogger(),
		OrderService:    s.mockOrderService,
		CheckoutService: s.mockCheckoutService,
		JWTSecretKey:    s.jwtSecret,
	})
}

func (s *OrdersHandlerTestSuite) checkoutPayload() []byte {
	payload, _ := json.Marshal(CheckoutParams{
		CartItems: []CartLineParams{
			{ProductID: 1, Quantity: 2},
			{ProductID: 5, Quantity: 1},
		},
	})
	return payload
}

func (s *OrdersHandlerTestSuite) expectedLines() []service.CartLine {
	return []service.CartLine{
		{ProductID: 1, Quantity: 2},
		{ProductID: 5, Quantity: 1},
	}
}

func (s *OrdersHandlerTestSuite) TestIndex() {
	s.mockOrderService.EXPECT().
		GetUserOrders(gomock.Any(), s.userID).
		Return([]domain.Order{{ID: 1, UserID: s.userID, Status: domain.OrderStatusPaid}}, nil)

	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    RouteGroup + OrdersRoute,
	}, testutils.WithBearer(s.jwtToken))

	s.Require().NoError(err)
	s.Equal(http.StatusOK, res.StatusCode)
}

func (s *OrdersHandlerTestSuite) TestIndex_Unauthorized() {
	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    RouteGroup + OrdersRoute,
	})

	s.Require().NoError(err)
	s.Equal(http.StatusUnauthorized, res.StatusCode)
}

func (s *OrdersHandlerTestSuite) TestPayWithWallet() {
	s.mockCheckoutService.EXPECT().
		PayWithWallet(gomock.Any(), s.userID, s.expectedLines()).
		Return(&service.WalletCheckoutResult{
			NewBalance:     decimal.NewFromInt(72000),
			OrderIDs:       []int64{10, 11},
			ItemsPurchased: 3,
			TotalUZS:       decimal.NewFromInt(192000),
		}, nil)

	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPost,
		URL:    RouteGroup + WalletPaymentRoute,
		Body:   bytes.NewReader(s.checkoutPayload()),
	}, testutils.WithBearer(s.jwtToken))

	s.Require().NoError(err)
	s.Equal(http.StatusOK, res.StatusCode)

	var body map[string]any
	s.Require().NoError(json.NewDecoder(res.Body).Decode(&body))
	s.Equal("72000", body["new_balance"])
	s.Equal("192000", body["total_uzs"])
	s.InDelta(3, body["items_purchased"], 0)
}

func (s *OrdersHandlerTestSuite) TestPayWithWallet_InsufficientFunds() {
	s.mockCheckoutService.EXPECT().
		PayWithWallet(gomock.Any(), s.userID, s.expectedLines()).
		Return(nil, &domain.InsufficientFundsError{
			Balance:  decimal.NewFromInt(1000),
			Required: decimal.NewFromInt(192000),
		})

	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPost,
		URL:    RouteGroup + WalletPaymentRoute,
		Body:   bytes.NewReader(s.checkoutPayload()),
	}, testutils.WithBearer(s.jwtToken))

	s.Require().NoError(err)
	s.Equal(http.StatusBadRequest, res.StatusCode)

	var body map[string]any
	s.Require().NoError(json.NewDecoder(res.Body).Decode(&body))
	s.Equal("1000", body["balance"])
	s.Equal("192000", body["required"])
}

func (s *OrdersHandlerTestSuite) TestPayWithWallet_ProductGone() {
	s.mockCheckoutService.EXPECT().
		PayWithWallet(gomock.Any(), s.userID, s.expectedLines()).
		Return(nil, &domain.ProductNotFoundError{ProductID: 5})

	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPost,
		URL:    RouteGroup + WalletPaymentRoute,
		Body:   bytes.NewReader(s.checkoutPayload()),
	}, testutils.WithBearer(s.jwtToken))

	s.Require().NoError(err)
	s.Equal(http.StatusNotFound, res.StatusCode)
}

func (s *OrdersHandlerTestSuite) TestGeneratePaymentLink() {
	s.mockCheckoutService.EXPECT().
		CreatePaymentLink(gomock.Any(), s.userID, s.expectedLines()).
		Return(&service.PaymentLinkResult{
			PaymentURL: "https://my.click.uz/services/pay?transaction_param=42",
			OrderID:    42,
			TotalUZS:   decimal.NewFromInt(192000),
		}, nil)

	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPost,
		URL:    RouteGroup + PaymentLinkRoute,
		Body:   bytes.NewReader(s.checkoutPayload()),
	}, testutils.WithBearer(s.jwtToken))

	s.Require().NoError(err)
	s.Equal(http.StatusOK, res.StatusCode)

	var body map[string]any
	s.Require().NoError(json.NewDecoder(res.Body).Decode(&body))
	s.Contains(body["payment_url"], "transaction_param=42")
	s.InDelta(42, body["order_id"], 0)
}

func (s *OrdersHandlerTestSuite) TestGeneratePaymentLink_GatewayNotConfigured() {
	s.mockCheckoutService.EXPECT().
		CreatePaymentLink(gomock.Any(), s.userID, s.expectedLines()).
		Return(nil, domain.ErrGatewayNotConfigured)

	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPost,
		URL:    RouteGroup + PaymentLinkRoute,
		Body:   bytes.NewReader(s.checkoutPayload()),
	}, testutils.WithBearer(s.jwtToken))

	s.Require().NoError(err)
	s.Equal(http.StatusBadRequest, res.StatusCode)
}
