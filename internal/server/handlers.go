package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"halalfood-backend/internal/domain"
	"halalfood-backend/internal/infrastructure/sslcommerz"
	"halalfood-backend/internal/usecase"
)

type tokenReq struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (s *Server) handleIssueToken(c *gin.Context) {
	var req tokenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, usecase.ErrBadRequest("invalid json"))
		return
	}
	token, err := s.deps.Tokens.Issue(req.Email, req.Name)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.String(http.StatusOK, token)
}

type userReq struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
}

func (s *Server) handleRegisterUser(c *gin.Context) {
	var req userReq
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, usecase.ErrBadRequest("invalid json"))
		return
	}
	u := &domain.User{Email: req.Email, Name: req.Name, PhotoURL: req.PhotoURL}
	id, created, err := s.deps.Users.Register(c.Request.Context(), u)
	if err != nil {
		s.fail(c, err)
		return
	}
	if !created {
		c.JSON(http.StatusOK, gin.H{"message": "User already exists", "insertedId": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"acknowledged": true, "insertedId": id})
}

func (s *Server) handleListUsers(c *gin.Context) {
	users, err := s.deps.Users.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (s *Server) handleCheckAdmin(c *gin.Context) {
	claims := claimsFrom(c)
	ok, err := s.deps.Users.CheckAdmin(c.Request.Context(), claims.Email, c.Param("email"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"admin": ok})
}

func (s *Server) handlePromoteUser(c *gin.Context) {
	n, err := s.deps.Users.Promote(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"acknowledged": true, "modifiedCount": n})
}

func (s *Server) handleListMenu(c *gin.Context) {
	items, err := s.deps.Catalog.Menu(c.Request.Context())
	if err != nil {
		s.log.Error("list menu", "err", err)
		c.String(http.StatusInternalServerError, "Error retrieving menu data")
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) handleListReviews(c *gin.Context) {
	items, err := s.deps.Catalog.Reviews(c.Request.Context())
	if err != nil {
		s.log.Error("list reviews", "err", err)
		c.String(http.StatusInternalServerError, "Error retrieving reviews data")
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) handleListCart(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusOK, []domain.CartItem{})
		return
	}
	// Owners only, admins included.
	if claims := claimsFrom(c); claims == nil || claims.Email != email {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": true, "message": "forbidden access"})
		return
	}
	items, err := s.deps.Carts.List(c.Request.Context(), email)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

type cartItemReq struct {
	MenuItemID string          `json:"menuItemId"`
	Email      string          `json:"email"`
	Name       string          `json:"name"`
	Image      string          `json:"image"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
}

func (s *Server) handleAddCartItem(c *gin.Context) {
	var req cartItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, usecase.ErrBadRequest("invalid json"))
		return
	}
	it := &domain.CartItem{
		MenuItemID: req.MenuItemID,
		Email:      req.Email,
		Name:       req.Name,
		Image:      req.Image,
		Price:      req.Price,
		Quantity:   req.Quantity,
	}
	id, err := s.deps.Carts.Add(c.Request.Context(), it)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"acknowledged": true, "insertedId": id})
}

func (s *Server) handleRemoveCartItem(c *gin.Context) {
	n, err := s.deps.Carts.Remove(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"acknowledged": true, "deletedCount": n})
}

type customerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	Postcode string `json:"postcode"`
	Country  string `json:"country"`
	Phone    string `json:"phone"`
}

type checkoutReq struct {
	Cart     []domain.LineItem `json:"cart"`
	Total    decimal.Decimal   `json:"total"`
	Currency string            `json:"currency"`
	Customer *customerReq      `json:"customer"`
}

func (s *Server) handleCheckout(c *gin.Context) {
	var req checkoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, usecase.ErrBadRequest("invalid json"))
		return
	}
	in := usecase.CheckoutInput{
		Cart:     req.Cart,
		Total:    req.Total,
		Currency: req.Currency,
	}
	if cus := req.Customer; cus != nil {
		in.Customer = sslcommerz.Customer{
			Name:     cus.Name,
			Email:    cus.Email,
			Address:  cus.Address,
			City:     cus.City,
			State:    cus.State,
			Postcode: cus.Postcode,
			Country:  cus.Country,
			Phone:    cus.Phone,
		}
	}
	res, err := s.deps.Orders.Checkout(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"GatewayPageURL": res.GatewayPageURL, "transactionId": res.TransactionID})
}

func (s *Server) handleListOrders(c *gin.Context) {
	orders, err := s.deps.Orders.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (s *Server) handlePaymentSuccess(c *gin.Context) {
	s.paymentCallback(c, "success", "Payment confirmation failed", s.deps.Orders.ConfirmPayment)
}

func (s *Server) handlePaymentFail(c *gin.Context) {
	s.paymentCallback(c, "fail", "Payment failure handling failed", s.deps.Orders.FailPayment)
}

func (s *Server) handlePaymentCancel(c *gin.Context) {
	s.paymentCallback(c, "cancel", "Payment failure handling failed", s.deps.Orders.CancelPayment)
}

// paymentCallback applies a gateway outcome and sends the browser back to the
// client application. An id that matches no eligible order answers 400.
func (s *Server) paymentCallback(c *gin.Context, outcome, failMsg string, apply func(ctx context.Context, tranID string) error) {
	tranID := c.Param("tranId")
	if !usecase.IsTransactionID(tranID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": failMsg})
		return
	}
	err := apply(c.Request.Context(), tranID)
	var nf usecase.ErrNotFound
	switch {
	case errors.As(err, &nf):
		s.log.Warn("payment callback matched no order", "outcome", outcome, "transactionId", tranID)
		c.JSON(http.StatusBadRequest, gin.H{"error": failMsg})
		return
	case err != nil:
		s.fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, strings.TrimRight(s.cfg.ClientBaseURL, "/")+"/payment/"+outcome+"/"+tranID)
}
