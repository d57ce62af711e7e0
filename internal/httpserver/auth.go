package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"heritage-boutique/internal/domain"
	customersvc "heritage-boutique/internal/service/customer"
)

type signupRequest struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

type customerResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

func toCustomerResponse(c domain.Customer) customerResponse {
	return customerResponse{
		ID:        c.ID,
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Phone:     c.Phone,
	}
}

// anonymousTokenHandler issues a fresh anonymous session: the tokens plus
// the anonymous ID the cart endpoints will key on.
func anonymousTokenHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		access, refresh, anonymousID, err := deps.AnonymousSvc.Issue(c.Request.Context())
		if err != nil {
			respondError(c, http.StatusInternalServerError, "could not issue token")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"anonymousId": anonymousID,
			"token": tokenResponse{
				AccessToken:  access,
				RefreshToken: refresh,
				ExpiresIn:    deps.AnonymousSvc.AccessTTLSeconds(),
			},
		})
	}
}

func signupHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request body")
			return
		}

		customer, err := deps.CustomerSvc.Signup(c.Request.Context(), customersvc.SignupInput{
			Email:     req.Email,
			Password:  req.Password,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Phone:     req.Phone,
		})
		if err != nil {
			var weak *customersvc.WeakPasswordError
			switch {
			case errors.As(err, &weak):
				respondFieldErrors(c, http.StatusBadRequest, map[string]string{"password": weak.Error()})
			case errors.Is(err, domain.ErrAlreadyExists):
				respondError(c, http.StatusConflict, "email already registered")
			case errors.Is(err, customersvc.ErrInvalidEmail):
				respondFieldErrors(c, http.StatusBadRequest, map[string]string{"email": "invalid email address"})
			default:
				respondError(c, http.StatusInternalServerError, "signup failed")
			}
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "customer": toCustomerResponse(*customer)})
	}
}

// loginHandler authenticates the customer and, when the request carries an
// anonymous session token, migrates that session's cart into the
// customer's cart before responding.
func loginHandler(deps Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request body")
			return
		}

		customer, access, refresh, err := deps.CustomerSvc.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, customersvc.ErrInvalidCredentials) {
				respondError(c, http.StatusUnauthorized, "invalid credentials")
				return
			}
			respondError(c, http.StatusInternalServerError, "login failed")
			return
		}

		if anonToken := c.GetHeader("X-Anonymous-Token"); anonToken != "" {
			if anonymousID, err := deps.AnonymousSvc.LookupByToken(c.Request.Context(), anonToken); err == nil {
				if _, err := deps.CartSvc.SyncOnLogin(c.Request.Context(), anonymousID, customer.ID); err != nil {
					// Login succeeded; a failed cart merge is retried via
					// POST /me/cart/sync and must not block the session.
					logger.Warn("cart sync on login failed",
						zap.String("customerId", customer.ID), zap.Error(err))
				}
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"customer": toCustomerResponse(*customer),
			"token": tokenResponse{
				AccessToken:  access,
				RefreshToken: refresh,
				ExpiresIn:    deps.CustomerSvc.AccessTTLSeconds(),
			},
		})
	}
}

func meHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			respondError(c, http.StatusUnauthorized, "missing bearer token")
			return
		}
		customer, err := deps.CustomerSvc.LookupByToken(c.Request.Context(), token)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "invalid token")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "customer": toCustomerResponse(*customer)})
	}
}
