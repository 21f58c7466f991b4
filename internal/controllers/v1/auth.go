package v1

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/prospera-financas/backend/internal/httputil"
	"github.com/prospera-financas/backend/internal/models"
)

// ownerKey is the context key under which the authenticated user's ID is
// stored.
const ownerKey = "ownerID"

const tokenLifetime = 7 * 24 * time.Hour

func signingSecret() []byte {
	secret, ok := os.LookupEnv("JWT_SECRET")
	if !ok {
		secret = "dev-secret-change"
	}

	return []byte(secret)
}

// signToken issues a JWT with the user's ID as subject.
func signToken(user models.User) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenLifetime)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingSecret())
}

// AuthMiddleware rejects requests without a valid Bearer token and stores
// the authenticated user's ID in the request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httpError{Error: "authentication required"})
			return
		}

		token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(*jwt.Token) (any, error) {
			return signingSecret(), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httpError{Error: "the token is invalid or expired"})
			return
		}

		subject, err := token.Claims.GetSubject()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httpError{Error: "the token is invalid or expired"})
			return
		}

		id, err := uuid.Parse(subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httpError{Error: "the token is invalid or expired"})
			return
		}

		c.Set(ownerKey, id)
		c.Next()
	}
}

// owner returns the authenticated user's ID from the request context.
func owner(c *gin.Context) uuid.UUID {
	return c.MustGet(ownerKey).(uuid.UUID)
}

func RegisterAuthRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("/register", httputil.OptionsPost)
		r.POST("/register", Register)
	}
	{
		r.OPTIONS("/login", httputil.OptionsPost)
		r.POST("/login", Login)
	}
	{
		r.OPTIONS("/forgot", httputil.OptionsPost)
		r.POST("/forgot", ForgotPassword)
	}
	{
		r.OPTIONS("/reset", httputil.OptionsPost)
		r.POST("/reset", ResetPassword)
	}
}

// @Summary		Register
// @Description	Creates a new user account and returns a token for it
// @Tags			Auth
// @Produce		json
// @Success		201		{object}	SessionResponse
// @Failure		400		{object}	httpError
// @Failure		409		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			account	body		RegisterRequest	true	"Account"
// @Router			/v1/auth/register [post]
func Register(c *gin.Context) {
	var request RegisterRequest
	if err := httputil.BindData(c, &request); err != nil {
		abortError(c, err)
		return
	}

	if strings.TrimSpace(request.Name) == "" || strings.TrimSpace(request.Email) == "" {
		abortError(c, errRegistrationIncomplete)
		return
	}

	user := models.User{
		Name:  request.Name,
		Email: request.Email,
	}

	if err := user.SetPassword(request.Password); err != nil {
		abortError(c, err)
		return
	}

	if err := models.DB.Create(&user).Error; err != nil {
		abortError(c, err)
		return
	}

	token, err := signToken(user)
	if err != nil {
		abortError(c, models.ErrGeneral)
		return
	}

	c.JSON(http.StatusCreated, SessionResponse{Token: token, User: newUser(user)})
}

// @Summary		Login
// @Description	Returns a token for an existing account
// @Tags			Auth
// @Produce		json
// @Success		200			{object}	SessionResponse
// @Failure		400			{object}	httpError
// @Failure		401			{object}	httpError
// @Failure		500			{object}	httpError
// @Param			credentials	body		LoginRequest	true	"Credentials"
// @Router			/v1/auth/login [post]
func Login(c *gin.Context) {
	var request LoginRequest
	if err := httputil.BindData(c, &request); err != nil {
		abortError(c, err)
		return
	}

	var user models.User
	err := models.DB.First(&user, "email = ?", strings.ToLower(strings.TrimSpace(request.Email))).Error
	if err != nil || !user.CheckPassword(request.Password) {
		// Same answer for unknown email and wrong password
		abortError(c, models.ErrCredentialsInvalid)
		return
	}

	token, err := signToken(user)
	if err != nil {
		abortError(c, models.ErrGeneral)
		return
	}

	c.JSON(http.StatusOK, SessionResponse{Token: token, User: newUser(user)})
}

// @Summary		Forgot password
// @Description	Issues a single use password reset token for the account
// @Tags			Auth
// @Produce		json
// @Success		204
// @Failure		400		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			account	body		ForgotRequest	true	"Account"
// @Router			/v1/auth/forgot [post]
func ForgotPassword(c *gin.Context) {
	var request ForgotRequest
	if err := httputil.BindData(c, &request); err != nil {
		abortError(c, err)
		return
	}

	var user models.User
	err := models.DB.First(&user, "email = ?", strings.ToLower(strings.TrimSpace(request.Email))).Error
	if err == nil {
		if _, err := user.StartPasswordReset(); err != nil {
			abortError(c, models.ErrGeneral)
			return
		}

		if err := models.DB.Save(&user).Error; err != nil {
			abortError(c, err)
			return
		}

		// The mailer delivers the token, the backend only issues it
		log.Info().Str("email", user.Email).Msg("password reset token issued")
	}

	// The answer does not reveal whether the account exists
	c.Status(http.StatusNoContent)
}

// @Summary		Reset password
// @Description	Sets a new password for the account holding the reset token
// @Tags			Auth
// @Produce		json
// @Success		200		{object}	SessionResponse
// @Failure		400		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			reset	body		ResetRequest	true	"Reset"
// @Router			/v1/auth/reset [post]
func ResetPassword(c *gin.Context) {
	var request ResetRequest
	if err := httputil.BindData(c, &request); err != nil {
		abortError(c, err)
		return
	}

	if strings.TrimSpace(request.Email) == "" || strings.TrimSpace(request.Token) == "" || request.Password == "" {
		abortError(c, errResetIncomplete)
		return
	}

	var user models.User
	err := models.DB.First(&user, "email = ?", strings.ToLower(strings.TrimSpace(request.Email))).Error
	if err != nil || !user.ResetTokenValid(strings.TrimSpace(request.Token)) {
		// Same answer for unknown email, wrong token and expired token
		abortError(c, models.ErrResetTokenInvalid)
		return
	}

	if err := user.SetPassword(request.Password); err != nil {
		abortError(c, err)
		return
	}

	// The token is single use
	user.ResetToken = ""
	user.ResetExpires = nil

	if err := models.DB.Save(&user).Error; err != nil {
		abortError(c, err)
		return
	}

	token, err := signToken(user)
	if err != nil {
		abortError(c, models.ErrGeneral)
		return
	}

	c.JSON(http.StatusOK, SessionResponse{Token: token, User: newUser(user)})
}
