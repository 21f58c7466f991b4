package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/prospera-financas/backend/internal/httputil"
	"github.com/prospera-financas/backend/internal/models"
)

func RegisterSettingsRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("/me", httputil.OptionsGetPut)
		r.GET("/me", GetMe)
		r.PUT("/me", UpdateMe)
	}
	{
		r.OPTIONS("/change-password", httputil.OptionsPost)
		r.POST("/change-password", ChangePassword)
	}
}

type UserResponse struct {
	Data User `json:"data"` // The account
}

type UpdateMeRequest struct {
	Name string `json:"name" example:"Maria S."`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

var errCurrentPasswordMismatch = errors.New("the current password is incorrect")

// @Summary		Get account
// @Description	Returns the authenticated account
// @Tags			Settings
// @Produce		json
// @Success		200	{object}	UserResponse
// @Failure		401	{object}	httpError
// @Failure		500	{object}	httpError
// @Router			/v1/settings/me [get]
func GetMe(c *gin.Context) {
	var user models.User
	err := models.DB.First(&user, "id = ?", owner(c)).Error
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, UserResponse{Data: newUser(user)})
}

// @Summary		Update account
// @Description	Updates the name of the authenticated account
// @Tags			Settings
// @Produce		json
// @Success		200		{object}	UserResponse
// @Failure		400		{object}	httpError
// @Failure		401		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			account	body		UpdateMeRequest	true	"Account"
// @Router			/v1/settings/me [put]
func UpdateMe(c *gin.Context) {
	var request UpdateMeRequest
	if err := httputil.BindData(c, &request); err != nil {
		abortError(c, err)
		return
	}

	if strings.TrimSpace(request.Name) == "" {
		abortError(c, errors.New("the name must be set"))
		return
	}

	var user models.User
	err := models.DB.First(&user, "id = ?", owner(c)).Error
	if err != nil {
		abortError(c, err)
		return
	}

	user.Name = request.Name
	if err := models.DB.Save(&user).Error; err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, UserResponse{Data: newUser(user)})
}

// @Summary		Change password
// @Description	Replaces the password of the authenticated account
// @Tags			Settings
// @Produce		json
// @Success		204
// @Failure		400			{object}	httpError
// @Failure		401			{object}	httpError
// @Failure		500			{object}	httpError
// @Param			passwords	body		ChangePasswordRequest	true	"Passwords"
// @Router			/v1/settings/change-password [post]
func ChangePassword(c *gin.Context) {
	var request ChangePasswordRequest
	if err := httputil.BindData(c, &request); err != nil {
		abortError(c, err)
		return
	}

	var user models.User
	err := models.DB.First(&user, "id = ?", owner(c)).Error
	if err != nil {
		abortError(c, err)
		return
	}

	if !user.CheckPassword(request.CurrentPassword) {
		abortError(c, errCurrentPasswordMismatch)
		return
	}

	if err := user.SetPassword(request.NewPassword); err != nil {
		abortError(c, err)
		return
	}

	if err := models.DB.Save(&user).Error; err != nil {
		abortError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
