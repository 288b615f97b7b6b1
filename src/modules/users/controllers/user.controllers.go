package users

import (
	"net/http"

	"nefllix/src/middleware"
	lib "nefllix/src/modules/users/lib"
	service "nefllix/src/modules/users/services"
	"nefllix/src/utils"

	"github.com/gin-gonic/gin"
)

func GetMe(c *gin.Context) {
	user, err := service.GetUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, user)
}

func UpdateMe(c *gin.Context) {
	var req lib.UpdateUserRequest
	if verr := utils.BindJson(c, &req); verr != nil {
		utils.RespondError(c, verr)
		return
	}

	user, err := service.UpdateUser(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, user)
}

func ChangePassword(c *gin.Context) {
	var req lib.ChangePasswordRequest
	if verr := utils.BindJson(c, &req); verr != nil {
		utils.RespondError(c, verr)
		return
	}

	if err := service.ChangePassword(c.Request.Context(), middleware.UserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func DeleteMe(c *gin.Context) {
	if err := service.DeleteUser(c.Request.Context(), middleware.UserID(c)); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

// FindUser is the admin lookup by email.
func FindUser(c *gin.Context) {
	user, err := service.FindUserByEmail(c.Request.Context(), c.Query("email"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, user)
}

func CountUsers(c *gin.Context) {
	n, err := service.CountUsers(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, gin.H{"count": n})
}
