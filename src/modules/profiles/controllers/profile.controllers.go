package profiles

import (
	"net/http"

	"nefllix/src/middleware"
	lib "nefllix/src/modules/profiles/lib"
	service "nefllix/src/modules/profiles/services"
	"nefllix/src/utils"

	"github.com/gin-gonic/gin"
)

func ListProfiles(c *gin.Context) {
	items, err := service.ListProfiles(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, items)
}

func CreateProfile(c *gin.Context) {
	var req lib.CreateProfileRequest
	if verr := utils.BindJson(c, &req); verr != nil {
		utils.RespondError(c, verr)
		return
	}

	profile, err := service.CreateProfile(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusCreated, profile)
}

// GetProfile skips the profile token so locked profiles can still be shown
// on the picker.
func GetProfile(c *gin.Context) {
	profile, err := service.GetProfile(c.Request.Context(), middleware.UserID(c), c.Param("profileId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, profile)
}

func UpdateProfile(c *gin.Context) {
	var req lib.UpdateProfileRequest
	if verr := utils.BindJson(c, &req); verr != nil {
		utils.RespondError(c, verr)
		return
	}

	profile, err := service.UpdateProfile(c.Request.Context(), middleware.UserID(c), c.Param("profileId"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, profile)
}

func DeleteProfile(c *gin.Context) {
	if err := service.DeleteProfile(c.Request.Context(), middleware.UserID(c), c.Param("profileId")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func UnlockProfile(c *gin.Context) {
	var req lib.UnlockRequest
	if c.Request.ContentLength != 0 {
		if verr := utils.BindJson(c, &req); verr != nil {
			utils.RespondError(c, verr)
			return
		}
	}

	res, err := service.UnlockProfile(c.Request.Context(), middleware.UserID(c), c.Param("profileId"), req.Pin)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, res)
}

func SetPin(c *gin.Context) {
	var req lib.PinRequest
	if verr := utils.BindJson(c, &req); verr != nil {
		utils.RespondError(c, verr)
		return
	}

	profile, err := service.SetPin(c.Request.Context(), middleware.UserID(c), c.Param("profileId"), req.CurrentPin, req.NewPin)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, profile)
}

func RemovePin(c *gin.Context) {
	var req lib.PinRequest
	if verr := utils.BindJson(c, &req); verr != nil {
		utils.RespondError(c, verr)
		return
	}

	profile, err := service.RemovePin(c.Request.Context(), middleware.UserID(c), c.Param("profileId"), req.CurrentPin)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, profile)
}
