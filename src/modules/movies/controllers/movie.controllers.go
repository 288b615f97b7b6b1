package movies

import (
	"net/http"

	lib "nefllix/src/modules/movies/lib"
	service "nefllix/src/modules/movies/services"
	"nefllix/src/utils"

	"github.com/gin-gonic/gin"
)

func GetMovie(c *gin.Context) {
	res, err := service.GetMovie(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, res)
}

func CreateMovie(c *gin.Context) {
	var req lib.MovieInput
	if verr := utils.BindJson(c, &req); verr != nil {
		utils.RespondError(c, verr)
		return
	}

	movie, err := service.CreateMovie(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusCreated, movie)
}

func UpdateMovie(c *gin.Context) {
	var req lib.MovieInput
	if verr := utils.BindJson(c, &req); verr != nil {
		utils.RespondError(c, verr)
		return
	}

	movie, err := service.UpdateMovie(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, movie)
}

func DeleteMovie(c *gin.Context) {
	if err := service.DeleteMovie(c.Request.Context(), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
