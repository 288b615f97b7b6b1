package movies

import (
	"net/http"

	service "nefllix/src/modules/movies/services"
	"nefllix/src/utils"

	"github.com/gin-gonic/gin"
)

func ListGenres(c *gin.Context) {
	res, err := service.ListGenres(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, res)
}

func GetMovieStats(c *gin.Context) {
	res, err := service.MovieStats(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, res)
}

func GetRandomMovie(c *gin.Context) {
	res, err := service.RandomMovie(c.Request.Context(), c.Query("includeAdult") == "true")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, res)
}
