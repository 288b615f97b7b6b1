package movies

import (
	"net/http"

	lib "nefllix/src/modules/movies/lib"
	service "nefllix/src/modules/movies/services"
	"nefllix/src/utils"

	"github.com/gin-gonic/gin"
)

func GetMovieList(c *gin.Context) {
	var req lib.ListRequest
	if c.Request.ContentLength != 0 {
		if verr := utils.BindJson(c, &req); verr != nil {
			utils.RespondError(c, verr)
			return
		}
	}

	res, err := service.ListMovies(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, res)
}

func SearchMovies(c *gin.Context) {
	var req lib.MovieSearchRequest
	if verr := utils.BindJson(c, &req); verr != nil {
		utils.RespondError(c, verr)
		return
	}

	res, err := service.SearchMovies(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, res)
}
