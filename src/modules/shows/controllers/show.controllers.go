package shows

import (
	"net/http"
	"strconv"

	movieLib "nefllix/src/modules/movies/lib"
	lib "nefllix/src/modules/shows/lib"
	service "nefllix/src/modules/shows/services"
	"nefllix/src/utils"

	"github.com/gin-gonic/gin"
)

func GetShowList(c *gin.Context) {
	var req movieLib.ListRequest
	if c.Request.ContentLength != 0 {
		if verr := utils.BindJson(c, &req); verr != nil {
			utils.RespondError(c, verr)
			return
		}
	}

	res, err := service.ListShows(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, res)
}

// GetShow returns the show with seasons and episodes.
func GetShow(c *gin.Context) {
	res, err := service.GetShowDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, res)
}

func CreateShow(c *gin.Context) {
	var req lib.ShowInput
	if verr := utils.BindJson(c, &req); verr != nil {
		utils.RespondError(c, verr)
		return
	}

	show, err := service.CreateShow(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusCreated, show)
}

func UpdateShow(c *gin.Context) {
	var req lib.ShowInput
	if verr := utils.BindJson(c, &req); verr != nil {
		utils.RespondError(c, verr)
		return
	}

	show, err := service.UpdateShow(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, show)
}

func DeleteShow(c *gin.Context) {
	if err := service.DeleteShow(c.Request.Context(), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func episodeParams(c *gin.Context) (int, int, bool) {
	season, err1 := strconv.Atoi(c.Param("season"))
	episode, err2 := strconv.Atoi(c.Param("episode"))
	if err1 != nil || err2 != nil {
		utils.RespondError(c, utils.NewBadRequestError("season and episode must be numbers"))
		return 0, 0, false
	}
	return season, episode, true
}

func GetEpisode(c *gin.Context) {
	season, episode, ok := episodeParams(c)
	if !ok {
		return
	}
	res, err := service.GetEpisode(c.Request.Context(), c.Param("id"), season, episode)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, res)
}

func GetNextEpisode(c *gin.Context) {
	season, episode, ok := episodeParams(c)
	if !ok {
		return
	}
	res, err := service.NextEpisode(c.Request.Context(), c.Param("id"), season, episode)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, res)
}
