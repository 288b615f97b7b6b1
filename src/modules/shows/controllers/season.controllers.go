package shows

import (
	"net/http"

	lib "nefllix/src/modules/shows/lib"
	service "nefllix/src/modules/shows/services"
	"nefllix/src/utils"

	"github.com/gin-gonic/gin"
)

func AddSeason(c *gin.Context) {
	var req lib.SeasonInput
	if verr := utils.BindJson(c, &req); verr != nil {
		utils.RespondError(c, verr)
		return
	}

	season, err := service.AddSeason(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusCreated, season)
}

func UpdateSeason(c *gin.Context) {
	var req lib.SeasonInput
	if verr := utils.BindJson(c, &req); verr != nil {
		utils.RespondError(c, verr)
		return
	}

	season, err := service.UpdateSeason(c.Request.Context(), c.Param("seasonId"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, season)
}

func DeleteSeason(c *gin.Context) {
	if err := service.DeleteSeason(c.Request.Context(), c.Param("seasonId")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func AddEpisode(c *gin.Context) {
	var req lib.EpisodeInput
	if verr := utils.BindJson(c, &req); verr != nil {
		utils.RespondError(c, verr)
		return
	}

	episode, err := service.AddEpisode(c.Request.Context(), c.Param("seasonId"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusCreated, episode)
}

func UpdateEpisode(c *gin.Context) {
	var req lib.EpisodeInput
	if verr := utils.BindJson(c, &req); verr != nil {
		utils.RespondError(c, verr)
		return
	}

	episode, err := service.UpdateEpisode(c.Request.Context(), c.Param("episodeId"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, episode)
}

func DeleteEpisode(c *gin.Context) {
	if err := service.DeleteEpisode(c.Request.Context(), c.Param("episodeId")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
