package library

import (
	"net/http"
	"strconv"

	lib "nefllix/src/modules/library/lib"
	service "nefllix/src/modules/library/services"
	"nefllix/src/utils"

	"github.com/gin-gonic/gin"
)

func bindList(c *gin.Context) (lib.LibraryListRequest, bool) {
	var req lib.LibraryListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.RespondError(c, utils.NewBadRequestError("Invalid query parameters: "+err.Error()))
		return req, false
	}
	return req, true
}

func bindContent(c *gin.Context) (lib.ContentRequest, bool) {
	var req lib.ContentRequest
	if verr := utils.BindJson(c, &req); verr != nil {
		utils.RespondError(c, verr)
		return req, false
	}
	return req, true
}

func ListFavourites(c *gin.Context) {
	req, ok := bindList(c)
	if !ok {
		return
	}
	res, err := service.ListFavourites(c.Request.Context(), c.Param("profileId"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, res)
}

func AddFavourite(c *gin.Context) {
	req, ok := bindContent(c)
	if !ok {
		return
	}
	fav, err := service.AddFavourite(c.Request.Context(), c.Param("profileId"), req.ContentID, req.ContentType)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, fav)
}

func RemoveFavourite(c *gin.Context) {
	if err := service.RemoveFavourite(c.Request.Context(), c.Param("profileId"), c.Param("contentId")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func ListWatched(c *gin.Context) {
	req, ok := bindList(c)
	if !ok {
		return
	}
	res, err := service.ListWatched(c.Request.Context(), c.Param("profileId"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, res)
}

func MarkWatched(c *gin.Context) {
	req, ok := bindContent(c)
	if !ok {
		return
	}
	rec, err := service.MarkWatched(c.Request.Context(), c.Param("profileId"), req.ContentID, req.ContentType)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, rec)
}

func UnmarkWatched(c *gin.Context) {
	if err := service.UnmarkWatched(c.Request.Context(), c.Param("profileId"), c.Param("contentId")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func ContinueWatching(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	items, err := service.ContinueWatching(c.Request.Context(), c.Param("profileId"), limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, items)
}

func UpdateProgress(c *gin.Context) {
	var req lib.ProgressRequest
	if verr := utils.BindJson(c, &req); verr != nil {
		utils.RespondError(c, verr)
		return
	}
	rec, err := service.UpdateProgress(c.Request.Context(), c.Param("profileId"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, rec)
}

func GetProgress(c *gin.Context) {
	rec, err := service.GetProgress(c.Request.Context(), c.Param("profileId"), c.Param("contentId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, rec)
}

func RemoveWatching(c *gin.Context) {
	if err := service.RemoveWatching(c.Request.Context(), c.Param("profileId"), c.Param("contentId")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func GetSummary(c *gin.Context) {
	profileID := c.Param("profileId")
	summary, err := service.LibrarySummary(c.Request.Context(), profileID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	ids, err := service.FavouriteIDs(c.Request.Context(), profileID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, gin.H{"summary": summary, "favouriteIds": ids})
}

// GetContentStatus reports the profile's favourite, watched and progress state for one title.
func GetContentStatus(c *gin.Context) {
	ctx := c.Request.Context()
	profileID, contentID := c.Param("profileId"), c.Param("contentId")

	favourite, err := service.IsFavourite(ctx, profileID, contentID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	watched, err := service.IsWatched(ctx, profileID, contentID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	progress, err := service.GetProgress(ctx, profileID, contentID)
	if err != nil && utils.StatusOf(err) != http.StatusNotFound {
		utils.RespondError(c, err)
		return
	}

	utils.RespondData(c, http.StatusOK, gin.H{
		"favourite": favourite,
		"watched":   watched,
		"watching":  progress,
	})
}
