package files

import (
	"net/http"

	file "nefllix/src/modules/files/services"
	"nefllix/src/utils"

	"github.com/gin-gonic/gin"
)

func FileController(c *gin.Context) {
	filepath := c.Param("filepath")
	if filepath == "" || filepath == "/" {
		utils.RespondError(c, utils.NewBadRequestError("invalid filepath"))
		return
	}

	reader, size, contentType, err := file.FileService(c.Request.Context(), filepath)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	c.Header("Cache-Control", "public, max-age=21600")
	c.DataFromReader(http.StatusOK, size, contentType, reader, nil)
}

// UploadController accepts a multipart "file" field and an optional "folder".
func UploadController(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		utils.RespondError(c, utils.NewBadRequestError("file is required"))
		return
	}

	f, err := header.Open()
	if err != nil {
		utils.RespondError(c, utils.NewBadRequestError("failed to read upload"))
		return
	}
	defer f.Close()

	contentType := header.Header.Get("Content-Type")
	key, err := file.UploadFile(c.Request.Context(), c.PostForm("folder"), header.Filename, f, header.Size, contentType)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondData(c, http.StatusCreated, gin.H{"key": key})
}
