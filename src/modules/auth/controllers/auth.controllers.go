package auth

import (
	"net/http"
	"time"

	"nefllix/src/config"
	"nefllix/src/middleware"
	lib "nefllix/src/modules/auth/lib"
	authModels "nefllix/src/modules/auth/models"
	service "nefllix/src/modules/auth/services"
	"nefllix/src/utils"

	"github.com/gin-gonic/gin"
)

func setSessionCookie(c *gin.Context, session *authModels.Session) {
	maxAge := int(time.Until(session.Expires).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, session.SessionToken, maxAge, "/", "", config.App.Env == "production", true)
}

func Register(c *gin.Context) {
	var req lib.RegisterRequest
	if verr := utils.BindJson(c, &req); verr != nil {
		utils.RespondError(c, verr)
		return
	}

	user, _, err := service.Register(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusCreated, user)
}

func Login(c *gin.Context) {
	var req lib.LoginRequest
	if verr := utils.BindJson(c, &req); verr != nil {
		utils.RespondError(c, verr)
		return
	}

	session, user, err := service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	setSessionCookie(c, session)
	utils.RespondData(c, http.StatusOK, gin.H{"session": session, "token": session.SessionToken, "user": user})
}

func Logout(c *gin.Context) {
	if err := service.Logout(c.Request.Context(), middleware.ExtractSessionToken(c)); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", config.App.Env == "production", true)
	c.Status(http.StatusNoContent)
}

func GetSession(c *gin.Context) {
	session, user, err := service.GetSessionAndUser(c.Request.Context(), middleware.SessionToken(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, gin.H{"session": session, "user": user})
}

func ListSessions(c *gin.Context) {
	sessions, err := service.ListSessions(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, sessions)
}

// RevokeOtherSessions signs out every session except the caller's.
func RevokeOtherSessions(c *gin.Context) {
	n, err := service.RevokeOtherSessions(c.Request.Context(), middleware.UserID(c), middleware.SessionToken(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, gin.H{"revoked": n})
}

func Verify(c *gin.Context) {
	var req lib.VerifyRequest
	if verr := utils.BindJson(c, &req); verr != nil {
		utils.RespondError(c, verr)
		return
	}

	record, err := service.UseVerificationToken(c.Request.Context(), req.Identifier, req.Token)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, gin.H{"identifier": record.Identifier, "verified": true})
}

func CreateVerificationToken(c *gin.Context) {
	var req lib.VerificationTokenRequest
	if verr := utils.BindJson(c, &req); verr != nil {
		utils.RespondError(c, verr)
		return
	}

	ttl := time.Duration(req.TTLMinutes) * time.Minute
	token, err := service.CreateVerificationToken(c.Request.Context(), req.Identifier, ttl)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusCreated, gin.H{"identifier": req.Identifier, "token": token})
}

// OAuthSignIn is the trusted adapter entry point for provider sign-ins.
func OAuthSignIn(c *gin.Context) {
	var req lib.OAuthSignInRequest
	if verr := utils.BindJson(c, &req); verr != nil {
		utils.RespondError(c, verr)
		return
	}

	session, user, created, err := service.SignInWithAccount(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	utils.RespondData(c, status, gin.H{"session": session, "token": session.SessionToken, "user": user, "created": created})
}

func ListAccounts(c *gin.Context) {
	accounts, err := service.GetAccountsForUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, accounts)
}

func LinkAccount(c *gin.Context) {
	var req lib.LinkAccountRequest
	if verr := utils.BindJson(c, &req); verr != nil {
		utils.RespondError(c, verr)
		return
	}

	account, err := service.LinkAccount(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusCreated, account)
}

func UnlinkAccount(c *gin.Context) {
	err := service.UnlinkAccount(c.Request.Context(), middleware.UserID(c), c.Param("provider"), c.Param("providerAccountId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
