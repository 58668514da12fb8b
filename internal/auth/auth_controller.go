package auth

import (
	"crypto/subtle"
	"net/http"

	"github.com/DhavalSuthar-24/cricksim/config"
	"github.com/DhavalSuthar-24/cricksim/pkg/matchresponse"
	"github.com/DhavalSuthar-24/cricksim/pkg/token"
	"github.com/DhavalSuthar-24/cricksim/utils"
	"github.com/gin-gonic/gin"
)

// AuthController issues operator tokens for the simulation trigger API.
type AuthController struct {
	appConfig *config.Config
}

func NewAuthController(appConfig *config.Config) *AuthController {
	return &AuthController{appConfig: appConfig}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Login godoc
// @Summary Operator login
// @Description Exchanges operator credentials for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Operator credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} matchresponse.ErrorBody "Invalid input"
// @Failure 401 {object} matchresponse.ErrorBody "Invalid credentials"
// @Router /auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		matchresponse.ValidationErrorResponse(c, err)
		return
	}

	op := ac.appConfig.Operator
	userMatch := subtle.ConstantTimeCompare([]byte(req.Username), []byte(op.Username)) == 1
	if !userMatch || !utils.CheckPassword(op.PasswordHash, req.Password) {
		matchresponse.ErrorResponse(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	expiry := ac.appConfig.JWT.AccessTokenExpiryMinutes
	accessToken, err := token.GenerateJWT(op.Username, token.RoleOperator, ac.appConfig.JWT.AccessTokenSecret, expiry)
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, "Failed to issue token: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   expiry * 60,
	})
}
