package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apperrors "github.com/axellelanca/adtracker/internal/errors"
	"github.com/axellelanca/adtracker/internal/logger"
	"github.com/axellelanca/adtracker/internal/models"
	"github.com/axellelanca/adtracker/internal/readiness"
	"github.com/axellelanca/adtracker/internal/services"
)

// Deps groups what the handlers need. Everything is built once at startup.
type Deps struct {
	Auth           *services.AuthService
	Adverts        *services.AdvertService
	Gate           *readiness.Gate
	ImageDir       string
	CookieName     string
	CookieMaxAge   int
	SecureCookies  bool
	MaxUploadBytes int64
}

// SetupRoutes configures all Gin routes and injects the dependencies.
func SetupRoutes(router *gin.Engine, d Deps) {
	RegisterValidators()
	if d.MaxUploadBytes > 0 {
		router.MaxMultipartMemory = d.MaxUploadBytes
	}

	router.Use(RequestLogger(), Metrics())

	router.GET("/health", HealthCheckHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.Static("/static", d.ImageDir)
	router.GET("/", LoadIdentity(d.Auth, d.CookieName), HomeHandler(d.Adverts))
	router.GET("/home", LoadIdentity(d.Auth, d.CookieName), HomeHandler(d.Adverts))

	// Toute opération exige la preuve, avant même de lire la session
	gated := router.Group("/", RequireReady(d.Gate), CSRF(d.SecureCookies), LoadIdentity(d.Auth, d.CookieName))
	{
		gated.GET("/register", FormHandler(""))
		gated.POST("/register", RegisterHandler(d.Auth))
		gated.GET("/login", LoginFormHandler)
		gated.GET("/login/:iflogged", LoginFormHandler)
		gated.POST("/login", LoginHandler(d))
		gated.POST("/login/:iflogged", LoginHandler(d))
		gated.GET("/logout", LogoutHandler(d))
		gated.GET("/advert/:id", ClickHandler(d.Adverts))

		member := gated.Group("/", RequireLogin())
		member.GET("/list", ListHandler(d.Adverts))
		member.GET("/publish", FormHandler(""))
		member.POST("/publish", PublishHandler(d.Adverts))
	}
}

// HealthCheckHandler handles the /health route to verify service status
func HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// FormHandler answers the GET side of a form route with the token the form must post back.
func FormHandler(msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		respond(c, http.StatusOK, msg, csrfData(c))
	}
}

type homeImage struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

// HomeHandler lists the advertisement images and the login state.
func HomeHandler(adverts *services.AdvertService) gin.HandlerFunc {
	return func(c *gin.Context) {
		images, err := adverts.Gallery()
		if err != nil {
			_ = c.Error(err)
			respond(c, http.StatusInternalServerError, MsgInternalError, nil)
			return
		}

		gallery := make([]homeImage, 0, len(images))
		for _, img := range images {
			gallery = append(gallery, homeImage{ID: img.ID, Path: "/static/" + img.File})
		}

		id := identity(c)
		data := gin.H{"images": gallery, "logged": !id.Anonymous()}
		if !id.Anonymous() {
			data["username"] = id.Username
		}
		respond(c, http.StatusOK, "", data)
	}
}

// RegisterRequest is the registration form.
type RegisterRequest struct {
	Username    string `form:"username" json:"username" binding:"required,max=64"`
	Password    string `form:"password" json:"password" binding:"required,max=128"`
	PhoneNumber string `form:"phone_number" json:"phone_number" binding:"required,phone"`
}

// RegisterHandler creates an account.
func RegisterHandler(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBind(&req); err != nil {
			respond(c, http.StatusBadRequest, MsgInvalidParameter, gin.H{"error": err.Error()})
			return
		}

		err := auth.Register(c.Request.Context(), services.RegisterRequest{
			Username:      req.Username,
			Password:      req.Password,
			PhoneNumber:   req.PhoneNumber,
			OriginAddress: c.ClientIP(),
		})
		switch {
		case err == nil:
			respond(c, http.StatusOK, MsgRegistered, nil)
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			respond(c, http.StatusConflict, MsgUserExists, nil)
		default:
			_ = c.Error(err)
			respond(c, http.StatusInternalServerError, MsgRegisterError, nil)
		}
	}
}

// LoginFormHandler answers GET /login. /login/1 is where RequireLogin sends anonymous callers.
func LoginFormHandler(c *gin.Context) {
	msg := MsgLoginGreeting
	if c.Param("iflogged") == "1" {
		msg = MsgLoginFirst
	}
	respond(c, http.StatusOK, msg, csrfData(c))
}

// LoginRequest is the login form.
type LoginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// LoginHandler opens a session and redirects home.
func LoginHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBind(&req); err != nil {
			respond(c, http.StatusBadRequest, MsgInvalidParameter, gin.H{"error": err.Error()})
			return
		}

		token, err := d.Auth.Login(c.Request.Context(), req.Username, req.Password)
		switch {
		case err == nil:
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(d.CookieName, token, d.CookieMaxAge, "/", "", d.SecureCookies, true)
			c.Redirect(http.StatusFound, "/home")
		case errors.Is(err, apperrors.ErrWrongPassword):
			respond(c, http.StatusUnauthorized, MsgWrongPassword, nil)
		case errors.Is(err, apperrors.ErrUserNotFound):
			respond(c, http.StatusUnauthorized, MsgUserNotExisting, nil)
		default:
			_ = c.Error(err)
			respond(c, http.StatusInternalServerError, MsgInternalError, nil)
		}
	}
}

// LogoutHandler closes the session, clears the cookie and redirects home.
func LogoutHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(d.CookieName)
		if err := d.Auth.Logout(c.Request.Context(), token); err != nil {
			_ = c.Error(err)
		}
		c.SetCookie(d.CookieName, "", -1, "/", "", d.SecureCookies, true)
		c.Redirect(http.StatusFound, "/home")
	}
}

// ClickHandler runs the click workflow for /advert/:id.
func ClickHandler(adverts *services.AdvertService) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("id")
		res, err := adverts.Click(c.Request.Context(), services.ClickRequest{
			Name:          name,
			Identity:      identity(c),
			OriginAddress: c.ClientIP(),
		})
		switch {
		case err == nil:
			respond(c, http.StatusOK, MsgClicked, gin.H{
				"advertisement": res.Advertisement,
				"operation":     operationView(res.Operation),
			})
		case errors.Is(err, apperrors.ErrBudgetExhausted):
			respond(c, http.StatusOK, MsgAdvertGone, nil)
		case errors.Is(err, apperrors.ErrAdvertisementNotFound):
			respond(c, http.StatusNotFound, MsgAdvertGone, nil)
		default:
			logger.Log.Error("click failed", zap.String("advertisement", name), zap.Error(err))
			respond(c, http.StatusInternalServerError, MsgInternalError, nil)
		}
	}
}

type operation struct {
	ID                uint   `json:"id"`
	AdvertisementName string `json:"advertisement_name"`
	ActingUser        string `json:"acting_user"`
	ProofReference    string `json:"proof_reference"`
	OriginAddress     string `json:"origin_address"`
	ClickTime         string `json:"click_time"`
}

func operationView(op models.ClickOperation) operation {
	return operation{
		ID:                op.ID,
		AdvertisementName: op.AdvertisementName,
		ActingUser:        op.ActingUser,
		ProofReference:    op.ProofReference,
		OriginAddress:     op.OriginAddress,
		ClickTime:         op.ClickTime(),
	}
}

// ListHandler dumps users, advertisements and click operations.
func ListHandler(adverts *services.AdvertService) gin.HandlerFunc {
	return func(c *gin.Context) {
		overview, err := adverts.Overview(c.Request.Context())
		if err != nil {
			_ = c.Error(err)
			respond(c, http.StatusInternalServerError, MsgInternalError, nil)
			return
		}

		ops := make([]operation, 0, len(overview.Operations))
		for _, op := range overview.Operations {
			ops = append(ops, operationView(op))
		}
		respond(c, http.StatusOK, "", gin.H{
			"users":      overview.Users,
			"adverts":    overview.Advertisements,
			"operations": ops,
		})
	}
}

// PublishHandler stores the uploaded advert_image and opens its ledger row.
func PublishHandler(adverts *services.AdvertService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header, err := c.FormFile("advert_image")
		if err != nil {
			respond(c, http.StatusBadRequest, MsgInvalidParameter, gin.H{"error": err.Error()})
			return
		}
		file, err := header.Open()
		if err != nil {
			_ = c.Error(err)
			respond(c, http.StatusInternalServerError, MsgInternalError, nil)
			return
		}
		defer file.Close()

		ad, err := adverts.Publish(c.Request.Context(), services.PublishRequest{
			Filename: header.Filename,
			Content:  file,
			Identity: identity(c),
		})
		switch {
		case err == nil:
			respond(c, http.StatusCreated, MsgPublished, ad)
		case errors.Is(err, apperrors.ErrInvalidImageFormat):
			respond(c, http.StatusBadRequest, MsgInvalidImage, nil)
		case errors.Is(err, apperrors.ErrImageTooLarge):
			respond(c, http.StatusRequestEntityTooLarge, MsgImageTooLarge, nil)
		default:
			_ = c.Error(err)
			respond(c, http.StatusInternalServerError, MsgInternalError, nil)
		}
	}
}
