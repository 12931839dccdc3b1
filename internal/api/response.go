package api

import "github.com/gin-gonic/gin"

// Messages rendered to the user. They are part of the observable behaviour of the site.
const (
	MsgNotReady         = "Where is your proof? You cannot do any operations without proof."
	MsgRegistered       = "Register successfully added."
	MsgUserExists       = "User name is already existing."
	MsgRegisterError    = "Error in register."
	MsgWrongPassword    = "Password is wrong, please try again."
	MsgUserNotExisting  = "User is not existing, please try again."
	MsgLoginGreeting    = "o(*￣▽￣*)ブ"
	MsgLoginFirst       = "Please log in first."
	MsgClicked          = "So, what are you watching?"
	MsgAdvertGone       = "This Advert is gone."
	MsgPublished        = "Successfully published."
	MsgInvalidImage     = "Only jpg, jpeg and png images can be published."
	MsgImageTooLarge    = "The image is too large."
	MsgInternalError    = "Internal server error"
	MsgInvalidParameter = "Invalid request parameters"
)

// Response is the envelope of every JSON answer.
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{Status: status, Message: message, Data: data})
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Response{Status: status, Message: message})
}
