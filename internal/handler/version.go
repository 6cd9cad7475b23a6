package handler

import (
	"github.com/gin-gonic/gin"

	"fintrack/internal/util"
)

// Version is set at build time via -ldflags "-X fintrack/internal/handler.Version=...".
var Version = "dev"

func GetVersion(c *gin.Context) {
	util.Success(c, util.Response{"version": Version})
}
