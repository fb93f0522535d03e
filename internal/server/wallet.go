package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func (s *Server) GetClientWallet(c *gin.Context) {
	clientID, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, gorm.ErrRecordNotFound)
		return
	}

	resp, err := s.walletSvc.Summary(c.Request.Context(), clientID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
