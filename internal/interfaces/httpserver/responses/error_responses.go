package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/fileflux/fileflux-manager-webapp/internal/utils/platformerrors"
)

// HandleError maps a domain error to its transport status once, centrally.
// Expected conditions keep their distinguishing message; unclassified
// failures collapse into a fixed 500 body and the detail is only logged.
func HandleError(reqCtx *gin.Context, log zerolog.Logger, err error, fallbackMessage string) {
	var platformErr *platformerrors.PlatformError
	if errors.As(err, &platformErr) {
		platformerrors.LogError(log, platformErr)

		message := platformErr.Message
		switch platformErr.Type {
		case platformerrors.ErrorTypeDatabaseError, platformerrors.ErrorTypeInternal:
			// Never leak store or node internals to the client.
			message = fallbackMessage
		}

		reqCtx.AbortWithStatusJSON(platformErr.HTTPStatus(), gin.H{"error": message})
		return
	}

	log.Error().Err(err).Msg("unclassified error")
	reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": fallbackMessage})
}
