package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rijista/registrar/internal/adapter/yakoa"
	"github.com/rijista/registrar/internal/service"
)

type protectRequest struct {
	RegistrationID   string `json:"registrationId"`
	RegistrationData struct {
		TokenID   string                 `json:"tokenId"`
		CreatorID string                 `json:"creatorId"`
		TxHash    string                 `json:"txHash"`
		Metadata  map[string]interface{} `json:"metadata"`
		Media     []yakoa.Media          `json:"media"`
	} `json:"registrationData"`
}

// Protect registers an already-minted IP asset with the Yakoa protection
// service.
func (h *Handler) Protect(c echo.Context) error {
	var req protectRequest
	if err := c.Bind(&req); err != nil {
		return protectError(c, errors.New("invalid request body"), "")
	}
	if req.RegistrationData.TokenID == "" || req.RegistrationData.CreatorID == "" {
		return protectError(c, errors.New("tokenId and creatorId are required"), "")
	}

	result, err := h.service.Protect(c.Request().Context(), service.ProtectRequest{
		RegistrationID: req.RegistrationID,
		TokenID:        req.RegistrationData.TokenID,
		CreatorID:      req.RegistrationData.CreatorID,
		TxHash:         req.RegistrationData.TxHash,
		Metadata:       req.RegistrationData.Metadata,
		Media:          req.RegistrationData.Media,
	})
	if err != nil {
		return protectError(c, errors.New("failed to register with protection service"), err.Error())
	}

	message := "IP asset protected successfully"
	if result.IsFallback {
		message = "IP asset provisionally protected"
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"message":       message,
			"yakoaTokenId":  result.TokenID,
			"protectedAt":   result.ProtectedAt,
			"metadata":      stringifyNumbers(result.Metadata),
			"infringements": result.Infringements,
			"attempts":      result.Attempts,
			"isFallback":    result.IsFallback,
		},
	})
}

func protectError(c echo.Context, err error, details string) error {
	log.Printf("ERROR: protection request failed: %v (%s)", err, details)
	resp := map[string]interface{}{
		"success": false,
		"error":   err.Error(),
	}
	if details != "" {
		resp["details"] = details
	}
	return c.JSON(http.StatusInternalServerError, resp)
}
