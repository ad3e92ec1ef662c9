package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rijista/registrar/internal/domain"
)

// registerRequest is the envelope for every registration step.
type registerRequest struct {
	Step int             `json:"step"`
	Data json.RawMessage `json:"data"`
}

type step2Data struct {
	RegistrationID string `json:"registrationId"`
	domain.NFTMetadataInput
}

type stepIDData struct {
	RegistrationID string `json:"registrationId"`
}

// Register dispatches one step of the four-step registration workflow.
func (h *Handler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return registerError(c, req.Step, errors.New("invalid request body"))
	}

	ctx := c.Request().Context()
	log.Printf("INFO: processing registration step %d", req.Step)

	switch domain.RegistrationStep(req.Step) {
	case domain.StepIPMetadata:
		var data domain.IPMetadataInput
		if err := json.Unmarshal(req.Data, &data); err != nil {
			return registerError(c, req.Step, errors.New("invalid step 1 payload"))
		}
		registrationID, err := h.service.StepIPMetadata(ctx, data)
		if err != nil {
			return registerError(c, req.Step, err)
		}
		return registerOK(c, registrationID, "IP metadata registered successfully", nil)

	case domain.StepNFTMetadata:
		var data step2Data
		if err := json.Unmarshal(req.Data, &data); err != nil {
			return registerError(c, req.Step, errors.New("invalid step 2 payload"))
		}
		if data.RegistrationID == "" {
			return registerError(c, req.Step, errors.New("Registration ID is required for this step"))
		}
		if err := h.service.StepNFTMetadata(ctx, data.RegistrationID, data.NFTMetadataInput); err != nil {
			return registerError(c, req.Step, err)
		}
		return registerOK(c, data.RegistrationID, "NFT metadata registered successfully", nil)

	case domain.StepUpload:
		var data stepIDData
		if err := json.Unmarshal(req.Data, &data); err != nil {
			return registerError(c, req.Step, errors.New("invalid step 3 payload"))
		}
		if data.RegistrationID == "" {
			return registerError(c, req.Step, errors.New("Registration ID is required for this step"))
		}
		if err := h.service.StepUpload(ctx, data.RegistrationID); err != nil {
			return registerError(c, req.Step, err)
		}
		return registerOK(c, data.RegistrationID, "Metadata uploaded to IPFS successfully", nil)

	case domain.StepOnChain:
		var data stepIDData
		if err := json.Unmarshal(req.Data, &data); err != nil {
			return registerError(c, req.Step, errors.New("invalid step 4 payload"))
		}
		if data.RegistrationID == "" {
			return registerError(c, req.Step, errors.New("Registration ID is required for this step"))
		}
		result, err := h.service.StepOnChain(ctx, data.RegistrationID)
		if err != nil {
			return registerError(c, req.Step, err)
		}
		return registerOK(c, data.RegistrationID, "IP Asset registered successfully", map[string]interface{}{
			"Transaction Hash":  result.TxHash,
			"IPA ID":            result.IPAssetID,
			"License Terms IDs": result.LicenseTermsIDs,
			"Explorer URL":      result.ExplorerURL,
		})

	default:
		return registerError(c, req.Step, domain.ErrInvalidStep)
	}
}

// registerOK writes the success envelope shared by all steps. extra carries
// step 4's on-chain identifiers.
func registerOK(c echo.Context, registrationID, message string, extra map[string]interface{}) error {
	data := map[string]interface{}{
		"message":        message,
		"registrationId": registrationID,
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range extra {
		data[k] = v
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    stringifyNumbers(data),
	})
}

func registerError(c echo.Context, step int, err error) error {
	log.Printf("ERROR: registration step %d failed: %v", step, err)
	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"success": false,
		"error":   err.Error(),
		"step":    step,
	})
}
