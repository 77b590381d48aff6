package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/barterqween/barter-api/internal/infrastructure/storage/cloudinary"
)

// UploadSigner produces signed direct-upload parameters for the blob store.
type UploadSigner interface {
	SignUpload(userID string) cloudinary.UploadParams
}

// UploadHandler hands out upload signatures so clients can push images
// straight to the blob store without the API secret ever leaving the server.
type UploadHandler struct {
	signer UploadSigner
}

func NewUploadHandler(signer UploadSigner) *UploadHandler {
	return &UploadHandler{signer: signer}
}

// Signature handles POST /v1/uploads/signature.
//
// @Summary      Get signed parameters for a direct image upload
// @Tags         uploads
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  cloudinary.UploadParams
// @Failure      401  {object}  map[string]string
// @Router       /v1/uploads/signature [post]
func (h *UploadHandler) Signature(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.signer.SignUpload(userID))
}
