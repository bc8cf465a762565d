package api

import (
	"github.com/labstack/echo/v4"

	"CryptoDash/internal/domain/models"
	dservice "CryptoDash/internal/domain/service"
	xhttp "CryptoDash/pkg/http"
	"CryptoDash/pkg/util"
)

type MemeHandler struct {
	memes    dservice.MemeSource
	resolver AssetResolver
}

func NewMemeHandler(memes dservice.MemeSource, resolver AssetResolver) *MemeHandler {
	return &MemeHandler{memes: memes, resolver: resolver}
}

// Random picks a meme for ?assets=BTC,ETH, or for the user's own assets.
func (h *MemeHandler) Random(c echo.Context) error {
	id, err := currentUser(c)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	req := &models.MemeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	assets := util.SplitCSV(req.Assets)
	if len(assets) == 0 {
		assets = h.resolver.Resolve(c.Request().Context(), id).InterestedAssets
	}
	return xhttp.SuccessResponse(c, h.memes.Pick(assets))
}
