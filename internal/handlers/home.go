package handlers

import (
	"context"
	"net/http"

	"github.com/mpilhlt/ecobrd/internal/models"

	huma "github.com/danielgtaylor/huma/v2"
)

// Banner is the plain-text body served at the root path.
const Banner = "EcoCart + BRD Backend Running"

func getHomeFunc(ctx context.Context, input *models.HomeRequest) (*models.HomeResponse, error) {
	return &models.HomeResponse{
		ContentType: "text/plain; charset=utf-8",
		Body:        []byte(Banner),
	}, nil
}

// RegisterHomeRoutes registers the liveness banner
func RegisterHomeRoutes(api huma.API) error {
	getHomeOp := huma.Operation{
		OperationID: "getHome",
		Method:      http.MethodGet,
		Path:        "/",
		Summary:     "Report that the backend is running",
		Tags:        []string{"home"},
	}
	huma.Register(api, getHomeOp, getHomeFunc)
	return nil
}
