package videolink

import (
	"context"
	"fmt"
	"mentorship-service/internal/app/contracts"
	"mentorship-service/internal/app/models"
	"strings"
)

type placeholderGenerator struct {
	BaseUrl string
}

// NewPlaceholderGenerator builds deterministic meeting links until a conferencing provider is integrated.
func NewPlaceholderGenerator(baseUrl string) contracts.VideoLinkGenerator {
	return &placeholderGenerator{BaseUrl: strings.TrimRight(baseUrl, "/")}
}

func (g *placeholderGenerator) Generate(ctx context.Context, session *models.Session) (string, error) {
	return fmt.Sprintf("%s/%s", g.BaseUrl, session.ID), nil
}
