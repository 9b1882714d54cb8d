package controller

import (
	"github.com/gofiber/fiber/v2"

	"doc-qa-be/internal/dto"
	"doc-qa-be/internal/pkg/apperror"
	"doc-qa-be/internal/pkg/serverutils"
	"doc-qa-be/internal/service"
)

type IQueryController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
}

type queryController struct {
	ragService service.IRagService
}

func NewQueryController(ragService service.IRagService) IQueryController {
	return &queryController{
		ragService: ragService,
	}
}

func (c *queryController) RegisterRoutes(r fiber.Router) {
	r.Post("/ask", c.Ask)
}

func (c *queryController) Ask(ctx *fiber.Ctx) error {
	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.ragService.Ask(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}
