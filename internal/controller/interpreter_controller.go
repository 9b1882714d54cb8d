package controller

import (
	"github.com/gofiber/fiber/v2"

	"doc-qa-be/internal/dto"
	"doc-qa-be/internal/pkg/apperror"
	"doc-qa-be/internal/pkg/serverutils"
	"doc-qa-be/internal/service"
)

type IInterpreterController interface {
	RegisterRoutes(r fiber.Router)
	Interpret(ctx *fiber.Ctx) error
}

type interpreterController struct {
	interpreterService service.IInterpreterService
}

func NewInterpreterController(interpreterService service.IInterpreterService) IInterpreterController {
	return &interpreterController{
		interpreterService: interpreterService,
	}
}

func (c *interpreterController) RegisterRoutes(r fiber.Router) {
	r.Post("/interpret", c.Interpret)
}

func (c *interpreterController) Interpret(ctx *fiber.Ctx) error {
	var req dto.InterpretRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.interpreterService.Interpret(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}
