package controller

import (
	"civics-tutor-be/internal/dto"
	"civics-tutor-be/internal/pkg/serverutils"
	"civics-tutor-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAssistantController interface {
	RegisterRoutes(r fiber.Router)
	Search(ctx *fiber.Ctx) error
	SearchInfo(ctx *fiber.Ctx) error
	EnhanceMessage(ctx *fiber.Ctx) error
	RandomQuestion(ctx *fiber.Ctx) error
	CheckAnswer(ctx *fiber.Ctx) error
}

type assistantController struct {
	searchService      service.ISearchService
	enhancementService service.IEnhancementService
}

func NewAssistantController(
	searchService service.ISearchService,
	enhancementService service.IEnhancementService,
) IAssistantController {
	return &assistantController{
		searchService:      searchService,
		enhancementService: enhancementService,
	}
}

func (c *assistantController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/assistant/v1")
	h.Post("search", c.Search)
	h.Get("search/info", c.SearchInfo)
	h.Post("enhance-message", c.EnhanceMessage)
	h.Get("random-question", c.RandomQuestion)
	h.Post("check-answer", c.CheckAnswer)
}

func (c *assistantController) Search(ctx *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	res, err := c.searchService.Search(ctx.Context(), req.Query, req.Limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Search results", res))
}

func (c *assistantController) SearchInfo(ctx *fiber.Ctx) error {
	res, err := c.searchService.Info(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Corpus info", res))
}

func (c *assistantController) EnhanceMessage(ctx *fiber.Ctx) error {
	var req dto.EnhanceMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	res, err := c.enhancementService.Enhance(ctx.Context(), req.Message)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Enhanced message", res))
}

func (c *assistantController) RandomQuestion(ctx *fiber.Ctx) error {
	res, err := c.searchService.RandomQuestion(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Random question", res))
}

func (c *assistantController) CheckAnswer(ctx *fiber.Ctx) error {
	var req dto.CheckAnswerRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	res, err := c.searchService.CheckAnswer(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Answer checked", res))
}
