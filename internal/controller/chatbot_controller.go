package controller

import (
	"errors"
	"strconv"

	"pregnancy-nutrition-be/internal/dto"
	"pregnancy-nutrition-be/internal/pkg/serverutils"
	"pregnancy-nutrition-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatbotController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
	Suggestions(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type chatbotController struct {
	chatbotService service.IChatbotService
}

func NewChatbotController(chatbotService service.IChatbotService) IChatbotController {
	return &chatbotController{
		chatbotService: chatbotService,
	}
}

func (c *chatbotController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chatbot/v1", serverutils.ClientIDMiddleware)
	h.Post("/ask", c.Ask)
	h.Get("/suggestions", c.Suggestions)
	h.Get("/stats", c.Stats)
	h.Get("/health", c.Health)
}

// Ask answers a nutrition question
// @Summary Ask a pregnancy nutrition question
// @Tags Chatbot
// @Accept json
// @Produce json
// @Param request body dto.AskRequest true "Question and optional context"
// @Success 200 {object} dto.AskResponse
// @Failure 429 {object} dto.RateLimitedResponse
// @Router /api/chatbot/v1/ask [post]
func (c *chatbotController) Ask(ctx *fiber.Ctx) error {
	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewClientError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatbotService.Ask(ctx.UserContext(), serverutils.ClientID(ctx), &req)
	if err != nil {
		var rl *dto.RateLimitedError
		if errors.As(err, &rl) {
			ctx.Set(fiber.HeaderRetryAfter, strconv.Itoa(rl.RetryAfterSeconds))
			return ctx.Status(fiber.StatusTooManyRequests).JSON(dto.RateLimitedResponse{
				Success:   false,
				Code:      fiber.StatusTooManyRequests,
				Message:   "Too many questions, please wait a minute and try again",
				ErrorType: "rate_limited",
				Data: dto.RateLimitedData{
					Limit:             rl.Limit,
					Remaining:         rl.Remaining,
					RetryAfterSeconds: rl.RetryAfterSeconds,
					RateLimited:       true,
				},
			})
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Answer resolved", res))
}

func (c *chatbotController) Suggestions(ctx *fiber.Ctx) error {
	res, err := c.chatbotService.Suggestions(ctx.UserContext(), ctx.Query("trimester"), ctx.Query("region"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Suggestions retrieved", res))
}

func (c *chatbotController) Stats(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Stats retrieved", c.chatbotService.Stats(ctx.UserContext())))
}

func (c *chatbotController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Healthy", c.chatbotService.Health(ctx.UserContext())))
}
