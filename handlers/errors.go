package handlers

import (
	"errors"

	"trustmission-platform/services"
	"trustmission-platform/utils"

	"github.com/gofiber/fiber/v2"
)

// serviceError maps engine validation failures onto HTTP statuses. Anything
// unrecognized is a 500 and gets logged.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrAlreadyCompleted),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrQuizContentLocked):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrQuizLocked),
		errors.Is(err, services.ErrInvalidQuiz),
		errors.Is(err, services.ErrBelowMinimumWithdrawal),
		errors.Is(err, services.ErrInsufficientBalance),
		errors.Is(err, services.ErrUnderage),
		errors.Is(err, services.ErrMissionsIncomplete),
		errors.Is(err, services.ErrAppointmentsDisabled),
		errors.Is(err, services.ErrReferralCapReached):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrCodeGenerationExhausted):
		utils.Sugar.Errorw("referral code generation exhausted", "path", c.Path())
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	default:
		utils.Sugar.Errorw("unhandled service error", "path", c.Path(), "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}
