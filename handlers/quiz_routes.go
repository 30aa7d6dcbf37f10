package handlers

import (
	"time"

	"trustmission-platform/middleware"
	"trustmission-platform/models"
	"trustmission-platform/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func SetupQuizRoutes(
	app *fiber.App,
	accounts *services.AccountService,
	quizzes *services.QuizService,
	attempts *services.AttemptService,
) {
	secured := app.Group("/user", middleware.UserContextMiddleware())

	secured.Get("/quizzes", func(c *fiber.Ctx) error {
		accountID := c.Locals("account_id").(string)
		account, err := accounts.GetByID(accountID)
		if err != nil {
			return serviceError(c, err)
		}
		overview, err := quizzes.OverviewForAccount(account)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(overview)
	})

	// Quiz content for the runner. Questions come back without correct
	// answers; only available quizzes may be opened.
	secured.Get("/quizzes/:id", func(c *fiber.Ctx) error {
		accountID := c.Locals("account_id").(string)
		quizID := c.Params("id")
		if _, err := uuid.Parse(quizID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid quiz id"})
		}

		account, err := accounts.GetByID(accountID)
		if err != nil {
			return serviceError(c, err)
		}
		quiz, err := quizzes.GetByID(quizID)
		if err != nil {
			return serviceError(c, err)
		}
		if !quiz.Active {
			return serviceError(c, services.ErrInvalidQuiz)
		}

		status := services.DeriveQuizStatus(account, quiz, false, time.Now())
		if status == models.QuizStatusLocked {
			return serviceError(c, services.ErrQuizLocked)
		}

		return c.JSON(quiz)
	})

	secured.Post("/quizzes/:id/submit", func(c *fiber.Ctx) error {
		accountID := c.Locals("account_id").(string)
		quizID := c.Params("id")
		if _, err := uuid.Parse(quizID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid quiz id"})
		}

		var req struct {
			Answers []int `json:"answers"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		result, err := attempts.SubmitAttempt(accountID, quizID, req.Answers)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(result)
	})

	secured.Get("/attempts", func(c *fiber.Ctx) error {
		accountID := c.Locals("account_id").(string)
		list, err := attempts.AttemptsForAccount(accountID)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(list)
	})
}
