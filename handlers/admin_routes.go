package handlers

import (
	"trustmission-platform/middleware"
	"trustmission-platform/models"
	"trustmission-platform/services"
	"trustmission-platform/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func SetupAdminRoutes(
	app *fiber.App,
	accounts *services.AccountService,
	quizzes *services.QuizService,
	withdrawals *services.WithdrawalService,
	appointments *services.AppointmentService,
	settings *services.SettingsService,
) {
	admin := app.Group("/admin", middleware.UserContextMiddleware(), middleware.AdminRequired())

	// --- Users ---

	admin.Get("/users", func(c *fiber.Ctx) error {
		status := models.AccountStatus(c.Query("status"))
		list, err := accounts.ListByStatus(status)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(list)
	})

	admin.Post("/users/:id/approve", func(c *fiber.Ctx) error {
		account, err := accounts.Approve(c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(account)
	})

	admin.Post("/users/:id/reject", func(c *fiber.Ctx) error {
		if err := accounts.Reject(c.Params("id")); err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "account rejected"})
	})

	admin.Post("/users/:id/adjust-balance", func(c *fiber.Ctx) error {
		adminID := c.Locals("account_id").(string)

		var req struct {
			Amount decimal.Decimal `json:"amount"`
			Type   string          `json:"type"` // credit | debit
			Reason string          `json:"reason"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		account, err := accounts.AdjustBalance(c.Params("id"), req.Amount, req.Type, req.Reason, adminID)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(account)
	})

	// Short-lived download link for reviewing a stored KYC photo.
	admin.Get("/users/:id/kyc/:kind", func(c *fiber.Ctx) error {
		account, err := accounts.GetByID(c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}

		var key *string
		switch c.Params("kind") {
		case utils.KYCKindIDFront:
			key = account.KYCIDFrontKey
		case utils.KYCKindIDBack:
			key = account.KYCIDBackKey
		case utils.KYCKindSelfie:
			key = account.KYCSelfieKey
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown KYC photo kind"})
		}
		if key == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "photo not uploaded"})
		}

		url, err := utils.PresignKYCDownload(*key)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"download_url": url})
	})

	// --- Quiz catalog ---

	admin.Get("/quizzes", func(c *fiber.Ctx) error {
		list, err := quizzes.ListAll()
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(list)
	})

	admin.Post("/quizzes", func(c *fiber.Ctx) error {
		var req services.QuizInput
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		quiz, err := quizzes.CreateQuiz(req)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(quiz)
	})

	admin.Put("/quizzes/:id", func(c *fiber.Ctx) error {
		quizID := c.Params("id")
		if _, err := uuid.Parse(quizID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid quiz id"})
		}
		var req services.QuizInput
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		quiz, err := quizzes.UpdateQuiz(quizID, req)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(quiz)
	})

	// --- Withdrawals ---

	admin.Get("/withdrawals", func(c *fiber.Ctx) error {
		status := models.WithdrawalStatus(c.Query("status"))
		list, err := withdrawals.ListByStatus(status)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(list)
	})

	admin.Post("/withdrawals/:id/decide", func(c *fiber.Ctx) error {
		var req struct {
			Approved bool   `json:"approved"`
			Notes    string `json:"notes"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		request, err := withdrawals.Decide(c.Params("id"), req.Approved, req.Notes)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(request)
	})

	// --- Appointments ---

	admin.Get("/appointments", func(c *fiber.Ctx) error {
		status := models.AppointmentStatus(c.Query("status"))
		list, err := appointments.ListByStatus(status)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(list)
	})

	admin.Post("/appointments/:id/decide", func(c *fiber.Ctx) error {
		var req struct {
			Confirmed bool   `json:"confirmed"`
			Notes     string `json:"notes"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		appointment, err := appointments.Decide(c.Params("id"), req.Confirmed, req.Notes)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(appointment)
	})

	// --- Settings ---

	admin.Get("/settings", func(c *fiber.Ctx) error {
		snap, err := settings.Snapshot()
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(snap)
	})

	admin.Put("/settings", func(c *fiber.Ctx) error {
		var req map[string]string
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		for key, value := range req {
			if err := settings.Set(key, value); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "invalid setting",
					"key":   key,
				})
			}
		}
		snap, err := settings.Snapshot()
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(snap)
	})
}
