package handlers

import (
	"strconv"
	"time"

	"trustmission-platform/middleware"
	"trustmission-platform/services"
	"trustmission-platform/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupAccountRoutes(
	app *fiber.App,
	accounts *services.AccountService,
	quizzes *services.QuizService,
	referrals *services.ReferralService,
	notifications *services.NotificationService,
	settings *services.SettingsService,
) {
	// Registration arrives through the gateway before a user context exists.
	app.Post("/register", func(c *fiber.Ctx) error {
		var req struct {
			FirstName        string `json:"first_name"`
			LastName         string `json:"last_name"`
			Email            string `json:"email"`
			Whatsapp         string `json:"whatsapp"`
			DateOfBirth      string `json:"date_of_birth"` // YYYY-MM-DD
			UsedReferralCode string `json:"used_referral_code"`
			ContractSigned   bool   `json:"contract_signed"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date_of_birth must be YYYY-MM-DD"})
		}

		account, err := accounts.Register(services.RegisterInput{
			FirstName:        req.FirstName,
			LastName:         req.LastName,
			Email:            req.Email,
			Whatsapp:         req.Whatsapp,
			DateOfBirth:      dob,
			UsedReferralCode: req.UsedReferralCode,
			ContractSigned:   req.ContractSigned,
		})
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(account)
	})

	secured := app.Group("/user", middleware.UserContextMiddleware())

	secured.Get("/me", func(c *fiber.Ctx) error {
		accountID := c.Locals("account_id").(string)
		account, err := accounts.GetByID(accountID)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(account)
	})

	// Dashboard composes every derived view in one place so the UI cannot
	// recompute unlock state on its own.
	secured.Get("/dashboard", func(c *fiber.Ctx) error {
		accountID := c.Locals("account_id").(string)
		account, err := accounts.GetByID(accountID)
		if err != nil {
			return serviceError(c, err)
		}

		overview, err := quizzes.OverviewForAccount(account)
		if err != nil {
			return serviceError(c, err)
		}

		stats, err := referrals.StatsForAccount(account)
		if err != nil {
			return serviceError(c, err)
		}

		snap, err := settings.Snapshot()
		if err != nil {
			return serviceError(c, err)
		}

		response := fiber.Map{
			"account":         account,
			"quizzes":         overview,
			"referrals":       stats,
			"support_contact": snap.SupportContact,
			"min_withdrawal":  snap.MinWithdrawal,
		}
		if account.MissionsCompleted {
			response["completion_message"] = snap.CompletionMessage
			response["appointment_enabled"] = snap.AppointmentEnabled
		}
		return c.JSON(response)
	})

	secured.Post("/kyc/upload-url", func(c *fiber.Ctx) error {
		accountID := c.Locals("account_id").(string)

		var req struct {
			Kind        string `json:"kind"` // id_front | id_back | selfie
			ContentType string `json:"content_type"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if !utils.StorageReady() {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "document storage not available"})
		}

		url, key, err := utils.PresignKYCUpload(accountID, req.Kind, req.ContentType)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"upload_url": url, "key": key})
	})

	secured.Put("/kyc/attach", func(c *fiber.Ctx) error {
		accountID := c.Locals("account_id").(string)

		var req struct {
			Kind string `json:"kind"`
			Key  string `json:"key"`
		}
		if err := c.BodyParser(&req); err != nil || req.Key == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "kind and key are required"})
		}
		if err := accounts.AttachKYCPhoto(accountID, req.Kind, req.Key); err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "OK"})
	})

	secured.Get("/notifications", func(c *fiber.Ctx) error {
		accountID := c.Locals("account_id").(string)
		limit, _ := strconv.Atoi(c.Query("limit", "20"))
		list, err := notifications.ListForAccount(accountID, limit)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(list)
	})

	secured.Post("/notifications/:id/read", func(c *fiber.Ctx) error {
		accountID := c.Locals("account_id").(string)
		if err := notifications.MarkRead(accountID, c.Params("id")); err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "OK"})
	})
}
