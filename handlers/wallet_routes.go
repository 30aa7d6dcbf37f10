package handlers

import (
	"trustmission-platform/middleware"
	"trustmission-platform/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

func SetupWalletRoutes(
	app *fiber.App,
	withdrawals *services.WithdrawalService,
	appointments *services.AppointmentService,
) {
	secured := app.Group("/user", middleware.UserContextMiddleware())

	secured.Post("/withdrawals", func(c *fiber.Ctx) error {
		accountID := c.Locals("account_id").(string)

		var req struct {
			Amount        decimal.Decimal `json:"amount"`
			AccountHolder string          `json:"account_holder"`
			IBAN          string          `json:"iban"`
			BIC           string          `json:"bic"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		request, err := withdrawals.RequestWithdrawal(accountID, req.Amount, services.BankDetails{
			AccountHolder: req.AccountHolder,
			IBAN:          req.IBAN,
			BIC:           req.BIC,
		})
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(request)
	})

	secured.Get("/withdrawals", func(c *fiber.Ctx) error {
		accountID := c.Locals("account_id").(string)
		list, err := withdrawals.ListForAccount(accountID)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(list)
	})

	secured.Post("/appointments", func(c *fiber.Ctx) error {
		accountID := c.Locals("account_id").(string)

		var req struct {
			PreferredDate string `json:"preferred_date"`
			PreferredTime string `json:"preferred_time"`
			Message       string `json:"message"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		appointment, err := appointments.Book(accountID, req.PreferredDate, req.PreferredTime, req.Message)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(appointment)
	})

	secured.Get("/appointments", func(c *fiber.Ctx) error {
		accountID := c.Locals("account_id").(string)
		list, err := appointments.ListForAccount(accountID)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(list)
	})
}
