package user

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"user-manager-backend/internal/mailer"
)

type Handler struct {
	service    *Service
	analytics  *Analytics
	dispatcher *mailer.Dispatcher
}

type createRequest struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Location Location `json:"location"`
	Gender   string   `json:"gender"`
}

// updateRequest uses pointer fields so absent keys leave the stored value
// untouched.
type updateRequest struct {
	Name     *string   `json:"name,omitempty"`
	Email    *string   `json:"email,omitempty"`
	Phone    *string   `json:"phone,omitempty"`
	Location *Location `json:"location,omitempty"`
	Gender   *string   `json:"gender,omitempty"`
}

type notifyRequest struct {
	Emails  []string `json:"emails"`
	Subject string   `json:"subject"`
	Message string   `json:"message"`
}

func NewHandler(service *Service, analytics *Analytics, dispatcher *mailer.Dispatcher) *Handler {
	return &Handler{service: service, analytics: analytics, dispatcher: dispatcher}
}

func (h *Handler) RegisterRoutes(app *fiber.App) {
	// specific paths first so they are matched before the :id parameter
	app.Post("/api/users", h.createUser)
	app.Get("/api/users", h.getUsers)
	app.Get("/api/users/analytics/users-by-location", h.usersByLocation)
	app.Get("/api/users/analytics/dashboard", h.dashboard)
	app.Post("/api/users/notify", h.notifyUsers)
	app.Get("/api/users/:id", h.getUser)
	app.Put("/api/users/:id", h.updateUser)
	app.Delete("/api/users/:id", h.deleteUser)
}

func (h *Handler) createUser(c *fiber.Ctx) error {
	payload := new(createRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	created, err := h.service.Create(User{
		Name:     payload.Name,
		Email:    payload.Email,
		Phone:    payload.Phone,
		Location: payload.Location,
		Gender:   payload.Gender,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFields), errors.Is(err, ErrInvalidGender):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		case errors.Is(err, ErrEmailExists):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) getUsers(c *fiber.Ctx) error {
	query := ListQuery{
		Search: c.Query("q"),
		Page:   c.QueryInt("page", defaultPage),
		Limit:  c.QueryInt("limit", defaultLimit),
	}

	users, total, err := h.service.List(query)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": users, "total": total})
}

func (h *Handler) getUser(c *fiber.Ctx) error {
	user, err := h.service.GetByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
		}
		return err
	}

	return c.JSON(user)
}

func (h *Handler) updateUser(c *fiber.Ctx) error {
	payload := new(updateRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	updated, err := h.service.Update(c.Params("id"), UpdateFields{
		Name:     payload.Name,
		Email:    payload.Email,
		Phone:    payload.Phone,
		Location: payload.Location,
		Gender:   payload.Gender,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
		case errors.Is(err, ErrMissingFields), errors.Is(err, ErrInvalidGender):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		case errors.Is(err, ErrEmailExists):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
		}
		return err
	}

	return c.JSON(updated)
}

func (h *Handler) deleteUser(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Params("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
		}
		return err
	}

	return c.JSON(fiber.Map{"message": "User deleted"})
}

func (h *Handler) notifyUsers(c *fiber.Ctx) error {
	payload := new(notifyRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	summary, err := h.dispatcher.Dispatch(payload.Emails, payload.Subject, payload.Message)
	if err != nil {
		if errors.Is(err, mailer.ErrNoRecipients) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "No recipient emails provided"})
		}
		return err
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Notifications sent. Success: %d, Failed: %d", summary.Sent, summary.Failed),
		"details": summary.Results,
	})
}

func (h *Handler) usersByLocation(c *fiber.Ctx) error {
	breakdown, err := h.analytics.UsersByLocation()
	if err != nil {
		return err
	}

	return c.JSON(breakdown)
}

func (h *Handler) dashboard(c *fiber.Ctx) error {
	dashboard, err := h.analytics.Dashboard()
	if err != nil {
		return err
	}

	return c.JSON(dashboard)
}
