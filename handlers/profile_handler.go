package handlers

import (
	"github.com/gofiber/fiber/v2"

	"messenger-be/services"
)

type ProfileHandler struct {
	Users *services.UserService
}

type UpdateProfileRequest struct {
	About *string `json:"about" validate:"omitempty,max=1000"`
}

func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	user, err := h.Users.FindByID(userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if req.About != nil {
		if err := h.Users.UpdateAbout(userID, *req.About); err != nil {
			return respondError(c, err)
		}
	}

	user, err := h.Users.FindByID(userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

func (h *ProfileHandler) SearchUsers(c *fiber.Ctx) error {
	users, err := h.Users.SearchUsers(c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"users": users})
}
